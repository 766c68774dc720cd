package checksum

import (
	"hash"

	"golang.org/x/crypto/sha3"

	"github.com/berkus/repak/format"
)

// sha3Hasher is SHA3-512, the reference checksum with a 64-byte digest.
type sha3Hasher struct {
	hash.Hash
}

func newSHA3() Hasher {
	return &sha3Hasher{Hash: sha3.New512()}
}

func (h *sha3Hasher) Kind() format.ChecksumKind {
	return format.ChecksumSHA3
}

func (h *sha3Hasher) Sum() []byte {
	return h.Hash.Sum(nil)
}
