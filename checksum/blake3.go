package checksum

import (
	"hash"

	"lukechampine.com/blake3"

	"github.com/berkus/repak/format"
)

// blake3Hasher is BLAKE3-256 with a 32-byte digest.
type blake3Hasher struct {
	hash.Hash
}

func newBLAKE3() Hasher {
	return &blake3Hasher{Hash: blake3.New(format.DigestSize(format.ChecksumBLAKE3), nil)}
}

func (h *blake3Hasher) Kind() format.ChecksumKind {
	return format.ChecksumBLAKE3
}

func (h *blake3Hasher) Sum() []byte {
	return h.Hash.Sum(nil)
}
