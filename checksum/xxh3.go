package checksum

import (
	"github.com/zeebo/xxh3"

	"github.com/berkus/repak/format"
)

// xxh3Hasher is the 64-bit XXH3 variant with an 8-byte digest.
type xxh3Hasher struct {
	h *xxh3.Hasher
}

func newXXH3() Hasher {
	return &xxh3Hasher{h: xxh3.New()}
}

func (h *xxh3Hasher) Write(p []byte) (int, error) {
	return h.h.Write(p)
}

func (h *xxh3Hasher) Kind() format.ChecksumKind {
	return format.ChecksumXxhash3
}

func (h *xxh3Hasher) Sum() []byte {
	return sum64(h.h.Sum64())
}
