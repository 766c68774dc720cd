package checksum

import (
	"github.com/dgryski/go-metro"

	"github.com/berkus/repak/format"
)

func newMetro() Hasher {
	return &bufHasher{
		kind: format.ChecksumMetroHash,
		fn: func(data []byte) uint64 {
			return metro.Hash64(data, 0)
		},
	}
}
