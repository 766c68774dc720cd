package checksum

import (
	"github.com/go-faster/city"

	"github.com/berkus/repak/format"
)

func newCity() Hasher {
	return &bufHasher{
		kind: format.ChecksumCityHash,
		fn:   city.Hash64,
	}
}
