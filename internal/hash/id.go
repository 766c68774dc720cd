// Package hash computes the 64-bit entry-name IDs the archive engine
// keys its lookup map on.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of an entry name. IDs are lookup keys only
// and never reach the wire; colliding names fall back to comparing the
// names themselves.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}
