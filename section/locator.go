package section

import (
	"bytes"
	"io"

	"github.com/berkus/repak/leb128"
)

// The locator is the tail of an attached-index archive. It encodes the
// distance L from end-of-file to the first byte of the index, and the
// bytes of the encoding are themselves part of that distance. L is the
// smallest value satisfying L = indexLen + len(leb128(L)), found by
// iterating the length estimate to its fixed point; a one-shot guess is
// wrong whenever L lands next to a ULEB width boundary.
//
// The encoding is written byte-reversed. A reader takes the last
// LocatorTailSize bytes of the file, reverses them, and decodes from the
// front; the decoder stops at the byte that originally terminated the
// forward encoding, so no fixed-size trailer is needed.

// LocatorValue computes L for an index of indexLen bytes.
func LocatorValue(indexLen uint64) uint64 {
	k := 1
	for {
		next := leb128.Len(indexLen + uint64(k))
		if next == k {
			return indexLen + uint64(k)
		}
		k = next
	}
}

// EmitLocator writes the reverse-encoded locator for an index of
// indexLen bytes and returns the number of bytes written.
func EmitLocator(w io.Writer, indexLen uint64) (int, error) {
	buf := leb128.Append(make([]byte, 0, leb128.MaxLen), LocatorValue(indexLen))
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}

	if err := writeAll(w, buf); err != nil {
		return 0, err
	}

	return len(buf), nil
}

// ReadLocator decodes L from the last bytes of an archive. tail holds up
// to LocatorTailSize bytes ending at end-of-file, in file order.
func ReadLocator(tail []byte) (uint64, error) {
	rev := make([]byte, len(tail))
	for i, b := range tail {
		rev[len(tail)-1-i] = b
	}

	return leb128.Read(bytes.NewReader(rev))
}
