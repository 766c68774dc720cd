// Package leb128 implements the unsigned LEB128 integer codec used for
// every multi-byte integer in the REPAK wire format.
//
// Encoding and length prediction are backed by the multiformats varint
// implementation, which rejects truncated, overlong and overflowing
// encodings on decode. All decode failures surface as errs.ErrLeb128.
package leb128

import (
	"fmt"
	"io"

	"github.com/multiformats/go-varint"

	"github.com/berkus/repak/errs"
)

// MaxLen is the maximum encoded length of a LEB128 value in bytes.
const MaxLen = 10

// Len predicts the encoded length of v without allocating.
func Len(v uint64) int {
	return varint.UvarintSize(v)
}

// Append appends the LEB128 encoding of v to buf and returns the
// extended slice.
func Append(buf []byte, v uint64) []byte {
	var tmp [MaxLen]byte
	n := varint.PutUvarint(tmp[:], v)

	return append(buf, tmp[:n]...)
}

// Write encodes v to w and returns the number of bytes written.
func Write(w io.Writer, v uint64) (int, error) {
	var tmp [MaxLen]byte
	n := varint.PutUvarint(tmp[:], v)

	written, err := w.Write(tmp[:n])
	if err != nil {
		return written, fmt.Errorf("leb128 write: %w", err)
	}

	return written, nil
}

// Read decodes a single LEB128 value from r.
//
// The decoder consumes exactly the bytes of the encoding, stopping at the
// first byte with the continuation bit clear. Truncated input, values that
// do not fit, and non-minimal encodings fail with errs.ErrLeb128; an
// immediate end of input surfaces as io.EOF so that callers can detect a
// clean stream boundary.
func Read(r io.ByteReader) (uint64, error) {
	v, err := varint.ReadUvarint(r)
	if err != nil {
		if err == io.EOF {
			return 0, io.EOF
		}

		return 0, fmt.Errorf("%w: %s", errs.ErrLeb128, err)
	}

	return v, nil
}
