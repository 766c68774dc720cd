// Package section implements the wire codecs of the REPAK container:
// the index header and its entries, the optional checksum, compression
// and encryption sub-headers, and the reverse-encoded index locator.
//
// Every header type follows the same contract: a Ser method writing the
// canonical bytes to an io.Writer, and a package-level Deser function
// reading and validating them from an io.Reader. Both are synchronous,
// strict (no padding, no alignment) and non-buffering; buffering is the
// caller's responsibility.
package section

import (
	"io"
)

// Ser is implemented by every header type that knows how to write its
// canonical wire representation.
type Ser interface {
	Ser(w io.Writer) error
}

// reader is the source contract deserialization runs against. Varint
// fields need byte-at-a-time access; everything else reads in bulk.
type reader interface {
	io.Reader
	io.ByteReader
}

// asReader adapts r without adding buffering, so that deserialization
// consumes exactly the bytes of the value being read.
func asReader(r io.Reader) reader {
	if br, ok := r.(reader); ok {
		return br
	}

	return &unbufferedReader{r: r}
}

type unbufferedReader struct {
	r io.Reader
}

func (u *unbufferedReader) Read(p []byte) (int, error) {
	return u.r.Read(p)
}

func (u *unbufferedReader) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(u.r, b[:]); err != nil {
		return 0, err
	}

	return b[0], nil
}

// writeAll writes b fully, reporting short writes as errors.
func writeAll(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return io.ErrShortWrite
	}

	return nil
}
