package section

import (
	"fmt"
	"io"

	"github.com/berkus/repak/errs"
	"github.com/berkus/repak/format"
	"github.com/berkus/repak/leb128"
)

// Checksum is a single (kind, digest) pair. The digest length is fixed
// per kind; see format.DigestSize.
type Checksum struct {
	Kind   format.ChecksumKind
	Digest []byte
}

// ChecksumHeader is a count-prefixed ordered sequence of checksums over
// the same payload. Multiple checksums are permitted and their on-disk
// order is preserved.
//
// Wire layout: size:ULEB | count:ULEB | (kind:ULEB digest[n])*
// where size covers everything after itself.
type ChecksumHeader struct {
	Checksums []Checksum
}

// tailLen returns the byte length of the header after the size field.
func (h *ChecksumHeader) tailLen() int {
	n := leb128.Len(uint64(len(h.Checksums)))
	for _, c := range h.Checksums {
		n += leb128.Len(uint64(c.Kind)) + len(c.Digest)
	}

	return n
}

// EncodedLen returns the total serialized length of the header.
func (h *ChecksumHeader) EncodedLen() int {
	tail := h.tailLen()

	return leb128.Len(uint64(tail)) + tail
}

// Kinds returns the checksum kinds in on-disk order.
func (h *ChecksumHeader) Kinds() []format.ChecksumKind {
	kinds := make([]format.ChecksumKind, len(h.Checksums))
	for i, c := range h.Checksums {
		kinds[i] = c.Kind
	}

	return kinds
}

// Ser writes the canonical header bytes. Every digest must already have
// its kind's fixed length.
func (h *ChecksumHeader) Ser(w io.Writer) error {
	for _, c := range h.Checksums {
		if len(c.Digest) != format.DigestSize(c.Kind) {
			return fmt.Errorf("checksum %s: digest is %d bytes, want %d",
				c.Kind, len(c.Digest), format.DigestSize(c.Kind))
		}
	}

	if _, err := leb128.Write(w, uint64(h.tailLen())); err != nil {
		return err
	}
	if _, err := leb128.Write(w, uint64(len(h.Checksums))); err != nil {
		return err
	}
	for _, c := range h.Checksums {
		if _, err := leb128.Write(w, uint64(c.Kind)); err != nil {
			return err
		}
		if err := writeAll(w, c.Digest); err != nil {
			return err
		}
	}

	return nil
}

// DeserChecksumHeader reads and validates a ChecksumHeader. An unknown
// checksum kind is fatal.
func DeserChecksumHeader(r io.Reader) (ChecksumHeader, error) {
	br := asReader(r)

	size, err := leb128.Read(br)
	if err != nil {
		return ChecksumHeader{}, err
	}

	count, err := leb128.Read(br)
	if err != nil {
		return ChecksumHeader{}, err
	}

	h := ChecksumHeader{Checksums: make([]Checksum, 0, count)}
	for i := uint64(0); i < count; i++ {
		kindVal, err := leb128.Read(br)
		if err != nil {
			return ChecksumHeader{}, err
		}

		kind := format.ChecksumKind(kindVal)
		if uint64(kind) != kindVal || !kind.IsValid() {
			return ChecksumHeader{}, errs.Deserf("Unknown checksum kind: %d", kindVal)
		}

		digest := make([]byte, format.DigestSize(kind))
		if _, err := io.ReadFull(br, digest); err != nil {
			return ChecksumHeader{}, err
		}

		h.Checksums = append(h.Checksums, Checksum{Kind: kind, Digest: digest})
	}

	if uint64(h.tailLen()) != size {
		return ChecksumHeader{}, errs.Deserf("checksum header size mismatch: header says %d, checksums occupy %d", size, h.tailLen())
	}

	return h, nil
}
