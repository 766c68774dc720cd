package section

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/berkus/repak/errs"
	"github.com/berkus/repak/leb128"
)

// IndexEntry records the metadata of a single named payload.
//
// Wire layout:
//
//	offset:ULEB
//	size:ULEB
//	flags:ULEB        bit0 encryption, bit1 compression, bit2 checksum
//	name_len:ULEB
//	name[name_len]    UTF-8, not null-terminated
//	encryption_header?    iff bit0
//	compression_header?   iff bit1
//	checksum_header?      iff bit2
//
// The optional sub-headers are serialized in the fixed order encryption,
// compression, checksum.
type IndexEntry struct {
	// Offset is the byte position of the payload within the archive.
	Offset uint64

	// Size is the uncompressed source size in bytes. The payload's byte
	// range in the archive is reserved at this size regardless of how the
	// stored form is transformed.
	Size uint64

	// Name is the UTF-8 entry name, unique within the archive.
	Name string

	Encryption  *EncryptionHeader
	Compression *CompressionHeader
	Checksum    *ChecksumHeader

	// SourcePath is the file the payload is staged from. It is only set
	// on entries queued by Append and is never serialized.
	SourcePath string
}

// Flags returns the entry's flag bitmap derived from which sub-headers
// are present.
func (e *IndexEntry) Flags() uint64 {
	var flags uint64
	if e.Encryption != nil {
		flags |= FlagEncryption
	}
	if e.Compression != nil {
		flags |= FlagCompression
	}
	if e.Checksum != nil {
		flags |= FlagChecksum
	}

	return flags
}

// End returns the first byte position past the entry's reserved payload
// range.
func (e *IndexEntry) End() uint64 {
	return e.Offset + e.Size
}

// EncodedLen returns the serialized length of the entry including its
// optional sub-headers.
func (e *IndexEntry) EncodedLen() int {
	n := leb128.Len(e.Offset) +
		leb128.Len(e.Size) +
		leb128.Len(e.Flags()) +
		leb128.Len(uint64(len(e.Name))) +
		len(e.Name)

	if e.Encryption != nil {
		n += e.Encryption.EncodedLen()
	}
	if e.Compression != nil {
		n += e.Compression.EncodedLen()
	}
	if e.Checksum != nil {
		n += e.Checksum.EncodedLen()
	}

	return n
}

// Ser writes the canonical entry bytes.
func (e *IndexEntry) Ser(w io.Writer) error {
	if !utf8.ValidString(e.Name) {
		return fmt.Errorf("entry name: %w", errs.ErrInvalidUTF8)
	}

	if _, err := leb128.Write(w, e.Offset); err != nil {
		return err
	}
	if _, err := leb128.Write(w, e.Size); err != nil {
		return err
	}
	if _, err := leb128.Write(w, e.Flags()); err != nil {
		return err
	}
	if _, err := leb128.Write(w, uint64(len(e.Name))); err != nil {
		return err
	}
	if err := writeAll(w, []byte(e.Name)); err != nil {
		return err
	}

	if e.Encryption != nil {
		if err := e.Encryption.Ser(w); err != nil {
			return err
		}
	}
	if e.Compression != nil {
		if err := e.Compression.Ser(w); err != nil {
			return err
		}
	}
	if e.Checksum != nil {
		if err := e.Checksum.Ser(w); err != nil {
			return err
		}
	}

	return nil
}

// DeserIndexEntry reads and validates a single index entry.
func DeserIndexEntry(r io.Reader) (IndexEntry, error) {
	br := asReader(r)

	var e IndexEntry
	var err error

	if e.Offset, err = leb128.Read(br); err != nil {
		return IndexEntry{}, err
	}
	if e.Size, err = leb128.Read(br); err != nil {
		return IndexEntry{}, err
	}

	flags, err := leb128.Read(br)
	if err != nil {
		return IndexEntry{}, err
	}
	if flags&^uint64(flagKnownMask) != 0 {
		return IndexEntry{}, errs.Deserf("unknown entry flag bits: %#x", flags)
	}

	nameLen, err := leb128.Read(br)
	if err != nil {
		return IndexEntry{}, err
	}

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(br, name); err != nil {
		return IndexEntry{}, err
	}
	if !utf8.Valid(name) {
		return IndexEntry{}, fmt.Errorf("entry name: %w", errs.ErrInvalidUTF8)
	}
	e.Name = string(name)

	if flags&FlagEncryption != 0 {
		h, err := DeserEncryptionHeader(br)
		if err != nil {
			return IndexEntry{}, err
		}
		e.Encryption = &h
	}
	if flags&FlagCompression != 0 {
		h, err := DeserCompressionHeader(br)
		if err != nil {
			return IndexEntry{}, err
		}
		e.Compression = &h
	}
	if flags&FlagChecksum != 0 {
		h, err := DeserChecksumHeader(br)
		if err != nil {
			return IndexEntry{}, err
		}
		e.Checksum = &h
	}

	return e, nil
}
