package section

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/berkus/repak/compress"
	"github.com/berkus/repak/errs"
	"github.com/berkus/repak/format"
	"github.com/berkus/repak/leb128"
)

// IndexHeader is the archive-wide directory.
//
// Wire layout:
//
//	magic[5] = "REPAK"
//	version:u8 = 0x01
//	reserved:u16 little-endian = 0
//	count:ULEB
//	entry_0 .. entry_{count-1}
//
// Entries are ordered by name so a flat sequence stays binary-searchable.
type IndexHeader struct {
	Entries []IndexEntry
}

// EncodedLen returns the serialized length of the header and all entries.
func (h *IndexHeader) EncodedLen() int {
	n := HeaderFixedSize + leb128.Len(uint64(len(h.Entries)))
	for i := range h.Entries {
		n += h.Entries[i].EncodedLen()
	}

	return n
}

// Ser writes the canonical index bytes. The serialized count always
// equals the number of entries written.
func (h *IndexHeader) Ser(w io.Writer) error {
	fixed := make([]byte, 0, HeaderFixedSize)
	fixed = append(fixed, Magic...)
	fixed = append(fixed, Version)
	fixed = binary.LittleEndian.AppendUint16(fixed, 0)
	if err := writeAll(w, fixed); err != nil {
		return err
	}

	if _, err := leb128.Write(w, uint64(len(h.Entries))); err != nil {
		return err
	}
	for i := range h.Entries {
		if err := h.Entries[i].Ser(w); err != nil {
			return err
		}
	}

	return nil
}

// DeserIndexHeader reads and validates an IndexHeader.
//
// If the magic probe finds a Zstandard frame instead, the remainder is
// transparently decompressed and re-parsed, so compressed indexes read
// the same as plain ones.
func DeserIndexHeader(r io.Reader) (IndexHeader, error) {
	br := asReader(r)

	magic := make([]byte, MagicSize)
	if _, err := io.ReadFull(br, magic); err != nil {
		return IndexHeader{}, err
	}

	if bytes.Equal(magic[:len(zstdFrameMagic)], zstdFrameMagic[:]) {
		return deserCompressedIndex(magic, br)
	}

	if string(magic) != Magic {
		return IndexHeader{}, errs.Deser("Not a REPAK archive")
	}

	version, err := br.ReadByte()
	if err != nil {
		return IndexHeader{}, err
	}
	if version != Version {
		return IndexHeader{}, errs.Deserf("Unsupported REPAK version 0x%02X", version)
	}

	reserved := make([]byte, 2)
	if _, err := io.ReadFull(br, reserved); err != nil {
		return IndexHeader{}, err
	}
	if binary.LittleEndian.Uint16(reserved) != 0 {
		return IndexHeader{}, errs.Deser("Reserved field is not zero")
	}

	count, err := leb128.Read(br)
	if err != nil {
		return IndexHeader{}, err
	}

	h := IndexHeader{Entries: make([]IndexEntry, 0, count)}
	for i := uint64(0); i < count; i++ {
		entry, err := DeserIndexEntry(br)
		if err != nil {
			return IndexHeader{}, err
		}
		h.Entries = append(h.Entries, entry)
	}

	return h, nil
}

// deserCompressedIndex inflates a Zstd-compressed index and re-parses it.
// The already-consumed magic probe bytes belong to the Zstd frame and are
// stitched back in front of the remainder.
func deserCompressedIndex(probe []byte, r io.Reader) (IndexHeader, error) {
	rest, err := io.ReadAll(r)
	if err != nil {
		return IndexHeader{}, err
	}

	frame := make([]byte, 0, len(probe)+len(rest))
	frame = append(frame, probe...)
	frame = append(frame, rest...)

	codec, err := compress.GetCodec(format.CompressionZstd)
	if err != nil {
		return IndexHeader{}, err
	}

	plain, err := codec.Decompress(frame)
	if err != nil {
		return IndexHeader{}, errs.Deserf("compressed index: %s", err)
	}

	return DeserIndexHeader(bytes.NewReader(plain))
}
