package section

import (
	"bytes"
	"io"

	"github.com/berkus/repak/errs"
	"github.com/berkus/repak/format"
	"github.com/berkus/repak/leb128"
)

// CompressionHeader describes how an entry's payload is compressed.
//
// Wire layout: size:ULEB | algorithm:ULEB | params[size - len(algorithm)]
// where size covers algorithm plus parameters, so readers lacking support
// for an algorithm can skip the header and stay forward-compatible.
//
// For compressed payloads this library stores the on-disk (compressed)
// byte length as a single ULEB value in the parameter bytes, bounding the
// compressed stream for readers.
type CompressionHeader struct {
	Algorithm format.CompressionType
	Params    []byte
}

func (h *CompressionHeader) tailLen() int {
	return leb128.Len(uint64(h.Algorithm)) + len(h.Params)
}

// EncodedLen returns the total serialized length of the header.
func (h *CompressionHeader) EncodedLen() int {
	tail := h.tailLen()

	return leb128.Len(uint64(tail)) + tail
}

// CompressedSize decodes the on-disk payload length from the parameter
// bytes. The second return is false when no length is recorded.
func (h *CompressionHeader) CompressedSize() (uint64, bool) {
	if len(h.Params) == 0 {
		return 0, false
	}

	v, err := leb128.Read(bytes.NewReader(h.Params))
	if err != nil {
		return 0, false
	}

	return v, true
}

// SetCompressedSize records the on-disk payload length in the parameter
// bytes.
func (h *CompressionHeader) SetCompressedSize(n uint64) {
	h.Params = leb128.Append(h.Params[:0], n)
}

// Ser writes the canonical header bytes.
func (h *CompressionHeader) Ser(w io.Writer) error {
	if _, err := leb128.Write(w, uint64(h.tailLen())); err != nil {
		return err
	}
	if _, err := leb128.Write(w, uint64(h.Algorithm)); err != nil {
		return err
	}

	return writeAll(w, h.Params)
}

// DeserCompressionHeader reads and validates a CompressionHeader.
func DeserCompressionHeader(r io.Reader) (CompressionHeader, error) {
	br := asReader(r)

	size, err := leb128.Read(br)
	if err != nil {
		return CompressionHeader{}, err
	}

	algVal, err := leb128.Read(br)
	if err != nil {
		return CompressionHeader{}, err
	}

	alg := format.CompressionType(algVal)
	if uint64(alg) != algVal || !alg.IsValid() {
		return CompressionHeader{}, errs.Deserf("Unknown compression algorithm: %d", algVal)
	}

	algLen := uint64(leb128.Len(algVal))
	if size < algLen {
		return CompressionHeader{}, errs.Deserf("compression header size %d shorter than its algorithm tag", size)
	}

	h := CompressionHeader{Algorithm: alg}
	if paramLen := size - algLen; paramLen > 0 {
		h.Params = make([]byte, paramLen)
		if _, err := io.ReadFull(br, h.Params); err != nil {
			return CompressionHeader{}, err
		}
	}

	return h, nil
}
