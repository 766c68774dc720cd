package section

import (
	"io"

	"github.com/berkus/repak/errs"
	"github.com/berkus/repak/format"
	"github.com/berkus/repak/leb128"
)

// EncryptionHeader is structurally identical to CompressionHeader. Only
// the reserved tag 0 is defined; the slot preserves format space.
type EncryptionHeader struct {
	Algorithm format.EncryptionType
	Params    []byte
}

func (h *EncryptionHeader) tailLen() int {
	return leb128.Len(uint64(h.Algorithm)) + len(h.Params)
}

// EncodedLen returns the total serialized length of the header.
func (h *EncryptionHeader) EncodedLen() int {
	tail := h.tailLen()

	return leb128.Len(uint64(tail)) + tail
}

// Ser writes the canonical header bytes.
func (h *EncryptionHeader) Ser(w io.Writer) error {
	if _, err := leb128.Write(w, uint64(h.tailLen())); err != nil {
		return err
	}
	if _, err := leb128.Write(w, uint64(h.Algorithm)); err != nil {
		return err
	}

	return writeAll(w, h.Params)
}

// DeserEncryptionHeader reads and validates an EncryptionHeader. Any
// algorithm other than the reserved tag 0 is fatal.
func DeserEncryptionHeader(r io.Reader) (EncryptionHeader, error) {
	br := asReader(r)

	size, err := leb128.Read(br)
	if err != nil {
		return EncryptionHeader{}, err
	}

	algVal, err := leb128.Read(br)
	if err != nil {
		return EncryptionHeader{}, err
	}

	alg := format.EncryptionType(algVal)
	if uint64(alg) != algVal || !alg.IsValid() {
		return EncryptionHeader{}, errs.Deserf("Unknown encryption algorithm: %d", algVal)
	}

	algLen := uint64(leb128.Len(algVal))
	if size < algLen {
		return EncryptionHeader{}, errs.Deserf("encryption header size %d shorter than its algorithm tag", size)
	}

	h := EncryptionHeader{Algorithm: alg}
	if paramLen := size - algLen; paramLen > 0 {
		h.Params = make([]byte, paramLen)
		if _, err := io.ReadFull(br, h.Params); err != nil {
			return EncryptionHeader{}, err
		}
	}

	return h, nil
}
