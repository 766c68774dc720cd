// Package checksum provides the tagged digest algorithms of the repak
// format and their streaming hasher wrappers.
//
// Like compression, checksums are a closed variant over concrete
// algorithms keyed by format.ChecksumKind. During write the hashers sit
// in the payload pipeline as pass-through sinks; during read the digests
// are recomputed and compared against the stored header.
package checksum

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/berkus/repak/errs"
	"github.com/berkus/repak/format"
)

// Hasher accumulates payload bytes and produces a digest of the fixed
// per-kind length.
type Hasher interface {
	io.Writer

	// Kind returns the algorithm tag of this hasher.
	Kind() format.ChecksumKind

	// Sum returns the digest of everything written so far. Its length is
	// format.DigestSize(Kind()).
	Sum() []byte
}

// New creates a hasher for the given kind. Kinds with no implementation
// behind them (SeaHash has no credible Go module, Fsst-style gaps) fail
// with errs.ErrUnsupported; unknown kinds fail with errs.ErrUnsupported
// as well.
func New(kind format.ChecksumKind) (Hasher, error) {
	switch kind {
	case format.ChecksumSHA3:
		return newSHA3(), nil
	case format.ChecksumK12:
		return newK12(), nil
	case format.ChecksumBLAKE3:
		return newBLAKE3(), nil
	case format.ChecksumXxhash3:
		return newXXH3(), nil
	case format.ChecksumMetroHash:
		return newMetro(), nil
	case format.ChecksumCityHash:
		return newCity(), nil
	case format.ChecksumSeaHash:
		return nil, fmt.Errorf("%w: checksum %s", errs.ErrUnsupported, kind)
	default:
		return nil, fmt.Errorf("%w: checksum kind %d", errs.ErrUnsupported, kind)
	}
}

// NewAll creates one hasher per kind, preserving order.
func NewAll(kinds []format.ChecksumKind) ([]Hasher, error) {
	hashers := make([]Hasher, 0, len(kinds))
	for _, kind := range kinds {
		h, err := New(kind)
		if err != nil {
			return nil, err
		}
		hashers = append(hashers, h)
	}

	return hashers, nil
}

// Writers adapts hashers to io.Writer values for io.MultiWriter
// composition.
func Writers(hashers []Hasher) []io.Writer {
	ws := make([]io.Writer, len(hashers))
	for i, h := range hashers {
		ws[i] = h
	}

	return ws
}

// sum64 encodes a 64-bit hash value as its 8 big-endian digest bytes.
func sum64(v uint64) []byte {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), v)
}

// bufHasher adapts a one-shot 64-bit hash function to the streaming
// Hasher contract by accumulating the input.
type bufHasher struct {
	kind format.ChecksumKind
	buf  bytes.Buffer
	fn   func([]byte) uint64
}

func (h *bufHasher) Write(p []byte) (int, error) {
	return h.buf.Write(p)
}

func (h *bufHasher) Kind() format.ChecksumKind {
	return h.kind
}

func (h *bufHasher) Sum() []byte {
	return sum64(h.fn(h.buf.Bytes()))
}
