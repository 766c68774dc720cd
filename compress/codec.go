// Package compress provides the payload and index compression codecs of
// the repak library.
//
// Compression is a tagged variant over concrete codecs, not an open
// interface: dispatch is closed over format.CompressionType, and new
// algorithms are added here without touching callers.
//
// Two surfaces are exposed. The block Codec works on whole byte slices
// and serves the compressed-index feature. The streaming NewWriter /
// NewReader constructors wrap an underlying stream and serve the
// per-entry payload pipeline.
package compress

import (
	"fmt"
	"io"

	"github.com/berkus/repak/errs"
	"github.com/berkus/repak/format"
)

// Compressor compresses a whole byte slice at once.
type Compressor interface {
	// Compress compresses data and returns the result. The input slice
	// is not modified; codecs that leave data unchanged (NoOpCodec) may
	// return it as-is, sharing its memory.
	Compress(data []byte) ([]byte, error)
}

// Decompressor is the inverse of Compressor.
type Decompressor interface {
	// Decompress inflates data previously produced by the matching
	// Compressor. Corrupted or mismatched input returns an error.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both block operations.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionZstd: NewZstdCodec(),
}

// GetCodec retrieves a built-in block Codec for the given compression
// type. Only the algorithms the index machinery needs are registered;
// payloads go through the streaming constructors instead.
func GetCodec(t format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("no block codec for compression type %s", t)
}

// NewWriter wraps w in a streaming encoder for the given algorithm. The
// returned writer must be closed to flush the final frame; closing it
// does not close w.
func NewWriter(t format.CompressionType, w io.Writer) (io.WriteCloser, error) {
	switch t {
	case format.CompressionNone:
		return nopWriteCloser{w}, nil
	case format.CompressionDeflate:
		return newDeflateWriter(w)
	case format.CompressionBzip:
		return newBzipWriter(w)
	case format.CompressionZstd:
		return newZstdWriter(w)
	case format.CompressionLzma:
		return newLzmaWriter(w)
	case format.CompressionLZ4:
		return newLZ4Writer(w)
	case format.CompressionFsst:
		return nil, fmt.Errorf("%w: compression %s", errs.ErrUnsupported, t)
	default:
		return nil, fmt.Errorf("%w: compression type %d", errs.ErrUnsupported, t)
	}
}

// NewReader wraps r in a streaming decoder for the given algorithm.
// Closing the returned reader releases codec resources; it does not
// close r.
func NewReader(t format.CompressionType, r io.Reader) (io.ReadCloser, error) {
	switch t {
	case format.CompressionNone:
		return io.NopCloser(r), nil
	case format.CompressionDeflate:
		return newDeflateReader(r)
	case format.CompressionBzip:
		return newBzipReader(r)
	case format.CompressionZstd:
		return newZstdReader(r)
	case format.CompressionLzma:
		return newLzmaReader(r)
	case format.CompressionLZ4:
		return newLZ4Reader(r)
	case format.CompressionFsst:
		return nil, fmt.Errorf("%w: compression %s", errs.ErrUnsupported, t)
	default:
		return nil, fmt.Errorf("%w: compression type %d", errs.ErrUnsupported, t)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
