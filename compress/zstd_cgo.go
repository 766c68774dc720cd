//go:build gozstd

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

// ZstdCodec provides Zstandard block compression backed by the cgo
// libzstd bindings. Build with -tags gozstd to select this variant.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd block codec.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

// Compress compresses data into a single Zstd frame.
func (c ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress inflates a Zstd frame.
func (c ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}

func newZstdWriter(w io.Writer) (io.WriteCloser, error) {
	return gozstd.NewWriter(w), nil
}

type gozstdReadCloser struct {
	*gozstd.Reader
}

func (r gozstdReadCloser) Close() error {
	r.Release()
	return nil
}

func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	return gozstdReadCloser{gozstd.NewReader(r)}, nil
}
