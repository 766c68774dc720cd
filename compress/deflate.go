package compress

import (
	"io"

	"github.com/klauspost/compress/flate"
)

func newDeflateWriter(w io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(w, flate.DefaultCompression)
}

func newDeflateReader(r io.Reader) (io.ReadCloser, error) {
	return flate.NewReader(r), nil
}
