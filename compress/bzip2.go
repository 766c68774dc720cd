package compress

import (
	"io"

	"github.com/dsnet/compress/bzip2"
)

func newBzipWriter(w io.Writer) (io.WriteCloser, error) {
	return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
}

func newBzipReader(r io.Reader) (io.ReadCloser, error) {
	return bzip2.NewReader(r, new(bzip2.ReaderConfig))
}
