package compress

import (
	"io"

	"github.com/ulikunitz/xz/lzma"
)

func newLzmaWriter(w io.Writer) (io.WriteCloser, error) {
	return lzma.NewWriter(w)
}

type lzmaReadCloser struct {
	*lzma.Reader
}

func (lzmaReadCloser) Close() error { return nil }

func newLzmaReader(r io.Reader) (io.ReadCloser, error) {
	lr, err := lzma.NewReader(r)
	if err != nil {
		return nil, err
	}

	return lzmaReadCloser{lr}, nil
}
