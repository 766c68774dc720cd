package section

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/berkus/repak/errs"
	"github.com/berkus/repak/format"
	"github.com/berkus/repak/leb128"
)

func TestCompressionHeaderRoundTrip(t *testing.T) {
	hdr := CompressionHeader{Algorithm: format.CompressionLZ4}
	hdr.SetCompressedSize(70000)

	var buf bytes.Buffer
	require.NoError(t, hdr.Ser(&buf))
	require.Equal(t, hdr.EncodedLen(), buf.Len())

	got, err := DeserCompressionHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, hdr, got)

	size, ok := got.CompressedSize()
	require.True(t, ok)
	require.Equal(t, uint64(70000), size)
}

func TestCompressionHeaderNoParams(t *testing.T) {
	hdr := CompressionHeader{Algorithm: format.CompressionDeflate}

	var buf bytes.Buffer
	require.NoError(t, hdr.Ser(&buf))

	got, err := DeserCompressionHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	_, ok := got.CompressedSize()
	require.False(t, ok)
}

func TestCompressionHeaderUnknownAlgorithm(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []uint64{1, 99} { // size, algorithm
		_, err := leb128.Write(&buf, v)
		require.NoError(t, err)
	}

	_, err := DeserCompressionHeader(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, errs.ErrDeser)
	require.ErrorContains(t, err, "Unknown compression algorithm: 99")
}

func TestCompressionHeaderSizeShorterThanTag(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []uint64{0, uint64(format.CompressionZstd)} {
		_, err := leb128.Write(&buf, v)
		require.NoError(t, err)
	}

	_, err := DeserCompressionHeader(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, errs.ErrDeser)
}

func TestEncryptionHeaderRoundTrip(t *testing.T) {
	hdr := EncryptionHeader{Algorithm: format.EncryptionNotImplementedYet}

	var buf bytes.Buffer
	require.NoError(t, hdr.Ser(&buf))
	require.Equal(t, hdr.EncodedLen(), buf.Len())

	got, err := DeserEncryptionHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, hdr, got)
}

func TestEncryptionHeaderUnknownAlgorithm(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []uint64{1, 1} { // size, algorithm
		_, err := leb128.Write(&buf, v)
		require.NoError(t, err)
	}

	_, err := DeserEncryptionHeader(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, errs.ErrDeser)
	require.ErrorContains(t, err, "Unknown encryption algorithm: 1")
}
