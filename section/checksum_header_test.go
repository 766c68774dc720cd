package section

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/berkus/repak/errs"
	"github.com/berkus/repak/format"
	"github.com/berkus/repak/leb128"
)

func TestChecksumHeaderRoundTripPreservesOrder(t *testing.T) {
	hdr := ChecksumHeader{Checksums: []Checksum{
		{Kind: format.ChecksumCityHash, Digest: bytes.Repeat([]byte{0x07}, 8)},
		{Kind: format.ChecksumSHA3, Digest: bytes.Repeat([]byte{0x0A}, 64)},
		{Kind: format.ChecksumBLAKE3, Digest: bytes.Repeat([]byte{0x0B}, 32)},
	}}

	var buf bytes.Buffer
	require.NoError(t, hdr.Ser(&buf))
	require.Equal(t, hdr.EncodedLen(), buf.Len())

	got, err := DeserChecksumHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, hdr.Kinds(), got.Kinds())
	require.Equal(t, hdr, got)
}

func TestChecksumHeaderUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []uint64{2, 1, 9} { // size, count, kind
		_, err := leb128.Write(&buf, v)
		require.NoError(t, err)
	}

	_, err := DeserChecksumHeader(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, errs.ErrDeser)
	require.ErrorContains(t, err, "Unknown checksum kind: 9")
}

func TestChecksumHeaderWrongDigestLength(t *testing.T) {
	hdr := ChecksumHeader{Checksums: []Checksum{
		{Kind: format.ChecksumSHA3, Digest: []byte{0x01, 0x02}},
	}}

	var buf bytes.Buffer
	require.Error(t, hdr.Ser(&buf))
}

func TestChecksumHeaderSizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []uint64{100, 1, uint64(format.ChecksumXxhash3)} {
		_, err := leb128.Write(&buf, v)
		require.NoError(t, err)
	}
	buf.Write(bytes.Repeat([]byte{0x00}, 8))

	_, err := DeserChecksumHeader(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, errs.ErrDeser)
	require.ErrorContains(t, err, "size mismatch")
}
