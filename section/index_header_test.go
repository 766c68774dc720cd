package section

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/berkus/repak/compress"
	"github.com/berkus/repak/errs"
	"github.com/berkus/repak/format"
	"github.com/berkus/repak/leb128"
)

func sampleIndex() IndexHeader {
	return IndexHeader{Entries: []IndexEntry{
		{
			Offset: 0,
			Size:   3,
			Name:   "alpha",
		},
		{
			Offset: 3,
			Size:   4096,
			Name:   "beta",
			Compression: &CompressionHeader{
				Algorithm: format.CompressionZstd,
				Params:    leb128.Append(nil, 512),
			},
			Checksum: &ChecksumHeader{Checksums: []Checksum{
				{Kind: format.ChecksumXxhash3, Digest: bytes.Repeat([]byte{0xAB}, 8)},
			}},
		},
	}}
}

func TestIndexHeaderRoundTrip(t *testing.T) {
	hdr := sampleIndex()

	var buf bytes.Buffer
	require.NoError(t, hdr.Ser(&buf))
	require.Equal(t, hdr.EncodedLen(), buf.Len())

	got, err := DeserIndexHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, hdr, got)
}

func TestIndexHeaderBadMagic(t *testing.T) {
	data := []byte("NOPAK\x01\x00\x00\x00")

	_, err := DeserIndexHeader(bytes.NewReader(data))
	require.ErrorIs(t, err, errs.ErrDeser)
	require.EqualError(t, err, "Not a REPAK archive")
}

func TestIndexHeaderBadVersion(t *testing.T) {
	data := []byte("REPAK\x02\x00\x00\x00")

	_, err := DeserIndexHeader(bytes.NewReader(data))
	require.ErrorIs(t, err, errs.ErrDeser)
	require.EqualError(t, err, "Unsupported REPAK version 0x02")
}

func TestIndexHeaderReservedNotZero(t *testing.T) {
	data := []byte("REPAK\x01\x00\x01\x00")

	_, err := DeserIndexHeader(bytes.NewReader(data))
	require.ErrorIs(t, err, errs.ErrDeser)
	require.EqualError(t, err, "Reserved field is not zero")
}

func TestIndexHeaderReservedIsLittleEndian(t *testing.T) {
	// The byte pair 0x00 0x01 decodes to 0x0100, which is not zero.
	data := append([]byte("REPAK\x01"), 0x00, 0x01)
	data = append(data, 0x00)

	var reserved [2]byte
	copy(reserved[:], data[6:8])
	require.Equal(t, uint16(0x0100), binary.LittleEndian.Uint16(reserved[:]))

	_, err := DeserIndexHeader(bytes.NewReader(data))
	require.EqualError(t, err, "Reserved field is not zero")
}

func TestIndexHeaderCompressed(t *testing.T) {
	hdr := sampleIndex()

	var plain bytes.Buffer
	require.NoError(t, hdr.Ser(&plain))

	codec, err := compress.GetCodec(format.CompressionZstd)
	require.NoError(t, err)
	packed, err := codec.Compress(plain.Bytes())
	require.NoError(t, err)
	require.Equal(t, zstdFrameMagic[:], packed[:4])

	got, err := DeserIndexHeader(bytes.NewReader(packed))
	require.NoError(t, err)
	require.Equal(t, hdr, got)
}

func TestIndexHeaderCountMatchesEntries(t *testing.T) {
	hdr := sampleIndex()

	var buf bytes.Buffer
	require.NoError(t, hdr.Ser(&buf))

	// The count field right after the fixed prefix equals the number of
	// serialized entries.
	count, err := leb128.Read(bytes.NewReader(buf.Bytes()[HeaderFixedSize:]))
	require.NoError(t, err)
	require.Equal(t, uint64(len(hdr.Entries)), count)
}
