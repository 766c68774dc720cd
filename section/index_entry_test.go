package section

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/berkus/repak/errs"
	"github.com/berkus/repak/format"
	"github.com/berkus/repak/leb128"
)

func TestIndexEntryRoundTripRaw(t *testing.T) {
	entry := IndexEntry{Offset: 42, Size: 1000, Name: "textures/wall.png"}
	require.Equal(t, uint64(0), entry.Flags())

	var buf bytes.Buffer
	require.NoError(t, entry.Ser(&buf))
	require.Equal(t, entry.EncodedLen(), buf.Len())

	got, err := DeserIndexEntry(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, entry, got)
}

func TestIndexEntryRoundTripAllHeaders(t *testing.T) {
	entry := IndexEntry{
		Offset:     128,
		Size:       9000,
		Name:       "models/crate.obj",
		Encryption: &EncryptionHeader{Algorithm: format.EncryptionNotImplementedYet},
		Compression: &CompressionHeader{
			Algorithm: format.CompressionDeflate,
			Params:    leb128.Append(nil, 4321),
		},
		Checksum: &ChecksumHeader{Checksums: []Checksum{
			{Kind: format.ChecksumSHA3, Digest: bytes.Repeat([]byte{0x11}, 64)},
			{Kind: format.ChecksumCityHash, Digest: bytes.Repeat([]byte{0x22}, 8)},
		}},
	}
	require.Equal(t, uint64(FlagEncryption|FlagCompression|FlagChecksum), entry.Flags())

	var buf bytes.Buffer
	require.NoError(t, entry.Ser(&buf))
	require.Equal(t, entry.EncodedLen(), buf.Len())

	got, err := DeserIndexEntry(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, entry, got)
}

func TestIndexEntrySourcePathNotSerialized(t *testing.T) {
	entry := IndexEntry{Offset: 0, Size: 1, Name: "x", SourcePath: "/tmp/x.bin"}

	var buf bytes.Buffer
	require.NoError(t, entry.Ser(&buf))

	got, err := DeserIndexEntry(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Empty(t, got.SourcePath)
}

func TestIndexEntryInvalidUTF8Name(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []uint64{0, 0, 0, 2} { // offset, size, flags, name_len
		_, err := leb128.Write(&buf, v)
		require.NoError(t, err)
	}
	buf.Write([]byte{0xFF, 0xFE})

	_, err := DeserIndexEntry(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, errs.ErrInvalidUTF8)
}

func TestIndexEntryUnknownFlagBits(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []uint64{0, 0, 0x08, 1} {
		_, err := leb128.Write(&buf, v)
		require.NoError(t, err)
	}
	buf.WriteByte('x')

	_, err := DeserIndexEntry(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, errs.ErrDeser)
	require.ErrorContains(t, err, "unknown entry flag bits")
}

func TestIndexEntryTruncated(t *testing.T) {
	entry := IndexEntry{Offset: 1, Size: 2, Name: "abc"}

	var buf bytes.Buffer
	require.NoError(t, entry.Ser(&buf))

	_, err := DeserIndexEntry(bytes.NewReader(buf.Bytes()[:buf.Len()-1]))
	require.Error(t, err)
}
