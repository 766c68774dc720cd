package leb128

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/berkus/repak/errs"
)

func TestLen(t *testing.T) {
	tests := []struct {
		value uint64
		want  int
	}{
		{0, 1},
		{1, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{2097151, 3},
		{2097152, 4},
		{math.MaxUint32, 5},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Len(tt.value), "Len(%d)", tt.value)
	}
}

func TestRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 255, 300, 16383, 16384, 1 << 21, 1 << 28, 1 << 35, 1 << 56}

	for _, v := range values {
		buf := Append(nil, v)
		require.Len(t, buf, Len(v), "encoded length of %d", v)

		got, err := Read(bytes.NewReader(buf))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	n, err := Write(&buf, 300)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []byte{0xAC, 0x02}, buf.Bytes())
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)
}

func TestReadTruncated(t *testing.T) {
	// Continuation bit set but nothing follows.
	_, err := Read(bytes.NewReader([]byte{0x80}))
	require.ErrorIs(t, err, errs.ErrLeb128)
}

func TestReadNotMinimal(t *testing.T) {
	// 0x80 0x00 encodes zero with a redundant continuation byte.
	_, err := Read(bytes.NewReader([]byte{0x80, 0x00}))
	require.ErrorIs(t, err, errs.ErrLeb128)
}

func TestReadOverflow(t *testing.T) {
	// Eleven continuation bytes cannot fit any supported value.
	data := bytes.Repeat([]byte{0xFF}, 11)
	_, err := Read(bytes.NewReader(data))
	require.ErrorIs(t, err, errs.ErrLeb128)
}

func TestReadStopsAtTerminator(t *testing.T) {
	r := bytes.NewReader([]byte{0xAC, 0x02, 0x55})
	v, err := Read(r)
	require.NoError(t, err)
	require.Equal(t, uint64(300), v)

	// The byte after the terminator is untouched.
	next, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x55), next)
}
