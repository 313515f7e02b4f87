package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTripVariableLengths(t *testing.T) {
	layout := Layout{}
	buf := make([]byte, layout.HeaderSize())

	n := EncodeHeader(buf, FlagActive, 12345, 999, 7, 22, layout)
	require.Equal(t, layout.HeaderSize(), n)

	h, consumed := DecodeHeader(buf, layout)
	require.Equal(t, n, consumed)
	require.Equal(t, FlagActive, h.Flag)
	require.EqualValues(t, 12345, h.Hash)
	require.EqualValues(t, 999, h.ExpireAt)
	require.EqualValues(t, 7, h.KeyLen)
	require.EqualValues(t, 22, h.ValLen)
}

func TestHeaderRoundTripFixedLengthsOmitted(t *testing.T) {
	layout := Layout{KeyIsFixed: true, KeyFixedLen: 8, ValIsFixed: true, ValFixedLen: 8}
	buf := make([]byte, layout.HeaderSize())
	require.Equal(t, 13, len(buf))

	EncodeHeader(buf, FlagDeleted, -42, 0, 8, 8, layout)
	h, consumed := DecodeHeader(buf, layout)
	require.Equal(t, 13, consumed)
	require.Equal(t, FlagDeleted, h.Flag)
	require.EqualValues(t, -42, h.Hash)
	require.EqualValues(t, 8, h.KeyLen)
	require.EqualValues(t, 8, h.ValLen)
}

func TestHeaderSizeVariesByLayout(t *testing.T) {
	require.Equal(t, 21, Layout{}.HeaderSize())
	require.Equal(t, 17, Layout{KeyIsFixed: true}.HeaderSize())
	require.Equal(t, 13, Layout{KeyIsFixed: true, ValIsFixed: true}.HeaderSize())
}

func TestSizeComputesTotalRecordLength(t *testing.T) {
	layout := Layout{KeyIsFixed: true, KeyFixedLen: 8, ValIsFixed: false}
	h := Header{KeyLen: 8, ValLen: 30}
	require.EqualValues(t, int64(layout.HeaderSize())+8+30, h.Size(layout))
}
