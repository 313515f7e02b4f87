package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSingelPagePrimitives(t *testing.T) {
	s := New(64, 0)
	require.EqualValues(t, 64, s.Len())

	s.WriteU8(0, 0xAB)
	require.Equal(t, byte(0xAB), s.ReadU8(0))

	s.WriteU32(4, 0xDEADBEEF)
	require.EqualValues(t, 0xDEADBEEF, s.ReadU32(4))

	s.WriteI32(8, -12345)
	require.EqualValues(t, -12345, s.ReadI32(8))

	s.WriteI64(16, -98765432100)
	require.EqualValues(t, -98765432100, s.ReadI64(16))

	payload := []byte("hello world")
	s.WriteBytes(24, payload)
	require.Equal(t, payload, s.ReadBytes(24, int64(len(payload))))
	require.True(t, s.Equal(24, int64(len(payload)), payload))
	require.False(t, s.Equal(24, int64(len(payload)), []byte("hello WORLD")))
}

func TestCrossPageAccess(t *testing.T) {
	// Tiny page size forces every multi-byte primitive to straddle pages.
	s := New(32, 8)
	require.Nil(t, s.single)

	s.WriteU32(6, 0x01020304)
	require.EqualValues(t, 0x01020304, s.ReadU32(6))

	s.WriteI64(5, 0x1122334455667788)
	require.EqualValues(t, 0x1122334455667788, s.ReadI64(5))

	payload := []byte("crossing-page-boundaries-cleanly")[:20]
	s.WriteBytes(3, payload)
	require.Equal(t, payload, s.ReadBytes(3, int64(len(payload))))
	require.True(t, s.Equal(3, int64(len(payload)), payload))
}

func TestTryView(t *testing.T) {
	s := New(32, 8)

	// Entirely within one page: zero-copy view available.
	view, ok := s.TryView(0, 4)
	require.True(t, ok)
	require.Len(t, view, 4)

	// Straddles a page boundary: no zero-copy view.
	_, ok = s.TryView(6, 4)
	require.False(t, ok)

	single := New(64, 0)
	view, ok = single.TryView(10, 30)
	require.True(t, ok)
	require.Len(t, view, 30)
}

func TestResizeGrowAndShrinkPreservesPrefix(t *testing.T) {
	s := New(16, 8)
	payload := []byte("0123456789abcdef")
	s.WriteBytes(0, payload)

	s.Resize(32)
	require.EqualValues(t, 32, s.Len())
	require.Equal(t, payload, s.ReadBytes(0, 16))

	s.Resize(10)
	require.EqualValues(t, 10, s.Len())
	require.Equal(t, payload[:10], s.ReadBytes(0, 10))
}

func TestResizeAcrossSinglePageBoundary(t *testing.T) {
	s := New(8, DefaultPageSize)
	require.NotNil(t, s.single)
	s.WriteBytes(0, []byte("12345678"))

	s.Resize(DefaultPageSize + 8)
	require.Nil(t, s.single)
	require.Equal(t, []byte("12345678"), s.ReadBytes(0, 8))
}

func TestOutOfRangeAccessPanics(t *testing.T) {
	s := New(8, 0)
	require.Panics(t, func() { s.ReadU8(8) })
	require.Panics(t, func() { s.WriteBytes(4, make([]byte, 8)) })
}
