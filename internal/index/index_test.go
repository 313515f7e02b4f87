package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[uint32]uint32{
		0:     2,
		1:     2,
		2:     2,
		3:     4,
		15:    16,
		16:    16,
		17:    32,
		16384: 16384,
		16385: 32768,
	}
	for in, want := range cases {
		require.Equal(t, want, NextPowerOfTwo(in), "in=%d", in)
	}
}

func TestStateTransitions(t *testing.T) {
	a := New(16)
	require.Equal(t, Empty, a.StateAt(5))

	a.SetActive(5, 123, 40)
	require.Equal(t, Active, a.StateAt(5))
	require.EqualValues(t, 40, a.AbsOffset(5))

	a.MarkTombstone(5)
	require.Equal(t, Tombstone, a.StateAt(5))
	require.EqualValues(t, 40, a.AbsOffset(5))
	require.EqualValues(t, 123, a.Hash[5])
}

func TestProbeSequenceWraps(t *testing.T) {
	a := New(8)
	start := a.Start(10)
	require.EqualValues(t, 10&7, start)

	cur := uint32(7)
	require.EqualValues(t, 0, a.NextSlot(cur))
}

func TestClearResetsAllBuckets(t *testing.T) {
	a := New(4)
	a.SetActive(0, 1, 10)
	a.SetActive(1, 2, 20)
	a.MarkTombstone(1)

	a.Clear()
	for i := uint32(0); i < a.Count(); i++ {
		require.Equal(t, Empty, a.StateAt(i))
	}
}

func TestLiveAndTombstoneCounts(t *testing.T) {
	a := New(8)
	a.SetActive(0, 1, 10)
	a.SetActive(1, 2, 20)
	a.SetActive(2, 3, 30)
	a.MarkTombstone(1)

	live, tombstones := a.LiveAndTombstoneCounts()
	require.EqualValues(t, 2, live)
	require.EqualValues(t, 1, tombstones)
}
