// Package index implements the two parallel arrays the map engine probes
// on every operation: a 32-bit hash per bucket and a signed 64-bit offset
// encoding that bucket's state. It owns only the arrays and the
// state-encoding rules; the probing loop itself lives in the engine,
// since it also needs the paged log and the codecs to confirm a match.
package index

import "math/bits"

// State is the decoded meaning of a bucket's offset value.
type State int

const (
	// Empty means the bucket has never held a key, or was reset by clear.
	Empty State = iota
	// Active means offset[i] points at the key's current ACTIVE record.
	Active
	// Tombstone means offset[i] points at a DELETED record kept only so
	// that probing can walk past it.
	Tombstone
)

// Arrays holds the engine's index: Hash and Offset are always kept the
// same length, one entry per bucket.
type Arrays struct {
	Hash   []int32
	Offset []int64
	mask   uint32
}

// New allocates index arrays sized to bucketCount, which must already be
// a power of two; callers needing a non-power-of-two request should round
// up with NextPowerOfTwo first.
func New(bucketCount uint32) *Arrays {
	return &Arrays{
		Hash:   make([]int32, bucketCount),
		Offset: make([]int64, bucketCount),
		mask:   bucketCount - 1,
	}
}

// NextPowerOfTwo rounds n up to the next power of two, with a floor of 2
// per invariant I1. n == 0 rounds up to 2.
func NextPowerOfTwo(n uint32) uint32 {
	if n <= 2 {
		return 2
	}
	if n&(n-1) == 0 {
		return n
	}
	return 1 << bits.Len32(n)
}

// Count returns the number of buckets.
func (a *Arrays) Count() uint32 { return uint32(len(a.Hash)) }

// Mask returns count-1, used to map a hash to a starting bucket.
func (a *Arrays) Mask() uint32 { return a.mask }

// Start returns the probe starting bucket for hash h: h & mask.
func (a *Arrays) Start(h int32) uint32 {
	return uint32(h) & a.mask
}

// NextSlot returns the next bucket in the linear probe sequence after
// cur, wrapping around the table per §4.3's pure linear-probing rule.
func (a *Arrays) NextSlot(cur uint32) uint32 {
	return (cur + 1) & a.mask
}

// StateAt decodes the state of bucket i from its offset encoding:
// 0 is empty, positive is active, negative is a tombstone.
func (a *Arrays) StateAt(i uint32) State {
	switch {
	case a.Offset[i] == 0:
		return Empty
	case a.Offset[i] > 0:
		return Active
	default:
		return Tombstone
	}
}

// AbsOffset returns the unsigned record offset referenced by bucket i,
// regardless of whether it is currently active or a tombstone.
func (a *Arrays) AbsOffset(i uint32) int64 {
	off := a.Offset[i]
	if off < 0 {
		return -off
	}
	return off
}

// SetActive marks bucket i as pointing at an ACTIVE record at offset,
// recording hash h for future probe comparisons.
func (a *Arrays) SetActive(i uint32, h int32, offset int64) {
	a.Hash[i] = h
	a.Offset[i] = offset
}

// MarkTombstone negates bucket i's offset in place, turning an ACTIVE
// reference into a tombstone without touching hash[i] (I4 still holds:
// the hash recorded is still the hash of the now-DELETED record).
func (a *Arrays) MarkTombstone(i uint32) {
	if a.Offset[i] > 0 {
		a.Offset[i] = -a.Offset[i]
	}
}

// Clear zeroes both arrays in place, resetting every bucket to Empty.
func (a *Arrays) Clear() {
	for i := range a.Hash {
		a.Hash[i] = 0
		a.Offset[i] = 0
	}
}

// LiveAndTombstoneCounts scans the arrays and returns the number of
// active and tombstone buckets. Callers on the hot path should maintain
// their own counters rather than calling this; it exists for snapshot
// restore and consistency checks.
func (a *Arrays) LiveAndTombstoneCounts() (live, tombstones uint32) {
	for i := range a.Offset {
		switch a.StateAt(uint32(i)) {
		case Active:
			live++
		case Tombstone:
			tombstones++
		}
	}
	return
}
