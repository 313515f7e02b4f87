package engine

import (
	"github.com/iamNilotpal/rogue/internal/index"
	"github.com/iamNilotpal/rogue/internal/record"
	"github.com/iamNilotpal/rogue/internal/storage"
	rogueerrors "github.com/iamNilotpal/rogue/pkg/errors"
)

// newCapacityExhaustedErr builds the EngineError Set returns once a
// resize-and-retry budget is spent without finding room.
func newCapacityExhaustedErr(resource string, attempt int, bucketCount uint32, logLength int64) error {
	return rogueerrors.NewCapacityExhaustedError(resource, attempt).
		WithBucketCount(bucketCount).
		WithLogLength(logLength)
}

// appendWithRetry appends one record to the log, growing the log in
// place (widening, never replaying) up to three times if the record
// doesn't fit. This is the "log-full resize" path: distinct from
// resizeLoadFactor, which rebuilds the index too and is triggered by
// live-key count rather than by log occupancy.
func (e *Engine[K, V]) appendWithRetry(flag byte, hash int32, expireAt int64, keyBytes, valBytes []byte) (int64, error) {
	for attempt := 0; ; attempt++ {
		needed := int64(e.layout.HeaderSize()) + int64(len(keyBytes)) + int64(len(valBytes))
		if e.writeOffset+needed <= e.storage.Len() {
			return e.appendRecord(flag, hash, expireAt, keyBytes, valBytes), nil
		}
		if attempt >= 3 {
			return 0, newCapacityExhaustedErr("log", attempt, e.idx.Count(), e.storage.Len())
		}
		e.storage.Resize(e.storage.Len() * 2)
	}
}

// appendRecord writes one header+key+value record at the current write
// cursor and advances it, returning the record's starting offset. The
// caller must have already confirmed the log has room.
func (e *Engine[K, V]) appendRecord(flag byte, hash int32, expireAt int64, keyBytes, valBytes []byte) int64 {
	offset := e.writeOffset
	headerSize := e.layout.HeaderSize()

	header := make([]byte, headerSize)
	record.EncodeHeader(header, flag, hash, expireAt, int32(len(keyBytes)), int32(len(valBytes)), e.layout)

	e.storage.WriteBytes(offset, header)
	e.storage.WriteBytes(offset+int64(headerSize), keyBytes)
	e.storage.WriteBytes(offset+int64(headerSize)+int64(len(keyBytes)), valBytes)

	e.writeOffset = offset + int64(headerSize) + int64(len(keyBytes)) + int64(len(valBytes))
	return offset
}

// resizeLoadFactor doubles both the bucket count and the log, then
// rebuilds both from scratch by replaying every currently ACTIVE record
// into the fresh pair. Because the replay only ever copies ACTIVE
// records forward, this single pass also reclaims every tombstone's
// space, the same way Compact does; the two differ only in the target
// sizes they replay into.
func (e *Engine[K, V]) resizeLoadFactor() error {
	newBucketCount := e.idx.Count() * 2
	newLogBytes := e.storage.Len() * 2
	return e.rebuild(newBucketCount, newLogBytes)
}

// resizeBuckets is the safety-net path taken when a full linear probe
// fails to find an empty or tombstone slot despite the proactive
// load-factor check in Set. It rebuilds at the same target size as
// resizeLoadFactor; in ordinary operation the proactive check fires
// first, and this path only matters if a caller disabled it or inserted
// enough keys in one call-stack to outrun it.
func (e *Engine[K, V]) resizeBuckets() error {
	return e.resizeLoadFactor()
}

// rebuild allocates a fresh index of newBucketCount buckets and a fresh
// log of newLogBytes, then replays every ACTIVE record from the current
// log into them in log order, preserving insertion-relative order for
// keys that hash to the same bucket.
func (e *Engine[K, V]) rebuild(newBucketCount uint32, newLogBytes int64) error {
	newBucketCount = index.NextPowerOfTwo(newBucketCount)
	if newLogBytes < e.minLogBytes {
		newLogBytes = e.minLogBytes
	}

	newStorage := storage.New(newLogBytes, 0)
	newIdx := index.New(newBucketCount)
	newWriteOffset := int64(1)

	cur := int64(1)
	for cur < e.writeOffset {
		hdr, _ := e.readHeaderFrom(e.storage, cur)
		size := hdr.Size(e.layout)

		if hdr.Flag == record.FlagActive {
			raw := e.storage.ReadBytes(cur, size)
			for newWriteOffset+size > newStorage.Len() {
				newStorage.Resize(newStorage.Len() * 2)
			}
			newStorage.WriteBytes(newWriteOffset, raw)
			placeActive(newIdx, hdr.Hash, newWriteOffset)
			newWriteOffset += size
		}

		cur += size
	}

	e.storage = newStorage
	e.idx = newIdx
	e.writeOffset = newWriteOffset
	e.tombstoneCount = 0
	return nil
}

// readHeaderFrom decodes the record header at offset within an arbitrary
// Storage, used by rebuild to read from the engine's current log before
// it has been replaced.
func (e *Engine[K, V]) readHeaderFrom(s *storage.Storage, offset int64) (record.Header, int) {
	headerBytes := s.ReadBytes(offset, int64(e.layout.HeaderSize()))
	return record.DecodeHeader(headerBytes, e.layout)
}

// placeActive inserts (hash, offset) into idx via linear probing,
// starting from hash's natural bucket. It is only ever called during a
// rebuild, where every bucket it touches is still Empty, so it never
// needs to consider tombstones or existing matches.
func placeActive(idx *index.Arrays, hash int32, offset int64) {
	slot := idx.Start(hash)
	for idx.StateAt(slot) != index.Empty {
		slot = idx.NextSlot(slot)
	}
	idx.SetActive(slot, hash, offset)
}
