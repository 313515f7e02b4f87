package engine

import (
	"github.com/iamNilotpal/rogue/internal/events"
	"github.com/iamNilotpal/rogue/internal/record"
)

// Compact reclaims the space held by DELETED records and any ACTIVE
// record whose TTL has silently elapsed without being touched by a read.
// It runs in three passes over the current log: the first flips
// newly-expired records to DELETED and emits Expire for each one, the
// second sums the bytes of the still-ACTIVE records to size the new log,
// and the third replays every still-ACTIVE record into that freshly sized
// log and index, identical in shape to the rebuild a load-factor resize
// performs.
// Compact never shrinks the bucket count below its current size; it only
// ever shrinks the log, and only down to what the surviving records need.
func (e *Engine[K, V]) Compact() error {
	now := e.clock()
	expiredCount := 0

	cur := int64(1)
	for cur < e.writeOffset {
		hdr, _ := e.readHeader(cur)
		size := hdr.Size(e.layout)

		if hdr.Flag == record.FlagActive && isExpired(hdr.ExpireAt, now) {
			key := e.decodeKeyAt(cur, hdr)
			e.storage.WriteU8(cur, record.FlagDeleted)
			expiredCount++
			e.events.Emit(events.Event{Kind: events.Expire, Key: key})
		}

		cur += size
	}
	e.liveCount -= expiredCount

	liveBytes := e.liveBytes()
	targetLog := nextPowerOfTwoInt64(liveBytes)
	if targetLog < e.minLogBytes {
		targetLog = e.minLogBytes
	}

	e.logger.Debugw("compacting",
		"liveCount", e.liveCount, "tombstones", e.tombstoneCount, "targetLogBytes", targetLog)

	return e.rebuild(e.idx.Count(), targetLog)
}

// liveBytes sums the on-disk size of every currently ACTIVE record,
// giving Compact a lower bound for how small the rebuilt log can be.
func (e *Engine[K, V]) liveBytes() int64 {
	var total int64
	cur := int64(1)
	for cur < e.writeOffset {
		hdr, _ := e.readHeader(cur)
		size := hdr.Size(e.layout)
		if hdr.Flag == record.FlagActive {
			total += size
		}
		cur += size
	}
	return total
}

func nextPowerOfTwoInt64(n int64) int64 {
	if n <= 1 {
		return 1
	}
	p := int64(1)
	for p < n {
		p <<= 1
	}
	return p
}
