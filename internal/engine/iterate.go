package engine

import (
	"context"
	"runtime"

	"github.com/iamNilotpal/rogue/internal/record"
)

// Entries returns every live, non-expired key/value pair as of the call.
// Entries whose TTL has silently elapsed are skipped but not flipped to
// DELETED; iteration is read-only and leaves lazy expiry to Get/Has/
// Delete and to Compact.
func (e *Engine[K, V]) Entries() []Entry[K, V] {
	now := e.clock()
	out := make([]Entry[K, V], 0, e.liveCount)

	e.scanActive(now, func(hdr record.Header, offset int64) {
		out = append(out, Entry[K, V]{
			Key:   e.decodeKeyAt(offset, hdr),
			Value: e.decodeValueAt(offset, hdr),
		})
	})
	return out
}

// Keys returns every live, non-expired key as of the call.
func (e *Engine[K, V]) Keys() []K {
	now := e.clock()
	out := make([]K, 0, e.liveCount)

	e.scanActive(now, func(hdr record.Header, offset int64) {
		out = append(out, e.decodeKeyAt(offset, hdr))
	})
	return out
}

// Values returns every live, non-expired value as of the call.
func (e *Engine[K, V]) Values() []V {
	now := e.clock()
	out := make([]V, 0, e.liveCount)

	e.scanActive(now, func(hdr record.Header, offset int64) {
		out = append(out, e.decodeValueAt(offset, hdr))
	})
	return out
}

// scanActive walks the log once, invoking fn for every record that is
// currently ACTIVE and not expired as of now. It never mutates state,
// unlike Compact's pass over the same bytes.
func (e *Engine[K, V]) scanActive(now int64, fn func(hdr record.Header, offset int64)) {
	cur := int64(1)
	for cur < e.writeOffset {
		hdr, _ := e.readHeader(cur)
		size := hdr.Size(e.layout)
		if hdr.Flag == record.FlagActive && !isExpired(hdr.ExpireAt, now) {
			fn(hdr, cur)
		}
		cur += size
	}
}

// EntriesChan streams every live entry, one at a time, over an
// unbuffered channel, yielding the goroutine after every batchSize
// entries so a large table doesn't block other work. The channel is closed when iteration
// completes or ctx is canceled, whichever comes first.
func (e *Engine[K, V]) EntriesChan(ctx context.Context, batchSize int) <-chan Entry[K, V] {
	if batchSize <= 0 {
		batchSize = 256
	}
	out := make(chan Entry[K, V])

	go func() {
		defer close(out)
		now := e.clock()
		sent := 0

		cur := int64(1)
		for cur < e.writeOffset {
			hdr, _ := e.readHeader(cur)
			size := hdr.Size(e.layout)

			if hdr.Flag == record.FlagActive && !isExpired(hdr.ExpireAt, now) {
				entry := Entry[K, V]{Key: e.decodeKeyAt(cur, hdr), Value: e.decodeValueAt(cur, hdr)}
				select {
				case out <- entry:
				case <-ctx.Done():
					return
				}

				sent++
				if sent%batchSize == 0 {
					select {
					case <-ctx.Done():
						return
					default:
						runtime.Gosched()
					}
				}
			}

			cur += size
		}
	}()

	return out
}
