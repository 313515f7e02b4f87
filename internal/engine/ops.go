package engine

import (
	"github.com/iamNilotpal/rogue/internal/events"
	"github.com/iamNilotpal/rogue/internal/index"
	"github.com/iamNilotpal/rogue/internal/record"
)

// Set inserts or updates key with value. See §4.3: the key is encoded
// once into a reusable scratch buffer and reused for every probe
// comparison; on a match against an existing live key, the old record is
// flipped to DELETED and a fresh ACTIVE record is appended, preserving
// "exactly one active record per live key" at every point in the
// process.
func (e *Engine[K, V]) Set(key K, value V, opts ...SetOption) error {
	if err := e.checkOpen(); err != nil {
		return err
	}

	so := SetOptions{}
	for _, o := range opts {
		o(&so)
	}

	now := e.clock()
	var expireAt int64
	switch {
	case so.ttlSet && so.ttl > 0:
		expireAt = now + so.ttl.Milliseconds()
	case so.ttlSet:
		expireAt = 0
	case e.defaultTTL > 0:
		expireAt = now + e.defaultTTL.Milliseconds()
	}

	if uint32(e.liveCount) >= loadFactorLimit(e.idx.Count()) {
		if err := e.resizeLoadFactor(); err != nil {
			return err
		}
	}

	h := e.hasher(key)
	scratch := e.encodeKey(key)
	valBuf := make([]byte, e.valueCodec.ByteLength(value))
	e.valueCodec.Encode(value, valBuf, 0)

	return e.insert(key, value, h, scratch, valBuf, expireAt, 0)
}

// insert runs one pass of the probe loop for Set. tableResizes counts how
// many times this call has already triggered a bucket resize, guarding
// against runaway recursion if probing keeps wrapping.
func (e *Engine[K, V]) insert(key K, value V, h int32, keyBytes, valBytes []byte, expireAt int64, tableResizes int) error {
	start := e.idx.Start(h)
	cur := start

	haveTombstone := false
	var tombstoneSlot uint32

	for {
		switch e.idx.StateAt(cur) {
		case index.Empty:
			target := cur
			if haveTombstone {
				target = tombstoneSlot
			}
			off, err := e.appendWithRetry(record.FlagActive, h, expireAt, keyBytes, valBytes)
			if err != nil {
				return err
			}
			e.idx.SetActive(target, h, off)
			e.liveCount++
			if e.cache != nil {
				e.cache.Set(string(keyBytes), valBytes)
			}
			e.events.Emit(events.Event{Kind: events.Set, Key: key, Value: value})
			e.maybeAutoCompact()
			return nil

		case index.Tombstone:
			if !haveTombstone {
				haveTombstone = true
				tombstoneSlot = cur
			}

		case index.Active:
			if e.idx.Hash[cur] == h {
				offset := e.idx.AbsOffset(cur)
				hdr, _ := e.readHeader(offset)
				if e.keyMatches(offset+int64(e.layout.HeaderSize()), hdr.KeyLen, keyBytes) {
					off, err := e.appendWithRetry(record.FlagActive, h, expireAt, keyBytes, valBytes)
					if err != nil {
						return err
					}
					e.storage.WriteU8(offset, record.FlagDeleted)
					e.tombstoneCount++
					e.idx.SetActive(cur, h, off)
					if e.cache != nil {
						e.cache.Set(string(keyBytes), valBytes)
					}
					e.events.Emit(events.Event{Kind: events.Set, Key: key, Value: value})
					e.maybeAutoCompact()
					return nil
				}
			}
		}

		cur = e.idx.NextSlot(cur)
		if cur == start {
			if tableResizes >= 3 {
				return newCapacityExhaustedErr("table", tableResizes, e.idx.Count(), e.writeOffset)
			}
			if err := e.resizeBuckets(); err != nil {
				return err
			}
			return e.insert(key, value, h, keyBytes, valBytes, expireAt, tableResizes+1)
		}
	}
}

// loadFactorLimit returns the live-count threshold (0.75 * count) at or
// above which Set must resize before inserting.
func loadFactorLimit(count uint32) uint32 {
	return uint32(float64(count) * 0.75)
}

// probeResult describes what Get/Has/Delete found after walking the
// probe sequence for a key.
type probeResult struct {
	found  bool
	slot   uint32
	offset int64
}

// probe walks the linear probe sequence for hash h looking for a live
// key whose encoded bytes equal keyBytes. It does not apply expiry: that
// is each caller's responsibility, since Get/Has/Delete react to an
// expired match differently.
func (e *Engine[K, V]) probe(h int32, keyBytes []byte) probeResult {
	start := e.idx.Start(h)
	cur := start

	for {
		switch e.idx.StateAt(cur) {
		case index.Empty:
			return probeResult{}
		case index.Active:
			if e.idx.Hash[cur] == h {
				offset := e.idx.AbsOffset(cur)
				hdr, _ := e.readHeader(offset)
				if e.keyMatches(offset+int64(e.layout.HeaderSize()), hdr.KeyLen, keyBytes) {
					return probeResult{found: true, slot: cur, offset: offset}
				}
			}
		}

		cur = e.idx.NextSlot(cur)
		if cur == start {
			return probeResult{}
		}
	}
}

// expireIfNeeded checks the record at res.offset for expiry and, if
// expired, flips it to DELETED and updates counters/events. It returns
// true if the record is expired (and therefore should be treated as not
// found).
func (e *Engine[K, V]) expireIfNeeded(res probeResult, key K, hdr record.Header, now int64) bool {
	if !isExpired(hdr.ExpireAt, now) {
		return false
	}
	e.storage.WriteU8(res.offset, record.FlagDeleted)
	e.idx.MarkTombstone(res.slot)
	e.liveCount--
	e.tombstoneCount++
	if e.cache != nil {
		e.cache.Delete(string(e.storage.ReadBytes(res.offset+int64(e.layout.HeaderSize()), int64(hdr.KeyLen))))
	}
	e.events.Emit(events.Event{Kind: events.Expire, Key: key})
	return true
}

// Get returns the current value for key, or (zero, false) if it does not
// exist or has expired.
func (e *Engine[K, V]) Get(key K) (V, bool) {
	var zero V
	if e.closed.Load() {
		return zero, false
	}

	if e.cache != nil {
		keyBytes := e.encodeKey(key)
		if cached, ok := e.cache.Get(string(keyBytes)); ok {
			return e.valueCodec.Decode(cached, 0, len(cached)), true
		}
	}

	h := e.hasher(key)
	keyBytes := e.encodeKey(key)
	res := e.probe(h, keyBytes)
	if !res.found {
		return zero, false
	}

	hdr, _ := e.readHeader(res.offset)
	now := e.clock()
	if e.expireIfNeeded(res, key, hdr, now) {
		return zero, false
	}

	value := e.decodeValueAt(res.offset, hdr)
	if e.cache != nil {
		valBuf := make([]byte, e.valueCodec.ByteLength(value))
		e.valueCodec.Encode(value, valBuf, 0)
		e.cache.Set(string(keyBytes), valBuf)
	}
	return value, true
}

// Has reports whether key exists and has not expired, applying the same
// lazy-delete side effect as Get on an expired match.
func (e *Engine[K, V]) Has(key K) bool {
	if e.closed.Load() {
		return false
	}

	h := e.hasher(key)
	keyBytes := e.encodeKey(key)
	res := e.probe(h, keyBytes)
	if !res.found {
		return false
	}

	hdr, _ := e.readHeader(res.offset)
	if e.expireIfNeeded(res, key, hdr, e.clock()) {
		return false
	}
	return true
}

// Delete removes key, returning whether a live, non-expired entry was
// removed. An already-expired match is flipped to DELETED as a side
// effect (and reported via Expire, not Delete) but Delete itself returns
// false, since there was nothing live left to delete.
func (e *Engine[K, V]) Delete(key K) bool {
	if err := e.checkOpen(); err != nil {
		return false
	}

	h := e.hasher(key)
	keyBytes := e.encodeKey(key)
	res := e.probe(h, keyBytes)
	if !res.found {
		return false
	}

	hdr, _ := e.readHeader(res.offset)
	now := e.clock()
	if e.expireIfNeeded(res, key, hdr, now) {
		return false
	}

	e.storage.WriteU8(res.offset, record.FlagDeleted)
	e.idx.MarkTombstone(res.slot)
	e.liveCount--
	e.tombstoneCount++
	if e.cache != nil {
		e.cache.Delete(string(keyBytes))
	}
	e.events.Emit(events.Event{Kind: events.Delete, Key: key})
	e.maybeAutoCompact()
	return true
}

// Clear empties the engine: both index arrays are zeroed, the write
// cursor resets to 1, and counters reset to zero.
func (e *Engine[K, V]) Clear() {
	e.idx.Clear()
	e.writeOffset = 1
	e.liveCount = 0
	e.tombstoneCount = 0
	if e.cache != nil {
		e.cache.Clear()
	}
	e.events.Emit(events.Event{Kind: events.Clear})
}

func (e *Engine[K, V]) maybeAutoCompact() {
	if e.compactionPolicy.ShouldTrigger(e.liveCount, e.tombstoneCount) {
		_ = e.Compact()
	}
}
