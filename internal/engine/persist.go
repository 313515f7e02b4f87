package engine

import (
	"context"

	"github.com/iamNilotpal/rogue/internal/events"
	"github.com/iamNilotpal/rogue/internal/index"
	"github.com/iamNilotpal/rogue/internal/record"
	"github.com/iamNilotpal/rogue/internal/snapshot"
	"github.com/iamNilotpal/rogue/internal/storage"
	rogueerrors "github.com/iamNilotpal/rogue/pkg/errors"
)

// Serialize flattens the engine's current state into a ROGUE-format
// snapshot blob. It does not otherwise mutate or block the engine: the
// blob is built directly from the live index arrays and log, so a
// concurrent caller (there are none under this engine's single-threaded
// contract, but Serialize makes no assumption beyond it) would see a
// consistent-as-of-call snapshot.
func (e *Engine[K, V]) Serialize() ([]byte, error) {
	src := snapshot.Source{
		BucketCount: e.idx.Count(),
		LiveCount:   uint32(e.liveCount),
		WriteOffset: e.writeOffset,
		BucketOffsetAbs: func(i uint32) int64 {
			return e.idx.AbsOffset(i)
		},
		Log: func(n int64) []byte {
			return e.storage.ReadBytes(0, n)
		},
	}

	blob, err := snapshot.Serialize(src)
	if err != nil {
		return nil, rogueerrors.NewInvalidSnapshotError(err.Error())
	}
	return blob, nil
}

// Deserialize replaces the engine's entire state with what blob encodes.
// The bucket offsets recovered from the blob only identify which record
// each bucket pointed at; ACTIVE vs Tombstone state and the live/
// tombstone counters are both rederived from each record's own Flag
// byte, since the wire format loses the offset sign (§4.5). Any
// already-expired record found during the rescan is treated the way
// Compact treats one: flipped to DELETED, kept in the index as a
// tombstone, and emitted as Expire once the restored state is in place.
func (e *Engine[K, V]) Deserialize(blob []byte) error {
	hdr, bucketAbs, logBytes, err := snapshot.Deserialize(blob)
	if err != nil {
		return rogueerrors.NewInvalidSnapshotError(err.Error())
	}

	newStorage := storage.New(int64(len(logBytes)), 0)
	newStorage.WriteBytes(0, logBytes)

	newIdx := index.New(hdr.Capacity)
	now := e.clock()

	live, tombstones := 0, 0
	var expiredKeys []K
	for i, abs := range bucketAbs {
		if abs == 0 {
			continue
		}
		if abs < 1 || abs >= int64(len(logBytes)) {
			return rogueerrors.NewIndexCorruptionError("deserialize", len(bucketAbs), nil).
				WithDetail("bucket", i).
				WithDetail("offset", abs)
		}
		recHdr, _ := e.readHeaderFrom(newStorage, abs)
		if recHdr.Flag == record.FlagActive && isExpired(recHdr.ExpireAt, now) {
			newStorage.WriteU8(abs, record.FlagDeleted)
			keyBytes := newStorage.ReadBytes(abs+int64(e.layout.HeaderSize()), int64(recHdr.KeyLen))
			expiredKeys = append(expiredKeys, e.keyCodec.Decode(keyBytes, 0, len(keyBytes)))
			recHdr.Flag = record.FlagDeleted
		}
		newIdx.SetActive(uint32(i), recHdr.Hash, abs)
		if recHdr.Flag != record.FlagActive {
			newIdx.MarkTombstone(uint32(i))
			tombstones++
			continue
		}
		live++
	}

	e.storage = newStorage
	e.idx = newIdx
	e.writeOffset = int64(hdr.WriteOffset)
	e.liveCount = live
	e.tombstoneCount = tombstones
	if e.cache != nil {
		e.cache.Clear()
	}
	for _, key := range expiredKeys {
		e.events.Emit(events.Event{Kind: events.Expire, Key: key})
	}
	return nil
}

// Save serializes the engine and hands the blob to the configured
// PersistenceAdapter under its persistence key. It is a no-op returning
// nil when no adapter is configured, matching a save()-without-
// persistence-enabled call being harmless rather than an error.
func (e *Engine[K, V]) Save(ctx context.Context) error {
	if e.adapter == nil {
		return nil
	}
	blob, err := e.Serialize()
	if err != nil {
		return err
	}
	return e.adapter.Save(ctx, e.persKey, blob)
}

// Load restores the engine's state from whatever the configured
// PersistenceAdapter has stored under its persistence key. It returns
// false, nil when no adapter is configured or no snapshot exists yet,
// distinguishing "nothing to load" from a real I/O or format failure.
func (e *Engine[K, V]) Load(ctx context.Context) (bool, error) {
	if e.adapter == nil {
		return false, nil
	}

	if e.syncLoad {
		if syncAdapter, ok := e.adapter.(interface {
			LoadSync(key string) ([]byte, bool, error)
		}); ok {
			blob, found, err := syncAdapter.LoadSync(e.persKey)
			if err != nil {
				return false, err
			}
			if !found {
				return false, nil
			}
			return true, e.Deserialize(blob)
		}
	}

	blob, found, err := e.adapter.Load(ctx, e.persKey)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return true, e.Deserialize(blob)
}
