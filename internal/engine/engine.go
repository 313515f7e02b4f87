// Package engine implements the hash-table protocol at the center of
// rogue: probing, insert, lookup, delete, update, resize, compaction,
// TTL handling, and iteration over a paged log and a pair of index
// arrays. The engine is generic over key and value types but never
// interprets their bytes itself; encoding and decoding are delegated to
// the configured Codecs.
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/iamNilotpal/rogue/internal/adapters"
	"github.com/iamNilotpal/rogue/internal/cache"
	"github.com/iamNilotpal/rogue/internal/compaction"
	"github.com/iamNilotpal/rogue/internal/events"
	"github.com/iamNilotpal/rogue/internal/hash"
	"github.com/iamNilotpal/rogue/internal/index"
	"github.com/iamNilotpal/rogue/internal/record"
	"github.com/iamNilotpal/rogue/internal/storage"
	"github.com/iamNilotpal/rogue/pkg/codec"
	rogueerrors "github.com/iamNilotpal/rogue/pkg/errors"
	"github.com/iamNilotpal/rogue/pkg/options"
)

// adaptiveCompareThreshold is the stored key length at or below which the
// probe loop compares bytes itself rather than delegating to the paged
// storage's bulk equality primitive. Purely an optimization knob; both
// paths must and do agree.
const adaptiveCompareThreshold = 48

// Clock returns the current time as milliseconds since the Unix epoch.
// Tests substitute a deterministic Clock to exercise TTL expiry without
// sleeping.
type Clock func() int64

func systemClock() int64 { return time.Now().UnixMilli() }

// Config collects everything New needs to build an Engine: the
// non-generic Options, the generic Codec/Hasher pair, and the optional
// external collaborators (logger, event bus, persistence adapter).
type Config[K comparable, V any] struct {
	Options options.Options

	KeyCodec   codec.Codec[K]
	ValueCodec codec.Codec[V]
	Hasher     hash.Hasher[K]

	Logger         *zap.SugaredLogger
	Events         *events.Bus
	Adapter        adapters.PersistenceAdapter
	PersistenceKey string

	// Clock overrides time.Now for tests; nil selects the system clock.
	Clock Clock
}

// SetOptions controls the per-call behavior of Set.
type SetOptions struct {
	ttl    time.Duration
	ttlSet bool
}

// SetOption customizes a single Set call.
type SetOption func(*SetOptions)

// WithTTL overrides the engine's default TTL for a single Set call. A
// ttl of 0 means the stored entry never expires, overriding any
// configured default TTL.
func WithTTL(ttl time.Duration) SetOption {
	return func(o *SetOptions) {
		o.ttl = ttl
		o.ttlSet = true
	}
}

// Entry is one decoded key/value pair, produced by the iteration methods.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Engine is the monomorphic-over-bytes hash table, exposed generically
// over K and V through the Codecs supplied in Config.
type Engine[K comparable, V any] struct {
	keyCodec   codec.Codec[K]
	valueCodec codec.Codec[V]
	hasher     hash.Hasher[K]

	logger  *zap.SugaredLogger
	events  *events.Bus
	adapter adapters.PersistenceAdapter
	persKey string
	cache   *cache.Hot
	clock   Clock

	storage *storage.Storage
	idx     *index.Arrays
	layout  record.Layout

	writeOffset    int64
	liveCount      int
	tombstoneCount int

	defaultTTL       time.Duration
	compactionPolicy compaction.Policy
	minLogBytes      int64

	saveScheduler *compaction.Scheduler
	syncLoad      bool

	scratchKey []byte
	closed     atomic.Bool
}

// New builds an Engine from cfg, applying defaults for anything the
// caller left zero-valued.
func New[K comparable, V any](cfg Config[K, V]) (*Engine[K, V], error) {
	if cfg.KeyCodec == nil {
		return nil, rogueerrors.NewEngineError(nil, rogueerrors.ErrorCodeCodecMismatch, "key codec is required")
	}
	if cfg.ValueCodec == nil {
		return nil, rogueerrors.NewEngineError(nil, rogueerrors.ErrorCodeCodecMismatch, "value codec is required")
	}
	if cfg.Hasher == nil {
		return nil, rogueerrors.NewEngineError(nil, rogueerrors.ErrorCodeCodecMismatch, "hasher is required")
	}

	opts := cfg.Options
	if opts.InitialBucketCount == 0 {
		opts.InitialBucketCount = options.DefaultInitialBucketCount
	}
	if opts.Compaction.MinSize == 0 {
		opts.Compaction.Threshold = options.DefaultCompactionThreshold
		opts.Compaction.MinSize = options.DefaultCompactionMinSize
		opts.Compaction.AutoCompact = true
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	bucketCount := index.NextPowerOfTwo(opts.InitialBucketCount)
	logBytes := opts.InitialLogBytes
	if logBytes <= 0 {
		logBytes = options.DefaultInitialLogBytes
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	clock := cfg.Clock
	if clock == nil {
		clock = systemClock
	}

	eventBus := cfg.Events
	if eventBus == nil {
		eventBus = events.NewBus()
	}

	layout := layoutFor[K, V](cfg.KeyCodec, cfg.ValueCodec)

	adapter := cfg.Adapter
	if adapter == nil {
		switch opts.Persistence.Type {
		case options.PersistenceMemory:
			adapter = adapters.NewMemoryAdapter()
		case options.PersistenceFile, options.PersistenceAuto:
			if opts.Persistence.Path != "" {
				fa, err := adapters.NewFileAdapter(opts.Persistence.Path)
				if err != nil {
					return nil, rogueerrors.NewEngineError(err, rogueerrors.ErrorCodeIO, "failed to create file persistence adapter")
				}
				adapter = fa
			} else if opts.Persistence.Type == options.PersistenceAuto {
				adapter = adapters.NewMemoryAdapter()
			}
		}
	}

	persKey := cfg.PersistenceKey
	if persKey == "" {
		persKey = "default"
	}

	e := &Engine[K, V]{
		keyCodec:   cfg.KeyCodec,
		valueCodec: cfg.ValueCodec,
		hasher:     cfg.Hasher,

		logger:   logger.Named("engine"),
		events:   eventBus,
		adapter:  adapter,
		persKey:  persKey,
		clock:    clock,
		syncLoad: opts.Persistence.SyncLoad,

		storage: storage.New(logBytes, 0),
		idx:     index.New(bucketCount),
		layout:  layout,

		writeOffset: 1, // offset 0 is the reserved empty sentinel.

		defaultTTL: opts.TTL,
		compactionPolicy: compaction.Policy{
			AutoCompact: opts.Compaction.AutoCompact,
			Threshold:   opts.Compaction.Threshold,
			MinSize:     opts.Compaction.MinSize,
		},
		minLogBytes: logBytes,
	}

	if opts.CacheSize > 0 {
		e.cache = cache.New(opts.CacheSize, 30*time.Second, func(key string, value []byte) {
			e.events.Emit(events.Event{
				Kind:  events.Evict,
				Key:   e.keyCodec.Decode([]byte(key), 0, len(key)),
				Value: e.valueCodec.Decode(value, 0, len(value)),
			})
		})
	}

	if e.adapter != nil && opts.Persistence.SaveInterval > 0 {
		e.saveScheduler = compaction.NewScheduler(opts.Persistence.SaveInterval, func(ctx context.Context) error {
			return e.Save(ctx)
		}, func(err error) {
			e.logger.Warnw("periodic save failed", "error", err)
		})
		e.saveScheduler.Start(context.Background())
	}

	e.logger.Debugw("engine created", "buckets", bucketCount, "logBytes", logBytes)
	return e, nil
}

// layoutFor derives a record.Layout from the fixed-length declarations
// of the configured key and value codecs.
func layoutFor[K comparable, V any](kc codec.Codec[K], vc codec.Codec[V]) record.Layout {
	var l record.Layout
	if n, ok := kc.FixedLength(); ok {
		l.KeyIsFixed = true
		l.KeyFixedLen = n
	}
	if n, ok := vc.FixedLength(); ok {
		l.ValIsFixed = true
		l.ValFixedLen = n
	}
	return l
}

// Size returns the number of distinct live, non-expired keys tracked by
// the engine's counters. Lazily-expired entries are excluded as soon as
// a read path observes them; entries that have silently expired but have
// not yet been touched may still be counted until then.
func (e *Engine[K, V]) Size() int { return e.liveCount }

// Close releases the engine's external collaborators: the hot cache's
// background goroutine, and anything the persistence adapter needs
// stopped. Errors from each are aggregated with multierr so a single
// failure doesn't hide the others.
func (e *Engine[K, V]) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	if e.saveScheduler != nil {
		e.saveScheduler.Stop()
	}
	if e.cache != nil {
		e.cache.Close()
	}
	if closer, ok := e.adapter.(interface{ Close() error }); ok {
		err = multierr.Append(err, closer.Close())
	}
	return err
}

func (e *Engine[K, V]) checkOpen() error {
	if e.closed.Load() {
		return fmt.Errorf("rogue: engine is closed")
	}
	return nil
}

// encodeKey writes key into the engine's reusable scratch buffer and
// returns the slice of it holding the encoded bytes. The buffer is
// reused across calls (never re-encoded per probe-loop slot within one
// operation), but a later call may reallocate and invalidate a slice
// returned by an earlier call.
func (e *Engine[K, V]) encodeKey(key K) []byte {
	n := e.keyCodec.ByteLength(key)
	if cap(e.scratchKey) < n {
		e.scratchKey = make([]byte, n)
	}
	buf := e.scratchKey[:n]
	e.keyCodec.Encode(key, buf, 0)
	return buf
}

// keyMatches reports whether the keyLen bytes stored at offset equal
// want, using a manual byte-by-byte loop for short keys and the paged
// storage's bulk equality primitive for long ones. Both paths must agree
// and do, since both perform the same byte comparison; the threshold is
// purely an optimization knob.
func (e *Engine[K, V]) keyMatches(offset int64, keyLen int32, want []byte) bool {
	if int(keyLen) != len(want) {
		return false
	}
	if keyLen <= adaptiveCompareThreshold {
		for i := int32(0); i < keyLen; i++ {
			if e.storage.ReadU8(offset+int64(i)) != want[i] {
				return false
			}
		}
		return true
	}
	return e.storage.Equal(offset, int64(keyLen), want)
}

// readHeader decodes the record header at offset.
func (e *Engine[K, V]) readHeader(offset int64) (record.Header, int) {
	headerBytes := e.storage.ReadBytes(offset, int64(e.layout.HeaderSize()))
	return record.DecodeHeader(headerBytes, e.layout)
}

// decodeValueAt decodes the value bytes of the record at offset (whose
// header is hdr), preferring a zero-copy storage view and falling back
// to a copy when the value straddles a page boundary.
func (e *Engine[K, V]) decodeValueAt(offset int64, hdr record.Header) V {
	valOffset := offset + int64(e.layout.HeaderSize()) + int64(hdr.KeyLen)
	if view, ok := e.storage.TryView(valOffset, int64(hdr.ValLen)); ok {
		return e.valueCodec.Decode(view, 0, int(hdr.ValLen))
	}
	view := e.storage.ReadBytes(valOffset, int64(hdr.ValLen))
	return e.valueCodec.Decode(view, 0, int(hdr.ValLen))
}

// decodeKeyAt decodes the key bytes of the record at offset (whose
// header is hdr).
func (e *Engine[K, V]) decodeKeyAt(offset int64, hdr record.Header) K {
	keyOffset := offset + int64(e.layout.HeaderSize())
	if view, ok := e.storage.TryView(keyOffset, int64(hdr.KeyLen)); ok {
		return e.keyCodec.Decode(view, 0, int(hdr.KeyLen))
	}
	view := e.storage.ReadBytes(keyOffset, int64(hdr.KeyLen))
	return e.keyCodec.Decode(view, 0, int(hdr.KeyLen))
}

// isExpired reports whether a non-zero expireAt has passed as of now.
func isExpired(expireAt, now int64) bool {
	return expireAt != 0 && now > expireAt
}

// OnSet subscribes handler to every successful Set.
func (e *Engine[K, V]) OnSet(handler events.Handler) { e.events.OnSet(handler) }

// OnDelete subscribes handler to every successful Delete.
func (e *Engine[K, V]) OnDelete(handler events.Handler) { e.events.OnDelete(handler) }

// OnExpire subscribes handler to every lazily or eagerly discovered expiry.
func (e *Engine[K, V]) OnExpire(handler events.Handler) { e.events.OnExpire(handler) }

// OnEvict subscribes handler to every hot-cache eviction.
func (e *Engine[K, V]) OnEvict(handler events.Handler) { e.events.OnEvict(handler) }

// OnClear subscribes handler to every Clear call.
func (e *Engine[K, V]) OnClear(handler events.Handler) { e.events.OnClear(handler) }
