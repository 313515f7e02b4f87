// Package rogue provides an embedded, in-process key/value store: a
// paged append-only log paired with an open-addressed hash index, the
// same two-structure design Bitcask-style engines use, generalized here
// over arbitrary key and value types through caller-supplied Codecs.
//
// Map is the package's central type. Everything else — probing,
// resize, compaction, TTL, persistence — lives in internal/engine; this
// package just gives it a typed, friendly surface and sensible defaults
// for the common case of string keys and JSON-shaped values.
package rogue

import (
	"context"
	"time"

	"go.uber.org/zap"

	rcodec "github.com/iamNilotpal/rogue/internal/codec"
	"github.com/iamNilotpal/rogue/internal/engine"
	"github.com/iamNilotpal/rogue/internal/events"
	rhash "github.com/iamNilotpal/rogue/internal/hash"
	"github.com/iamNilotpal/rogue/pkg/codec"
	"github.com/iamNilotpal/rogue/pkg/hash"
	"github.com/iamNilotpal/rogue/pkg/logging"
	"github.com/iamNilotpal/rogue/pkg/options"
)

// Entry is one decoded key/value pair, produced by the iteration methods.
type Entry[K comparable, V any] = engine.Entry[K, V]

// SetOption customizes a single Set call, currently only its TTL.
type SetOption = engine.SetOption

// WithTTL overrides the map's default TTL for a single Set call.
func WithTTL(ttl time.Duration) SetOption { return engine.WithTTL(ttl) }

// Map is a generic, embedded key/value store over key type K and value
// type V. A *Map is safe for sequential use by a single goroutine at a
// time; like a plain Go map, concurrent callers must synchronize
// externally, since the engine takes no locks of its own.
type Map[K comparable, V any] struct {
	eng *engine.Engine[K, V]
}

// Config collects everything Open needs: the Codec/Hasher pair for K and
// V, and the non-generic Options governing sizing, persistence,
// compaction, caching, and TTL.
type Config[K comparable, V any] struct {
	Options options.Options

	KeyCodec   codec.Codec[K]
	ValueCodec codec.Codec[V]
	Hasher     hash.Hasher[K]

	// Service names the logger this Map reports under. Defaults to
	// "rogue" when empty.
	Service string

	// Logger overrides the default logger built from Service.
	Logger *zap.SugaredLogger
}

// Open builds a new, empty Map from cfg.
func Open[K comparable, V any](cfg Config[K, V]) (*Map[K, V], error) {
	logger := cfg.Logger
	if logger == nil {
		service := cfg.Service
		if service == "" {
			service = "rogue"
		}
		logger = logging.New(service)
	}

	eng, err := engine.New(engine.Config[K, V]{
		Options:    cfg.Options,
		KeyCodec:   cfg.KeyCodec,
		ValueCodec: cfg.ValueCodec,
		Hasher:     cfg.Hasher,
		Logger:     logger,
		Events:     events.NewBus(),
	})
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{eng: eng}, nil
}

// OpenStrings is a convenience constructor for the common string-keyed,
// JSON-valued case: it wires in the built-in String codec for keys, a
// generic Codec[V] for values, and the default xxhash-backed Hasher.
func OpenStrings[V any](opts ...options.OptionFunc) (*Map[string, V], error) {
	return Open(Config[string, V]{
		Options:    options.Apply(opts...),
		KeyCodec:   rcodec.String{},
		ValueCodec: rcodec.JSON[V]{},
		Hasher:     rhash.StringXXHash32(),
	})
}

// Set inserts or updates key with value.
func (m *Map[K, V]) Set(key K, value V, opts ...SetOption) error {
	return m.eng.Set(key, value, opts...)
}

// Get returns the current value for key, or (zero, false) if it does
// not exist or has expired.
func (m *Map[K, V]) Get(key K) (V, bool) {
	return m.eng.Get(key)
}

// Has reports whether key exists and has not expired.
func (m *Map[K, V]) Has(key K) bool {
	return m.eng.Has(key)
}

// Delete removes key, reporting whether a live entry was removed.
func (m *Map[K, V]) Delete(key K) bool {
	return m.eng.Delete(key)
}

// Clear empties the map.
func (m *Map[K, V]) Clear() {
	m.eng.Clear()
}

// Size returns the number of live, non-expired keys.
func (m *Map[K, V]) Size() int {
	return m.eng.Size()
}

// Entries returns every live, non-expired key/value pair as of the call.
func (m *Map[K, V]) Entries() []Entry[K, V] {
	return m.eng.Entries()
}

// Keys returns every live, non-expired key as of the call.
func (m *Map[K, V]) Keys() []K {
	return m.eng.Keys()
}

// Values returns every live, non-expired value as of the call.
func (m *Map[K, V]) Values() []V {
	return m.eng.Values()
}

// EntriesChan streams every live entry over a channel, cooperatively
// yielding between batches so a large map doesn't block other work.
func (m *Map[K, V]) EntriesChan(ctx context.Context, batchSize int) <-chan Entry[K, V] {
	return m.eng.EntriesChan(ctx, batchSize)
}

// Compact reclaims the space held by deleted and expired records.
func (m *Map[K, V]) Compact() error {
	return m.eng.Compact()
}

// Serialize flattens the map's current state into a snapshot blob.
func (m *Map[K, V]) Serialize() ([]byte, error) {
	return m.eng.Serialize()
}

// Deserialize replaces the map's state with what blob encodes.
func (m *Map[K, V]) Deserialize(blob []byte) error {
	return m.eng.Deserialize(blob)
}

// Save writes a snapshot to the configured persistence adapter.
func (m *Map[K, V]) Save(ctx context.Context) error {
	return m.eng.Save(ctx)
}

// Load restores state from the configured persistence adapter, if a
// snapshot exists. The bool return reports whether one was found.
func (m *Map[K, V]) Load(ctx context.Context) (bool, error) {
	return m.eng.Load(ctx)
}

// OnSet subscribes handler to every successful Set.
func (m *Map[K, V]) OnSet(handler events.Handler) { m.eng.OnSet(handler) }

// OnDelete subscribes handler to every successful Delete.
func (m *Map[K, V]) OnDelete(handler events.Handler) { m.eng.OnDelete(handler) }

// OnExpire subscribes handler to every discovered expiry.
func (m *Map[K, V]) OnExpire(handler events.Handler) { m.eng.OnExpire(handler) }

// OnEvict subscribes handler to every hot-cache eviction.
func (m *Map[K, V]) OnEvict(handler events.Handler) { m.eng.OnEvict(handler) }

// OnClear subscribes handler to every Clear call.
func (m *Map[K, V]) OnClear(handler events.Handler) { m.eng.OnClear(handler) }

// Close releases the map's background resources (hot cache eviction
// loop, periodic save scheduler, persistence adapter).
func (m *Map[K, V]) Close() error {
	return m.eng.Close()
}
