// Package options provides the non-generic configuration surface for a
// rogue engine: bucket sizing, persistence, compaction, hot-cache, and
// TTL settings. Codec and Hasher selection are generic over the engine's
// key/value types and so live alongside the engine constructor instead,
// but everything else funnels through the same functional-options
// pattern this package has always used.
package options

import (
	"strings"
	"time"

	rogueerrors "github.com/iamNilotpal/rogue/pkg/errors"
)

// PersistenceKind selects which PersistenceAdapter backs save()/load().
type PersistenceKind string

const (
	PersistenceNone   PersistenceKind = ""
	PersistenceFile   PersistenceKind = "file"
	PersistenceMemory PersistenceKind = "memory"
	PersistenceAuto   PersistenceKind = "auto"
)

// persistenceOptions configures the optional periodic-save adapter.
type persistenceOptions struct {
	// Path is the directory (file adapter) snapshots are written under.
	//
	// Default: ""
	Path string `json:"path"`

	// Type selects which PersistenceAdapter implementation is wired in.
	//
	// Default: PersistenceNone
	Type PersistenceKind `json:"type"`

	// SaveInterval is how often the periodic save tick fires. Zero
	// disables the automatic tick; callers may still call Save explicitly.
	//
	// Default: 0
	SaveInterval time.Duration `json:"saveIntervalMs"`

	// SyncLoad makes the engine's Load use the adapter's synchronous
	// LoadSync flavor when the adapter implements it; the core falls back
	// to the async flavor otherwise. Nothing is loaded automatically.
	//
	// Default: false
	SyncLoad bool `json:"syncLoad"`
}

// compactionOptions configures the auto-compaction trigger.
type compactionOptions struct {
	// AutoCompact enables the inline trigger evaluated on mutating ops.
	//
	// Default: true
	AutoCompact bool `json:"autoCompact"`

	// Threshold is the tombstone ratio that must be exceeded to trigger.
	//
	// Default: 0.3
	Threshold float64 `json:"threshold"`

	// MinSize is the minimum live+tombstone count before the ratio check
	// applies.
	//
	// Default: 1000
	MinSize int `json:"minSize"`
}

// Options holds the configuration parameters for a rogue engine instance
// that don't depend on its key/value type parameters.
type Options struct {
	// InitialBucketCount is rounded up to the next power of two.
	//
	// Default: 16384
	InitialBucketCount uint32 `json:"initialBucketCount"`

	// InitialLogBytes is the starting size of the paged log.
	//
	// Default: 10 MiB
	InitialLogBytes int64 `json:"initialLogBytes"`

	// Persistence configures the optional save/load adapter.
	Persistence persistenceOptions `json:"persistence"`

	// Compaction configures the auto-compaction trigger.
	Compaction compactionOptions `json:"compaction"`

	// CacheSize is the hot-cache capacity; 0 disables the hot cache.
	//
	// Default: 0
	CacheSize int `json:"cacheSize"`

	// TTL is the default time-to-live applied to a set() call that omits
	// its own ttl; 0 disables expiry by default.
	//
	// Default: 0
	TTL time.Duration `json:"ttlMs"`
}

// OptionFunc is a function type that modifies an engine's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies the full default configuration.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithInitialBucketCount sets the starting bucket count.
func WithInitialBucketCount(count uint32) OptionFunc {
	return func(o *Options) {
		if count > 0 {
			o.InitialBucketCount = count
		}
	}
}

// WithInitialLogBytes sets the starting paged-log size in bytes.
func WithInitialLogBytes(bytes int64) OptionFunc {
	return func(o *Options) {
		if bytes > 0 {
			o.InitialLogBytes = bytes
		}
	}
}

// WithPersistence enables persistence through the named adapter kind,
// rooted at path, with periodic saves every interval.
func WithPersistence(kind PersistenceKind, path string, interval time.Duration) OptionFunc {
	return func(o *Options) {
		o.Persistence.Type = kind
		o.Persistence.Path = strings.TrimSpace(path)
		o.Persistence.SaveInterval = interval
	}
}

// WithSyncLoad makes Load use the adapter's synchronous load flavor when
// the adapter has one.
func WithSyncLoad(sync bool) OptionFunc {
	return func(o *Options) {
		o.Persistence.SyncLoad = sync
	}
}

// WithCompaction configures the auto-compaction trigger.
func WithCompaction(autoCompact bool, threshold float64, minSize int) OptionFunc {
	return func(o *Options) {
		o.Compaction.AutoCompact = autoCompact
		if threshold >= 0 && threshold <= 1 {
			o.Compaction.Threshold = threshold
		}
		if minSize > 0 {
			o.Compaction.MinSize = minSize
		}
	}
}

// WithCacheSize sets the hot-cache capacity; 0 disables the hot cache.
func WithCacheSize(size int) OptionFunc {
	return func(o *Options) {
		if size >= 0 {
			o.CacheSize = size
		}
	}
}

// WithTTL sets the default time-to-live applied when set() omits one.
func WithTTL(ttl time.Duration) OptionFunc {
	return func(o *Options) {
		if ttl >= 0 {
			o.TTL = ttl
		}
	}
}

// Apply builds an Options value by layering fns over the default
// configuration, in order.
func Apply(fns ...OptionFunc) Options {
	opts := NewDefaultOptions()
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	return opts
}

// Validate reports the first configuration problem Apply's setters don't
// already guard against — notably combinations that only become invalid
// once every field is considered together, such as requesting file
// persistence without a path.
func (o Options) Validate() error {
	switch o.Persistence.Type {
	case PersistenceNone, PersistenceFile, PersistenceMemory, PersistenceAuto:
	default:
		return rogueerrors.NewFieldFormatError(
			"persistence.type", o.Persistence.Type, `one of "", "file", "memory", "auto"`,
		)
	}
	if o.Compaction.Threshold < 0 || o.Compaction.Threshold > 1 {
		return rogueerrors.NewFieldRangeError("compaction.threshold", o.Compaction.Threshold, 0.0, 1.0)
	}
	if o.Persistence.Type == PersistenceFile && strings.TrimSpace(o.Persistence.Path) == "" {
		return rogueerrors.NewRequiredFieldError("persistence.path").
			WithDetail("reason", "file persistence requires a directory to write snapshots to")
	}
	if o.InitialLogBytes < 0 {
		return rogueerrors.NewFieldRangeError("initialLogBytes", o.InitialLogBytes, 0, nil)
	}
	return nil
}
