package options

import "time"

const (
	// DefaultInitialBucketCount is the starting number of hash buckets.
	DefaultInitialBucketCount uint32 = 16384

	// DefaultInitialLogBytes is the starting size of the paged log (10 MiB).
	DefaultInitialLogBytes int64 = 10 * 1024 * 1024

	// DefaultCompactionThreshold is the tombstone ratio that triggers an
	// automatic compaction, once DefaultCompactionMinSize is reached.
	DefaultCompactionThreshold = 0.3

	// DefaultCompactionMinSize is the minimum live+tombstone count before
	// the compaction ratio check applies.
	DefaultCompactionMinSize = 1000

	// DefaultTTL disables expiry by default.
	DefaultTTL time.Duration = 0

	// DefaultCacheSize disables the hot cache by default.
	DefaultCacheSize = 0
)

// NewDefaultOptions returns the default configuration for a rogue engine.
func NewDefaultOptions() Options {
	return Options{
		InitialBucketCount: DefaultInitialBucketCount,
		InitialLogBytes:    DefaultInitialLogBytes,
		Compaction: compactionOptions{
			AutoCompact: true,
			Threshold:   DefaultCompactionThreshold,
			MinSize:     DefaultCompactionMinSize,
		},
		CacheSize: DefaultCacheSize,
		TTL:       DefaultTTL,
	}
}
