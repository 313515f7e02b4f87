package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultsApplyWithNoOverrides(t *testing.T) {
	opts := Apply()
	require.Equal(t, DefaultInitialBucketCount, opts.InitialBucketCount)
	require.Equal(t, DefaultInitialLogBytes, opts.InitialLogBytes)
	require.True(t, opts.Compaction.AutoCompact)
	require.InDelta(t, DefaultCompactionThreshold, opts.Compaction.Threshold, 1e-9)
	require.Equal(t, DefaultCompactionMinSize, opts.Compaction.MinSize)
	require.Equal(t, DefaultCacheSize, opts.CacheSize)
	require.Equal(t, DefaultTTL, opts.TTL)
}

func TestOptionFuncsOverrideDefaults(t *testing.T) {
	opts := Apply(
		WithInitialBucketCount(512),
		WithInitialLogBytes(4096),
		WithPersistence(PersistenceFile, " /var/rogue ", 30*time.Second),
		WithSyncLoad(true),
		WithCompaction(false, 0.5, 200),
		WithCacheSize(1024),
		WithTTL(time.Minute),
	)

	require.EqualValues(t, 512, opts.InitialBucketCount)
	require.EqualValues(t, 4096, opts.InitialLogBytes)
	require.Equal(t, PersistenceFile, opts.Persistence.Type)
	require.Equal(t, "/var/rogue", opts.Persistence.Path)
	require.Equal(t, 30*time.Second, opts.Persistence.SaveInterval)
	require.True(t, opts.Persistence.SyncLoad)
	require.False(t, opts.Compaction.AutoCompact)
	require.InDelta(t, 0.5, opts.Compaction.Threshold, 1e-9)
	require.Equal(t, 200, opts.Compaction.MinSize)
	require.Equal(t, 1024, opts.CacheSize)
	require.Equal(t, time.Minute, opts.TTL)
}

func TestInvalidOverridesAreIgnored(t *testing.T) {
	opts := Apply(
		WithInitialBucketCount(0),
		WithInitialLogBytes(-5),
		WithCompaction(true, 1.5, -1),
		WithCacheSize(-10),
		WithTTL(-time.Second),
	)

	require.Equal(t, DefaultInitialBucketCount, opts.InitialBucketCount)
	require.Equal(t, DefaultInitialLogBytes, opts.InitialLogBytes)
	require.InDelta(t, DefaultCompactionThreshold, opts.Compaction.Threshold, 1e-9)
	require.Equal(t, DefaultCompactionMinSize, opts.Compaction.MinSize)
	require.Equal(t, DefaultCacheSize, opts.CacheSize)
	require.Equal(t, DefaultTTL, opts.TTL)
}

func TestLoadFromHuJSONParsesCommentsAndOverridesDefaults(t *testing.T) {
	doc := []byte(`{
		// bucket sizing
		"initialBucketCount": 2048,
		"cacheSize": 256,
		"compaction": {
			"autoCompact": true,
			"threshold": 0.4,
			"minSize": 500,
		},
	}`)

	opts, err := LoadFromHuJSON(doc)
	require.NoError(t, err)
	require.EqualValues(t, 2048, opts.InitialBucketCount)
	require.Equal(t, 256, opts.CacheSize)
	require.InDelta(t, 0.4, opts.Compaction.Threshold, 1e-9)
	require.Equal(t, 500, opts.Compaction.MinSize)
	// fields the document omits keep their default value.
	require.Equal(t, DefaultInitialLogBytes, opts.InitialLogBytes)
}

func TestLoadFromJSONRejectsInvalidJSON(t *testing.T) {
	_, err := LoadFromJSON([]byte(`{not valid`))
	require.Error(t, err)
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, Apply().Validate())
}

func TestValidateRejectsFilePersistenceWithoutPath(t *testing.T) {
	opts := Apply(WithPersistence(PersistenceFile, "", 0))
	require.Error(t, opts.Validate())
}

func TestValidateRejectsOutOfRangeThreshold(t *testing.T) {
	opts := Apply()
	opts.Compaction.Threshold = 1.5
	require.Error(t, opts.Validate())
}

func TestValidateRejectsUnknownPersistenceKind(t *testing.T) {
	opts := Apply()
	opts.Persistence.Type = PersistenceKind("s3")
	require.Error(t, opts.Validate())
}
