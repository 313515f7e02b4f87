package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	rcodec "github.com/iamNilotpal/rogue/internal/codec"
	rhash "github.com/iamNilotpal/rogue/internal/hash"
	"github.com/iamNilotpal/rogue/pkg/options"
)

// TestLogFullResizeWidensInPlace exercises the append-time log growth
// path directly: a log too small for even one record of a realistic
// size forces appendWithRetry to widen the log before the first Set
// completes, without touching the bucket count.
func TestLogFullResizeWidensInPlace(t *testing.T) {
	e, err := New(Config[string, string]{
		Options: options.Apply(
			options.WithInitialBucketCount(64),
			options.WithInitialLogBytes(16),
		),
		KeyCodec:   rcodec.String{},
		ValueCodec: rcodec.String{},
		Hasher:     rhash.StringXXHash32(),
	})
	require.NoError(t, err)

	bucketsBefore := e.idx.Count()
	require.NoError(t, e.Set("a-reasonably-long-key", "a-reasonably-long-value"))

	require.Equal(t, bucketsBefore, e.idx.Count())
	require.Greater(t, e.storage.Len(), int64(16))

	v, ok := e.Get("a-reasonably-long-key")
	require.True(t, ok)
	require.Equal(t, "a-reasonably-long-value", v)
}
