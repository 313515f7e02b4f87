package engine

import (
	"sort"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	rcodec "github.com/iamNilotpal/rogue/internal/codec"
	"github.com/iamNilotpal/rogue/internal/events"
	rhash "github.com/iamNilotpal/rogue/internal/hash"
	"github.com/iamNilotpal/rogue/pkg/options"
)

// newTestEngine returns a small string->string engine with a manually
// advanceable clock, suitable for deterministic TTL tests.
func newTestEngine(t *testing.T) (*Engine[string, string], *fakeClock) {
	t.Helper()
	fc := &fakeClock{now: 1000}

	e, err := New(Config[string, string]{
		Options:    options.Apply(options.WithInitialBucketCount(8)),
		KeyCodec:   rcodec.String{},
		ValueCodec: rcodec.String{},
		Hasher:     rhash.StringXXHash32(),
		Clock:      fc.Now,
	})
	require.NoError(t, err)
	return e, fc
}

type fakeClock struct{ now int64 }

func (f *fakeClock) Now() int64 { return f.now }

func TestSetGetRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("b", "2"))

	v, ok := e.Get("a")
	require.True(t, ok)
	require.Equal(t, "1", v)

	v, ok = e.Get("b")
	require.True(t, ok)
	require.Equal(t, "2", v)

	_, ok = e.Get("missing")
	require.False(t, ok)

	require.Equal(t, 2, e.Size())
}

func TestSetOverwriteKeepsOneLiveRecord(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("a", "2"))
	require.Equal(t, 1, e.Size())

	v, ok := e.Get("a")
	require.True(t, ok)
	require.Equal(t, "2", v)
	require.Equal(t, 1, e.tombstoneCount)
}

func TestDeleteRemovesKey(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.Set("a", "1"))
	require.True(t, e.Delete("a"))
	require.False(t, e.Delete("a"))

	_, ok := e.Get("a")
	require.False(t, ok)
	require.Equal(t, 0, e.Size())
}

func TestHasMatchesGetSemantics(t *testing.T) {
	e, _ := newTestEngine(t)
	require.False(t, e.Has("a"))

	require.NoError(t, e.Set("a", "1"))
	require.True(t, e.Has("a"))

	e.Delete("a")
	require.False(t, e.Has("a"))
}

func TestClearEmptiesEverything(t *testing.T) {
	e, _ := newTestEngine(t)

	for i := 0; i < 10; i++ {
		require.NoError(t, e.Set(string(rune('a'+i)), "v"))
	}
	require.Equal(t, 10, e.Size())

	e.Clear()
	require.Equal(t, 0, e.Size())
	_, ok := e.Get("a")
	require.False(t, ok)
}

func TestTTLExpiryIsLazy(t *testing.T) {
	e, fc := newTestEngine(t)

	require.NoError(t, e.Set("a", "1", WithTTL(500)))

	v, ok := e.Get("a")
	require.True(t, ok)
	require.Equal(t, "1", v)

	fc.now += 1000
	_, ok = e.Get("a")
	require.False(t, ok)
	require.Equal(t, 0, e.Size())
}

func TestZeroTTLNeverExpires(t *testing.T) {
	e, fc := newTestEngine(t)

	require.NoError(t, e.Set("a", "1"))
	fc.now += 1_000_000_000
	_, ok := e.Get("a")
	require.True(t, ok)
}

func TestLoadFactorResizeGrowsAndPreservesData(t *testing.T) {
	e, _ := newTestEngine(t)
	initialBuckets := e.idx.Count()

	const n = 200
	for i := 0; i < n; i++ {
		require.NoError(t, e.Set(keyFor(i), valFor(i)))
	}

	require.Greater(t, e.idx.Count(), initialBuckets)
	require.Equal(t, n, e.Size())

	for i := 0; i < n; i++ {
		v, ok := e.Get(keyFor(i))
		require.True(t, ok)
		require.Equal(t, valFor(i), v)
	}
}

func TestCompactReclaimsDeletedSpace(t *testing.T) {
	e, _ := newTestEngine(t)

	const n = 50
	for i := 0; i < n; i++ {
		require.NoError(t, e.Set(keyFor(i), valFor(i)))
	}
	for i := 0; i < n; i += 2 {
		require.True(t, e.Delete(keyFor(i)))
	}

	offsetBefore := e.writeOffset
	require.NoError(t, e.Compact())
	require.Less(t, e.writeOffset, offsetBefore)
	require.Equal(t, 0, e.tombstoneCount)
	require.Equal(t, n/2, e.Size())

	for i := 1; i < n; i += 2 {
		v, ok := e.Get(keyFor(i))
		require.True(t, ok)
		require.Equal(t, valFor(i), v)
	}
	for i := 0; i < n; i += 2 {
		_, ok := e.Get(keyFor(i))
		require.False(t, ok)
	}
}

func TestCompactFlipsExpiredRecords(t *testing.T) {
	e, fc := newTestEngine(t)

	require.NoError(t, e.Set("a", "1", WithTTL(500)))
	require.NoError(t, e.Set("b", "2"))
	fc.now += 1000

	require.NoError(t, e.Compact())
	require.Equal(t, 1, e.Size())

	_, ok := e.Get("a")
	require.False(t, ok)
	v, ok := e.Get("b")
	require.True(t, ok)
	require.Equal(t, "2", v)
}

func TestEntriesKeysValues(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("b", "2"))

	entries := e.Entries()
	require.Len(t, entries, 2)

	keys := e.Keys()
	require.ElementsMatch(t, []string{"a", "b"}, keys)

	values := e.Values()
	require.ElementsMatch(t, []string{"1", "2"}, values)
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t)
	for i := 0; i < 20; i++ {
		require.NoError(t, e.Set(keyFor(i), valFor(i)))
	}
	require.True(t, e.Delete(keyFor(0)))

	blob, err := e.Serialize()
	require.NoError(t, err)

	e2, _ := newTestEngine(t)
	require.NoError(t, e2.Deserialize(blob))

	require.Equal(t, e.Size(), e2.Size())
	for i := 1; i < 20; i++ {
		v, ok := e2.Get(keyFor(i))
		require.True(t, ok)
		require.Equal(t, valFor(i), v)
	}
	_, ok := e2.Get(keyFor(0))
	require.False(t, ok)

	want := e.Entries()
	got := e2.Entries()
	sort.Slice(want, func(i, j int) bool { return want[i].Key < want[j].Key })
	sort.Slice(got, func(i, j int) bool { return got[i].Key < got[j].Key })
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("restored entries mismatch (-want +got):\n%s", diff)
	}
}

func TestEventsFireOnSetDeleteClear(t *testing.T) {
	e, _ := newTestEngine(t)

	var sets, deletes, clears int
	e.OnSet(func(evt events.Event) { sets++ })
	e.OnDelete(func(evt events.Event) { deletes++ })
	e.OnClear(func(evt events.Event) { clears++ })

	require.NoError(t, e.Set("a", "1"))
	require.True(t, e.Delete("a"))
	e.Clear()

	require.Equal(t, 1, sets)
	require.Equal(t, 1, deletes)
	require.Equal(t, 1, clears)
}

func keyFor(i int) string { return "key-" + strconv.Itoa(i) }
func valFor(i int) string { return "val-" + strconv.Itoa(i) }
