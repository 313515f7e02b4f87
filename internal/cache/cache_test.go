package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	c := New(16, time.Minute, nil)
	defer c.Close()

	_, ok := c.Get("missing")
	require.False(t, ok)

	c.Set("a", []byte("value-a"))
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, []byte("value-a"), v)

	c.Delete("a")
	_, ok = c.Get("a")
	require.False(t, ok)
}

func TestClearEmptiesCache(t *testing.T) {
	c := New(16, time.Minute, nil)
	defer c.Close()

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	require.Equal(t, 2, c.Len())

	c.Clear()
	require.Equal(t, 0, c.Len())
}

func TestEntriesExpireAfterTTL(t *testing.T) {
	c := New(16, 20*time.Millisecond, nil)
	defer c.Close()

	c.Set("a", []byte("1"))
	_, ok := c.Get("a")
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get("a")
	require.False(t, ok)
}

func TestEvictionHandlerFires(t *testing.T) {
	evicted := make(chan string, 1)
	c := New(16, time.Minute, func(key string, value []byte) {
		evicted <- key
	})
	defer c.Close()

	c.Set("a", []byte("1"))
	c.Delete("a")

	select {
	case key := <-evicted:
		require.Equal(t, "a", key)
	case <-time.After(time.Second):
		t.Fatal("eviction handler never fired")
	}
}
