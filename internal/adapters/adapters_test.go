package adapters

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryAdapterSaveLoad(t *testing.T) {
	a := NewMemoryAdapter()
	ctx := context.Background()

	_, ok, err := a.Load(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, a.Save(ctx, "k", []byte("hello")))
	data, ok, err := a.Load(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("hello"), data)
}

func TestMemoryAdapterSyncFlavor(t *testing.T) {
	a := NewMemoryAdapter()
	require.NoError(t, a.SaveSync("k", []byte("sync")))

	data, ok, err := a.LoadSync("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("sync"), data)
}

func TestMemoryAdapterSaveCopiesInput(t *testing.T) {
	a := NewMemoryAdapter()
	buf := []byte("original")
	require.NoError(t, a.SaveSync("k", buf))
	buf[0] = 'X'

	data, _, err := a.LoadSync("k")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), data)
}

func TestFileAdapterSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	a, err := NewFileAdapter(dir)
	require.NoError(t, err)

	ctx := context.Background()
	_, ok, err := a.Load(ctx, "db")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, a.Save(ctx, "db", []byte("snapshot-bytes")))
	data, ok, err := a.Load(ctx, "db")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("snapshot-bytes"), data)
}

func TestFileAdapterOverwriteIsAtomic(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFileAdapter(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, a.Save(ctx, "db", []byte("first")))
	require.NoError(t, a.Save(ctx, "db", []byte("second, much longer payload")))

	data, ok, err := a.Load(ctx, "db")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("second, much longer payload"), data)
}
