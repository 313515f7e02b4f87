// Package adapters implements the PersistenceAdapter capability the map
// engine saves snapshots to and restores them from. The engine itself
// never touches a filesystem or network directly; it hands a byte slice
// to Save and asks Load for one back, keeping the core storage-agnostic.
package adapters

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	rogueerrors "github.com/iamNilotpal/rogue/pkg/errors"
	"github.com/iamNilotpal/rogue/pkg/filesys"
)

// PersistenceAdapter is the external collaborator the engine's save/load
// operations are wired to. Save and Load are the async (context-aware)
// flavors; SaveSync and LoadSync, declared separately on
// SyncPersistenceAdapter, are optional synchronous shortcuts.
type PersistenceAdapter interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, bool, error)
}

// SyncPersistenceAdapter is implemented by adapters that can also save
// or load without a context, for callers on a code path that cannot
// await. The engine calls only LoadSync, and only when sync loading is
// enabled; an adapter that does not implement this interface is loaded
// through Load instead. An error from LoadSync is returned as is, with
// no fallback to Load.
type SyncPersistenceAdapter interface {
	SaveSync(key string, data []byte) error
	LoadSync(key string) ([]byte, bool, error)
}

// MemoryAdapter is an in-process PersistenceAdapter backed by a map,
// useful for tests and for embedding scenarios that want save/load
// semantics without touching disk.
type MemoryAdapter struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryAdapter returns an empty MemoryAdapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{data: make(map[string][]byte)}
}

func (a *MemoryAdapter) Save(ctx context.Context, key string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	a.data[key] = cp
	return nil
}

func (a *MemoryAdapter) Load(ctx context.Context, key string) ([]byte, bool, error) {
	return a.LoadSync(key)
}

func (a *MemoryAdapter) SaveSync(key string, data []byte) error {
	return a.Save(context.Background(), key, data)
}

func (a *MemoryAdapter) LoadSync(key string) ([]byte, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

// FileAdapter persists snapshots under a directory, one file per key,
// written with atomic.WriteFile so a crash mid-save leaves either the
// old file or the new one intact, never a half-written blob. It has no
// synchronous flavor: atomic.WriteFile always goes through a temp-file
// rename, which the core treats as async-only by not implementing
// SyncPersistenceAdapter.
type FileAdapter struct {
	dir string
}

// NewFileAdapter returns a FileAdapter rooted at dir, creating it if it
// does not already exist.
func NewFileAdapter(dir string) (*FileAdapter, error) {
	if err := filesys.CreateDir(dir, 0o755, true); err != nil {
		return nil, rogueerrors.ClassifyDirectoryCreationError(err, dir)
	}
	return &FileAdapter{dir: dir}, nil
}

func (a *FileAdapter) pathFor(key string) string {
	return filepath.Join(a.dir, filepath.Base(key)+".snapshot")
}

func (a *FileAdapter) Save(ctx context.Context, key string, data []byte) error {
	path := a.pathFor(key)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return rogueerrors.ClassifySyncError(err, filepath.Base(path), path, len(data))
	}
	return nil
}

func (a *FileAdapter) Load(ctx context.Context, key string) ([]byte, bool, error) {
	path := a.pathFor(key)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, rogueerrors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}
	return b, true, nil
}
