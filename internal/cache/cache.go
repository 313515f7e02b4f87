// Package cache implements the optional hot-item cache consulted on Get
// and updated on Get/Set, backed by jellydator/ttlcache/v3. It is purely
// an acceleration layer: misses always fall through to the engine's
// index and log, and the cache never affects Set/Get/Delete semantics.
package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// EvictHandler is notified whenever an entry leaves the cache, whatever
// the reason (capacity eviction, TTL expiry, explicit delete).
type EvictHandler func(key string, value []byte)

// Hot is a small bounded cache from string key to codec-encoded value
// bytes. It carries its own TTL, independent of the engine record's TTL:
// a short Hot TTL simply bounds how stale a cached value can be relative
// to further engine mutations the cache isn't told about directly.
type Hot struct {
	cache *ttlcache.Cache[string, []byte]
}

// New builds a Hot cache with the given capacity and entry TTL. A
// capacity of 0 means the caller should not construct a Hot cache at
// all (§4.6: cacheSize 0 disables it); New does not special-case that
// here, leaving the decision to callers composing the engine.
func New(capacity int, ttl time.Duration, onEvict EvictHandler) *Hot {
	opts := []ttlcache.Option[string, []byte]{
		ttlcache.WithTTL[string, []byte](ttl),
		ttlcache.WithCapacity[string, []byte](uint64(capacity)),
	}

	c := ttlcache.New(opts...)
	if onEvict != nil {
		c.OnEviction(func(ctx context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, []byte]) {
			onEvict(item.Key(), item.Value())
		})
	}

	go c.Start()
	return &Hot{cache: c}
}

// Get returns the cached value for key, if present and not expired.
func (h *Hot) Get(key string) ([]byte, bool) {
	item := h.cache.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Set inserts or refreshes key with value, using the cache's configured
// default TTL.
func (h *Hot) Set(key string, value []byte) {
	h.cache.Set(key, value, ttlcache.DefaultTTL)
}

// Delete removes key from the cache, if present. Engine deletes call
// this so a stale value is never served after the authoritative record
// is gone.
func (h *Hot) Delete(key string) {
	h.cache.Delete(key)
}

// Clear empties the cache, mirroring the engine's clear() operation.
func (h *Hot) Clear() {
	h.cache.DeleteAll()
}

// Len returns the number of entries currently cached.
func (h *Hot) Len() int {
	return h.cache.Len()
}

// Close stops the cache's background TTL-eviction goroutine. Callers
// must call this when the owning engine is closed.
func (h *Hot) Close() {
	h.cache.Stop()
}
