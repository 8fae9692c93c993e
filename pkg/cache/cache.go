// Package cache provides a generic, disk-backed freshness cache keyed
// by string: a reusable Cache[T] so every component needing "fetch X,
// remember it for a while" — version listings, checksum lookups,
// plugin metadata — shares one implementation instead of re-deriving
// the mutex/TTL/JSON dance.
package cache

import (
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/mvxproject/mvxcore/pkg/errs"
	"github.com/mvxproject/mvxcore/pkg/fsx"
)

// entry is the on-disk shape for one cached value.
type entry[T any] struct {
	Value     T         `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Cache is an in-memory, disk-persisted map keyed by string with a
// fixed freshness TTL. Zero value is not usable; construct via New.
type Cache[T any] struct {
	mu       sync.RWMutex
	path     string
	ttl      time.Duration
	entries  map[string]entry[T]
	dirty    bool
}

// New loads path (if it exists) into memory and returns a Cache with
// the given freshness window.
func New[T any](path string, ttl time.Duration) (*Cache[T], error) {
	c := &Cache[T]{path: path, ttl: ttl, entries: make(map[string]entry[T])}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, &errs.IOError{Op: "read-cache", Path: path, Err: err}
	}
	var onDisk map[string]entry[T]
	if err := json.Unmarshal(data, &onDisk); err != nil {
		// A corrupt cache file is a miss, not a fatal error: start empty.
		return c, nil
	}
	c.entries = onDisk
	return c, nil
}

// Get returns the cached value and true if present and not older than
// the TTL. A stale or missing entry returns the zero value and false.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero T
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if time.Since(e.FetchedAt) > c.ttl {
		return zero, false
	}
	return e.Value, true
}

// Set stores value under key, stamped with the current time.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[T]{Value: value, FetchedAt: time.Now()}
	c.dirty = true
}

// GetOrFetch returns the cached value for key if fresh, otherwise calls
// fetch, stores the result, and returns it. fetch errors are not cached.
func (c *Cache[T]) GetOrFetch(key string, fetch func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Flush persists the cache to disk atomically if anything changed since
// the last Flush.
func (c *Cache[T]) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return &errs.IOError{Op: "marshal-cache", Path: c.path, Err: err}
	}
	if err := fsx.AtomicWriteFile(c.path, data, 0o644); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Invalidate drops a single key regardless of freshness.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.dirty = true
	}
}

// Clear drops every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[T])
	c.dirty = true
}
