// Package cache provides a small thread-safe lookup cache with a soft size
// limit. The indexed pixel format uses it to memoize reverse palette
// lookups, so writing an image dominated by a few colors scans the palette
// only once per distinct color.
package cache

import "sync"

// Cache is a generic thread-safe cache with a soft limit. When the cache
// grows past the limit, the least recently used quarter of the entries is
// evicted.
//
// Cache must not be copied after creation.
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*entry[V]
	softLimit int
	tick      int64 // monotonic access counter
}

type entry[V any] struct {
	value V
	atime int64
}

// New creates a cache with the given soft limit. A limit of 0 means
// unlimited.
func New[K comparable, V any](softLimit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*entry[V]),
		softLimit: softLimit,
	}
}

// GetOrCreate returns the cached value for key, calling create to produce
// it on a miss. create runs under the cache lock so a value is computed at
// most once per residency.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	if e, ok := c.entries[key]; ok {
		e.atime = c.tick
		return e.value
	}

	value := create()
	c.entries[key] = &entry[V]{value: value, atime: c.tick}
	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		c.evictOldest()
	}
	return value
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldest removes the least recently used entries until the cache is at
// 75% of the soft limit. Caller must hold c.mu.
func (c *Cache[K, V]) evictOldest() {
	target := c.softLimit * 3 / 4
	if target < 1 {
		target = 1
	}
	for len(c.entries) > target {
		var oldestKey K
		oldest := int64(-1)
		for key, e := range c.entries {
			if oldest < 0 || e.atime < oldest {
				oldest = e.atime
				oldestKey = key
			}
		}
		delete(c.entries, oldestKey)
	}
}
