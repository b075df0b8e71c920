// Package convcache is a bounded in-memory map whose entries expire a fixed
// time after they were last written.
package convcache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	now     func() time.Time
	entries map[K]entry[V]
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a cache holding at most maxEntries entries for ttl each.
// maxEntries <= 0 means unbounded.
func New[K comparable, V any](ttl time.Duration, maxEntries int, opts ...Option) *Cache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[K, V]{
		ttl:     ttl,
		max:     maxEntries,
		now:     o.now,
		entries: make(map[K]entry[V]),
	}
}

// Set stores v under k and restarts its TTL.
func (c *Cache[K, V]) Set(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(k, v, c.now())
}

// Update replaces the value under k with fn's result. fn sees the current
// value and whether it was present and unexpired.
func (c *Cache[K, V]) Update(k K, fn func(old V, ok bool) V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	old, ok := c.getLocked(k, now)
	v := fn(old, ok)
	c.setLocked(k, v, now)
	return v
}

// Get returns the value under k if it has not expired.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(k, c.now())
}

// Delete removes k.
func (c *Cache[K, V]) Delete(k K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, k)
}

// Keys lists the unexpired keys in no particular order.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	keys := make([]K, 0, len(c.entries))
	for k, e := range c.entries {
		if now.Before(e.expiresAt) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len counts stored entries, including expired ones not yet pruned.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Prune drops every entry expired at now and reports how many went.
func (c *Cache[K, V]) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func (c *Cache[K, V]) getLocked(k K, now time.Time) (V, bool) {
	e, ok := c.entries[k]
	if !ok {
		var zero V
		return zero, false
	}
	if !now.Before(e.expiresAt) {
		delete(c.entries, k)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[K, V]) setLocked(k K, v V, now time.Time) {
	if _, exists := c.entries[k]; !exists && c.max > 0 && len(c.entries) >= c.max {
		c.evictLocked(now)
	}
	c.entries[k] = entry[V]{value: v, expiresAt: now.Add(c.ttl)}
}

// evictLocked frees one slot: expired entries first, otherwise the entry
// closest to expiry.
func (c *Cache[K, V]) evictLocked(now time.Time) {
	var (
		victim   K
		earliest time.Time
		found    bool
	)
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			return
		}
		if !found || e.expiresAt.Before(earliest) {
			victim, earliest, found = k, e.expiresAt, true
		}
	}
	if found {
		delete(c.entries, victim)
	}
}
