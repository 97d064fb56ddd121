package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// entry wraps a cached value with its insertion time
type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// stale reports whether the entry is at least ttl old
func (e entry[V]) stale(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.insertedAt) >= ttl
}

// TTLCache is a key/value cache whose entries expire a fixed duration after
// insertion. Expired entries are evicted lazily on access. A single keyless
// "full search" slot follows the same rules.
type TTLCache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	full    *entry[V]
	ttl     time.Duration
	options
}

// NewTTLCache creates a cache with the given TTL
func NewTTLCache[V any](ttl time.Duration, opts ...Option) *TTLCache[V] {
	c := &TTLCache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		options: defaultOptions("ttl"),
	}
	for _, opt := range opts {
		opt(&c.options)
	}
	return c
}

// TTL returns the configured time-to-live
func (c *TTLCache[V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the value for key if present and fresh
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		c.observer.Miss(c.name)
		return zero, false
	}
	if e.stale(c.clock.Now(), c.ttl) {
		delete(c.entries, key)
		c.observer.Miss(c.name)
		c.logger.Debug("Cache expired", zap.String("cache", c.name), zap.String("key", key))
		return zero, false
	}
	c.observer.Hit(c.name, TierMemory)
	c.logger.Debug("Cache hit", zap.String("cache", c.name), zap.String("key", key))
	return e.value, true
}

// Set stores value under key, replacing any previous value
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, insertedAt: c.clock.Now()}
	c.logger.Debug("Cached value", zap.String("cache", c.name), zap.String("key", key))
}

// Delete removes key
func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// GetFullSearch returns the full search slot if present and fresh
func (c *TTLCache[V]) GetFullSearch() (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	if c.full == nil {
		c.observer.Miss(c.name)
		return zero, false
	}
	if c.full.stale(c.clock.Now(), c.ttl) {
		c.full = nil
		c.observer.Miss(c.name)
		c.logger.Debug("Full search cache expired", zap.String("cache", c.name))
		return zero, false
	}
	c.observer.Hit(c.name, TierMemory)
	return c.full.value, true
}

// SetFullSearch stores the full search slot
func (c *TTLCache[V]) SetFullSearch(value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.full = &entry[V]{value: value, insertedAt: c.clock.Now()}
	c.logger.Debug("Cached full search", zap.String("cache", c.name))
}

// ClearFullSearch drops the full search slot
func (c *TTLCache[V]) ClearFullSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.full = nil
}

// Clear drops every entry and the full search slot
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
	c.full = nil
	c.logger.Debug("Cache cleared", zap.String("cache", c.name))
}

// Len returns the number of keyed entries, including ones not yet evicted
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
