package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erp/resolver/internal/domain/period"
	"go.uber.org/zap"
)

// DateFunc extracts a record's date; ok=false drops the record from Recent
type DateFunc[R any] func(R) (time.Time, bool)

// PartitionStats reports PartitionedCache activity
type PartitionStats struct {
	MemoryHits    int64 `json:"memory_hits"`
	DurableHits   int64 `json:"durable_hits"`
	Misses        int64 `json:"misses"`
	WriteFailures int64 `json:"write_failures"`
	Partitions    int   `json:"partitions"`
}

// PartitionedCache holds record lists keyed by quarter in two tiers: memory
// and a durable PartitionStore. Both tiers use the same TTL. Durable
// writes are best effort; the memory copy stays authoritative.
type PartitionedCache[R any] struct {
	mu     sync.Mutex
	memory map[string]entry[[]R]
	store  PartitionStore
	ttl    time.Duration
	dateOf DateFunc[R]
	options

	memoryHits    atomic.Int64
	durableHits   atomic.Int64
	misses        atomic.Int64
	writeFailures atomic.Int64
}

// NewPartitionedCache creates a cache over store. A nil store keeps the
// cache memory-only.
func NewPartitionedCache[R any](store PartitionStore, ttl time.Duration, dateOf DateFunc[R], opts ...Option) *PartitionedCache[R] {
	c := &PartitionedCache[R]{
		memory:  make(map[string]entry[[]R]),
		store:   store,
		ttl:     ttl,
		dateOf:  dateOf,
		options: defaultOptions("partitions"),
	}
	for _, opt := range opts {
		opt(&c.options)
	}
	return c
}

// Get returns the records for key from memory, or from the durable tier
// when fresh there. A stale or unreadable durable artifact is deleted.
func (c *PartitionedCache[R]) Get(ctx context.Context, key string) ([]R, bool) {
	if records, ok := c.getMemory(key); ok {
		c.memoryHits.Add(1)
		c.observer.Hit(c.name, TierMemory)
		c.logger.Info("Memory cache hit",
			zap.String("cache", c.name),
			zap.String("partition", key),
			zap.Int("records", len(records)))
		return records, true
	}

	records, ok := c.getDurable(ctx, key)
	if !ok {
		c.misses.Add(1)
		c.observer.Miss(c.name)
		return nil, false
	}

	c.mu.Lock()
	c.memory[key] = entry[[]R]{value: records, insertedAt: c.clock.Now()}
	c.mu.Unlock()

	c.durableHits.Add(1)
	c.observer.Hit(c.name, TierDurable)
	c.logger.Info("Durable cache hit",
		zap.String("cache", c.name),
		zap.String("partition", key),
		zap.Int("records", len(records)))
	return records, true
}

func (c *PartitionedCache[R]) getMemory(key string) ([]R, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.memory[key]
	if !ok {
		return nil, false
	}
	if e.stale(c.clock.Now(), c.ttl) {
		delete(c.memory, key)
		return nil, false
	}
	return e.value, true
}

func (c *PartitionedCache[R]) getDurable(ctx context.Context, key string) ([]R, bool) {
	if c.store == nil {
		return nil, false
	}

	data, modTime, err := c.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrPartitionNotFound) {
			c.observer.DurableError(c.name, "load")
			c.logger.Error("Failed to read cache partition",
				zap.String("cache", c.name),
				zap.String("partition", key),
				zap.Error(err))
		}
		return nil, false
	}

	if c.clock.Now().Sub(modTime) >= c.ttl {
		c.deleteDurable(ctx, key)
		c.logger.Info("Durable cache expired",
			zap.String("cache", c.name),
			zap.String("partition", key))
		return nil, false
	}

	var records []R
	if err := json.Unmarshal(data, &records); err != nil {
		c.observer.DurableError(c.name, "decode")
		c.logger.Error("Corrupt cache partition",
			zap.String("cache", c.name),
			zap.String("partition", key),
			zap.Error(err))
		c.deleteDurable(ctx, key)
		return nil, false
	}
	return records, true
}

func (c *PartitionedCache[R]) deleteDurable(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.observer.DurableError(c.name, "delete")
		c.logger.Warn("Failed to delete cache partition",
			zap.String("cache", c.name),
			zap.String("partition", key),
			zap.Error(err))
	}
}

// Set stores records under key in memory and, best effort, in the durable tier
func (c *PartitionedCache[R]) Set(ctx context.Context, key string, records []R) {
	c.mu.Lock()
	c.memory[key] = entry[[]R]{value: records, insertedAt: c.clock.Now()}
	c.mu.Unlock()

	if c.store == nil {
		return
	}

	data, err := json.Marshal(records)
	if err == nil {
		err = c.store.Save(ctx, key, data)
	}
	if err != nil {
		c.writeFailures.Add(1)
		c.observer.DurableError(c.name, "save")
		c.logger.Error("Failed to write cache partition",
			zap.String("cache", c.name),
			zap.String("partition", key),
			zap.Error(err))
		return
	}
	c.logger.Info("Cached partition",
		zap.String("cache", c.name),
		zap.String("partition", key),
		zap.Int("records", len(records)))
}

// Delete drops key from both tiers
func (c *PartitionedCache[R]) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.memory, key)
	c.mu.Unlock()

	if c.store != nil {
		c.deleteDurable(ctx, key)
	}
}

// Recent returns records from the previous and current quarters dated on or
// after now minus days. Records without a usable date are dropped.
func (c *PartitionedCache[R]) Recent(ctx context.Context, days int) []R {
	now := c.clock.Now()
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)

	result := make([]R, 0)
	for _, key := range period.RecentKeys(now) {
		records, ok := c.Get(ctx, key)
		if !ok {
			continue
		}
		for _, r := range records {
			d, ok := c.dateOf(r)
			if !ok || d.Before(cutoff) {
				continue
			}
			result = append(result, r)
		}
	}

	c.logger.Info("Returning recent records from cache",
		zap.String("cache", c.name),
		zap.Int("days", days),
		zap.Int("records", len(result)))
	return result
}

// Clear empties the memory tier and deletes every durable partition
func (c *PartitionedCache[R]) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.memory = make(map[string]entry[[]R])
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	if err := c.store.Clear(ctx); err != nil {
		c.observer.DurableError(c.name, "clear")
		c.logger.Error("Failed to clear durable cache", zap.String("cache", c.name), zap.Error(err))
		return err
	}
	c.logger.Info("Cache cleared", zap.String("cache", c.name))
	return nil
}

// Stats returns hit and miss counters
func (c *PartitionedCache[R]) Stats() PartitionStats {
	c.mu.Lock()
	n := len(c.memory)
	c.mu.Unlock()

	return PartitionStats{
		MemoryHits:    c.memoryHits.Load(),
		DurableHits:   c.durableHits.Load(),
		Misses:        c.misses.Load(),
		WriteFailures: c.writeFailures.Load(),
		Partitions:    n,
	}
}
