package cache

import (
	"testing"
	"time"

	"github.com/erp/resolver/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestTTLCache(t *testing.T, ttl time.Duration) (*TTLCache[[]string], *shared.FakeClock, *recordingObserver) {
	clock := shared.NewFakeClock(time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC))
	obs := newRecordingObserver()
	c := NewTTLCache[[]string](ttl,
		WithName("names"),
		WithClock(clock),
		WithObserver(obs),
		WithLogger(zaptest.NewLogger(t)),
	)
	return c, clock, obs
}

func TestTTLCache_GetSet(t *testing.T) {
	c, _, obs := newTestTTLCache(t, 30*time.Minute)

	_, ok := c.Get("vendors")
	assert.False(t, ok)

	c.Set("vendors", []string{"Jaciel", "Bryan"})
	got, ok := c.Get("vendors")
	require.True(t, ok)
	assert.Equal(t, []string{"Jaciel", "Bryan"}, got)

	c.Set("vendors", []string{"Elmer"})
	got, _ = c.Get("vendors")
	assert.Equal(t, []string{"Elmer"}, got)

	assert.Equal(t, 2, obs.hits[TierMemory])
	assert.Equal(t, 1, obs.misses)
}

func TestTTLCache_ExpiresAtTTL(t *testing.T) {
	c, clock, _ := newTestTTLCache(t, 30*time.Minute)

	c.Set("vendors", []string{"Jaciel"})

	clock.Advance(30*time.Minute - time.Nanosecond)
	_, ok := c.Get("vendors")
	assert.True(t, ok)

	clock.Advance(time.Nanosecond)
	_, ok = c.Get("vendors")
	assert.False(t, ok, "entry is stale once age equals ttl")
	assert.Equal(t, 0, c.Len(), "stale entry evicted on access")
}

func TestTTLCache_FullSearch(t *testing.T) {
	c, clock, _ := newTestTTLCache(t, time.Minute)

	_, ok := c.GetFullSearch()
	assert.False(t, ok)

	c.SetFullSearch([]string{"Shell", "Valero"})
	got, ok := c.GetFullSearch()
	require.True(t, ok)
	assert.Len(t, got, 2)

	_, ok = c.Get("")
	assert.False(t, ok, "full search slot is not a keyed entry")

	clock.Advance(time.Minute)
	_, ok = c.GetFullSearch()
	assert.False(t, ok)
}

func TestTTLCache_ClearAndDelete(t *testing.T) {
	c, _, _ := newTestTTLCache(t, time.Minute)

	c.Set("vendors", []string{"Jaciel"})
	c.Set("items", []string{"30 deliver and install"})
	c.SetFullSearch([]string{"Shell"})

	c.Delete("items")
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.GetFullSearch()
	assert.False(t, ok)
	assert.Equal(t, time.Minute, c.TTL())
}

func TestTTLCache_ClearFullSearch(t *testing.T) {
	c, _, _ := newTestTTLCache(t, time.Minute)

	c.Set("vendors", []string{"Jaciel"})
	c.SetFullSearch([]string{"Shell"})

	c.ClearFullSearch()
	_, ok := c.GetFullSearch()
	assert.False(t, ok)
	got, ok := c.Get("vendors")
	assert.True(t, ok, "keyed entries survive")
	assert.Equal(t, []string{"Jaciel"}, got)
}
