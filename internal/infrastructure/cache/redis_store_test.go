package cache

import (
	"context"
	"testing"
	"time"

	"github.com/erp/resolver/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisStore_ScanPattern(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "test:checks:", want: "test:checks:*"},
		{prefix: "team*:", want: `team\*:*`},
		{prefix: "q?[1]:", want: `q\?\[1\]:*`},
		{prefix: `back\slash:`, want: `back\\slash:*`},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			s := NewRedisStoreWithClient(nil, tt.prefix)
			assert.Equal(t, tt.want, s.scanPattern())
		})
	}
}

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	return client
}

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	client := newTestRedisClient(t)
	store := NewRedisStoreWithClient(client, "test:checks:")

	t.Run("missing partition", func(t *testing.T) {
		_, _, err := store.Load(ctx, "2025_Q1")
		assert.ErrorIs(t, err, ErrPartitionNotFound)
	})

	t.Run("save and load", func(t *testing.T) {
		before := time.Now().Add(-time.Second)
		require.NoError(t, store.Save(ctx, "2025_Q3", []byte(`[{"id":"1"}]`)))

		data, savedAt, err := store.Load(ctx, "2025_Q3")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"1"}]`, string(data))
		assert.True(t, savedAt.After(before))
	})

	t.Run("save is stamped by the store clock", func(t *testing.T) {
		clock := shared.NewFakeClock(time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC))
		stamped := NewRedisStoreWithClient(client, "test:clock:", WithRedisClock(clock))
		require.NoError(t, stamped.Save(ctx, "2025_Q3", []byte(`[]`)))

		_, savedAt, err := stamped.Load(ctx, "2025_Q3")
		require.NoError(t, err)
		assert.True(t, savedAt.Equal(clock.Now()))

		c := NewPartitionedCache[record](stamped, time.Hour, recordDate, WithClock(clock))
		_, ok := c.Get(ctx, "2025_Q3")
		assert.True(t, ok)

		clock.Advance(time.Hour)
		c = NewPartitionedCache[record](stamped, time.Hour, recordDate, WithClock(clock))
		_, ok = c.Get(ctx, "2025_Q3")
		assert.False(t, ok)
	})

	t.Run("works behind a partitioned cache", func(t *testing.T) {
		c := NewPartitionedCache[record](store, time.Hour, recordDate, WithClock(shared.SystemClock))
		c.Set(ctx, "2025_Q4", []record{{ID: "9"}})

		fresh := NewPartitionedCache[record](store, time.Hour, recordDate)
		got, ok := fresh.Get(ctx, "2025_Q4")
		require.True(t, ok)
		assert.Equal(t, "9", got[0].ID)
	})

	t.Run("clear removes only prefixed keys", func(t *testing.T) {
		other := NewRedisStoreWithClient(client, "other:")
		require.NoError(t, other.Save(ctx, "2025_Q3", []byte(`[]`)))

		require.NoError(t, store.Clear(ctx))

		_, _, err := store.Load(ctx, "2025_Q3")
		assert.ErrorIs(t, err, ErrPartitionNotFound)
		_, _, err = other.Load(ctx, "2025_Q3")
		assert.NoError(t, err)
	})

	t.Run("clear matches glob characters in the prefix literally", func(t *testing.T) {
		starred := NewRedisStoreWithClient(client, "glob*:")
		sibling := NewRedisStoreWithClient(client, "globby:")
		require.NoError(t, starred.Save(ctx, "2025_Q3", []byte(`[]`)))
		require.NoError(t, sibling.Save(ctx, "2025_Q3", []byte(`[]`)))

		require.NoError(t, starred.Clear(ctx))

		_, _, err := starred.Load(ctx, "2025_Q3")
		assert.ErrorIs(t, err, ErrPartitionNotFound)
		_, _, err = sibling.Load(ctx, "2025_Q3")
		assert.NoError(t, err)
	})
}
