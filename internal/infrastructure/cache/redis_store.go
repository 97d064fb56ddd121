package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erp/resolver/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisKeyPrefix = "resolver:partition:"
	fieldPayload          = "payload"
	fieldSavedAt          = "saved_at"
	clearBatchSize        = 100
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisStore keeps each partition in a Redis hash holding the payload and
// the save time.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
	clock     shared.Clock
}

// RedisStoreOption is a functional option for RedisStore
type RedisStoreOption func(*RedisStore)

// WithRedisClock sets the clock used to stamp saved partitions
func WithRedisClock(clock shared.Clock) RedisStoreOption {
	return func(s *RedisStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewRedisStore connects to Redis and returns a store
func NewRedisStore(cfg RedisConfig, keyPrefix string, opts ...RedisStoreOption) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, keyPrefix, opts...), nil
}

// NewRedisStoreWithClient creates a store with an existing Redis client
func NewRedisStoreWithClient(client redis.UniversalClient, keyPrefix string, opts ...RedisStoreOption) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = defaultRedisKeyPrefix
	}
	s := &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		clock:     shared.SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the partition hash
func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, time.Time, error) {
	values, err := s.client.HGetAll(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load partition: %w", err)
	}
	payload, ok := values[fieldPayload]
	if !ok {
		return nil, time.Time{}, ErrPartitionNotFound
	}
	savedAt, err := strconv.ParseInt(values[fieldSavedAt], 10, 64)
	if err != nil {
		// unknown age is treated as expired
		return []byte(payload), time.Time{}, nil
	}
	return []byte(payload), time.Unix(0, savedAt), nil
}

// Save writes the partition hash stamped with the store clock
func (s *RedisStore) Save(ctx context.Context, key string, data []byte) error {
	err := s.client.HSet(ctx, s.keyPrefix+key,
		fieldPayload, data,
		fieldSavedAt, strconv.FormatInt(s.clock.Now().UnixNano(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to save partition: %w", err)
	}
	return nil
}

// Delete removes the partition hash
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete partition: %w", err)
	}
	return nil
}

// Clear deletes every key under the store prefix
func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.scanPattern(), clearBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan partitions: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete partitions: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// scanPattern matches every key under the prefix, with glob metacharacters
// in the prefix itself matched literally.
func (s *RedisStore) scanPattern() string {
	return globEscaper.Replace(s.keyPrefix) + "*"
}

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ PartitionStore = (*RedisStore)(nil)
