package cache

import (
	"context"
	"errors"
	"time"
)

// ErrPartitionNotFound is returned by PartitionStore.Load for absent keys
var ErrPartitionNotFound = errors.New("partition not found")

// PartitionStore is the durable tier of a PartitionedCache. Each key maps
// to one artifact whose last write time is reported by Load.
type PartitionStore interface {
	Load(ctx context.Context, key string) ([]byte, time.Time, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	// Clear removes every artifact owned by this store and nothing else.
	Clear(ctx context.Context) error
}
