package cache

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// recordingObserver counts cache events
type recordingObserver struct {
	mu     sync.Mutex
	hits   map[string]int
	misses int
	errors map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{hits: map[string]int{}, errors: map[string]int{}}
}

func (o *recordingObserver) Hit(_, tier string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hits[tier]++
}

func (o *recordingObserver) Miss(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.misses++
}

func (o *recordingObserver) DurableError(_, op string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errors[op]++
}

// MockPartitionStore is a mock implementation of PartitionStore
type MockPartitionStore struct {
	mock.Mock
}

func (m *MockPartitionStore) Load(ctx context.Context, key string) ([]byte, time.Time, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Get(1).(time.Time), args.Error(2)
}

func (m *MockPartitionStore) Save(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *MockPartitionStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockPartitionStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
