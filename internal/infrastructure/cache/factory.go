package cache

import (
	"context"
	"fmt"

	"github.com/erp/resolver/internal/domain/shared"
	"github.com/erp/resolver/internal/infrastructure/config"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// StoreFactory builds the durable tier selected by configuration
type StoreFactory struct {
	cfg     config.Config
	afs     afero.Fs
	logger  *zap.Logger
	clock   shared.Clock
	closers []func() error
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithFs sets the filesystem used by the file backend
func WithFs(afs afero.Fs) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.afs = afs
	}
}

// WithFactoryClock sets the clock stores use to stamp saved partitions
func WithFactoryClock(clock shared.Clock) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.clock = clock
	}
}

// WithFactoryLogger sets the logger for the factory
func WithFactoryLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.Config, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		cfg:    cfg,
		afs:    afero.NewOsFs(),
		logger: zap.NewNop(),
		clock:  shared.SystemClock,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns the configured PartitionStore, or nil for the memory backend
func (f *StoreFactory) CreateStore(ctx context.Context) (PartitionStore, error) {
	switch f.cfg.Cache.Backend {
	case config.CacheBackendMemory:
		f.logger.Info("Check cache is memory-only")
		return nil, nil

	case config.CacheBackendRedis:
		store, err := NewRedisStore(RedisConfig{
			Host:     f.cfg.Redis.Host,
			Port:     f.cfg.Redis.Port,
			Password: f.cfg.Redis.Password,
			DB:       f.cfg.Redis.DB,
		}, f.cfg.Cache.KeyPrefix, WithRedisClock(f.clock))
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis partition store: %w", err)
		}
		f.closers = append(f.closers, store.Close)
		f.logger.Info("Check cache uses Redis",
			zap.String("host", f.cfg.Redis.Host),
			zap.Int("port", f.cfg.Redis.Port))
		return store, nil

	case config.CacheBackendS3:
		s := f.cfg.Storage
		store, err := NewS3Store(ctx, S3Config{
			Endpoint:     s.Endpoint,
			Region:       s.Region,
			Bucket:       s.Bucket,
			AccessKey:    s.AccessKey,
			SecretKey:    s.SecretKey,
			UseSSL:       s.UseSSL,
			UsePathStyle: s.UsePathStyle,
			Prefix:       s.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 partition store: %w", err)
		}
		f.logger.Info("Check cache uses object storage", zap.String("bucket", s.Bucket))
		return store, nil

	default:
		store, err := NewFileStore(f.afs, f.cfg.Cache.Dir, WithFilePrefix(f.cfg.Cache.FilePrefix))
		if err != nil {
			return nil, err
		}
		f.logger.Info("Check cache uses local files", zap.String("dir", f.cfg.Cache.Dir))
		return store, nil
	}
}

// Close releases connections opened by CreateStore
func (f *StoreFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
