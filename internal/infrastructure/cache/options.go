package cache

import (
	"github.com/erp/resolver/internal/domain/shared"
	"go.uber.org/zap"
)

// Observer receives cache events, typically to record metrics
type Observer interface {
	Hit(cache, tier string)
	Miss(cache string)
	DurableError(cache, op string)
}

// Tier names reported to observers
const (
	TierMemory  = "memory"
	TierDurable = "durable"
)

type nopObserver struct{}

func (nopObserver) Hit(string, string)          {}
func (nopObserver) Miss(string)                 {}
func (nopObserver) DurableError(string, string) {}

type options struct {
	name     string
	clock    shared.Clock
	logger   *zap.Logger
	observer Observer
}

func defaultOptions(name string) options {
	return options{
		name:     name,
		clock:    shared.SystemClock,
		logger:   zap.NewNop(),
		observer: nopObserver{},
	}
}

// Option configures TTLCache and PartitionedCache
type Option func(*options)

// WithName sets the name used in logs and metrics
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithClock sets the time source
func WithClock(clock shared.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver sets the event observer
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}
