package resolver

import (
	"time"

	"github.com/erp/resolver/internal/domain/alias"
	"github.com/erp/resolver/internal/domain/ledger"
	"github.com/erp/resolver/internal/domain/matching"
	"github.com/erp/resolver/internal/domain/payee"
	"github.com/erp/resolver/internal/domain/shared"
	"github.com/erp/resolver/internal/infrastructure/cache"
	"go.uber.org/zap"
)

const (
	// DefaultNameTTL is how long candidate lists stay cached
	DefaultNameTTL = 30 * time.Minute
	// DefaultCheckTTL is how long a quarter of checks stays cached
	DefaultCheckTTL = time.Hour
	// DefaultPayeeMinConfidence is the generic threshold for payee lookups
	DefaultPayeeMinConfidence = 0.5
	// DefaultRecentDays is the window used when callers pass no day count
	DefaultRecentDays = 90
)

// Option configures a Service
type Option func(*Service)

// WithMatcher sets the matcher used for entity resolution
func WithMatcher(m *matching.FuzzyMatcher) Option {
	return func(s *Service) {
		s.matcher = m
	}
}

// WithPayeeMatcher sets the matcher used for payee resolution
func WithPayeeMatcher(m *matching.FuzzyMatcher) Option {
	return func(s *Service) {
		s.payeeMatcher = m
	}
}

// WithAliasResolver replaces the seeded vendor alias resolver
func WithAliasResolver(r *alias.Resolver) Option {
	return func(s *Service) {
		s.aliases = r
	}
}

// WithConsolidator sets the payee consolidator
func WithConsolidator(c *payee.Consolidator) Option {
	return func(s *Service) {
		s.consolidator = c
	}
}

// WithNameCache sets the candidate name cache
func WithNameCache(c *cache.TTLCache[[]string]) Option {
	return func(s *Service) {
		s.names = c
	}
}

// WithCheckCache sets the quarter-partitioned check cache
func WithCheckCache(c *cache.PartitionedCache[ledger.Check]) Option {
	return func(s *Service) {
		s.checks = c
	}
}

// WithAliasStore persists runtime aliases
func WithAliasStore(store AliasStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLedgerWriter allows names and checks to be imported into the mirror
func WithLedgerWriter(w LedgerWriter) Option {
	return func(s *Service) {
		s.writer = w
	}
}

// WithMatchRecorder records resolution outcomes
func WithMatchRecorder(r MatchRecorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithClock sets the clock used for recent-check windows
func WithClock(clock shared.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithLocation sets the zone quarter boundaries are computed in
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.loc = loc
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
