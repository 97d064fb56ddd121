package resolver

import (
	"context"
	"time"

	"github.com/erp/resolver/internal/domain/alias"
	"github.com/erp/resolver/internal/domain/ledger"
	"github.com/erp/resolver/internal/domain/matching"
)

// NameDirectory lists the known names of one entity type
type NameDirectory interface {
	ListNames(ctx context.Context, entity matching.EntityType) ([]string, error)
}

// CheckSource lists the checks dated in [from, to)
type CheckSource interface {
	ListChecks(ctx context.Context, from, to time.Time) ([]ledger.Check, error)
}

// LedgerWriter fills the local mirror of the bookkeeping system
type LedgerWriter interface {
	SaveNames(ctx context.Context, entity matching.EntityType, names []string) error
	SaveChecks(ctx context.Context, checks []ledger.Check) error
}

// AliasStore persists aliases added at runtime
type AliasStore interface {
	ListAliases(ctx context.Context) ([]alias.Entry, error)
	SaveAlias(ctx context.Context, e alias.Entry) error
	DeleteAlias(ctx context.Context, aliasKey string) error
}

// MatchRecorder observes resolution outcomes
type MatchRecorder interface {
	RecordMatch(ctx context.Context, entity matching.EntityType, r matching.MatchResult)
}
