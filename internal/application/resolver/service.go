// Package resolver wires the matcher, alias table, payee consolidator and
// caches into one service over the bookkeeping collaborators.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/resolver/internal/domain/alias"
	"github.com/erp/resolver/internal/domain/ledger"
	"github.com/erp/resolver/internal/domain/matching"
	"github.com/erp/resolver/internal/domain/payee"
	"github.com/erp/resolver/internal/domain/period"
	"github.com/erp/resolver/internal/domain/shared"
	"github.com/erp/resolver/internal/infrastructure/cache"
	"github.com/erp/resolver/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Service resolves free-text names against the bookkeeping system.
// It is safe for concurrent use.
type Service struct {
	directory NameDirectory
	source    CheckSource
	store     AliasStore
	writer    LedgerWriter
	recorder  MatchRecorder

	matcher      *matching.FuzzyMatcher
	payeeMatcher *matching.FuzzyMatcher
	aliases      *alias.Resolver
	consolidator *payee.Consolidator
	names        *cache.TTLCache[[]string]
	checks       *cache.PartitionedCache[ledger.Check]

	clock  shared.Clock
	loc    *time.Location
	logger *zap.Logger
}

// NewService creates a Service. A nil directory or source behaves as an
// empty bookkeeping system.
func NewService(directory NameDirectory, source CheckSource, opts ...Option) *Service {
	s := &Service{
		directory: directory,
		source:    source,
		clock:     shared.SystemClock,
		loc:       time.Local,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.matcher == nil {
		s.matcher = matching.NewFuzzyMatcher(matching.WithLogger(s.logger))
	}
	if s.payeeMatcher == nil {
		s.payeeMatcher = matching.NewFuzzyMatcher(
			matching.WithMinConfidence(DefaultPayeeMinConfidence),
			matching.WithLogger(s.logger),
		)
	}
	if s.aliases == nil {
		s.aliases = alias.NewResolver(alias.DefaultVendorAliases(), alias.WithLogger(s.logger))
	}
	if s.consolidator == nil {
		s.consolidator = payee.NewConsolidator(payee.WithLogger(s.logger))
	}
	if s.names == nil {
		s.names = cache.NewTTLCache[[]string](DefaultNameTTL,
			cache.WithName("names"), cache.WithClock(s.clock), cache.WithLogger(s.logger))
	}
	if s.checks == nil {
		s.checks = cache.NewPartitionedCache[ledger.Check](nil, DefaultCheckTTL, ledger.CheckDate,
			cache.WithName("checks"), cache.WithClock(s.clock), cache.WithLogger(s.logger))
	}
	return s
}

func nameKey(entity matching.EntityType) string {
	return "names_" + string(entity)
}

// Candidates returns the known names for entity, cached for the name TTL
func (s *Service) Candidates(ctx context.Context, entity matching.EntityType) ([]string, error) {
	key := nameKey(entity)
	if names, ok := s.names.Get(key); ok {
		return names, nil
	}

	names, err := s.listNames(ctx, entity)
	if err != nil {
		return nil, err
	}
	s.names.Set(key, names)
	return names, nil
}

func (s *Service) listNames(ctx context.Context, entity matching.EntityType) ([]string, error) {
	if s.directory == nil {
		return []string{}, nil
	}
	names, err := s.directory.ListNames(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s names: %w", shared.ErrUpstream, entity, err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Resolve matches query against the candidates for entity. Vendor queries
// go through the alias table first. Payee queries use ResolvePayee.
func (s *Service) Resolve(ctx context.Context, query string, entity matching.EntityType) (matching.MatchResult, error) {
	if entity == matching.EntityPayee {
		return s.ResolvePayee(ctx, query)
	}

	candidates, err := s.Candidates(ctx, entity)
	if err != nil {
		return matching.NotFound(query), err
	}

	search := query
	if entity == matching.EntityVendor {
		search = s.aliases.Resolve(query)
	}

	result := s.matcher.FindBestMatch(search, candidates, entity)
	result.OriginalQuery = query
	s.record(ctx, entity, result)
	return result, nil
}

// ResolvePayee matches query against every known payee. A consolidation
// hit is confirmed through the matcher; otherwise the payee threshold applies.
func (s *Service) ResolvePayee(ctx context.Context, query string) (matching.MatchResult, error) {
	payees, err := s.payeeNames(ctx)
	if err != nil {
		return matching.NotFound(query), err
	}

	var result matching.MatchResult
	if hit, ok := s.consolidator.FindBestMatch(query, payees); ok {
		logger.L(ctx, s.logger).Debug("Payee consolidated before matching",
			zap.String("query", query),
			zap.String("payee", hit),
		)
		result = s.matcher.FindBestMatch(hit, payees, matching.EntityPayee)
	} else {
		result = s.payeeMatcher.FindBestMatch(query, payees, matching.EntityPayee)
	}
	result.OriginalQuery = query
	s.record(ctx, matching.EntityPayee, result)
	return result, nil
}

func (s *Service) payeeNames(ctx context.Context) ([]string, error) {
	if names, ok := s.names.GetFullSearch(); ok {
		return names, nil
	}
	names, err := s.listNames(ctx, matching.EntityPayee)
	if err != nil {
		return nil, err
	}
	s.names.SetFullSearch(names)
	return names, nil
}

func (s *Service) record(ctx context.Context, entity matching.EntityType, r matching.MatchResult) {
	if s.recorder != nil {
		s.recorder.RecordMatch(ctx, entity, r)
	}
}

// Match runs the matcher over caller-supplied candidates
func (s *Service) Match(ctx context.Context, query string, candidates []string, entity matching.EntityType) matching.MatchResult {
	result := s.matcher.FindBestMatch(query, candidates, entity)
	s.record(ctx, entity, result)
	return result
}

// ExplainAlias reports how name resolves through the alias table
func (s *Service) ExplainAlias(name string) alias.Resolution {
	return s.aliases.Explain(name)
}

// Aliases returns a copy of the alias table in resolution order
func (s *Service) Aliases() alias.Table {
	return s.aliases.Entries()
}

// AddAlias registers an alias and persists it when a store is configured
func (s *Service) AddAlias(ctx context.Context, aliasName, canonical string) error {
	canonical = strings.TrimSpace(canonical)
	if err := s.aliases.Add(aliasName, canonical); err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}
	entry := alias.Entry{Alias: alias.NormalizeKey(aliasName), Canonical: canonical}
	if err := s.store.SaveAlias(ctx, entry); err != nil {
		return fmt.Errorf("failed to persist alias: %w", err)
	}
	return nil
}

// RemoveAlias drops an alias from the table and from the store. Seed aliases
// are never stored, so a store miss is ignored when the table held the alias.
func (s *Service) RemoveAlias(ctx context.Context, aliasName string) error {
	key := alias.NormalizeKey(aliasName)
	if key == "" {
		return fmt.Errorf("%w: alias is empty", shared.ErrInvalidInput)
	}

	err := s.aliases.Remove(key)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	removed := err == nil

	if s.store != nil {
		if err := s.store.DeleteAlias(ctx, key); err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("failed to delete alias: %w", err)
			}
		} else {
			removed = true
		}
	}
	if !removed {
		return fmt.Errorf("%w: alias %q", shared.ErrNotFound, key)
	}
	logger.L(ctx, s.logger).Info("Alias removed", zap.String("alias", key))
	return nil
}

// LoadAliases appends persisted aliases after the seed table
func (s *Service) LoadAliases(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	entries, err := s.store.ListAliases(ctx)
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}

	loaded := 0
	for _, e := range entries {
		if err := s.aliases.Add(e.Alias, e.Canonical); err != nil {
			s.logger.Warn("Skipping stored alias", zap.String("alias", e.Alias), zap.Error(err))
			continue
		}
		loaded++
	}
	s.logger.Info("Loaded stored aliases", zap.Int("count", loaded))
	return nil
}

// Consolidate explains the consolidation of a payee name
func (s *Service) Consolidate(name string) payee.Consolidation {
	return s.consolidator.Explain(name)
}

// Clean strips transaction noise from a payee name
func (s *Service) Clean(name string) string {
	return s.consolidator.Clean(name)
}

// QuarterChecks returns the checks of the quarter named by key
func (s *Service) QuarterChecks(ctx context.Context, key string) ([]ledger.Check, error) {
	q, err := period.ParseQuarterKey(key)
	if err != nil {
		return nil, err
	}
	key = q.Key()

	if checks, ok := s.checks.Get(ctx, key); ok {
		return checks, nil
	}
	if s.source == nil {
		return []ledger.Check{}, nil
	}

	checks, err := s.source.ListChecks(ctx, q.Start(s.loc), q.End(s.loc))
	if err != nil {
		return nil, fmt.Errorf("%w: list checks for %s: %w", shared.ErrUpstream, key, err)
	}
	if checks == nil {
		checks = []ledger.Check{}
	}
	s.checks.Set(ctx, key, checks)
	logger.L(ctx, s.logger).Info("Loaded quarter checks",
		zap.String("quarter", key),
		zap.Int("count", len(checks)),
	)
	return checks, nil
}

// RecentChecks returns the checks dated within the last days days
func (s *Service) RecentChecks(ctx context.Context, days int) ([]ledger.Check, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", shared.ErrInvalidInput)
	}
	for _, key := range period.RecentKeys(s.clock.Now()) {
		if _, err := s.QuarterChecks(ctx, key); err != nil {
			return nil, err
		}
	}
	return s.checks.Recent(ctx, days), nil
}

// ChecksForPayee returns recent checks whose consolidated payee equals the
// consolidated form of name, ignoring case.
func (s *Service) ChecksForPayee(ctx context.Context, name string, days int) ([]ledger.Check, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: payee is empty", shared.ErrInvalidInput)
	}
	recent, err := s.RecentChecks(ctx, days)
	if err != nil {
		return nil, err
	}

	target := strings.ToLower(s.consolidator.Consolidate(name))
	out := make([]ledger.Check, 0)
	for _, c := range recent {
		if strings.ToLower(s.consolidator.Consolidate(c.Payee)) == target {
			out = append(out, c)
		}
	}
	return out, nil
}

// ImportNames adds names for entity to the ledger mirror and drops the
// cached candidate list so the next lookup sees them.
func (s *Service) ImportNames(ctx context.Context, entity matching.EntityType, names []string) (int, error) {
	if s.writer == nil {
		return 0, fmt.Errorf("%w: ledger mirror is read-only", shared.ErrInvalidInput)
	}
	if entity == "" {
		return 0, fmt.Errorf("%w: entity type is required", shared.ErrInvalidInput)
	}

	clean := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			clean = append(clean, n)
		}
	}
	if len(clean) == 0 {
		return 0, fmt.Errorf("%w: no names to import", shared.ErrInvalidInput)
	}

	if err := s.writer.SaveNames(ctx, entity, clean); err != nil {
		return 0, fmt.Errorf("%w: save %s names: %w", shared.ErrUpstream, entity, err)
	}
	s.names.Delete(nameKey(entity))
	if entity == matching.EntityPayee {
		s.names.ClearFullSearch()
	}
	logger.L(ctx, s.logger).Info("Imported names",
		zap.String("entity", string(entity)),
		zap.Int("count", len(clean)),
	)
	return len(clean), nil
}

// ImportChecks upserts checks into the ledger mirror by transaction ID and
// drops the cached quarters they fall in. Every check needs a transaction
// ID and a parsable date.
func (s *Service) ImportChecks(ctx context.Context, checks []ledger.Check) (int, error) {
	if s.writer == nil {
		return 0, fmt.Errorf("%w: ledger mirror is read-only", shared.ErrInvalidInput)
	}
	if len(checks) == 0 {
		return 0, fmt.Errorf("%w: no checks to import", shared.ErrInvalidInput)
	}

	quarters := make(map[string]struct{})
	for i, c := range checks {
		if strings.TrimSpace(c.TxnID) == "" {
			return 0, fmt.Errorf("%w: check %d has no txn_id", shared.ErrInvalidInput, i)
		}
		d, ok := c.ParsedDate()
		if !ok {
			return 0, fmt.Errorf("%w: check %s has an unreadable date %q", shared.ErrInvalidInput, c.TxnID, c.Date)
		}
		quarters[period.QuarterKey(d)] = struct{}{}
	}

	if err := s.writer.SaveChecks(ctx, checks); err != nil {
		return 0, fmt.Errorf("%w: save checks: %w", shared.ErrUpstream, err)
	}
	for key := range quarters {
		s.checks.Delete(ctx, key)
	}
	s.names.Delete(nameKey(matching.EntityPayee))
	s.names.ClearFullSearch()
	logger.L(ctx, s.logger).Info("Imported checks",
		zap.Int("count", len(checks)),
		zap.Int("quarters", len(quarters)),
	)
	return len(checks), nil
}

// CheckCacheStats reports check cache traffic
func (s *Service) CheckCacheStats() cache.PartitionStats {
	return s.checks.Stats()
}

// InvalidateCaches drops every cached name list and check partition
func (s *Service) InvalidateCaches(ctx context.Context) error {
	s.names.Clear()
	if err := s.checks.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear check cache: %w", err)
	}
	logger.L(ctx, s.logger).Info("Caches invalidated")
	return nil
}
