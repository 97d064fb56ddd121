package telemetry

import (
	"context"

	"github.com/erp/resolver/internal/domain/matching"
	"github.com/erp/resolver/internal/infrastructure/cache"
	"go.opentelemetry.io/otel/metric"
)

// ResolverMetrics records cache traffic and match outcomes. It implements
// cache.Observer.
type ResolverMetrics struct {
	cacheHits     *Counter
	cacheMisses   *Counter
	durableErrors *Counter
	matches       *Counter
	confidence    *Histogram
}

// NewResolverMetrics registers the resolver instruments on meter
func NewResolverMetrics(meter metric.Meter) (*ResolverMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   ResolverMetrics
		err error
	)
	if m.cacheHits, err = NewCounter(meter, "resolver_cache_hits_total", "Cache lookups served from a tier", "{lookup}"); err != nil {
		return nil, err
	}
	if m.cacheMisses, err = NewCounter(meter, "resolver_cache_misses_total", "Cache lookups that found nothing fresh", "{lookup}"); err != nil {
		return nil, err
	}
	if m.durableErrors, err = NewCounter(meter, "resolver_cache_durable_errors_total", "Durable tier failures", "{error}"); err != nil {
		return nil, err
	}
	if m.matches, err = NewCounter(meter, "resolver_matches_total", "Name resolution attempts", "{match}"); err != nil {
		return nil, err
	}
	if m.confidence, err = NewHistogram(meter, "resolver_match_confidence", "Confidence of accepted matches", "1", ConfidenceBuckets...); err != nil {
		return nil, err
	}
	return &m, nil
}

// Hit implements cache.Observer
func (m *ResolverMetrics) Hit(name, tier string) {
	m.cacheHits.Inc(context.Background(), AttrCache.String(name), AttrTier.String(tier))
}

// Miss implements cache.Observer
func (m *ResolverMetrics) Miss(name string) {
	m.cacheMisses.Inc(context.Background(), AttrCache.String(name))
}

// DurableError implements cache.Observer
func (m *ResolverMetrics) DurableError(name, op string) {
	m.durableErrors.Inc(context.Background(), AttrCache.String(name), AttrOperation.String(op))
}

// RecordMatch counts one resolution and, when found, its confidence
func (m *ResolverMetrics) RecordMatch(ctx context.Context, entity matching.EntityType, r matching.MatchResult) {
	kind := string(r.Kind)
	if !r.Found {
		kind = "none"
	}
	m.matches.Inc(ctx,
		AttrEntity.String(string(entity)),
		AttrMatchKind.String(kind),
		AttrFound.Bool(r.Found),
	)
	if r.Found {
		m.confidence.Record(ctx, r.Confidence, AttrEntity.String(string(entity)))
	}
}

var _ cache.Observer = (*ResolverMetrics)(nil)
