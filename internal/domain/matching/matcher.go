package matching

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultMinConfidence is the generic-pass acceptance threshold
const DefaultMinConfidence = 0.7

// catalogToken is removed from both strings before the shared-word check.
const catalogToken = "24"

// FuzzyMatcher resolves a query against a candidate list. It holds no state
// besides its configuration and is safe for concurrent use.
type FuzzyMatcher struct {
	minConfidence float64
	similarity    SimilarityFunc
	heuristics    map[EntityType]Heuristic
	logger        *zap.Logger
}

// Option configures a FuzzyMatcher
type Option func(*FuzzyMatcher)

// WithMinConfidence sets the generic-pass threshold
func WithMinConfidence(v float64) Option {
	return func(m *FuzzyMatcher) {
		m.minConfidence = v
	}
}

// WithSimilarity sets the base similarity used by the generic pass
func WithSimilarity(fn SimilarityFunc) Option {
	return func(m *FuzzyMatcher) {
		if fn != nil {
			m.similarity = fn
		}
	}
}

// WithHeuristic registers or replaces the pass for an entity type
func WithHeuristic(entity EntityType, h Heuristic) Option {
	return func(m *FuzzyMatcher) {
		if h == nil {
			delete(m.heuristics, entity)
			return
		}
		m.heuristics[entity] = h
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *FuzzyMatcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewFuzzyMatcher creates a matcher with the built-in heuristics
func NewFuzzyMatcher(opts ...Option) *FuzzyMatcher {
	m := &FuzzyMatcher{
		minConfidence: DefaultMinConfidence,
		similarity:    SequenceRatio,
		heuristics:    DefaultHeuristics(),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MinConfidence returns the configured threshold
func (m *FuzzyMatcher) MinConfidence() float64 {
	return m.minConfidence
}

// FindBestMatch returns the best candidate for query. It never panics: any
// internal failure is logged and reported as not found.
func (m *FuzzyMatcher) FindBestMatch(query string, candidates []string, entity EntityType) (result MatchResult) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Match failed",
				zap.String("query", query),
				zap.String("entity_type", entity.String()),
				zap.Any("panic", r),
			)
			result = NotFound(query)
		}
	}()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(candidates) == 0 {
		return NotFound(query)
	}

	for _, c := range candidates {
		if c != "" && strings.ToLower(c) == q {
			return found(query, c, 1.0, KindExact)
		}
	}

	if h, ok := m.heuristics[entity]; ok {
		if r, ok := h(query, q, candidates); ok {
			return r
		}
	}

	result = m.generic(query, q, candidates)
	m.logger.Debug("Match evaluated",
		zap.String("query", query),
		zap.String("entity_type", entity.String()),
		zap.Bool("found", result.Found),
		zap.String("canonical_name", result.CanonicalName),
		zap.Float64("confidence", result.Confidence),
	)
	return result
}

// MatchVendor matches against vendor names
func (m *FuzzyMatcher) MatchVendor(query string, vendors []string) MatchResult {
	return m.FindBestMatch(query, vendors, EntityVendor)
}

// MatchItem matches against item names
func (m *FuzzyMatcher) MatchItem(query string, items []string) MatchResult {
	return m.FindBestMatch(query, items, EntityItem)
}

// MatchCustomer matches against customer names
func (m *FuzzyMatcher) MatchCustomer(query string, customers []string) MatchResult {
	return m.FindBestMatch(query, customers, EntityCustomer)
}

// MatchJob matches against "customer:job" names
func (m *FuzzyMatcher) MatchJob(query string, jobs []string) MatchResult {
	return m.FindBestMatch(query, jobs, EntityJob)
}

func (m *FuzzyMatcher) generic(query, q string, candidates []string) MatchResult {
	var (
		best      string
		bestScore float64
	)
	for _, c := range candidates {
		if c == "" {
			continue
		}
		score := m.score(q, strings.ToLower(c))
		// strict > keeps the first of equally scored candidates
		if score > bestScore && score >= m.minConfidence {
			best, bestScore = c, score
		}
	}
	if best == "" {
		return NotFound(query)
	}
	return found(query, best, bestScore, KindFuzzy)
}

func (m *FuzzyMatcher) score(q, c string) float64 {
	score := m.similarity(q, c)
	switch {
	case strings.Contains(c, q):
		score = max(score, 0.75)
	case strings.Contains(q, c):
		score = max(score, 0.8)
	case sharesWord(q, c):
		score = max(score, 0.75)
	}
	return score
}

func sharesWord(q, c string) bool {
	qWords := strings.Fields(strings.ReplaceAll(q, catalogToken, ""))
	cWords := strings.Fields(strings.ReplaceAll(c, catalogToken, ""))
	for _, qw := range qWords {
		for _, cw := range cWords {
			if strings.Contains(cw, qw) || strings.Contains(qw, cw) {
				return true
			}
		}
	}
	return false
}
