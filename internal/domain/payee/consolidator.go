package payee

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// cleanupPatterns strip bank transaction artifacts, applied in order
var cleanupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)CHECKCARD\s+\d+`),        // CHECKCARD 0917
	regexp.MustCompile(`(?i)#\d{9}`),                 // #000213600
	regexp.MustCompile(`(?i)\d{2}/\d{2}`),            // 05/06
	regexp.MustCompile(`(?i)PURCHASE\s+CO`),          // PURCHASE CO
	regexp.MustCompile(`(?i)DESREVERSAL`),            // DESREVERSAL
	regexp.MustCompile(`(?i)\s+\d{2}\s+\d{2}/\d{2}`), // 87 02/06
	regexp.MustCompile(`(?i)\s+#\d+`),                // #000010700
}

// Consolidation is the outcome of consolidating one payee name
type Consolidation struct {
	Input    string `json:"input"`
	Name     string `json:"name"`
	Rule     string `json:"rule,omitempty"`
	Priority int    `json:"priority,omitempty"`
	Cleaned  bool   `json:"cleaned"`
}

// Changed reports whether consolidation produced a different name
func (c Consolidation) Changed() bool {
	return c.Name != c.Input
}

// Consolidator normalizes noisy card-transaction payee text to brand names.
// Its tables are fixed at construction, so it is safe for concurrent use.
type Consolidator struct {
	rules    []Rule
	generic  []string
	patterns []*regexp.Regexp
	logger   *zap.Logger
}

// Option configures a Consolidator
type Option func(*Consolidator)

// WithRules replaces the brand table
func WithRules(rules []Rule) Option {
	return func(c *Consolidator) {
		c.rules = normalizeRules(rules)
	}
}

// WithGenericKeywords replaces the brandless keyword set
func WithGenericKeywords(keywords []string) Option {
	return func(c *Consolidator) {
		c.generic = lowerAll(keywords)
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Consolidator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConsolidator creates a consolidator with the fuel brand table
func NewConsolidator(opts ...Option) *Consolidator {
	c := &Consolidator{
		rules:    normalizeRules(DefaultFuelRules()),
		generic:  DefaultGenericKeywords(),
		patterns: cleanupPatterns,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rules returns a copy of the brand table
func (c *Consolidator) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// IsConsolidatable reports whether name mentions any brand or generic keyword
func (c *Consolidator) IsConsolidatable(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, r := range c.rules {
		if r.matches(lower) {
			return true
		}
	}
	for _, k := range c.generic {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Consolidate returns the canonical brand for name, the cleaned name when
// only a generic keyword matched, or name unchanged.
func (c *Consolidator) Consolidate(name string) string {
	return c.Explain(name).Name
}

// Explain consolidates name and reports which rule applied
func (c *Consolidator) Explain(name string) Consolidation {
	result := Consolidation{Input: name, Name: name}
	if !c.IsConsolidatable(name) {
		return result
	}

	if rule, ok := c.bestRule(strings.ToLower(name)); ok {
		result.Name = rule.Canonical
		result.Rule = rule.Canonical
		result.Priority = rule.Priority
		c.logger.Info("Consolidated payee",
			zap.String("input", name),
			zap.String("name", rule.Canonical),
			zap.Int("priority", rule.Priority),
		)
		return result
	}

	if cleaned := c.Clean(name); cleaned != name {
		result.Name = cleaned
		result.Cleaned = true
		c.logger.Info("Cleaned payee",
			zap.String("input", name),
			zap.String("name", cleaned),
		)
	}
	return result
}

// bestRule reduces every matching rule to the highest priority.
// Equal priorities keep the earlier rule.
func (c *Consolidator) bestRule(lower string) (Rule, bool) {
	var (
		best  Rule
		found bool
	)
	for _, r := range c.rules {
		if !r.matches(lower) {
			continue
		}
		if !found || r.Priority > best.Priority {
			best, found = r, true
		}
	}
	return best, found
}

// Clean removes transaction references, card suffixes and embedded dates,
// then collapses whitespace.
func (c *Consolidator) Clean(name string) string {
	cleaned := name
	for _, p := range c.patterns {
		cleaned = p.ReplaceAllString(cleaned, "")
	}
	return strings.Join(strings.Fields(cleaned), " ")
}

// FindBestMatch picks the payee from payees that searchTerm refers to.
func (c *Consolidator) FindBestMatch(searchTerm string, payees []string) (string, bool) {
	if searchTerm == "" || len(payees) == 0 {
		return "", false
	}

	target := c.Consolidate(searchTerm)
	for _, p := range payees {
		if p == target {
			return p, true
		}
	}

	search := strings.ToLower(searchTerm)
	var first string
	for _, p := range payees {
		if !c.IsConsolidatable(p) {
			continue
		}
		consolidated := strings.ToLower(c.Consolidate(p))
		if !strings.Contains(consolidated, search) && !strings.Contains(search, consolidated) {
			continue
		}
		if consolidated == search {
			return p, true
		}
		if first == "" {
			first = p
		}
	}
	if first == "" {
		return "", false
	}
	return first, true
}

func normalizeRules(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, Rule{
			Keywords:  lowerAll(r.Keywords),
			Canonical: r.Canonical,
			Priority:  r.Priority,
		})
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
