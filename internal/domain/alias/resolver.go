package alias

import (
	"fmt"
	"strings"
	"sync"

	"github.com/erp/resolver/internal/domain/shared"
	"go.uber.org/zap"
)

// ResolutionKind describes how a name was resolved
type ResolutionKind string

const (
	ResolutionExact   ResolutionKind = "exact"
	ResolutionPartial ResolutionKind = "partial"
	ResolutionNone    ResolutionKind = "none"
)

// Resolution is the outcome of resolving one name
type Resolution struct {
	Input     string         `json:"input"`
	Canonical string         `json:"canonical"`
	Alias     string         `json:"alias,omitempty"`
	Kind      ResolutionKind `json:"kind"`
}

// Resolved reports whether an alias applied
func (r Resolution) Resolved() bool {
	return r.Kind != ResolutionNone
}

// Resolver maps noisy names to canonical names through an ordered alias table.
type Resolver struct {
	mu      sync.RWMutex
	entries Table
	index   map[string]int
	logger  *zap.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver seeded with table. Keys are normalized;
// a repeated key keeps its first position and takes the last canonical name.
func NewResolver(table Table, opts ...Option) *Resolver {
	r := &Resolver{
		entries: make(Table, 0, len(table)),
		index:   make(map[string]int, len(table)),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, e := range table {
		r.put(NormalizeKey(e.Alias), e.Canonical)
	}
	return r
}

// Resolve returns the canonical name for name, or name unchanged
func (r *Resolver) Resolve(name string) string {
	return r.Explain(name).Canonical
}

// Explain resolves name and reports which alias applied.
func (r *Resolver) Explain(name string) Resolution {
	none := Resolution{Input: name, Canonical: name, Kind: ResolutionNone}
	if name == "" {
		return none
	}

	key := NormalizeKey(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if i, ok := r.index[key]; ok {
		e := r.entries[i]
		r.logger.Info("Resolved alias",
			zap.String("input", name),
			zap.String("canonical", e.Canonical),
		)
		return Resolution{Input: name, Canonical: e.Canonical, Alias: e.Alias, Kind: ResolutionExact}
	}

	for _, e := range r.entries {
		if strings.Contains(key, e.Alias) {
			r.logger.Info("Resolved alias (partial match)",
				zap.String("input", name),
				zap.String("alias", e.Alias),
				zap.String("canonical", e.Canonical),
			)
			return Resolution{Input: name, Canonical: e.Canonical, Alias: e.Alias, Kind: ResolutionPartial}
		}
	}
	return none
}

// Add registers alias -> canonical. An existing key is overwritten in place;
// a new key is appended after every existing entry.
func (r *Resolver) Add(aliasName, canonical string) error {
	key := NormalizeKey(aliasName)
	if key == "" {
		return fmt.Errorf("%w: alias is empty", shared.ErrInvalidInput)
	}
	canonical = strings.TrimSpace(canonical)
	if canonical == "" {
		return fmt.Errorf("%w: canonical name is empty", shared.ErrInvalidInput)
	}

	r.mu.Lock()
	r.put(key, canonical)
	r.mu.Unlock()

	r.logger.Info("Added alias",
		zap.String("alias", key),
		zap.String("canonical", canonical),
	)
	return nil
}

// Remove drops alias from the table. Later entries keep their relative order.
func (r *Resolver) Remove(aliasName string) error {
	key := NormalizeKey(aliasName)
	if key == "" {
		return fmt.Errorf("%w: alias is empty", shared.ErrInvalidInput)
	}

	r.mu.Lock()
	i, ok := r.index[key]
	if ok {
		r.entries = append(r.entries[:i], r.entries[i+1:]...)
		r.index = make(map[string]int, len(r.entries))
		for j, e := range r.entries {
			r.index[e.Alias] = j
		}
	}
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: alias %q", shared.ErrNotFound, key)
	}
	r.logger.Info("Removed alias", zap.String("alias", key))
	return nil
}

// Entries returns a copy of the table in resolution order
func (r *Resolver) Entries() Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(Table, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of aliases
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Resolver) put(key, canonical string) {
	if key == "" {
		return
	}
	if i, ok := r.index[key]; ok {
		r.entries[i].Canonical = canonical
		return
	}
	r.index[key] = len(r.entries)
	r.entries = append(r.entries, Entry{Alias: key, Canonical: canonical})
}
