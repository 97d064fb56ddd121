package matching

import (
	"fmt"
	"strings"
)

// EntityType selects the heuristic set applied before the generic fallback
type EntityType string

const (
	EntityGeneric  EntityType = "generic"
	EntityVendor   EntityType = "vendor"
	EntityItem     EntityType = "item"
	EntityCustomer EntityType = "customer"
	EntityJob      EntityType = "job"
	// EntityPayee names check payees. It has no dedicated heuristic.
	EntityPayee EntityType = "payee"
)

// ParseEntityType maps a string to an EntityType. Unknown values map to EntityGeneric.
func ParseEntityType(s string) EntityType {
	switch EntityType(strings.ToLower(strings.TrimSpace(s))) {
	case EntityVendor:
		return EntityVendor
	case EntityItem:
		return EntityItem
	case EntityCustomer:
		return EntityCustomer
	case EntityJob:
		return EntityJob
	case EntityPayee:
		return EntityPayee
	default:
		return EntityGeneric
	}
}

// String returns the string representation
func (e EntityType) String() string {
	return string(e)
}

// MatchKind describes which rule produced a match
type MatchKind string

const (
	KindExact   MatchKind = "exact"
	KindPartial MatchKind = "partial"
	KindNumber  MatchKind = "number"
	KindFuzzy   MatchKind = "fuzzy"
)

// MatchResult is the outcome of a single match operation.
// When Found is false, CanonicalName and Kind are empty and Confidence is 0.
type MatchResult struct {
	Found         bool      `json:"found"`
	CanonicalName string    `json:"canonical_name"`
	Confidence    float64   `json:"confidence"`
	Kind          MatchKind `json:"match_kind,omitempty"`
	OriginalQuery string    `json:"original_query"`
}

// NotFound returns an empty result for query
func NotFound(query string) MatchResult {
	return MatchResult{OriginalQuery: query}
}

func found(query, candidate string, confidence float64, kind MatchKind) MatchResult {
	return MatchResult{
		Found:         true,
		CanonicalName: candidate,
		Confidence:    confidence,
		Kind:          kind,
		OriginalQuery: query,
	}
}

// String renders a one-line description for logs and CLI output
func (r MatchResult) String() string {
	if !r.Found {
		return fmt.Sprintf("No match found for '%s'", r.OriginalQuery)
	}
	return fmt.Sprintf("Found '%s' (%s match, %.1f%% confidence)", r.CanonicalName, r.Kind, r.Confidence*100)
}
