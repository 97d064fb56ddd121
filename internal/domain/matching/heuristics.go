package matching

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Heuristic is an entity-specific matching pass. It returns ok=false to fall
// through to the generic pass. q is the lowercased, trimmed query.
type Heuristic func(query, q string, candidates []string) (MatchResult, bool)

// DefaultHeuristics returns the built-in per-entity passes
func DefaultHeuristics() map[EntityType]Heuristic {
	return map[EntityType]Heuristic{
		EntityVendor:   matchVendor,
		EntityItem:     matchItem,
		EntityCustomer: matchCustomer,
		EntityJob:      matchJob,
	}
}

// matchVendor accepts the first candidate containing the query, then the
// first candidate whose leading token equals the query.
func matchVendor(query, q string, candidates []string) (MatchResult, bool) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if strings.Contains(strings.ToLower(c), q) {
			return found(query, c, 0.9, KindPartial), true
		}
	}

	for _, c := range candidates {
		fields := strings.Fields(c)
		if len(fields) == 0 {
			continue
		}
		if strings.ToLower(fields[0]) == q {
			return found(query, c, 0.95, KindPartial), true
		}
	}
	return MatchResult{}, false
}

// matchItem handles catalog numbers ("30" -> "30 deliver and install") and
// containment weighted by how much of the candidate the query covers.
func matchItem(query, q string, candidates []string) (MatchResult, bool) {
	if isDigits(q) {
		prefix := q + " "
		for _, c := range candidates {
			if c == "" {
				continue
			}
			if strings.HasPrefix(strings.ToLower(c), prefix) {
				return found(query, c, 0.9, KindNumber), true
			}
		}
	}

	qLen := utf8.RuneCountInString(q)
	for _, c := range candidates {
		if c == "" {
			continue
		}
		lc := strings.ToLower(c)
		if !strings.Contains(lc, q) {
			continue
		}
		coverage := float64(qLen) / float64(utf8.RuneCountInString(lc))
		if coverage >= 0.3 {
			return found(query, c, min(0.85, coverage+0.3), KindPartial), true
		}
	}
	return MatchResult{}, false
}

// matchCustomer compares the query to the customer segment of "customer:job" names.
func matchCustomer(query, q string, candidates []string) (MatchResult, bool) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		customer, _, _ := strings.Cut(strings.ToLower(c), ":")
		if customer == q {
			return found(query, c, 0.95, KindPartial), true
		}
	}
	return MatchResult{}, false
}

// matchJob matches "customer:job" names on the full string, the customer
// segment, or containment in the job segment.
func matchJob(query, q string, candidates []string) (MatchResult, bool) {
	if strings.Contains(q, ":") {
		for _, c := range candidates {
			if c != "" && strings.ToLower(c) == q {
				return found(query, c, 1.0, KindExact), true
			}
		}
	}

	for _, c := range candidates {
		customer, job, ok := strings.Cut(c, ":")
		if !ok {
			continue
		}
		if strings.ToLower(customer) == q {
			return found(query, c, 0.9, KindPartial), true
		}
		if strings.Contains(strings.ToLower(job), q) {
			return found(query, c, 0.85, KindPartial), true
		}
	}
	return MatchResult{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
