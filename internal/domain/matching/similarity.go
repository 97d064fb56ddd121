package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/pmezard/go-difflib/difflib"
)

// SimilarityFunc scores two lowercased strings in [0,1]
type SimilarityFunc func(a, b string) float64

// SequenceRatio is the Ratcliff/Obershelp ratio 2*M/T computed over runes.
func SequenceRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// LevenshteinRatio is 1 - distance/maxLen over runes.
func LevenshteinRatio(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(maxLen)
}

// SimilarityByName resolves a configured similarity name. Unknown names
// fall back to SequenceRatio.
func SimilarityByName(name string) SimilarityFunc {
	switch strings.ToLower(name) {
	case "levenshtein":
		return LevenshteinRatio
	default:
		return SequenceRatio
	}
}
