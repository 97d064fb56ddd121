package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestFindBestMatch_EmptyInputs(t *testing.T) {
	m := NewFuzzyMatcher()

	tests := []struct {
		name       string
		query      string
		candidates []string
	}{
		{name: "empty query", query: "", candidates: []string{"Shell"}},
		{name: "whitespace query", query: "   ", candidates: []string{"Shell", ""}},
		{name: "nil candidates", query: "shell", candidates: nil},
		{name: "empty candidates", query: "shell", candidates: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := m.FindBestMatch(tt.query, tt.candidates, EntityVendor)
			assert.False(t, r.Found)
			assert.Equal(t, tt.query, r.OriginalQuery)
			assert.Empty(t, r.CanonicalName)
			assert.Zero(t, r.Confidence)
			assert.Empty(t, r.Kind)
		})
	}
}

func TestFindBestMatch_ExactAlwaysWins(t *testing.T) {
	m := NewFuzzyMatcher()

	for _, entity := range []EntityType{EntityGeneric, EntityVendor, EntityItem, EntityCustomer, EntityJob} {
		t.Run(entity.String(), func(t *testing.T) {
			r := m.FindBestMatch("  JACIEL ", []string{"", "Zelle payment to Adrian Carpente", "Jaciel"}, entity)
			require.True(t, r.Found)
			assert.Equal(t, "Jaciel", r.CanonicalName)
			assert.Equal(t, 1.0, r.Confidence)
			assert.Equal(t, KindExact, r.Kind)
			assert.Equal(t, "  JACIEL ", r.OriginalQuery)
		})
	}
}

func TestMatchVendor(t *testing.T) {
	m := NewFuzzyMatcher()

	t.Run("exact beats substring", func(t *testing.T) {
		r := m.MatchVendor("jaciel", []string{"Jaciel", "Zelle payment to Adrian Carpente"})
		assert.Equal(t, "Jaciel", r.CanonicalName)
		assert.Equal(t, KindExact, r.Kind)
	})

	t.Run("substring first in list order", func(t *testing.T) {
		r := m.MatchVendor("adrian", []string{"Selvin Lopez", "Zelle payment to Adrian Carpente", "Adrian Two"})
		require.True(t, r.Found)
		assert.Equal(t, "Zelle payment to Adrian Carpente", r.CanonicalName)
		assert.Equal(t, 0.9, r.Confidence)
		assert.Equal(t, KindPartial, r.Kind)
	})

	t.Run("falls through to generic", func(t *testing.T) {
		r := m.MatchVendor("jacial", []string{"Jaciel", "Bryan"})
		require.True(t, r.Found)
		assert.Equal(t, "Jaciel", r.CanonicalName)
		assert.Equal(t, KindFuzzy, r.Kind)
		assert.InDelta(t, 0.8333, r.Confidence, 0.001)
	})

	t.Run("no match", func(t *testing.T) {
		r := m.MatchVendor("xyz", []string{"Hardware Depot"})
		assert.False(t, r.Found)
	})
}

func TestMatchVendor_SkipsBlankCandidates(t *testing.T) {
	r, ok := matchVendor("Selvin", "selvin", []string{"", "   ", "Selvin Lopez"})
	require.True(t, ok)
	assert.Equal(t, "Selvin Lopez", r.CanonicalName)
	assert.Equal(t, 0.9, r.Confidence)
}

func TestMatchItem(t *testing.T) {
	m := NewFuzzyMatcher()

	t.Run("number prefix", func(t *testing.T) {
		r := m.MatchItem("30", []string{"130 deliver and install", "30 deliver and install"})
		require.True(t, r.Found)
		assert.Equal(t, "30 deliver and install", r.CanonicalName)
		assert.Equal(t, 0.9, r.Confidence)
		assert.Equal(t, KindNumber, r.Kind)
	})

	t.Run("number prefix needs a token boundary", func(t *testing.T) {
		r := m.MatchItem("30", []string{"130 deliver and install"})
		assert.NotEqual(t, KindNumber, r.Kind)
		assert.NotEqual(t, KindPartial, r.Kind)
	})

	t.Run("partial containment", func(t *testing.T) {
		r := m.MatchItem("deliver", []string{"30 deliver and install"})
		require.True(t, r.Found)
		assert.Equal(t, KindPartial, r.Kind)
		assert.InDelta(t, 7.0/22.0+0.3, r.Confidence, 1e-9)
	})

	t.Run("partial containment capped", func(t *testing.T) {
		r := m.MatchItem("install", []string{"install kit"})
		require.True(t, r.Found)
		assert.Equal(t, 0.85, r.Confidence)
	})

	t.Run("coverage counts runes", func(t *testing.T) {
		r, ok := matchItem("café", "café", []string{"café crème"})
		require.True(t, ok)
		assert.InDelta(t, 0.4+0.3, r.Confidence, 1e-9)
	})
}

func TestMatchCustomer(t *testing.T) {
	m := NewFuzzyMatcher()

	r := m.MatchCustomer("RWS", []string{"Other", "rws:Retreat 24"})
	require.True(t, r.Found)
	assert.Equal(t, "rws:Retreat 24", r.CanonicalName)
	assert.Equal(t, 0.95, r.Confidence)
	assert.Equal(t, KindPartial, r.Kind)
}

func TestMatchJob(t *testing.T) {
	m := NewFuzzyMatcher()
	jobs := []string{"Plain Job", "rws:Retreat 24", "abc:Kitchen Remodel"}

	tests := []struct {
		query      string
		want       string
		confidence float64
		kind       MatchKind
	}{
		{query: "rws:retreat 24", want: "rws:Retreat 24", confidence: 1.0, kind: KindExact},
		{query: "rws", want: "rws:Retreat 24", confidence: 0.9, kind: KindPartial},
		{query: "kitchen", want: "abc:Kitchen Remodel", confidence: 0.85, kind: KindPartial},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := m.MatchJob(tt.query, jobs)
			require.True(t, r.Found)
			assert.Equal(t, tt.want, r.CanonicalName)
			assert.Equal(t, tt.confidence, r.Confidence)
			assert.Equal(t, tt.kind, r.Kind)
		})
	}
}

func TestGeneric_SharedWordBoost(t *testing.T) {
	m := NewFuzzyMatcher()

	r := m.FindBestMatch("paint", []string{"24 painting", "hardware"}, EntityGeneric)
	require.True(t, r.Found)
	assert.Equal(t, "24 painting", r.CanonicalName)
	assert.Equal(t, 0.75, r.Confidence)
	assert.Equal(t, KindFuzzy, r.Kind)

	r = m.FindBestMatch("painting 24", []string{"24 paint supplies"}, EntityGeneric)
	require.True(t, r.Found)
	assert.Equal(t, "24 paint supplies", r.CanonicalName)
}

func TestGeneric_CandidateInsideQuery(t *testing.T) {
	m := NewFuzzyMatcher()

	r := m.FindBestMatch("shell station 12", []string{"Shell"}, EntityGeneric)
	require.True(t, r.Found)
	assert.Equal(t, 0.8, r.Confidence)
}

func TestGeneric_TieKeepsFirst(t *testing.T) {
	m := NewFuzzyMatcher()

	r := m.FindBestMatch("paint", []string{"paint store", "paint shop"}, EntityGeneric)
	require.True(t, r.Found)
	assert.Equal(t, "paint store", r.CanonicalName)
	assert.Equal(t, 0.75, r.Confidence)
}

func TestGeneric_Threshold(t *testing.T) {
	strict := NewFuzzyMatcher(WithMinConfidence(0.9))
	r := strict.FindBestMatch("paint", []string{"24 painting"}, EntityGeneric)
	assert.False(t, r.Found)

	loose := NewFuzzyMatcher(WithMinConfidence(0.5))
	r = loose.FindBestMatch("hacienda", []string{"jaciel"}, EntityGeneric)
	require.True(t, r.Found)
	assert.InDelta(t, 0.5714, r.Confidence, 0.001)

	exactly := NewFuzzyMatcher(WithMinConfidence(0.75))
	r = exactly.FindBestMatch("paint", []string{"24 painting"}, EntityGeneric)
	assert.True(t, r.Found, "threshold is inclusive")
}

func TestFindBestMatch_RecoversFromPanic(t *testing.T) {
	m := NewFuzzyMatcher(
		WithLogger(zaptest.NewLogger(t)),
		WithHeuristic(EntityVendor, func(string, string, []string) (MatchResult, bool) {
			panic("boom")
		}),
	)

	r := m.MatchVendor("adrian", []string{"Adrian Carpente Two"})
	assert.False(t, r.Found)
	assert.Equal(t, "adrian", r.OriginalQuery)
}

func TestWithHeuristic_NilRemoves(t *testing.T) {
	m := NewFuzzyMatcher(WithHeuristic(EntityItem, nil))

	r := m.MatchItem("30", []string{"30 deliver and install"})
	require.True(t, r.Found)
	assert.Equal(t, KindFuzzy, r.Kind)
}

func TestMatchResult_String(t *testing.T) {
	assert.Equal(t, "No match found for 'xyz'", NotFound("xyz").String())
	assert.Equal(t, "Found 'Shell' (partial match, 90.0% confidence)",
		found("shell", "Shell", 0.9, KindPartial).String())
}

func TestParseEntityType(t *testing.T) {
	assert.Equal(t, EntityVendor, ParseEntityType(" Vendor "))
	assert.Equal(t, EntityJob, ParseEntityType("job"))
	assert.Equal(t, EntityPayee, ParseEntityType("payee"))
	assert.Equal(t, EntityGeneric, ParseEntityType("account"))
	assert.Equal(t, EntityGeneric, ParseEntityType(""))
}
