package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/docsight/internal/types"
)

func section(doc, title, preview string) types.DocumentSection {
	return types.DocumentSection{Document: doc, Title: title, ContentPreview: preview, Page: 1, Confidence: 0.9}
}

func TestRank_WeightingDirection(t *testing.T) {
	sections := []types.DocumentSection{
		section("a.pdf", "References", ""),
		section("b.pdf", "Coastal Adventures", "Explore quiet beaches and seaside towns."),
	}

	ranked := NewDefaultRanker().Rank(sections, "Travel Planner", "Plan a trip of 4 days for a group of 10 college friends.", []float64{0.2, 0.85})
	require.Len(t, ranked, 2)

	assert.Equal(t, "Coastal Adventures", ranked[0].Section.Title)
	assert.Equal(t, "References", ranked[1].Section.Title)
	assert.Greater(t, ranked[0].TotalScore, ranked[1].TotalScore)
	assert.Contains(t, ranked[0].Explanation, "high semantic similarity")
	assert.Equal(t, types.ImportanceLow, ranked[1].Factors.Importance)
}

func TestRank_IsPermutation(t *testing.T) {
	sections := []types.DocumentSection{
		section("a.pdf", "Introduction", "Overview of the system."),
		section("a.pdf", "Results", "The numbers improved."),
		section("b.pdf", "Appendix", ""),
		section("b.pdf", "Design Notes", "Architecture and trade-offs."),
	}

	ranked := NewDefaultRanker().Rank(sections, "researcher", "review results", []float64{0.1, 0.9, 0.3, 0.5})
	require.Len(t, ranked, len(sections))

	var got []types.DocumentSection
	for _, r := range ranked {
		got = append(got, r.Section)
	}
	assert.ElementsMatch(t, sections, got)
}

func TestRank_ScoresWithinBounds(t *testing.T) {
	sections := []types.DocumentSection{
		section("a.pdf", "Executive Summary and Results Overview", "trip plan group friends itinerary hotels booking budget schedule"),
		section("a.pdf", "x", ""),
	}

	ranked := NewDefaultRanker().Rank(sections, "travel planner", "plan trip group friends", []float64{5.0, -3.0})
	for _, r := range ranked {
		assert.GreaterOrEqual(t, r.TotalScore, 0.0)
		assert.LessOrEqual(t, r.TotalScore, 1.0)
		assert.GreaterOrEqual(t, r.Factors.NLPScore, 0.0)
		assert.LessOrEqual(t, r.Factors.NLPScore, 1.0)
		assert.LessOrEqual(t, r.Factors.DomainScore, 1.0)
		assert.LessOrEqual(t, r.Factors.JobRelevanceScore, 1.0)
	}
}

func TestRank_MissingNLPScoresCountAsZero(t *testing.T) {
	sections := []types.DocumentSection{section("a.pdf", "Some Heading", "")}
	ranked := NewDefaultRanker().Rank(sections, "", "", nil)
	require.Len(t, ranked, 1)
	assert.Equal(t, 0.0, ranked[0].Factors.NLPScore)
}

func TestRank_Empty(t *testing.T) {
	ranked := NewDefaultRanker().Rank(nil, "persona", "job", nil)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRank_Deterministic(t *testing.T) {
	sections := []types.DocumentSection{
		section("a.pdf", "Introduction", "Overview of the system."),
		section("b.pdf", "Discussion", "What the results mean."),
	}
	r := NewDefaultRanker()
	first := r.Rank(sections, "researcher", "review the literature", []float64{0.4, 0.6})
	second := r.Rank(sections, "researcher", "review the literature", []float64{0.4, 0.6})
	assert.Equal(t, first, second)
}

func TestSortByScore_StableOnTies(t *testing.T) {
	factors := types.RankingFactors{NLPScore: 0.5, DomainScore: 0.2, TotalScore: 0.4}
	ranked := []types.RankedSection{
		{Section: section("a.pdf", "First", ""), TotalScore: 0.4, Factors: factors, Explanation: Explain(factors)},
		{Section: section("b.pdf", "Higher", ""), TotalScore: 0.9},
		{Section: section("c.pdf", "Second", ""), TotalScore: 0.4, Factors: factors, Explanation: Explain(factors)},
	}

	sortByScore(ranked)

	assert.Equal(t, "Higher", ranked[0].Section.Title)
	assert.Equal(t, "First", ranked[1].Section.Title)
	assert.Equal(t, "Second", ranked[2].Section.Title)
	assert.Equal(t, ranked[1].Explanation, ranked[2].Explanation)
}

func TestComputeFactors_TotalIsWeightedSum(t *testing.T) {
	r := NewDefaultRanker()
	f := r.ComputeFactors(section("a.pdf", "Background", "Some history of the field."), "student", "learn", 0.5, 0, 1)

	want := 0.40*f.NLPScore + 0.25*f.DomainScore + 0.20*f.JobRelevanceScore + 0.10*f.PositionScore + 0.05*f.LengthScore
	assert.InDelta(t, want, f.TotalScore, 1e-12)
	assert.Equal(t, types.ImportanceMedium, f.Importance)
}
