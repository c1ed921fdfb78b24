package ranking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/docsight/internal/types"
)

func TestComputeDomainScore(t *testing.T) {
	r := NewDefaultRanker()

	tests := []struct {
		name    string
		title   string
		content string
		persona string
		want    float64
	}{
		{
			name:    "business keywords plus high importance",
			title:   "executive summary",
			content: "market growth strategy",
			persona: "business analyst",
			want:    3.0/17.0 + 0.3,
		},
		{
			name:    "persona matches no domain",
			title:   "coastal adventures",
			content: "",
			persona: "chef",
			want:    0,
		},
		{
			name:    "travel domain single keyword",
			title:   "coastal adventures",
			content: "",
			persona: "travel planner",
			want:    1.0 / 22.0,
		},
		{
			name:    "medium importance without domain",
			title:   "discussion",
			content: "",
			persona: "chef",
			want:    0.15,
		},
		{
			name:    "low importance gets no boost",
			title:   "references",
			content: "",
			persona: "chef",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := r.importanceTier(tt.title)
			assert.InDelta(t, tt.want, r.computeDomainScore(tt.title, tt.content, tt.persona, tier), 1e-9)
		})
	}
}

func TestComputeDomainScore_Capped(t *testing.T) {
	r := NewRanker(Lexicon{
		Domains:    []Domain{{Name: "cooking", Keywords: []string{"recipe", "oven"}}},
		Importance: Importance{High: []string{"summary"}},
	})
	got := r.computeDomainScore("recipe summary", "oven", "cooking enthusiast", types.ImportanceHigh)
	assert.Equal(t, 1.0, got)
}

func TestPersonaTriggers_FirstThreeKeywords(t *testing.T) {
	d := Domain{Name: "cooking", Keywords: []string{"recipe", "oven", "bake", "knife"}}
	assert.True(t, personaTriggers("a cooking fan", d))
	assert.True(t, personaTriggers("loves to bake", d))
	assert.False(t, personaTriggers("knife collector", d))
}

func TestComputeJobRelevanceScore(t *testing.T) {
	r := NewDefaultRanker()

	tests := []struct {
		name    string
		title   string
		content string
		job     string
		want    float64
	}{
		{"title overlap plus keyword boost", "trip planning", "", "plan a trip", 0.5*0.8 + 0.3},
		{"content overlap plus trip keyword", "notes", "the trip was fun", "plan a trip", 0.5*0.4 + 0.3},
		{"content overlap only", "opening", "museum hours", "compile museum notes", 0.4 / 3.0},
		{"no overlap", "history", "old buildings", "plan a trip", 0},
		{"empty job", "anything", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, r.computeJobRelevanceScore(tt.title, tt.content, tt.job), 1e-9)
		})
	}
}

func TestComputePositionScore(t *testing.T) {
	assert.Equal(t, 1.0, computePositionScore(0, 1))
	assert.Equal(t, 1.0, computePositionScore(0, 3))
	assert.Equal(t, 0.75, computePositionScore(1, 3))
	assert.Equal(t, 0.5, computePositionScore(2, 3))
}

func TestComputeLengthScore(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		preview string
		want    float64
	}{
		{"short", "Ten chars!", "", 0.2},
		{"optimal", strings.Repeat("a", 20), strings.Repeat("b", 80), 1.0},
		{"lower edge", strings.Repeat("a", 50), "", 1.0},
		{"upper edge", "", strings.Repeat("b", 500), 1.0},
		{"long", "", strings.Repeat("b", 600), 500.0 / 600.0},
		{"very long", "", strings.Repeat("b", 2000), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeLengthScore(types.DocumentSection{Title: tt.title, ContentPreview: tt.preview})
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestImportanceTier(t *testing.T) {
	r := NewDefaultRanker()
	assert.Equal(t, types.ImportanceHigh, r.importanceTier("introduction"))
	assert.Equal(t, types.ImportanceMedium, r.importanceTier("related work"))
	assert.Equal(t, types.ImportanceLow, r.importanceTier("appendix a"))
	assert.Equal(t, types.ImportanceNone, r.importanceTier("coastal adventures"))
}
