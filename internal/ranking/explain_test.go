package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/docsight/internal/types"
)

func TestExplain(t *testing.T) {
	tests := []struct {
		name    string
		factors types.RankingFactors
		want    string
	}{
		{
			name:    "all strong",
			factors: types.RankingFactors{NLPScore: 0.9, DomainScore: 0.6, JobRelevanceScore: 0.7, PositionScore: 1.0, Importance: types.ImportanceHigh},
			want:    "high semantic similarity; domain-specific content; highly relevant to job; early document position; high-importance section type",
		},
		{
			name:    "moderate",
			factors: types.RankingFactors{NLPScore: 0.5, DomainScore: 0.3, JobRelevanceScore: 0.3, PositionScore: 0.6, Importance: types.ImportanceMedium},
			want:    "moderate semantic similarity; some domain relevance; moderately relevant to job; medium-importance section type",
		},
		{
			name:    "weak",
			factors: types.RankingFactors{NLPScore: 0.1, PositionScore: 0.5, Importance: types.ImportanceLow},
			want:    "low semantic similarity",
		},
		{
			name:    "thresholds are exclusive",
			factors: types.RankingFactors{NLPScore: 0.7, DomainScore: 0.5, JobRelevanceScore: 0.2, PositionScore: 0.8},
			want:    "moderate semantic similarity; some domain relevance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Explain(tt.factors))
		})
	}
}

func TestExplain_SameFactorsSameText(t *testing.T) {
	f := types.RankingFactors{NLPScore: 0.55, DomainScore: 0.25, JobRelevanceScore: 0.6, PositionScore: 0.9}
	assert.Equal(t, Explain(f), Explain(f))
}
