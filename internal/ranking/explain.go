package ranking

import (
	"strings"

	"github.com/jonathan/docsight/internal/types"
)

// Explain describes a factor tuple. The result depends only on the factors.
func Explain(f types.RankingFactors) string {
	var parts []string

	switch {
	case f.NLPScore > 0.7:
		parts = append(parts, "high semantic similarity")
	case f.NLPScore > 0.4:
		parts = append(parts, "moderate semantic similarity")
	default:
		parts = append(parts, "low semantic similarity")
	}

	if f.DomainScore > 0.5 {
		parts = append(parts, "domain-specific content")
	} else if f.DomainScore > 0.2 {
		parts = append(parts, "some domain relevance")
	}

	if f.JobRelevanceScore > 0.5 {
		parts = append(parts, "highly relevant to job")
	} else if f.JobRelevanceScore > 0.2 {
		parts = append(parts, "moderately relevant to job")
	}

	if f.PositionScore > 0.8 {
		parts = append(parts, "early document position")
	}

	switch f.Importance {
	case types.ImportanceHigh:
		parts = append(parts, "high-importance section type")
	case types.ImportanceMedium:
		parts = append(parts, "medium-importance section type")
	}

	return strings.Join(parts, "; ")
}
