package headings

import (
	"sort"

	"github.com/jonathan/docsight/internal/types"
)

// Refine orders candidates by page and vertical position and guarantees at least one H1.
// When no H1 exists the highest-confidence candidate is promoted. Nesting gaps are left as-is.
// The input slice is not modified.
func Refine(candidates []types.HeadingCandidate) []types.HeadingCandidate {
	if len(candidates) == 0 {
		return candidates
	}

	refined := make([]types.HeadingCandidate, len(candidates))
	copy(refined, candidates)

	sort.SliceStable(refined, func(i, j int) bool {
		if refined[i].Span.Page != refined[j].Span.Page {
			return refined[i].Span.Page < refined[j].Span.Page
		}
		return refined[i].Span.YPos() < refined[j].Span.YPos()
	})

	for _, c := range refined {
		if c.Level == types.LevelH1 {
			return refined
		}
	}

	best := 0
	for i := range refined {
		if refined[i].Confidence > refined[best].Confidence {
			best = i
		}
	}
	refined[best].Level = types.LevelH1

	return refined
}
