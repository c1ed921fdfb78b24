package headings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/docsight/internal/types"
)

func candidate(text string, level types.HeadingLevel, confidence float64, page int, y float64) types.HeadingCandidate {
	return types.HeadingCandidate{
		Span:       span(text, 14, true, page, 72, y),
		Level:      level,
		Confidence: confidence,
	}
}

func TestRefine_SortsByPageThenY(t *testing.T) {
	input := []types.HeadingCandidate{
		candidate("C", types.LevelH2, 0.6, 2, 100),
		candidate("B", types.LevelH1, 0.7, 1, 300),
		candidate("A", types.LevelH2, 0.8, 1, 100),
	}

	refined := Refine(input)
	require.Len(t, refined, 3)
	assert.Equal(t, "A", refined[0].Span.Text)
	assert.Equal(t, "B", refined[1].Span.Text)
	assert.Equal(t, "C", refined[2].Span.Text)
}

func TestRefine_PromotesHighestConfidence(t *testing.T) {
	input := []types.HeadingCandidate{
		candidate("Later", types.LevelH2, 0.6, 2, 100),
		candidate("Best", types.LevelH3, 0.9, 3, 50),
		candidate("First", types.LevelH2, 0.55, 1, 100),
	}

	refined := Refine(input)
	require.Len(t, refined, 3)
	assert.Equal(t, "Best", refined[2].Span.Text)
	assert.Equal(t, types.LevelH1, refined[2].Level)
	assert.Equal(t, types.LevelH2, refined[0].Level)
	assert.Equal(t, types.LevelH2, refined[1].Level)

	// input untouched
	assert.Equal(t, types.LevelH3, input[1].Level)
}

func TestRefine_KeepsExistingH1AndGaps(t *testing.T) {
	input := []types.HeadingCandidate{
		candidate("Top", types.LevelH1, 0.6, 1, 10),
		candidate("Deep", types.LevelH3, 0.9, 1, 20),
	}

	refined := Refine(input)
	assert.Equal(t, types.LevelH1, refined[0].Level)
	assert.Equal(t, types.LevelH3, refined[1].Level)
}

func TestRefine_AlwaysYieldsH1(t *testing.T) {
	levels := []types.HeadingLevel{types.LevelH2, types.LevelH3}
	for _, level := range levels {
		refined := Refine([]types.HeadingCandidate{candidate("Only", level, 0.51, 4, 10)})
		require.Len(t, refined, 1)
		assert.Equal(t, types.LevelH1, refined[0].Level)
	}
}

func TestRefine_Empty(t *testing.T) {
	assert.Empty(t, Refine(nil))
}
