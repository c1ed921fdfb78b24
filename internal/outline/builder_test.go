package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/docsight/internal/types"
)

func span(text string, size float64, bold bool, page int, y float64) types.Span {
	return types.Span{
		Text:     text,
		FontSize: size,
		IsBold:   bold,
		Page:     page,
		BBox:     types.BBox{X0: 72, Y0: y, X1: 400, Y1: y + size},
	}
}

func scenarioSpans() []types.Span {
	return []types.Span{
		span("Understanding ML", 24, true, 1, 60),
		span("1. Introduction", 18, true, 1, 120),
		span("Machine learning is...", 12, false, 1, 150),
		span("1.1 Types", 16, true, 1, 200),
	}
}

func TestBuild_Scenario(t *testing.T) {
	got := NewDefaultBuilder().Build(scenarioSpans())

	assert.Equal(t, types.Outline{
		Title: "Understanding ML",
		Outline: []types.OutlineEntry{
			{Level: types.LevelH1, Text: "1. Introduction", Page: 1},
			{Level: types.LevelH2, Text: "1.1 Types", Page: 1},
		},
	}, got)
}

func TestBuild_Empty(t *testing.T) {
	got := NewDefaultBuilder().Build(nil)
	assert.Equal(t, "Untitled Document", got.Title)
	assert.NotNil(t, got.Outline)
	assert.Empty(t, got.Outline)
}

func TestBuild_ReadingOrderAcrossPages(t *testing.T) {
	spans := []types.Span{
		span("Field Guide", 26, true, 1, 40),
		span("plain body text that goes on for a while and is clearly a paragraph of prose", 11, false, 1, 90),
		span("2. Second Part", 16, true, 2, 300),
		span("1. First Part", 16, true, 2, 80),
		span("more plain body text that goes on for a while and is clearly a paragraph", 11, false, 3, 90),
	}

	got := NewDefaultBuilder().Build(spans)
	assert.Equal(t, "Field Guide", got.Title)
	assert.Equal(t, []types.OutlineEntry{
		{Level: types.LevelH1, Text: "1. First Part", Page: 2},
		{Level: types.LevelH1, Text: "2. Second Part", Page: 2},
	}, got.Outline)
}

func TestBuild_PromotesWhenNoH1(t *testing.T) {
	spans := []types.Span{
		span("Release Notes", 30, false, 1, 40),
		span("body text that is long enough to be plain prose and not anything like a heading at all", 12, false, 1, 80),
		span("Known Issues", 14, true, 2, 40),
		span("more body text that is long enough to be plain prose and not anything like a heading", 12, false, 2, 80),
	}

	got := NewDefaultBuilder().Build(spans)
	assert.Equal(t, "Release Notes", got.Title)
	if assert.Len(t, got.Outline, 1) {
		assert.Equal(t, types.OutlineEntry{Level: types.LevelH1, Text: "Known Issues", Page: 2}, got.Outline[0])
	}
}
