package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/docsight/internal/layout"
	"github.com/jonathan/docsight/internal/types"
)

func span(text string, size float64, bold bool, page int) types.Span {
	return types.Span{Text: text, FontSize: size, IsBold: bold, Page: page}
}

func body(text string, page int) types.Span {
	return span(text, 10, false, page)
}

func TestSegment_Basic(t *testing.T) {
	spans := []types.Span{
		span("Introduction Overview", 24, true, 1),
		body("This document covers the basics.", 1),
		body("•", 1),
		body("It has more details here.", 1),
		span("Main Results Section", 24, true, 1),
		body("The results are strong.", 1),
	}

	sections := NewSegmenter(DefaultRules()).Segment(spans)
	require.Len(t, sections, 2)

	assert.Equal(t, "Introduction Overview", sections[0].Title)
	assert.Equal(t, types.LevelH1, sections[0].Level)
	assert.Equal(t, 1, sections[0].Page)
	assert.InDelta(t, 1.0, sections[0].Confidence, 1e-9)
	assert.Equal(t, "This document covers the basics. It has more details here.", sections[0].ContentPreview)

	assert.Equal(t, "Main Results Section", sections[1].Title)
	assert.Equal(t, "The results are strong.", sections[1].ContentPreview)
}

func TestSegment_H2Boundary(t *testing.T) {
	spans := []types.Span{
		span("Getting Started", 16, true, 1),
		body("Install the tool.", 1),
		body("Run the command.", 1),
		body("Check the output.", 1),
		body("Repeat as needed.", 1),
	}

	sections := NewSegmenter(DefaultRules()).Segment(spans)
	require.Len(t, sections, 1)
	assert.Equal(t, types.LevelH2, sections[0].Level)
	assert.InDelta(t, 0.9, sections[0].Confidence, 1e-9)
}

func TestSegment_Exclusions(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"bullet", "• Important Item"},
		{"trailing colon", "Requirements:"},
		{"instructional", "You can download it"},
		{"too short", "Intro"},
		{"too long", strings.Repeat("word ", 25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := []types.Span{
				span(tt.text, 24, true, 1),
				body("Some body text follows.", 1),
				body("And more body text.", 1),
			}
			assert.Empty(t, NewSegmenter(DefaultRules()).Segment(spans))
		})
	}
}

func TestSegment_CustomInstructionalMarkers(t *testing.T) {
	rules := DefaultRules()
	rules.InstructionalMarkers = []string{"Click"}
	spans := []types.Span{
		span("You can do this", 24, true, 1),
		span("Click the button", 24, true, 1),
		body("Body text one.", 1),
		body("Body text two.", 1),
		body("Body text three.", 1),
		body("Body text four.", 1),
	}

	sections := NewSegmenter(rules).Segment(spans)
	require.Len(t, sections, 1)
	assert.Equal(t, "You can do this", sections[0].Title)
}

func TestSegment_PreviewCrossesAtMostOnePage(t *testing.T) {
	spans := []types.Span{
		span("Chapter Overview", 24, true, 1),
		body("Body on page one.", 1),
		body("Body on page two.", 2),
		body("Body on page three.", 3),
	}

	sections := NewSegmenter(DefaultRules()).Segment(spans)
	require.Len(t, sections, 1)
	assert.Equal(t, "Body on page one. Body on page two.", sections[0].ContentPreview)
}

func TestSegment_EmptyPreviewStaysEmpty(t *testing.T) {
	spans := []types.Span{
		body("Opening words here.", 1),
		body("More opening words.", 1),
		body("Even more words.", 1),
		span("Closing Remarks", 24, true, 1),
	}

	sections := NewSegmenter(DefaultRules()).Segment(spans)
	require.Len(t, sections, 1)
	assert.Equal(t, "", sections[0].ContentPreview)
}

func TestSegment_PreviewTruncated(t *testing.T) {
	spans := []types.Span{span("Long Section Title", 24, true, 1)}
	for i := 0; i < 15; i++ {
		spans = append(spans, body(strings.Repeat("lorem ipsum ", 6), 1))
	}

	sections := NewSegmenter(DefaultRules()).Segment(spans)
	require.Len(t, sections, 1)
	preview := sections[0].ContentPreview
	assert.LessOrEqual(t, layout.RuneLen(preview), 400)
	assert.True(t, strings.HasSuffix(preview, layout.TruncationMarker))
}

func TestSegment_DeduplicatesTitles(t *testing.T) {
	spans := []types.Span{
		span("Repeated Heading", 24, true, 1),
		body("First body.", 1),
		body("Second body.", 1),
		span("Repeated Heading", 24, true, 2),
		body("Third body.", 2),
		body("Fourth body.", 2),
	}

	sections := NewSegmenter(DefaultRules()).Segment(spans)
	require.Len(t, sections, 1)
	assert.Equal(t, 1, sections[0].Page)
}

func TestSegment_OrdersByPageThenConfidence(t *testing.T) {
	spans := []types.Span{span("Background Notes", 16, true, 1)}
	for i := 0; i < 10; i++ {
		spans = append(spans, body(fmt.Sprintf("Body line %d.", i), 1))
	}
	spans = append(spans, span("Key Findings Here", 30, true, 1))
	for i := 0; i < 10; i++ {
		spans = append(spans, body(fmt.Sprintf("More line %d.", i), 1))
	}

	sections := NewSegmenter(DefaultRules()).Segment(spans)
	require.Len(t, sections, 2)
	assert.Equal(t, "Key Findings Here", sections[0].Title)
	assert.Equal(t, "Background Notes", sections[1].Title)
}

func TestSegment_CapsSections(t *testing.T) {
	var spans []types.Span
	for i := 0; i < 12; i++ {
		page := i/4 + 1
		spans = append(spans,
			span(fmt.Sprintf("Section Number %d", i), 24, true, page),
			body(fmt.Sprintf("Body for section %d.", i), page),
		)
	}

	sections := NewSegmenter(DefaultRules()).Segment(spans)
	assert.Len(t, sections, 10)
}

func TestSegment_IgnoresPagesBeyondLimit(t *testing.T) {
	spans := []types.Span{
		span("Early Section", 24, true, 1),
		body("Early body text.", 1),
		body("More early text.", 1),
		span("Late Section", 24, true, 6),
		body("Late body text.", 6),
	}

	sections := NewSegmenter(DefaultRules()).Segment(spans)
	require.Len(t, sections, 1)
	assert.Equal(t, "Early Section", sections[0].Title)
}

func TestSegment_Idempotent(t *testing.T) {
	spans := []types.Span{
		span("Introduction Overview", 24, true, 1),
		body("This document covers the basics.", 1),
		span("Main Results Section", 24, true, 2),
		body("The results are strong.", 2),
	}
	seg := NewSegmenter(DefaultRules())
	assert.Equal(t, seg.Segment(spans), seg.Segment(spans))
}

func TestSegment_Empty(t *testing.T) {
	sections := NewSegmenter(DefaultRules()).Segment(nil)
	assert.NotNil(t, sections)
	assert.Empty(t, sections)
}
