// Package segment detects section boundaries in a document and extracts a preview of each section's text.
package segment

import (
	"sort"
	"strings"

	"github.com/jonathan/docsight/internal/layout"
	"github.com/jonathan/docsight/internal/types"
)

// Rules configures boundary detection and preview extraction.
type Rules struct {
	// InstructionalMarkers are prefixes of spans that read as instructions rather than headings.
	InstructionalMarkers []string
	// MaxPages limits segmentation to the first pages of a document.
	MaxPages int
	// Lookahead is the number of spans scanned after a boundary for preview text.
	Lookahead int
	// PreviewLimit caps the preview length in characters, truncation marker included.
	PreviewLimit int
	// MaxSections caps the sections returned per document.
	MaxSections int
	// MinFragment is the shortest fragment kept in a preview.
	MinFragment int
}

// DefaultRules returns the standard segmentation settings.
func DefaultRules() Rules {
	return Rules{
		InstructionalMarkers: []string{"You can"},
		MaxPages:             5,
		Lookahead:            20,
		PreviewLimit:         400,
		MaxSections:          10,
		MinFragment:          3,
	}
}

// Segmenter is stateless; Segment may be called concurrently.
type Segmenter struct {
	rules Rules
}

// NewSegmenter creates a Segmenter using the given rules.
func NewSegmenter(rules Rules) *Segmenter {
	return &Segmenter{rules: rules}
}

// Rules returns the segmenter's settings.
func (s *Segmenter) Rules() Rules {
	return s.rules
}

// Segment returns the detected sections ordered by page and descending confidence.
// The Document field of each section is left empty for the caller to fill.
func (s *Segmenter) Segment(spans []types.Span) []types.DocumentSection {
	spans = s.limitPages(spans)
	if len(spans) == 0 {
		return []types.DocumentSection{}
	}

	stats := layout.ComputeFontStats(spans)
	seen := make(map[string]struct{})
	sections := []types.DocumentSection{}

	for i, span := range spans {
		if !s.isBoundary(span, stats) {
			continue
		}
		title := layout.CollapseWhitespace(span.Text)
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}

		level := types.LevelH2
		confidence := 0.8
		if span.FontSize > stats.Avg*1.5 {
			level = types.LevelH1
			confidence = 0.9
		}
		if span.IsBold {
			confidence += 0.1
		}

		sections = append(sections, types.DocumentSection{
			Title:          title,
			Level:          level,
			Page:           span.Page,
			Confidence:     min(confidence, 1.0),
			ContentPreview: s.preview(spans, i, stats),
		})
	}

	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].Page != sections[j].Page {
			return sections[i].Page < sections[j].Page
		}
		return sections[i].Confidence > sections[j].Confidence
	})

	if s.rules.MaxSections > 0 && len(sections) > s.rules.MaxSections {
		sections = sections[:s.rules.MaxSections]
	}
	return sections
}

func (s *Segmenter) limitPages(spans []types.Span) []types.Span {
	if s.rules.MaxPages <= 0 {
		return spans
	}
	limited := make([]types.Span, 0, len(spans))
	for _, sp := range spans {
		if sp.Page <= s.rules.MaxPages {
			limited = append(limited, sp)
		}
	}
	return limited
}

// looksLikeBoundary applies the font and length conditions of a section heading.
func looksLikeBoundary(span types.Span, stats layout.FontStats) bool {
	size := span.FontSize
	text := strings.TrimSpace(span.Text)
	length := layout.RuneLen(text)

	prominent := (size > stats.Avg*1.5 && span.IsBold) ||
		size > stats.Avg*2.0 ||
		(span.IsBold && size > stats.Avg*1.3 && length < 50)

	return prominent && length > 5 && length < 100
}

// isBoundary adds the lexical exclusions to looksLikeBoundary.
func (s *Segmenter) isBoundary(span types.Span, stats layout.FontStats) bool {
	if !looksLikeBoundary(span, stats) {
		return false
	}
	text := strings.TrimSpace(span.Text)
	if layout.StartsWithBullet(text) || strings.HasSuffix(text, ":") {
		return false
	}
	for _, marker := range s.rules.InstructionalMarkers {
		if strings.HasPrefix(text, marker) {
			return false
		}
	}
	return true
}

// preview collects the text following the boundary at index. It stops at the next
// boundary-like span or once the scan moves more than one page past the heading.
// An empty result means no content survived; no placeholder is substituted.
func (s *Segmenter) preview(spans []types.Span, index int, stats layout.FontStats) string {
	heading := spans[index]
	end := min(len(spans), index+1+s.rules.Lookahead)

	var parts []string
	for j := index + 1; j < end; j++ {
		next := spans[j]
		if next.Page > heading.Page+1 {
			break
		}
		if looksLikeBoundary(next, stats) {
			break
		}
		text := strings.TrimSpace(next.Text)
		if layout.RuneLen(text) < s.rules.MinFragment || layout.IsBulletGlyph(text) {
			continue
		}
		parts = append(parts, text)
	}

	return layout.Truncate(layout.CollapseWhitespace(strings.Join(parts, " ")), s.rules.PreviewLimit)
}
