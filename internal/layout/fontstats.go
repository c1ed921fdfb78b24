// Package layout provides document-wide font statistics and text cleanup helpers
// shared by the heading, title and section detectors.
package layout

import (
	"github.com/jonathan/docsight/internal/types"
)

// FontStats aggregates span font sizes across a document.
type FontStats struct {
	Avg float64
	Max float64
	Min float64
}

// ComputeFontStats returns the average, maximum and minimum font size over spans.
// An empty input yields the zero value.
func ComputeFontStats(spans []types.Span) FontStats {
	if len(spans) == 0 {
		return FontStats{}
	}

	stats := FontStats{Max: spans[0].FontSize, Min: spans[0].FontSize}
	total := 0.0
	for _, s := range spans {
		total += s.FontSize
		stats.Max = max(stats.Max, s.FontSize)
		stats.Min = min(stats.Min, s.FontSize)
	}
	stats.Avg = total / float64(len(spans))
	return stats
}

// Ratio returns size relative to the average, or 0 when the average is unknown.
func (f FontStats) Ratio(size float64) float64 {
	if f.Avg <= 0 {
		return 0
	}
	return size / f.Avg
}
