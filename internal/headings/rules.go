// Package headings scores text spans as heading candidates and refines them into a well-formed hierarchy.
package headings

import (
	"regexp"

	"github.com/jonathan/docsight/internal/types"
)

// NumberingRule maps a section numbering scheme to a heading level.
type NumberingRule struct {
	Pattern *regexp.Regexp
	Level   types.HeadingLevel
}

// Rules holds the pattern and keyword tables used by the Scorer.
// Rules are treated as immutable once passed to NewScorer.
type Rules struct {
	// Patterns are tried in order; the first match earns the pattern boost.
	Patterns []*regexp.Regexp
	// Keywords are lowercase words that mark common section headings.
	Keywords map[string]struct{}
	// Numbering rules are checked in order; the first match overrides the font-based level.
	Numbering []NumberingRule
}

// DefaultRules returns the standard heading tables.
func DefaultRules() Rules {
	keywords := []string{
		"introduction", "conclusion", "abstract", "summary", "overview",
		"background", "methodology", "results", "discussion", "references",
		"appendix", "acknowledgments", "bibliography", "contents", "index",
	}

	kw := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		kw[k] = struct{}{}
	}

	return Rules{
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^(chapter|section|part)\s+\d+`),
			regexp.MustCompile(`^\d+\.\s+`),
			regexp.MustCompile(`^\d+\.\d+\.?\s+`),
			regexp.MustCompile(`^\d+\.\d+\.\d+\.?\s+`),
			regexp.MustCompile(`^[A-Z][A-Z\s]{2,}$`),
			regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+)*$`),
		},
		Keywords: kw,
		Numbering: []NumberingRule{
			{Pattern: regexp.MustCompile(`^\d+\.\d+\.\d+\.?\s+`), Level: types.LevelH3},
			{Pattern: regexp.MustCompile(`^\d+\.\d+\.?\s+`), Level: types.LevelH2},
			{Pattern: regexp.MustCompile(`^\d+\.\s+`), Level: types.LevelH1},
		},
	}
}
