package headings

import (
	"math"
	"strings"
	"unicode"

	"github.com/jonathan/docsight/internal/layout"
	"github.com/jonathan/docsight/internal/types"
)

// Confidence boosts. The total is capped at 1.0.
const (
	largeFontBoost     = 0.3
	veryLargeFontBoost = 0.2
	boldBoost          = 0.25
	leftMarginBoost    = 0.1
	shortTextBoost     = 0.1
	veryShortTextBoost = 0.1
	patternBoost       = 0.3
	keywordBoost       = 0.2
	standaloneBoost    = 0.15
	casePatternBoost   = 0.15

	// CandidateThreshold is the confidence a span must exceed to become a heading candidate.
	CandidateThreshold = 0.5

	leftMarginLimit = 100.0
)

// Scorer assigns heading confidence and level to spans. It holds no mutable state.
type Scorer struct {
	rules Rules
}

// NewScorer creates a Scorer using the given rules.
func NewScorer(rules Rules) *Scorer {
	return &Scorer{rules: rules}
}

// Score returns the confidence in [0,1] that spans[index] is a heading.
func (s *Scorer) Score(spans []types.Span, index int, stats layout.FontStats) float64 {
	span := spans[index]
	text := strings.TrimSpace(span.Text)
	confidence := 0.0

	if span.FontSize > stats.Avg*1.2 {
		confidence += largeFontBoost
	}
	if span.FontSize > stats.Avg*1.5 {
		confidence += veryLargeFontBoost
	}

	if span.IsBold {
		confidence += boldBoost
	}

	if span.XPos() < leftMarginLimit {
		confidence += leftMarginBoost
	}

	length := layout.RuneLen(text)
	if length < 100 {
		confidence += shortTextBoost
	}
	if length < 50 {
		confidence += veryShortTextBoost
	}

	for _, p := range s.rules.Patterns {
		if p.MatchString(text) {
			confidence += patternBoost
			break
		}
	}

	if s.hasKeyword(text) {
		confidence += keywordBoost
	}

	if isStandalone(spans, index) {
		confidence += standaloneBoost
	}

	if hasHeadingCase(text) {
		confidence += casePatternBoost
	}

	return math.Min(confidence, 1.0)
}

// Level assigns a heading level. Section numbering wins over font size.
func (s *Scorer) Level(span types.Span, stats layout.FontStats) types.HeadingLevel {
	text := strings.TrimSpace(span.Text)
	for _, rule := range s.rules.Numbering {
		if rule.Pattern.MatchString(text) {
			return rule.Level
		}
	}

	switch {
	case span.FontSize >= stats.Avg*1.8 || span.FontSize >= stats.Max*0.9:
		return types.LevelH1
	case span.FontSize >= stats.Avg*1.4:
		return types.LevelH2
	default:
		return types.LevelH3
	}
}

// Detect scores every span and returns those above CandidateThreshold in input order.
func (s *Scorer) Detect(spans []types.Span) []types.HeadingCandidate {
	if len(spans) == 0 {
		return nil
	}

	stats := layout.ComputeFontStats(spans)
	var candidates []types.HeadingCandidate
	for i := range spans {
		confidence := s.Score(spans, i, stats)
		if confidence <= CandidateThreshold {
			continue
		}
		candidates = append(candidates, types.HeadingCandidate{
			Span:       spans[i],
			Level:      s.Level(spans[i], stats),
			Confidence: confidence,
		})
	}
	return candidates
}

func (s *Scorer) hasKeyword(text string) bool {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if _, ok := s.rules.Keywords[word]; ok {
			return true
		}
	}
	return false
}

// isStandalone reports whether no neighbour on the same page sits within half a line of the span.
func isStandalone(spans []types.Span, index int) bool {
	span := spans[index]
	threshold := span.FontSize * 0.5

	if index > 0 {
		prev := spans[index-1]
		if prev.Page == span.Page && math.Abs(span.YPos()-prev.YPos()) < threshold {
			return false
		}
	}
	if index < len(spans)-1 {
		next := spans[index+1]
		if next.Page == span.Page && math.Abs(next.YPos()-span.YPos()) < threshold {
			return false
		}
	}
	return true
}

// hasHeadingCase reports Title Case (words longer than three letters capitalised) or ALL CAPS text.
func hasHeadingCase(text string) bool {
	words := strings.Fields(text)
	if len(words) > 1 {
		titleCase := true
		for _, w := range words {
			if layout.RuneLen(w) <= 3 {
				continue
			}
			first := []rune(w)[0]
			if unicode.IsLetter(first) && !unicode.IsUpper(first) {
				titleCase = false
				break
			}
		}
		if titleCase {
			return true
		}
	}

	return isAllCaps(text) && layout.RuneLen(text) > 3
}

func isAllCaps(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
