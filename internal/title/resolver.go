// Package title resolves a document title from its text spans using a prioritized strategy chain.
package title

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/jonathan/docsight/internal/layout"
	"github.com/jonathan/docsight/internal/types"
)

// Untitled is returned when no strategy yields a title.
const Untitled = "Untitled Document"

const (
	fontGroupTolerance = 0.1
	maxTitleTop        = 400.0
	maxMergedSpans     = 3
	patternScanLimit   = 20
	fallbackScanLimit  = 10
)

// Rules holds the lexical tables used by the Resolver.
type Rules struct {
	TitleKeywords  map[string]struct{}
	NonTitleWords  map[string]struct{}
	ExcludePattern *regexp.Regexp
	PrefixPattern  *regexp.Regexp
	SuffixPattern  *regexp.Regexp
	NumericPattern *regexp.Regexp
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// DefaultRules returns the standard title tables.
func DefaultRules() Rules {
	return Rules{
		TitleKeywords: wordSet(
			"title", "report", "paper", "study", "analysis", "research",
			"guide", "manual", "handbook", "documentation", "specification",
		),
		NonTitleWords: wordSet(
			"page", "chapter", "section", "figure", "table", "appendix",
			"contents", "index", "bibliography", "references", "abstract",
			"introduction", "conclusion", "summary", "acknowledgments",
		),
		ExcludePattern: regexp.MustCompile(`(?i)^(page|chapter|section)\s+\d+`),
		PrefixPattern:  regexp.MustCompile(`(?i)^(title:\s*|subject:\s*)`),
		SuffixPattern:  regexp.MustCompile(`(?i)\s*(\.pdf|\.doc|\.docx)$`),
		NumericPattern: regexp.MustCompile(`^\d+$`),
	}
}

// Resolver picks a document title. It never fails.
type Resolver struct {
	rules Rules
}

// NewResolver creates a Resolver using the given rules.
func NewResolver(rules Rules) *Resolver {
	return &Resolver{rules: rules}
}

// Resolve returns the document title, or Untitled when nothing qualifies.
func (r *Resolver) Resolve(spans []types.Span) string {
	if len(spans) == 0 {
		return Untitled
	}

	strategies := []func([]types.Span) string{
		r.fromFirstPage,
		r.fromPatterns,
		r.fromFirstSubstantial,
	}
	for _, strategy := range strategies {
		if t := strategy(spans); t != "" {
			return t
		}
	}
	return Untitled
}

// fromFirstPage merges the top spans set in the largest font on page one.
func (r *Resolver) fromFirstPage(spans []types.Span) string {
	var firstPage []types.Span
	for _, s := range spans {
		if s.Page == 1 {
			firstPage = append(firstPage, s)
		}
	}
	if len(firstPage) == 0 {
		return ""
	}

	maxSize := firstPage[0].FontSize
	for _, s := range firstPage {
		maxSize = math.Max(maxSize, s.FontSize)
	}

	var largest, titleLike []types.Span
	for _, s := range firstPage {
		if math.Abs(s.FontSize-maxSize) < fontGroupTolerance {
			largest = append(largest, s)
			if r.isTitleLike(s) {
				titleLike = append(titleLike, s)
			}
		}
	}
	if len(titleLike) == 0 {
		titleLike = largest
	}

	sort.SliceStable(titleLike, func(i, j int) bool {
		if titleLike[i].YPos() != titleLike[j].YPos() {
			return titleLike[i].YPos() < titleLike[j].YPos()
		}
		return titleLike[i].XPos() < titleLike[j].XPos()
	})
	if len(titleLike) > maxMergedSpans {
		titleLike = titleLike[:maxMergedSpans]
	}

	return r.merge(titleLike)
}

// merge joins spans, adding a space only between spans on the same visual line.
func (r *Resolver) merge(spans []types.Span) string {
	var sb strings.Builder
	for i, s := range spans {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if i > 0 && math.Abs(s.YPos()-spans[i-1].YPos()) < s.FontSize*0.5 {
			sb.WriteString(" ")
		}
		sb.WriteString(text)
	}
	return r.Clean(sb.String())
}

func (r *Resolver) isTitleLike(s types.Span) bool {
	text := strings.TrimSpace(s.Text)
	length := layout.RuneLen(text)
	if length < 5 || length > 200 {
		return false
	}
	if s.YPos() > maxTitleTop {
		return false
	}
	if r.hasAny(text, r.rules.NonTitleWords) {
		return false
	}
	return !r.rules.ExcludePattern.MatchString(text)
}

// fromPatterns returns the first early span that reads like a title.
func (r *Resolver) fromPatterns(spans []types.Span) string {
	for _, s := range spans[:min(len(spans), patternScanLimit)] {
		text := strings.TrimSpace(s.Text)
		length := layout.RuneLen(text)
		if length < 5 || length > 200 {
			continue
		}
		if r.hasAny(text, r.rules.TitleKeywords) || isTitleCase(text) || (isUpper(text) && length <= 100) {
			if cleaned := r.Clean(text); cleaned != "" {
				return cleaned
			}
		}
	}
	return ""
}

// fromFirstSubstantial returns the first early span of moderate length without non-title words.
func (r *Resolver) fromFirstSubstantial(spans []types.Span) string {
	for _, s := range spans[:min(len(spans), fallbackScanLimit)] {
		text := strings.TrimSpace(s.Text)
		length := layout.RuneLen(text)
		if length < 10 || length > 150 {
			continue
		}
		if r.hasAny(text, r.rules.NonTitleWords) || r.rules.NumericPattern.MatchString(text) {
			continue
		}
		if cleaned := r.Clean(text); cleaned != "" {
			return cleaned
		}
	}
	return ""
}

// Clean collapses whitespace, strips label prefixes and file extensions, and capitalizes a leading letter.
func (r *Resolver) Clean(title string) string {
	title = layout.CollapseWhitespace(title)
	title = r.rules.PrefixPattern.ReplaceAllString(title, "")
	title = r.rules.SuffixPattern.ReplaceAllString(title, "")

	runes := []rune(title)
	if len(runes) > 0 && unicode.IsLower(runes[0]) {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return strings.TrimSpace(string(runes))
}

func (r *Resolver) hasAny(text string, set map[string]struct{}) bool {
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

// isTitleCase reports whether at least 70% of two or more words start with a capital.
func isTitleCase(text string) bool {
	words := strings.Fields(text)
	if len(words) < 2 {
		return false
	}
	capitalized := 0
	for _, w := range words {
		if unicode.IsUpper([]rune(w)[0]) {
			capitalized++
		}
	}
	return float64(capitalized) >= float64(len(words))*0.7
}

func isUpper(text string) bool {
	hasUpper := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}
