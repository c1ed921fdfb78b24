package ranking

import (
	"regexp"
	"strings"

	"github.com/jonathan/docsight/internal/types"
)

// Weights for the total score
const (
	nlpWeight          = 0.40
	domainWeight       = 0.25
	jobRelevanceWeight = 0.20
	positionWeight     = 0.10
	lengthWeight       = 0.05
)

// Boosts and ranges for the heuristic factors
const (
	highImportanceBoost   = 0.3
	mediumImportanceBoost = 0.15
	jobKeywordBoost       = 0.3
	titleOverlapWeight    = 0.8
	contentOverlapWeight  = 0.4
	minPositionScore      = 0.5
	positionDecay         = 0.5
	minOptimalLength      = 50
	maxOptimalLength      = 500
	personaTriggerCount   = 3
)

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// importanceTier returns the first tier whose keywords appear in the lowercase title.
func (r *Ranker) importanceTier(title string) types.ImportanceTier {
	switch {
	case containsAny(title, r.lexicon.Importance.High):
		return types.ImportanceHigh
	case containsAny(title, r.lexicon.Importance.Medium):
		return types.ImportanceMedium
	case containsAny(title, r.lexicon.Importance.Low):
		return types.ImportanceLow
	}
	return types.ImportanceNone
}

// computeDomainScore takes the best keyword coverage across domains triggered by the persona,
// then adds the section-type boost.
func (r *Ranker) computeDomainScore(title, content, persona string, tier types.ImportanceTier) float64 {
	score := 0.0
	for _, domain := range r.lexicon.Domains {
		if len(domain.Keywords) == 0 || !personaTriggers(persona, domain) {
			continue
		}
		matches := 0
		for _, kw := range domain.Keywords {
			if strings.Contains(title, kw) || strings.Contains(content, kw) {
				matches++
			}
		}
		score = max(score, float64(matches)/float64(len(domain.Keywords)))
	}

	switch tier {
	case types.ImportanceHigh:
		score += highImportanceBoost
	case types.ImportanceMedium:
		score += mediumImportanceBoost
	}
	return clamp(score)
}

func personaTriggers(persona string, domain Domain) bool {
	if strings.Contains(persona, strings.ToLower(domain.Name)) {
		return true
	}
	n := min(personaTriggerCount, len(domain.Keywords))
	return containsAny(persona, domain.Keywords[:n])
}

// computeJobRelevanceScore measures token overlap with the job description and adds a boost
// when a job keyword group mentioned in the job also shows up in the section.
func (r *Ranker) computeJobRelevanceScore(title, content, job string) float64 {
	jobWords := wordSet(job)
	denominator := float64(max(len(jobWords), 1))

	titleOverlap := float64(overlap(jobWords, wordSet(title))) / denominator
	contentOverlap := float64(overlap(jobWords, wordSet(content))) / denominator
	score := max(titleOverlap*titleOverlapWeight, contentOverlap*contentOverlapWeight)

	for _, group := range r.lexicon.JobGroups {
		if !containsAny(job, group.Synonyms) {
			continue
		}
		if containsAny(title, group.Synonyms) || containsAny(content, group.Synonyms) {
			score += jobKeywordBoost
			break
		}
	}
	return clamp(score)
}

// computePositionScore favors earlier sections, decaying linearly to a floor.
func computePositionScore(index, total int) float64 {
	if total <= 1 {
		return 1.0
	}
	normalized := float64(index) / float64(total-1)
	return max(1.0-normalized*positionDecay, minPositionScore)
}

// computeLengthScore favors moderate title plus preview lengths.
func computeLengthScore(section types.DocumentSection) float64 {
	length := len([]rune(section.Title)) + len([]rune(section.ContentPreview))
	switch {
	case length < minOptimalLength:
		return float64(length) / minOptimalLength
	case length <= maxOptimalLength:
		return 1.0
	default:
		return max(0.5, float64(maxOptimalLength)/float64(length))
	}
}

func wordSet(text string) map[string]struct{} {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
