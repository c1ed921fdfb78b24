// Package ranking orders document sections by relevance to a persona and a job description.
package ranking

import (
	"sort"
	"strings"

	"github.com/jonathan/docsight/internal/types"
)

// Ranker combines a semantic similarity score with keyword heuristics.
// It holds no mutable state, so one Ranker can serve concurrent requests.
type Ranker struct {
	lexicon Lexicon
}

// NewRanker creates a Ranker over the given keyword tables.
func NewRanker(lexicon Lexicon) *Ranker {
	return &Ranker{lexicon: lexicon}
}

// NewDefaultRanker creates a Ranker over DefaultLexicon.
func NewDefaultRanker() *Ranker {
	return NewRanker(DefaultLexicon())
}

// Rank scores every section and returns them sorted by total score, highest first.
// nlpScores is parallel to sections; missing entries count as zero and values are clamped to [0,1].
// Sections with equal totals keep their input order.
func (r *Ranker) Rank(sections []types.DocumentSection, persona, job string, nlpScores []float64) []types.RankedSection {
	ranked := make([]types.RankedSection, 0, len(sections))
	for i, section := range sections {
		nlp := 0.0
		if i < len(nlpScores) {
			nlp = nlpScores[i]
		}
		factors := r.ComputeFactors(section, persona, job, nlp, i, len(sections))
		ranked = append(ranked, types.RankedSection{
			Section:     section,
			TotalScore:  factors.TotalScore,
			Explanation: Explain(factors),
			Factors:     factors,
		})
	}

	sortByScore(ranked)
	return ranked
}

// sortByScore orders by descending total score, keeping input order on ties.
func sortByScore(ranked []types.RankedSection) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})
}

// ComputeFactors scores one section at position index of total.
func (r *Ranker) ComputeFactors(section types.DocumentSection, persona, job string, nlpScore float64, index, total int) types.RankingFactors {
	title := strings.ToLower(section.Title)
	content := strings.ToLower(section.ContentPreview)
	tier := r.importanceTier(title)

	factors := types.RankingFactors{
		NLPScore:          clamp(nlpScore),
		DomainScore:       r.computeDomainScore(title, content, strings.ToLower(persona), tier),
		JobRelevanceScore: r.computeJobRelevanceScore(title, content, strings.ToLower(job)),
		PositionScore:     computePositionScore(index, total),
		LengthScore:       computeLengthScore(section),
		Importance:        tier,
	}

	factors.TotalScore = clamp(nlpWeight*factors.NLPScore +
		domainWeight*factors.DomainScore +
		jobRelevanceWeight*factors.JobRelevanceScore +
		positionWeight*factors.PositionScore +
		lengthWeight*factors.LengthScore)
	return factors
}
