package analysis

import (
	"math"
	"time"

	"github.com/jonathan/docsight/internal/types"
)

const summarySize = 3

type outputStats struct {
	timestamp     time.Time
	elapsed       time.Duration
	encoder       string
	errors        []types.DocumentError
	processed     int
	failed        int
	topSections   int
	topSubsection int
}

// buildOutput formats ranked sections into the analysis output document.
// Empty views are empty lists, never null.
func buildOutput(req *types.AnalysisRequest, ranked []types.RankedSection, stats outputStats) *types.AnalysisOutput {
	names := make([]string, len(req.Documents))
	for i, d := range req.Documents {
		names[i] = d.Name
	}

	top := head(ranked, stats.topSections)
	extracted := make([]types.ExtractedSection, 0, len(top))
	for i, r := range top {
		extracted = append(extracted, types.ExtractedSection{
			Document:       r.Section.Document,
			SectionTitle:   r.Section.Title,
			ImportanceRank: i + 1,
			PageNumber:     r.Section.Page,
		})
	}

	subsections := make([]types.SubsectionAnalysis, 0)
	for _, r := range head(ranked, stats.topSubsection) {
		subsections = append(subsections, types.SubsectionAnalysis{
			Document:    r.Section.Document,
			RefinedText: r.Section.ContentPreview,
			PageNumber:  r.Section.Page,
		})
	}

	summary := &types.AnalysisSummary{
		TopSections:        make([]types.SummaryEntry, 0, summarySize),
		DocumentsProcessed: stats.processed,
		DocumentsFailed:    stats.failed,
	}
	for _, r := range head(ranked, summarySize) {
		summary.TopSections = append(summary.TopSections, types.SummaryEntry{
			Document:     r.Section.Document,
			SectionTitle: r.Section.Title,
			Score:        roundTo(r.TotalScore, 3),
			Explanation:  r.Explanation,
		})
	}

	return &types.AnalysisOutput{
		Metadata: types.AnalysisMetadata{
			InputDocuments:        names,
			Persona:               req.Persona,
			JobToBeDone:           req.JobToBeDone,
			ProcessingTimestamp:   stats.timestamp.Format(types.TimestampLayout),
			ProcessingTimeSeconds: roundTo(stats.elapsed.Seconds(), 3),
			Encoder:               stats.encoder,
			TotalSections:         len(ranked),
			Errors:                stats.errors,
		},
		ExtractedSections:  extracted,
		SubsectionAnalysis: subsections,
		AnalysisSummary:    summary,
	}
}

// head returns the first n entries; n <= 0 keeps everything.
func head(ranked []types.RankedSection, n int) []types.RankedSection {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
