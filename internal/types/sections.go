package types

// DocumentSection is one detected section of a document with a preview of the text that follows it.
type DocumentSection struct {
	Document       string       `json:"document"`
	Title          string       `json:"title"`
	Level          HeadingLevel `json:"level"`
	Page           int          `json:"page"`
	Confidence     float64      `json:"confidence"`
	ContentPreview string       `json:"content_preview"`
	// Failed marks the degenerate section emitted for a document that could not be processed.
	Failed bool `json:"failed,omitempty"`
}

// ImportanceTier classifies a section title by its section type.
type ImportanceTier string

// Importance tiers derived from the section title.
const (
	ImportanceHigh   ImportanceTier = "high"
	ImportanceMedium ImportanceTier = "medium"
	ImportanceLow    ImportanceTier = "low"
	ImportanceNone   ImportanceTier = ""
)

// RankingFactors holds the per-section scores that feed the weighted total.
type RankingFactors struct {
	NLPScore          float64        `json:"nlp_score"`
	DomainScore       float64        `json:"domain_score"`
	JobRelevanceScore float64        `json:"job_relevance_score"`
	PositionScore     float64        `json:"position_score"`
	LengthScore       float64        `json:"length_score"`
	TotalScore        float64        `json:"total_score"`
	Importance        ImportanceTier `json:"importance,omitempty"`
}

// RankedSection pairs a section with its score and a deterministic explanation.
type RankedSection struct {
	Section     DocumentSection `json:"section"`
	TotalScore  float64         `json:"total_score"`
	Explanation string          `json:"explanation"`
	Factors     RankingFactors  `json:"factors"`
}
