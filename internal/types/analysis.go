package types

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TimestampLayout is the layout of metadata.processing_timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// DocumentRef names one input document of an analysis request.
type DocumentRef struct {
	Name string `json:"name" validate:"required"`
	Path string `json:"path" validate:"required"`
}

// AnalysisRequest is the persona-mode input.
type AnalysisRequest struct {
	Persona     string        `json:"persona" validate:"required"`
	JobToBeDone string        `json:"job_to_be_done" validate:"required"`
	Documents   []DocumentRef `json:"documents" validate:"required,min=1,dive"`
}

// Validate checks the structural constraints of the request.
// The upper bound on the document count is configurable and enforced by the caller.
// Field names in validation errors use the JSON names.
func (r *AnalysisRequest) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate.Struct(r)
}

// ChallengeDocument is a document entry in the challenge input shape.
type ChallengeDocument struct {
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

// ChallengeInput is the alternative input shape with nested persona and task objects.
type ChallengeInput struct {
	ChallengeInfo map[string]any      `json:"challenge_info,omitempty"`
	Documents     []ChallengeDocument `json:"documents"`
	Persona       struct {
		Role string `json:"role"`
	} `json:"persona"`
	JobToBeDone struct {
		Task string `json:"task"`
	} `json:"job_to_be_done"`
}

// ToRequest converts the challenge shape into an AnalysisRequest, resolving file names under baseDir.
func (c *ChallengeInput) ToRequest(baseDir string) *AnalysisRequest {
	req := &AnalysisRequest{
		Persona:     c.Persona.Role,
		JobToBeDone: c.JobToBeDone.Task,
		Documents:   make([]DocumentRef, 0, len(c.Documents)),
	}
	for _, doc := range c.Documents {
		req.Documents = append(req.Documents, DocumentRef{
			Name: doc.Filename,
			Path: filepath.Join(baseDir, doc.Filename),
		})
	}
	return req
}

// ExtractedSection is one entry of the ranked section view.
type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

// SubsectionAnalysis is one entry of the deeper sub-section view.
type SubsectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// DocumentError records a per-document failure that did not abort the request.
type DocumentError struct {
	Document string `json:"document"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// AnalysisMetadata describes the request and how it was processed.
type AnalysisMetadata struct {
	InputDocuments        []string        `json:"input_documents"`
	Persona               string          `json:"persona"`
	JobToBeDone           string          `json:"job_to_be_done"`
	ProcessingTimestamp   string          `json:"processing_timestamp"`
	ProcessingTimeSeconds float64         `json:"processing_time_seconds,omitempty"`
	Encoder               string          `json:"encoder,omitempty"`
	TotalSections         int             `json:"total_sections"`
	Errors                []DocumentError `json:"errors,omitempty"`
}

// SummaryEntry is a short description of one of the best-ranked sections.
type SummaryEntry struct {
	Document     string  `json:"document"`
	SectionTitle string  `json:"section_title"`
	Score        float64 `json:"score"`
	Explanation  string  `json:"explanation"`
}

// AnalysisSummary condenses the outcome of a request.
type AnalysisSummary struct {
	TopSections        []SummaryEntry `json:"top_sections"`
	DocumentsProcessed int            `json:"documents_processed"`
	DocumentsFailed    int            `json:"documents_failed"`
}

// AnalysisOutput is the persona-mode output.
type AnalysisOutput struct {
	Metadata           AnalysisMetadata     `json:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis"`
	AnalysisSummary    *AnalysisSummary     `json:"analysis_summary,omitempty"`
}
