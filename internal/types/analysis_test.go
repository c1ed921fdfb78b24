package types

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *AnalysisRequest {
	return &AnalysisRequest{
		Persona:     "Travel Planner",
		JobToBeDone: "Plan a trip of 4 days for a group of 10 college friends.",
		Documents: []DocumentRef{
			{Name: "cities.pdf", Path: "input/cities.pdf"},
		},
	}
}

func TestAnalysisRequest_Validate_Valid(t *testing.T) {
	assert.NoError(t, validRequest().Validate())
}

func TestAnalysisRequest_Validate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *AnalysisRequest)
	}{
		{"missing persona", func(r *AnalysisRequest) { r.Persona = "" }},
		{"missing job", func(r *AnalysisRequest) { r.JobToBeDone = "" }},
		{"no documents", func(r *AnalysisRequest) { r.Documents = nil }},
		{"empty documents", func(r *AnalysisRequest) { r.Documents = []DocumentRef{} }},
		{"document without path", func(r *AnalysisRequest) { r.Documents[0].Path = "" }},
		{"document without name", func(r *AnalysisRequest) { r.Documents[0].Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			assert.Error(t, req.Validate())
		})
	}
}

func TestChallengeInput_ToRequest(t *testing.T) {
	input := `{
		"challenge_info": {"challenge_id": "round_1b_002"},
		"documents": [
			{"filename": "South of France - Cities.pdf", "title": "Cities"},
			{"filename": "South of France - Cuisine.pdf", "title": "Cuisine"}
		],
		"persona": {"role": "Travel Planner"},
		"job_to_be_done": {"task": "Plan a trip of 4 days for a group of 10 college friends."}
	}`

	var challenge ChallengeInput
	require.NoError(t, json.Unmarshal([]byte(input), &challenge))

	req := challenge.ToRequest("input")
	assert.Equal(t, "Travel Planner", req.Persona)
	assert.Equal(t, "Plan a trip of 4 days for a group of 10 college friends.", req.JobToBeDone)
	require.Len(t, req.Documents, 2)
	assert.Equal(t, "South of France - Cities.pdf", req.Documents[0].Name)
	assert.Equal(t, filepath.Join("input", "South of France - Cities.pdf"), req.Documents[0].Path)
	assert.NoError(t, req.Validate())
}

func TestAnalysisOutput_RoundTrip(t *testing.T) {
	original := AnalysisOutput{
		Metadata: AnalysisMetadata{
			InputDocuments:      []string{"a.pdf", "b.pdf"},
			Persona:             "Researcher",
			JobToBeDone:         "Review methods",
			ProcessingTimestamp: "2025-01-02T03:04:05.000000",
			Encoder:             "lexical-tfidf",
			TotalSections:       2,
			Errors: []DocumentError{
				{Document: "b.pdf", Category: "extraction", Message: "corrupt"},
			},
		},
		ExtractedSections: []ExtractedSection{
			{Document: "a.pdf", SectionTitle: "Methodology", ImportanceRank: 1, PageNumber: 2},
			{Document: "b.pdf", SectionTitle: "Error processing b.pdf", ImportanceRank: 2, PageNumber: 1},
		},
		SubsectionAnalysis: []SubsectionAnalysis{
			{Document: "a.pdf", RefinedText: "We sampled 40 sites.", PageNumber: 2},
		},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var parsed AnalysisOutput
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, original, parsed)
}

func TestAnalysisOutput_EmptyListsSerializeAsArrays(t *testing.T) {
	out := AnalysisOutput{
		ExtractedSections:  []ExtractedSection{},
		SubsectionAnalysis: []SubsectionAnalysis{},
	}

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"extracted_sections":[]`)
	assert.Contains(t, string(data), `"subsection_analysis":[]`)
	assert.NotContains(t, string(data), "analysis_summary")
}
