package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalschemas "github.com/jonathan/docsight/internal/schemas"
	"github.com/jonathan/docsight/internal/types"
	"github.com/jonathan/docsight/schemas"
)

func TestIsChallengeShape(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"challenge", `{"persona":{"role":"Chef"}}`, true},
		{"standard", `{"persona":"Chef"}`, false},
		{"no persona", `{"documents":[]}`, false},
		{"invalid json", `{`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isChallengeShape([]byte(tt.data)))
		})
	}
}

func TestLoadRequest_Standard(t *testing.T) {
	path := writeFile(t, t.TempDir(), "request.json",
		`{"persona":"Researcher","job_to_be_done":"Review methods","documents":[{"name":"a.pdf","path":"/data/a.pdf"}]}`)

	req, err := loadRequest(path, false, "input")
	require.NoError(t, err)
	assert.Equal(t, "Researcher", req.Persona)
	assert.Equal(t, "Review methods", req.JobToBeDone)
	assert.Equal(t, []types.DocumentRef{{Name: "a.pdf", Path: "/data/a.pdf"}}, req.Documents)
}

func TestLoadRequest_ChallengeDetected(t *testing.T) {
	path := writeFile(t, t.TempDir(), "challenge.json", `{
		"challenge_info": {"challenge_id": "round_1b_002"},
		"documents": [{"filename": "guide.pdf", "title": "Guide"}],
		"persona": {"role": "Travel Planner"},
		"job_to_be_done": {"task": "Plan a trip"}
	}`)

	req, err := loadRequest(path, false, "pdfs")
	require.NoError(t, err)
	assert.Equal(t, "Travel Planner", req.Persona)
	assert.Equal(t, "Plan a trip", req.JobToBeDone)
	require.Len(t, req.Documents, 1)
	assert.Equal(t, "guide.pdf", req.Documents[0].Name)
	assert.Equal(t, filepath.Join("pdfs", "guide.pdf"), req.Documents[0].Path)
}

func TestLoadRequest_Errors(t *testing.T) {
	_, err := loadRequest(filepath.Join(t.TempDir(), "missing.json"), false, "input")
	assert.Error(t, err)

	bad := writeFile(t, t.TempDir(), "bad.json", `{"persona": 42`)
	_, err = loadRequest(bad, false, "input")
	assert.Error(t, err)
}

func TestAnalyzeCommand_ReportsUnreadableDocuments(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.pdf", "this is not a pdf")
	input := writeFile(t, dir, "request.json", `{
		"persona": "Travel Planner",
		"job_to_be_done": "Plan a trip",
		"documents": [
			{"name": "broken.pdf", "path": "`+filepath.ToSlash(broken)+`"},
			{"name": "missing.pdf", "path": "`+filepath.ToSlash(filepath.Join(dir, "missing.pdf"))+`"}
		]
	}`)
	output := filepath.Join(dir, "out", "analysis.json")

	stdout, _, err := executeCommand(t, "analyze", "--input", input, "--output", output, "--encoder", "lexical")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Output: "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.NoError(t, internalschemas.ValidateBundled(schemas.AnalysisOutput, data))

	var result types.AnalysisOutput
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, []string{"broken.pdf", "missing.pdf"}, result.Metadata.InputDocuments)
	assert.Len(t, result.Metadata.Errors, 2)
	require.NotNil(t, result.AnalysisSummary)
	assert.Equal(t, 0, result.AnalysisSummary.DocumentsProcessed)
	assert.Equal(t, 2, result.AnalysisSummary.DocumentsFailed)
}

func TestAnalyzeCommand_StdoutWhenNoOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "request.json", `{
		"persona": "Chef",
		"job_to_be_done": "Prepare a vegetarian menu",
		"documents": [{"name": "missing.pdf", "path": "`+filepath.ToSlash(filepath.Join(dir, "missing.pdf"))+`"}]
	}`)

	stdout, _, err := executeCommand(t, "analyze", "--input", input)
	require.NoError(t, err)

	var result types.AnalysisOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "Chef", result.Metadata.Persona)
}

func TestAnalyzeCommand_InvalidRequest(t *testing.T) {
	input := writeFile(t, t.TempDir(), "request.json", `{"persona":"","job_to_be_done":"x","documents":[]}`)

	_, _, err := executeCommand(t, "analyze", "--input", input, "--output", filepath.Join(t.TempDir(), "o.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis failed")
}

func TestAnalyzeCommand_UnknownEncoder(t *testing.T) {
	input := writeFile(t, t.TempDir(), "request.json", `{}`)

	_, _, err := executeCommand(t, "analyze", "--input", input, "--encoder", "word2vec")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encoder.provider")
}

func TestAnalyzeCommand_MissingInputFlag(t *testing.T) {
	_, _, err := executeCommand(t, "analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}
