// Package schemas bundles the JSON Schemas for docsight's inputs and outputs.
package schemas

import "embed"

// Schema names accepted by Load and by the validate command.
const (
	Outline         = "outline"
	AnalysisRequest = "analysis_request"
	AnalysisOutput  = "analysis_output"
	ChallengeInput  = "challenge_input"
)

//go:embed *.schema.json
var files embed.FS

// Names lists every bundled schema.
func Names() []string {
	return []string{Outline, AnalysisRequest, AnalysisOutput, ChallengeInput}
}

// Load returns the raw JSON Schema for name.
func Load(name string) ([]byte, error) {
	return files.ReadFile(name + ".schema.json")
}
