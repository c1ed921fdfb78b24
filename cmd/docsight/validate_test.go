package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Success(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "outline.json",
		`{"title":"Guide","outline":[{"level":"H1","text":"Introduction","page":1}]}`)

	stdout, _, err := executeCommand(t, "validate", "--schema", "outline", "--input", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")
}

func TestValidateCommand_Failure(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "outline.json",
		`{"title":"Guide","outline":[{"level":"H4","text":"Deep","page":0}]}`)

	_, stderr, err := executeCommand(t, "validate", "--schema", "outline", "--input", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, stderr, "Validation failed")
}

func TestValidateCommand_SchemaFile(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "custom.schema.json",
		`{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`)
	good := writeFile(t, dir, "good.json", `{"name":"docsight"}`)
	bad := writeFile(t, dir, "bad.json", `{"other":1}`)

	stdout, _, err := executeCommand(t, "validate", "--schema", schema, "--input", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")

	_, _, err = executeCommand(t, "validate", "--schema", schema, "--input", bad)
	assert.Error(t, err)
}

func TestValidateCommand_UnknownSchema(t *testing.T) {
	input := writeFile(t, t.TempDir(), "x.json", `{}`)

	_, _, err := executeCommand(t, "validate", "--schema", "invoice", "--input", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown schema")
}

func TestValidateCommand_MissingInputFlag(t *testing.T) {
	_, _, err := executeCommand(t, "validate", "--schema", "outline")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestValidateCommand_MissingInputFile(t *testing.T) {
	_, _, err := executeCommand(t, "validate", "--schema", "outline",
		"--input", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
