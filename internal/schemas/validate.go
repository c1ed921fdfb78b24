// Package schemas provides JSON Schema validation for docsight requests and outputs.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	bundled "github.com/jonathan/docsight/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}

	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}

	data, err := readDocument(jsonPath)
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + schemaAbsPath)
	return validate(schemaAbsPath, schemaLoader, gojsonschema.NewBytesLoader(data))
}

// ValidateFile validates a JSON file against a bundled schema, e.g. "outline".
func ValidateFile(schemaName, jsonPath string) error {
	data, err := readDocument(jsonPath)
	if err != nil {
		return err
	}
	return ValidateBundled(schemaName, data)
}

// ValidateBundled validates raw JSON against a bundled schema.
func ValidateBundled(schemaName string, data []byte) error {
	schema, err := bundled.Load(schemaName)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaName,
			Message: fmt.Sprintf("unknown schema (available: %s)", strings.Join(bundled.Names(), ", ")),
			Cause:   err,
		}
	}
	return validate(schemaName, gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
}

// ValidateValue marshals v and validates it against a bundled schema.
func ValidateValue(schemaName string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", schemaName, err)
	}
	return ValidateBundled(schemaName, data)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate("(string schema)",
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent))
}

func readDocument(jsonPath string) ([]byte, error) {
	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve JSON path: %w", err)
	}
	data, err := os.ReadFile(jsonAbsPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	return data, nil
}

func validate(schemaRef string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		// Either the schema failed to load or the document is not JSON.
		return &SchemaLoadError{
			Path:    schemaRef,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
