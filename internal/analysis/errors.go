package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/docsight/internal/types"
)

// Error categories reported in metadata.errors.
const (
	CategoryExtraction = "ExtractionFailure"
	CategoryValidation = "ValidationFailure"
	CategoryEncoding   = "EncodingFailure"
)

// ValidationError describes one structural problem with a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is returned when a request is rejected before processing.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err rejected the request as malformed.
func IsValidationError(err error) bool {
	var verrs ValidationErrors
	var verr ValidationError
	return errors.As(err, &verrs) || errors.As(err, &verr)
}

// ValidateRequest checks required fields and the document count bound.
// maxDocuments <= 0 disables the bound.
func ValidateRequest(req *types.AnalysisRequest, maxDocuments int) error {
	if req == nil {
		return ValidationErrors{{Field: "request", Message: "is required"}}
	}

	var out ValidationErrors
	if err := req.Validate(); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return ValidationErrors{{Field: "request", Message: err.Error()}}
		}
		for _, fe := range fieldErrs {
			out = append(out, ValidationError{
				Field:   fieldPath(fe.Namespace()),
				Message: describe(fe),
			})
		}
	}

	if req.Persona != "" && strings.TrimSpace(req.Persona) == "" {
		out = append(out, ValidationError{Field: "persona", Message: "must not be blank"})
	}
	if req.JobToBeDone != "" && strings.TrimSpace(req.JobToBeDone) == "" {
		out = append(out, ValidationError{Field: "job_to_be_done", Message: "must not be blank"})
	}
	if maxDocuments > 0 && len(req.Documents) > maxDocuments {
		out = append(out, ValidationError{
			Field:   "documents",
			Message: fmt.Sprintf("at most %d documents allowed, got %d", maxDocuments, len(req.Documents)),
		})
	}

	if len(out) > 0 {
		return out
	}
	return nil
}

// fieldPath drops the struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	default:
		return "failed " + fe.Tag() + " check"
	}
}
