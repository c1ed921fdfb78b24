package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/docsight/internal/analysis"
	"github.com/jonathan/docsight/internal/extract"
)

// ErrBadRequest indicates a request body that could not be decoded.
type ErrBadRequest struct {
	Message string
	Cause   error
}

func (e *ErrBadRequest) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bad request: %s: %v", e.Message, e.Cause)
	}
	return "bad request: " + e.Message
}

func (e *ErrBadRequest) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var badRequest *ErrBadRequest
	switch {
	case errors.As(err, &badRequest), analysis.IsValidationError(err):
		return http.StatusBadRequest
	case extract.IsExtractionError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
