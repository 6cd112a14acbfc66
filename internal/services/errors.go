package services

import (
	"errors"
	"fmt"

	"studyhub-backend/internal/metrics"
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

// UnauthenticatedError means no viewer identity was supplied.
type UnauthenticatedError struct{}

func (e *UnauthenticatedError) Error() string { return "authentication required" }

// SourceFetchError wraps a failed record store lookup.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }

// IsSourceFetchError reports whether err is, or wraps, a SourceFetchError.
func IsSourceFetchError(err error) bool {
	var sfe *SourceFetchError
	return errors.As(err, &sfe)
}

func sourceFailed(source string, err error) error {
	metrics.SourceFetchErrors.WithLabelValues(source).Inc()
	return &SourceFetchError{Source: source, Err: err}
}
