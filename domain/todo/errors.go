package todo

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnauthenticated is returned when no caller identity could be resolved.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrNotAuthorized is returned when the caller is not the owner of the
	// entity being accessed.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)

// InvalidInputError is returned when a validation predicate rejects an
// input field. Reason is safe to surface to callers.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewInvalidInput builds an InvalidInputError for the given field.
func NewInvalidInput(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason}
}

// RateLimitedError is returned when the token bucket for an operation is
// exhausted. RetryAfter tells the caller how long to wait.
type RateLimitedError struct {
	Operation  string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s, retry after %s", e.Operation, e.RetryAfter)
}
