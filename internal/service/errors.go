package service

import (
	"errors"

	"github.com/JonnyWalker81/patternlog/internal/repository"
)

var (
	// ErrRepositoryUnavailable indicates the datastore query failed. The
	// underlying error is wrapped alongside it.
	ErrRepositoryUnavailable = errors.New("repository unavailable")
	// ErrInvalidWindow indicates a window whose end is before its start
	ErrInvalidWindow = errors.New("invalid window: end before start")
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = repository.ErrNotFound
	// ErrValidation indicates a write request failed validation
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries the offending field of a failed write
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
