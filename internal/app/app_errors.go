package app

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("resource not found")
	ErrInternalError = errors.New("internal error")

	// ErrPastDateRejected means the request named a time that has already
	// passed. The request fails; it is never clamped to a future time.
	ErrPastDateRejected = errors.New("date already passed")

	// ErrNoFutureOccurrences means recurrence expansion produced nothing
	// usable.
	ErrNoFutureOccurrences = errors.New("no future occurrences")

	// ErrAmbiguousIntent means no interpretation of the text could be
	// established. It is surfaced for clarification, never guessed around.
	ErrAmbiguousIntent = errors.New("ambiguous intent")

	// ErrExternalLookupFailed marks a language-model call that failed in
	// transport, as opposed to one that answered with no interpretation.
	ErrExternalLookupFailed = errors.New("external lookup failed")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError

	return errors.As(err, &validationErr)
}
