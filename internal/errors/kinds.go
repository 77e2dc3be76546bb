package errors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error produced by the core wraps exactly one of these, so
// callers can classify with errors.Is without knowing the specific failure.
var (
	ErrValidation = errors.New("validation error")
	ErrReference  = errors.New("reference error")
	ErrPolicy     = errors.New("policy error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// KindError is a failure message tagged with its kind.
type KindError struct {
	Kind    error
	Message string
}

func (e *KindError) Error() string {
	return e.Message
}

func (e *KindError) Unwrap() error {
	return e.Kind
}

// New returns an error of the given kind.
func New(kind error, message string) error {
	return &KindError{Kind: kind, Message: message}
}

// ValidationError reports a malformed field value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Is and As are re-exported so packages importing this one under the errors
// name still have the stdlib helpers.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
