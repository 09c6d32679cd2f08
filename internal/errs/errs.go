// Package errs holds the error taxonomy shared by stores, services, handlers
// and the API client. Callers match with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("partner not found")
	ErrUnauthorized = errors.New("authentication required")
	ErrConflict     = errors.New("conflict")
	ErrTransport    = errors.New("store unavailable")
)

// ValidationError describes a rejected field. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

// Validation builds a ValidationError for field.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Transport wraps err so that it matches ErrTransport.
func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
}
