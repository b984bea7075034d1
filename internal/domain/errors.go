package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is usually wrapped by a ValidationError naming the field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an account ID is malformed or not positive.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyName is returned when an account name is blank.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyEmail is returned when an account email is blank.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrEmptyPassword is returned when a password is blank.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrEmptyCredentialHash is returned when a draft carries no credential hash.
	ErrEmptyCredentialHash = errors.New("credential hash cannot be empty")

	// ErrEmptyKind is returned when a kind is supplied but blank.
	ErrEmptyKind = errors.New("kind cannot be empty")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap exposes both the specific cause and ErrValidation, so callers can
// match either with errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrValidation {
		return []error{ErrValidation}
	}
	return []error{e.Err, ErrValidation}
}

// NewValidationError creates a ValidationError for the given field.
// A nil err defaults to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
