package service

import (
	"errors"
	"fmt"

	"github.com/tutorway/tutorway-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in AccountServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to HTTP status codes
var (
	// ErrInvalidInput indicates a missing or malformed field.
	// It usually wraps a *domain.ValidationError naming the field.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmailAlreadyRegistered indicates another account already uses the email.
	// API layer should map this to HTTP 409 Conflict.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrAccountNotFound indicates no account has the requested ID.
	// API layer should map this to HTTP 404 Not Found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike, so callers cannot tell which one failed.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidAccountData indicates the store rejected the account values.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidAccountData = errors.New("invalid account data")
)

// AccountServiceError wraps unexpected errors from the account service with context.
type AccountServiceError struct {
	// Operation is the operation that failed (e.g., "create_account")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for AccountServiceError.
func (e *AccountServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("account service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("account service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *AccountServiceError) Unwrap() error {
	return e.Err
}

// NewAccountServiceError creates a new AccountServiceError.
// Known sentinel errors, from the service or the store, are returned as the
// matching service sentinel without wrapping.
func NewAccountServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrEmailAlreadyRegistered),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidAccountData):
		return err
	case store.IsDuplicateError(err):
		return ErrEmailAlreadyRegistered
	case store.IsNotFoundError(err):
		return ErrAccountNotFound
	case errors.Is(err, store.ErrInvalidEntity):
		return fmt.Errorf("%w: %w", ErrInvalidAccountData, err)
	}

	return &AccountServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
