package auth

import "errors"

// Common credential hashing errors
var (
	// ErrEmptyPassword indicates an empty secret was passed to the hasher
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrPasswordTooLong indicates the secret exceeds bcrypt's 72-byte limit
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

	// ErrHashFailed indicates the underlying hashing library failed
	ErrHashFailed = errors.New("failed to hash password")
)
