package mocks

import (
	"errors"
	"strings"
	"sync"
)

// mockHashPrefix marks hashes produced by MockPasswordHasher.
const mockHashPrefix = "mock-hash:"

// MockPasswordHasher implements auth.PasswordHasher for testing.
// By default Hash prefixes the password and Verify checks the prefix, so no
// bcrypt work is done.
type MockPasswordHasher struct {
	// HashFn allows for custom hashing logic in tests
	HashFn func(password string) (string, error)

	// VerifyFn allows for custom comparison logic in tests
	VerifyFn func(hashedPassword, password string) bool

	mu          sync.Mutex
	hashCalls   int
	verifyCalls []VerifyCall
}

// VerifyCall records the arguments of one Verify call.
type VerifyCall struct {
	HashedPassword string
	Password       string
}

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.mu.Lock()
	m.hashCalls++
	m.mu.Unlock()

	if m.HashFn != nil {
		return m.HashFn(password)
	}
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	return mockHashPrefix + password, nil
}

// Verify implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Verify(hashedPassword, password string) bool {
	m.mu.Lock()
	m.verifyCalls = append(m.verifyCalls, VerifyCall{HashedPassword: hashedPassword, Password: password})
	m.mu.Unlock()

	if m.VerifyFn != nil {
		return m.VerifyFn(hashedPassword, password)
	}
	return strings.HasPrefix(hashedPassword, mockHashPrefix) &&
		strings.TrimPrefix(hashedPassword, mockHashPrefix) == password
}

// DummyHash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) DummyHash() string {
	return "mock-dummy-hash"
}

// HashCalls returns how many times Hash was called.
func (m *MockPasswordHasher) HashCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hashCalls
}

// VerifyCalls returns the recorded Verify calls.
func (m *MockPasswordHasher) VerifyCalls() []VerifyCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]VerifyCall(nil), m.verifyCalls...)
}
