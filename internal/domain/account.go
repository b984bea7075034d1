package domain

import (
	"strings"
	"time"
)

// KindStandard is the role tag given to accounts created without an explicit kind.
const KindStandard = "standard"

// BirthDateLayout is the wire and storage layout of Account.BirthDate.
const BirthDateLayout = "2006-01-02"

// Account represents a registered user of the TutorWay application.
//
// Email is compared as an exact, case-sensitive string.
type Account struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	CredentialHash string     `json:"-"` // Never expose the credential hash in JSON
	Kind           string     `json:"kind"`
	BirthDate      *time.Time `json:"birthDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Public returns a copy of the account with the credential hash cleared.
// Every account that crosses the service boundary goes through Public.
func (a Account) Public() Account {
	a.CredentialHash = ""
	if a.BirthDate != nil {
		d := *a.BirthDate
		a.BirthDate = &d
	}
	return a
}

// AccountDraft holds the fields needed to insert a new account.
// The store assigns ID and timestamps.
type AccountDraft struct {
	Name           string
	Email          string
	CredentialHash string
	Kind           string
	BirthDate      *time.Time
}

// NewAccountDraft builds a validated draft. A blank kind defaults to KindStandard.
//
// NOTE: credentialHash must already be hashed; the draft never sees plaintext.
func NewAccountDraft(name, email, credentialHash, kind string) (*AccountDraft, error) {
	if strings.TrimSpace(kind) == "" {
		kind = KindStandard
	}

	draft := &AccountDraft{
		Name:           name,
		Email:          email,
		CredentialHash: credentialHash,
		Kind:           kind,
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}
	return draft, nil
}

// Validate checks the draft has every required field.
func (d *AccountDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return NewValidationError("name", "is required", ErrEmptyName)
	}
	if strings.TrimSpace(d.Email) == "" {
		return NewValidationError("email", "is required", ErrEmptyEmail)
	}
	if d.CredentialHash == "" {
		return NewValidationError("credential", "is required", ErrEmptyCredentialHash)
	}
	if strings.TrimSpace(d.Kind) == "" {
		return NewValidationError("kind", "is required", ErrEmptyKind)
	}
	return nil
}

// AccountUpdate is a partial update. Nil fields are left untouched.
type AccountUpdate struct {
	Name           *string
	Email          *string
	CredentialHash *string
	Kind           *string
	BirthDate      *time.Time
}

// IsEmpty reports whether the update changes nothing.
func (u AccountUpdate) IsEmpty() bool {
	return u.Name == nil &&
		u.Email == nil &&
		u.CredentialHash == nil &&
		u.Kind == nil &&
		u.BirthDate == nil
}

// Validate rejects supplied fields that would blank out a required column.
func (u AccountUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return NewValidationError("name", "cannot be blank", ErrEmptyName)
	}
	if u.Email != nil && strings.TrimSpace(*u.Email) == "" {
		return NewValidationError("email", "cannot be blank", ErrEmptyEmail)
	}
	if u.Kind != nil && strings.TrimSpace(*u.Kind) == "" {
		return NewValidationError("kind", "cannot be blank", ErrEmptyKind)
	}
	if u.CredentialHash != nil && *u.CredentialHash == "" {
		return NewValidationError("credential", "cannot be blank", ErrEmptyCredentialHash)
	}
	return nil
}
