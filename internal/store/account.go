package store

import (
	"context"

	"github.com/tutorway/tutorway-api/internal/domain"
)

// AccountStore defines the interface for account data persistence.
//
// Implementations return accounts including CredentialHash; callers that
// expose accounts outward are responsible for stripping it.
type AccountStore interface {
	// List returns every account ordered by ID.
	List(ctx context.Context) ([]domain.Account, error)

	// GetByID retrieves an account by its ID.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Account, error)

	// GetByEmail retrieves an account by exact email match.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// Create inserts a new account and returns the stored row.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, draft *domain.AccountDraft) (*domain.Account, error)

	// UpdateByID applies a partial update and returns the stored row.
	// Returns ErrAccountNotFound if no account has the ID,
	// ErrEmailExists if the new email is taken, and ErrInvalidEntity
	// when the store rejects the values.
	UpdateByID(ctx context.Context, id int64, update domain.AccountUpdate) (*domain.Account, error)

	// DeleteByID removes an account permanently.
	// Returns ErrAccountNotFound if no account has the ID.
	DeleteByID(ctx context.Context, id int64) error
}
