package mocks

import (
	"context"

	"github.com/tutorway/tutorway-api/internal/domain"
	"github.com/tutorway/tutorway-api/internal/service"
)

// MockAccountService implements service.AccountService for testing
type MockAccountService struct {
	// Custom behavior functions
	ListFn         func(ctx context.Context) ([]domain.Account, error)
	CreateFn       func(ctx context.Context, input service.CreateAccountInput) error
	AuthenticateFn func(ctx context.Context, email, password string) (*domain.Account, error)
	UpdateFn       func(ctx context.Context, id int64, input service.UpdateAccountInput) (*domain.Account, error)
	DeleteFn       func(ctx context.Context, id int64) error

	// Default return values
	Accounts     []domain.Account
	Account      *domain.Account
	DefaultError error
}

var _ service.AccountService = (*MockAccountService)(nil)

// List implements the AccountService.List method
func (m *MockAccountService) List(ctx context.Context) ([]domain.Account, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return m.Accounts, m.DefaultError
}

// Create implements the AccountService.Create method
func (m *MockAccountService) Create(ctx context.Context, input service.CreateAccountInput) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, input)
	}
	return m.DefaultError
}

// Authenticate implements the AccountService.Authenticate method
func (m *MockAccountService) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return m.Account, m.DefaultError
}

// Update implements the AccountService.Update method
func (m *MockAccountService) Update(ctx context.Context, id int64, input service.UpdateAccountInput) (*domain.Account, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, input)
	}
	return m.Account, m.DefaultError
}

// Delete implements the AccountService.Delete method
func (m *MockAccountService) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.DefaultError
}
