package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tutorway/tutorway-api/internal/domain"
	"github.com/tutorway/tutorway-api/internal/store"
)

// MockAccountStore implements store.AccountStore for testing.
// Without function overrides it behaves like an in-memory table with a
// unique email constraint and sequential IDs.
type MockAccountStore struct {
	// Function fields for customizable behavior
	ListFn       func(ctx context.Context) ([]domain.Account, error)
	GetByIDFn    func(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.Account, error)
	CreateFn     func(ctx context.Context, draft *domain.AccountDraft) (*domain.Account, error)
	UpdateByIDFn func(ctx context.Context, id int64, update domain.AccountUpdate) (*domain.Account, error)
	DeleteByIDFn func(ctx context.Context, id int64) error

	// CreateCalls counts calls to Create, successful or not.
	CreateCalls int

	mu       sync.Mutex
	accounts map[int64]domain.Account
	nextID   int64
}

// NewMockAccountStore creates an empty mock store.
func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{
		accounts: make(map[int64]domain.Account),
		nextID:   1,
	}
}

var _ store.AccountStore = (*MockAccountStore)(nil)

// Count returns the number of stored accounts.
func (m *MockAccountStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}

// Seed stores account as-is and returns it with an assigned ID.
func (m *MockAccountStore) Seed(account domain.Account) domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureInit()

	if account.ID == 0 {
		account.ID = m.nextID
	}
	if account.ID >= m.nextID {
		m.nextID = account.ID + 1
	}
	m.accounts[account.ID] = account
	return account
}

// ensureInit lets a zero-value MockAccountStore be used. Callers hold m.mu.
func (m *MockAccountStore) ensureInit() {
	if m.accounts == nil {
		m.accounts = make(map[int64]domain.Account)
	}
	if m.nextID == 0 {
		m.nextID = 1
	}
}

func (m *MockAccountStore) emailTaken(email string, exceptID int64) bool {
	for id, a := range m.accounts {
		if id != exceptID && a.Email == email {
			return true
		}
	}
	return false
}

// List implements the AccountStore interface
func (m *MockAccountStore) List(ctx context.Context) ([]domain.Account, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	accounts := make([]domain.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// GetByID implements the AccountStore interface
func (m *MockAccountStore) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return &a, nil
}

// GetByEmail implements the AccountStore interface
func (m *MockAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.Email == email {
			found := a
			return &found, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

// Create implements the AccountStore interface
func (m *MockAccountStore) Create(ctx context.Context, draft *domain.AccountDraft) (*domain.Account, error) {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, draft)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureInit()

	if m.emailTaken(draft.Email, 0) {
		return nil, store.ErrEmailExists
	}

	now := time.Now().UTC()
	a := domain.Account{
		ID:             m.nextID,
		Name:           draft.Name,
		Email:          draft.Email,
		CredentialHash: draft.CredentialHash,
		Kind:           draft.Kind,
		BirthDate:      draft.BirthDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.nextID++
	m.accounts[a.ID] = a
	return &a, nil
}

// UpdateByID implements the AccountStore interface
func (m *MockAccountStore) UpdateByID(ctx context.Context, id int64, update domain.AccountUpdate) (*domain.Account, error) {
	if m.UpdateByIDFn != nil {
		return m.UpdateByIDFn(ctx, id, update)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	if update.Email != nil && m.emailTaken(*update.Email, id) {
		return nil, store.ErrEmailExists
	}

	if update.Name != nil {
		a.Name = *update.Name
	}
	if update.Email != nil {
		a.Email = *update.Email
	}
	if update.CredentialHash != nil {
		a.CredentialHash = *update.CredentialHash
	}
	if update.Kind != nil {
		a.Kind = *update.Kind
	}
	if update.BirthDate != nil {
		d := *update.BirthDate
		a.BirthDate = &d
	}
	if !update.IsEmpty() {
		a.UpdatedAt = time.Now().UTC()
	}

	m.accounts[id] = a
	return &a, nil
}

// DeleteByID implements the AccountStore interface
func (m *MockAccountStore) DeleteByID(ctx context.Context, id int64) error {
	if m.DeleteByIDFn != nil {
		return m.DeleteByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[id]; !ok {
		return store.ErrAccountNotFound
	}
	delete(m.accounts, id)
	return nil
}
