package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorway/tutorway-api/internal/domain"
	"github.com/tutorway/tutorway-api/internal/mocks"
	"github.com/tutorway/tutorway-api/internal/notify"
	"github.com/tutorway/tutorway-api/internal/service"
	"github.com/tutorway/tutorway-api/internal/service/auth"
	"github.com/tutorway/tutorway-api/internal/store"
)

type fixture struct {
	svc      service.AccountService
	accounts *mocks.MockAccountStore
	notifier *mocks.MockNotifier
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// newFixture wires the service against the in-memory store and the given hasher.
// A nil hasher means real bcrypt at minimum cost.
func newFixture(t *testing.T, hasher auth.PasswordHasher) fixture {
	t.Helper()

	if hasher == nil {
		hasher = auth.NewBcryptHasher(bcrypt.MinCost)
	}
	f := fixture{
		accounts: mocks.NewMockAccountStore(),
		notifier: &mocks.MockNotifier{},
	}

	svc, err := service.NewAccountService(f.accounts, hasher, f.notifier, testLogger(),
		service.AccountServiceOptions{AppName: "TutorWay"})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func ptr[T any](v T) *T { return &v }

func createAna(t *testing.T, f fixture) {
	t.Helper()
	require.NoError(t, f.svc.Create(context.Background(), service.CreateAccountInput{
		Name:     "Ana",
		Email:    "ana@x.com",
		Password: "abc123",
	}))
}

func TestNewAccountServiceValidatesDependencies(t *testing.T) {
	t.Parallel()

	accounts := mocks.NewMockAccountStore()
	hasher := &mocks.MockPasswordHasher{}
	notifier := &mocks.MockNotifier{}
	log := testLogger()

	tests := []struct {
		name     string
		accounts store.AccountStore
		hasher   auth.PasswordHasher
		notifier service.Notifier
		logger   *slog.Logger
	}{
		{name: "nil store", hasher: hasher, notifier: notifier, logger: log},
		{name: "nil hasher", accounts: accounts, notifier: notifier, logger: log},
		{name: "nil notifier", accounts: accounts, hasher: hasher, logger: log},
		{name: "nil logger", accounts: accounts, hasher: hasher, notifier: notifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := service.NewAccountService(tt.accounts, tt.hasher, tt.notifier, tt.logger,
				service.AccountServiceOptions{})
			assert.Error(t, err)
			assert.Nil(t, svc)
		})
	}
}

func TestCreateThenAuthenticate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	createAna(t, f)

	account, err := f.svc.Authenticate(context.Background(), "ana@x.com", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Ana", account.Name)
	assert.Equal(t, "ana@x.com", account.Email)
	assert.Equal(t, domain.KindStandard, account.Kind)
	assert.Empty(t, account.CredentialHash)

	_, err = f.svc.Authenticate(context.Background(), "ana@x.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	stored, err := f.accounts.GetByEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "abc123", stored.CredentialHash)
	assert.True(t, strings.HasPrefix(stored.CredentialHash, "$2a$"))
}

func TestCreateKeepsExplicitKind(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mocks.MockPasswordHasher{})
	require.NoError(t, f.svc.Create(context.Background(), service.CreateAccountInput{
		Name: "Bruno", Email: "bruno@x.com", Password: "abc123", Kind: "tutor",
	}))

	stored, err := f.accounts.GetByEmail(context.Background(), "bruno@x.com")
	require.NoError(t, err)
	assert.Equal(t, "tutor", stored.Kind)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     service.CreateAccountInput
		wantCause error
	}{
		{
			name:      "missing name",
			input:     service.CreateAccountInput{Email: "ana@x.com", Password: "abc123"},
			wantCause: domain.ErrEmptyName,
		},
		{
			name:      "whitespace name",
			input:     service.CreateAccountInput{Name: "   ", Email: "ana@x.com", Password: "abc123"},
			wantCause: domain.ErrEmptyName,
		},
		{
			name:      "missing email",
			input:     service.CreateAccountInput{Name: "Ana", Password: "abc123"},
			wantCause: domain.ErrEmptyEmail,
		},
		{
			name:      "missing password",
			input:     service.CreateAccountInput{Name: "Ana", Email: "ana@x.com"},
			wantCause: domain.ErrEmptyPassword,
		},
		{
			name:      "password too long",
			input:     service.CreateAccountInput{Name: "Ana", Email: "ana@x.com", Password: strings.Repeat("x", 73)},
			wantCause: auth.ErrPasswordTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			err := f.svc.Create(context.Background(), tt.input)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
			assert.ErrorIs(t, err, tt.wantCause)

			var vErr *domain.ValidationError
			assert.ErrorAs(t, err, &vErr)

			assert.Zero(t, f.accounts.CreateCalls, "no persistence attempt on invalid input")
			assert.Empty(t, f.notifier.Messages())
		})
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mocks.MockPasswordHasher{})
	createAna(t, f)

	for i := 0; i < 3; i++ {
		err := f.svc.Create(context.Background(), service.CreateAccountInput{
			Name: "Ana Clone", Email: "ana@x.com", Password: "other",
		})
		assert.ErrorIs(t, err, service.ErrEmailAlreadyRegistered)
		assert.Equal(t, 1, f.accounts.Count(), "duplicate create must not add a row")
	}

	assert.Len(t, f.notifier.Messages(), 1, "only the successful create is notified")
}

func TestCreateEmailIsCaseSensitive(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mocks.MockPasswordHasher{})
	createAna(t, f)

	require.NoError(t, f.svc.Create(context.Background(), service.CreateAccountInput{
		Name: "Ana", Email: "ANA@x.com", Password: "abc123",
	}))
	assert.Equal(t, 2, f.accounts.Count())
}

func TestCreateDispatchesWelcomeMessage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mocks.MockPasswordHasher{})
	createAna(t, f)

	messages := f.notifier.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "ana@x.com", messages[0].To)
	assert.Equal(t, "Boas-vindas ao TutorWay", messages[0].Subject)
	assert.Contains(t, messages[0].HTMLBody, "Ana")
	assert.NotContains(t, messages[0].HTMLBody, "abc123")
}

func TestCreateSucceedsWhenNotificationFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mocks.MockPasswordHasher{})
	f.notifier.Err = notify.ErrQueueFull

	createAna(t, f)
	assert.Equal(t, 1, f.accounts.Count())
}

func TestCreateStoreFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mocks.MockPasswordHasher{})
	dbErr := errors.New("connection reset by peer")
	f.accounts.CreateFn = func(context.Context, *domain.AccountDraft) (*domain.Account, error) {
		return nil, dbErr
	}

	err := f.svc.Create(context.Background(), service.CreateAccountInput{
		Name: "Ana", Email: "ana@x.com", Password: "abc123",
	})

	var svcErr *service.AccountServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create_account", svcErr.Operation)
	assert.ErrorIs(t, err, dbErr)
	assert.Empty(t, f.notifier.Messages())
}

func TestCreateHashFailure(t *testing.T) {
	t.Parallel()

	hasher := &mocks.MockPasswordHasher{
		HashFn: func(string) (string, error) { return "", auth.ErrHashFailed },
	}
	f := newFixture(t, hasher)

	err := f.svc.Create(context.Background(), service.CreateAccountInput{
		Name: "Ana", Email: "ana@x.com", Password: "abc123",
	})

	var svcErr *service.AccountServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.Zero(t, f.accounts.CreateCalls)
}

func TestAuthenticateDoesNotLeakWhichFieldFailed(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	createAna(t, f)

	_, wrongSecret := f.svc.Authenticate(context.Background(), "ana@x.com", "wrong")
	_, unknownEmail := f.svc.Authenticate(context.Background(), "nobody@x.com", "abc123")
	_, blank := f.svc.Authenticate(context.Background(), "", "")

	require.Error(t, wrongSecret)
	assert.Equal(t, wrongSecret, unknownEmail)
	assert.Equal(t, wrongSecret.Error(), unknownEmail.Error())
	assert.Equal(t, wrongSecret, blank)
	assert.ErrorIs(t, unknownEmail, service.ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmailComparesAgainstDummyHash(t *testing.T) {
	t.Parallel()

	hasher := &mocks.MockPasswordHasher{}
	f := newFixture(t, hasher)

	_, err := f.svc.Authenticate(context.Background(), "nobody@x.com", "abc123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	calls := hasher.VerifyCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, hasher.DummyHash(), calls[0].HashedPassword)
}

func TestAuthenticateStoreFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mocks.MockPasswordHasher{})
	f.accounts.GetByEmailFn = func(context.Context, string) (*domain.Account, error) {
		return nil, errors.New("database unavailable")
	}

	_, err := f.svc.Authenticate(context.Background(), "ana@x.com", "abc123")

	var svcErr *service.AccountServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestUpdateNameOnlyKeepsCredential(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	createAna(t, f)

	before, err := f.accounts.GetByEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)

	updated, err := f.svc.Update(context.Background(), before.ID, service.UpdateAccountInput{Name: ptr("Ana Paula")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", updated.Name)
	assert.Empty(t, updated.CredentialHash)

	after, err := f.accounts.GetByID(context.Background(), before.ID)
	require.NoError(t, err)
	assert.Equal(t, before.CredentialHash, after.CredentialHash)

	_, err = f.svc.Authenticate(context.Background(), "ana@x.com", "abc123")
	assert.NoError(t, err)
}

func TestUpdateBlankOrAbsentSecretDoesNotRehash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password *string
	}{
		{name: "absent", password: nil},
		{name: "empty", password: ptr("")},
		{name: "whitespace", password: ptr("   ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher := &mocks.MockPasswordHasher{}
			f := newFixture(t, hasher)
			createAna(t, f)
			before, err := f.accounts.GetByEmail(context.Background(), "ana@x.com")
			require.NoError(t, err)
			hashCalls := hasher.HashCalls()

			_, err = f.svc.Update(context.Background(), before.ID, service.UpdateAccountInput{
				Kind:     ptr("tutor"),
				Password: tt.password,
			})
			require.NoError(t, err)

			assert.Equal(t, hashCalls, hasher.HashCalls())
			after, err := f.accounts.GetByID(context.Background(), before.ID)
			require.NoError(t, err)
			assert.Equal(t, before.CredentialHash, after.CredentialHash)
			assert.Equal(t, "tutor", after.Kind)
		})
	}
}

func TestUpdateNewSecretReplacesCredential(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	createAna(t, f)
	account, err := f.accounts.GetByEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), account.ID, service.UpdateAccountInput{Password: ptr("n3w-secret")})
	require.NoError(t, err)

	_, err = f.svc.Authenticate(context.Background(), "ana@x.com", "abc123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = f.svc.Authenticate(context.Background(), "ana@x.com", "n3w-secret")
	assert.NoError(t, err)
}

func TestUpdateBirthDate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mocks.MockPasswordHasher{})
	createAna(t, f)

	birth := time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC)
	updated, err := f.svc.Update(context.Background(), 1, service.UpdateAccountInput{BirthDate: &birth})
	require.NoError(t, err)
	require.NotNil(t, updated.BirthDate)
	assert.True(t, birth.Equal(*updated.BirthDate))
}

func TestUpdateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      int64
		input   service.UpdateAccountInput
		setup   func(t *testing.T, f fixture)
		wantErr error
	}{
		{
			name:    "missing id 42",
			id:      42,
			input:   service.UpdateAccountInput{Name: ptr("Nova")},
			wantErr: service.ErrAccountNotFound,
		},
		{
			name:    "non-positive id",
			id:      0,
			input:   service.UpdateAccountInput{Name: ptr("Nova")},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "blank name",
			id:      1,
			input:   service.UpdateAccountInput{Name: ptr(" ")},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "blank kind",
			id:      1,
			input:   service.UpdateAccountInput{Kind: ptr("")},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:  "email taken",
			id:    1,
			input: service.UpdateAccountInput{Email: ptr("bruno@x.com")},
			setup: func(t *testing.T, f fixture) {
				require.NoError(t, f.svc.Create(context.Background(), service.CreateAccountInput{
					Name: "Bruno", Email: "bruno@x.com", Password: "abc123",
				}))
			},
			wantErr: service.ErrEmailAlreadyRegistered,
		},
		{
			name:  "store rejects values",
			id:    1,
			input: service.UpdateAccountInput{Name: ptr("Nova")},
			setup: func(t *testing.T, f fixture) {
				f.accounts.UpdateByIDFn = func(context.Context, int64, domain.AccountUpdate) (*domain.Account, error) {
					return nil, store.ErrInvalidEntity
				}
			},
			wantErr: service.ErrInvalidAccountData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &mocks.MockPasswordHasher{})
			createAna(t, f)
			if tt.setup != nil {
				tt.setup(t, f)
			}

			_, err := f.svc.Update(context.Background(), tt.id, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDeleteIsConsistentlyNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mocks.MockPasswordHasher{})
	createAna(t, f)

	require.NoError(t, f.svc.Delete(context.Background(), 1))
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, f.svc.Delete(context.Background(), 1), service.ErrAccountNotFound)
	}
	assert.Zero(t, f.accounts.Count())

	assert.ErrorIs(t, f.svc.Delete(context.Background(), -1), service.ErrInvalidInput)
}

func TestDeleteStoreFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mocks.MockPasswordHasher{})
	f.accounts.DeleteByIDFn = func(context.Context, int64) error {
		return errors.New("connection reset")
	}

	var svcErr *service.AccountServiceError
	assert.ErrorAs(t, f.svc.Delete(context.Background(), 1), &svcErr)
}

func TestListStripsCredentials(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	createAna(t, f)
	require.NoError(t, f.svc.Create(context.Background(), service.CreateAccountInput{
		Name: "Bruno", Email: "bruno@x.com", Password: "s3cret!",
	}))

	accounts, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Ana", accounts[0].Name)

	payload, err := json.Marshal(accounts)
	require.NoError(t, err)
	for _, forbidden := range []string{"abc123", "s3cret!", "$2a$", "CredentialHash", "senha", "secret"} {
		assert.NotContains(t, string(payload), forbidden)
	}
	for _, a := range accounts {
		assert.Empty(t, a.CredentialHash)
	}
}

func TestListStoreFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mocks.MockPasswordHasher{})
	f.accounts.ListFn = func(context.Context) ([]domain.Account, error) {
		return nil, errors.New("timeout")
	}

	_, err := f.svc.List(context.Background())
	var svcErr *service.AccountServiceError
	assert.ErrorAs(t, err, &svcErr)
}
