package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tutorway/tutorway-api/internal/domain"
	"github.com/tutorway/tutorway-api/internal/notify"
	"github.com/tutorway/tutorway-api/internal/platform/logger"
	"github.com/tutorway/tutorway-api/internal/redact"
	"github.com/tutorway/tutorway-api/internal/service/auth"
	"github.com/tutorway/tutorway-api/internal/store"
)

// CreateAccountInput carries the fields of a registration request.
// Password is plaintext and is hashed before it reaches the store.
type CreateAccountInput struct {
	Name     string
	Email    string
	Password string
	Kind     string
}

// UpdateAccountInput is a partial update. Nil fields are left untouched;
// a blank Password is treated as absent.
type UpdateAccountInput struct {
	Name      *string
	Email     *string
	Password  *string
	Kind      *string
	BirthDate *time.Time
}

// AccountService provides the account lifecycle operations.
// Every returned account has its credential hash stripped.
type AccountService interface {
	// List returns every account.
	List(ctx context.Context) ([]domain.Account, error)

	// Create registers a new account and queues a welcome message.
	// Notification never affects the result.
	Create(ctx context.Context, input CreateAccountInput) error

	// Authenticate checks an email and password pair.
	// Unknown email and wrong password both return ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.Account, error)

	// Update applies a partial update to the account with the given ID.
	Update(ctx context.Context, id int64, input UpdateAccountInput) (*domain.Account, error)

	// Delete removes the account with the given ID.
	Delete(ctx context.Context, id int64) error
}

// Notifier queues outgoing messages without blocking.
type Notifier interface {
	Dispatch(ctx context.Context, msg notify.Message) error
}

// AccountServiceOptions holds optional settings for NewAccountService.
type AccountServiceOptions struct {
	// AppName appears in the welcome message. Defaults to "TutorWay".
	AppName string
}

// accountServiceImpl implements the AccountService interface
type accountServiceImpl struct {
	accounts store.AccountStore
	hasher   auth.PasswordHasher
	notifier Notifier
	appName  string
	logger   *slog.Logger
}

// NewAccountService creates a new AccountService.
// It returns an error if any of the required dependencies are nil.
func NewAccountService(
	accounts store.AccountStore,
	hasher auth.PasswordHasher,
	notifier Notifier,
	logger *slog.Logger,
	opts AccountServiceOptions,
) (AccountService, error) {
	if accounts == nil {
		return nil, errors.New("account store cannot be nil")
	}
	if hasher == nil {
		return nil, errors.New("password hasher cannot be nil")
	}
	if notifier == nil {
		return nil, errors.New("notifier cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	appName := strings.TrimSpace(opts.AppName)
	if appName == "" {
		appName = "TutorWay"
	}

	return &accountServiceImpl{
		accounts: accounts,
		hasher:   hasher,
		notifier: notifier,
		appName:  appName,
		logger:   logger.With(slog.String("component", "account_service")),
	}, nil
}

func invalidInput(field, message string, cause error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError(field, message, cause))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// hashPassword maps hasher input errors to ErrInvalidInput.
func (s *accountServiceImpl) hashPassword(operation, password string) (string, error) {
	hashed, err := s.hasher.Hash(password)
	if err == nil {
		return hashed, nil
	}

	switch {
	case errors.Is(err, auth.ErrEmptyPassword):
		return "", invalidInput("secret", "is required", domain.ErrEmptyPassword)
	case errors.Is(err, auth.ErrPasswordTooLong):
		return "", invalidInput("secret", fmt.Sprintf("must be at most %d bytes", auth.MaxPasswordBytes), err)
	default:
		return "", NewAccountServiceError(operation, "failed to hash password", err)
	}
}

// List implements AccountService.List
func (s *accountServiceImpl) List(ctx context.Context) ([]domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		log.Error("failed to list accounts", slog.String("error", redact.Error(err)))
		return nil, NewAccountServiceError("list_accounts", "failed to list accounts", err)
	}

	public := make([]domain.Account, 0, len(accounts))
	for _, account := range accounts {
		public = append(public, account.Public())
	}
	return public, nil
}

// Create implements AccountService.Create
func (s *accountServiceImpl) Create(ctx context.Context, input CreateAccountInput) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	switch {
	case isBlank(input.Name):
		return invalidInput("name", "is required", domain.ErrEmptyName)
	case isBlank(input.Email):
		return invalidInput("email", "is required", domain.ErrEmptyEmail)
	case isBlank(input.Password):
		return invalidInput("secret", "is required", domain.ErrEmptyPassword)
	}

	hashed, err := s.hashPassword("create_account", input.Password)
	if err != nil {
		return err
	}

	draft, err := domain.NewAccountDraft(input.Name, input.Email, hashed, input.Kind)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	created, err := s.accounts.Create(ctx, draft)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to create account with existing email")
		} else {
			log.Error("failed to create account", slog.String("error", redact.Error(err)))
		}
		return NewAccountServiceError("create_account", "failed to save account", err)
	}

	log.Info("account created",
		slog.Int64("account_id", created.ID),
		slog.String("kind", created.Kind))

	s.queueWelcome(ctx, created)
	return nil
}

// queueWelcome hands the welcome message to the notifier. Failures are logged only.
func (s *accountServiceImpl) queueWelcome(ctx context.Context, account *domain.Account) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	msg, err := notify.WelcomeMessage(s.appName, account.Name, account.Email)
	if err != nil {
		log.Warn("failed to build welcome message",
			slog.Int64("account_id", account.ID),
			slog.String("error", redact.Error(err)))
		return
	}

	if err := s.notifier.Dispatch(ctx, msg); err != nil {
		log.Debug("welcome message not queued",
			slog.Int64("account_id", account.ID),
			slog.String("error", err.Error()))
	}
}

// Authenticate implements AccountService.Authenticate
func (s *accountServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if isBlank(email) || password == "" {
		s.hasher.Verify(s.hasher.DummyHash(), password)
		return nil, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			// Same bcrypt work as a real comparison.
			s.hasher.Verify(s.hasher.DummyHash(), password)
			log.Debug("authentication failed", slog.String("reason", "unknown email"))
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up account for authentication", slog.String("error", redact.Error(err)))
		return nil, &AccountServiceError{
			Operation: "authenticate",
			Message:   "failed to look up account",
			Err:       err,
		}
	}

	if !s.hasher.Verify(account.CredentialHash, password) {
		log.Debug("authentication failed",
			slog.String("reason", "password mismatch"),
			slog.Int64("account_id", account.ID))
		return nil, ErrInvalidCredentials
	}

	log.Info("account authenticated", slog.Int64("account_id", account.ID))
	public := account.Public()
	return &public, nil
}

// Update implements AccountService.Update
func (s *accountServiceImpl) Update(ctx context.Context, id int64, input UpdateAccountInput) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return nil, invalidInput("id", "must be a positive integer", domain.ErrInvalidID)
	}

	update := domain.AccountUpdate{
		Name:      input.Name,
		Email:     input.Email,
		Kind:      input.Kind,
		BirthDate: input.BirthDate,
	}
	if err := update.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if input.Password != nil && !isBlank(*input.Password) {
		hashed, err := s.hashPassword("update_account", *input.Password)
		if err != nil {
			return nil, err
		}
		update.CredentialHash = &hashed
	}

	updated, err := s.accounts.UpdateByID(ctx, id, update)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAccountNotFound),
			errors.Is(err, store.ErrEmailExists),
			errors.Is(err, store.ErrInvalidEntity):
			log.Debug("account update rejected",
				slog.Int64("account_id", id),
				slog.String("error", redact.Error(err)))
		default:
			log.Error("failed to update account",
				slog.Int64("account_id", id),
				slog.String("error", redact.Error(err)))
		}
		return nil, NewAccountServiceError("update_account", "failed to update account", err)
	}

	log.Info("account updated",
		slog.Int64("account_id", id),
		slog.Bool("credential_changed", update.CredentialHash != nil))

	public := updated.Public()
	return &public, nil
}

// Delete implements AccountService.Delete
func (s *accountServiceImpl) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return invalidInput("id", "must be a positive integer", domain.ErrInvalidID)
	}

	if err := s.accounts.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Debug("account not found for delete", slog.Int64("account_id", id))
		} else {
			log.Error("failed to delete account",
				slog.Int64("account_id", id),
				slog.String("error", redact.Error(err)))
		}
		return NewAccountServiceError("delete_account", "failed to delete account", err)
	}

	log.Info("account deleted", slog.Int64("account_id", id))
	return nil
}
