package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tutorway/tutorway-api/internal/domain"
	"github.com/tutorway/tutorway-api/internal/platform/logger"
	"github.com/tutorway/tutorway-api/internal/redact"
	"github.com/tutorway/tutorway-api/internal/store"
)

const accountColumns = `id, nome, email, senha, tipo, data_nascimento, created_at, updated_at`

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of the AccountStore interface.
// It accepts a database connection or transaction that is managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

// Ensure PostgresAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*PostgresAccountStore)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		account   domain.Account
		birthDate sql.NullTime
	)

	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.CredentialHash,
		&account.Kind,
		&birthDate,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if birthDate.Valid {
		d := birthDate.Time
		account.BirthDate = &d
	}
	return &account, nil
}

// List implements store.AccountStore.List
func (s *PostgresAccountStore) List(ctx context.Context) ([]domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + accountColumns + ` FROM usuarios ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list accounts", slog.String("error", redact.Error(err)))
		return nil, wrapStoreError("list", "query failed", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", redact.Error(closeErr)))
		}
	}()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			log.Error("failed to scan account row", slog.String("error", redact.Error(err)))
			return nil, wrapStoreError("list", "scan failed", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating account rows", slog.String("error", redact.Error(err)))
		return nil, wrapStoreError("list", "row iteration failed", err)
	}

	log.Debug("accounts listed", slog.Int("count", len(accounts)))
	return accounts, nil
}

// GetByID implements store.AccountStore.GetByID
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + accountColumns + ` FROM usuarios WHERE id = $1`

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found", slog.Int64("account_id", id))
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account by ID",
			slog.String("error", redact.Error(err)),
			slog.Int64("account_id", id))
		return nil, wrapStoreError("get_by_id", "query failed", err)
	}

	return account, nil
}

// GetByEmail implements store.AccountStore.GetByEmail
// The match is exact and case-sensitive.
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + accountColumns + ` FROM usuarios WHERE email = $1`

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found by email")
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account by email", slog.String("error", redact.Error(err)))
		return nil, wrapStoreError("get_by_email", "query failed", err)
	}

	return account, nil
}

// Create implements store.AccountStore.Create
// Returns store.ErrEmailExists if the email is already taken.
func (s *PostgresAccountStore) Create(ctx context.Context, draft *domain.AccountDraft) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if draft == nil {
		return nil, fmt.Errorf("%w: nil account draft", store.ErrInvalidEntity)
	}
	if err := draft.Validate(); err != nil {
		log.Warn("account validation failed during create", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO usuarios (nome, email, senha, tipo, data_nascimento)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns

	account, err := scanAccount(s.db.QueryRowContext(
		ctx,
		query,
		draft.Name,
		draft.Email,
		draft.CredentialHash,
		draft.Kind,
		dateArg(draft.BirthDate),
	))
	if err != nil {
		mapped := wrapStoreError("create", "insert failed", err)
		if errors.Is(mapped, store.ErrEmailExists) {
			log.Warn("attempted to create account with existing email")
			return nil, store.ErrEmailExists
		}
		log.Error("failed to create account", slog.String("error", redact.Error(err)))
		return nil, mapped
	}

	log.Info("account created successfully",
		slog.Int64("account_id", account.ID),
		slog.String("kind", account.Kind))
	return account, nil
}

// UpdateByID implements store.AccountStore.UpdateByID
// Only the non-nil fields of update are written. An empty update returns the current row.
func (s *PostgresAccountStore) UpdateByID(
	ctx context.Context,
	id int64,
	update domain.AccountUpdate,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := update.Validate(); err != nil {
		log.Warn("account validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("account_id", id))
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if update.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	sets := make([]string, 0, 6)
	args := make([]any, 0, 6)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Name != nil {
		add("nome", *update.Name)
	}
	if update.Email != nil {
		add("email", *update.Email)
	}
	if update.CredentialHash != nil {
		add("senha", *update.CredentialHash)
	}
	if update.Kind != nil {
		add("tipo", *update.Kind)
	}
	if update.BirthDate != nil {
		add("data_nascimento", dateArg(update.BirthDate))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE usuarios SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "),
		len(args),
		accountColumns,
	)

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found for update", slog.Int64("account_id", id))
			return nil, store.ErrAccountNotFound
		}
		mapped := wrapStoreError("update", "update failed", err)
		if errors.Is(mapped, store.ErrEmailExists) {
			log.Warn("attempted to update account to existing email", slog.Int64("account_id", id))
			return nil, store.ErrEmailExists
		}
		log.Error("failed to update account",
			slog.String("error", redact.Error(err)),
			slog.Int64("account_id", id))
		return nil, mapped
	}

	log.Info("account updated successfully", slog.Int64("account_id", id))
	return account, nil
}

// DeleteByID implements store.AccountStore.DeleteByID
// Returns store.ErrAccountNotFound if no row was deleted.
func (s *PostgresAccountStore) DeleteByID(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete account",
			slog.String("error", redact.Error(err)),
			slog.Int64("account_id", id))
		return wrapStoreError("delete", "delete failed", err)
	}

	if err := CheckRowsAffected(result, store.ErrAccountNotFound); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Debug("account not found for delete", slog.Int64("account_id", id))
		} else {
			log.Error("failed to check deleted rows",
				slog.String("error", redact.Error(err)),
				slog.Int64("account_id", id))
		}
		return err
	}

	log.Info("account deleted successfully", slog.Int64("account_id", id))
	return nil
}

// dateArg converts an optional birth date into a DATE parameter.
func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(domain.BirthDateLayout)
}
