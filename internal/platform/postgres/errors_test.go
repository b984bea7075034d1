package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/tutorway/tutorway-api/internal/platform/postgres"
	"github.com/tutorway/tutorway-api/internal/store"
)

func newPgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "usuarios",
		ColumnName:     "nome",
		ConstraintName: constraint,
	}
}

// mockResult implements sql.Result for testing.
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) { return 0, m.err }
func (m mockResult) RowsAffected() (int64, error) { return m.rowsAffected, m.err }

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: store.ErrNotFound},
		{name: "email unique violation", err: newPgError("23505", "usuarios_email_key"), want: store.ErrEmailExists},
		{name: "unique violation under another constraint name", err: newPgError("23505", "usuarios_email_uniq"), want: store.ErrEmailExists},
		{name: "check violation", err: newPgError("23514", "usuarios_nome_check"), want: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502", ""), want: store.ErrInvalidEntity},
		{name: "foreign key violation", err: newPgError("23503", "fk"), want: store.ErrInvalidEntity},
		{
			name: "wrapped pg error",
			err:  fmt.Errorf("exec: %w", newPgError("23505", "usuarios_email_key")),
			want: store.ErrEmailExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := postgres.MapError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err, "original error must stay in the chain")
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, postgres.MapError(nil))
	})

	t.Run("unmapped errors pass through", func(t *testing.T) {
		plain := errors.New("connection reset")
		assert.Same(t, plain, postgres.MapError(plain))

		serialization := newPgError("40001", "")
		assert.Equal(t, error(serialization), postgres.MapError(serialization))
	})

	t.Run("unnamed unique violation is email exists", func(t *testing.T) {
		assert.ErrorIs(t, postgres.MapError(newPgError("23505", "")), store.ErrEmailExists)
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.False(t, postgres.IsUniqueViolation(nil))
	assert.False(t, postgres.IsUniqueViolation(errors.New("generic error")))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23503", "")))
	assert.True(t, postgres.IsUniqueViolation(newPgError("23505", "usuarios_email_key")))
	assert.True(t, postgres.IsUniqueViolation(fmt.Errorf("wrapped: %w", newPgError("23505", ""))))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.CheckRowsAffected(mockResult{rowsAffected: 1}, store.ErrAccountNotFound))
	assert.ErrorIs(t, postgres.CheckRowsAffected(mockResult{}, store.ErrAccountNotFound), store.ErrAccountNotFound)
	assert.ErrorIs(t, postgres.CheckRowsAffected(mockResult{}, nil), store.ErrNotFound)
	assert.Error(t, postgres.CheckRowsAffected(nil, nil))

	resultErr := errors.New("driver does not support RowsAffected")
	assert.ErrorIs(t, postgres.CheckRowsAffected(mockResult{err: resultErr}, nil), resultErr)
}
