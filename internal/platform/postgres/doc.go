// Package postgres provides the PostgreSQL implementation of the account
// store defined in internal/store, together with the embedded goose
// migrations that create its schema. Driver errors are classified once in
// MapError so callers only ever see store sentinels.
package postgres
