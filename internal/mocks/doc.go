// Package mocks provides centralized mock implementations for testing.
//
// Each mock has function fields for overriding individual methods and a
// simple default behavior, so tests only configure what they exercise:
//
//	accounts := mocks.NewMockAccountStore()
//	accounts.DeleteByIDFn = func(ctx context.Context, id int64) error {
//	    return errors.New("connection reset")
//	}
//
// When adding a new mock to this package, name the file after the
// interface being mocked.
package mocks
