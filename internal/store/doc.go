// Package store defines the account persistence contract and the errors
// every implementation must use. Business rules depend on these interfaces,
// never on a concrete database.
package store
