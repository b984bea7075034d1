// Package domain contains the core business entities and validation rules of
// the account API. It is independent of any storage or transport concern.
package domain
