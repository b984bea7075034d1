// Package service contains the account lifecycle use cases. It orchestrates
// the credential hasher, the account store (defined in internal/store) and
// the notification dispatcher, and translates their errors into the
// service-level sentinels the API layer maps to HTTP responses.
//
// The service depends on store interfaces only, never on a specific
// infrastructure implementation. Dependencies are injected through
// NewAccountService.
package service
