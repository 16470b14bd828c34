// Package shared defines sentinel errors used across ClassVault components.
// Callers should use errors.Is to match these values.
package shared

import "errors"

var (
	// Storage-medium errors.
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotFound           = errors.New("not found")

	// Mutation rejections.
	ErrValidation = errors.New("validation error")
	ErrEmailTaken = errors.New("email already registered")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")

	// Migration aborted mid-transform; the legacy record is preserved.
	ErrPartialMigration = errors.New("partial migration")

	// The document write committed but the paired user-record write did not.
	ErrCrossStoreInconsistency = errors.New("cross-store inconsistency")
)
