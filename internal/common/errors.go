// Package common defines shared constants and sentinel errors used across
// the client and server layers of Territory Keeper. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrorStorageCorrupt signals that the local record store could not be
	// parsed. Callers treat the store as empty and keep going.
	ErrorStorageCorrupt = errors.New("storage corrupt")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrorAlreadyExists         = errors.New("already exists")
	ErrorInvalidLoginPassword  = errors.New("invalid email/password")
	ErrorInvalidPasswordFormat = errors.New("invalid password format")

	// Read-only records never reach a mutating operation.
	ErrorReadOnlyRecord = errors.New("record is read-only")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Report collaborator terminal failure (after retries are exhausted
	// or on a malformed/empty response).
	ErrorReportFailed = errors.New("report generation failed")
)
