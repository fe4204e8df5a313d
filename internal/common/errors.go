// Package common defines shared constants and sentinel errors used across the
// layers of the task service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors. ErrorValidation is the sentinel every field-level
	// problem wraps, so callers can match the whole class with errors.Is.
	ErrorValidation = errors.New("validation error")
	ErrEmailTaken   = errors.New("email already in use")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
