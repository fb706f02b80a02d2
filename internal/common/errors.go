// Package common defines shared constants and sentinel errors used across
// the client and server layers of the task tracker. Callers should use
// errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Registration and login.
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Identity gate errors.
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Record-level authorization.
	ErrForbidden = errors.New("forbidden")

	// Malformed input at the boundary.
	ErrValidation = errors.New("validation error")
)

// NewValidationError reports a malformed field. The result matches
// ErrValidation with errors.Is.
func NewValidationError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}
