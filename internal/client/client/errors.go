package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrValidation    = errors.New("validation failed")
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrUnexpected    = errors.New("unexpected server response")
	ErrInvalidConfig = errors.New("invalid client configuration")
)

// APIError is a non-2xx response from the server. It unwraps to one of the
// sentinel errors above, chosen by status code.
type APIError struct {
	Status   int
	Category string
	Message  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d): %s", e.Category, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case 400:
		return ErrValidation
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	case 502, 503, 504:
		return ErrUnavailable
	default:
		return ErrUnexpected
	}
}
