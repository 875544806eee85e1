package services

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound covers both a genuinely missing record and one owned by a
	// different user; callers must not be able to tell the cases apart.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a wishlist save collides with a cafe the
	// caller already owns (same name and location).
	ErrDuplicate = errors.New("cafe already in collection")

	// ErrInvalidCredentials is returned for any login failure. The message is
	// deliberately the same whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUpstream signals a failure in an external collaborator (the media
	// host). Handlers translate it to a generic 500.
	ErrUpstream = errors.New("upstream service failure")
)

// ValidationError aggregates field-level validation messages into one error.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

func newValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
