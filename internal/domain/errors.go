package domain

import "errors"

var (
	// ErrNotFound is returned by stores when a key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks rejected client input. *ValidationError matches it via errors.Is.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSendFailed is returned when the practice-facing notification could not be delivered.
	ErrSendFailed = errors.New("notification send failed")
	// ErrUnauthorized is returned when admin credentials do not match.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInviteExists is returned when a write-once invite key is already taken.
	ErrInviteExists = errors.New("invite already exists")
)
