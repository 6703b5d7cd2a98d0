package application

import "errors"

var (
	// ErrInvalidCredentials covers bad logins and missing/invalid/expired
	// session credentials. Protected routes redirect to login on this error.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail is returned on registration conflicts; no write happens.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrUserNotFound is returned when a profile lookup misses.
	ErrUserNotFound = errors.New("user not found")

	// ErrOrderNotFound covers both truly absent orders and orders owned by
	// another user. Callers cannot tell the two apart.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidResetToken covers expired and tampered reset links.
	ErrInvalidResetToken = errors.New("invalid or expired reset link")
)
