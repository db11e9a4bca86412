package domain

import "errors"

// Errors returned by UserRepository implementations. Callers match them
// with errors.Is; stores wrap driver failures separately.
var (
	// ErrUserAlreadyExists means a signup used an email that is taken.
	ErrUserAlreadyExists = errors.New("email already registered")
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, and an unusable session token.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("account not found")
)
