package auth

import "errors"

var (
	ErrMissingCredentials       = errors.New("auth: email and password required")
	ErrInvalidCredentials       = errors.New("auth: invalid email or password")
	ErrCredentialsNotConfigured = errors.New("auth: credentials record not found")
)
