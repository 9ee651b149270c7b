package users

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidUsername    = errors.New("username must contain only letters and numbers")
	ErrEmailTaken         = errors.New("account already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("user not found")
	ErrForbidden          = errors.New("forbidden")

	ErrTokensNotConfigured = errors.New("token issuer not configured")
)
