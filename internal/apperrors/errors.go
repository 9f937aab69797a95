package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	// Login failures collapse to this single error so callers can't tell
	// unknown email from wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is inactive")

	ErrInvalidToken = errors.New("token is malformed or has invalid signature")
	ErrTokenExpired = errors.New("token is expired")

	// Covers unknown, revoked and already rotated sessions alike
	ErrSessionNotFound = errors.New("session not found")

	ErrDuplicateToken = errors.New("refresh token already exists")

	ErrStoreUnavailable = errors.New("session store unavailable")
)
