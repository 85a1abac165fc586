package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")

	ErrSessionRequired = errors.New("session token required")
	ErrSessionNotFound = errors.New("session not found")
	ErrAdminRequired   = errors.New("admin access required")

	ErrTokenNotFound = errors.New("registration token not found")
	ErrTokenUsed     = errors.New("registration token already used")
	ErrTokenExpired  = errors.New("registration token expired")
	ErrAccountActive = errors.New("account already activated")
)
