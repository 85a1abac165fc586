package impl

import "errors"

var (
	ErrEmptyPassword     = errors.New("empty password")
	ErrEmptyCredential   = errors.New("empty credential(s)")
	ErrEmptyEmail        = errors.New("empty email")
	ErrEmptyToken        = errors.New("empty registration token or password")
	ErrPasswordLength    = errors.New("password too short")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrEmptyStatus       = errors.New("empty status")
	ErrMissingUserFields = errors.New("name, email and password are required")
	ErrMailDelivery      = errors.New("confirmation mail not delivered")
)
