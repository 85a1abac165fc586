package service

import (
	"context"
	"time"
)

type RegistrationEmail struct {
	To        string
	Name      string
	Code      string
	Link      string
	ExpiresAt time.Time
}

type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, m RegistrationEmail) error
	// Preview reports whether mail is only logged, in which case the caller
	// may echo the confirmation link back.
	Preview() bool
}
