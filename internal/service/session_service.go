package service

import (
	"context"

	"employee-portal/internal/domain"
)

type SessionService interface {
	Create(ctx context.Context, userID domain.UserID) (string, error)
	Revoke(ctx context.Context, token string) (bool, error)
	// Resolve returns domain.ErrSessionRequired for an empty token and
	// domain.ErrSessionNotFound for an unknown one.
	Resolve(ctx context.Context, token string) (*domain.User, error)
}
