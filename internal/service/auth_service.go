package service

import (
	"context"

	"employee-portal/internal/dto"
)

type AuthService interface {
	Login(ctx context.Context, r dto.LoginRequest) (*dto.SessionResponse, error)
	// Logout revokes the token and reports whether a session was removed.
	Logout(ctx context.Context, token string) (bool, error)
}
