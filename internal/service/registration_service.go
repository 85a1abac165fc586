package service

import (
	"context"

	"employee-portal/internal/dto"
)

type RegistrationService interface {
	Request(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error)
	Complete(ctx context.Context, r dto.CompleteRegistrationRequest) (*dto.SessionResponse, error)
}
