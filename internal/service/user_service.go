package service

import (
	"context"

	"employee-portal/internal/domain"
	"employee-portal/internal/dto"
)

type UserService interface {
	Get(ctx context.Context, id domain.UserID) (*dto.User, error)
	List(ctx context.Context) ([]dto.User, error)
	Create(ctx context.Context, r dto.CreateUserRequest) (*dto.User, error)
	Update(ctx context.Context, id domain.UserID, r dto.UpdateUserRequest) (*dto.User, error)
	Delete(ctx context.Context, id domain.UserID) error
	UpdateStatus(ctx context.Context, id domain.UserID, status string) (*dto.User, error)
	Overview(ctx context.Context) (*dto.OverviewResponse, error)
	// SeedDefaults inserts the built-in accounts that are missing and
	// returns how many were created.
	SeedDefaults(ctx context.Context) (int, error)
}
