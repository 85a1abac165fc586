package impl

import (
	"context"
	"log/slog"
	"time"

	"employee-portal/internal/domain"
	"employee-portal/internal/dto"
	"employee-portal/internal/observability/metrics"
	"employee-portal/internal/service"
	"employee-portal/internal/store"
)

type AuthServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	Sessions        service.SessionService
	Logger          *slog.Logger

	now func() time.Time
}

func NewAuthServiceImpl(st *store.Store, passwordService service.PasswordService, sessions service.SessionService, logger *slog.Logger) *AuthServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthServiceImpl{
		Store:           newDataStore(st),
		PasswordService: passwordService,
		Sessions:        sessions,
		Logger:          logger,
		now:             utcNow,
	}
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.SessionResponse, error) {
	email := domain.NormalizeEmail(r.Email)
	if email == "" || r.Password == "" {
		return nil, ErrEmptyCredential
	}

	var user *domain.User
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		u, err := tx.Users().GetByEmail(ctx, email)
		if isNotFound(err) {
			return domain.ErrInvalidCredentials // don't leak which field failed
		}
		if err != nil {
			return err
		}

		rehashNeeded, ok := a.PasswordService.Verify(r.Password, u.Password)
		if !ok {
			return domain.ErrInvalidCredentials
		}

		// transparent rehash on policy upgrade
		if rehashNeeded {
			secret, err := a.PasswordService.Hash(r.Password)
			if err != nil {
				return err
			}
			if err := tx.Users().SetPassword(ctx, u.ID, secret); err != nil {
				return err
			}
			u.Password = secret
		}

		now := a.currentTime()
		if err := tx.Users().TouchLastLogin(ctx, u.ID, now); err != nil {
			return err
		}
		u.LastLoginAt = &now
		user = u
		return nil
	})
	if err != nil {
		metrics.AuthLoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	token, err := a.Sessions.Create(ctx, user.ID)
	if err != nil {
		metrics.AuthLoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	metrics.AuthLoginsTotal.WithLabelValues("success").Inc()
	a.logger().InfoContext(ctx, "user logged in", append(requestAttrs(ctx), slog.Int64("user_id", user.ID))...)

	return &dto.SessionResponse{Token: token, User: dto.UserFromDomain(user)}, nil
}

func (a *AuthServiceImpl) Logout(ctx context.Context, token string) (bool, error) {
	return a.Sessions.Revoke(ctx, token)
}

func (a *AuthServiceImpl) currentTime() time.Time {
	if a.now == nil {
		return utcNow()
	}
	return a.now()
}

func (a *AuthServiceImpl) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}
