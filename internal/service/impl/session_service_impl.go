package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"employee-portal/internal/domain"
	"employee-portal/internal/observability/metrics"
	"employee-portal/internal/store"
)

// maxSessionTokenAttempts bounds collision retries before the final
// unchecked insert.
const maxSessionTokenAttempts = 5

const sessionTokenBytes = 16

type SessionServiceImpl struct {
	Store  dataStore
	Logger *slog.Logger

	newToken func() (string, error)
	now      func() time.Time
}

func NewSessionServiceImpl(st *store.Store, logger *slog.Logger) *SessionServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionServiceImpl{
		Store:    newDataStore(st),
		Logger:   logger,
		newToken: newSessionToken,
		now:      utcNow,
	}
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return domain.SessionTokenPrefix + hex.EncodeToString(buf), nil
}

// Create mints a session token for userID. A token collision is retried
// with a fresh token up to maxSessionTokenAttempts times, then one last
// insert is attempted without further retry.
func (s *SessionServiceImpl) Create(ctx context.Context, userID domain.UserID) (string, error) {
	sessions := s.Store.Sessions()
	for attempt := 0; attempt < maxSessionTokenAttempts; attempt++ {
		token, err := s.insert(ctx, sessions, userID)
		if err == nil {
			return token, nil
		}
		if !isDuplicate(err) {
			metrics.SessionsIssuedTotal.WithLabelValues("failure").Inc()
			return "", fmt.Errorf("create session: %w", err)
		}
		metrics.SessionsIssuedTotal.WithLabelValues("collision").Inc()
	}

	token, err := s.insert(ctx, sessions, userID)
	if err != nil {
		metrics.SessionsIssuedTotal.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

func (s *SessionServiceImpl) insert(ctx context.Context, sessions sessionStore, userID domain.UserID) (string, error) {
	token, err := s.newToken()
	if err != nil {
		return "", err
	}
	if err := sessions.Create(ctx, &domain.Session{Token: token, UserID: userID, CreatedAt: s.now()}); err != nil {
		return "", err
	}
	metrics.SessionsIssuedTotal.WithLabelValues("success").Inc()
	s.Logger.InfoContext(ctx, "issued session", append(requestAttrs(ctx), slog.Int64("user_id", userID))...)
	return token, nil
}

func (s *SessionServiceImpl) Revoke(ctx context.Context, token string) (bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, nil
	}
	removed, err := s.Store.Sessions().Delete(ctx, token)
	if err != nil {
		return false, fmt.Errorf("revoke session: %w", err)
	}
	if removed {
		metrics.SessionsRevokedTotal.Inc()
	}
	return removed, nil
}

func (s *SessionServiceImpl) Resolve(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrSessionRequired
	}
	user, err := s.Store.Sessions().GetUser(ctx, token)
	if isNotFound(err) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return user, nil
}
