package impl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"employee-portal/internal/domain"
	"employee-portal/internal/observability/middleware"
	"employee-portal/internal/store"
)

// dataStore is the slice of *store.Store the services need. Outside a
// transaction the sub-stores run against the root handle.
type dataStore interface {
	storeTx
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
}

type storeTx interface {
	Users() userStore
	Sessions() sessionStore
	Registrations() registrationStore
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id domain.UserID, changes map[string]any) error
	SetStatus(ctx context.Context, id domain.UserID, status string) error
	SetPassword(ctx context.Context, id domain.UserID, secret string) error
	TouchLastLogin(ctx context.Context, id domain.UserID, at time.Time) error
	Delete(ctx context.Context, id domain.UserID) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountAdmins(ctx context.Context) (int64, error)
	LastLogin(ctx context.Context) (*time.Time, error)
}

type sessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, token string) (bool, error)
	GetUser(ctx context.Context, token string) (*domain.User, error)
	DeleteAllForUser(ctx context.Context, userID domain.UserID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type registrationStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.RegistrationToken, error)
	FindByEmailAndToken(ctx context.Context, email, token string) (*domain.RegistrationToken, error)
	FindByToken(ctx context.Context, token string) (*domain.RegistrationToken, error)
	UnusedTokenExists(ctx context.Context, token string) (bool, error)
	Create(ctx context.Context, tok *domain.RegistrationToken) error
	Replace(ctx context.Context, id int64, tok *domain.RegistrationToken) error
	MarkUsed(ctx context.Context, id int64, at time.Time) (bool, error)
	CountPending(ctx context.Context, now time.Time) (int64, error)
}

type gormStoreAdapter struct {
	store *store.Store
}

func newDataStore(st *store.Store) dataStore { return gormStoreAdapter{store: st} }

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

func (g gormStoreAdapter) Users() userStore                 { return g.store.Users() }
func (g gormStoreAdapter) Sessions() sessionStore           { return g.store.Sessions() }
func (g gormStoreAdapter) Registrations() registrationStore { return g.store.Registrations() }

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Users() userStore                 { return g.tx.Users() }
func (g gormTxAdapter) Sessions() sessionStore           { return g.tx.Sessions() }
func (g gormTxAdapter) Registrations() registrationStore { return g.tx.Registrations() }

func isNotFound(err error) bool { return errors.Is(err, store.ErrRecordNotFound) }

func isDuplicate(err error) bool { return errors.Is(err, store.ErrDuplicateKey) }

func requestAttrs(ctx context.Context) []any {
	return []any{
		slog.String("request_id", middleware.RequestIDFromContext(ctx)),
		slog.String("trace_id", middleware.TraceIDFromContext(ctx)),
	}
}

func utcNow() time.Time { return time.Now().UTC() }
