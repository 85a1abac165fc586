package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"employee-portal/internal/domain"
	"employee-portal/internal/migrate"
	"employee-portal/internal/migrations"
	"employee-portal/internal/store"
	"employee-portal/pkg/db"
)

// OpenInMemoryDB opens a private in-memory SQLite database and applies the
// embedded migrations. The handle is closed on test cleanup.
func OpenInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(db.Config{URL: "file:" + uuid.NewString() + "?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	src, err := migrations.ForDialect(db.DialectSQLite)
	if err != nil {
		t.Fatalf("migrations: %v", err)
	}
	if _, err := migrate.New(gdb, src, nil).Up(context.Background()); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func NewStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(OpenInMemoryDB(t))
}

// CreateUser inserts a user with a plaintext password.
func CreateUser(t *testing.T, st *store.Store, email, password string, admin bool) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:       email,
		Email:      email,
		Department: "QA",
		Password:   password,
		IsAdmin:    admin,
	}
	if err := st.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

// CreateSession inserts a session row for userID with the given token.
func CreateSession(t *testing.T, st *store.Store, userID domain.UserID, token string) {
	t.Helper()
	s := &domain.Session{Token: token, UserID: userID, CreatedAt: time.Now().UTC()}
	if err := st.Sessions().Create(context.Background(), s); err != nil {
		t.Fatalf("create session: %v", err)
	}
}
