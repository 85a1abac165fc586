package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employee-portal/internal/domain"
	"employee-portal/internal/dto"
	"employee-portal/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	st := testutil.NewStore(t)
	svc := NewUserServiceImpl(st, PlaintextPasswordService{}, nil)
	ctx := context.Background()

	created, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, created)

	admin, err := st.Users().GetByEmail(ctx, "admin@company.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, "admin12345", admin.Password)

	employee, err := st.Users().GetByEmail(ctx, "employee@company.com")
	require.NoError(t, err)
	assert.False(t, employee.IsAdmin)
	assert.Equal(t, "Розробка", employee.Department)
}

func TestSeedDefaultsHashesWithArgon2id(t *testing.T) {
	st := testutil.NewStore(t)
	svc := NewUserServiceImpl(st, cheapArgon2id(), nil)
	_, err := svc.SeedDefaults(context.Background())
	require.NoError(t, err)

	employee, err := st.Users().GetByEmail(context.Background(), "employee@company.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", employee.Password)
	_, ok := cheapArgon2id().Verify("password123", employee.Password)
	assert.True(t, ok)
}

func TestUserServiceCreate(t *testing.T) {
	st := testutil.NewStore(t)
	svc := NewUserServiceImpl(st, PlaintextPasswordService{}, nil)
	ctx := context.Background()

	u, err := svc.Create(ctx, dto.CreateUserRequest{
		Name: "Марія", Email: "Maria@Company.com", Password: "pw12345678",
		Tags: dto.TagList{"design", " ", "ux"},
	})
	require.NoError(t, err)
	assert.Equal(t, "maria@company.com", u.Email)
	assert.Equal(t, domain.DefaultStatus, u.Status)
	assert.Equal(t, []string{"design", "ux"}, u.Tags)

	_, err = svc.Create(ctx, dto.CreateUserRequest{Name: "x", Email: "MARIA@company.com", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.Create(ctx, dto.CreateUserRequest{Name: "x", Email: "x@company.com"})
	assert.ErrorIs(t, err, ErrMissingUserFields)
}

func TestUserServiceUpdatePartial(t *testing.T) {
	st := testutil.NewStore(t)
	svc := NewUserServiceImpl(st, PlaintextPasswordService{}, nil)
	ctx := context.Background()
	u := testutil.CreateUser(t, st, "a@company.com", "pw", false)
	testutil.CreateUser(t, st, "b@company.com", "pw", false)

	got, err := svc.Update(ctx, u.ID, dto.UpdateUserRequest{
		JobTitle: ptr("QA Lead"),
		IsAdmin:  ptr(true),
		Tags:     ptr(dto.TagList{"qa"}),
		Name:     ptr("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "QA Lead", got.JobTitle)
	assert.True(t, got.IsAdmin)
	assert.Equal(t, []string{"qa"}, got.Tags)
	assert.Equal(t, "a@company.com", got.Name, "blank name is ignored")
	assert.Equal(t, "QA", got.Department, "absent fields keep their value")

	_, err = svc.Update(ctx, u.ID, dto.UpdateUserRequest{Email: ptr("B@company.com")})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.Update(ctx, 999, dto.UpdateUserRequest{Name: ptr("ghost")})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.Update(ctx, u.ID, dto.UpdateUserRequest{Password: ptr("new-secret")})
	require.NoError(t, err)
	stored, err := st.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-secret", stored.Password)
}

func TestUserServiceDeleteRemovesSessions(t *testing.T) {
	st := testutil.NewStore(t)
	svc := NewUserServiceImpl(st, PlaintextPasswordService{}, nil)
	ctx := context.Background()
	u := testutil.CreateUser(t, st, "a@company.com", "pw", false)
	testutil.CreateSession(t, st, u.ID, "session-a")

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), domain.ErrUserNotFound)

	n, err := st.Sessions().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUserServiceUpdateStatus(t *testing.T) {
	st := testutil.NewStore(t)
	svc := NewUserServiceImpl(st, PlaintextPasswordService{}, nil)
	ctx := context.Background()
	u := testutil.CreateUser(t, st, "a@company.com", "pw", false)

	got, err := svc.UpdateStatus(ctx, u.ID, "  На зустрічі ")
	require.NoError(t, err)
	assert.Equal(t, "На зустрічі", got.Status)

	_, err = svc.UpdateStatus(ctx, u.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyStatus)
}

func TestUserServiceOverview(t *testing.T) {
	st := testutil.NewStore(t)
	users := NewUserServiceImpl(st, PlaintextPasswordService{}, nil)
	ctx := context.Background()
	_, err := users.SeedDefaults(ctx)
	require.NoError(t, err)

	admin, err := st.Users().GetByEmail(ctx, "admin@company.com")
	require.NoError(t, err)
	testutil.CreateSession(t, st, admin.ID, "session-admin")


	auth := NewAuthServiceImpl(st, PlaintextPasswordService{}, NewSessionServiceImpl(st, nil), nil)
	_, err = auth.Login(ctx, dto.LoginRequest{Email: "employee@company.com", Password: "password123"})
	require.NoError(t, err)

	out, err := users.Overview(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, out.Stats.ActiveSessions)
	assert.EqualValues(t, 2, out.Stats.Users)
	assert.EqualValues(t, 1, out.Stats.Admins)
	assert.EqualValues(t, 0, out.Stats.PendingRegistrations)
	assert.NotNil(t, out.Stats.LastLogin)
	assert.Len(t, out.Users, 2)
}
