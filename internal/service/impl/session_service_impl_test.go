package impl

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employee-portal/internal/domain"
	"employee-portal/internal/store"
	"employee-portal/internal/testutil"
)

func TestSessionCreateTokensAreDistinct(t *testing.T) {
	st := testutil.NewStore(t)
	a := testutil.CreateUser(t, st, "a@company.com", "pw", false)
	b := testutil.CreateUser(t, st, "b@company.com", "pw", true)
	svc := NewSessionServiceImpl(st, nil)
	ctx := context.Background()

	const perUser = 20
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		tokens = map[string]domain.UserID{}
	)
	for i := 0; i < perUser; i++ {
		for _, id := range []domain.UserID{a.ID, b.ID} {
			wg.Add(1)
			go func(id domain.UserID) {
				defer wg.Done()
				token, err := svc.Create(ctx, id)
				assert.NoError(t, err)
				mu.Lock()
				tokens[token] = id
				mu.Unlock()
			}(id)
		}
	}
	wg.Wait()

	require.Len(t, tokens, 2*perUser)
	for token, id := range tokens {
		assert.True(t, strings.HasPrefix(token, domain.SessionTokenPrefix))
		assert.Len(t, token, len(domain.SessionTokenPrefix)+2*sessionTokenBytes)

		user, err := svc.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
	}
}

func TestSessionRevokeIsIdempotent(t *testing.T) {
	st := testutil.NewStore(t)
	u := testutil.CreateUser(t, st, "a@company.com", "pw", false)
	svc := NewSessionServiceImpl(st, nil)
	ctx := context.Background()

	token, err := svc.Create(ctx, u.ID)
	require.NoError(t, err)

	revoked, err := svc.Revoke(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = svc.Revoke(ctx, token)
	require.NoError(t, err)
	assert.False(t, revoked)

	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	revoked, err = svc.Revoke(ctx, "  ")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestSessionResolveWithoutToken(t *testing.T) {
	svc := NewSessionServiceImpl(testutil.NewStore(t), nil)
	_, err := svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrSessionRequired)

	_, err = svc.Resolve(context.Background(), "session-unknown")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

// sequence returns the given tokens in order, repeating the last one.
func sequence(tokens ...string) (func() (string, error), *int) {
	calls := 0
	return func() (string, error) {
		i := calls
		if i >= len(tokens) {
			i = len(tokens) - 1
		}
		calls++
		return tokens[i], nil
	}, &calls
}

func TestSessionCreateRetriesOnCollision(t *testing.T) {
	st := testutil.NewStore(t)
	u := testutil.CreateUser(t, st, "a@company.com", "pw", false)
	testutil.CreateSession(t, st, u.ID, "session-taken")

	svc := NewSessionServiceImpl(st, nil)
	var calls *int
	svc.newToken, calls = sequence("session-taken", "session-taken", "session-fresh")

	token, err := svc.Create(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "session-fresh", token)
	assert.Equal(t, 3, *calls)
}

func TestSessionCreateGivesUpAfterFinalAttempt(t *testing.T) {
	st := testutil.NewStore(t)
	u := testutil.CreateUser(t, st, "a@company.com", "pw", false)
	testutil.CreateSession(t, st, u.ID, "session-taken")

	svc := NewSessionServiceImpl(st, nil)
	var calls *int
	svc.newToken, calls = sequence("session-taken")

	_, err := svc.Create(context.Background(), u.ID)
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
	assert.Equal(t, maxSessionTokenAttempts+1, *calls)
}

func TestSessionCreateStopsOnOtherErrors(t *testing.T) {
	st := testutil.NewStore(t)
	svc := NewSessionServiceImpl(st, nil)
	var calls *int
	svc.newToken, calls = sequence("session-orphan")

	// user 999 does not exist, so the foreign key rejects the insert
	_, err := svc.Create(context.Background(), 999)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrDuplicateKey)
	assert.Equal(t, 1, *calls)
}
