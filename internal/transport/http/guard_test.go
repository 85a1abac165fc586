package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		bearer string
		want   string
	}{
		{name: "session header", header: "session-a", want: "session-a"},
		{name: "bearer", bearer: "Bearer session-b", want: "session-b"},
		{name: "bearer lowercase", bearer: "bearer   session-c ", want: "session-c"},
		{name: "header wins", header: "session-a", bearer: "Bearer session-b", want: "session-a"},
		{name: "basic auth ignored", bearer: "Basic dXNlcjpwdw==", want: ""},
		{name: "empty bearer", bearer: "Bearer ", want: ""},
		{name: "nothing", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tc.header != "" {
				r.Header.Set(HeaderSessionToken, tc.header)
			}
			if tc.bearer != "" {
				r.Header.Set("Authorization", tc.bearer)
			}
			assert.Equal(t, tc.want, SessionToken(r))
		})
	}
}

func TestRequireUser(t *testing.T) {
	g := testGuard()

	rec := httptest.NewRecorder()
	_, _, ok := g.RequireUser(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Потрібен токен сесії", decodeBody(t, rec)["message"])

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set(HeaderSessionToken, "session-gone")
	rec = httptest.NewRecorder()
	_, _, ok = g.RequireUser(rec, req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Сесію не знайдено", decodeBody(t, rec)["message"])

	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set(HeaderSessionToken, "session-user")
	rec = httptest.NewRecorder()
	user, token, ok := g.RequireUser(rec, req)
	require.True(t, ok)
	assert.EqualValues(t, 2, user.ID)
	assert.Equal(t, "session-user", token)
	assert.Zero(t, rec.Body.Len(), "an accepted request writes nothing")
}

func TestRequireAdminAcceptsAdmin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/overview", nil)
	req.Header.Set(HeaderSessionToken, "session-admin")
	rec := httptest.NewRecorder()

	user, ok := testGuard().RequireAdmin(rec, req)
	require.True(t, ok)
	assert.True(t, user.IsAdmin)
}
