package http

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"employee-portal/internal/domain"
	"employee-portal/internal/observability/metrics"
	"employee-portal/internal/service"
)

const HeaderSessionToken = "X-Session-Token"

var bearerPattern = regexp.MustCompile(`(?i)^Bearer\s+(.+)$`)

// SessionToken reads the session header first and falls back to an
// Authorization bearer token.
func SessionToken(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(HeaderSessionToken)); v != "" {
		return v
	}
	if m := bearerPattern.FindStringSubmatch(strings.TrimSpace(r.Header.Get("Authorization"))); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Guard resolves bearer sessions. On rejection it writes the response
// itself; callers only need to stop.
type Guard struct {
	sessions service.SessionService
	errs     *errorWriter
}

func NewGuard(sessions service.SessionService, errs *errorWriter) *Guard {
	return &Guard{sessions: sessions, errs: errs}
}

func (g *Guard) RequireUser(w http.ResponseWriter, r *http.Request) (*domain.User, string, bool) {
	token := SessionToken(r)
	if token == "" {
		g.reject(w, r, "user", http.StatusUnauthorized, "Потрібен токен сесії")
		return nil, "", false
	}
	user, ok := g.resolve(w, r, "user", token)
	return user, token, ok
}

func (g *Guard) RequireAdmin(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	token := SessionToken(r)
	if token == "" {
		g.reject(w, r, "admin", http.StatusUnauthorized, "Потрібен токен сесії адміністратора")
		return nil, false
	}
	user, ok := g.resolve(w, r, "admin", token)
	if !ok {
		return nil, false
	}
	if !user.IsAdmin {
		g.reject(w, r, "admin", http.StatusForbidden, "Доступ дозволено лише адміністраторам")
		return nil, false
	}
	return user, true
}

func (g *Guard) resolve(w http.ResponseWriter, r *http.Request, guard, token string) (*domain.User, bool) {
	user, err := g.sessions.Resolve(r.Context(), token)
	switch {
	case err == nil:
		return user, true
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionRequired):
		g.reject(w, r, guard, http.StatusUnauthorized, "Сесію не знайдено")
	default:
		metrics.GuardRejectionsTotal.WithLabelValues(guard, "500").Inc()
		g.errs.write(w, r, err)
	}
	return nil, false
}

func (g *Guard) reject(w http.ResponseWriter, r *http.Request, guard string, status int, message string) {
	metrics.GuardRejectionsTotal.WithLabelValues(guard, strconv.Itoa(status)).Inc()
	g.errs.writeMessage(w, r, status, message, nil)
}
