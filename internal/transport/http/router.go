package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"employee-portal/internal/observability/middleware"
	"employee-portal/internal/service"
)

type Deps struct {
	Auth         service.AuthService
	Registration service.RegistrationService
	Users        service.UserService
	Sessions     service.SessionService
	Health       HealthFunc
	Logger       *slog.Logger

	ExposeErrors   bool
	TrustProxy     bool
	RequestTimeout time.Duration
}

// NewRouter wraps the portal dispatcher in the shared middleware stack.
// /metrics is served by chi directly; every other path goes to the
// dispatcher, which also answers preflight requests.
func NewRouter(d Deps) http.Handler {
	errs := newErrorWriter(d.ExposeErrors, d.Logger)
	guard := NewGuard(d.Sessions, errs)
	h := &Handler{
		auth:         d.Auth,
		registration: d.Registration,
		users:        d.Users,
		guard:        guard,
		errs:         errs,
		health:       d.Health,
	}
	dispatcher := NewDispatcher(guard, h.Routes())

	r := chi.NewRouter()
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.WithRequestAndTrace)
	r.Use(middleware.WithAccessLog)
	r.Use(chimw.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:     []string{"Content-Type", HeaderSessionToken, "Authorization"},
		ExposedHeaders:     []string{middleware.HeaderRequestID},
		OptionsPassthrough: true,
		MaxAge:             300,
	}))

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Handle("/*", dispatcher)
	return r
}
