package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AuthLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"result"},
	)

	AuthRegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Registration requests and completions by outcome.",
		},
		[]string{"flow", "result"},
	)

	SessionsIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_sessions_issued_total",
			Help: "Session tokens minted, and token collisions retried.",
		},
		[]string{"result"},
	)

	SessionsRevokedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_sessions_revoked_total",
			Help: "Session tokens actually removed on logout.",
		},
	)

	GuardRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_guard_rejections_total",
			Help: "Requests rejected by the user/admin guards.",
		},
		[]string{"guard", "status"},
	)

	MigrationsAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schema_migrations_applied_total",
			Help: "Schema migrations applied at boot.",
		},
		[]string{"result"},
	)
)

// MustRegister registers every collector on the default registry with a
// constant service label.
func MustRegister(serviceName string) {
	reg := prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, prometheus.DefaultRegisterer)
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		AuthLoginsTotal,
		AuthRegistrationsTotal,
		SessionsIssuedTotal,
		SessionsRevokedTotal,
		GuardRejectionsTotal,
		MigrationsAppliedTotal,
	)
}
