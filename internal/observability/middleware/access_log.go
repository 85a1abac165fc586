package middleware

import (
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"employee-portal/internal/netutil"
	"employee-portal/internal/observability/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// MetricPath collapses numeric path segments so entity ids do not explode
// label cardinality.
func MetricPath(p string) string {
	return numericSegment.ReplaceAllString(p, "/:id$1")
}

// WithAccessLog logs each request and records HTTP metrics.
func WithAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := r.Context()

		slog.Default().DebugContext(ctx, "incoming request",
			"request_id", RequestIDFromContext(ctx),
			"trace_id", TraceIDFromContext(ctx),
			"method", r.Method,
			"path", r.URL.Path,
		)

		next.ServeHTTP(sr, r)

		duration := time.Since(start)
		path := MetricPath(r.URL.Path)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sr.status)).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(r.Method, path).Observe(duration.Seconds())

		slog.Default().InfoContext(ctx, "finished request",
			"request_id", RequestIDFromContext(ctx),
			"trace_id", TraceIDFromContext(ctx),
			"method", r.Method,
			"path", r.URL.Path,
			"status", sr.status,
			"duration_ms", duration.Milliseconds(),
			"ip", netutil.ClientIP(r),
			"user_agent", netutil.TruncateUserAgent(r.UserAgent()),
		)
	})
}
