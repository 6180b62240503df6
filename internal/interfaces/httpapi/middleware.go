package httpapi

import (
	"net/http"
	"strings"
	"time"

	corslib "github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogging writes one "http_request" entry per request with the trace
// ids of the request span.
func RequestLogging(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := logger.InfoContext
		if rec.status >= http.StatusInternalServerError {
			level = logger.WarnContext
		}
		level(r.Context(), "http_request",
			"http_method", r.Method,
			"http_path", r.URL.Path,
			"http_status", rec.status,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
}

// RequestTracing opens a server span per request except probes.
func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "football-etl-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return !isProbePath(r.URL.Path)
		}),
	)
}

func isProbePath(path string) bool {
	switch strings.ToLower(strings.TrimSpace(path)) {
	case "/healthz", "/livez", "/readyz":
		return true
	}
	return false
}

// CORS allows read-only cross-origin access from allowedOrigins. "*" allows
// any origin.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	c := corslib.New(corslib.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Cache-Control"},
		MaxAge:         600,
	})
	return c.Handler(next)
}
