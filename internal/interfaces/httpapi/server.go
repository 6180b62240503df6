package httpapi

import (
	"net/http"

	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

// NewRouter wires the report routes behind tracing, request logging, CORS
// and panic recovery, outermost first.
func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerReportRoutes(mux, handler)

	var h http.Handler = mux
	h = recoverPanic(logger, h)
	h = CORS(corsAllowedOrigins, h)
	h = RequestLogging(logger, h)
	return RequestTracing(h)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "http_path", r.URL.Path)
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
