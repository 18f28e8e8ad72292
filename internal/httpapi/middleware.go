package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"lokifederation/pkg/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware mints a request ID and logs method/path/status/duration
// with a logger scoped by that ID, then records HTTP metrics — the gRPC unary
// logging interceptor's shape carried over to http.Handler. The request and
// its context are passed to the next handler unchanged.
func loggingMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := metrics.Get()
			tracker := metrics.NewRequestTracker(m.HTTPRequestsInFlight)
			tracker.Start(r.Method)
			defer tracker.End(r.Method)

			start := time.Now()
			requestID := uuid.New().String()
			reqLog := log.With("request_id", requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", duration.Milliseconds(),
			}
			if rec.status >= 500 {
				reqLog.Error("federation request failed", fields...)
			} else {
				reqLog.Info("federation request completed", fields...)
			}

			route := r.Pattern
			if route == "" {
				route = r.URL.Path
			}
			m.RecordHTTPRequest(route, rec.status, duration)
		})
	}
}
