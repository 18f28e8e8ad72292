// Package httpapi implements the HTTP façade (§15): a net/http ServeMux
// exposing the federator's read-path routes over the Facade.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"lokifederation/internal/backend"
	"lokifederation/internal/model"
	"lokifederation/pkg/metrics"
)

// Facade is the subset of federation.Facade the façade depends on, narrowed
// to an interface so handlers can be tested against a scripted double.
type Facade interface {
	Query(ctx context.Context, opts backend.QueryOptions) (model.QueryResponse, error)
	QueryRange(ctx context.Context, opts backend.QueryRangeOptions) (model.QueryResponse, error)
	Labels(ctx context.Context, opts backend.LabelsOptions) (model.LabelResponse, error)
	LabelValues(ctx context.Context, opts backend.LabelValuesOptions) (model.LabelResponse, error)
	Series(ctx context.Context, opts backend.SeriesOptions) (model.SeriesResponse, error)
}

// Server holds the façade's dependencies for route registration.
type Server struct {
	facade Facade
	log    *slog.Logger
}

// NewServer builds a Server bound to the given Facade.
func NewServer(facade Facade, log *slog.Logger) *Server {
	return &Server{facade: facade, log: log}
}

// Mux builds the route table in §6/§15. metricsEnabled controls whether
// /metrics is registered; the federation core holds no connections to
// health-check, so /ready always returns 200.
func (s *Server) Mux(metricsEnabled bool) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ready", s.handleReady)

	mux.HandleFunc("GET /loki/api/v1/query", s.handleQuery)
	mux.HandleFunc("GET /loki/api/v1/query_range", s.handleQueryRange)
	mux.HandleFunc("GET /loki/api/v1/labels", s.handleLabels)
	mux.HandleFunc("GET /loki/api/v1/label", s.handleLabels)
	mux.HandleFunc("GET /loki/api/v1/label/{label}/values", s.handleLabelValues)
	mux.HandleFunc("GET /loki/api/v1/series", s.handleSeries)
	mux.HandleFunc("POST /loki/api/v1/series", s.handleSeries)

	if metricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	return loggingMiddleware(s.log)(mux)
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
