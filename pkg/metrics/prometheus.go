package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the federator's Prometheus metric set.
type Metrics struct {
	// HTTP façade metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Per-backend fan-out metrics.
	BackendRequestsTotal   *prometheus.CounterVec
	BackendRequestDuration *prometheus.HistogramVec
	BackendErrorsTotal     *prometheus.CounterVec

	// Merge-stage metrics.
	MergeDuration      *prometheus.HistogramVec
	MergedStreamsTotal *prometheus.HistogramVec
	FanoutConcurrency  prometheus.Gauge

	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics builds and registers the federator's metric set.
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP façade requests",
			},
			[]string{"route", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP façade requests",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"route"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP façade requests being processed",
			},
		),

		BackendRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "backend_requests_total",
				Help:      "Total number of requests fanned out to federated backends",
			},
			[]string{"backend", "operation", "status"},
		),

		BackendRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "backend_request_duration_seconds",
				Help:      "Duration of a single backend's leg of a fan-out call",
				Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"backend", "operation"},
		),

		BackendErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "backend_errors_total",
				Help:      "Total number of per-backend errors, by taxonomy kind and severity",
			},
			[]string{"backend", "kind", "severity"},
		),

		MergeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "merge_duration_seconds",
				Help:      "Duration of the merge stage across a fan-out call's outcomes",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5},
			},
			[]string{"operation"},
		),

		MergedStreamsTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "merged_streams_total",
				Help:      "Number of distinct streams produced by a merged query response",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
			},
			[]string{"operation"},
		),

		FanoutConcurrency: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fanout_inflight_backends",
				Help:      "Current number of backend calls in flight across all fan-outs",
			},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service build information",
			},
			[]string{"version", "environment"},
		),
	}

	prometheus.MustRegister(NewRuntimeCollector(namespace, subsystem))

	defaultMetrics = m
	return m
}

// Get returns the process-wide metric set, lazily initializing it with the
// federator's default namespace if no one has called InitMetrics yet.
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("lokifederation", "")
	}
	return defaultMetrics
}

// RecordHTTPRequest records one façade request's outcome and latency.
func (m *Metrics) RecordHTTPRequest(route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordBackendRequest counts a single backend's leg of a fan-out call by
// outcome. It does not observe latency: callers time the call themselves with
// a Timer against BackendRequestDuration.
func (m *Metrics) RecordBackendRequest(backend, operation, status string) {
	m.BackendRequestsTotal.WithLabelValues(backend, operation, status).Inc()
}

// RecordBackendError records a per-backend failure by its error-taxonomy kind and severity.
func (m *Metrics) RecordBackendError(backend, kind, severity string) {
	m.BackendErrorsTotal.WithLabelValues(backend, kind, severity).Inc()
}

// RecordMerge records the merge stage's duration and the resulting stream count.
func (m *Metrics) RecordMerge(operation string, duration time.Duration, streamCount int) {
	m.MergeDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.MergedStreamsTotal.WithLabelValues(operation).Observe(float64(streamCount))
}

// SetServiceInfo publishes a constant gauge carrying the build's version and environment.
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler returns the HTTP handler serving /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
