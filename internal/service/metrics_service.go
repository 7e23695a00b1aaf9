package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the domain counters.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeMiss    = "miss"
	OutcomeSkipped = "skipped"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	draftDuration      *prometheus.HistogramVec
	draftTotal         *prometheus.CounterVec
	generationDuration prometheus.Histogram
	generationTotal    *prometheus.CounterVec
	suggestionTotal    *prometheus.CounterVec
	workspaces         prometheus.Gauge
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	draftDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "draft_store_operation_seconds",
		Help:    "Latency of draft store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	draftTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "draft_store_operations_total",
		Help: "Draft store operations by outcome",
	}, []string{"operation", "outcome"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "module_generation_seconds",
		Help:    "Duration of full module generation calls",
		Buckets: []float64{1, 5, 10, 20, 40, 60, 90, 120, 180},
	})

	generationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "module_generations_total",
		Help: "Full module generations by outcome",
	}, []string{"outcome"})

	suggestionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "field_suggestions_total",
		Help: "Field suggestions by field and outcome",
	}, []string{"field", "outcome"})

	workspaces := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "workspaces_active",
		Help: "Profiles with an in-memory workspace",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, draftDuration, draftTotal, generationDuration, generationTotal, suggestionTotal, workspaces, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:           registry,
		handler:            handler,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		draftDuration:      draftDuration,
		draftTotal:         draftTotal,
		generationDuration: generationDuration,
		generationTotal:    generationTotal,
		suggestionTotal:    suggestionTotal,
		workspaces:         workspaces,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveDraftOperation records one draft store call.
func (m *MetricsService) ObserveDraftOperation(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.draftDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.draftTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveGeneration records a finished full module generation.
func (m *MetricsService) ObserveGeneration(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.generationDuration.Observe(duration.Seconds())
	m.generationTotal.WithLabelValues(outcome).Inc()
}

// RecordSuggestion counts a finished suggestion request.
func (m *MetricsService) RecordSuggestion(field, outcome string) {
	if m == nil {
		return
	}
	m.suggestionTotal.WithLabelValues(field, outcome).Inc()
}

// SetActiveWorkspaces reports the registry size.
func (m *MetricsService) SetActiveWorkspaces(n int) {
	if m == nil {
		return
	}
	m.workspaces.Set(float64(n))
}
