package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()
	m.ObserveDraftOperation("save", OutcomeSuccess, 5*time.Millisecond)
	m.ObserveDraftOperation("save", OutcomeError, 5*time.Millisecond)
	m.ObserveGeneration(OutcomeSuccess, time.Second)
	m.RecordSuggestion("teacherNotes", OutcomeSkipped)
	m.SetActiveWorkspaces(3)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.draftTotal.WithLabelValues("save", OutcomeError)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.generationTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.suggestionTotal.WithLabelValues("teacherNotes", OutcomeSkipped)))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.workspaces))
}

func TestMetricsServiceHandler(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/form", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveDraftOperation("load", OutcomeMiss, time.Millisecond)
	m.ObserveGeneration(OutcomeError, time.Millisecond)
	m.RecordSuggestion("topic", OutcomeError)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
