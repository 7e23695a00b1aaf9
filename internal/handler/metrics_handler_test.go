package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/modul-ajar-api/internal/service"
)

func TestMetricsHandlerReady(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	handler := NewMetricsHandler(service.NewMetricsService()).WithCheck("redis", healthy)

	c, w := newTestContext(http.MethodGet, "/ready", nil, "")
	handler.Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)

	handler.WithCheck("postgres", func(context.Context) error { return errors.New("connection refused") })
	c, w = newTestContext(http.MethodGet, "/ready", nil, "")
	handler.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"postgres":"connection refused"`)
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordSuggestion("teacherNotes", service.OutcomeSuccess)
	handler := NewMetricsHandler(metrics)

	c, w := newTestContext(http.MethodGet, "/metrics", nil, "")
	handler.Prometheus(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "field_suggestions_total")

	c, w = newTestContext(http.MethodGet, "/metrics", nil, "")
	NewMetricsHandler(nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, c.IsAborted())
}

func TestMetricsHandlerPrometheusThroughRouter(t *testing.T) {
	r := gin.New()
	r.GET("/metrics", NewMetricsHandler(nil).Prometheus)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, w.Body.String())

	metrics := service.NewMetricsService()
	metrics.RecordSuggestion("teacherNotes", service.OutcomeSuccess)
	r = gin.New()
	r.GET("/metrics", NewMetricsHandler(metrics).Prometheus)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "field_suggestions_total")
}
