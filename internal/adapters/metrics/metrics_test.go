package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"estate-agency/internal/core/port"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if matches(metric.GetLabel(), labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matches(pairs []*dto.LabelPair, want map[string]string) bool {
	for _, p := range pairs {
		if v, ok := want[p.GetName()]; ok && v != p.GetValue() {
			return false
		}
	}
	return true
}

func TestMetrics_CountsRoutePattern(t *testing.T) {
	m := New(false)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/counterparties/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/counterparties/1", "/api/counterparties/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	got := counterValue(t, m, "estate_agency_http_requests_total", map[string]string{
		"method": "GET",
		"route":  "/api/counterparties/{id}",
		"status": "404",
	})
	assert.Equal(t, 2.0, got)
}

func TestMetrics_QueueCounters(t *testing.T) {
	m := New(false)

	m.RecordConsumed(port.OutcomeProcessed)
	m.RecordConsumed(port.OutcomeProcessed)
	m.RecordConsumed(port.OutcomeFailed)
	m.RecordPublished(true)

	assert.Equal(t, 2.0, counterValue(t, m, "estate_agency_queue_messages_consumed_total", map[string]string{"outcome": "processed"}))
	assert.Equal(t, 1.0, counterValue(t, m, "estate_agency_queue_messages_consumed_total", map[string]string{"outcome": "failed"}))
	assert.Equal(t, 0.0, counterValue(t, m, "estate_agency_queue_messages_consumed_total", map[string]string{"outcome": "dropped"}))
	assert.Equal(t, 1.0, counterValue(t, m, "estate_agency_queue_messages_published_total", map[string]string{"success": "true"}))
}

func TestMetrics_HandlerExposesText(t *testing.T) {
	m := New(true)
	m.RecordConsumed(port.OutcomeDropped)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `estate_agency_queue_messages_consumed_total{outcome="dropped"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
