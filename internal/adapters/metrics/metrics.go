package metrics

import (
	"net/http"
	"strconv"
	"time"

	"estate-agency/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "estate_agency"

// Metrics хранит собственный реестр, поэтому несколько экземпляров (например, в тестах)
// не конфликтуют друг с другом
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	consumed  *prometheus.CounterVec
	published *prometheus.CounterVec
}

// New регистрирует все коллекторы. withRuntime добавляет метрики процесса и Go runtime.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
		consumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "messages_consumed_total",
			Help:      "Application events taken from the queue, by outcome.",
		}, []string{"outcome"}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "messages_published_total",
			Help:      "Application events published by the generator.",
		}, []string{"success"}),
	}

	m.registry.MustRegister(m.httpInFlight, m.httpRequests, m.httpDuration, m.consumed, m.published)
	if withRuntime {
		m.registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
	}

	// метки итогов видны в выдаче сразу, даже с нулевыми значениями
	for _, outcome := range []string{port.OutcomeProcessed, port.OutcomeDropped, port.OutcomeFailed} {
		m.consumed.WithLabelValues(outcome)
	}
	return m
}

// Registry нужен для тестов и для сборки метрик вне HTTP
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware считает запросы по шаблону маршрута chi, а не по фактическому пути,
// чтобы id в URL не раздували число серий
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordConsumed реализует port.MetricsPort
func (m *Metrics) RecordConsumed(outcome string) {
	m.consumed.WithLabelValues(outcome).Inc()
}

// RecordPublished реализует port.MetricsPort
func (m *Metrics) RecordPublished(success bool) {
	m.published.WithLabelValues(strconv.FormatBool(success)).Inc()
}

var _ port.MetricsPort = (*Metrics)(nil)
