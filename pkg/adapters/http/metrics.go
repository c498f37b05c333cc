package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry
	appends  *prometheus.CounterVec
	rejected *prometheus.CounterVec
	requests *prometheus.CounterVec
}

// NewMetrics registers the API collectors on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		appends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toyrobot_positions_appended_total",
				Help: "Total number of position records appended",
			},
			[]string{"direction"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toyrobot_positions_rejected_total",
				Help: "Total number of position requests rejected by validation",
			},
			[]string{"reason"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toyrobot_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"method", "route", "code"},
		),
	}
	m.registry.MustRegister(m.appends, m.rejected, m.requests)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (for tests and extra collectors).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
