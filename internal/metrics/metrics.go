// Package metrics exposes Prometheus instrumentation for the HTTP server
// and the lab store.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/lab-lighting/internal/labstore"
)

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	requests       *prometheus.CounterVec
	mutations      *prometheus.CounterVec
	persistErrors  prometheus.Counter
	persistLatency prometheus.Histogram
}

// New registers every collector.  energy, when non-nil, backs the
// lab_energy_watts gauge and is evaluated on each scrape.
func New(energy func() float64) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "labstore_mutations_total",
			Help: "Committed lab state changes by event type.",
		}, []string{"type"}),
		persistErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "labstore_persist_failures_total",
			Help: "Snapshot writes that failed.",
		}),
		persistLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "labstore_persist_seconds",
			Help:    "Time spent writing one snapshot.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.mutations, m.persistErrors, m.persistLatency,
	)
	if energy != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "lab_energy_watts",
			Help: "Estimated draw of every powered light.",
		}, energy))
	}
	return m
}

// Middleware counts requests by matched route so path parameters do not
// explode label cardinality.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			code := c.Response().Status
			if err != nil && !c.Response().Committed {
				// echo's error handler writes the status after we return
				code = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					code = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.requests.WithLabelValues(c.Request().Method, route, strconv.Itoa(code)).Inc()
			return err
		}
	}
}

// ObserveEvent is a labstore subscriber.
func (m *Metrics) ObserveEvent(ev labstore.Event) {
	m.mutations.WithLabelValues(string(ev.Type)).Inc()
}

// ObservePersist matches labstore.WithPersistHook.
func (m *Metrics) ObservePersist(err error, took time.Duration) {
	m.persistLatency.Observe(took.Seconds())
	if err != nil {
		m.persistErrors.Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry}))
}
