// Package monitoring exposes the server's Prometheus metrics.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects request and domain counters for the collaborator server.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec

	scenariosGenerated prometheus.Counter
	eventsGenerated    prometheus.Counter
	alertsTriggered    prometheus.Counter
}

// NewMetrics registers the server's metrics under the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"handler", "method", "status"},
		),
		requestCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),
		scenariosGenerated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scenarios_generated_total",
				Help:      "Total number of scenario batches generated",
			},
		),
		eventsGenerated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "event_contexts_served_total",
				Help:      "Total number of event contexts served",
			},
		),
		alertsTriggered: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_triggered_total",
				Help:      "Total number of triggered alerts",
			},
		),
	}
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(handler, method string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(handler, method, code).Observe(duration.Seconds())
	m.requestCount.WithLabelValues(handler, method, code).Inc()
}

func (m *Metrics) ScenarioBatchGenerated() { m.scenariosGenerated.Inc() }
func (m *Metrics) EventContextServed()     { m.eventsGenerated.Inc() }
func (m *Metrics) AlertTriggered()         { m.alertsTriggered.Inc() }

// Handler returns the Prometheus exposition endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
