package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics carries the service's Prometheus instruments on a private registry
// so multiple servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	FillsAccepted   prometheus.Counter
	RecordsDropped  prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apurador_requests_total",
			Help: "HTTP requests served, by route and status code",
		}, []string{"route", "code"}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "apurador_request_duration_seconds",
			Help:    "Calculate request latency",
			Buckets: prometheus.DefBuckets,
		}),
		FillsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "apurador_fills_accepted_total",
			Help: "Fill records accepted by normalization",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "apurador_records_dropped_total",
			Help: "Fill records dropped by normalization",
		}),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.FillsAccepted,
		m.RecordsDropped,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
