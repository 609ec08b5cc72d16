// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lifeline"

// Metrics holds the collectors registered on one registry.
type Metrics struct {
	reg *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Asks            *prometheus.CounterVec
	AskFallbacks    prometheus.Counter
	ResultSize      *prometheus.HistogramVec
	CatalogSize     prometheus.Gauge
	CatalogRejected prometheus.Gauge
	CatalogLoads    *prometheus.CounterVec
}

// New creates a registry with the process/Go collectors and the service
// collectors registered on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"route"}),
		Asks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ask",
			Name:      "questions_total",
			Help:      "Questions answered by classified topic and whether a location was found",
		}, []string{"topic", "located"}),
		AskFallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ask",
			Name:      "fallback_total",
			Help:      "Questions whose filters matched nothing and fell back to the whole table",
		}),
		ResultSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "lookup",
			Name:      "result_size",
			Help:      "Resources returned per lookup",
			Buckets:   []float64{0, 1, 3, 5, 10, 25, 50, 100, 500},
		}, []string{"route"}),
		CatalogSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "resources",
			Help:      "Resources in the published catalog snapshot",
		}),
		CatalogRejected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "rejected_rows",
			Help:      "Rows dropped from the last catalog load for failing validation",
		}),
		CatalogLoads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "loads_total",
			Help:      "Catalog loads by result",
		}, []string{"result"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, start time.Time) {
	m.Requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// ObserveAsk records one answered question.
func (m *Metrics) ObserveAsk(topic string, located, fallback bool, returned int) {
	m.Asks.WithLabelValues(topic, strconv.FormatBool(located)).Inc()
	if fallback {
		m.AskFallbacks.Inc()
	}
	m.ResultSize.WithLabelValues("ask").Observe(float64(returned))
}

// ObserveCatalog records a catalog load attempt.
func (m *Metrics) ObserveCatalog(size, rejected int, err error) {
	if err != nil {
		m.CatalogLoads.WithLabelValues("error").Inc()
		return
	}
	m.CatalogLoads.WithLabelValues("ok").Inc()
	m.CatalogSize.Set(float64(size))
	m.CatalogRejected.Set(float64(rejected))
}
