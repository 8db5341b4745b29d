// Package metrics exposes the Prometheus collectors of the ledger and the HTTP layer.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "payment3p"

type Outcome string

const (
	OutcomeAccepted            Outcome = "accepted"
	OutcomeRejected            Outcome = "rejected"
	OutcomeStoreUnavailable    Outcome = "store_unavailable"
	OutcomeContentionExhausted Outcome = "contention_exhausted"
)

// Recorder receives one observation per finished ledger operation.
type Recorder interface {
	ObserveLedgerOperation(operation string, outcome Outcome, elapsed time.Duration)
	ObserveRetry(operation string)
}

type NopRecorder struct{}

func (NopRecorder) ObserveLedgerOperation(string, Outcome, time.Duration) {}

func (NopRecorder) ObserveRetry(string) {}

type PrometheusRecorder struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	retries    *prometheus.CounterVec
	requests   *prometheus.CounterVec
}

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Ledger operation latency including store round trips.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "retries_total",
			Help:      "Attempts repeated after a lost compare-and-swap or an id collision.",
		}, []string{"operation"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
	}
	reg.MustRegister(r.operations, r.latency, r.retries, r.requests)
	return r
}

func (r *PrometheusRecorder) ObserveLedgerOperation(operation string, outcome Outcome, elapsed time.Duration) {
	r.operations.WithLabelValues(operation, string(outcome)).Inc()
	r.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (r *PrometheusRecorder) ObserveRetry(operation string) {
	r.retries.WithLabelValues(operation).Inc()
}

func (r *PrometheusRecorder) ObserveRequest(method, route string, code int) {
	r.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}
