package bootstrap

import (
	"payment-3p/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		metrics.NewRegistry,
		func(reg *prometheus.Registry) prometheus.Gatherer {
			return reg
		},
		func(reg *prometheus.Registry) *metrics.PrometheusRecorder {
			return metrics.NewPrometheusRecorder(reg)
		},
		func(rec *metrics.PrometheusRecorder) metrics.Recorder {
			return rec
		},
	),
)
