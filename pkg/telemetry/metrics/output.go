package metrics

import (
	"anybuf-dev/anybuf/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// OutputMetrics tracks code generation.
//
// Metrics:
//   - anybuf_compiler_outputs_total: Generated files by language, output and result
//   - anybuf_compiler_output_bytes: Size of generated files by language
type OutputMetrics struct {
	outputsTotal *prometheus.CounterVec
	outputBytes  *prometheus.HistogramVec
}

// NewOutputMetrics creates and registers output metrics with the provided registry.
func NewOutputMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *OutputMetrics {
	om := &OutputMetrics{
		outputsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "outputs_total",
				Help:      "Total number of generated files",
			},
			[]string{"language", "output", "result"},
		),

		outputBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "output_bytes",
				Help:      "Size of generated files in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8), // 256B to 4MB
			},
			[]string{"language"},
		),
	}

	registry.MustRegister(om.outputsTotal, om.outputBytes)

	return om
}

// RecordOutput records one generated file. size is ignored for failed
// outputs.
func (om *OutputMetrics) RecordOutput(language, output, result string, size int) {
	om.outputsTotal.WithLabelValues(language, output, result).Inc()
	if result == ResultSuccess {
		om.outputBytes.WithLabelValues(language).Observe(float64(size))
	}
}
