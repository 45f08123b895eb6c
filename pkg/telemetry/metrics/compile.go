package metrics

import (
	"time"

	"anybuf-dev/anybuf/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CompileMetrics tracks schema compilation.
//
// Metrics:
//   - anybuf_compiler_compiles_total: Compile runs by result
//   - anybuf_compiler_compile_duration_seconds: Compile duration histogram
//   - anybuf_compiler_diagnostics_total: Diagnostics by error type
//   - anybuf_compiler_schema_files: Files read by the last compile
//   - anybuf_compiler_schema_nodes: Declarations in the last tree by kind
type CompileMetrics struct {
	compilesTotal   *prometheus.CounterVec
	compileDuration *prometheus.HistogramVec
	diagnostics     *prometheus.CounterVec
	files           prometheus.Gauge
	nodes           *prometheus.GaugeVec
}

// NewCompileMetrics creates and registers compile metrics with the provided registry.
func NewCompileMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CompileMetrics {
	cm := &CompileMetrics{
		compilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "compiles_total",
				Help:      "Total number of schema compile runs",
			},
			[]string{"result"},
		),

		compileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "compile_duration_seconds",
				Help:      "Duration of schema compile runs in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"result"},
		),

		diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "diagnostics_total",
				Help:      "Total number of diagnostics reported, by error type",
			},
			[]string{"type"},
		),

		files: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "schema_files",
				Help:      "Number of schema files read by the last compile",
			},
		),

		nodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "schema_nodes",
				Help:      "Number of nodes in the last compiled tree, by kind",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		cm.compilesTotal,
		cm.compileDuration,
		cm.diagnostics,
		cm.files,
		cm.nodes,
	)

	return cm
}

// RecordCompile records one compile run.
func (cm *CompileMetrics) RecordCompile(result string, duration time.Duration) {
	cm.compilesTotal.WithLabelValues(result).Inc()
	cm.compileDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordDiagnostic counts one diagnostic of the given type.
func (cm *CompileMetrics) RecordDiagnostic(errType string) {
	cm.diagnostics.WithLabelValues(errType).Inc()
}

// UpdateTree sets the file and node gauges from the last compile.
func (cm *CompileMetrics) UpdateTree(files int, nodes map[string]int) {
	cm.files.Set(float64(files))
	for kind, n := range nodes {
		cm.nodes.WithLabelValues(kind).Set(float64(n))
	}
}
