package metrics

import (
	"anybuf-dev/anybuf/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// WatchMetrics tracks `anybuf watch`.
//
// Metrics:
//   - anybuf_compiler_watch_events_total: File system events by operation
//   - anybuf_compiler_watch_rebuilds_total: Debounced rebuilds
//   - anybuf_compiler_watched_directories: Directories currently watched
type WatchMetrics struct {
	eventsTotal   *prometheus.CounterVec
	rebuildsTotal prometheus.Counter
	directories   prometheus.Gauge
}

// NewWatchMetrics creates and registers watch metrics with the provided registry.
func NewWatchMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *WatchMetrics {
	wm := &WatchMetrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watch_events_total",
				Help:      "Total number of schema file events seen by the watcher",
			},
			[]string{"op"},
		),

		rebuildsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watch_rebuilds_total",
				Help:      "Total number of rebuilds triggered by file changes",
			},
		),

		directories: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watched_directories",
				Help:      "Number of directories currently watched",
			},
		),
	}

	registry.MustRegister(wm.eventsTotal, wm.rebuildsTotal, wm.directories)

	return wm
}

// RecordEvent counts one file system event.
func (wm *WatchMetrics) RecordEvent(op string) {
	wm.eventsTotal.WithLabelValues(op).Inc()
}

// RecordRebuild counts one rebuild.
func (wm *WatchMetrics) RecordRebuild() {
	wm.rebuildsTotal.Inc()
}

// SetDirectories sets the number of watched directories.
func (wm *WatchMetrics) SetDirectories(n int) {
	wm.directories.Set(float64(n))
}
