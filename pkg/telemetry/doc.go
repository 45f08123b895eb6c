// Package telemetry groups the observability packages used by the anybuf
// compiler and the watch loop.
//
// # Components
//
//   - logging: structured slog logging with per-compile context
//   - metrics: Prometheus counters and histograms for compiles and outputs
//   - tracing: OpenTelemetry spans around read, resolve and output phases
//   - health: liveness, readiness and version endpoints for watch mode
//
// The packages are independent. Commands construct the pieces they need
// from config.TelemetryConfig:
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//
// A nil *metrics.Collector or *tracing.Tracer is valid and records nothing,
// so one-shot commands can skip them entirely.
package telemetry
