// Package metrics provides Prometheus metrics for the anybuf compiler.
//
// # Metrics Categories
//
//   - Compile Metrics: runs by result, duration, diagnostics by error type,
//     files read and tree size by node kind
//   - Output Metrics: generated files by language and result, output size
//   - Watch Metrics: file events, rebuilds and watched directories
//
// All metric names use the configured namespace and subsystem, which
// default to "anybuf" and "compiler".
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordCompile(true, elapsed, nil)
//	collector.RecordOutput("go", "gen/schema.go", nil, 2048)
//
//	addr, done, err := collector.Serve(ctx)
//
// The collector records nothing while metrics are disabled. A nil
// *Collector is also valid and records nothing.
package metrics
