package config

import (
	"path/filepath"
	"time"
)

// Config is the root configuration structure of an anybuf project, read
// from anybuf.yaml. It names the schema sources, the parser limits, the
// generated outputs and the telemetry settings of the CLI.
type Config struct {
	// RequiredVersion is a semantic version constraint such as ">= 0.1, < 1"
	// that the anybuf binary must satisfy. Empty accepts any version.
	RequiredVersion string `yaml:"required_version"`

	// Sources lists schema files or directories to compile. Relative
	// paths are resolved against the directory of the configuration file.
	// Default: ["."]
	Sources []string `yaml:"sources"`

	// Extension is the schema file extension used when scanning
	// directories. Matching is case-insensitive.
	// Default: ".anybuf"
	Extension string `yaml:"extension"`

	// Parser contains limits applied while reading schemas.
	Parser ParserConfig `yaml:"parser"`

	// Outputs lists the code generators to run after a successful compile.
	Outputs []OutputConfig `yaml:"outputs"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Watch contains configuration for `anybuf watch`.
	Watch WatchConfig `yaml:"watch"`

	// History contains configuration for the local build history.
	History HistoryConfig `yaml:"history"`

	// BaseDir is the directory relative paths are resolved against. It is
	// set by LoadConfig and never read from YAML.
	BaseDir string `yaml:"-"`
}

// ParserConfig contains limits applied by the schema reader.
type ParserConfig struct {
	// MaxFileSize is the largest schema file accepted, in bytes.
	// Default: 10485760 (10MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// MaxDepth bounds the nesting of modules, structs and type expressions.
	// Default: 64
	MaxDepth int `yaml:"max_depth"`
}

// OutputConfig describes one generated file.
type OutputConfig struct {
	// Language selects the backend: "go", "typescript" (or "ts", "js")
	// or "yaml".
	Language string `yaml:"language"`

	// Path is the output file. Relative paths are resolved against the
	// directory of the configuration file.
	Path string `yaml:"path"`

	// Package is the root namespace or package name. Optional.
	Package string `yaml:"package"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled serves Prometheus metrics while `anybuf watch` runs.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address of the metrics endpoint.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "anybuf"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "compiler"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for compile duration (seconds).
	// Default: [0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains OpenTelemetry tracing configuration. Spans
// cover each compile, the schema read and every generated output.
type TracingConfig struct {
	// Enabled exports spans to the OTLP endpoint.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address (host:port).
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds every export call.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// Sampler selects the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of compiles traced with the "ratio"
	// sampler, between 0.0 and 1.0.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "anybuf"
	ServiceName string `yaml:"service_name"`
}

// WatchConfig contains configuration for watch mode.
type WatchConfig struct {
	// Debounce is how long to wait after the last file change before
	// recompiling.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`

	// IncludeHidden also watches directories whose name starts with ".".
	// Default: false
	IncludeHidden bool `yaml:"include_hidden"`
}

// HistoryConfig configures the SQLite database recording every compile
// run by `anybuf compile` and `anybuf watch`.
type HistoryConfig struct {
	// Enabled records builds.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the database file. Relative paths are resolved against the
	// directory of the configuration file.
	// Default: ".anybuf/history.db"
	Path string `yaml:"path"`

	// MaxAge removes builds older than this. Zero keeps builds forever.
	// Default: 720h (30 days)
	MaxAge time.Duration `yaml:"max_age"`

	// MaxBuilds keeps at most this many builds. Zero is unlimited.
	// Default: 1000
	MaxBuilds int `yaml:"max_builds"`

	// PruneSchedule is a cron expression for pruning while watching.
	// Default: "@hourly"
	PruneSchedule string `yaml:"prune_schedule"`
}

// ResolvePath makes a relative path relative to BaseDir.
func (c *Config) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || c.BaseDir == "" {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// SourcePaths returns Sources resolved against BaseDir.
func (c *Config) SourcePaths() []string {
	paths := make([]string, len(c.Sources))
	for i, src := range c.Sources {
		paths[i] = c.ResolvePath(src)
	}
	return paths
}
