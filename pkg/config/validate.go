package config

import (
	"fmt"
	"net"
	"sort"
	"strings"

	"anybuf-dev/anybuf/pkg/codegen"

	"github.com/Masterminds/semver/v3"
	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "parser.max_depth").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateSources(cfg)...)
	errs = append(errs, validateParser(&cfg.Parser)...)
	errs = append(errs, validateOutputs(cfg.Outputs)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateHistory(&cfg.History)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateSources(cfg *Config) []FieldError {
	var errs []FieldError

	for i, src := range cfg.Sources {
		if strings.TrimSpace(src) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("sources[%d]", i),
				Message: "source path must not be empty",
			})
		}
	}

	if cfg.RequiredVersion != "" {
		if _, err := semver.NewConstraint(cfg.RequiredVersion); err != nil {
			errs = append(errs, FieldError{
				Field:   "required_version",
				Message: fmt.Sprintf("invalid version constraint %q: %v", cfg.RequiredVersion, err),
			})
		}
	}

	if cfg.Extension == "" {
		errs = append(errs, FieldError{
			Field:   "extension",
			Message: "extension is required",
		})
	} else if !strings.HasPrefix(cfg.Extension, ".") || len(cfg.Extension) < 2 || strings.ContainsAny(cfg.Extension, `/\`) {
		errs = append(errs, FieldError{
			Field:   "extension",
			Message: fmt.Sprintf("invalid extension %q: must start with '.' and name a file suffix", cfg.Extension),
		})
	}

	return errs
}

func validateParser(cfg *ParserConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxFileSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "parser.max_file_size",
			Message: "max file size must be positive",
		})
	}
	if cfg.MaxDepth < 1 {
		errs = append(errs, FieldError{
			Field:   "parser.max_depth",
			Message: "max depth must be at least 1",
		})
	}

	return errs
}

func validateOutputs(outputs []OutputConfig) []FieldError {
	var errs []FieldError
	seen := make(map[string]int)

	for i, out := range outputs {
		prefix := fmt.Sprintf("outputs[%d]", i)

		if out.Language == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".language",
				Message: "language is required",
			})
		} else if _, ok := codegen.Normalize(out.Language); !ok {
			errs = append(errs, FieldError{
				Field:   prefix + ".language",
				Message: fmt.Sprintf("unsupported language %q: must be one of %s", out.Language, strings.Join(codegen.Languages(), ", ")),
			})
		}

		if out.Path == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".path",
				Message: "output path is required",
			})
			continue
		}
		if j, dup := seen[out.Path]; dup {
			errs = append(errs, FieldError{
				Field:   prefix + ".path",
				Message: fmt.Sprintf("output path %q is already used by outputs[%d]", out.Path, j),
			})
		}
		seen[out.Path] = i
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	// Validate logging format
	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}

	errs = append(errs, validateTracing(&cfg.Tracing)...)

	if !cfg.Metrics.Enabled {
		return errs
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/' when metrics are enabled",
		})
	}
	if _, _, err := net.SplitHostPort(cfg.Metrics.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: %v", cfg.Metrics.ListenAddress, err),
		})
	}
	if !validMetricName(cfg.Metrics.Namespace) {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.namespace",
			Message: fmt.Sprintf("invalid metric namespace %q", cfg.Metrics.Namespace),
		})
	}
	if cfg.Metrics.Subsystem != "" && !validMetricName(cfg.Metrics.Subsystem) {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.subsystem",
			Message: fmt.Sprintf("invalid metric subsystem %q", cfg.Metrics.Subsystem),
		})
	}
	if !sort.Float64sAreSorted(cfg.Metrics.DurationBuckets) {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.duration_buckets",
			Message: "duration buckets must be sorted in increasing order",
		})
	}

	return errs
}

func validateTracing(cfg *TracingConfig) []FieldError {
	var errs []FieldError

	switch cfg.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Sampler),
		})
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: fmt.Sprintf("sample ratio must be between 0.0 and 1.0, got %g", cfg.SampleRatio),
		})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.timeout",
			Message: "timeout must not be negative",
		})
	}
	if cfg.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Endpoint); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.endpoint",
				Message: fmt.Sprintf("invalid endpoint %q: %v", cfg.Endpoint, err),
			})
		}
	}

	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	if cfg.Enabled && strings.TrimSpace(cfg.Path) == "" {
		errs = append(errs, FieldError{
			Field:   "history.path",
			Message: "history path is required when history is enabled",
		})
	}
	if cfg.MaxAge < 0 {
		errs = append(errs, FieldError{
			Field:   "history.max_age",
			Message: "max age must not be negative",
		})
	}
	if cfg.MaxBuilds < 0 {
		errs = append(errs, FieldError{
			Field:   "history.max_builds",
			Message: "max builds must not be negative",
		})
	}
	if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "history.prune_schedule",
			Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.PruneSchedule, err),
		})
	}

	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "debounce must not be negative",
		})
	}

	return errs
}

// validMetricName reports whether s matches [a-zA-Z_][a-zA-Z0-9_]*.
func validMetricName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// CheckVersion reports whether version satisfies cfg.RequiredVersion.
// Versions that are not semantic versions, such as development builds,
// always pass.
func CheckVersion(cfg *Config, version string) error {
	if cfg.RequiredVersion == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil
	}
	c, err := semver.NewConstraint(cfg.RequiredVersion)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", cfg.RequiredVersion, err)
	}
	if ok, reasons := c.Validate(v); !ok {
		msgs := make([]string, len(reasons))
		for i, r := range reasons {
			msgs[i] = r.Error()
		}
		return fmt.Errorf("anybuf %s does not satisfy required_version %q: %s",
			version, cfg.RequiredVersion, strings.Join(msgs, "; "))
	}
	return nil
}
