package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileNames are the configuration file names searched by Discover, in
// order.
var FileNames = []string{"anybuf.yaml", "anybuf.yml"}

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
		cfg.BaseDir = abs
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention ANYBUF_SECTION_FIELD (e.g., ANYBUF_PARSER_MAX_DEPTH).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// Discover returns the configuration file in dir, if there is one.
func Discover(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// Resolve loads the configuration for a CLI invocation. An explicit path
// must exist. Without one, a configuration file in the working directory
// is used when present, and defaults otherwise. Environment overrides
// apply in every case.
func Resolve(path string) (*Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		found, ok := Discover(wd)
		if !ok {
			cfg := Default()
			cfg.BaseDir = wd
			applyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
			}
			return cfg, nil
		}
		path = found
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("configuration file %q does not exist", path)
	}
	return LoadConfigWithEnvOverrides(path)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format ANYBUF_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ANYBUF_SOURCES"); val != "" {
		var sources []string
		for _, s := range strings.Split(val, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sources = append(sources, s)
			}
		}
		if len(sources) > 0 {
			cfg.Sources = sources
		}
	}
	if val := os.Getenv("ANYBUF_EXTENSION"); val != "" {
		cfg.Extension = val
	}

	// Parser overrides
	if val := os.Getenv("ANYBUF_PARSER_MAX_FILE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Parser.MaxFileSize = i
		}
	}
	if val := os.Getenv("ANYBUF_PARSER_MAX_DEPTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Parser.MaxDepth = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("ANYBUF_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("ANYBUF_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("ANYBUF_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("ANYBUF_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("ANYBUF_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}

	if val := os.Getenv("ANYBUF_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("ANYBUF_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("ANYBUF_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}

	// Watch overrides
	if val := os.Getenv("ANYBUF_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	if val := os.Getenv("ANYBUF_WATCH_INCLUDE_HIDDEN"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Watch.IncludeHidden = b
		}
	}

	// History overrides
	if val := os.Getenv("ANYBUF_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("ANYBUF_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}
}
