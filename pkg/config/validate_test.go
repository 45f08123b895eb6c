package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		fields []string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:   "empty source",
			modify: func(c *Config) { c.Sources = []string{"ok", " "} },
			fields: []string{"sources[1]"},
		},
		{
			name:   "bad version constraint",
			modify: func(c *Config) { c.RequiredVersion = ">= banana" },
			fields: []string{"required_version"},
		},
		{
			name:   "extension without dot",
			modify: func(c *Config) { c.Extension = "anybuf" },
			fields: []string{"extension"},
		},
		{
			name: "parser limits",
			modify: func(c *Config) {
				c.Parser.MaxFileSize = -1
				c.Parser.MaxDepth = 0
			},
			fields: []string{"parser.max_file_size", "parser.max_depth"},
		},
		{
			name: "outputs",
			modify: func(c *Config) {
				c.Outputs = []OutputConfig{
					{Language: "go", Path: "a.go"},
					{Language: "cobol", Path: "b.cbl"},
					{Language: "ts"},
					{Path: "a.go"},
				}
			},
			fields: []string{"outputs[1].language", "outputs[2].path", "outputs[3].language", "outputs[3].path"},
		},
		{
			name: "logging",
			modify: func(c *Config) {
				c.Telemetry.Logging.Level = "trace"
				c.Telemetry.Logging.Format = ""
			},
			fields: []string{"telemetry.logging.level", "telemetry.logging.format"},
		},
		{
			name: "tracing sampler",
			modify: func(c *Config) {
				c.Telemetry.Tracing.Sampler = "sometimes"
				c.Telemetry.Tracing.SampleRatio = 1.5
			},
			fields: []string{"telemetry.tracing.sampler", "telemetry.tracing.sample_ratio"},
		},
		{
			name: "tracing endpoint checked only when enabled",
			modify: func(c *Config) {
				c.Telemetry.Tracing.Endpoint = "nohost"
			},
		},
		{
			name: "tracing endpoint",
			modify: func(c *Config) {
				c.Telemetry.Tracing.Enabled = true
				c.Telemetry.Tracing.Endpoint = "nohost"
			},
			fields: []string{"telemetry.tracing.endpoint"},
		},
		{
			name: "metrics checked only when enabled",
			modify: func(c *Config) {
				c.Telemetry.Metrics.Path = "metrics"
			},
		},
		{
			name: "metrics enabled",
			modify: func(c *Config) {
				c.Telemetry.Metrics.Enabled = true
				c.Telemetry.Metrics.Path = "metrics"
				c.Telemetry.Metrics.ListenAddress = "nocolon"
				c.Telemetry.Metrics.Namespace = "any-buf"
				c.Telemetry.Metrics.Subsystem = "9lives"
				c.Telemetry.Metrics.DurationBuckets = []float64{1, 0.5}
			},
			fields: []string{
				"telemetry.metrics.path",
				"telemetry.metrics.listen_address",
				"telemetry.metrics.namespace",
				"telemetry.metrics.subsystem",
				"telemetry.metrics.duration_buckets",
			},
		},
		{
			name: "history",
			modify: func(c *Config) {
				c.History.Enabled = true
				c.History.Path = " "
				c.History.MaxAge = -1
				c.History.MaxBuilds = -1
				c.History.PruneSchedule = "every hour"
			},
			fields: []string{"history.path", "history.max_age", "history.max_builds", "history.prune_schedule"},
		},
		{
			name:   "history cron descriptor",
			modify: func(c *Config) { c.History.PruneSchedule = "0 3 * * *" },
		},
		{
			name:   "negative debounce",
			modify: func(c *Config) { c.Watch.Debounce = -1 },
			fields: []string{"watch.debounce"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := Validate(cfg)
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			var got []string
			for _, fe := range verr.Errors {
				got = append(got, fe.Field)
			}
			if strings.Join(got, ",") != strings.Join(tt.fields, ",") {
				t.Errorf("fields = %v, want %v", got, tt.fields)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	one := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := one.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("Error() = %q", got)
	}

	two := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	if got := two.Error(); !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: worse") {
		t.Errorf("Error() = %q", got)
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		constraint string
		version    string
		wantErr    bool
	}{
		{"", "0.1.0", false},
		{">= 0.1, < 1", "0.1.0", false},
		{">= 0.2", "0.1.0", true},
		{"~1.2", "1.3.0", true},
		{">= 0.2", "dev", false},
	}

	for _, tt := range tests {
		t.Run(tt.constraint+"/"+tt.version, func(t *testing.T) {
			cfg := &Config{RequiredVersion: tt.constraint}
			err := CheckVersion(cfg, tt.version)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckVersion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "required_version") {
				t.Errorf("error %q should name required_version", err)
			}
		})
	}
}
