package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"anybuf-dev/anybuf/pkg/config"
)

func newTestLogger(t *testing.T, level, format string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: level, Format: format, Writer: buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(func() { _ = logger.Shutdown() })
	return logger, buf
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "valid JSON config", config: Config{Level: "info", Format: "json"}},
		{name: "valid text config", config: Config{Level: "debug", Format: "text"}},
		{name: "valid console config", config: Config{Level: "warn", Format: "console"}},
		{name: "empty config uses defaults", config: Config{}},
		{name: "invalid log level", config: Config{Level: "invalid", Format: "json"}, wantErr: true},
		{name: "invalid format", config: Config{Level: "info", Format: "invalid"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if logger != nil {
				defer logger.Shutdown()
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := FromConfig(config.LoggingConfig{Level: "debug", Format: "json", AddSource: true}, buf)
	if cfg.Level != "debug" || cfg.Format != "json" || !cfg.AddSource || cfg.Writer != buf {
		t.Errorf("FromConfig() = %+v", cfg)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		logMethod func(*Logger, string)
		wantLog   bool
	}{
		{"debug level logs debug", "debug", func(l *Logger, m string) { l.Debug(m) }, true},
		{"info level filters debug", "info", func(l *Logger, m string) { l.Debug(m) }, false},
		{"info level logs info", "info", func(l *Logger, m string) { l.Info(m) }, true},
		{"warn level filters info", "warn", func(l *Logger, m string) { l.Info(m) }, false},
		{"warn level logs warn", "warn", func(l *Logger, m string) { l.Warn(m) }, true},
		{"error level filters warn", "error", func(l *Logger, m string) { l.Warn(m) }, false},
		{"error level logs error", "error", func(l *Logger, m string) { l.Error(m) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newTestLogger(t, tt.logLevel, "json")

			testMsg := "test message"
			tt.logMethod(logger, testMsg)

			if hasLog := strings.Contains(buf.String(), testMsg); hasLog != tt.wantLog {
				t.Errorf("Log filtering failed: got log=%v, want log=%v, output=%s",
					hasLog, tt.wantLog, buf.String())
			}
		})
	}
}

func TestLogger_StructuredFields(t *testing.T) {
	logger, buf := newTestLogger(t, "info", "json")

	logger.Info("compiled schemas",
		"files", 3,
		"duration_ms", 1.5,
		"ok", true,
		"path", "schemas/a.anybuf",
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if entry["msg"] != "compiled schemas" || entry["files"] != float64(3) ||
		entry["ok"] != true || entry["path"] != "schemas/a.anybuf" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestLogger_With(t *testing.T) {
	logger, buf := newTestLogger(t, "info", "json")

	logger.With("language", "go", "output", "gen/schema.go").Info("wrote output")

	for _, field := range []string{"language", "go", "output", "gen/schema.go", "wrote output"} {
		if !strings.Contains(buf.String(), field) {
			t.Errorf("Expected field %q not found in output: %s", field, buf.String())
		}
	}
}

func TestLogger_WithContext(t *testing.T) {
	logger, buf := newTestLogger(t, "info", "json")

	ctx := WithCompileID(context.Background(), "cmp-456")
	ctx = WithSource(ctx, "schemas")

	logger.WithContext(ctx).Info("test message")

	for _, field := range []string{"compile_id", "cmp-456", "source", "schemas"} {
		if !strings.Contains(buf.String(), field) {
			t.Errorf("Expected field %q not found in output: %s", field, buf.String())
		}
	}

	if logger.WithContext(context.Background()) != logger {
		t.Error("WithContext() without fields should return the same logger")
	}
}

func TestLogger_ContextMethods(t *testing.T) {
	logger, buf := newTestLogger(t, "debug", "json")
	ctx := WithCompileID(context.Background(), "cmp-789")

	tests := []struct {
		name   string
		method func()
		level  string
	}{
		{"DebugContext", func() { logger.DebugContext(ctx, "debug message") }, "DEBUG"},
		{"InfoContext", func() { logger.InfoContext(ctx, "info message") }, "INFO"},
		{"WarnContext", func() { logger.WarnContext(ctx, "warn message") }, "WARN"},
		{"ErrorContext", func() { logger.ErrorContext(ctx, "error message") }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.method()

			output := buf.String()
			if !strings.Contains(output, "cmp-789") {
				t.Errorf("compile_id not found in %s output: %s", tt.name, output)
			}
			if !strings.Contains(output, tt.level) {
				t.Errorf("level %s not found in output: %s", tt.level, output)
			}
		})
	}
}

func TestLogger_Formats(t *testing.T) {
	tests := []struct {
		format   string
		wantTime bool
	}{
		{"json", true},
		{"text", true},
		{"console", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			logger, buf := newTestLogger(t, "info", tt.format)

			logger.Info("test message", "key", "value")

			output := buf.String()
			if !strings.Contains(output, "test message") {
				t.Errorf("Message not found in %s output: %s", tt.format, output)
			}
			if hasTime := strings.Contains(output, "time"); hasTime != tt.wantTime {
				t.Errorf("time present = %v, want %v: %s", hasTime, tt.wantTime, output)
			}
		})
	}
}

func TestLogger_AddSource(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", AddSource: true, Writer: buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("test message")

	if !strings.Contains(buf.String(), "source") {
		t.Errorf("Source field not found in output: %s", buf.String())
	}
}

func TestLogger_SetDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger, buf := newTestLogger(t, "info", "text")
	logger.SetDefault()

	slog.Info("through the default logger")
	if !strings.Contains(buf.String(), "through the default logger") {
		t.Errorf("default logger not installed: %s", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.Enabled(slog.LevelError) {
		t.Error("Discard() logger should not be enabled at any level")
	}
	logger.Error("dropped")
	if err := logger.Shutdown(); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"ERROR", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    LogFormat
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"console", FormatConsole, false},
		{"xml", FormatText, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
