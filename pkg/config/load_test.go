package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "anybuf.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
sources: [schemas, /abs/other.anybuf]
extension: .ab
parser:
  max_file_size: 2048
  max_depth: 8
outputs:
  - language: go
    path: gen/schema.go
    package: schema
  - language: TS
    path: web/schema.ts
telemetry:
  logging:
    level: debug
    format: console
  metrics:
    enabled: true
    listen_address: ":9100"
watch:
  debounce: 1s
  include_hidden: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Extension != ".ab" {
		t.Errorf("expected extension %q, got %q", ".ab", cfg.Extension)
	}
	if cfg.Parser.MaxFileSize != 2048 || cfg.Parser.MaxDepth != 8 {
		t.Errorf("unexpected parser config: %+v", cfg.Parser)
	}
	if len(cfg.Outputs) != 2 || cfg.Outputs[0].Package != "schema" {
		t.Errorf("unexpected outputs: %+v", cfg.Outputs)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "console" {
		t.Errorf("unexpected logging config: %+v", cfg.Telemetry.Logging)
	}
	if !cfg.Telemetry.Metrics.Enabled || cfg.Telemetry.Metrics.Path != DefaultMetricsPath {
		t.Errorf("unexpected metrics config: %+v", cfg.Telemetry.Metrics)
	}
	if cfg.Watch.Debounce != time.Second || !cfg.Watch.IncludeHidden {
		t.Errorf("unexpected watch config: %+v", cfg.Watch)
	}

	want := []string{filepath.Join(dir, "schemas"), "/abs/other.anybuf"}
	if got := cfg.SourcePaths(); !reflect.DeepEqual(got, want) {
		t.Errorf("SourcePaths() = %v, want %v", got, want)
	}
	if got := cfg.ResolvePath(cfg.Outputs[0].Path); got != filepath.Join(dir, "gen", "schema.go") {
		t.Errorf("ResolvePath() = %q", got)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, t.TempDir(), "{}\n"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	def := Default()
	def.BaseDir = cfg.BaseDir
	if !reflect.DeepEqual(cfg, def) {
		t.Errorf("empty file should equal defaults:\n got %+v\nwant %+v", cfg, def)
	}
	if cfg.Parser.MaxDepth != DefaultMaxDepth || cfg.Extension != DefaultExtension {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics should be disabled by default")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := writeConfig(t, dir, "sources: [unterminated\n")
	if _, err := LoadConfig(bad); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}

	invalid := writeConfig(t, dir, "parser:\n  max_depth: -1\n")
	if _, err := LoadConfig(invalid); err == nil || !strings.Contains(err.Error(), "parser.max_depth") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "parser:\n  max_depth: 8\n")

	t.Setenv("ANYBUF_SOURCES", "a, b ,,c")
	t.Setenv("ANYBUF_PARSER_MAX_DEPTH", "16")
	t.Setenv("ANYBUF_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("ANYBUF_TELEMETRY_METRICS_ENABLED", "true")
	t.Setenv("ANYBUF_WATCH_DEBOUNCE", "50ms")
	t.Setenv("ANYBUF_PARSER_MAX_FILE_SIZE", "not-a-number")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !reflect.DeepEqual(cfg.Sources, []string{"a", "b", "c"}) {
		t.Errorf("Sources = %v", cfg.Sources)
	}
	if cfg.Parser.MaxDepth != 16 {
		t.Errorf("MaxDepth = %d, want 16", cfg.Parser.MaxDepth)
	}
	if cfg.Parser.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("unparseable override should be ignored, MaxFileSize = %d", cfg.Parser.MaxFileSize)
	}
	if cfg.Telemetry.Logging.Level != "warn" || !cfg.Telemetry.Metrics.Enabled {
		t.Errorf("telemetry = %+v", cfg.Telemetry)
	}
	if cfg.Watch.Debounce != 50*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Watch.Debounce)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidResult(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "{}\n")
	t.Setenv("ANYBUF_TELEMETRY_LOGGING_FORMAT", "xml")

	_, err := LoadConfigWithEnvOverrides(path)
	if err == nil || !strings.Contains(err.Error(), "after environment overrides") {
		t.Errorf("expected override validation error, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "extension: .idl\n")
		cfg, err := Resolve(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Extension != ".idl" {
			t.Errorf("Extension = %q", cfg.Extension)
		}
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := Resolve(filepath.Join(t.TempDir(), "nope.yaml"))
		if err == nil || !strings.Contains(err.Error(), "does not exist") {
			t.Errorf("expected missing file error, got %v", err)
		}
	})

	t.Run("discovered", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "extension: .found\n")
		chdir(t, dir)

		cfg, err := Resolve("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Extension != ".found" {
			t.Errorf("Extension = %q", cfg.Extension)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		dir := t.TempDir()
		chdir(t, dir)
		t.Setenv("ANYBUF_EXTENSION", ".env")

		cfg, err := Resolve("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Extension != ".env" || cfg.Parser.MaxDepth != DefaultMaxDepth {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.BaseDir == "" {
			t.Error("BaseDir should be the working directory")
		}
	})
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	if _, ok := Discover(dir); ok {
		t.Fatal("Discover() found a file in an empty directory")
	}

	yml := filepath.Join(dir, "anybuf.yml")
	if err := os.WriteFile(yml, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if got, ok := Discover(dir); !ok || got != yml {
		t.Errorf("Discover() = %q, %v", got, ok)
	}

	yaml := writeConfig(t, dir, "{}")
	if got, _ := Discover(dir); got != yaml {
		t.Errorf("anybuf.yaml should win, got %q", got)
	}
}

func BenchmarkLoadConfig(b *testing.B) {
	path := filepath.Join(b.TempDir(), "anybuf.yaml")
	content := `
sources: [schemas]
outputs:
  - language: go
    path: gen/schema.go
telemetry:
  logging:
    level: info
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := LoadConfig(path); err != nil {
			b.Fatal(err)
		}
	}
}
