package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"anybuf-dev/anybuf/pkg/cli"
	"anybuf-dev/anybuf/pkg/config"
)

func waitFor(t *testing.T, buf *syncBuffer, substr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), substr) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in:\n%s", substr, buf)
}

func TestWatchSchemas_Rebuilds(t *testing.T) {
	dir := setupProject(t, validFiles())
	watchFlags.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd, _, stderr := testCommand(ctx, "")

	done := make(chan error, 1)
	go func() { done <- watchSchemas(cmd, nil) }()

	waitFor(t, stderr, "built 2 files into 2 outputs")
	waitFor(t, stderr, "watching schemas")

	// The imported file lives outside the configured source and is
	// watched through the tracked files.
	broken := "module ids {\n\tstruct Id { value: 0 Nope; }\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "schemas", "common", "ids.anybuf"), []byte(broken), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, stderr, `"Nope": doesn't exist`)
	waitFor(t, stderr, "build failed: 1 diagnostics")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchSchemas() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchSchemas() did not return after cancel")
	}
}

func TestWatchSchemas_Metrics(t *testing.T) {
	setupProject(t, validFiles())
	watchFlags.metrics = true
	watchFlags.metricsAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd, _, stderr := testCommand(ctx, "")

	done := make(chan error, 1)
	go func() { done <- watchSchemas(cmd, nil) }()

	waitFor(t, stderr, "serving metrics")
	waitFor(t, stderr, "watching schemas")

	m := regexp.MustCompile(`address=(\S+)`).FindStringSubmatch(stderr.String())
	if m == nil {
		t.Fatalf("no metrics address logged:\n%s", stderr)
	}
	base := "http://" + m[1]

	resp, err := http.Get(base + "/readyz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/readyz = %d, want 200 after a good build", resp.StatusCode)
	}

	resp, err = http.Get(base + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `anybuf_compiler_compiles_total{result="success"} 1`) {
		t.Errorf("compile not counted:\n%s", body)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchSchemas() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchSchemas() did not return after cancel")
	}
}

func TestWatchSchemas_RejectsStdin(t *testing.T) {
	setupProject(t, validFiles())
	cmd, _, _ := testCommand(context.Background(), "")

	if err := watchSchemas(cmd, []string{StdinSource}); cli.ExitCode(err) != cli.ExitUsage {
		t.Errorf("watchSchemas() error = %v, want usage error", err)
	}
}

func TestApplyWatchFlags(t *testing.T) {
	t.Cleanup(resetFlags)
	cfg := config.Default()

	watchFlags.metrics = true
	watchFlags.metricsAddr = "127.0.0.1:9999"
	watchFlags.debounce = time.Second
	if err := applyWatchFlags(cfg); err != nil {
		t.Fatalf("applyWatchFlags() error = %v", err)
	}
	if !cfg.Telemetry.Metrics.Enabled || cfg.Telemetry.Metrics.ListenAddress != "127.0.0.1:9999" || cfg.Watch.Debounce != time.Second {
		t.Errorf("overrides not applied: %+v %+v", cfg.Telemetry.Metrics, cfg.Watch)
	}

	watchFlags.debounce = -time.Second
	if err := applyWatchFlags(cfg); cli.ExitCode(err) != cli.ExitUsage {
		t.Errorf("applyWatchFlags() error = %v, want usage error", err)
	}
}
