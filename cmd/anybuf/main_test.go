package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"anybuf-dev/anybuf/pkg/config"
)

const testShapes = `
import "common/ids.anybuf";

module geo {
	enum Kind : u8 { Circle, Square }

	struct Shape {
		id: 0 ids.Id;
		kind: 1 Kind;
	}
}
`

const testIDs = `
module ids {
	struct Id { value: 0 u64; }
}
`

const testConfig = `
sources: [schemas/shapes.anybuf]
outputs:
  - language: go
    path: gen/schema.go
    package: shapes
  - language: yaml
    path: gen/schema.yaml
`

// syncBuffer is a bytes.Buffer safe for the watcher's goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// setupProject writes a schema project, changes into it and resets the
// global flags and configuration.
func setupProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	chdir(t, dir)
	resetFlags()
	t.Cleanup(func() {
		resetFlags()
		config.Set(nil)
	})
	return dir
}

func validFiles() map[string]string {
	return map[string]string{
		"anybuf.yaml":               testConfig,
		"schemas/shapes.anybuf":     testShapes,
		"schemas/common/ids.anybuf": testIDs,
	}
}

func resetFlags() {
	cfgFile, logLevel, logFormat, quiet = "", "", "", false
	compileFlags.lang, compileFlags.out, compileFlags.pkg, compileFlags.stdinPath = "", "", "", ""
	compileFlags.context = false
	checkFlags.format, checkFlags.stdinPath, checkFlags.context = "text", "", false
	dumpFlags.format, dumpFlags.stdinPath = "yaml", ""
	watchFlags.metrics, watchFlags.metricsAddr, watchFlags.debounce, watchFlags.context = false, "", 0, false
	historyFlags.format, historyFlags.limit, historyFlags.failed = "text", 20, false
	historyFlags.since, historyFlags.prune = 0, false
}

// testCommand returns a command with captured output and stdin.
func testCommand(ctx context.Context, stdin string) (*cobra.Command, *syncBuffer, *syncBuffer) {
	cmd := &cobra.Command{}
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	if ctx != nil {
		cmd.SetContext(ctx)
	}
	return cmd, stdout, stderr
}
