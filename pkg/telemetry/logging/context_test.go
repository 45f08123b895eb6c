package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()
	ctx = WithCompileID(ctx, "cmp-1")
	ctx = WithSource(ctx, "schemas/a.anybuf")
	ctx = WithLanguage(ctx, "go")
	ctx = WithOutput(ctx, "gen/a.go")

	tests := []struct {
		name string
		get  func(context.Context) string
		want string
	}{
		{"compile id", GetCompileID, "cmp-1"},
		{"source", GetSource, "schemas/a.anybuf"},
		{"language", GetLanguage, "go"},
		{"output", GetOutput, "gen/a.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.get(ctx); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if got := tt.get(context.Background()); got != "" {
				t.Errorf("empty context returned %q", got)
			}
		})
	}
}

func TestNewCompileID(t *testing.T) {
	a, b := NewCompileID(), NewCompileID()
	if a == b {
		t.Errorf("NewCompileID() returned %q twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("NewCompileID() = %q is not a UUID: %v", a, err)
	}
}

func TestExtractContextFields(t *testing.T) {
	if fields := extractContextFields(context.Background()); len(fields) != 0 {
		t.Errorf("expected no fields, got %v", fields)
	}

	ctx := WithLanguage(WithCompileID(context.Background(), "cmp-2"), "yaml")
	fields := extractContextFields(ctx)
	want := []any{"compile_id", "cmp-2", "language", "yaml"}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("fields[%d] = %v, want %v", i, fields[i], want[i])
		}
	}
}

func TestContextLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "debug", Format: "json", Writer: buf})
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithCompileID(context.Background(), "cmp-3")
	cl := NewContextLogger(logger, ctx).With("attempt", 2)
	cl.Debug("debug")
	cl.Info("info")
	cl.Warn("warn")
	cl.Error("error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %s", len(lines), buf.String())
	}
	for _, line := range lines {
		if strings.Count(line, "cmp-3") != 1 || !strings.Contains(line, `"attempt":2`) {
			t.Errorf("unexpected line: %s", line)
		}
	}
}

func TestContextOverwrite(t *testing.T) {
	ctx := WithCompileID(context.Background(), "first")
	ctx = WithCompileID(ctx, "second")
	if got := GetCompileID(ctx); got != "second" {
		t.Errorf("GetCompileID() = %q, want %q", got, "second")
	}
}
