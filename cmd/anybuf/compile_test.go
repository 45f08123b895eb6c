package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anybuf-dev/anybuf/pkg/cli"
	"anybuf-dev/anybuf/pkg/compiler"
)

func TestCompileSchemas_ConfiguredOutputs(t *testing.T) {
	dir := setupProject(t, validFiles())
	cmd, _, stderr := testCommand(nil, "")

	if err := compileSchemas(cmd, nil); err != nil {
		t.Fatalf("compileSchemas() error = %v\n%s", err, stderr)
	}

	data, err := os.ReadFile(filepath.Join(dir, "gen", "schema.go"))
	if err != nil {
		t.Fatalf("go output missing: %v", err)
	}
	if !strings.Contains(string(data), "package shapes") {
		t.Errorf("go output has no package clause:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "gen", "schema.yaml")); err != nil {
		t.Errorf("yaml output missing: %v", err)
	}
	if !strings.Contains(stderr.String(), "2 of 2 outputs written") {
		t.Errorf("progress summary missing:\n%s", stderr)
	}
}

func TestCompileSchemas_LangToStdout(t *testing.T) {
	setupProject(t, validFiles())
	compileFlags.lang = "golang"
	compileFlags.pkg = "api"
	cmd, stdout, stderr := testCommand(nil, "")

	if err := compileSchemas(cmd, []string{"schemas"}); err != nil {
		t.Fatalf("compileSchemas() error = %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout.String(), "package api") {
		t.Errorf("stdout = %q, want generated Go", stdout)
	}
	if strings.Contains(stderr.String(), "outputs written") {
		t.Errorf("progress printed while writing to stdout:\n%s", stderr)
	}
}

func TestCompileSchemas_Stdin(t *testing.T) {
	dir := setupProject(t, validFiles())
	compileFlags.lang = "yaml"
	compileFlags.stdinPath = filepath.Join(dir, "schemas", "editor.anybuf")
	cmd, stdout, stderr := testCommand(nil, testShapes)

	if err := compileSchemas(cmd, []string{StdinSource}); err != nil {
		t.Fatalf("compileSchemas() error = %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout.String(), "Shape") {
		t.Errorf("stdout = %q, want Shape declaration", stdout)
	}
}

func TestCompileSchemas_Diagnostics(t *testing.T) {
	files := validFiles()
	files["schemas/shapes.anybuf"] = "struct S { a: 0 Missing; }\n"
	dir := setupProject(t, files)
	cmd, _, stderr := testCommand(nil, "")

	err := compileSchemas(cmd, nil)
	var diagErr *cli.DiagnosticsError
	if !errors.As(err, &diagErr) {
		t.Fatalf("compileSchemas() error = %v, want DiagnosticsError", err)
	}
	if !cli.Silent(err) || cli.ExitCode(err) != cli.ExitFailure {
		t.Errorf("DiagnosticsError should be silent with exit code %d", cli.ExitFailure)
	}
	if !strings.Contains(stderr.String(), `"Missing": doesn't exist`) {
		t.Errorf("stderr = %q, want diagnostic", stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "gen")); !os.IsNotExist(err) {
		t.Error("outputs written despite diagnostics")
	}
}

func TestCompileSchemas_NoOutputs(t *testing.T) {
	files := validFiles()
	files["anybuf.yaml"] = "sources: [schemas]\n"
	setupProject(t, files)
	cmd, _, _ := testCommand(nil, "")

	err := compileSchemas(cmd, nil)
	if cli.ExitCode(err) != cli.ExitUsage {
		t.Errorf("compileSchemas() error = %v, want usage error", err)
	}
}

func TestCompileSchemas_BadConfig(t *testing.T) {
	files := validFiles()
	files["anybuf.yaml"] = "parser:\n  max_depth: -1\n"
	setupProject(t, files)
	cmd, _, _ := testCommand(nil, "")

	var cfgErr *cli.ConfigError
	if err := compileSchemas(cmd, nil); !errors.As(err, &cfgErr) {
		t.Errorf("compileSchemas() error = %v, want ConfigError", err)
	}
}

func TestCompileSchemas_RequiredVersion(t *testing.T) {
	files := validFiles()
	files["anybuf.yaml"] = "required_version: \">= 99.0\"\n" + testConfig
	setupProject(t, files)
	cmd, _, _ := testCommand(nil, "")

	var cfgErr *cli.ConfigError
	err := compileSchemas(cmd, nil)
	if !errors.As(err, &cfgErr) || cfgErr.Field != "required_version" {
		t.Fatalf("compileSchemas() error = %v, want required_version ConfigError", err)
	}
	if !strings.Contains(err.Error(), Version) {
		t.Errorf("error %q should name the running version", err)
	}
}

func TestFlagOutputs(t *testing.T) {
	t.Cleanup(resetFlags)

	tests := []struct {
		name    string
		lang    string
		out     string
		pkg     string
		want    string
		wantErr bool
	}{
		{name: "configured outputs", want: ""},
		{name: "alias to stdout", lang: "TS", want: "typescript"},
		{name: "explicit stdout", lang: "go", out: "-", want: "go"},
		{name: "unknown language", lang: "cobol", wantErr: true},
		{name: "out without lang", out: "x.go", wantErr: true},
		{name: "package without lang", pkg: "api", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compileFlags.lang, compileFlags.out, compileFlags.pkg = tt.lang, tt.out, tt.pkg

			outputs, err := flagOutputs()
			if tt.wantErr {
				if cli.ExitCode(err) != cli.ExitUsage {
					t.Errorf("flagOutputs() error = %v, want usage error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("flagOutputs() error = %v", err)
			}
			if tt.want == "" {
				if outputs != nil {
					t.Errorf("flagOutputs() = %v, want nil", outputs)
				}
				return
			}
			if len(outputs) != 1 || outputs[0].Language != tt.want || outputs[0].Path != compiler.StdoutPath {
				t.Errorf("flagOutputs() = %+v, want %s to stdout", outputs, tt.want)
			}
		})
	}
}

func TestFlagOutputs_AbsoluteOut(t *testing.T) {
	t.Cleanup(resetFlags)
	dir := t.TempDir()
	chdir(t, dir)
	compileFlags.lang, compileFlags.out = "go", "gen/x.go"

	outputs, err := flagOutputs()
	if err != nil {
		t.Fatalf("flagOutputs() error = %v", err)
	}
	if !filepath.IsAbs(outputs[0].Path) || filepath.Base(outputs[0].Path) != "x.go" {
		t.Errorf("Path = %q, want absolute path to x.go", outputs[0].Path)
	}
}

func TestSourceRequest(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	req, err := sourceRequest([]string{"a.anybuf", "-", "b"}, strings.NewReader("module m {}"), "")
	if err != nil {
		t.Fatalf("sourceRequest() error = %v", err)
	}
	if len(req.Sources) != 2 || req.Sources[0] != "a.anybuf" || req.Sources[1] != "b" {
		t.Errorf("Sources = %v", req.Sources)
	}
	if len(req.Inline) != 1 || string(req.Inline[0].Data) != "module m {}" {
		t.Fatalf("Inline = %+v", req.Inline)
	}
	if filepath.Base(req.Inline[0].Path) != "stdin.anybuf" || !filepath.IsAbs(req.Inline[0].Path) {
		t.Errorf("Inline path = %q", req.Inline[0].Path)
	}

	if _, err := sourceRequest([]string{"-", "-"}, strings.NewReader(""), "x.anybuf"); err == nil {
		t.Error("reading stdin twice should fail")
	}
}
