package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type sample struct {
	Name  string   `json:"name" yaml:"name"`
	Files []string `json:"files" yaml:"files"`
}

func TestTextFormatter(t *testing.T) {
	formatter := &TextFormatter{}

	output, err := formatter.Format("test message")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if string(output) != "test message\n" {
		t.Errorf("Format() = %q", output)
	}

	buf := &bytes.Buffer{}
	if err := formatter.FormatTo(buf, []string{"a", "b"}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "a\nb\n" {
		t.Errorf("FormatTo() = %q, want one line per element", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	data := sample{Name: "schema", Files: []string{"a.anybuf"}}

	for _, indent := range []bool{false, true} {
		formatter := &JSONFormatter{Indent: indent}
		output, err := formatter.Format(data)
		if err != nil {
			t.Fatalf("Format() error = %v", err)
		}

		var decoded sample
		if err := json.Unmarshal(output, &decoded); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if decoded.Name != "schema" || len(decoded.Files) != 1 {
			t.Errorf("decoded = %+v", decoded)
		}
		if got := strings.Contains(string(output), "\n  "); got != indent {
			t.Errorf("indent = %v, output %q", indent, output)
		}
	}
}

func TestYAMLFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&YAMLFormatter{}).FormatTo(buf, sample{Name: "schema", Files: []string{"a", "b"}}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	if !strings.HasPrefix(buf.String(), "name: schema\nfiles:\n") {
		t.Errorf("FormatTo() = %q", buf.String())
	}

	var decoded sample
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Files) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatText, "*cli.TextFormatter"},
		{FormatJSON, "*cli.JSONFormatter"},
		{FormatYAML, "*cli.YAMLFormatter"},
		{OutputFormat("unknown"), "*cli.TextFormatter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f := NewFormatter(tt.format)
			var got string
			switch f.(type) {
			case *TextFormatter:
				got = "*cli.TextFormatter"
			case *JSONFormatter:
				got = "*cli.JSONFormatter"
			case *YAMLFormatter:
				got = "*cli.YAMLFormatter"
			}
			if got != tt.want {
				t.Errorf("NewFormatter(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" JSON ", FormatText, FormatJSON); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat() = %q, %v", f, err)
	}

	_, err := ParseFormat("yaml", FormatText, FormatJSON)
	if err == nil {
		t.Fatal("expected an error for a disallowed format")
	}
	if ExitCode(err) != ExitUsage || !strings.Contains(err.Error(), "supported: text, json") {
		t.Errorf("error = %v", err)
	}
}
