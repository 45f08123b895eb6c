package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("--lang", "unsupported language")

	expected := "config error in --lang: unsupported language"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("compile", underlyingErr)

	expected := "command compile failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("CommandError does not unwrap to its cause")
	}
}

func TestDiagnosticsError(t *testing.T) {
	if got := (&DiagnosticsError{Count: 1}).Error(); got != "1 diagnostic" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&DiagnosticsError{Count: 3}).Error(); got != "3 diagnostics" {
		t.Errorf("Error() = %q", got)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"config", NewConfigError("f", "m"), ExitUsage},
		{"wrapped config", fmt.Errorf("loading: %w", NewConfigError("f", "m")), ExitUsage},
		{"diagnostics", &DiagnosticsError{Count: 1}, ExitFailure},
		{"command", NewCommandError("compile", errors.New("boom")), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSilent(t *testing.T) {
	if !Silent(NewCommandError("check", &DiagnosticsError{Count: 2})) {
		t.Error("wrapped diagnostics should be silent")
	}
	if Silent(errors.New("boom")) {
		t.Error("plain errors should be printed")
	}
}
