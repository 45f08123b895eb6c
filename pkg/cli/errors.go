package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK = 0
	// ExitFailure reports schema diagnostics or failed outputs.
	ExitFailure = 1
	// ExitUsage reports invalid flags or configuration.
	ExitUsage = 2
)

// ConfigError represents an error in configuration or flags.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// DiagnosticsError reports that compilation produced diagnostics. The
// diagnostics themselves have already been printed.
type DiagnosticsError struct {
	Count int
}

func (e *DiagnosticsError) Error() string {
	if e.Count == 1 {
		return "1 diagnostic"
	}
	return fmt.Sprintf("%d diagnostics", e.Count)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitUsage
	}
	return ExitFailure
}

// Silent reports whether err was already shown to the user, so that the
// caller need not print it again.
func Silent(err error) bool {
	var diag *DiagnosticsError
	return errors.As(err, &diag)
}
