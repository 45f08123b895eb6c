package history

import (
	"context"
	"fmt"
	"time"
)

// Build is one recorded compile run.
type Build struct {
	ID          string        `json:"id" yaml:"id"`
	Command     string        `json:"command" yaml:"command"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	Success     bool          `json:"success" yaml:"success"`
	Files       int           `json:"files" yaml:"files"`
	Modules     int           `json:"modules" yaml:"modules"`
	Enums       int           `json:"enums" yaml:"enums"`
	Structs     int           `json:"structs" yaml:"structs"`
	Diagnostics []string      `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Outputs     []Output      `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Error       string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Output is one generated file of a build.
type Output struct {
	Language string `json:"language" yaml:"language"`
	Path     string `json:"path" yaml:"path"`
	Bytes    int    `json:"bytes" yaml:"bytes"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Query filters listed builds. Results are ordered newest first.
type Query struct {
	// Since excludes builds started before it.
	Since time.Time

	// FailedOnly returns only failed builds.
	FailedOnly bool

	// Limit bounds the number of builds returned. Default: 20
	Limit int
}

// DefaultLimit is the number of builds listed when Query.Limit is zero.
const DefaultLimit = 20

// Store persists builds.
type Store interface {
	// Record stores a build.
	Record(ctx context.Context, build *Build) error

	// List returns the builds matching q, newest first.
	List(ctx context.Context, q Query) ([]*Build, error)

	// Count returns the number of stored builds.
	Count(ctx context.Context) (int64, error)

	// DeleteBefore removes builds started before t.
	DeleteBefore(ctx context.Context, t time.Time) (int64, error)

	// DeleteOldest removes the n oldest builds.
	DeleteOldest(ctx context.Context, n int64) (int64, error)

	// Close releases the store.
	Close() error
}

// StorageError reports a failed store operation.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s %s: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func newStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
