package logging

import (
	"context"

	"github.com/google/uuid"
)

// Context keys for common log fields.
type contextKey string

const (
	// CompileIDKey is the context key for the identifier of one compile run.
	CompileIDKey contextKey = "compile_id"

	// SourceKey is the context key for the schema source being compiled.
	SourceKey contextKey = "source"

	// LanguageKey is the context key for the target language of a backend.
	LanguageKey contextKey = "language"

	// OutputKey is the context key for the path of a generated file.
	OutputKey contextKey = "output"
)

// NewCompileID returns a fresh identifier for a compile run.
func NewCompileID() string {
	return uuid.NewString()
}

// WithCompileID adds a compile ID to the context.
func WithCompileID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CompileIDKey, id)
}

// GetCompileID retrieves the compile ID from the context.
func GetCompileID(ctx context.Context) string {
	if id, ok := ctx.Value(CompileIDKey).(string); ok {
		return id
	}
	return ""
}

// WithSource adds a schema source path to the context.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey, source)
}

// GetSource retrieves the schema source path from the context.
func GetSource(ctx context.Context) string {
	if source, ok := ctx.Value(SourceKey).(string); ok {
		return source
	}
	return ""
}

// WithLanguage adds a target language to the context.
func WithLanguage(ctx context.Context, language string) context.Context {
	return context.WithValue(ctx, LanguageKey, language)
}

// GetLanguage retrieves the target language from the context.
func GetLanguage(ctx context.Context) string {
	if language, ok := ctx.Value(LanguageKey).(string); ok {
		return language
	}
	return ""
}

// WithOutput adds a generated file path to the context.
func WithOutput(ctx context.Context, output string) context.Context {
	return context.WithValue(ctx, OutputKey, output)
}

// GetOutput retrieves the generated file path from the context.
func GetOutput(ctx context.Context) string {
	if output, ok := ctx.Value(OutputKey).(string); ok {
		return output
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if id := GetCompileID(ctx); id != "" {
		fields = append(fields, string(CompileIDKey), id)
	}
	if source := GetSource(ctx); source != "" {
		fields = append(fields, string(SourceKey), source)
	}
	if language := GetLanguage(ctx); language != "" {
		fields = append(fields, string(LanguageKey), language)
	}
	if output := GetOutput(ctx); output != "" {
		fields = append(fields, string(OutputKey), output)
	}

	return fields
}

// ContextLogger is a logger that automatically includes context fields.
type ContextLogger struct {
	logger *Logger
	ctx    context.Context
}

// NewContextLogger creates a logger that automatically includes context fields.
func NewContextLogger(logger *Logger, ctx context.Context) *ContextLogger {
	return &ContextLogger{
		logger: logger.WithContext(ctx),
		ctx:    ctx,
	}
}

// Debug logs a debug message with context fields.
func (cl *ContextLogger) Debug(msg string, args ...any) {
	cl.logger.Debug(msg, args...)
}

// Info logs an info message with context fields.
func (cl *ContextLogger) Info(msg string, args ...any) {
	cl.logger.Info(msg, args...)
}

// Warn logs a warning message with context fields.
func (cl *ContextLogger) Warn(msg string, args ...any) {
	cl.logger.Warn(msg, args...)
}

// Error logs an error message with context fields.
func (cl *ContextLogger) Error(msg string, args ...any) {
	cl.logger.Error(msg, args...)
}

// With creates a new context logger with additional fields.
func (cl *ContextLogger) With(args ...any) *ContextLogger {
	return &ContextLogger{
		logger: cl.logger.With(args...),
		ctx:    cl.ctx,
	}
}
