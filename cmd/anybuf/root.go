package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"anybuf-dev/anybuf/pkg/cli"
	"anybuf-dev/anybuf/pkg/compiler"
	"anybuf-dev/anybuf/pkg/config"
	"anybuf-dev/anybuf/pkg/history"
	"anybuf-dev/anybuf/pkg/telemetry/logging"
	"anybuf-dev/anybuf/pkg/telemetry/metrics"
	"anybuf-dev/anybuf/pkg/telemetry/tracing"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string
	quiet     bool
)

var rootCmd = &cobra.Command{
	Use:   "anybuf",
	Short: "anybuf - schema compiler and code generator",
	Long: `anybuf reads schema files describing modules, enums and structs,
resolves every name and type, and generates code for Go, TypeScript or a
YAML description of the schema.

Without --config, anybuf looks for anybuf.yaml (or anybuf.yml) in the
working directory and falls back to defaults when there is none.
Environment variables named ANYBUF_SECTION_FIELD override the file.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil && !cli.Silent(err) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: ./anybuf.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log format (json, text, console)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print diagnostics and errors")
}

// loadConfig resolves the configuration and applies the global flag
// overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Initialize(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}

	if err := config.CheckVersion(cfg, Version); err != nil {
		return nil, cli.NewConfigError("required_version", err.Error())
	}

	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Telemetry.Logging.Format = logFormat
	}
	if logLevel != "" || logFormat != "" {
		if err := config.Validate(cfg); err != nil {
			return nil, cli.NewConfigError("flags", err.Error())
		}
	}
	return cfg, nil
}

// newLogger creates the command logger. Logs go to the command's stderr.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*logging.Logger, error) {
	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, cmd.ErrOrStderr()))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.SetDefault()
	return logger, nil
}

// newCompiler creates a compiler writing stdout outputs to the command's
// stdout and tracing to the configured collector. The returned function
// flushes pending spans.
func newCompiler(cmd *cobra.Command, cfg *config.Config, logger *logging.Logger, collector *metrics.Collector) (*compiler.Compiler, func(), error) {
	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.Tracing.Timeout)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}
	c := compiler.New(cfg, logger, collector).
		WithStdout(cmd.OutOrStdout()).
		WithTracer(tracer)
	return c, shutdown, nil
}

// openHistory opens the build history database, or returns nil when
// history is disabled. A database that cannot be opened is logged and
// skipped so that history never fails a compile.
func openHistory(cfg *config.Config, logger *logging.Logger) history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.OpenSQLite(cfg.ResolvePath(cfg.History.Path))
	if err != nil {
		logger.Warn("build history unavailable", "error", err)
		return nil
	}
	return store
}

// printDiagnostics writes one diagnostic per line, or the detailed form
// with source context.
func printDiagnostics(cmd *cobra.Command, res *compiler.Result, detailed bool) {
	w := cmd.ErrOrStderr()
	for _, d := range res.Diagnostics {
		if detailed {
			fmt.Fprintln(w, d.Detailed())
			continue
		}
		fmt.Fprintln(w, d.Error())
	}
}

// commandContext returns the command's context joined to the trace
// passed in through TRACEPARENT. The command context is unset when a
// command function is called directly.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return tracing.FromEnv(ctx)
}
