package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"anybuf-dev/anybuf/pkg/cli"
	"anybuf-dev/anybuf/pkg/compiler"
	"anybuf-dev/anybuf/pkg/config"
	"anybuf-dev/anybuf/pkg/history"
	"anybuf-dev/anybuf/pkg/telemetry/health"
	"anybuf-dev/anybuf/pkg/telemetry/logging"
	"anybuf-dev/anybuf/pkg/telemetry/metrics"
	"anybuf-dev/anybuf/pkg/watch"
)

var watchFlags struct {
	metrics     bool
	metricsAddr string
	debounce    time.Duration
	context     bool
}

var watchCmd = &cobra.Command{
	Use:   "watch [sources...]",
	Short: "Recompile schemas whenever they change",
	Long: `Compile the schemas once, then watch them and recompile after every change.

Changes are debounced so that saving several files triggers one rebuild.
Files reached through imports are watched too. Diagnostics are printed
after every failed rebuild and the previous outputs are left untouched.

With metrics enabled, Prometheus metrics for compiles, outputs and watch
events are served while watching, together with /healthz, /readyz and
/version. /readyz answers 503 while the latest build is failing.

Examples:
  # Watch the configured sources and outputs
  anybuf watch

  # Expose metrics on a custom address
  anybuf watch --metrics --metrics-addr 127.0.0.1:9100`,
	RunE: watchSchemas,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchFlags.metrics, "metrics", false, "serve Prometheus metrics while watching")
	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "override metrics listen address")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "override the debounce interval")
	watchCmd.Flags().BoolVar(&watchFlags.context, "context", false, "print diagnostics with source context")
}

func watchSchemas(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyWatchFlags(cfg); err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	wcfg := watch.FromConfig(cfg)
	var req compiler.Request
	for _, arg := range args {
		if arg == StdinSource {
			return cli.NewConfigError("sources", "watch cannot read stdin")
		}
		req.Sources = append(req.Sources, arg)
	}
	if len(req.Sources) > 0 {
		wcfg.Paths = absPaths(req.Sources)
	}

	state := &health.BuildState{}
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	if collector.Enabled() {
		checker := health.New(0)
		checker.RegisterCheck("build", state.Check)
		checker.RegisterCheck("sources", health.PathsCheck(wcfg.Paths))
		info := health.VersionInfo{Version: Version, Commit: GitCommit, BuildTime: BuildDate}

		addr, done, err := collector.Serve(ctx, health.Mount(checker, info))
		if err != nil {
			return cli.NewConfigError("telemetry.metrics.listen_address", err.Error())
		}
		logger.Info("serving metrics", "address", addr.String(), "path", cfg.Telemetry.Metrics.Path)
		defer func() {
			stop()
			if err := <-done; err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	w, err := watch.New(wcfg, logger, collector)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer w.Close()

	c, shutdown, err := newCompiler(cmd, cfg, logger, collector)
	if err != nil {
		return err
	}
	defer shutdown()

	store := openHistory(cfg, logger)
	if store != nil {
		defer store.Close()
		scheduler := history.NewScheduler(history.NewPruner(store, cfg.History, logger), cfg.History.PruneSchedule)
		if err := scheduler.Start(ctx); err != nil {
			logger.Warn("history pruning disabled", "error", err)
		}
		defer scheduler.Stop()
	}
	recorder := history.NewRecorder(store, "watch", logger)

	b := &builder{cmd: cmd, compiler: c, watcher: w, req: req, logger: logger, state: state, recorder: recorder}

	b.build(ctx, nil)
	if err := w.Watch(ctx, b.build); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

func applyWatchFlags(cfg *config.Config) error {
	if watchFlags.metrics {
		cfg.Telemetry.Metrics.Enabled = true
	}
	if watchFlags.metricsAddr != "" {
		cfg.Telemetry.Metrics.ListenAddress = watchFlags.metricsAddr
	}
	if watchFlags.debounce != 0 {
		cfg.Watch.Debounce = watchFlags.debounce
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("flags", err.Error())
	}
	return nil
}

// builder runs one compile per debounced change and reports the outcome.
type builder struct {
	cmd      *cobra.Command
	compiler *compiler.Compiler
	watcher  *watch.Watcher
	req      compiler.Request
	logger   *logging.Logger
	state    *health.BuildState
	recorder *history.Recorder
}

func (b *builder) build(ctx context.Context, changed []string) {
	if ctx.Err() != nil {
		return
	}
	if len(changed) > 0 {
		b.logger.Debug("rebuilding", "changed", changed)
	}

	res, err := b.compiler.Compile(ctx, b.req)
	b.state.Record(err)
	b.recorder.Record(ctx, res, err)
	// Watch imported files even when the build failed further on.
	b.watcher.Track(res.Files)

	out := b.cmd.ErrOrStderr()
	stamp := time.Now().Format("15:04:05")
	switch {
	case len(res.Diagnostics) > 0:
		printDiagnostics(b.cmd, res, watchFlags.context)
		fmt.Fprintf(out, "%s build failed: %d diagnostics\n", stamp, len(res.Diagnostics))
	case err != nil:
		fmt.Fprintf(out, "%s build failed: %v\n", stamp, err)
	case !quiet:
		fmt.Fprintf(out, "%s built %d files into %d outputs in %s\n",
			stamp, len(res.Files), len(res.Outputs), res.Duration.Round(time.Millisecond))
	}
}

// absPaths makes watch arguments absolute so that log lines and
// directory bookkeeping agree.
func absPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out[i] = p
	}
	return out
}
