package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"anybuf-dev/anybuf/pkg/cli"
	"anybuf-dev/anybuf/pkg/history"
)

var historyFlags struct {
	format string
	limit  int
	failed bool
	since  time.Duration
	prune  bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently recorded builds",
	Long: `Show the builds recorded by compile and watch, newest first.

Recording is enabled with history.enabled in the configuration. Builds
older than history.max_age and the oldest beyond history.max_builds are
pruned by --prune and periodically while watching.

Examples:
  # Last 20 builds
  anybuf history

  # Failed builds of the last day as JSON
  anybuf history --failed --since 24h --format json

  # Apply the retention limits now
  anybuf history --prune`,
	Args: cobra.NoArgs,
	RunE: showHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json, yaml")
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", history.DefaultLimit, "maximum number of builds to show")
	historyCmd.Flags().BoolVar(&historyFlags.failed, "failed", false, "only show failed builds")
	historyCmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only show builds started within this duration")
	historyCmd.Flags().BoolVar(&historyFlags.prune, "prune", false, "apply the retention limits before listing")
}

func showHistory(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(historyFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatYAML)
	if err != nil {
		return err
	}
	if historyFlags.limit < 0 || historyFlags.since < 0 {
		return cli.NewConfigError("flags", "--limit and --since must not be negative")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return cli.NewConfigError("history.enabled", "build history is disabled; set history.enabled in the configuration")
	}

	store, err := history.OpenSQLite(cfg.ResolvePath(cfg.History.Path))
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	ctx := commandContext(cmd)
	if historyFlags.prune {
		deleted, err := history.NewPruner(store, cfg.History, logger).Prune(ctx)
		if err != nil {
			return cli.NewCommandError("history", err)
		}
		if !quiet && format == cli.FormatText {
			fmt.Fprintf(cmd.ErrOrStderr(), "pruned %d builds\n", deleted)
		}
	}

	q := history.Query{FailedOnly: historyFlags.failed, Limit: historyFlags.limit}
	if historyFlags.since > 0 {
		q.Since = time.Now().Add(-historyFlags.since)
	}
	builds, err := store.List(ctx, q)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if format != cli.FormatText {
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), builds)
	}
	return printBuilds(cmd, builds)
}

func printBuilds(cmd *cobra.Command, builds []*history.Build) error {
	if len(builds) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no builds recorded")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tCOMMAND\tRESULT\tFILES\tDURATION\tDETAIL")
	for _, b := range builds {
		result, detail := "ok", fmt.Sprintf("%d outputs", len(b.Outputs))
		if !b.Success {
			result = "FAIL"
			switch {
			case len(b.Diagnostics) > 0:
				detail = b.Diagnostics[0]
			case b.Error != "":
				detail = firstLine(b.Error)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			shortID(b.ID), b.StartedAt.Local().Format(time.DateTime), b.Command, result,
			b.Files, b.Duration.Round(time.Microsecond), detail)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
