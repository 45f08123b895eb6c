/*
Package cli provides command-line interface utilities for the anybuf command.

Output Formatting:

Commands that print structured results support text, JSON and YAML:

	format, err := cli.ParseFormat(flag, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, result); err != nil {
		return err
	}

Progress Reporting:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(len(outputs))
	for _, out := range outputs {
		progress.Step(out.Path, out.Err)
	}
	progress.Finish()

Exit Codes:

ExitCode maps command errors to exit codes: 1 for diagnostics and failed
outputs, 2 for configuration and flag errors.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
