package main

import (
	"github.com/spf13/cobra"

	"anybuf-dev/anybuf/pkg/cli"
	"anybuf-dev/anybuf/pkg/codegen"
)

var dumpFlags struct {
	format    string
	stdinPath string
}

var dumpCmd = &cobra.Command{
	Use:   "dump [sources...]",
	Short: "Print the resolved declarations",
	Long: `Compile schemas and print every declaration with its resolved types.

Reopened modules are listed once per reopening, in source order. Type
names are canonical: u32[], [u32, str], <str, u32>, geo.Shape.

Examples:
  # YAML description of the configured sources
  anybuf dump

  # JSON for tooling
  anybuf dump schemas/ --format json`,
	RunE: dumpSchemas,
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().StringVar(&dumpFlags.format, "format", "yaml", "output format: yaml, json")
	dumpCmd.Flags().StringVar(&dumpFlags.stdinPath, "stdin-path", "", "path used for schema text read from stdin")
}

func dumpSchemas(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(dumpFlags.format, cli.FormatYAML, cli.FormatJSON)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	req, err := sourceRequest(args, cmd.InOrStdin(), dumpFlags.stdinPath)
	if err != nil {
		return cli.NewCommandError("dump", err)
	}
	req.SkipOutputs = true

	c, shutdown, err := newCompiler(cmd, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer shutdown()

	res, err := c.Compile(commandContext(cmd), req)
	if len(res.Diagnostics) > 0 {
		printDiagnostics(cmd, res, false)
		return &cli.DiagnosticsError{Count: len(res.Diagnostics)}
	}
	if err != nil {
		return cli.NewCommandError("dump", err)
	}

	decls := codegen.Describe(res.Tree)
	if decls == nil {
		decls = []codegen.Declaration{}
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), decls)
}
