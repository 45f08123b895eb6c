package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"anybuf-dev/anybuf/pkg/cli"
	"anybuf-dev/anybuf/pkg/compiler"
	"anybuf-dev/anybuf/pkg/idl/ast"
)

var checkFlags struct {
	format    string
	stdinPath string
	context   bool
}

var checkCmd = &cobra.Command{
	Use:   "check [sources...]",
	Short: "Check schemas for errors",
	Long: `Parse and resolve schema files without generating code.

Reading stops at the first error. The diagnostic has the form
  <path>:<row>:<col> "<token>": <message>

Examples:
  # Check the configured sources
  anybuf check

  # Check a file with source context around the error
  anybuf check schemas/shapes.anybuf --context

  # Check schema text from an editor buffer
  cat shapes.anybuf | anybuf check - --stdin-path schemas/shapes.anybuf

  # JSON output for CI/CD
  anybuf check --format json`,
	RunE: checkSchemas,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
	checkCmd.Flags().StringVar(&checkFlags.stdinPath, "stdin-path", "", "path used for schema text read from stdin")
	checkCmd.Flags().BoolVar(&checkFlags.context, "context", false, "print diagnostics with source context")
}

// CheckResult is the machine-readable outcome of `anybuf check`.
type CheckResult struct {
	Valid       bool         `json:"valid"`
	Files       []string     `json:"files"`
	Stats       *CheckStats  `json:"stats,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// CheckStats counts the declarations of a valid schema set.
type CheckStats struct {
	Modules int `json:"modules"`
	Enums   int `json:"enums"`
	Structs int `json:"structs"`
	Fields  int `json:"fields"`
}

// Diagnostic is one error in machine-readable form.
type Diagnostic struct {
	File       string `json:"file,omitempty"`
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Token      string `json:"token,omitempty"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func checkSchemas(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(checkFlags.format, cli.FormatText, cli.FormatJSON)
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

	req, err := sourceRequest(args, cmd.InOrStdin(), checkFlags.stdinPath)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	req.SkipOutputs = true

	c, shutdown, err := newCompiler(cmd, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer shutdown()

	res, err := c.Compile(commandContext(cmd), req)
	if err != nil && len(res.Diagnostics) == 0 {
		return cli.NewCommandError("check", err)
	}

	if format == cli.FormatJSON {
		if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), newCheckResult(res)); err != nil {
			return err
		}
	} else if len(res.Diagnostics) > 0 {
		printDiagnostics(cmd, res, checkFlags.context)
	} else if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d files, %d modules, %d enums, %d structs\n",
			len(res.Files), res.Stats.Modules, res.Stats.Enums, res.Stats.Structs)
	}

	if len(res.Diagnostics) > 0 {
		return &cli.DiagnosticsError{Count: len(res.Diagnostics)}
	}
	return nil
}

func newCheckResult(res *compiler.Result) CheckResult {
	out := CheckResult{
		Valid: res.OK(),
		Files: res.Files,
	}
	if out.Files == nil {
		out.Files = []string{}
	}
	if res.Tree != nil {
		out.Stats = checkStats(res.Stats)
	}
	for _, d := range res.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			File:       d.Location.File,
			Line:       d.Location.Line,
			Column:     d.Location.Column,
			Token:      d.Token,
			Type:       string(d.Type),
			Message:    d.Message,
			Suggestion: d.Suggestion,
		})
	}
	return out
}

func checkStats(s ast.Stats) *CheckStats {
	return &CheckStats{
		Modules: s.Modules,
		Enums:   s.Enums,
		Structs: s.Structs,
		Fields:  s.Fields,
	}
}
