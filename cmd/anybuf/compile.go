package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"anybuf-dev/anybuf/pkg/cli"
	"anybuf-dev/anybuf/pkg/codegen"
	"anybuf-dev/anybuf/pkg/compiler"
	"anybuf-dev/anybuf/pkg/config"
	"anybuf-dev/anybuf/pkg/history"
)

var compileFlags struct {
	lang      string
	out       string
	pkg       string
	stdinPath string
	context   bool
}

var compileCmd = &cobra.Command{
	Use:   "compile [sources...]",
	Short: "Compile schemas and generate code",
	Long: `Compile schema files and run the code generators.

Sources are schema files or directories; directories are searched
recursively for files with the configured extension. Without arguments
the configured sources are used. A source of "-" reads stdin.

Without --lang the outputs listed in the configuration are generated.
With --lang a single output is generated instead, written to --out or to
stdout.

Examples:
  # Generate every configured output
  anybuf compile

  # Generate TypeScript for a directory
  anybuf compile schemas/ --lang ts --out web/schema.ts --package api

  # Print Go code for one file
  anybuf compile schemas/shapes.anybuf --lang go`,
	RunE: compileSchemas,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileFlags.lang, "lang", "l", "", "generate a single output in this language instead of the configured outputs")
	compileCmd.Flags().StringVarP(&compileFlags.out, "out", "o", "", "output file for --lang (default: stdout)")
	compileCmd.Flags().StringVarP(&compileFlags.pkg, "package", "p", "", "package or root namespace for --lang")
	compileCmd.Flags().StringVar(&compileFlags.stdinPath, "stdin-path", "", "path used for schema text read from stdin")
	compileCmd.Flags().BoolVar(&compileFlags.context, "context", false, "print diagnostics with source context")
}

func compileSchemas(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	req, err := sourceRequest(args, cmd.InOrStdin(), compileFlags.stdinPath)
	if err != nil {
		return cli.NewCommandError("compile", err)
	}
	outputs, err := flagOutputs()
	if err != nil {
		return err
	}
	req.Outputs = outputs
	if req.Outputs == nil && len(cfg.Outputs) == 0 {
		return cli.NewConfigError("outputs", "no outputs configured; pass --lang or add outputs to the configuration")
	}

	c, shutdown, err := newCompiler(cmd, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer shutdown()
	store := openHistory(cfg, logger)
	if store != nil {
		defer store.Close()
	}
	recorder := history.NewRecorder(store, "compile", logger)

	ctx := commandContext(cmd)
	res, err := c.Compile(ctx, req)
	recorder.Record(ctx, res, err)
	if len(res.Diagnostics) > 0 {
		printDiagnostics(cmd, res, compileFlags.context)
		return &cli.DiagnosticsError{Count: len(res.Diagnostics)}
	}

	// Progress goes to stderr so that stdout only carries generated code.
	if !quiet && len(res.Outputs) > 0 && !writesStdout(res.Outputs) {
		progress := cli.NewProgressReporter(cmd.ErrOrStderr())
		progress.Start(len(res.Outputs))
		for _, out := range res.Outputs {
			progress.Step(fmt.Sprintf("%s (%s)", out.Path, out.Language), out.Err)
		}
		progress.Finish()
	}

	if err != nil {
		return cli.NewCommandError("compile", err)
	}
	return nil
}

// flagOutputs returns the single output selected by --lang, or nil to use
// the configured outputs.
func flagOutputs() ([]config.OutputConfig, error) {
	if compileFlags.lang == "" {
		if compileFlags.out != "" || compileFlags.pkg != "" {
			return nil, cli.NewConfigError("--lang", "--out and --package require --lang")
		}
		return nil, nil
	}

	lang, ok := codegen.Normalize(compileFlags.lang)
	if !ok {
		return nil, cli.NewConfigError("--lang", fmt.Sprintf("unsupported language %q (supported: %s)",
			compileFlags.lang, joinLanguages()))
	}

	out := compileFlags.out
	switch out {
	case "", compiler.StdoutPath:
		out = compiler.StdoutPath
	default:
		abs, err := filepath.Abs(out)
		if err != nil {
			return nil, cli.NewConfigError("--out", err.Error())
		}
		out = abs
	}

	return []config.OutputConfig{{Language: lang, Path: out, Package: compileFlags.pkg}}, nil
}

func writesStdout(outputs []compiler.OutputResult) bool {
	for _, out := range outputs {
		if out.Path == compiler.StdoutPath {
			return true
		}
	}
	return false
}
