package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"anybuf-dev/anybuf/pkg/codegen"
	"anybuf-dev/anybuf/pkg/config"
	"anybuf-dev/anybuf/pkg/idl/ast"
	idlErrors "anybuf-dev/anybuf/pkg/idl/errors"
	"anybuf-dev/anybuf/pkg/idl/parser"
	"anybuf-dev/anybuf/pkg/telemetry/logging"
	"anybuf-dev/anybuf/pkg/telemetry/metrics"
	"anybuf-dev/anybuf/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// StdoutPath as an output path renders to the compiler's stdout writer.
const StdoutPath = "-"

// ErrNoSources is returned when a request names nothing to compile.
var ErrNoSources = errors.New("no schema sources to compile")

// Compiler runs the schema reader and the configured code generators. It
// is safe for sequential reuse; every Compile call uses a fresh reader.
type Compiler struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	stdout  io.Writer
}

// New creates a compiler for cfg. The logger and collector may be nil.
func New(cfg *config.Config, logger *logging.Logger, collector *metrics.Collector) *Compiler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Compiler{
		cfg:     cfg,
		logger:  logger,
		metrics: collector,
		stdout:  os.Stdout,
	}
}

// WithStdout sets the writer used for outputs whose path is StdoutPath.
func (c *Compiler) WithStdout(w io.Writer) *Compiler {
	c.stdout = w
	return c
}

// WithTracer records a span tree for every compile.
func (c *Compiler) WithTracer(t *tracing.Tracer) *Compiler {
	c.tracer = t
	return c
}

// Config returns the compiler's configuration.
func (c *Compiler) Config() *config.Config {
	return c.cfg
}

// InlineSource is schema text that does not come from the filesystem.
// Imports inside it resolve relative to Path.
type InlineSource struct {
	Path string
	Data []byte
}

// Request selects what one Compile call reads and writes.
type Request struct {
	// Sources are schema files or directories. Empty means the
	// configured sources, resolved against the configuration directory.
	Sources []string

	// Inline is read in addition to Sources.
	Inline []InlineSource

	// Outputs overrides the configured outputs. Paths are used as given.
	Outputs []config.OutputConfig

	// SkipOutputs only reads and resolves the schemas.
	SkipOutputs bool
}

// OutputResult reports one generated file.
type OutputResult struct {
	Language string
	Path     string
	Bytes    int
	Err      error
}

// Result reports one compile run.
type Result struct {
	// ID identifies the run in logs.
	ID string

	// Started is when the run began.
	Started time.Time

	// Tree is the resolved AST, nil when reading failed.
	Tree *ast.Tree

	// Diagnostics are the reader's errors. Reading is fail-fast, so a
	// failed run usually carries exactly one.
	Diagnostics []*idlErrors.Error

	// Files are the schema files read, imports included, in path order.
	Files []string

	// Stats counts the nodes of Tree.
	Stats ast.Stats

	// Duration is the time spent reading the schemas.
	Duration time.Duration

	// Outputs lists the generated files in request order.
	Outputs []OutputResult
}

// OK reports whether the schemas compiled and every output was written.
func (r *Result) OK() bool {
	if len(r.Diagnostics) > 0 || r.Tree == nil {
		return false
	}
	for _, out := range r.Outputs {
		if out.Err != nil {
			return false
		}
	}
	return true
}

// DiagnosticStrings returns the diagnostics in their single-line form.
func (r *Result) DiagnosticStrings() []string {
	lines := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		lines[i] = d.Error()
	}
	return lines
}

// Compile reads the requested schemas and, when they resolve, runs the
// code generators. The returned error is the reader's diagnostic list,
// the joined output errors, or a context error. The Result is always
// non-nil so that callers can report partial progress.
func (c *Compiler) Compile(ctx context.Context, req Request) (*Result, error) {
	res := &Result{ID: logging.NewCompileID(), Started: time.Now()}
	ctx = logging.WithCompileID(ctx, res.ID)
	ctx, span := c.tracer.Start(ctx, "anybuf.compile", attribute.String(tracing.AttrCompileID, res.ID))

	err := c.compile(ctx, req, res)

	span.SetAttributes(
		attribute.Int(tracing.AttrFiles, len(res.Files)),
		attribute.Int(tracing.AttrDiagnostics, len(res.Diagnostics)),
	)
	if res.Tree != nil {
		span.SetAttributes(
			attribute.Int(tracing.AttrModules, res.Stats.Modules),
			attribute.Int(tracing.AttrStructs, res.Stats.Structs),
			attribute.Int(tracing.AttrEnums, res.Stats.Enums),
		)
	}
	tracing.End(span, err)
	return res, err
}

func (c *Compiler) compile(ctx context.Context, req Request, res *Result) error {
	sources := req.Sources
	if len(sources) == 0 && len(req.Inline) == 0 {
		sources = c.cfg.SourcePaths()
	}
	if len(sources) == 0 && len(req.Inline) == 0 {
		return ErrNoSources
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	tree, reader, err := c.read(ctx, sources, req.Inline)
	res.Duration = time.Since(start)
	res.Files = reader.Registry().Paths()
	res.Diagnostics = reader.Errors()

	c.metrics.RecordCompile(err == nil, res.Duration, diagnosticTypes(res.Diagnostics))

	if err != nil {
		for _, d := range res.Diagnostics {
			c.logger.DebugContext(ctx, "schema diagnostic", "type", string(d.Type), "diagnostic", d.Error())
		}
		c.logger.WarnContext(ctx, "schema compile failed",
			"files", len(res.Files),
			"diagnostics", len(res.Diagnostics),
			"duration_ms", res.Duration.Milliseconds(),
		)
		return err
	}

	res.Tree = tree
	res.Stats = ast.Count(tree)
	c.metrics.UpdateTree(len(res.Files), res.Stats)
	c.logger.InfoContext(ctx, "schemas compiled",
		"files", len(res.Files),
		"structs", res.Stats.Structs,
		"enums", res.Stats.Enums,
		"duration_ms", res.Duration.Milliseconds(),
	)

	if req.SkipOutputs {
		return nil
	}

	outputs := req.Outputs
	if outputs == nil {
		outputs = c.configuredOutputs()
	}

	var errs []error
	for _, out := range outputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		result := c.writeOutput(ctx, tree, out)
		res.Outputs = append(res.Outputs, result)
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}

	return errors.Join(errs...)
}

func (c *Compiler) read(ctx context.Context, sources []string, inline []InlineSource) (*ast.Tree, *parser.Reader, error) {
	reader := parser.NewReader().
		WithMaxFileSize(c.cfg.Parser.MaxFileSize).
		WithMaxDepth(c.cfg.Parser.MaxDepth).
		WithExtension(c.cfg.Extension)

	for _, src := range sources {
		c.logger.DebugContext(logging.WithSource(ctx, src), "loading schemas")
		// Load failures are recorded by the reader and reported by Read.
		_ = reader.Load(src)
	}
	for _, in := range inline {
		c.logger.DebugContext(logging.WithSource(ctx, in.Path), "loading inline schema", "bytes", len(in.Data))
		_ = reader.LoadBytes(in.Path, in.Data)
	}

	_, span := c.tracer.Start(ctx, "anybuf.read", attribute.Int(tracing.AttrSources, len(sources)+len(inline)))
	tree, err := reader.Read()
	tracing.End(span, err)
	return tree, reader, err
}

// configuredOutputs returns the configured outputs with their paths
// resolved against the configuration directory.
func (c *Compiler) configuredOutputs() []config.OutputConfig {
	outputs := make([]config.OutputConfig, len(c.cfg.Outputs))
	for i, out := range c.cfg.Outputs {
		out.Path = c.cfg.ResolvePath(out.Path)
		outputs[i] = out
	}
	return outputs
}

func (c *Compiler) writeOutput(ctx context.Context, tree *ast.Tree, out config.OutputConfig) OutputResult {
	result := OutputResult{Language: out.Language, Path: out.Path}
	ctx = logging.WithOutput(ctx, out.Path)
	ctx, span := c.tracer.Start(ctx, "anybuf.output", tracing.OutputAttributes(out.Language, out.Path)...)
	defer func() {
		span.SetAttributes(attribute.Int(tracing.AttrBytes, result.Bytes))
		tracing.End(span, result.Err)
	}()

	w, err := codegen.New(out.Language, out.Path, out.Package)
	if err != nil {
		result.Err = err
		c.logger.ErrorContext(ctx, "output failed", "error", err)
		c.metrics.RecordOutput(out.Language, out.Path, err, 0)
		return result
	}
	result.Language = w.Language()
	ctx = logging.WithLanguage(ctx, w.Language())

	if out.Path == StdoutPath {
		var buf bytes.Buffer
		if err = w.WriteTo(&buf, tree); err == nil {
			_, err = c.stdout.Write(buf.Bytes())
		}
		result.Bytes = buf.Len()
	} else {
		if dir := filepath.Dir(out.Path); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				err = fmt.Errorf("%s: failed to create directory: %w", out.Path, mkErr)
			}
		}
		if err == nil {
			err = w.Write(tree)
		}
		if err == nil {
			if info, statErr := os.Stat(out.Path); statErr == nil {
				result.Bytes = int(info.Size())
			}
		}
	}

	result.Err = err
	c.metrics.RecordOutput(result.Language, out.Path, err, result.Bytes)
	if err != nil {
		c.logger.ErrorContext(ctx, "output failed", "error", err)
	} else {
		c.logger.InfoContext(ctx, "output written", "bytes", result.Bytes)
	}
	return result
}

func diagnosticTypes(diags []*idlErrors.Error) []string {
	types := make([]string, len(diags))
	for i, d := range diags {
		types[i] = string(d.Type)
	}
	return types
}
