// Package logging provides structured logging for the anybuf CLI.
//
// The package wraps log/slog with three output formats. "json" suits log
// collectors, "text" is logfmt and "console" is text without timestamps
// for interactive use. Logs go to stderr by default so that generated
// code and diagnostics written to stdout stay clean.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "console"})
//	if err != nil {
//	    return err
//	}
//
//	ctx := logging.WithCompileID(ctx, logging.NewCompileID())
//	logger.InfoContext(ctx, "compiled schemas", "files", 3)
//
// Context helpers carry the compile ID, the schema source, the target
// language and the output path. The *Context methods and WithContext
// attach whichever of them are present.
package logging
