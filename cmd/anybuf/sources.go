package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"anybuf-dev/anybuf/pkg/compiler"
)

// StdinSource as a source argument reads schema text from stdin.
const StdinSource = "-"

// sourceRequest turns source arguments into a compile request. "-"
// reads stdin under stdinPath, so that its imports resolve relative to
// that path.
func sourceRequest(args []string, stdin io.Reader, stdinPath string) (compiler.Request, error) {
	var req compiler.Request
	for _, arg := range args {
		if arg != StdinSource {
			req.Sources = append(req.Sources, arg)
			continue
		}
		if len(req.Inline) > 0 {
			return req, fmt.Errorf("stdin can only be read once")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return req, fmt.Errorf("failed to read stdin: %w", err)
		}
		path := stdinPath
		if path == "" {
			wd, err := os.Getwd()
			if err != nil {
				return req, fmt.Errorf("failed to get working directory: %w", err)
			}
			path = filepath.Join(wd, "stdin.anybuf")
		}
		req.Inline = append(req.Inline, compiler.InlineSource{Path: path, Data: data})
	}
	return req, nil
}
