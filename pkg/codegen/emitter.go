package codegen

import (
	"fmt"
	"io"
	"strings"

	"anybuf-dev/anybuf/pkg/idl/ast"
)

// Emitter is the output handle passed to backend hooks. It tracks the
// indentation level and keeps the first write error, so hooks can write
// freely and check Err once.
type Emitter struct {
	w      io.Writer
	tree   *ast.Tree
	pkg    string
	indent int
	unit   string
	err    error
}

func newEmitter(w io.Writer, tree *ast.Tree, pkg, unit string) *Emitter {
	return &Emitter{w: w, tree: tree, pkg: pkg, unit: unit}
}

// Tree returns the tree being written.
func (e *Emitter) Tree() *ast.Tree { return e.tree }

// Package returns the root namespace or package name, possibly empty.
func (e *Emitter) Package() string { return e.pkg }

// Indent increases the indentation of following lines.
func (e *Emitter) Indent() { e.indent++ }

// Dedent decreases the indentation of following lines.
func (e *Emitter) Dedent() {
	if e.indent > 0 {
		e.indent--
	}
}

// Printf writes formatted text without indentation or newline.
func (e *Emitter) Printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// StartLine writes the indentation for a new line.
func (e *Emitter) StartLine() {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, strings.Repeat(e.unit, e.indent))
}

// Linef writes one indented line. An empty format writes a blank line.
func (e *Emitter) Linef(format string, args ...any) {
	if format == "" {
		e.Printf("\n")
		return
	}
	e.StartLine()
	e.Printf(format, args...)
	e.Printf("\n")
}

// Comment writes a doc comment as line comments. Block comment markers
// are stripped.
func (e *Emitter) Comment(prefix, doc string) {
	for _, line := range docLines(doc) {
		if line == "" {
			e.Linef("%s", strings.TrimRight(prefix, " "))
			continue
		}
		e.Linef("%s%s", prefix, line)
	}
}

// Err returns the first write error.
func (e *Emitter) Err() error { return e.err }

// docLines splits raw comment text into its content lines.
func docLines(doc string) []string {
	if doc == "" {
		return nil
	}
	switch {
	case strings.HasPrefix(doc, "//"):
		return []string{strings.TrimSpace(strings.TrimPrefix(doc, "//"))}
	case strings.HasPrefix(doc, "/*"):
		doc = strings.TrimSuffix(strings.TrimPrefix(doc, "/*"), "*/")
	}
	var lines []string
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		lines = append(lines, line)
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
