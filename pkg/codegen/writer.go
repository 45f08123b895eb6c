package codegen

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"anybuf-dev/anybuf/pkg/idl/ast"
)

// Backend emits declarations in one target language. Write calls the
// declaration hooks for top-level nodes only; a backend visits members,
// fields and types itself, calling WriteType where a type is needed.
type Backend interface {
	WriteType(e *Emitter, ty *ast.Type) error
	WriteModule(e *Emitter, m *ast.Module) error
	WriteEnum(e *Emitter, en *ast.Enum) error
	WriteStruct(e *Emitter, st *ast.Struct) error
}

// HeaderWriter is implemented by backends that emit a preamble before the
// first declaration.
type HeaderWriter interface {
	WriteHeader(e *Emitter) error
}

// FooterWriter is implemented by backends that emit text after the last
// declaration.
type FooterWriter interface {
	WriteFooter(e *Emitter) error
}

// Writer renders a tree to an output file with one backend. Errors are
// accumulated and available from Errors after a failed Write.
type Writer struct {
	language string
	path     string
	pkg      string
	backend  Backend
	errors   []string
}

// New creates a writer for language that writes to path. pkg is the root
// namespace or package name and may be empty.
func New(language, path, pkg string) (*Writer, error) {
	name, backend, err := lookup(language)
	if err != nil {
		return nil, err
	}
	return &Writer{language: name, path: path, pkg: pkg, backend: backend}, nil
}

// Language returns the canonical language name.
func (w *Writer) Language() string { return w.language }

// Path returns the output path.
func (w *Writer) Path() string { return w.path }

// Package returns the root namespace or package name.
func (w *Writer) Package() string { return w.pkg }

// Errors returns the errors of previous writes.
func (w *Writer) Errors() []string { return w.errors }

// Write creates the output file and renders the tree into it.
func (w *Writer) Write(tree *ast.Tree) error {
	f, err := os.Create(w.path)
	if err != nil {
		return w.fail(fmt.Errorf("%s: open failed", w.path))
	}

	buf := bufio.NewWriter(f)
	if err := w.render(buf, tree); err != nil {
		_ = f.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		_ = f.Close()
		return w.fail(fmt.Errorf("%s: write failed: %w", w.path, err))
	}
	if err := f.Close(); err != nil {
		return w.fail(fmt.Errorf("%s: close failed: %w", w.path, err))
	}
	return nil
}

// WriteTo renders the tree to out instead of the output file.
func (w *Writer) WriteTo(out io.Writer, tree *ast.Tree) error {
	return w.render(out, tree)
}

func (w *Writer) render(out io.Writer, tree *ast.Tree) error {
	e := newEmitter(out, tree, w.pkg, indentUnit(w.language))

	if h, ok := w.backend.(HeaderWriter); ok {
		if err := h.WriteHeader(e); err != nil {
			return w.fail(err)
		}
	}

	for _, id := range tree.Roots {
		var err error
		switch n := tree.Node(id).(type) {
		case *ast.Module:
			err = w.backend.WriteModule(e, n)
		case *ast.Enum:
			err = w.backend.WriteEnum(e, n)
		case *ast.Struct:
			err = w.backend.WriteStruct(e, n)
		}
		if err != nil {
			return w.fail(err)
		}
		if e.Err() != nil {
			return w.fail(fmt.Errorf("%s: write failed: %w", w.path, e.Err()))
		}
	}

	if f, ok := w.backend.(FooterWriter); ok {
		if err := f.WriteFooter(e); err != nil {
			return w.fail(err)
		}
	}
	if e.Err() != nil {
		return w.fail(fmt.Errorf("%s: write failed: %w", w.path, e.Err()))
	}
	return nil
}

func (w *Writer) fail(err error) error {
	w.errors = append(w.errors, err.Error())
	return err
}
