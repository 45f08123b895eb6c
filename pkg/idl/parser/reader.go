package parser

import (
	"errors"
	"fmt"

	"anybuf-dev/anybuf/pkg/idl/ast"
	idlErrors "anybuf-dev/anybuf/pkg/idl/errors"
	"anybuf-dev/anybuf/pkg/idl/source"
)

// DefaultMaxDepth bounds the nesting of modules, structs and type
// expressions.
const DefaultMaxDepth = 64

// Reader parses schema files into one resolved AST. It owns its source
// registry, tree and diagnostics; use one Reader per compilation and do
// not share it between goroutines.
type Reader struct {
	// Configuration
	maxFileSize int64  // Maximum file size in bytes (default: 10MB)
	maxDepth    int    // Maximum declaration/type nesting (default: 64)
	extension   string // Schema file extension for directory loads

	registry *source.Registry
	tree     *ast.Tree
	errors   *idlErrors.ErrorList
}

// NewReader creates a reader with default configuration.
func NewReader() *Reader {
	return &Reader{
		maxFileSize: source.DefaultMaxFileSize,
		maxDepth:    DefaultMaxDepth,
		extension:   source.DefaultExtension,
		errors:      idlErrors.NewErrorList(),
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (r *Reader) WithMaxFileSize(size int64) *Reader {
	r.maxFileSize = size
	return r
}

// WithMaxDepth sets the maximum nesting depth.
func (r *Reader) WithMaxDepth(depth int) *Reader {
	r.maxDepth = depth
	return r
}

// WithExtension sets the file extension used when loading directories.
func (r *Reader) WithExtension(ext string) *Reader {
	r.extension = ext
	return r
}

// Registry returns the reader's source registry, creating it on first use.
func (r *Reader) Registry() *source.Registry {
	if r.registry == nil {
		r.registry = source.NewRegistry(
			source.WithExtension(r.extension),
			source.WithMaxFileSize(r.maxFileSize),
		)
	}
	return r.registry
}

// Load registers a schema file or every schema file below a directory.
// A failure is also recorded as a diagnostic and makes Read fail.
func (r *Reader) Load(path string) error {
	if err := r.Registry().Load(path); err != nil {
		r.errors.Add(&idlErrors.Error{
			Type:     idlErrors.ErrorTypeIO,
			Message:  err.Error(),
			Location: ast.Location{File: path},
		})
		return err
	}
	return nil
}

// LoadBytes registers in-memory schema text under path. Imports inside it
// are still resolved on disk relative to path.
func (r *Reader) LoadBytes(path string, data []byte) error {
	if _, err := r.Registry().Add(path, data); err != nil {
		r.errors.Add(&idlErrors.Error{
			Type:     idlErrors.ErrorTypeIO,
			Message:  err.Error(),
			Location: ast.Location{File: path},
		})
		return err
	}
	return nil
}

// Read parses every loaded source, in path order, together with the files
// they import. Parsing stops at the first error; the error is recorded in
// Errors and no tree is returned.
func (r *Reader) Read() (*ast.Tree, error) {
	if r.errors.HasErrors() {
		return nil, r.errors
	}

	registry := r.Registry()
	registry.Reset()
	r.tree = ast.NewTree()

	for _, path := range registry.Paths() {
		src, _ := registry.Get(path)
		if src.Status == source.Done {
			continue
		}
		if err := r.readSource(src); err != nil {
			r.record(err)
			r.tree = nil
			return nil, r.errors
		}
	}

	return r.tree, nil
}

// Tree returns the tree of the last successful Read.
func (r *Reader) Tree() *ast.Tree {
	return r.tree
}

// Errors returns the recorded diagnostics.
func (r *Reader) Errors() []*idlErrors.Error {
	return r.errors.Errors
}

// Diagnostics returns the recorded diagnostics in their single-line form.
func (r *Reader) Diagnostics() []string {
	return r.errors.Strings()
}

// Reset drops the loaded sources, the tree and all diagnostics.
func (r *Reader) Reset() {
	r.registry = nil
	r.tree = nil
	r.errors.Reset()
}

// readSource parses src unless it was parsed already. Imports recurse
// back into readSource before the importing file continues.
func (r *Reader) readSource(src *source.Source) error {
	done, err := r.Registry().Enter(src)
	if err != nil || done {
		return err
	}

	if src.ScanErr != nil {
		tok := src.ScanErr.Token()
		return idlErrors.New(idlErrors.ErrorTypeLexical, location(src.Path, tok), tok.Text, src.ScanErr.Message)
	}

	p := newFileParser(r, src)
	if err := p.parseFile(); err != nil {
		return err
	}

	r.Registry().Leave(src)
	return nil
}

// record stores err as a diagnostic, attaching source context when the
// file is known.
func (r *Reader) record(err error) {
	var diag *idlErrors.Error
	if !errors.As(err, &diag) {
		r.errors.Add(&idlErrors.Error{
			Type:    idlErrors.ErrorTypeIO,
			Message: fmt.Sprintf("%v", err),
		})
		return
	}
	if src, ok := r.Registry().Get(diag.Location.File); ok && diag.Context == "" {
		diag.Context = idlErrors.ExtractContextFromText(src.Text, diag.Location, 2)
	}
	r.errors.Add(diag)
}
