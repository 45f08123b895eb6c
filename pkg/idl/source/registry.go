package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"anybuf-dev/anybuf/pkg/idl/lexer"
)

// DefaultExtension is the file extension of schema files.
const DefaultExtension = ".anybuf"

// DefaultMaxFileSize bounds the size of a single schema file (10MB).
const DefaultMaxFileSize = 10 * 1024 * 1024

var (
	// ErrImportNotFound is returned when an import does not name an
	// existing regular file.
	ErrImportNotFound = errors.New("doesn't exist")

	// ErrImportCycle is returned when a file is imported while it is
	// still being parsed.
	ErrImportCycle = errors.New("import cycle")
)

// Status tracks how far a source has been parsed. It doubles as the
// white/gray/black coloring for import cycle detection.
type Status uint8

const (
	Unvisited Status = iota
	InProgress
	Done
)

func (s Status) String() string {
	switch s {
	case Unvisited:
		return "unvisited"
	case InProgress:
		return "in progress"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Source is one schema file and its tokens.
type Source struct {
	Path   string
	Text   string
	Tokens []lexer.Token
	Status Status

	// ScanErr is the lexical error found while tokenizing, reported when
	// the source is parsed.
	ScanErr *lexer.ScanError
}

// Registry caches sources by normalized path. It is not safe for
// concurrent use.
type Registry struct {
	sources     map[string]*Source
	extension   string
	maxFileSize int64
}

// Option configures a Registry.
type Option func(*Registry)

// WithExtension sets the schema file extension used by directory loads.
func WithExtension(ext string) Option {
	return func(r *Registry) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if ext != "" {
			r.extension = ext
		}
	}
}

// WithMaxFileSize limits the size of files the registry will read.
func WithMaxFileSize(size int64) Option {
	return func(r *Registry) {
		if size > 0 {
			r.maxFileSize = size
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sources:     make(map[string]*Source),
		extension:   DefaultExtension,
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Extension returns the schema file extension.
func (r *Registry) Extension() string {
	return r.extension
}

// Normalize returns the absolute, cleaned form of path used as the
// registry key.
func Normalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Load registers a schema file, or every schema file below a directory.
// Files in a directory whose extension does not match (case-insensitive)
// are ignored.
func (r *Registry) Load(path string) error {
	abs, err := Normalize(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("failed to access %q: %w", path, err)
	}

	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			return fmt.Errorf("%q is not a regular file", path)
		}
		_, err := r.open(abs)
		return err
	}

	return filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !r.HasExtension(p) {
			return nil
		}
		_, err = r.open(p)
		return err
	})
}

// HasExtension reports whether path carries the schema extension.
func (r *Registry) HasExtension(path string) bool {
	return strings.EqualFold(filepath.Ext(path), r.extension)
}

// Add registers schema text under path without touching the filesystem.
// An existing entry for the same path is replaced.
func (r *Registry) Add(path string, data []byte) (*Source, error) {
	abs, err := Normalize(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if int64(len(data)) > r.maxFileSize {
		return nil, fmt.Errorf("%s: size %d exceeds maximum %d bytes", abs, len(data), r.maxFileSize)
	}
	src := newSource(abs, string(data))
	r.sources[abs] = src
	return src, nil
}

// Get returns the source registered under path.
func (r *Registry) Get(path string) (*Source, bool) {
	abs, err := Normalize(path)
	if err != nil {
		return nil, false
	}
	src, ok := r.sources[abs]
	return src, ok
}

// Paths returns every registered path in sorted order.
func (r *Registry) Paths() []string {
	paths := make([]string, 0, len(r.sources))
	for p := range r.sources {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	return len(r.sources)
}

// Resolve locates the file named by an import literal. A relative literal
// is resolved against the importing file's directory. The literal may be
// given with or without its surrounding quotes.
func (r *Registry) Resolve(importer, literal string) (*Source, error) {
	name := strings.TrimSuffix(strings.TrimPrefix(literal, `"`), `"`)
	if name == "" {
		return nil, ErrImportNotFound
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(filepath.Dir(importer), name)
	}
	name = filepath.Clean(name)

	if src, ok := r.sources[name]; ok {
		return src, nil
	}

	info, err := os.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return nil, ErrImportNotFound
	}
	return r.open(name)
}

// Enter marks a source as being parsed. It reports done when the source
// was already parsed, and ErrImportCycle when it is being parsed further
// up the import chain.
func (r *Registry) Enter(src *Source) (done bool, err error) {
	switch src.Status {
	case InProgress:
		return false, ErrImportCycle
	case Done:
		return true, nil
	default:
		src.Status = InProgress
		return false, nil
	}
}

// Leave marks a source as completely parsed.
func (r *Registry) Leave(src *Source) {
	src.Status = Done
}

// Reset forgets every parse status so that the sources can be read again
// into a fresh tree.
func (r *Registry) Reset() {
	for _, src := range r.sources {
		src.Status = Unvisited
	}
}

func (r *Registry) open(path string) (*Source, error) {
	if src, ok := r.sources[path]; ok {
		return src, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access %q: %w", path, err)
	}
	if info.Size() > r.maxFileSize {
		return nil, fmt.Errorf("%s: size %d exceeds maximum %d bytes", path, info.Size(), r.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	src := newSource(path, string(data))
	r.sources[path] = src
	return src, nil
}

func newSource(path, text string) *Source {
	src := &Source{Path: path, Text: text}
	tokens, err := lexer.Scan(text)
	src.Tokens = tokens
	var scanErr *lexer.ScanError
	if errors.As(err, &scanErr) {
		src.ScanErr = scanErr
	}
	return src
}
