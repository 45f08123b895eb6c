package codegen

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"anybuf-dev/anybuf/pkg/idl/ast"
)

// yamlBackend writes the resolved schema as a YAML document, for tools
// that consume the schema without linking the compiler.
type yamlBackend struct {
	decls []Declaration
}

type yamlDocument struct {
	Package      string        `yaml:"package,omitempty"`
	Declarations []Declaration `yaml:"declarations"`
}

func newYAMLBackend() *yamlBackend {
	return &yamlBackend{}
}

func (b *yamlBackend) WriteHeader(e *Emitter) error {
	b.decls = nil
	e.Linef("# Code generated by anybuf. DO NOT EDIT.")
	return nil
}

func (b *yamlBackend) WriteModule(e *Emitter, m *ast.Module) error {
	return b.add(e, m.ID)
}

func (b *yamlBackend) WriteEnum(e *Emitter, en *ast.Enum) error {
	return b.add(e, en.ID)
}

func (b *yamlBackend) WriteStruct(e *Emitter, st *ast.Struct) error {
	return b.add(e, st.ID)
}

// WriteType writes the schema spelling of a type.
func (b *yamlBackend) WriteType(e *Emitter, ty *ast.Type) error {
	e.Printf("%s", ty.Name)
	return nil
}

func (b *yamlBackend) add(e *Emitter, id ast.NodeID) error {
	d, ok := DescribeNode(e.Tree(), id)
	if !ok {
		return fmt.Errorf("node %d is not a declaration", id)
	}
	b.decls = append(b.decls, d)
	return nil
}

func (b *yamlBackend) WriteFooter(e *Emitter) error {
	doc := yamlDocument{Package: e.Package(), Declarations: b.decls}
	if doc.Declarations == nil {
		doc.Declarations = []Declaration{}
	}

	enc := yaml.NewEncoder(emitterWriter{e})
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// emitterWriter adapts an Emitter to io.Writer.
type emitterWriter struct {
	e *Emitter
}

func (w emitterWriter) Write(p []byte) (int, error) {
	w.e.Printf("%s", p)
	if err := w.e.Err(); err != nil {
		return 0, err
	}
	return len(p), nil
}
