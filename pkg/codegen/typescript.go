package codegen

import (
	"fmt"
	"strings"

	"anybuf-dev/anybuf/pkg/idl/ast"
)

// tsBackend emits TypeScript declarations. Modules become namespaces,
// which merge when reopened, and structs become interfaces extending
// their bases. Nested declarations go into a namespace named after the
// enclosing struct.
type tsBackend struct{}

var tsScalars = map[ast.TypeKind]string{
	ast.TypeU8:   "number",
	ast.TypeU16:  "number",
	ast.TypeU32:  "number",
	ast.TypeU64:  "bigint",
	ast.TypeI8:   "number",
	ast.TypeI16:  "number",
	ast.TypeI32:  "number",
	ast.TypeI64:  "bigint",
	ast.TypeF32:  "number",
	ast.TypeF64:  "number",
	ast.TypeBool: "boolean",
	ast.TypeStr:  "string",
}

func (b *tsBackend) WriteHeader(e *Emitter) error {
	e.Linef("// Code generated by anybuf. DO NOT EDIT.")
	if pkg := e.Package(); pkg != "" {
		e.Linef("")
		e.Linef("export namespace %s {", pkg)
		e.Indent()
	}
	return nil
}

func (b *tsBackend) WriteFooter(e *Emitter) error {
	if e.Package() != "" {
		e.Dedent()
		e.Linef("}")
	}
	return nil
}

func (b *tsBackend) WriteModule(e *Emitter, m *ast.Module) error {
	e.Linef("")
	e.Comment("// ", m.Doc)
	e.Linef("export namespace %s {", m.Name)
	e.Indent()
	if err := b.writeMembers(e, m.Members); err != nil {
		return err
	}
	e.Dedent()
	e.Linef("}")
	return nil
}

func (b *tsBackend) writeMembers(e *Emitter, members []ast.NodeID) error {
	tree := e.Tree()
	for _, id := range members {
		var err error
		switch n := tree.Node(id).(type) {
		case *ast.Module:
			err = b.WriteModule(e, n)
		case *ast.Enum:
			err = b.WriteEnum(e, n)
		case *ast.Struct:
			err = b.WriteStruct(e, n)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *tsBackend) WriteEnum(e *Emitter, en *ast.Enum) error {
	tree := e.Tree()
	e.Linef("")
	e.Comment("// ", en.Doc)
	e.Linef("export enum %s {", en.Name)
	e.Indent()
	for _, id := range en.Members {
		m := tree.EnumMember(id)
		e.Comment("// ", m.Doc)
		e.Linef("%s = %d,", m.Name, m.Value)
	}
	e.Dedent()
	e.Linef("}")
	return nil
}

func (b *tsBackend) WriteStruct(e *Emitter, st *ast.Struct) error {
	tree := e.Tree()

	e.Linef("")
	e.Comment("// ", st.Doc)
	e.StartLine()
	e.Printf("export interface %s", st.Name)
	if len(st.Bases) > 0 {
		bases := make([]string, len(st.Bases))
		for i, base := range st.Bases {
			bases[i] = b.qualified(e, base)
		}
		e.Printf(" extends %s", strings.Join(bases, ", "))
	}
	e.Printf(" {\n")
	e.Indent()
	for _, f := range st.Fields(tree) {
		e.Comment("// ", f.Doc)
		e.StartLine()
		optional := ""
		if f.Optional {
			optional = "?"
		}
		e.Printf("%s%s: ", f.Name, optional)
		if err := b.WriteType(e, tree.Type(f.Type)); err != nil {
			return err
		}
		e.Printf("; // %d\n", f.Index)
	}
	e.Dedent()
	e.Linef("}")

	var nested []ast.NodeID
	for _, id := range st.Members {
		if tree.Field(id) == nil {
			nested = append(nested, id)
		}
	}
	if len(nested) == 0 {
		return nil
	}
	e.Linef("")
	e.Linef("export namespace %s {", st.Name)
	e.Indent()
	if err := b.writeMembers(e, nested); err != nil {
		return err
	}
	e.Dedent()
	e.Linef("}")
	return nil
}

func (b *tsBackend) WriteType(e *Emitter, ty *ast.Type) error {
	tree := e.Tree()
	switch ty.TypeKind {
	case ast.TypeArray:
		elem := tree.Type(ty.Elems[0])
		if err := b.WriteType(e, elem); err != nil {
			return err
		}
		e.Printf("[]")
		return nil
	case ast.TypeTuple:
		e.Printf("[")
		for i, elem := range ty.Elems {
			if i > 0 {
				e.Printf(", ")
			}
			if err := b.WriteType(e, tree.Type(elem)); err != nil {
				return err
			}
		}
		e.Printf("]")
		return nil
	case ast.TypeMap:
		e.Printf("Map<")
		if err := b.WriteType(e, tree.Type(ty.Elems[0])); err != nil {
			return err
		}
		e.Printf(", ")
		if err := b.WriteType(e, tree.Type(ty.Elems[1])); err != nil {
			return err
		}
		e.Printf(">")
		return nil
	case ast.TypeEnum, ast.TypeStruct:
		e.Printf("%s", b.qualified(e, ty.Ref))
		return nil
	}
	scalar, ok := tsScalars[ty.TypeKind]
	if !ok {
		return fmt.Errorf("unsupported type %s", ty.Name)
	}
	e.Printf("%s", scalar)
	return nil
}

// qualified returns the name that reaches a declaration from anywhere in
// the output, including the root namespace.
func (b *tsBackend) qualified(e *Emitter, id ast.NodeID) string {
	name := e.Tree().QualifiedName(id)
	if pkg := e.Package(); pkg != "" {
		return pkg + "." + name
	}
	return name
}
