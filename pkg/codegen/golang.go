package codegen

import (
	"fmt"

	"anybuf-dev/anybuf/pkg/idl/ast"
)

// goBackend emits Go type declarations. Go has neither namespaces nor
// inheritance, so declarations are named after their full path and
// structs embed the flattened fields of their bases.
type goBackend struct{}

var goScalars = map[ast.TypeKind]string{
	ast.TypeU8:   "uint8",
	ast.TypeU16:  "uint16",
	ast.TypeU32:  "uint32",
	ast.TypeU64:  "uint64",
	ast.TypeI8:   "int8",
	ast.TypeI16:  "int16",
	ast.TypeI32:  "int32",
	ast.TypeI64:  "int64",
	ast.TypeF32:  "float32",
	ast.TypeF64:  "float64",
	ast.TypeBool: "bool",
	ast.TypeStr:  "string",
}

func (b *goBackend) WriteHeader(e *Emitter) error {
	pkg := e.Package()
	if pkg == "" {
		pkg = "schema"
	}
	if err := checkGoNames(e.Tree()); err != nil {
		return err
	}
	e.Linef("// Code generated by anybuf. DO NOT EDIT.")
	e.Linef("")
	e.Linef("package %s", pkg)
	if ast.Count(e.Tree()).Enums > 0 {
		e.Linef("")
		e.Linef("import \"fmt\"")
	}
	return nil
}

func (b *goBackend) WriteModule(e *Emitter, m *ast.Module) error {
	tree := e.Tree()
	for _, id := range m.Members {
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

func (b *goBackend) WriteEnum(e *Emitter, en *ast.Enum) error {
	tree := e.Tree()
	name := flatName(tree, en.ID)

	e.Linef("")
	e.Comment("// ", en.Doc)
	e.Linef("type %s %s", name, goScalars[en.Underlying])

	if len(en.Members) > 0 {
		e.Linef("")
		e.Linef("const (")
		e.Indent()
		for _, id := range en.Members {
			m := tree.EnumMember(id)
			e.Comment("// ", m.Doc)
			e.Linef("%s_%s %s = %d", name, exportName(m.Name), name, m.Value)
		}
		e.Dedent()
		e.Linef(")")
	}

	e.Linef("")
	e.Linef("func (v %s) String() string {", name)
	e.Indent()
	e.Linef("switch v {")
	for _, id := range en.Members {
		m := tree.EnumMember(id)
		e.Linef("case %s_%s:", name, exportName(m.Name))
		e.Indent()
		e.Linef("return %q", m.Name)
		e.Dedent()
	}
	e.Linef("}")
	e.Linef("return fmt.Sprintf(\"%s(%%d)\", %s(v))", name, goScalars[en.Underlying])
	e.Dedent()
	e.Linef("}")
	return nil
}

func (b *goBackend) WriteStruct(e *Emitter, st *ast.Struct) error {
	tree := e.Tree()

	e.Linef("")
	e.Comment("// ", st.Doc)
	e.Linef("type %s struct {", flatName(tree, st.ID))
	e.Indent()
	for _, f := range Fields(tree, st) {
		ty := tree.Type(f.Type)
		if err := checkMapKeys(tree, ty); err != nil {
			return fmt.Errorf("%s: field %s: %w", f.Location, f.Name, err)
		}
		e.Comment("// ", f.Doc)
		e.StartLine()
		e.Printf("%s ", exportName(f.Name))
		if goPointer(f, ty) {
			e.Printf("*")
		}
		if err := b.WriteType(e, ty); err != nil {
			return err
		}
		tag := fmt.Sprintf("%d", f.Index)
		if f.Optional {
			tag += ",optional"
		}
		e.Printf(" `anybuf:\"%s\"`\n", tag)
	}
	e.Dedent()
	e.Linef("}")

	for _, id := range st.Members {
		var err error
		switch n := tree.Node(id).(type) {
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

func (b *goBackend) WriteType(e *Emitter, ty *ast.Type) error {
	tree := e.Tree()
	switch ty.TypeKind {
	case ast.TypeArray:
		e.Printf("[]")
		return b.WriteType(e, tree.Type(ty.Elems[0]))
	case ast.TypeMap:
		e.Printf("map[")
		if err := b.WriteType(e, tree.Type(ty.Elems[0])); err != nil {
			return err
		}
		e.Printf("]")
		return b.WriteType(e, tree.Type(ty.Elems[1]))
	case ast.TypeTuple:
		e.Printf("struct {")
		for i, elem := range ty.Elems {
			if i > 0 {
				e.Printf(";")
			}
			e.Printf(" F%d ", i)
			if err := b.WriteType(e, tree.Type(elem)); err != nil {
				return err
			}
		}
		e.Printf(" }")
		return nil
	case ast.TypeEnum, ast.TypeStruct:
		e.Printf("%s", flatName(tree, ty.Ref))
		return nil
	}
	scalar, ok := goScalars[ty.TypeKind]
	if !ok {
		return fmt.Errorf("unsupported type %s", ty.Name)
	}
	e.Printf("%s", scalar)
	return nil
}

// goPointer reports whether an optional field is rendered as a pointer.
// Slices and maps already have a nil value.
func goPointer(f *ast.Field, ty *ast.Type) bool {
	return f.Optional && ty.TypeKind != ast.TypeArray && ty.TypeKind != ast.TypeMap
}

// checkMapKeys rejects map keys that Go cannot compare, such as slices
// or tuples that hold a map.
func checkMapKeys(tree *ast.Tree, ty *ast.Type) error {
	if ty.TypeKind == ast.TypeMap {
		if !goComparable(tree, tree.Type(ty.Elems[0]), map[ast.NodeID]bool{}) {
			return fmt.Errorf("map key %s is not comparable", tree.Name(ty.Elems[0]))
		}
	}
	for _, elem := range ty.Elems {
		if err := checkMapKeys(tree, tree.Type(elem)); err != nil {
			return err
		}
	}
	return nil
}

func goComparable(tree *ast.Tree, ty *ast.Type, seen map[ast.NodeID]bool) bool {
	switch ty.TypeKind {
	case ast.TypeArray, ast.TypeMap:
		return false
	case ast.TypeTuple:
		for _, elem := range ty.Elems {
			if !goComparable(tree, tree.Type(elem), seen) {
				return false
			}
		}
	case ast.TypeStruct:
		if seen[ty.Ref] {
			return true
		}
		seen[ty.Ref] = true
		for _, f := range Fields(tree, tree.Struct(ty.Ref)) {
			ft := tree.Type(f.Type)
			if goPointer(f, ft) {
				continue
			}
			if !goComparable(tree, ft, seen) {
				return false
			}
		}
	}
	return true
}

// checkGoNames rejects trees whose declarations flatten to the same Go
// identifier, such as two structs S in separate blocks of one module.
func checkGoNames(tree *ast.Tree) error {
	seen := map[string]ast.NodeID{}
	var check func(ids []ast.NodeID) error
	check = func(ids []ast.NodeID) error {
		for _, id := range ids {
			switch n := tree.Node(id).(type) {
			case *ast.Module:
				if err := check(n.Members); err != nil {
					return err
				}
				continue
			case *ast.Enum, *ast.Struct:
			default:
				continue
			}
			name := flatName(tree, id)
			if prev, ok := seen[name]; ok {
				return fmt.Errorf("%s: %s clashes with %s declared at %s: both become Go type %s",
					tree.Node(id).Head().Location, tree.QualifiedName(id),
					tree.QualifiedName(prev), tree.Node(prev).Head().Location, name)
			}
			seen[name] = id
			if err := check(tree.Members(id)); err != nil {
				return err
			}
		}
		return nil
	}
	return check(tree.Roots)
}
