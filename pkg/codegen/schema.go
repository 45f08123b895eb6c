package codegen

import "anybuf-dev/anybuf/pkg/idl/ast"

// Declaration is a serializable view of a module, enum or struct. It is
// what the yaml backend writes and what `anybuf dump` prints.
type Declaration struct {
	Kind          string        `yaml:"kind" json:"kind"`
	Name          string        `yaml:"name" json:"name"`
	QualifiedName string        `yaml:"qualified_name" json:"qualified_name"`
	Location      string        `yaml:"location,omitempty" json:"location,omitempty"`
	Doc           string        `yaml:"doc,omitempty" json:"doc,omitempty"`
	Underlying    string        `yaml:"underlying,omitempty" json:"underlying,omitempty"`
	Values        []EnumValue   `yaml:"values,omitempty" json:"values,omitempty"`
	Bases         []string      `yaml:"bases,omitempty" json:"bases,omitempty"`
	Fields        []FieldInfo   `yaml:"fields,omitempty" json:"fields,omitempty"`
	Members       []Declaration `yaml:"members,omitempty" json:"members,omitempty"`
}

// EnumValue is one enum member.
type EnumValue struct {
	Name  string `yaml:"name" json:"name"`
	Value int64  `yaml:"value" json:"value"`
	Doc   string `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// FieldInfo is one struct field with its type spelled as in the schema.
type FieldInfo struct {
	Name     string `yaml:"name" json:"name"`
	Index    uint8  `yaml:"index" json:"index"`
	Type     string `yaml:"type" json:"type"`
	Optional bool   `yaml:"optional,omitempty" json:"optional,omitempty"`
	Doc      string `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// Describe converts the top-level declarations of a tree.
func Describe(tree *ast.Tree) []Declaration {
	var decls []Declaration
	for _, id := range tree.Roots {
		if d, ok := DescribeNode(tree, id); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// DescribeNode converts one module, enum or struct and everything it
// owns. It reports false for other node kinds.
func DescribeNode(tree *ast.Tree, id ast.NodeID) (Declaration, bool) {
	n := tree.Node(id)
	if n == nil {
		return Declaration{}, false
	}
	h := n.Head()
	d := Declaration{
		Name:          h.Name,
		QualifiedName: tree.QualifiedName(id),
		Doc:           h.Doc,
	}
	if h.Location.IsValid() {
		d.Location = h.Location.String()
	}

	switch n := n.(type) {
	case *ast.Module:
		d.Kind = "module"
		d.Members = describeMembers(tree, n.Members)
	case *ast.Enum:
		d.Kind = "enum"
		d.Underlying = n.Underlying.String()
		for _, mid := range n.Members {
			m := tree.EnumMember(mid)
			d.Values = append(d.Values, EnumValue{Name: m.Name, Value: m.Value, Doc: m.Doc})
		}
	case *ast.Struct:
		d.Kind = "struct"
		for _, base := range n.Bases {
			d.Bases = append(d.Bases, tree.QualifiedName(base))
		}
		for _, f := range n.Fields(tree) {
			d.Fields = append(d.Fields, FieldInfo{
				Name:     f.Name,
				Index:    f.Index,
				Type:     tree.Name(f.Type),
				Optional: f.Optional,
				Doc:      f.Doc,
			})
		}
		d.Members = describeMembers(tree, n.Members)
	default:
		return Declaration{}, false
	}
	return d, true
}

func describeMembers(tree *ast.Tree, ids []ast.NodeID) []Declaration {
	var decls []Declaration
	for _, id := range ids {
		if d, ok := DescribeNode(tree, id); ok {
			decls = append(decls, d)
		}
	}
	return decls
}
