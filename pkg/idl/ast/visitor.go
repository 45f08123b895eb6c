package ast

// Visitor provides an interface for traversing the AST.
// Implement this interface to perform operations on AST nodes
// (code generation, statistics, dumping, etc.).
type Visitor interface {
	VisitModule(*Module) error
	VisitEnum(*Enum) error
	VisitEnumMember(*EnumMember) error
	VisitStruct(*Struct) error
	VisitField(*Field) error
	VisitType(*Type) error
}

// Walk traverses the tree depth-first from its roots, in declaration
// order, and calls the visitor for each owned node. Struct bases and
// type references are links, not children, and are not followed.
// It returns the first error encountered.
func Walk(t *Tree, visitor Visitor) error {
	for _, id := range t.Roots {
		if err := WalkNode(t, id, visitor); err != nil {
			return err
		}
	}
	return nil
}

// WalkNode traverses the subtree rooted at id.
func WalkNode(t *Tree, id NodeID, visitor Visitor) error {
	switch n := t.Node(id).(type) {
	case *Module:
		if err := visitor.VisitModule(n); err != nil {
			return err
		}
		return walkAll(t, n.Members, visitor)

	case *Enum:
		if err := visitor.VisitEnum(n); err != nil {
			return err
		}
		return walkAll(t, n.Members, visitor)

	case *EnumMember:
		return visitor.VisitEnumMember(n)

	case *Struct:
		if err := visitor.VisitStruct(n); err != nil {
			return err
		}
		return walkAll(t, n.Members, visitor)

	case *Field:
		if err := visitor.VisitField(n); err != nil {
			return err
		}
		return WalkNode(t, n.Type, visitor)

	case *Type:
		if err := visitor.VisitType(n); err != nil {
			return err
		}
		return walkAll(t, n.Elems, visitor)
	}
	return nil
}

func walkAll(t *Tree, ids []NodeID, visitor Visitor) error {
	for _, id := range ids {
		if err := WalkNode(t, id, visitor); err != nil {
			return err
		}
	}
	return nil
}

// Stats counts the nodes of a tree by kind.
type Stats struct {
	Modules     int
	Enums       int
	EnumMembers int
	Structs     int
	Fields      int
	Types       int
}

func (s *Stats) VisitModule(*Module) error         { s.Modules++; return nil }
func (s *Stats) VisitEnum(*Enum) error             { s.Enums++; return nil }
func (s *Stats) VisitEnumMember(*EnumMember) error { s.EnumMembers++; return nil }
func (s *Stats) VisitStruct(*Struct) error         { s.Structs++; return nil }
func (s *Stats) VisitField(*Field) error           { s.Fields++; return nil }
func (s *Stats) VisitType(*Type) error             { s.Types++; return nil }

// Count walks the tree and returns its node statistics.
func Count(t *Tree) Stats {
	var s Stats
	_ = Walk(t, &s)
	return s
}
