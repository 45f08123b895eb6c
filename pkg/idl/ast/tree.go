package ast

import "strings"

// Tree is the arena that owns every node of one compilation. Children are
// referenced by NodeID; dropping the Tree releases the whole AST.
type Tree struct {
	nodes []Node

	// Roots lists top-level modules, enums and structs of all files in
	// the order they were parsed.
	Roots []NodeID
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Add stores n in the arena, assigns its ID and returns it.
func (t *Tree) Add(n Node) NodeID {
	id := NodeID(len(t.nodes))
	n.Head().ID = id
	t.nodes = append(t.nodes, n)
	return id
}

// Truncate drops every node added after the arena held n nodes. It is
// used to discard a partially built subtree that nothing references yet.
func (t *Tree) Truncate(n int) {
	if n < 0 || n >= len(t.nodes) {
		return
	}
	for i := n; i < len(t.nodes); i++ {
		t.nodes[i] = nil
	}
	t.nodes = t.nodes[:n]
}

// Node returns the node with the given ID, or nil.
func (t *Tree) Node(id NodeID) Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Name returns the name of the node with the given ID.
func (t *Tree) Name(id NodeID) string {
	if n := t.Node(id); n != nil {
		return n.Head().Name
	}
	return ""
}

// Module returns the module with the given ID, or nil if id names
// something else.
func (t *Tree) Module(id NodeID) *Module {
	m, _ := t.Node(id).(*Module)
	return m
}

// Enum returns the enum with the given ID, or nil.
func (t *Tree) Enum(id NodeID) *Enum {
	e, _ := t.Node(id).(*Enum)
	return e
}

// EnumMember returns the enum member with the given ID, or nil.
func (t *Tree) EnumMember(id NodeID) *EnumMember {
	m, _ := t.Node(id).(*EnumMember)
	return m
}

// Struct returns the struct with the given ID, or nil.
func (t *Tree) Struct(id NodeID) *Struct {
	s, _ := t.Node(id).(*Struct)
	return s
}

// Field returns the field with the given ID, or nil.
func (t *Tree) Field(id NodeID) *Field {
	f, _ := t.Node(id).(*Field)
	return f
}

// Type returns the type node with the given ID, or nil.
func (t *Tree) Type(id NodeID) *Type {
	ty, _ := t.Node(id).(*Type)
	return ty
}

// Members returns the owned declarations of a module, enum or struct.
func (t *Tree) Members(id NodeID) []NodeID {
	switch n := t.Node(id).(type) {
	case *Module:
		return n.Members
	case *Enum:
		return n.Members
	case *Struct:
		return n.Members
	default:
		return nil
	}
}

// Attach appends child to the member list of parent, or to Roots when
// parent is NoNode, and records the back reference.
func (t *Tree) Attach(parent, child NodeID) {
	t.Node(child).Head().Parent = parent
	switch p := t.Node(parent).(type) {
	case *Module:
		p.Members = append(p.Members, child)
	case *Enum:
		p.Members = append(p.Members, child)
	case *Struct:
		p.Members = append(p.Members, child)
	case nil:
		t.Roots = append(t.Roots, child)
	}
}

// Path returns the names from the outermost declaration down to id.
func (t *Tree) Path(id NodeID) []string {
	var path []string
	for n := t.Node(id); n != nil; n = t.Node(n.Head().Parent) {
		path = append(path, n.Head().Name)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// QualifiedName returns the dotted path of a declaration, e.g. "a.b.Point".
func (t *Tree) QualifiedName(id NodeID) string {
	return strings.Join(t.Path(id), ".")
}
