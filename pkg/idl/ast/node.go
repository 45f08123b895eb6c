package ast

// NodeID addresses a node inside a Tree. IDs are stable for the lifetime
// of the tree.
type NodeID int32

// NoNode is the zero reference: no parent, unresolved, or not found.
const NoNode NodeID = -1

// Kind identifies the variant of a Node.
type Kind uint8

const (
	KindModule Kind = iota + 1
	KindEnum
	KindEnumMember
	KindStruct
	KindField
	KindType
)

// String returns the schema keyword-ish name of the kind.
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindEnum:
		return "enum"
	case KindEnumMember:
		return "enum member"
	case KindStruct:
		return "struct"
	case KindField:
		return "field"
	case KindType:
		return "type"
	default:
		return "unknown"
	}
}

// Node is implemented by the six node variants: *Module, *Enum,
// *EnumMember, *Struct, *Field and *Type. Consumers switch on the
// concrete type.
type Node interface {
	Kind() Kind
	Head() *Header
}

// Header carries the attributes shared by every node.
type Header struct {
	ID       NodeID
	Name     string
	Location Location
	// Doc is the raw text of the comment directly preceding the
	// declaration, if any.
	Doc string
	// Parent is a back reference only; ownership flows through the
	// parent's member lists.
	Parent NodeID
}

// Head returns the shared header.
func (h *Header) Head() *Header { return h }

// Module declares or reopens a namespace.
type Module struct {
	Header
	Members []NodeID
}

// Enum is an enumeration backed by an integer scalar.
type Enum struct {
	Header
	Underlying TypeKind
	Members    []NodeID
}

// EnumMember is a named enum value.
type EnumMember struct {
	Header
	Value int64
}

// Struct is a record type. Bases are recorded in declaration order and
// are never flattened into Members.
type Struct struct {
	Header
	Members []NodeID
	Bases   []NodeID
}

// Field is a struct member with a wire index.
type Field struct {
	Header
	Index    uint8
	Optional bool
	Type     NodeID
}

// Type is a node of a field type expression. Array, tuple and map types
// own their element types in Elems; enum and struct references point at
// the declaration through Ref.
type Type struct {
	Header
	TypeKind TypeKind
	Elems    []NodeID
	Ref      NodeID
}

func (*Module) Kind() Kind     { return KindModule }
func (*Enum) Kind() Kind       { return KindEnum }
func (*EnumMember) Kind() Kind { return KindEnumMember }
func (*Struct) Kind() Kind     { return KindStruct }
func (*Field) Kind() Kind      { return KindField }
func (*Type) Kind() Kind       { return KindType }

// Fields returns the struct's own fields, in declaration order.
func (s *Struct) Fields(t *Tree) []*Field {
	var fields []*Field
	for _, id := range s.Members {
		if f, ok := t.Node(id).(*Field); ok {
			fields = append(fields, f)
		}
	}
	return fields
}
