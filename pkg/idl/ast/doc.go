// Package ast provides the Abstract Syntax Tree for anybuf schemas.
//
// All nodes of one compilation live in a Tree, an arena addressed by
// NodeID. Owned children are ID lists on the parent (Module.Members,
// Struct.Members, Type.Elems, ...); Parent, Struct.Bases and Type.Ref are
// plain links and never imply ownership.
//
// # Node variants
//
// Module: a namespace; the same dotted path may be declared many times
//
// Enum / EnumMember: integer enumeration and its named values
//
// Struct / Field: record type, its inheritance list and indexed fields
//
// Type: field type expression (scalar, array, tuple, map, enum or struct reference)
//
// Consumers switch on the concrete type:
//
//	for _, id := range tree.Roots {
//	    switch n := tree.Node(id).(type) {
//	    case *ast.Module:
//	        fmt.Println("module", n.Name)
//	    case *ast.Struct:
//	        fmt.Println("struct", tree.QualifiedName(n.ID))
//	    }
//	}
//
// # Scopes
//
// Tree.Lookup resolves dotted names against a stack of enclosing module
// and struct scopes. Modules are merged by qualified path, so members of
// every reopening of "a.b" are visible through any one of them.
package ast
