package parser

import (
	"strings"

	"anybuf-dev/anybuf/pkg/idl/ast"
	idlErrors "anybuf-dev/anybuf/pkg/idl/errors"
)

// parseType reads one type expression and its trailing [] suffixes. The
// caller owns the returned node and must truncate the tree on error.
func (p *fileParser) parseType() (ast.NodeID, error) {
	if err := p.next(); err != nil {
		return ast.NoNode, err
	}
	start := p.pos
	if err := p.enter(start); err != nil {
		return ast.NoNode, err
	}
	defer p.leave()

	var (
		id  ast.NodeID
		err error
	)
	switch p.cur().Text {
	case "[":
		id, err = p.parseTuple()
	case "<":
		id, err = p.parseMap()
	case ",":
		return ast.NoNode, p.errorAt(start, idlErrors.ErrorTypeSyntax, msgSyntax)
	default:
		id, err = p.parseNamedType()
	}
	if err != nil {
		return ast.NoNode, err
	}

	// Each "[]" wraps what has been built so far. A "[" that is not
	// closed right away is left for the caller.
	for {
		pos, comment := p.pos, p.comment
		p.skipComments()
		if p.eof() || p.cur().Text != "[" {
			p.pos, p.comment = pos, comment
			return id, nil
		}
		p.pos++
		p.skipComments()
		if p.eof() || p.cur().Text != "]" {
			p.pos, p.comment = pos, comment
			return id, nil
		}
		p.pos++
		id = p.newType(start, ast.TypeArray, p.tree.Name(id)+"[]", id)
	}
}

// parseTuple reads `[T (, T)*]`.
func (p *fileParser) parseTuple() (ast.NodeID, error) {
	open := p.pos
	p.pos++
	var elems []ast.NodeID
	for {
		if err := p.next(); err != nil {
			return ast.NoNode, err
		}
		if p.cur().Text == "]" && len(elems) == 0 {
			return ast.NoNode, p.errorAt(p.pos, idlErrors.ErrorTypeSemantic, msgInvalidType)
		}
		elem, err := p.parseType()
		if err != nil {
			return ast.NoNode, err
		}
		elems = append(elems, elem)

		if err := p.next(); err != nil {
			return ast.NoNode, err
		}
		switch p.cur().Text {
		case ",":
			p.pos++
			continue
		case "]":
			p.pos++
			return p.newType(open, ast.TypeTuple, "["+p.joinNames(elems)+"]", elems...), nil
		}
		return ast.NoNode, p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, missing("]"))
	}
}

// parseMap reads `<K, V>`.
func (p *fileParser) parseMap() (ast.NodeID, error) {
	open := p.pos
	p.pos++
	key, err := p.parseType()
	if err != nil {
		return ast.NoNode, err
	}

	if err := p.next(); err != nil {
		return ast.NoNode, err
	}
	switch p.cur().Text {
	case ",":
		p.pos++
	case ">":
		return ast.NoNode, p.errorAt(p.pos, idlErrors.ErrorTypeSemantic, msgInvalidType)
	default:
		return ast.NoNode, p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, missing(","))
	}

	value, err := p.parseType()
	if err != nil {
		return ast.NoNode, err
	}

	if err := p.next(); err != nil {
		return ast.NoNode, err
	}
	switch p.cur().Text {
	case ">":
		p.pos++
		return p.newType(open, ast.TypeMap, "<"+p.joinNames([]ast.NodeID{key, value})+">", key, value), nil
	case ",":
		return ast.NoNode, p.errorAt(p.pos, idlErrors.ErrorTypeSemantic, msgInvalidType)
	}
	return ast.NoNode, p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, missing(">"))
}

// parseNamedType reads a scalar keyword or a qualified name that must
// resolve, searching outward, to an enum or struct.
func (p *fileParser) parseNamedType() (ast.NodeID, error) {
	start := p.pos
	if kind, ok := ast.ScalarKind(p.cur().Text); ok {
		p.pos++
		return p.newType(start, kind, kind.String()), nil
	}

	names, last, err := p.qualifiedName()
	if err != nil {
		return ast.NoNode, err
	}
	ref := p.tree.Lookup(p.scopes, names, true)
	if ref == ast.NoNode {
		diag := p.errorAt(last, idlErrors.ErrorTypeSemantic, msgNotExist)
		diag.Suggestion = idlErrors.SuggestName(names[len(names)-1], p.tree.Visible(p.scopes))
		return ast.NoNode, diag
	}

	var kind ast.TypeKind
	switch p.tree.Node(ref).(type) {
	case *ast.Enum:
		kind = ast.TypeEnum
	case *ast.Struct:
		kind = ast.TypeStruct
	default:
		return ast.NoNode, p.errorAt(last, idlErrors.ErrorTypeSemantic, msgInvalidType)
	}

	id := p.newType(start, kind, strings.Join(names, "."))
	p.tree.Type(id).Ref = ref
	return id, nil
}

// newType adds a Type node located at token idx and adopts elems.
func (p *fileParser) newType(idx int, kind ast.TypeKind, name string, elems ...ast.NodeID) ast.NodeID {
	header := p.header(idx, "")
	header.Name = name
	id := p.tree.Add(&ast.Type{Header: header, TypeKind: kind, Elems: elems, Ref: ast.NoNode})
	for _, elem := range elems {
		p.tree.Node(elem).Head().Parent = id
	}
	return id
}

func (p *fileParser) joinNames(ids []ast.NodeID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = p.tree.Name(id)
	}
	return strings.Join(names, ", ")
}
