package parser

import (
	"anybuf-dev/anybuf/pkg/idl/ast"
	idlErrors "anybuf-dev/anybuf/pkg/idl/errors"
	"anybuf-dev/anybuf/pkg/idl/lexer"
)

// parseStruct reads `struct Name [: Base, ...] { ... }`. Bases are
// resolved before the struct itself is declared.
func (p *fileParser) parseStruct() error {
	keyword := p.pos
	doc := p.doc()
	if err := p.enter(keyword); err != nil {
		return err
	}
	defer p.leave()

	p.pos++
	nameIdx, err := p.expectName()
	if err != nil {
		return err
	}
	if p.declared(p.tokens[nameIdx].Text) != ast.NoNode {
		return p.errorAt(nameIdx, idlErrors.ErrorTypeSemantic, msgRedefinition)
	}
	st := &ast.Struct{Header: p.header(nameIdx, doc)}

	p.pos++
	if err := p.next(); err != nil {
		return err
	}
	if p.cur().Text == ":" {
		p.pos++
		if err := p.parseBases(st); err != nil {
			return err
		}
	}
	if p.cur().Text != "{" {
		return p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, missing("{"))
	}

	id := p.tree.Add(st)
	p.tree.Attach(p.scope(), id)
	p.push(id)
	defer p.pop(1)
	p.pos++

	var indices [256]bool
	for {
		if err := p.next(); err != nil {
			return err
		}
		switch p.cur().Text {
		case lexer.KeywordEnum, lexer.KeywordStruct:
			if err := p.parseDeclaration(false); err != nil {
				return err
			}
		case "}":
			p.pos++
			return nil
		default:
			if err := p.parseField(id, &indices); err != nil {
				return err
			}
		}
	}
}

// parseBases reads a comma separated list of base struct names and leaves
// the cursor on the token that follows it.
func (p *fileParser) parseBases(st *ast.Struct) error {
	for {
		names, last, err := p.qualifiedName()
		if err != nil {
			return err
		}
		base := p.tree.Lookup(p.scopes, names, true)
		if base == ast.NoNode {
			diag := p.errorAt(last, idlErrors.ErrorTypeSemantic, msgNotExist)
			diag.Suggestion = idlErrors.SuggestName(names[len(names)-1], p.tree.Visible(p.scopes))
			return diag
		}
		if p.tree.Struct(base) == nil {
			return p.errorAt(last, idlErrors.ErrorTypeSemantic, msgInvalidStruct)
		}
		for _, seen := range st.Bases {
			if seen == base {
				return p.errorAt(last, idlErrors.ErrorTypeSemantic, msgDuplicateBase)
			}
		}
		st.Bases = append(st.Bases, base)

		if p.cur().Text != "," {
			return nil
		}
		p.pos++
	}
}

// parseField reads `name[?]: index type;`. indices tracks the wire
// indices already taken in the enclosing struct.
func (p *fileParser) parseField(parent ast.NodeID, indices *[256]bool) error {
	nameIdx := p.pos
	if !p.cur().IsName(true) {
		return p.errorAt(nameIdx, idlErrors.ErrorTypeSyntax, msgInvalidName)
	}
	if p.declared(p.cur().Text) != ast.NoNode {
		return p.errorAt(nameIdx, idlErrors.ErrorTypeSemantic, msgRedefinition)
	}
	field := &ast.Field{Header: p.header(nameIdx, p.doc())}

	p.pos++
	if err := p.next(); err != nil {
		return err
	}
	if p.cur().Text == "?" {
		field.Optional = true
		p.pos++
		if err := p.next(); err != nil {
			return err
		}
	}
	if p.cur().Text != ":" {
		return p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, missing(":"))
	}
	p.pos++

	magnitude, negative, idx, err := p.parseInteger()
	if err != nil {
		return err
	}
	if negative || magnitude > 255 {
		return p.errorAt(idx, idlErrors.ErrorTypeSemantic, msgIndexRange)
	}
	if indices[magnitude] {
		return p.errorAt(idx, idlErrors.ErrorTypeSemantic, msgIndexRepeated)
	}
	if idx+1 < len(p.tokens) {
		digits, after := p.tokens[idx], p.tokens[idx+1]
		if after.Row == digits.Row && after.Col == digits.End() {
			return p.errorAt(idx+1, idlErrors.ErrorTypeSyntax, msgMissingBlank)
		}
	}
	field.Index = uint8(magnitude)

	mark := p.tree.Len()
	typeID, err := p.parseType()
	if err != nil {
		p.tree.Truncate(mark)
		return err
	}
	if err := p.expect(";"); err != nil {
		p.tree.Truncate(mark)
		return err
	}
	p.pos++

	field.Type = typeID
	id := p.tree.Add(field)
	p.tree.Attach(parent, id)
	p.tree.Node(typeID).Head().Parent = id
	indices[magnitude] = true
	return nil
}
