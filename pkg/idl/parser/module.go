package parser

import (
	"anybuf-dev/anybuf/pkg/idl/ast"
	idlErrors "anybuf-dev/anybuf/pkg/idl/errors"
	"anybuf-dev/anybuf/pkg/idl/lexer"
)

// parseModule reads `module a.b.c { ... }`. Each segment becomes its own
// Module nested in the previous one, and each is pushed as a scope while
// the body is parsed.
func (p *fileParser) parseModule() error {
	keyword := p.pos
	doc := p.doc()
	if err := p.enter(keyword); err != nil {
		return err
	}
	defer p.leave()

	p.pos++
	var names []int
	for {
		idx, err := p.expectName()
		if err != nil {
			return err
		}
		names = append(names, idx)
		p.pos++
		if err := p.next(); err != nil {
			return err
		}
		if p.cur().Text != "." {
			break
		}
		p.pos++
	}
	if p.cur().Text != "{" {
		return p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, missing("{"))
	}

	for _, idx := range names {
		name := p.tokens[idx].Text
		// Modules merge with modules of the same name; anything else
		// by that name is a clash.
		if existing := p.declared(name); existing != ast.NoNode {
			if _, ok := p.tree.Node(existing).(*ast.Module); !ok {
				return p.errorAt(idx, idlErrors.ErrorTypeSemantic, msgRedefinition)
			}
		}
		id := p.tree.Add(&ast.Module{Header: p.header(idx, doc)})
		p.tree.Attach(p.scope(), id)
		p.push(id)
	}
	defer p.pop(len(names))

	p.pos++
	for {
		if err := p.next(); err != nil {
			return err
		}
		switch p.cur().Text {
		case lexer.KeywordModule, lexer.KeywordEnum, lexer.KeywordStruct:
			if err := p.parseDeclaration(true); err != nil {
				return err
			}
			continue
		}
		break
	}

	if p.cur().Text != "}" {
		return p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, missing("}"))
	}
	p.pos++
	return nil
}
