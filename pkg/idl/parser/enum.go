package parser

import (
	"math"

	"anybuf-dev/anybuf/pkg/idl/ast"
	idlErrors "anybuf-dev/anybuf/pkg/idl/errors"
)

// parseEnum reads `enum Name [: int-type] { A [= n], ... }`. A member
// without a value takes the previous value plus one, or 0 when first.
func (p *fileParser) parseEnum() error {
	doc := p.doc()
	p.pos++
	nameIdx, err := p.expectName()
	if err != nil {
		return err
	}
	if p.declared(p.tokens[nameIdx].Text) != ast.NoNode {
		return p.errorAt(nameIdx, idlErrors.ErrorTypeSemantic, msgRedefinition)
	}

	enum := &ast.Enum{Header: p.header(nameIdx, doc), Underlying: ast.TypeI32}
	p.pos++
	if err := p.next(); err != nil {
		return err
	}
	if p.cur().Text == ":" {
		p.pos++
		if err := p.next(); err != nil {
			return err
		}
		kind, ok := ast.ScalarKind(p.cur().Text)
		if !ok || !kind.IsInteger() {
			diag := p.errorAt(p.pos, idlErrors.ErrorTypeSemantic, msgInvalidEnumType)
			diag.Suggestion = idlErrors.SuggestEnumType()
			return diag
		}
		enum.Underlying = kind
		p.pos++
		if err := p.next(); err != nil {
			return err
		}
	}
	if p.cur().Text != "{" {
		return p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, missing("{"))
	}

	id := p.tree.Add(enum)
	p.tree.Attach(p.scope(), id)
	p.pos++

	lo, hi := enum.Underlying.IntRange()
	for {
		if err := p.next(); err != nil {
			return err
		}
		if !p.cur().IsName(true) {
			break
		}

		memberIdx := p.pos
		member := &ast.EnumMember{Header: p.header(memberIdx, p.doc())}
		for _, other := range enum.Members {
			if p.tree.Name(other) == member.Name {
				return p.errorAt(memberIdx, idlErrors.ErrorTypeSemantic, msgRedefinition)
			}
		}

		p.pos++
		if err := p.next(); err != nil {
			return err
		}
		if p.cur().Text == "=" {
			p.pos++
			magnitude, negative, _, err := p.parseInteger()
			if err != nil {
				return err
			}
			value, ok := toInt64(magnitude, negative)
			if !ok {
				return p.errorAt(memberIdx, idlErrors.ErrorTypeSemantic, msgValueRange)
			}
			member.Value = value
		} else if n := len(enum.Members); n > 0 {
			prev := p.tree.EnumMember(enum.Members[n-1]).Value
			if prev == math.MaxInt64 {
				return p.errorAt(memberIdx, idlErrors.ErrorTypeSemantic, msgValueRange)
			}
			member.Value = prev + 1
		}

		for _, other := range enum.Members {
			if p.tree.EnumMember(other).Value == member.Value {
				return p.errorAt(memberIdx, idlErrors.ErrorTypeSemantic, msgValueExists)
			}
		}
		if member.Value < lo || member.Value > hi {
			return p.errorAt(memberIdx, idlErrors.ErrorTypeSemantic, msgValueRange)
		}

		p.tree.Attach(id, p.tree.Add(member))

		if err := p.next(); err != nil {
			return err
		}
		if p.cur().Text == "}" {
			break
		}
		if p.cur().Text != "," {
			return p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, missing(","))
		}
		p.pos++
	}

	if p.cur().Text != "}" {
		return p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, missing("}"))
	}
	p.pos++
	return nil
}
