package parser

import (
	"errors"

	idlErrors "anybuf-dev/anybuf/pkg/idl/errors"
	"anybuf-dev/anybuf/pkg/idl/lexer"
	"anybuf-dev/anybuf/pkg/idl/source"
)

// parseFile reads the leading imports and then every top-level
// declaration of the file.
func (p *fileParser) parseFile() error {
	for {
		p.skipComments()
		if p.eof() || p.cur().Text != lexer.KeywordImport {
			break
		}
		if err := p.parseImport(); err != nil {
			return err
		}
	}

	for {
		p.skipComments()
		if p.eof() {
			return nil
		}
		if err := p.parseDeclaration(true); err != nil {
			return err
		}
	}
}

// parseDeclaration dispatches on the leading keyword. Modules are only
// accepted where allowModule is set.
func (p *fileParser) parseDeclaration(allowModule bool) error {
	switch p.cur().Text {
	case lexer.KeywordModule:
		if allowModule {
			return p.parseModule()
		}
	case lexer.KeywordEnum:
		return p.parseEnum()
	case lexer.KeywordStruct:
		return p.parseStruct()
	case lexer.KeywordImport:
		return p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, msgImportPosition)
	}
	return p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, msgSyntax)
}

// parseImport reads `import "path";` and parses the imported file before
// returning, so its declarations are visible to the rest of this file.
func (p *fileParser) parseImport() error {
	p.pos++
	if err := p.next(); err != nil {
		return err
	}
	if !p.cur().IsString() {
		return p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, msgInvalidPath)
	}
	lit := p.pos
	p.pos++
	if err := p.expect(";"); err != nil {
		return err
	}

	imported, err := p.r.Registry().Resolve(p.src.Path, p.tokens[lit].Text)
	if errors.Is(err, source.ErrImportNotFound) {
		return p.errorAt(lit, idlErrors.ErrorTypeSemantic, msgNotExist)
	}
	if err != nil {
		return p.errorAt(lit, idlErrors.ErrorTypeIO, err.Error())
	}

	if err := p.r.readSource(imported); err != nil {
		if errors.Is(err, source.ErrImportCycle) {
			return p.errorAt(lit, idlErrors.ErrorTypeSemantic, msgImportCycle)
		}
		return err
	}

	p.pos++
	return nil
}
