package parser

import (
	"anybuf-dev/anybuf/pkg/idl/ast"
	idlErrors "anybuf-dev/anybuf/pkg/idl/errors"
	"anybuf-dev/anybuf/pkg/idl/lexer"
	"anybuf-dev/anybuf/pkg/idl/source"
)

// Diagnostic messages. Tests and tools match on these.
const (
	msgSyntax          = "syntax error"
	msgEOF             = "unexpected end of file"
	msgInvalidName     = "invalid name"
	msgInvalidPath     = "invalid path"
	msgInvalidType     = "invalid type"
	msgInvalidStruct   = "invalid struct"
	msgInvalidInteger  = "invalid integer"
	msgInvalidEnumType = "invalid enum type"
	msgRedefinition    = "redefinition"
	msgNotExist        = "doesn't exist"
	msgImportCycle     = "import cycle"
	msgImportPosition  = "import must precede declarations"
	msgValueExists     = "value already exists"
	msgValueRange      = "out of value range"
	msgIndexRange      = "the index should be between 0 and 255"
	msgIndexRepeated   = "the index has been repeated"
	msgMissingBlank    = "missing blank before type"
	msgDuplicateBase   = "duplicate base"
	msgTooDeep         = "nesting too deep"
)

func missing(punct string) string {
	return `missing "` + punct + `"`
}

// fileParser walks the tokens of one source. pos always indexes the next
// unconsumed token.
type fileParser struct {
	r      *Reader
	tree   *ast.Tree
	src    *source.Source
	tokens []lexer.Token
	pos    int

	// comment indexes the last comment of the run directly before pos,
	// or -1.
	comment int

	// scopes is the stack of enclosing modules and structs, outermost first.
	scopes []ast.NodeID
	depth  int
}

func newFileParser(r *Reader, src *source.Source) *fileParser {
	return &fileParser{
		r:       r,
		tree:    r.tree,
		src:     src,
		tokens:  src.Tokens,
		comment: -1,
	}
}

func (p *fileParser) eof() bool {
	return p.pos >= len(p.tokens)
}

func (p *fileParser) cur() lexer.Token {
	return p.tokens[p.pos]
}

// skipComments moves past a run of comments and remembers the last one
// as the pending doc comment.
func (p *fileParser) skipComments() {
	if p.pos == 0 || p.pos > len(p.tokens) || !p.tokens[p.pos-1].IsComment() {
		p.comment = -1
	}
	for !p.eof() && p.cur().IsComment() {
		p.comment = p.pos
		p.pos++
	}
}

// next skips comments and fails if the input ended.
func (p *fileParser) next() error {
	p.skipComments()
	if p.eof() {
		return p.errorAtEnd()
	}
	return nil
}

// expect requires the next token to be text.
func (p *fileParser) expect(text string) error {
	if err := p.next(); err != nil {
		return err
	}
	if p.cur().Text != text {
		return p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, missing(text))
	}
	return nil
}

// expectName requires the next token to be a non-keyword identifier and
// returns its index.
func (p *fileParser) expectName() (int, error) {
	if err := p.next(); err != nil {
		return 0, err
	}
	if !p.cur().IsName(true) {
		return 0, p.errorAt(p.pos, idlErrors.ErrorTypeSyntax, msgInvalidName)
	}
	return p.pos, nil
}

// qualifiedName reads ident ('.' ident)* and returns the segments and the
// index of the last one.
func (p *fileParser) qualifiedName() ([]string, int, error) {
	idx, err := p.expectName()
	if err != nil {
		return nil, 0, err
	}
	names := []string{p.tokens[idx].Text}
	last := idx
	p.pos++

	for {
		if err := p.next(); err != nil {
			return nil, 0, err
		}
		if p.cur().Text != "." {
			return names, last, nil
		}
		p.pos++
		if last, err = p.expectName(); err != nil {
			return nil, 0, err
		}
		names = append(names, p.tokens[last].Text)
		p.pos++
	}
}

// doc returns the pending doc comment.
func (p *fileParser) doc() string {
	if p.comment < 0 {
		return ""
	}
	return p.tokens[p.comment].Text
}

// scope returns the innermost enclosing scope, or NoNode at top level.
func (p *fileParser) scope() ast.NodeID {
	if len(p.scopes) == 0 {
		return ast.NoNode
	}
	return p.scopes[len(p.scopes)-1]
}

func (p *fileParser) push(id ast.NodeID) {
	p.scopes = append(p.scopes, id)
}

func (p *fileParser) pop(n int) {
	p.scopes = p.scopes[:len(p.scopes)-n]
}

// enter guards recursion depth for declarations and type expressions.
func (p *fileParser) enter(at int) error {
	p.depth++
	if p.r.maxDepth > 0 && p.depth > p.r.maxDepth {
		return p.errorAt(at, idlErrors.ErrorTypeSyntax, msgTooDeep)
	}
	return nil
}

func (p *fileParser) leave() {
	p.depth--
}

func (p *fileParser) header(idx int, doc string) ast.Header {
	tok := p.tokens[idx]
	return ast.Header{
		Name:     tok.Text,
		Location: location(p.src.Path, tok),
		Doc:      doc,
		Parent:   ast.NoNode,
	}
}

func (p *fileParser) errorAt(idx int, errType idlErrors.ErrorType, message string) *idlErrors.Error {
	tok := p.tokens[idx]
	return idlErrors.New(errType, location(p.src.Path, tok), tok.Text, message)
}

func (p *fileParser) errorAtEnd() *idlErrors.Error {
	if len(p.tokens) == 0 {
		return &idlErrors.Error{
			Type:     idlErrors.ErrorTypeSyntax,
			Message:  msgEOF,
			Location: ast.Location{File: p.src.Path},
		}
	}
	return p.errorAt(len(p.tokens)-1, idlErrors.ErrorTypeSyntax, msgEOF)
}

func location(path string, tok lexer.Token) ast.Location {
	return ast.Location{File: path, Line: tok.Row, Column: tok.Col}
}

// declared returns the member of the innermost scope named name, or
// NoNode. Only that one declaration is searched: a reopened module may
// redeclare what another reopening of it already holds.
func (p *fileParser) declared(name string) ast.NodeID {
	members := p.tree.Roots
	if scope := p.scope(); scope != ast.NoNode {
		members = p.tree.Members(scope)
	}
	for _, id := range members {
		if p.tree.Name(id) == name {
			return id
		}
	}
	return ast.NoNode
}
