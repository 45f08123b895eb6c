package lexer

import (
	"fmt"
	"unicode/utf8"
)

// ScanError reports text that ends inside a string literal or a block
// comment. Row and Col locate the start of the unterminated token.
type ScanError struct {
	Row     int
	Col     int
	Text    string
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%d:%d %s: %s", e.Row, e.Col, Token{Text: e.Text}.Quoted(), e.Message)
}

// Token returns the offending partial token.
func (e *ScanError) Token() Token {
	return Token{Text: e.Text, Row: e.Row, Col: e.Col}
}

type scanner struct {
	text string
	pos  int
	row  int
	col  int
}

// Scan splits text into tokens in a single left-to-right pass. Whitespace
// separates tokens and is dropped; comments and string literals are kept
// as single tokens. CRLF, LF and CR each count as one line break.
//
// The tokens scanned before an unterminated string or block comment are
// returned together with a *ScanError.
func Scan(text string) ([]Token, error) {
	s := &scanner{text: text, row: 1, col: 1}
	var tokens []Token

	for s.pos < len(s.text) {
		c := s.text[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.advance()

		case c == '/' && s.peek(1) == '/':
			start, row, col := s.pos, s.row, s.col
			for s.pos < len(s.text) && s.text[s.pos] != '\r' && s.text[s.pos] != '\n' {
				s.advance()
			}
			tokens = append(tokens, Token{Text: s.text[start:s.pos], Row: row, Col: col})

		case c == '/' && s.peek(1) == '*':
			start, row, col := s.pos, s.row, s.col
			s.advance()
			s.advance()
			closed := false
			for s.pos < len(s.text) {
				if s.text[s.pos] == '*' && s.peek(1) == '/' {
					s.advance()
					s.advance()
					closed = true
					break
				}
				s.advance()
			}
			if !closed {
				return tokens, &ScanError{Row: row, Col: col, Text: s.text[start:], Message: "unterminated comment"}
			}
			tokens = append(tokens, Token{Text: s.text[start:s.pos], Row: row, Col: col})

		case c == '"':
			start, row, col := s.pos, s.row, s.col
			s.advance()
			closed := false
			for s.pos < len(s.text) {
				ch := s.text[s.pos]
				if ch == '\\' {
					s.advance()
					if s.pos < len(s.text) {
						s.advance()
					}
					continue
				}
				s.advance()
				if ch == '"' {
					closed = true
					break
				}
			}
			if !closed {
				return tokens, &ScanError{Row: row, Col: col, Text: s.text[start:], Message: "unterminated string"}
			}
			tokens = append(tokens, Token{Text: s.text[start:s.pos], Row: row, Col: col})

		case c == '_' || isLetter(c) || isDigit(c):
			start, row, col := s.pos, s.row, s.col
			for s.pos < len(s.text) {
				ch := s.text[s.pos]
				if ch != '_' && !isLetter(ch) && !isDigit(ch) {
					break
				}
				s.advance()
			}
			tokens = append(tokens, Token{Text: s.text[start:s.pos], Row: row, Col: col})

		default:
			start, row, col := s.pos, s.row, s.col
			s.advance()
			tokens = append(tokens, Token{Text: s.text[start:s.pos], Row: row, Col: col})
		}
	}

	return tokens, nil
}

func (s *scanner) peek(offset int) byte {
	if s.pos+offset < len(s.text) {
		return s.text[s.pos+offset]
	}
	return 0
}

// advance moves past one rune, folding CRLF into a single line break.
func (s *scanner) advance() {
	c := s.text[s.pos]
	switch c {
	case '\n':
		s.pos++
		s.row++
		s.col = 1
	case '\r':
		s.pos++
		if s.pos < len(s.text) && s.text[s.pos] == '\n' {
			s.pos++
		}
		s.row++
		s.col = 1
	default:
		_, size := utf8.DecodeRuneInString(s.text[s.pos:])
		s.pos += size
		s.col++
	}
}
