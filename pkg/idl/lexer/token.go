package lexer

import "strings"

// Token is a single lexeme of schema text with its 1-based position.
// Tokens are produced in source order and never modified afterwards.
type Token struct {
	Text string
	Row  int
	Col  int
}

// Keywords of the schema language. Scalar type names are keywords too.
const (
	KeywordImport = "import"
	KeywordModule = "module"
	KeywordEnum   = "enum"
	KeywordStruct = "struct"
)

var keywords = map[string]bool{
	"u8": true, "u16": true, "u32": true, "u64": true,
	"i8": true, "i16": true, "i32": true, "i64": true,
	"f32": true, "f64": true, "bool": true, "str": true,
	KeywordImport: true, KeywordModule: true, KeywordEnum: true, KeywordStruct: true,
}

// IsKeyword reports whether text is reserved.
func IsKeyword(text string) bool {
	return keywords[text]
}

// IsString reports whether the token is a quoted string literal.
func (t Token) IsString() bool {
	return len(t.Text) > 1 && t.Text[0] == '"' && t.Text[len(t.Text)-1] == '"'
}

// IsLineComment reports whether the token is a // comment.
func (t Token) IsLineComment() bool {
	return strings.HasPrefix(t.Text, "//")
}

// IsBlockComment reports whether the token is a /* */ comment.
func (t Token) IsBlockComment() bool {
	return strings.HasPrefix(t.Text, "/*")
}

// IsComment reports whether the token is any kind of comment.
func (t Token) IsComment() bool {
	return t.IsLineComment() || t.IsBlockComment()
}

// IsName reports whether the token can name a declaration: a letter or
// underscore followed by letters, digits or underscores. When strict is
// set, keywords are rejected as well.
func (t Token) IsName(strict bool) bool {
	if t.Text == "" {
		return false
	}
	for i := 0; i < len(t.Text); i++ {
		c := t.Text[i]
		if c == '_' || isLetter(c) || (i > 0 && isDigit(c)) {
			continue
		}
		return false
	}
	return !strict || !IsKeyword(t.Text)
}

// Quoted returns the token text as it appears in diagnostics: string
// literals verbatim, everything else wrapped in double quotes. An
// unterminated string keeps its single opening quote.
func (t Token) Quoted() string {
	if strings.HasPrefix(t.Text, `"`) {
		return t.Text
	}
	return `"` + t.Text + `"`
}

// End returns the column just past the token when it sits on one line.
func (t Token) End() int {
	return t.Col + len([]rune(t.Text))
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
