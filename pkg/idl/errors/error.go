package errors

import (
	"fmt"
	"strings"

	"anybuf-dev/anybuf/pkg/idl/ast"
)

// ErrorType categorizes the type of error encountered while compiling a schema.
type ErrorType string

const (
	ErrorTypeLexical  ErrorType = "lexical"  // Unterminated string or comment
	ErrorTypeSyntax   ErrorType = "syntax"   // Unexpected token, missing punctuation
	ErrorTypeSemantic ErrorType = "semantic" // Redefinition, unresolved name, range violation
	ErrorTypeIO       ErrorType = "io"       // File access or output failure
)

// Error is one diagnostic. Error() renders the single-line form
//
//	<path>:<row>:<col> "<token>": <message>
//
// while Detailed() adds source context and a suggestion when available.
type Error struct {
	Type       ErrorType    // Category of error
	Message    string       // Error message
	Location   ast.Location // Source location (file, line, column)
	Token      string       // Offending token as it appears in the source
	Context    string       // Surrounding lines of code
	Suggestion string       // Suggested fix (optional)
}

// New creates a diagnostic at the given location.
func New(errType ErrorType, location ast.Location, token, message string) *Error {
	return &Error{
		Type:     errType,
		Message:  message,
		Location: location,
		Token:    token,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if !e.Location.IsValid() {
		if e.Location.File != "" {
			return fmt.Sprintf("%s: %s", e.Location.File, e.Message)
		}
		return e.Message
	}
	return fmt.Sprintf("%s:%d:%d %s: %s", e.Location.File, e.Location.Line, e.Location.Column, quote(e.Token), e.Message)
}

// Detailed returns a multi-line rendering with type, location, context and
// suggestion.
func (e *Error) Detailed() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Type, e.Message))

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("  --> %s %s\n", e.Location.String(), quote(e.Token)))
	}

	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// quote wraps token text in double quotes unless it already starts one,
// as string literals and unterminated strings do.
func quote(token string) string {
	if strings.HasPrefix(token, `"`) {
		return token
	}
	return `"` + token + `"`
}

// ErrorList collects diagnostics. A single file never contributes more
// than one entry because parsing stops at the first error.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error with the given parameters.
func (el *ErrorList) AddError(errType ErrorType, message string, location ast.Location) {
	el.Add(&Error{
		Type:     errType,
		Message:  message,
		Location: location,
	})
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Strings returns the single-line form of every error, in order.
func (el *ErrorList) Strings() []string {
	out := make([]string, len(el.Errors))
	for i, err := range el.Errors {
		out[i] = err.Error()
	}
	return out
}

// Error implements the error interface.
// It returns all errors, one per line.
func (el *ErrorList) Error() string {
	return strings.Join(el.Strings(), "\n")
}

// ToError returns nil if the error list is empty, otherwise returns the error list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// Reset empties the list.
func (el *ErrorList) Reset() {
	el.Errors = el.Errors[:0]
}

// HasErrorType returns true if the error list contains at least one error of the given type.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}
