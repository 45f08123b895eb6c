package errors

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"anybuf-dev/anybuf/pkg/idl/ast"
)

// ExtractContext reads the schema file and extracts the surrounding lines
// around the given location for error context display.
// It returns a formatted string showing the error location with line numbers.
func ExtractContext(location ast.Location, contextLines int) string {
	if !location.IsValid() {
		return ""
	}

	file, err := os.Open(location.File)
	if err != nil {
		return ""
	}
	defer file.Close()

	return formatContext(bufio.NewScanner(file), location, contextLines)
}

// ExtractContextFromText is ExtractContext for schema text held in memory.
func ExtractContextFromText(text string, location ast.Location, contextLines int) string {
	if location.Line <= 0 {
		return ""
	}
	return formatContext(bufio.NewScanner(strings.NewReader(text)), location, contextLines)
}

func formatContext(scanner *bufio.Scanner, location ast.Location, contextLines int) string {
	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return ""
	}

	errorLine := location.Line - 1
	if errorLine >= len(lines) {
		return ""
	}
	startLine := errorLine - contextLines
	endLine := errorLine + contextLines

	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	var sb strings.Builder
	maxLineNumWidth := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		lineNumStr := fmt.Sprintf("%*d", maxLineNumWidth, i+1)
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}

		sb.WriteString(fmt.Sprintf("%s %s | %s\n", prefix, lineNumStr, lines[i]))

		if i == errorLine && location.Column > 0 {
			padding := strings.Repeat(" ", location.Column-1)
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", maxLineNumWidth), padding))
		}
	}

	return sb.String()
}

// WithContext fills in the error's context from its file.
func WithContext(err *Error, contextLines int) *Error {
	if err.Location.IsValid() {
		err.Context = ExtractContext(err.Location, contextLines)
	}
	return err
}

// AddContextToError adds two lines of context on each side of the error.
func AddContextToError(err *Error) *Error {
	return WithContext(err, 2)
}
