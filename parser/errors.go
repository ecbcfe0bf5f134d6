package parser

import (
	"fmt"

	"github.com/matze/beancount-language-server/ast"
)

// ParseError represents a syntax error in one line or block of a file.
// Parse errors never abort a parse; the parser records them, emits an
// ast.Invalid directive for the failed region, and continues with the rest
// of the file.
type ParseError struct {
	Pos     ast.Position
	Span    ast.Span
	Message string
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d", e.Pos.Filename, e.Pos.Line)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d", e.Pos.Line)
	}

	return fmt.Sprintf("%s: %s", location, e.Message)
}

// GetPosition returns the position of the error in the source file.
func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}

func newErrorf(pos ast.Position, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}
