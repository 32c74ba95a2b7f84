package parser

import "fmt"

// ErrCodeParse is the error code for malformed source text. Build error
// codes (E202 and up) continue the range in package compiler.
const ErrCodeParse = "E201"

// ParseError reports malformed source text with its position.
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Code returns the error code.
func (e *ParseError) Code() string { return ErrCodeParse }

func errorAt(p position, format string, args ...any) *ParseError {
	return &ParseError{
		Line:    p.line,
		Column:  p.col,
		Message: fmt.Sprintf(format, args...),
	}
}
