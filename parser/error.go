package parser

import "fmt"

// SyntaxError reports a lexical or grammatical defect found while parsing,
// with the byte offset into the source where it was detected.
type SyntaxError struct {
	Pos     int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Message)
}

func newSyntaxError(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
