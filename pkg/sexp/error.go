package sexp

import (
	"fmt"
)

// Span identifies a region within the string being parsed.
type Span struct {
	start int
	end   int
}

// NewSpan constructs a span covering the given region.
func NewSpan(start int, end int) Span {
	return Span{start, end}
}

// Start returns the starting index of this span.
func (s Span) Start() int { return s.start }

// End returns one past the final index of this span.
func (s Span) End() int { return s.end }

// SyntaxError is a structured error which retains the index into the original
// string where an error occurred, along with an error message.
type SyntaxError struct {
	// Span of the original string on which this error is reported.
	span Span
	// Error message being reported
	msg string
}

// NewSyntaxError simply constructs a new syntax error.
func NewSyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{span, msg}
}

// Span returns the span of the original text on which this error is reported.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message to be reported.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Error implements the error interface.
func (p *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d:%s", p.span.Start(), p.span.End(), p.Message())
}
