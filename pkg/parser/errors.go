package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// ParseError describes an unparsable region of the input.
type ParseError struct {
	Pos     token.Position
	End     token.Position
	Message string
	// Segment is the unparsable node in the result tree.
	Segment *segment.Segment
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnparsableStatement = "unable to parse statement starting with %q"
	ErrUnparsableTrailing  = "unexpected %q after end of statement"
)

func newUnparsableError(bad *segment.Segment, partial bool) *ParseError {
	format := ErrUnparsableStatement
	if partial {
		format = ErrUnparsableTrailing
	}
	return &ParseError{
		Pos:     bad.Pos(),
		End:     bad.EndPos(),
		Message: fmt.Sprintf(format, firstCode(bad)),
		Segment: bad,
	}
}

// firstCode returns the raw text of the first code leaf of s.
func firstCode(s *segment.Segment) string {
	for _, r := range s.RawSegments() {
		if r.IsCode() {
			return r.Raw()
		}
	}
	return ""
}
