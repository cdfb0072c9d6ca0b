package token

import "fmt"

// Position is a 1-based (line, column) source location, matching the
// coordinate system of the consuming editor.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p orders strictly before q (line major, column minor).
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Compare returns -1, 0, or +1 comparing p against q.
func (p Position) Compare(q Position) int {
	switch {
	case p.Before(q):
		return -1
	case q.Before(p):
		return 1
	}
	return 0
}

// Range is a half-open source span [Start, End). Start <= End always holds
// for ranges produced by the lexer and parser.
type Range struct {
	Start Position
	End   Position
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Contains reports whether pos falls inside the half-open span. A position
// exactly at End is outside, so abutting ranges never both claim it.
func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Start) && pos.Before(r.End)
}

// NewRange builds a single-line range of the given length starting at
// (line, column).
func NewRange(line, column, length int) Range {
	return Range{
		Start: Position{Line: line, Column: column},
		End:   Position{Line: line, Column: column + length},
	}
}
