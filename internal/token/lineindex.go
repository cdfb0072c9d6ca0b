package token

import "strings"

// LineIndex converts between byte offsets and 1-based (line, column)
// positions for one fixed text. Columns count bytes within the line.
type LineIndex struct {
	lineStarts []int
	length     int
}

// NewLineIndex builds the index for text.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{lineStarts: starts, length: len(text)}
}

// PositionFor returns the position of the byte at offset. Offsets past
// the end clamp to the end of the text.
func (ix *LineIndex) PositionFor(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > ix.length {
		offset = ix.length
	}
	line := 0
	for line+1 < len(ix.lineStarts) && ix.lineStarts[line+1] <= offset {
		line++
	}
	return Position{Line: line + 1, Column: offset - ix.lineStarts[line] + 1}
}

// OffsetFor returns the byte offset of pos, clamped to the text bounds.
func (ix *LineIndex) OffsetFor(pos Position) int {
	line := pos.Line - 1
	if line < 0 {
		return 0
	}
	if line >= len(ix.lineStarts) {
		return ix.length
	}
	offset := ix.lineStarts[line] + pos.Column - 1
	if offset < ix.lineStarts[line] {
		offset = ix.lineStarts[line]
	}
	lineEnd := ix.length
	if line+1 < len(ix.lineStarts) {
		lineEnd = ix.lineStarts[line+1]
	}
	if offset > lineEnd {
		offset = lineEnd
	}
	return offset
}

// LineCount returns the number of lines in the indexed text.
func (ix *LineIndex) LineCount() int {
	return len(ix.lineStarts)
}

// LineText returns the content of the 1-based line without its newline.
func (ix *LineIndex) LineText(text string, line int) string {
	i := line - 1
	if i < 0 || i >= len(ix.lineStarts) {
		return ""
	}
	end := ix.length
	if i+1 < len(ix.lineStarts) {
		end = ix.lineStarts[i+1]
	}
	return strings.TrimSuffix(text[ix.lineStarts[i]:end], "\n")
}
