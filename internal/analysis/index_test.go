package analysis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antimonylang/antimony-ls/internal/parser"
	"github.com/antimonylang/antimony-ls/internal/token"
)

func indexText(t *testing.T, text string) *PositionIndex {
	t.Helper()
	file, _ := parser.Parse(text)
	return NewPositionIndex(Analyze(file))
}

func TestAnnotationsForDocumentOrder(t *testing.T) {
	index := indexText(t, "A: x\nB: y\nA has identity \"urn:foo\"\nA has identity \"urn:bar\"")

	stmts := index.AnnotationsFor("A")
	require.Len(t, stmts, 2)
	assert.Equal(t, "urn:foo", stmts[0].ResourceURI)
	assert.Equal(t, "urn:bar", stmts[1].ResourceURI)

	latest, ok := index.LatestAnnotationFor("A")
	require.True(t, ok)
	assert.Equal(t, "urn:bar", latest.ResourceURI)
}

func TestLatestAnnotationTieBreakByLine(t *testing.T) {
	// Two annotations for the same subject far apart; the one at the
	// higher line number is authoritative, never the first.
	var b strings.Builder
	b.WriteString("species S\n")
	for line := 2; line <= 70; line++ {
		switch line {
		case 19:
			b.WriteString("S has identity \"urn:first\"\n")
		case 66:
			b.WriteString("S has identity \"urn:second\"\n")
		default:
			b.WriteString("\n")
		}
	}
	index := indexText(t, b.String())

	latest, ok := index.LatestAnnotationFor("S")
	require.True(t, ok)
	assert.Equal(t, "urn:second", latest.ResourceURI)
	assert.Equal(t, 66, latest.Range.Start.Line)
}

func TestLatestAnnotationForUnknownSubject(t *testing.T) {
	index := indexText(t, "species A\n")

	_, ok := index.LatestAnnotationFor("nope")
	assert.False(t, ok)
	assert.Empty(t, index.AnnotationsFor("nope"))
}

func TestSymbolAtDeclarationAndReference(t *testing.T) {
	index := indexText(t, "species A\nJ: A -> A; 1\n")

	occ, ok := index.SymbolAt(token.Position{Line: 1, Column: 9})
	require.True(t, ok)
	assert.Equal(t, "A", occ.Name)
	assert.Equal(t, RoleDeclaration, occ.Role)

	occ, ok = index.SymbolAt(token.Position{Line: 2, Column: 4})
	require.True(t, ok)
	assert.Equal(t, "A", occ.Name)
	assert.Equal(t, RoleReference, occ.Role)
}

func TestSymbolAtIsTotal(t *testing.T) {
	index := indexText(t, "species A\n")

	positions := []token.Position{
		{Line: 1, Column: 8},   // whitespace between keyword and name
		{Line: 99, Column: 1},  // past the end of the document
		{Line: 1, Column: 999}, // past the end of the line
		{Line: 0, Column: 0},   // before the start
	}
	for _, pos := range positions {
		_, ok := index.SymbolAt(pos)
		assert.False(t, ok, "position %v", pos)
	}
}

func TestSymbolAtHalfOpenRanges(t *testing.T) {
	// "A" spans [1:9, 1:10): the start is inside, the end is outside.
	index := indexText(t, "species A\n")

	_, ok := index.SymbolAt(token.Position{Line: 1, Column: 10})
	assert.False(t, ok, "end of a half-open range is outside it")

	occ, ok := index.SymbolAt(token.Position{Line: 1, Column: 9})
	require.True(t, ok)
	assert.Equal(t, "A", occ.Name)
}

func TestSymbolAtOnSyntheticSymbol(t *testing.T) {
	index := indexText(t, "species A\nJ: A -> C; k1*A")

	occ, ok := index.SymbolAt(token.Position{Line: 2, Column: 9})
	require.True(t, ok, "broken references still answer position queries")
	assert.Equal(t, "C", occ.Name)

	sym, ok := index.Model().Lookup(occ.Name)
	require.True(t, ok)
	assert.Equal(t, KindOther, sym.Kind)
}

func TestSymbolAtOnEmptyModel(t *testing.T) {
	index := indexText(t, "")
	_, ok := index.SymbolAt(token.Position{Line: 1, Column: 1})
	assert.False(t, ok)
}

func TestIndexLookupsDoNotMutate(t *testing.T) {
	index := indexText(t, "species A\nA has identity \"urn:x\"\n")

	before := fmt.Sprintf("%v", index.Model().Annotations)
	for i := 0; i < 3; i++ {
		index.AnnotationsFor("A")
		index.LatestAnnotationFor("A")
		index.SymbolAt(token.Position{Line: 1, Column: 9})
	}
	assert.Equal(t, before, fmt.Sprintf("%v", index.Model().Annotations))
}
