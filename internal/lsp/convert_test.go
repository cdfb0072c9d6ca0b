package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/antimonylang/antimony-ls/internal/diag"
	"github.com/antimonylang/antimony-ls/internal/token"
)

func TestPositionConversionRoundTrip(t *testing.T) {
	tests := []struct {
		pipeline token.Position
		lsp      protocol.Position
	}{
		{token.Position{Line: 1, Column: 1}, protocol.Position{Line: 0, Character: 0}},
		{token.Position{Line: 2, Column: 9}, protocol.Position{Line: 1, Character: 8}},
		{token.Position{Line: 120, Column: 40}, protocol.Position{Line: 119, Character: 39}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.lsp, toProtocolPosition(tt.pipeline))
		assert.Equal(t, tt.pipeline, fromProtocolPosition(tt.lsp))
	}
}

func TestToProtocolPositionClampsAtOrigin(t *testing.T) {
	got := toProtocolPosition(token.Position{Line: 0, Column: 0})
	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, got)
}

func TestToProtocolRange(t *testing.T) {
	rng := token.NewRange(2, 9, 1)
	got := toProtocolRange(rng)
	assert.Equal(t, protocol.Position{Line: 1, Character: 8}, got.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 9}, got.End)
}

func TestToProtocolDiagnostic(t *testing.T) {
	d := diag.New(diag.CodeUndefinedReference, token.NewRange(2, 9, 1), `unknown symbol "C"`)
	got := toProtocolDiagnostic(d)

	require.NotNil(t, got.Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *got.Severity)
	require.NotNil(t, got.Source)
	assert.Equal(t, "antimony-ls", *got.Source)
	require.NotNil(t, got.Code)
	assert.Equal(t, diag.CodeUndefinedReference, got.Code.Value)
	assert.Equal(t, `unknown symbol "C"`, got.Message)
	assert.Equal(t, protocol.Position{Line: 1, Character: 8}, got.Range.Start)
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, protocol.DiagnosticSeverityError, mapSeverity(diag.SeverityError))
	assert.Equal(t, protocol.DiagnosticSeverityWarning, mapSeverity(diag.SeverityWarning))
	assert.Equal(t, protocol.DiagnosticSeverityHint, mapSeverity(diag.SeverityHint))
}

func TestToProtocolDiagnosticsKeepsOrderAndCaps(t *testing.T) {
	diagnostics := []diag.Diagnostic{
		diag.New(diag.CodeSyntaxError, token.NewRange(1, 1, 1), "first"),
		diag.New(diag.CodeDuplicateDecl, token.NewRange(2, 1, 1), "second"),
		diag.New(diag.CodeMalformedNotesBlock, token.NewRange(3, 1, 1), "third"),
	}

	all := toProtocolDiagnostics(diagnostics, 0)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Message)
	assert.Equal(t, "third", all[2].Message)

	capped := toProtocolDiagnostics(diagnostics, 2)
	require.Len(t, capped, 2)
	assert.Equal(t, "second", capped[1].Message)

	assert.Empty(t, toProtocolDiagnostics(nil, 0))
}
