// Package lsp implements LSP protocol handlers.
package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/antimonylang/antimony-ls/internal/diag"
	"github.com/antimonylang/antimony-ls/internal/token"
)

// toProtocolPosition converts a pipeline position (1-based) to an LSP
// position (0-based).
func toProtocolPosition(pos token.Position) protocol.Position {
	line := uint32(0)
	if pos.Line > 0 {
		line = uint32(pos.Line - 1)
	}
	char := uint32(0)
	if pos.Column > 0 {
		char = uint32(pos.Column - 1)
	}
	return protocol.Position{Line: line, Character: char}
}

// fromProtocolPosition converts an LSP position (0-based) to a pipeline
// position (1-based).
func fromProtocolPosition(pos protocol.Position) token.Position {
	return token.Position{Line: int(pos.Line) + 1, Column: int(pos.Character) + 1}
}

func toProtocolRange(rng token.Range) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(rng.Start),
		End:   toProtocolPosition(rng.End),
	}
}

// toProtocolDiagnostic converts one pipeline diagnostic to its LSP form.
func toProtocolDiagnostic(d diag.Diagnostic) protocol.Diagnostic {
	severity := mapSeverity(d.Severity)
	code := protocol.IntegerOrString{Value: d.Code}
	return protocol.Diagnostic{
		Range:    toProtocolRange(d.Range),
		Severity: &severity,
		Source:   stringPtr("antimony-ls"),
		Message:  d.Message,
		Code:     &code,
	}
}

// toProtocolDiagnostics converts a merged diagnostics list, keeping its
// order, and caps the result at maxProblems (0 means no cap).
func toProtocolDiagnostics(diagnostics []diag.Diagnostic, maxProblems int) []protocol.Diagnostic {
	converted := make([]protocol.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		if maxProblems > 0 && len(converted) >= maxProblems {
			break
		}
		converted = append(converted, toProtocolDiagnostic(d))
	}
	return converted
}

// mapSeverity maps pipeline severity to LSP DiagnosticSeverity
func mapSeverity(severity diag.Severity) protocol.DiagnosticSeverity {
	switch severity {
	case diag.SeverityError:
		return protocol.DiagnosticSeverityError
	case diag.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case diag.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

// stringPtr is a helper function to create a pointer to a string.
func stringPtr(s string) *string {
	return &s
}
