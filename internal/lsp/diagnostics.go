// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/antimonylang/antimony-ls/internal/diag"
)

// PublishDiagnostics sends diagnostic information to the client for a
// specific document. The pipeline already merged, deduplicated, and
// ordered the list, so it goes out as-is.
func PublishDiagnostics(context *glsp.Context, uri string, diagnostics []diag.Diagnostic, maxProblems int) {
	if context == nil || context.Notify == nil {
		log.Println("Warning: Cannot publish diagnostics - context or Notify is nil")
		return
	}

	converted := toProtocolDiagnostics(diagnostics, maxProblems)

	params := &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: converted,
	}

	log.Printf("Publishing %d diagnostic(s) for %s", len(converted), uri)

	// Send the notification to the client
	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}
