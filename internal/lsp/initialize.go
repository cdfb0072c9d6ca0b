// Package lsp implements LSP protocol handlers.
package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/antimonylang/antimony-ls/internal/server"
)

// Initialize handles the LSP initialize request.
// This is the first request sent by the client and establishes the server capabilities.
func Initialize(context *glsp.Context, params *protocol.InitializeParams) (interface{}, error) {
	if srv, ok := serverInstance.(*server.Server); ok && srv != nil {
		srv.SetClientCapabilities(&params.Capabilities)
	}

	// The whole document is re-parsed per edit, so full sync keeps the
	// session's "one fixed text snapshot per pass" rule trivial.
	changeKind := protocol.TextDocumentSyncKindFull
	trueVal := true
	falseVal := false

	capabilities := protocol.ServerCapabilities{
		// Text document synchronization
		TextDocumentSync: protocol.TextDocumentSyncOptions{
			OpenClose: &trueVal,
			Change:    &changeKind,
			WillSave:  &falseVal,
			Save: &protocol.SaveOptions{
				IncludeText: &falseVal,
			},
		},

		// Hover support
		HoverProvider: &[]bool{true}[0],

		// Go-to definition doubles as jump-to-annotation
		DefinitionProvider: &[]bool{true}[0],

		// Document symbols (outline view)
		DocumentSymbolProvider: &[]bool{true}[0],

		// Notes normalization and annotation batches from the
		// recommendation subsystem arrive as commands
		ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
			Commands: []string{
				CommandNormalizeNotes,
				CommandApplyAnnotations,
				CommandListSymbols,
			},
		},

		// Diagnostics are pushed via publishDiagnostics, not pulled
	}

	serverVersion := "0.1.0"

	result := protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "antimony-ls",
			Version: &serverVersion,
		},
	}

	return result, nil
}

// Initialized handles the initialized notification from the client.
// This is sent after the initialize response, signaling that the client is ready.
func Initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

// Shutdown handles the shutdown request.
// The client sends this to ask the server to shut down gracefully.
func Shutdown(context *glsp.Context) error {
	if srv, ok := serverInstance.(*server.Server); ok && srv != nil {
		srv.SetShuttingDown()
		srv.Documents().Clear()
	}
	return nil
}
