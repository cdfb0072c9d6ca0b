// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/antimonylang/antimony-ls/internal/server"
)

// DidOpen handles the textDocument/didOpen notification.
// This is sent when a document is opened in the editor.
func DidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidOpen")
		return nil
	}

	uri := params.TextDocument.URI
	text := params.TextDocument.Text
	languageID := params.TextDocument.LanguageID

	log.Printf("Document opened: %s (language %s, %d bytes)\n", uri, languageID, len(text))

	doc := srv.Documents().Open(uri, languageID)
	snap := doc.Session.Load(text)

	PublishDiagnostics(context, uri, snap.Diagnostics, srv.Config().MaxProblems)

	return nil
}

// DidChange handles the textDocument/didChange notification.
// The server runs with full sync, so the last content change carries the
// complete new text; the session re-runs the pipeline on it and the
// freshest snapshot wins.
func DidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidChange")
		return nil
	}

	uri := params.TextDocument.URI
	doc, exists := srv.Documents().Get(uri)
	if !exists {
		log.Printf("Change for unopened document: %s\n", uri)
		return nil
	}

	if len(params.ContentChanges) == 0 {
		return nil
	}

	text, ok := fullChangeText(params.ContentChanges[len(params.ContentChanges)-1])
	if !ok {
		log.Printf("Ignoring non-full content change for %s\n", uri)
		return nil
	}

	snap := doc.Session.Apply(text)
	log.Printf("Document changed: %s (version %d, %d diagnostic(s))\n",
		uri, snap.Version, len(snap.Diagnostics))

	PublishDiagnostics(context, uri, snap.Diagnostics, srv.Config().MaxProblems)

	return nil
}

// fullChangeText extracts the whole-document text from a content change
// event. glsp delivers either typed change structs or raw maps depending
// on the transport; both are handled.
func fullChangeText(change interface{}) (string, bool) {
	switch c := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return c.Text, true
	case protocol.TextDocumentContentChangeEvent:
		if c.Range == nil {
			return c.Text, true
		}
		return "", false
	case map[string]interface{}:
		if _, hasRange := c["range"]; hasRange {
			return "", false
		}
		text, ok := c["text"].(string)
		return text, ok
	}
	return "", false
}

// DidClose handles the textDocument/didClose notification.
// This is sent when a document is closed in the editor.
func DidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidClose")
		return nil
	}

	uri := params.TextDocument.URI
	srv.Documents().Delete(uri)

	// Clear stale markers in the editor for the closed document.
	PublishDiagnostics(context, uri, nil, 0)

	return nil
}
