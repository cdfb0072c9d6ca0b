// Package lsp implements LSP protocol handlers.
package lsp

import (
	"fmt"
	"log"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/antimonylang/antimony-ls/internal/server"
	"github.com/antimonylang/antimony-ls/internal/session"
)

// Hover handles the textDocument/hover request.
// This provides symbol and annotation information when the user hovers over code.
func Hover(context *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Hover")
		return nil, nil
	}

	uri := params.TextDocument.URI
	position := params.Position

	log.Printf("Hover request at %s line %d, character %d\n",
		uri, position.Line, position.Character)

	snap := snapshotFor(srv, uri)
	if snap == nil {
		return nil, nil
	}

	occ, found := snap.Index.SymbolAt(fromProtocolPosition(position))
	if !found {
		// Position queries against broken or empty regions return no
		// occurrence rather than an error.
		return nil, nil
	}

	sym, ok := snap.Model.Lookup(occ.Name)
	if !ok {
		return nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "```antimony\n%s %s\n```\n", sym.Kind, sym.Name)
	if sym.Synthetic {
		b.WriteString("\n*referenced but never declared*\n")
	}
	if latest, ok := snap.Index.LatestAnnotationFor(sym.Name); ok {
		fmt.Fprintf(&b, "\n%s → %s\n", latest.Predicate, latest.ResourceURI)
	}

	hover := &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
	}

	return hover, nil
}

// snapshotFor returns the latest Ready snapshot for uri, or nil.
func snapshotFor(srv *server.Server, uri string) *session.Snapshot {
	doc, exists := srv.Documents().Get(uri)
	if !exists {
		log.Printf("Document not found: %s\n", uri)
		return nil
	}
	snap := doc.Session.Snapshot()
	if snap == nil {
		log.Printf("No snapshot published yet for %s\n", uri)
	}
	return snap
}
