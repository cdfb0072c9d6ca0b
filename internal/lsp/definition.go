// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/antimonylang/antimony-ls/internal/server"
)

// Definition handles the textDocument/definition request.
// For a symbol that has annotation statements it navigates to the latest
// one in document order (the authoritative refinement); otherwise it
// falls back to the symbol's declaration.
func Definition(context *glsp.Context, params *protocol.DefinitionParams) (interface{}, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Definition")
		return nil, nil
	}

	uri := params.TextDocument.URI
	position := params.Position

	log.Printf("Definition request at %s line %d, character %d\n",
		uri, position.Line, position.Character)

	snap := snapshotFor(srv, uri)
	if snap == nil {
		return nil, nil
	}

	occ, found := snap.Index.SymbolAt(fromProtocolPosition(position))
	if !found {
		log.Printf("No occurrence at position for definition\n")
		return nil, nil
	}

	if latest, ok := snap.Index.LatestAnnotationFor(occ.Name); ok {
		log.Printf("Jumping to latest annotation of %q", occ.Name)
		return protocol.Location{URI: uri, Range: toProtocolRange(latest.Range)}, nil
	}

	sym, ok := snap.Model.Lookup(occ.Name)
	if !ok || sym.Synthetic {
		return nil, nil
	}
	return protocol.Location{URI: uri, Range: toProtocolRange(sym.DeclarationRange)}, nil
}
