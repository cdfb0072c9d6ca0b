// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/antimonylang/antimony-ls/internal/analysis"
	"github.com/antimonylang/antimony-ls/internal/server"
)

// DocumentSymbol handles the textDocument/documentSymbol request.
// It returns the declared symbols of the document for the outline view.
func DocumentSymbol(context *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DocumentSymbol")
		return nil, nil
	}

	uri := params.TextDocument.URI
	log.Printf("DocumentSymbol request for %s\n", uri)

	snap := snapshotFor(srv, uri)
	if snap == nil {
		return nil, nil
	}

	declared := snap.Model.Declared()
	symbols := make([]protocol.DocumentSymbol, 0, len(declared))
	for _, sym := range declared {
		rng := toProtocolRange(sym.DeclarationRange)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           symbolKindFor(sym.Kind),
			Range:          rng,
			SelectionRange: rng,
		})
	}

	log.Printf("Found %d symbols in %s\n", len(symbols), uri)
	return symbols, nil
}

// symbolKindFor maps pipeline symbol kinds onto the closest LSP kinds.
func symbolKindFor(kind analysis.SymbolKind) protocol.SymbolKind {
	switch kind {
	case analysis.KindSpecies:
		return protocol.SymbolKindVariable
	case analysis.KindReaction:
		return protocol.SymbolKindEvent
	case analysis.KindCompartment:
		return protocol.SymbolKindNamespace
	case analysis.KindParameter:
		return protocol.SymbolKindConstant
	case analysis.KindUnit:
		return protocol.SymbolKindNumber
	case analysis.KindModel:
		return protocol.SymbolKindModule
	default:
		return protocol.SymbolKindObject
	}
}
