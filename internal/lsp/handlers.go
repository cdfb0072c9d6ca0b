// Package lsp implements LSP protocol handlers.
package lsp

// This package contains all LSP request and notification handlers:
// - Initialize / Initialized
// - Shutdown
// - textDocument/didOpen, didClose, didChange
// - textDocument/hover
// - textDocument/definition (jump to latest annotation)
// - textDocument/documentSymbol
// - workspace/executeCommand (notes normalization, annotation batches)

var (
	// serverInstance holds the global server instance
	// This is set by SetServer and accessed by handlers
	serverInstance interface{}
)

// SetServer sets the global server instance for handlers to access.
func SetServer(srv interface{}) {
	serverInstance = srv
}
