// Package lsp implements LSP protocol handlers.
package lsp

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/antimonylang/antimony-ls/internal/analysis"
	"github.com/antimonylang/antimony-ls/internal/annotate"
	"github.com/antimonylang/antimony-ls/internal/notes"
	"github.com/antimonylang/antimony-ls/internal/server"
)

// Commands carried over workspace/executeCommand. They expose the parts
// of the core that are not position queries: the pure notes transform,
// the recommendation subsystem's annotation batches, and symbol
// enumeration by kind.
const (
	CommandNormalizeNotes   = "antimony.normalizeNotes"
	CommandApplyAnnotations = "antimony.applyAnnotations"
	CommandListSymbols      = "antimony.listSymbols"
)

// NormalizeNotesResult is the response of antimony.normalizeNotes.
type NormalizeNotesResult struct {
	Text     string   `json:"text"`
	Warnings []string `json:"warnings,omitempty"`
}

// ApplyAnnotationsResult is the response of antimony.applyAnnotations.
type ApplyAnnotationsResult struct {
	Text    string   `json:"text"`
	Skipped []string `json:"skipped,omitempty"`
}

// ExecuteCommand handles the workspace/executeCommand request.
func ExecuteCommand(context *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	log.Printf("ExecuteCommand: %s (%d argument(s))\n", params.Command, len(params.Arguments))

	switch params.Command {
	case CommandNormalizeNotes:
		return executeNormalizeNotes(params.Arguments)
	case CommandApplyAnnotations:
		return executeApplyAnnotations(params.Arguments)
	case CommandListSymbols:
		return executeListSymbols(params.Arguments)
	default:
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
}

// executeNormalizeNotes runs the pure notes transform on the supplied
// text. No live session is needed.
func executeNormalizeNotes(args []any) (any, error) {
	var text string
	if err := decodeArg(args, 0, &text); err != nil {
		return nil, err
	}
	normalized, diagnostics := notes.Normalize(text)
	result := NormalizeNotesResult{Text: normalized}
	for _, d := range diagnostics {
		result.Warnings = append(result.Warnings, d.Message)
	}
	return result, nil
}

// executeApplyAnnotations validates and splices a batch of recommended
// annotation triples into the supplied text.
func executeApplyAnnotations(args []any) (any, error) {
	var text string
	if err := decodeArg(args, 0, &text); err != nil {
		return nil, err
	}
	var triples []annotate.Triple
	if err := decodeArg(args, 1, &triples); err != nil {
		return nil, err
	}
	updated, diagnostics := annotate.Apply(text, triples)
	result := ApplyAnnotationsResult{Text: updated}
	for _, d := range diagnostics {
		result.Skipped = append(result.Skipped, d.Message)
	}
	return result, nil
}

// executeListSymbols enumerates declared symbol names of one kind in the
// given document, for the recommendation subsystem's prediction requests.
func executeListSymbols(args []any) (any, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		return nil, fmt.Errorf("server instance not available")
	}
	var uri string
	if err := decodeArg(args, 0, &uri); err != nil {
		return nil, err
	}
	var kindName string
	if err := decodeArg(args, 1, &kindName); err != nil {
		return nil, err
	}
	kind, err := symbolKindNamed(kindName)
	if err != nil {
		return nil, err
	}
	snap := snapshotFor(srv, uri)
	if snap == nil {
		return nil, fmt.Errorf("no document open at %q", uri)
	}
	return snap.Model.SymbolNamesByKind(kind), nil
}

func symbolKindNamed(name string) (analysis.SymbolKind, error) {
	for kind := analysis.KindSpecies; kind <= analysis.KindOther; kind++ {
		if kind.String() == name {
			return kind, nil
		}
	}
	return analysis.KindOther, fmt.Errorf("unknown symbol kind %q", name)
}

// decodeArg unpacks the i-th command argument into out. Arguments arrive
// as raw JSON values; round-tripping through encoding/json gives strict
// shape validation at the boundary.
func decodeArg(args []any, i int, out any) error {
	if i >= len(args) {
		return fmt.Errorf("missing argument %d", i)
	}
	raw, err := json.Marshal(args[i])
	if err != nil {
		return fmt.Errorf("argument %d is not serializable: %w", i, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("argument %d has the wrong shape: %w", i, err)
	}
	return nil
}
