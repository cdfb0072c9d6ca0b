// Package diag provides the shared diagnostic types for the pipeline.
//
// This package exists to avoid import cycles between the parser and the
// semantic analysis packages, which both report diagnostics.
package diag

import (
	"sort"

	"github.com/antimonylang/antimony-ls/internal/token"
)

// Severity indicates the seriousness of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityHint:
		return "hint"
	}
	return "unknown"
}

// Diagnostic codes. Each code has a fixed severity (see severityFor).
const (
	CodeSyntaxError         = "SyntaxError"
	CodeUndefinedReference  = "UndefinedReference"
	CodeDuplicateDecl       = "DuplicateDeclaration"
	CodeInvalidPredicate    = "InvalidAnnotationPredicate"
	CodeUnbalancedBlock     = "UnbalancedBlock"
	CodeMalformedNotesBlock = "MalformedNotesBlock"
	CodeInvalidTriple       = "InvalidAnnotationTriple"
)

// severityFor is the fixed code-to-severity table.
var severityFor = map[string]Severity{
	CodeSyntaxError:         SeverityError,
	CodeUndefinedReference:  SeverityError,
	CodeDuplicateDecl:       SeverityWarning,
	CodeInvalidPredicate:    SeverityWarning,
	CodeUnbalancedBlock:     SeverityError,
	CodeMalformedNotesBlock: SeverityHint,
	CodeInvalidTriple:       SeverityWarning,
}

// Diagnostic captures one pipeline finding for display at a source range.
type Diagnostic struct {
	Severity Severity
	Range    token.Range
	Message  string
	Code     string
}

// New builds a diagnostic with the fixed severity for its code.
func New(code string, rng token.Range, message string) Diagnostic {
	sev, ok := severityFor[code]
	if !ok {
		sev = SeverityError
	}
	return Diagnostic{Severity: sev, Range: rng, Message: message, Code: code}
}

// Merge concatenates syntax and semantic diagnostics, removes exact
// duplicates (same range, code, and message), and sorts by range start,
// then severity (errors first), then code. Merge is a pure function of its
// inputs: re-analyzing unchanged text yields an identical sequence.
func Merge(groups ...[]Diagnostic) []Diagnostic {
	var merged []Diagnostic
	type key struct {
		rng     token.Range
		code    string
		message string
	}
	seen := make(map[key]struct{})
	for _, group := range groups {
		for _, d := range group {
			k := key{rng: d.Range, code: d.Code, message: d.Message}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			merged = append(merged, d)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if c := a.Range.Start.Compare(b.Range.Start); c != 0 {
			return c < 0
		}
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		return a.Code < b.Code
	})
	return merged
}
