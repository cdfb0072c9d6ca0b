// Package annotate is the boundary to the recommendation subsystem. It
// validates externally produced (subject, predicate, resource) triples
// and splices them into DSL source text without disturbing any byte of
// unrelated content.
package annotate

import (
	"fmt"
	"strings"

	"github.com/antimonylang/antimony-ls/internal/analysis"
	"github.com/antimonylang/antimony-ls/internal/diag"
	"github.com/antimonylang/antimony-ls/internal/parser"
	"github.com/antimonylang/antimony-ls/internal/token"
)

// Triple is one proposed annotation. The shape is deliberately strict:
// caller-supplied payloads are validated here rather than trusted.
type Triple struct {
	Subject     string `json:"subject"`
	Predicate   string `json:"predicate"`
	ResourceURI string `json:"resourceURI"`
}

// validate reports why a triple cannot be applied, or "".
func (t Triple) validate() string {
	if !isIdent(t.Subject) {
		return fmt.Sprintf("subject %q is not a valid identifier", t.Subject)
	}
	if !token.IsPredicate(t.Predicate) {
		return fmt.Sprintf("%q is not a recognized annotation predicate", t.Predicate)
	}
	if t.ResourceURI == "" {
		return "resource URI is empty"
	}
	if strings.ContainsAny(t.ResourceURI, "\"\n") {
		return fmt.Sprintf("resource URI %q contains a quote or newline", t.ResourceURI)
	}
	return ""
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Apply inserts or updates annotation statements in text for each valid
// triple and returns the new text. Malformed or unresolvable triples are
// skipped with a diagnostic instead of failing the whole batch. All text
// not targeted by an edit is preserved byte-for-byte.
//
// For a (subject, predicate) pair that already has statements, the last
// statement in document order is authoritative: its resource is replaced
// in place. Otherwise a new statement is inserted directly after the
// subject's last annotation, or after its declaration line.
func Apply(text string, triples []Triple) (string, []diag.Diagnostic) {
	var diagnostics []diag.Diagnostic
	for _, t := range triples {
		if reason := t.validate(); reason != "" {
			diagnostics = append(diagnostics, diag.New(diag.CodeInvalidTriple,
				token.Range{}, fmt.Sprintf("ignoring annotation for %q: %s", t.Subject, reason)))
			continue
		}
		next, d, ok := applyOne(text, t)
		if !ok {
			diagnostics = append(diagnostics, d)
			continue
		}
		text = next
	}
	return text, diagnostics
}

// applyOne splices a single triple. The document is re-analyzed per
// triple so every edit lands on fresh, accurate ranges; DSL files are
// small enough that correctness wins over micro-latency here.
func applyOne(text string, t Triple) (string, diag.Diagnostic, bool) {
	file, _ := parser.Parse(text)
	model := analysis.Analyze(file)
	index := analysis.NewPositionIndex(model)
	lines := token.NewLineIndex(text)

	sym, ok := model.Lookup(t.Subject)
	if !ok || sym.Synthetic {
		return "", diag.New(diag.CodeInvalidTriple, token.Range{},
			fmt.Sprintf("ignoring annotation for %q: no such symbol", t.Subject)), false
	}

	subjectAnnotations := index.AnnotationsFor(t.Subject)

	// Update in place when the predicate already has a statement.
	var target *analysis.AnnotationStatement
	for i := range subjectAnnotations {
		if subjectAnnotations[i].Predicate == t.Predicate {
			target = &subjectAnnotations[i]
		}
	}
	if target != nil {
		if target.ResourceURI == t.ResourceURI {
			return text, diag.Diagnostic{}, true
		}
		if target.ResourceRange != (token.Range{}) {
			start := lines.OffsetFor(target.ResourceRange.Start)
			end := lines.OffsetFor(target.ResourceRange.End)
			return text[:start] + quote(t.ResourceURI) + text[end:], diag.Diagnostic{}, true
		}
	}

	// Insert after the subject's last annotation, or its declaration.
	anchor := sym.DeclarationRange.Start.Line
	if n := len(subjectAnnotations); n > 0 {
		anchor = subjectAnnotations[n-1].Range.End.Line
	}
	stmt := fmt.Sprintf("%s %s %s", t.Subject, t.Predicate, quote(t.ResourceURI))
	return insertLineAfter(text, lines, anchor, stmt), diag.Diagnostic{}, true
}

func quote(s string) string {
	return `"` + s + `"`
}

// insertLineAfter inserts stmt as a new line after the 1-based line,
// copying that line's leading indentation.
func insertLineAfter(text string, lines *token.LineIndex, line int, stmt string) string {
	anchorText := lines.LineText(text, line)
	indent := anchorText[:len(anchorText)-len(strings.TrimLeft(anchorText, " \t"))]

	end := lines.OffsetFor(token.Position{Line: line, Column: len(anchorText) + 1})
	if end >= len(text) {
		sep := "\n"
		if strings.HasSuffix(text, "\n") {
			sep = ""
		}
		return text + sep + indent + stmt + "\n"
	}
	return text[:end] + "\n" + indent + stmt + text[end:]
}
