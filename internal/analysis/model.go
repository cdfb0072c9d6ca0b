// Package analysis builds the semantic model of a parsed document: the
// symbol table, occurrences, annotation statements, and semantic
// diagnostics, plus the position index used to answer editor queries.
package analysis

import (
	"github.com/antimonylang/antimony-ls/internal/diag"
	"github.com/antimonylang/antimony-ls/internal/token"
)

// SymbolKind classifies a declared entity.
type SymbolKind int

const (
	KindSpecies SymbolKind = iota
	KindReaction
	KindCompartment
	KindParameter
	KindUnit
	KindModel
	KindOther
)

func (k SymbolKind) String() string {
	switch k {
	case KindSpecies:
		return "species"
	case KindReaction:
		return "reaction"
	case KindCompartment:
		return "compartment"
	case KindParameter:
		return "parameter"
	case KindUnit:
		return "unit"
	case KindModel:
		return "model"
	}
	return "other"
}

// Symbol is one named entity. Synthetic symbols stand in for names that
// were referenced but never declared, so lookups stay total.
type Symbol struct {
	Name             string
	Kind             SymbolKind
	DeclarationRange token.Range
	Synthetic        bool
}

// Role distinguishes the declaring occurrence of a symbol from its uses.
type Role int

const (
	RoleDeclaration Role = iota
	RoleReference
)

func (r Role) String() string {
	if r == RoleDeclaration {
		return "declaration"
	}
	return "reference"
}

// Occurrence is one textual appearance of a symbol.
type Occurrence struct {
	Name  string
	Range token.Range
	Role  Role
}

// AnnotationStatement links a subject to an ontology resource. Document
// order is preserved; the last statement for a subject is authoritative.
type AnnotationStatement struct {
	SubjectName   string
	Predicate     string
	ResourceURI   string
	Range         token.Range
	ResourceRange token.Range
}

// SemanticModel is the immutable result of analyzing one document
// version. It is never mutated after Analyze returns; each edit produces
// a fresh model.
type SemanticModel struct {
	Symbols     map[string]*Symbol
	Occurrences []Occurrence
	Annotations []AnnotationStatement
	Diagnostics []diag.Diagnostic

	// declOrder records symbol registration order for deterministic
	// enumeration.
	declOrder []string
}

// SymbolNamesByKind returns the names of all non-synthetic symbols of the
// given kind, in declaration order. This feeds the recommendation
// subsystem's requests for species and reaction names.
func (m *SemanticModel) SymbolNamesByKind(kind SymbolKind) []string {
	var names []string
	for _, name := range m.declOrder {
		sym := m.Symbols[name]
		if sym != nil && !sym.Synthetic && sym.Kind == kind {
			names = append(names, name)
		}
	}
	return names
}

// Declared returns every non-synthetic symbol in declaration order.
func (m *SemanticModel) Declared() []*Symbol {
	var symbols []*Symbol
	for _, name := range m.declOrder {
		sym := m.Symbols[name]
		if sym != nil && !sym.Synthetic {
			symbols = append(symbols, sym)
		}
	}
	return symbols
}

// Lookup returns the symbol for name. Lookups are total for any name that
// has at least one occurrence, synthetic or not.
func (m *SemanticModel) Lookup(name string) (*Symbol, bool) {
	sym, ok := m.Symbols[name]
	return sym, ok
}
