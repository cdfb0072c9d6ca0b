package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antimonylang/antimony-ls/internal/diag"
	"github.com/antimonylang/antimony-ls/internal/parser"
	"github.com/antimonylang/antimony-ls/internal/token"
)

func analyzeText(t *testing.T, text string) *SemanticModel {
	t.Helper()
	file, _ := parser.Parse(text)
	return Analyze(file)
}

func diagnosticsWithCode(model *SemanticModel, code string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range model.Diagnostics {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func TestAnalyzeDeclarations(t *testing.T) {
	model := analyzeText(t, "species A\ncompartment cytosol\nconst k1 = 0.5\nunit mole\n")
	assert.Empty(t, model.Diagnostics)

	tests := []struct {
		name string
		kind SymbolKind
	}{
		{"A", KindSpecies},
		{"cytosol", KindCompartment},
		{"k1", KindParameter},
		{"mole", KindUnit},
	}
	for _, tt := range tests {
		sym, ok := model.Lookup(tt.name)
		require.True(t, ok, "symbol %q", tt.name)
		assert.Equal(t, tt.kind, sym.Kind, "symbol %q", tt.name)
		assert.False(t, sym.Synthetic)
	}
}

func TestUndefinedReactionParticipant(t *testing.T) {
	// The undeclared product C must be diagnosed; rate-law identifiers
	// like k1 become implicit parameters instead.
	model := analyzeText(t, "species A\nJ: A -> C; k1*A")

	undef := diagnosticsWithCode(model, diag.CodeUndefinedReference)
	require.Len(t, undef, 1)
	assert.Equal(t, token.Range{
		Start: token.Position{Line: 2, Column: 9},
		End:   token.Position{Line: 2, Column: 10},
	}, undef[0].Range)
	assert.Contains(t, undef[0].Message, `"C"`)

	sym, ok := model.Lookup("C")
	require.True(t, ok, "synthetic symbol for C must exist")
	assert.Equal(t, KindOther, sym.Kind)
	assert.True(t, sym.Synthetic)

	k1, ok := model.Lookup("k1")
	require.True(t, ok)
	assert.Equal(t, KindParameter, k1.Kind)
	assert.False(t, k1.Synthetic)
}

func TestDuplicateDeclaration(t *testing.T) {
	model := analyzeText(t, "species A\nspecies A\n")

	dups := diagnosticsWithCode(model, diag.CodeDuplicateDecl)
	require.Len(t, dups, 1)
	assert.Equal(t, 2, dups[0].Range.Start.Line)

	// The first declaration stays canonical.
	sym, ok := model.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, 1, sym.DeclarationRange.Start.Line)
}

func TestUnbalancedModelBlock(t *testing.T) {
	model := analyzeText(t, "model m\nspecies A\n")

	unbalanced := diagnosticsWithCode(model, diag.CodeUnbalancedBlock)
	require.Len(t, unbalanced, 1)
	assert.Equal(t, token.Range{
		Start: token.Position{Line: 1, Column: 1},
		End:   token.Position{Line: 1, Column: 6},
	}, unbalanced[0].Range, "diagnostic anchors at the model keyword")
}

func TestStrayEndDiagnosed(t *testing.T) {
	model := analyzeText(t, "species A\nend\n")
	unbalanced := diagnosticsWithCode(model, diag.CodeUnbalancedBlock)
	require.Len(t, unbalanced, 1)
	assert.Equal(t, 2, unbalanced[0].Range.Start.Line)
}

func TestInvalidAnnotationPredicate(t *testing.T) {
	model := analyzeText(t, "species A\nA has banana \"urn:x\"\n")

	invalid := diagnosticsWithCode(model, diag.CodeInvalidPredicate)
	require.Len(t, invalid, 1)
	assert.Contains(t, invalid[0].Message, "banana")

	// The statement is still recorded; the pass is not aborted.
	require.Len(t, model.Annotations, 1)
	assert.Equal(t, "banana", model.Annotations[0].Predicate)
}

func TestAnnotationOrderPreserved(t *testing.T) {
	model := analyzeText(t, "A: x\nB: y\nA has identity \"urn:foo\"\nA has identity \"urn:bar\"")

	var uris []string
	for _, stmt := range model.Annotations {
		if stmt.SubjectName == "A" {
			uris = append(uris, stmt.ResourceURI)
		}
	}
	assert.Equal(t, []string{"urn:foo", "urn:bar"}, uris)
}

func TestImplicitParametersInAssignments(t *testing.T) {
	model := analyzeText(t, "x = y * 2\n")
	assert.Empty(t, diagnosticsWithCode(model, diag.CodeUndefinedReference))

	for _, name := range []string{"x", "y"} {
		sym, ok := model.Lookup(name)
		require.True(t, ok)
		assert.Equal(t, KindParameter, sym.Kind)
	}
}

func TestImplicitCompartment(t *testing.T) {
	model := analyzeText(t, "species A in cytosol\n")
	assert.Empty(t, model.Diagnostics)

	sym, ok := model.Lookup("cytosol")
	require.True(t, ok)
	assert.Equal(t, KindCompartment, sym.Kind)
}

func TestModelScope(t *testing.T) {
	model := analyzeText(t, "model m\nspecies A\nJ: A -> A; k\nend\n")
	assert.Empty(t, model.Diagnostics)

	sym, ok := model.Lookup("m")
	require.True(t, ok)
	assert.Equal(t, KindModel, sym.Kind)
}

func TestFunctionScope(t *testing.T) {
	model := analyzeText(t, "function mm(S, Vm, Km)\nVm*S/(Km+S)\nend\n")
	assert.Empty(t, model.Diagnostics)

	sym, ok := model.Lookup("mm")
	require.True(t, ok)
	assert.Equal(t, KindOther, sym.Kind)
}

func TestFunctionBodyUndefinedReference(t *testing.T) {
	model := analyzeText(t, "function f(x)\nx + missing\nend\n")
	undef := diagnosticsWithCode(model, diag.CodeUndefinedReference)
	require.Len(t, undef, 1)
	assert.Contains(t, undef[0].Message, `"missing"`)
}

func TestUndefinedReferenceSuggestion(t *testing.T) {
	model := analyzeText(t, "species glucose\nJ: glucos -> glucose; 1\n")
	undef := diagnosticsWithCode(model, diag.CodeUndefinedReference)
	require.Len(t, undef, 1)
	assert.Contains(t, undef[0].Message, `did you mean "glucose"?`)
}

func TestReferenceBeforeDeclarationUpgrades(t *testing.T) {
	// The early reference is diagnosed, but the later declaration takes
	// over the synthetic entry without a duplicate-declaration report.
	model := analyzeText(t, "J: A -> A; 1\nspecies A\n")

	assert.Len(t, diagnosticsWithCode(model, diag.CodeUndefinedReference), 1)
	assert.Empty(t, diagnosticsWithCode(model, diag.CodeDuplicateDecl))

	sym, ok := model.Lookup("A")
	require.True(t, ok)
	assert.False(t, sym.Synthetic)
	assert.Equal(t, KindSpecies, sym.Kind)
	assert.Equal(t, 2, sym.DeclarationRange.Start.Line)
}

func TestSymbolNamesByKind(t *testing.T) {
	model := analyzeText(t, "species A\nspecies B\ncompartment c\nJ1: A -> B; 1\nJ2: B -> A; 1\n")

	assert.Equal(t, []string{"A", "B"}, model.SymbolNamesByKind(KindSpecies))
	assert.Equal(t, []string{"J1", "J2"}, model.SymbolNamesByKind(KindReaction))
	assert.Equal(t, []string{"c"}, model.SymbolNamesByKind(KindCompartment))
	assert.Empty(t, model.SymbolNamesByKind(KindUnit))
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	text := "species A\nspecies A\nJ: A -> Q; k*A\nA has identity \"urn:x\"\nmodel m\nend\n"
	first := analyzeText(t, text)
	second := analyzeText(t, text)

	assert.Equal(t, first.Diagnostics, second.Diagnostics)
	assert.Equal(t, first.Occurrences, second.Occurrences)
	assert.Equal(t, first.Annotations, second.Annotations)
	assert.Equal(t, first.SymbolNamesByKind(KindSpecies), second.SymbolNamesByKind(KindSpecies))
}

func TestAnalyzeEmptyAndBrokenInputs(t *testing.T) {
	for _, text := range []string{"", " ", "\n", "@@@", "model", "J: ->"} {
		model := analyzeText(t, text)
		require.NotNil(t, model, "input %q", text)
		assert.NotNil(t, model.Symbols, "input %q", text)
	}
}
