package analysis

import (
	"fmt"

	"github.com/antimonylang/antimony-ls/internal/ast"
	"github.com/antimonylang/antimony-ls/internal/diag"
	"github.com/antimonylang/antimony-ls/internal/token"
)

// Analyze walks the syntax tree once and builds the semantic model.
// It is deterministic and side-effect-free: the same tree always yields
// an identical model, and no input aborts the pass.
func Analyze(file *ast.File) *SemanticModel {
	a := &analyzer{
		model: &SemanticModel{Symbols: make(map[string]*Symbol)},
	}
	a.push()
	for _, stmt := range file.Stmts {
		a.stmt(stmt)
	}
	a.pop()
	for _, rng := range file.StrayEnds {
		a.errorf(diag.CodeUnbalancedBlock, rng, "'end' without a matching 'model' or 'function'")
	}
	return a.model
}

// scope is one level of the lexical symbol table. Model and function
// blocks push a new scope; lookups walk outward to the file scope.
type scope struct {
	symbols map[string]*Symbol
}

type analyzer struct {
	model  *SemanticModel
	scopes []*scope
}

func (a *analyzer) push() {
	a.scopes = append(a.scopes, &scope{symbols: make(map[string]*Symbol)})
}

func (a *analyzer) pop() {
	a.scopes = a.scopes[:len(a.scopes)-1]
}

func (a *analyzer) current() *scope {
	return a.scopes[len(a.scopes)-1]
}

func (a *analyzer) errorf(code string, rng token.Range, format string, args ...any) {
	a.model.Diagnostics = append(a.model.Diagnostics,
		diag.New(code, rng, fmt.Sprintf(format, args...)))
}

// register puts a symbol into the model's flat table. The first
// registration of a name is canonical; later scopes reuse the entry.
func (a *analyzer) register(sym *Symbol) {
	if _, exists := a.model.Symbols[sym.Name]; !exists {
		a.model.Symbols[sym.Name] = sym
		a.model.declOrder = append(a.model.declOrder, sym.Name)
	}
}

func (a *analyzer) occur(name string, rng token.Range, role Role) {
	a.model.Occurrences = append(a.model.Occurrences, Occurrence{Name: name, Range: rng, Role: role})
}

// lookup resolves a name against the nearest enclosing scope.
func (a *analyzer) lookup(name string) *Symbol {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if sym, ok := a.scopes[i].symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// visibleNames returns every name resolvable from the current scope, in
// deterministic registration order. Used for reference suggestions.
func (a *analyzer) visibleNames() []string {
	var names []string
	for _, name := range a.model.declOrder {
		if sym := a.lookup(name); sym != nil && !sym.Synthetic {
			names = append(names, name)
		}
	}
	return names
}

// declare registers a declaration in the current scope. A redeclaration
// keeps the first symbol canonical and diagnoses each later one; the
// later occurrence is recorded as a reference so queries stay total.
// Declaring a name that so far only exists synthetically upgrades the
// synthetic entry in place.
func (a *analyzer) declare(ident *ast.Ident, kind SymbolKind) {
	if ident == nil {
		return
	}
	cur := a.current()
	if existing, ok := cur.symbols[ident.Name]; ok {
		if existing.Synthetic {
			existing.Synthetic = false
			existing.Kind = kind
			existing.DeclarationRange = ident.Range
			a.occur(ident.Name, ident.Range, RoleDeclaration)
			return
		}
		a.errorf(diag.CodeDuplicateDecl, ident.Range,
			"%q is already declared as a %s", ident.Name, existing.Kind)
		a.occur(ident.Name, ident.Range, RoleReference)
		return
	}
	sym := &Symbol{Name: ident.Name, Kind: kind, DeclarationRange: ident.Range}
	cur.symbols[ident.Name] = sym
	a.register(sym)
	a.occur(ident.Name, ident.Range, RoleDeclaration)
}

// reference resolves a use of ident. An unresolved name produces an
// UndefinedReference diagnostic plus a synthetic symbol of kind Other,
// so position queries over the broken region still return an occurrence.
func (a *analyzer) reference(ident *ast.Ident) {
	if ident == nil {
		return
	}
	if sym := a.lookup(ident.Name); sym != nil {
		a.occur(ident.Name, ident.Range, RoleReference)
		return
	}
	msg := fmt.Sprintf("undefined reference to %q", ident.Name)
	if hint := nearestName(ident.Name, a.visibleNames()); hint != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", hint)
	}
	a.errorf(diag.CodeUndefinedReference, ident.Range, "%s", msg)
	sym := &Symbol{Name: ident.Name, Kind: KindOther, DeclarationRange: ident.Range, Synthetic: true}
	a.current().symbols[ident.Name] = sym
	a.register(sym)
	a.occur(ident.Name, ident.Range, RoleReference)
}

// implicit resolves a use of ident, declaring it with the given kind if
// it is unknown. Rate laws and initializers introduce parameters this
// way; `in` clauses introduce compartments.
func (a *analyzer) implicit(ident *ast.Ident, kind SymbolKind) {
	if ident == nil {
		return
	}
	if sym := a.lookup(ident.Name); sym != nil {
		a.occur(ident.Name, ident.Range, RoleReference)
		return
	}
	sym := &Symbol{Name: ident.Name, Kind: kind, DeclarationRange: ident.Range}
	a.current().symbols[ident.Name] = sym
	a.register(sym)
	a.occur(ident.Name, ident.Range, RoleDeclaration)
}

func (a *analyzer) stmt(s ast.Stmt) {
	switch node := s.(type) {
	case *ast.DeclStmt:
		a.declStmt(node)
	case *ast.ModelDecl:
		a.modelDecl(node)
	case *ast.FunctionDecl:
		a.functionDecl(node)
	case *ast.ReactionStmt:
		a.reactionStmt(node)
	case *ast.AssignStmt:
		a.implicit(node.Target, KindParameter)
		a.expr(node.Value)
	case *ast.AtStmt:
		a.implicit(node.Target, KindParameter)
		a.expr(node.Value)
	case *ast.AnnotationStmt:
		a.annotationStmt(node)
	case *ast.NotesStmt:
		if node.Unterminated {
			a.errorf(diag.CodeMalformedNotesBlock, node.TextRange,
				"notes block is missing its closing fence")
		}
	case *ast.ImportStmt, *ast.BadStmt:
		// Imports are resolved by the shell; bad statements were already
		// diagnosed by the parser.
	}
}

func declKind(keyword token.Kind) SymbolKind {
	switch keyword {
	case token.Species:
		return KindSpecies
	case token.Compartment:
		return KindCompartment
	case token.Unit:
		return KindUnit
	case token.Const, token.Var:
		return KindParameter
	}
	return KindOther
}

func (a *analyzer) declStmt(node *ast.DeclStmt) {
	kind := declKind(node.Keyword)
	for _, item := range node.Items {
		a.declare(item.Name, kind)
		if item.InComp != nil {
			a.implicit(item.InComp, KindCompartment)
		}
		a.expr(item.Value)
	}
}

func (a *analyzer) modelDecl(node *ast.ModelDecl) {
	a.declare(node.Name, KindModel)
	a.push()
	for _, stmt := range node.Body {
		a.stmt(stmt)
	}
	a.pop()
	if node.Unclosed {
		a.errorf(diag.CodeUnbalancedBlock, node.KeywordRange,
			"model block is missing 'end'")
	}
}

func (a *analyzer) functionDecl(node *ast.FunctionDecl) {
	a.declare(node.Name, KindOther)
	a.push()
	for _, param := range node.Params {
		a.declare(param, KindParameter)
	}
	a.walkExpr(node.Body, false)
	a.pop()
	if node.Unclosed {
		a.errorf(diag.CodeUnbalancedBlock, node.KeywordRange,
			"function block is missing 'end'")
	}
}

func (a *analyzer) reactionStmt(node *ast.ReactionStmt) {
	a.declare(node.Name, KindReaction)
	for _, ref := range node.Reactants {
		a.reference(ref.Name)
	}
	for _, ref := range node.Products {
		a.reference(ref.Name)
	}
	a.expr(node.Rate)
}

func (a *analyzer) annotationStmt(node *ast.AnnotationStmt) {
	a.reference(node.Subject)
	if node.Predicate != "" && !token.IsPredicate(node.Predicate) {
		a.errorf(diag.CodeInvalidPredicate, node.PredicateRange,
			"%q is not a recognized annotation predicate", node.Predicate)
	}
	stmt := AnnotationStatement{
		SubjectName: node.Subject.Name,
		Predicate:   node.Predicate,
		Range:       node.Range,
	}
	if node.Resource != nil {
		stmt.ResourceURI = node.Resource.Value
		stmt.ResourceRange = node.Resource.Range
	}
	a.model.Annotations = append(a.model.Annotations, stmt)
}

// expr records references inside an expression. Unknown names become
// implicit parameters, matching the language's treatment of rate-law and
// initializer identifiers. Function bodies resolve strictly against the
// parameter list instead (walkExpr with implicitParams false).
func (a *analyzer) expr(e ast.Expr) {
	a.walkExpr(e, true)
}

func (a *analyzer) walkExpr(e ast.Expr, implicitParams bool) {
	switch node := e.(type) {
	case nil:
	case *ast.Ident:
		if implicitParams {
			a.implicit(node, KindParameter)
		} else {
			a.reference(node)
		}
	case *ast.UnaryExpr:
		a.walkExpr(node.X, implicitParams)
	case *ast.BinaryExpr:
		a.walkExpr(node.X, implicitParams)
		a.walkExpr(node.Y, implicitParams)
	case *ast.ParenExpr:
		a.walkExpr(node.X, implicitParams)
	case *ast.CallExpr:
		if node.Fun != nil {
			a.reference(node.Fun)
		}
		for _, arg := range node.Args {
			a.walkExpr(arg, implicitParams)
		}
	case *ast.NumberLit, *ast.StringLit, *ast.BadExpr:
	}
}
