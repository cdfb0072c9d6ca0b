// Package ast defines the concrete syntax tree for the reaction-network
// DSL. Trees are immutable once the parser returns them; each document
// version gets a fresh tree.
package ast

import "github.com/antimonylang/antimony-ls/internal/token"

// Node is implemented by every syntax tree node.
type Node interface {
	Span() token.Range
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// File is the root of a parsed document. StrayEnds records `end` tokens
// with no matching `model` or `function`; the analyzer turns them into
// unbalanced-block diagnostics.
type File struct {
	Stmts     []Stmt
	StrayEnds []token.Range
}

func (f *File) Span() token.Range {
	if len(f.Stmts) == 0 {
		return token.Range{}
	}
	return token.Range{
		Start: f.Stmts[0].Span().Start,
		End:   f.Stmts[len(f.Stmts)-1].Span().End,
	}
}

// Ident is an identifier occurrence with its exact source range.
type Ident struct {
	Name  string
	Range token.Range
}

func (i *Ident) Span() token.Range { return i.Range }
func (i *Ident) exprNode()         {}

// NumberLit is a numeric literal in any of the supported bases.
type NumberLit struct {
	Text  string
	Range token.Range
}

func (n *NumberLit) Span() token.Range { return n.Range }
func (n *NumberLit) exprNode()         {}

// StringLit is a double-quoted string literal. Value has quotes stripped
// and escapes resolved.
type StringLit struct {
	Value string
	Range token.Range
}

func (s *StringLit) Span() token.Range { return s.Range }
func (s *StringLit) exprNode()         {}

// UnaryExpr is a prefix operation, e.g. negation.
type UnaryExpr struct {
	Op    token.Kind
	X     Expr
	Range token.Range
}

func (u *UnaryExpr) Span() token.Range { return u.Range }
func (u *UnaryExpr) exprNode()         {}

// BinaryExpr is an infix arithmetic operation.
type BinaryExpr struct {
	Op   token.Kind
	X, Y Expr
}

func (b *BinaryExpr) Span() token.Range {
	return token.Range{Start: b.X.Span().Start, End: b.Y.Span().End}
}
func (b *BinaryExpr) exprNode() {}

// CallExpr is a function application, e.g. a rate law helper.
type CallExpr struct {
	Fun   *Ident
	Args  []Expr
	Range token.Range
}

func (c *CallExpr) Span() token.Range { return c.Range }
func (c *CallExpr) exprNode()         {}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	X     Expr
	Range token.Range
}

func (p *ParenExpr) Span() token.Range { return p.Range }
func (p *ParenExpr) exprNode()         {}

// BadExpr fills the hole where an expression could not be parsed.
type BadExpr struct {
	Range token.Range
}

func (b *BadExpr) Span() token.Range { return b.Range }
func (b *BadExpr) exprNode()         {}

// ModelDecl is a `model name ... end` block. Unclosed is set when the
// matching `end` is missing; the diagnostic anchors at KeywordRange.
type ModelDecl struct {
	Name         *Ident
	Body         []Stmt
	KeywordRange token.Range
	EndRange     token.Range
	Unclosed     bool
}

func (m *ModelDecl) Span() token.Range {
	end := m.EndRange.End
	if m.Unclosed {
		if len(m.Body) > 0 {
			end = m.Body[len(m.Body)-1].Span().End
		} else if m.Name != nil {
			end = m.Name.Range.End
		} else {
			end = m.KeywordRange.End
		}
	}
	return token.Range{Start: m.KeywordRange.Start, End: end}
}
func (m *ModelDecl) stmtNode() {}

// DeclItem is one entry of a declaration list: a name with an optional
// compartment clause (`in comp`) and an optional initializer.
type DeclItem struct {
	Name   *Ident
	InComp *Ident
	Value  Expr
}

// DeclStmt declares one or more entities of the same kind, e.g.
// `species A, B in cytosol` or `const k1 = 0.1`.
type DeclStmt struct {
	Keyword      token.Kind
	KeywordRange token.Range
	Items        []DeclItem
}

func (d *DeclStmt) Span() token.Range {
	end := d.KeywordRange.End
	if n := len(d.Items); n > 0 {
		last := d.Items[n-1]
		switch {
		case last.Value != nil:
			end = last.Value.Span().End
		case last.InComp != nil:
			end = last.InComp.Range.End
		case last.Name != nil:
			end = last.Name.Range.End
		}
	}
	return token.Range{Start: d.KeywordRange.Start, End: end}
}
func (d *DeclStmt) stmtNode() {}

// FunctionDecl is `function name(params) body end`.
type FunctionDecl struct {
	Name         *Ident
	Params       []*Ident
	Body         Expr
	KeywordRange token.Range
	EndRange     token.Range
	Unclosed     bool
}

func (f *FunctionDecl) Span() token.Range {
	end := f.EndRange.End
	if f.Unclosed {
		if f.Body != nil {
			end = f.Body.Span().End
		} else if f.Name != nil {
			end = f.Name.Range.End
		} else {
			end = f.KeywordRange.End
		}
	}
	return token.Range{Start: f.KeywordRange.Start, End: end}
}
func (f *FunctionDecl) stmtNode() {}

// SpeciesRef is one participant of a reaction, with an optional
// stoichiometric coefficient.
type SpeciesRef struct {
	Stoich *NumberLit
	Name   *Ident
}

// ReactionStmt is `name: reactants -> products; rate`. Name is optional.
// Irreversible reactions use `=>`. Degenerate forms (missing arrow or
// rate) parse with the corresponding fields empty.
type ReactionStmt struct {
	Name         *Ident
	Reactants    []SpeciesRef
	Products     []SpeciesRef
	ArrowRange   token.Range
	Irreversible bool
	Rate         Expr
	Range        token.Range
}

func (r *ReactionStmt) Span() token.Range { return r.Range }
func (r *ReactionStmt) stmtNode()         {}

// AssignStmt is `target = value` or `target := value`.
type AssignStmt struct {
	Target *Ident
	Define bool
	Value  Expr
}

func (a *AssignStmt) Span() token.Range {
	end := a.Target.Range.End
	if a.Value != nil {
		end = a.Value.Span().End
	}
	return token.Range{Start: a.Target.Range.Start, End: end}
}
func (a *AssignStmt) stmtNode() {}

// AtStmt is a location/initial-amount clause, `name at expr`.
type AtStmt struct {
	Target *Ident
	Value  Expr
}

func (a *AtStmt) Span() token.Range {
	end := a.Target.Range.End
	if a.Value != nil {
		end = a.Value.Span().End
	}
	return token.Range{Start: a.Target.Range.Start, End: end}
}
func (a *AtStmt) stmtNode() {}

// AnnotationStmt links a subject to an ontology resource via a predicate,
// in either the `subject has predicate "uri"`, the bare
// `subject predicate "uri"`, or the colon-delimited form.
type AnnotationStmt struct {
	Subject        *Ident
	Predicate      string
	PredicateRange token.Range
	Resource       *StringLit
	Range          token.Range
}

func (a *AnnotationStmt) Span() token.Range { return a.Range }
func (a *AnnotationStmt) stmtNode()         {}

// ImportStmt is `import "path"`; resolution belongs to the shell.
type ImportStmt struct {
	Path         *StringLit
	KeywordRange token.Range
}

func (i *ImportStmt) Span() token.Range {
	end := i.KeywordRange.End
	if i.Path != nil {
		end = i.Path.Range.End
	}
	return token.Range{Start: i.KeywordRange.Start, End: end}
}
func (i *ImportStmt) stmtNode() {}

// NotesStmt is a `notes` keyword followed by a fenced free-text region.
// Text is the raw region including fences; Unterminated marks a missing
// closing fence.
type NotesStmt struct {
	KeywordRange token.Range
	Text         string
	TextRange    token.Range
	Unterminated bool
}

func (n *NotesStmt) Span() token.Range {
	return token.Range{Start: n.KeywordRange.Start, End: n.TextRange.End}
}
func (n *NotesStmt) stmtNode() {}

// BadStmt covers source the parser had to skip during recovery.
type BadStmt struct {
	Range token.Range
}

func (b *BadStmt) Span() token.Range { return b.Range }
func (b *BadStmt) stmtNode()         {}

// Walk calls fn for every statement in the file, descending into model
// blocks. It does not descend into expressions.
func Walk(f *File, fn func(Stmt)) {
	var visit func(stmts []Stmt)
	visit = func(stmts []Stmt) {
		for _, s := range stmts {
			fn(s)
			if m, ok := s.(*ModelDecl); ok {
				visit(m.Body)
			}
		}
	}
	visit(f.Stmts)
}
