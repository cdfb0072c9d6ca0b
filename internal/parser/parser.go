// Package parser builds a concrete syntax tree from DSL source text.
//
// Parsing is total and error-tolerant: malformed input yields a best-effort
// tree plus range-attributed syntax diagnostics, never an error or panic.
// The parser recovers at statement boundaries (newline or semicolon) and
// keeps going, so a document being edited keystroke by keystroke always
// produces something the analyzer can work with.
package parser

import (
	"fmt"

	"github.com/antimonylang/antimony-ls/internal/ast"
	"github.com/antimonylang/antimony-ls/internal/diag"
	"github.com/antimonylang/antimony-ls/internal/lexer"
	"github.com/antimonylang/antimony-ls/internal/token"
)

// Parse tokenizes and parses text. It never fails; syntax problems are
// returned as diagnostics alongside the best-effort tree.
func Parse(text string) (*ast.File, []diag.Diagnostic) {
	raw := lexer.Tokenize(text)
	tokens := make([]token.Token, 0, len(raw))
	for _, t := range raw {
		if t.Kind == token.Comment {
			continue
		}
		tokens = append(tokens, t)
	}
	p := &parser{tokens: tokens}
	file := p.parseFile()
	return file, p.diagnostics
}

type parser struct {
	tokens      []token.Token
	pos         int
	diagnostics []diag.Diagnostic
}

func (p *parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) at(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *parser) advance() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(rng token.Range, format string, args ...any) {
	p.diagnostics = append(p.diagnostics,
		diag.New(diag.CodeSyntaxError, rng, fmt.Sprintf(format, args...)))
}

// skipToStmtEnd advances past the remainder of the current statement and
// returns the range that was skipped.
func (p *parser) skipToStmtEnd() token.Range {
	start := p.cur().Range
	end := start
	for !p.at(token.EOF) && !p.at(token.EOL) && !p.at(token.Semicolon) {
		end = p.advance().Range
	}
	if p.at(token.EOL) || p.at(token.Semicolon) {
		p.advance()
	}
	return token.Range{Start: start.Start, End: end.End}
}

func (p *parser) skipEOLs() {
	for p.at(token.EOL) {
		p.advance()
	}
}

// endsStmt reports whether the current token terminates a statement.
func (p *parser) endsStmt() bool {
	switch p.cur().Kind {
	case token.EOF, token.EOL, token.Semicolon:
		return true
	}
	return false
}

func (p *parser) parseFile() *ast.File {
	file := &ast.File{}
	for {
		p.skipEOLs()
		if p.at(token.EOF) {
			return file
		}
		if p.at(token.End) {
			// No open block to close at top level.
			file.StrayEnds = append(file.StrayEnds, p.advance().Range)
			continue
		}
		if stmt := p.parseStmt(); stmt != nil {
			file.Stmts = append(file.Stmts, stmt)
		}
	}
}

// parseStmt parses one statement. It returns nil only when the source was
// skipped without producing a node worth keeping.
func (p *parser) parseStmt() ast.Stmt {
	tok := p.cur()
	switch tok.Kind {
	case token.Species, token.Compartment, token.Const, token.Var, token.Unit:
		return p.parseDeclStmt()
	case token.Model:
		return p.parseModel()
	case token.Function:
		return p.parseFunction()
	case token.Import:
		return p.parseImport()
	case token.Notes:
		return p.parseNotes()
	case token.Ident:
		return p.parseSimpleStmt()
	case token.Number, token.Arrow, token.DoubleArrow:
		return p.parseReaction(nil, tok.Range.Start)
	case token.Illegal:
		p.errorf(tok.Range, "unexpected character %q", tok.Lexeme)
		return &ast.BadStmt{Range: p.skipToStmtEnd()}
	default:
		p.errorf(tok.Range, "unexpected %s at start of statement", tok.Kind)
		return &ast.BadStmt{Range: p.skipToStmtEnd()}
	}
}

// parseDeclStmt parses `species A, 2 B in comp` / `const k = 0.1` style
// declarations for any declaration keyword except model and function.
func (p *parser) parseDeclStmt() ast.Stmt {
	kw := p.advance()
	decl := &ast.DeclStmt{Keyword: kw.Kind, KeywordRange: kw.Range}
	for {
		if !p.at(token.Ident) {
			if !p.endsStmt() {
				p.errorf(p.cur().Range, "expected identifier after %q", kw.Lexeme)
				p.skipToStmtEnd()
			}
			break
		}
		item := ast.DeclItem{Name: p.ident()}
		if p.at(token.In) {
			p.advance()
			if p.at(token.Ident) {
				item.InComp = p.ident()
			} else {
				p.errorf(p.cur().Range, "expected compartment name after 'in'")
			}
		}
		if p.at(token.Assign) || p.at(token.Define) {
			p.advance()
			item.Value = p.parseExpr()
		}
		decl.Items = append(decl.Items, item)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.finishStmt()
	return decl
}

func (p *parser) parseModel() ast.Stmt {
	kw := p.advance()
	model := &ast.ModelDecl{KeywordRange: kw.Range}
	if p.at(token.Ident) {
		model.Name = p.ident()
	} else {
		p.errorf(p.cur().Range, "expected model name")
	}
	for {
		p.skipEOLs()
		switch p.cur().Kind {
		case token.End:
			model.EndRange = p.advance().Range
			p.finishStmt()
			return model
		case token.EOF:
			model.Unclosed = true
			return model
		}
		if stmt := p.parseStmt(); stmt != nil {
			model.Body = append(model.Body, stmt)
		}
	}
}

func (p *parser) parseFunction() ast.Stmt {
	kw := p.advance()
	fn := &ast.FunctionDecl{KeywordRange: kw.Range}
	if p.at(token.Ident) {
		fn.Name = p.ident()
	} else {
		p.errorf(p.cur().Range, "expected function name")
	}
	if p.at(token.LParen) {
		p.advance()
		for p.at(token.Ident) {
			fn.Params = append(fn.Params, p.ident())
			if p.at(token.Comma) {
				p.advance()
			}
		}
		if p.at(token.RParen) {
			p.advance()
		} else {
			p.errorf(p.cur().Range, "expected ')' after function parameters")
		}
	}
	p.skipEOLs()
	if !p.at(token.End) && !p.at(token.EOF) {
		fn.Body = p.parseExpr()
	}
	p.skipEOLs()
	if p.at(token.End) {
		fn.EndRange = p.advance().Range
		p.finishStmt()
	} else {
		fn.Unclosed = true
		if !p.at(token.EOF) {
			p.errorf(p.cur().Range, "expected 'end' after function body")
			p.skipToStmtEnd()
		}
	}
	return fn
}

func (p *parser) parseImport() ast.Stmt {
	kw := p.advance()
	imp := &ast.ImportStmt{KeywordRange: kw.Range}
	if p.at(token.String) {
		tok := p.advance()
		imp.Path = &ast.StringLit{Value: lexer.StringValue(tok.Lexeme), Range: tok.Range}
	} else {
		p.errorf(p.cur().Range, "expected quoted path after 'import'")
	}
	p.finishStmt()
	return imp
}

func (p *parser) parseNotes() ast.Stmt {
	kw := p.advance()
	notes := &ast.NotesStmt{KeywordRange: kw.Range, TextRange: kw.Range}
	if p.at(token.FencedText) {
		tok := p.advance()
		notes.Text = tok.Lexeme
		notes.TextRange = tok.Range
		notes.Unterminated = !isClosedFence(tok.Lexeme)
	} else {
		p.errorf(p.cur().Range, "expected fenced text after 'notes'")
	}
	p.finishStmt()
	return notes
}

// isClosedFence reports whether a FencedText lexeme carries both fences.
func isClosedFence(lexeme string) bool {
	return len(lexeme) >= 6 && lexeme[len(lexeme)-3:] == "```"
}

// parseSimpleStmt dispatches statements that begin with an identifier:
// annotations, assignments, location clauses, and named reactions.
func (p *parser) parseSimpleStmt() ast.Stmt {
	subject := p.ident()
	switch p.cur().Kind {
	case token.Has:
		hasTok := p.advance()
		return p.parseAnnotationTail(subject, hasTok.Range)
	case token.Assign, token.Define:
		op := p.advance()
		value := p.parseExpr()
		p.finishStmt()
		return &ast.AssignStmt{Target: subject, Define: op.Kind == token.Define, Value: value}
	case token.At:
		p.advance()
		value := p.parseExpr()
		p.finishStmt()
		return &ast.AtStmt{Target: subject, Value: value}
	case token.Colon:
		colon := p.advance()
		// `A: identity "uri"` is the colon-delimited annotation form;
		// anything else after the colon is a named reaction.
		if p.at(token.Ident) && token.IsPredicate(p.cur().Lexeme) && p.peek().Kind == token.String {
			return p.parseAnnotationTail(subject, colon.Range)
		}
		return p.parseReaction(subject, subject.Range.Start)
	case token.Ident:
		// Bare-predicate annotation form: `A identity "uri"`.
		if p.peek().Kind == token.String {
			return p.parseAnnotationTail(subject, subject.Range)
		}
		p.errorf(p.cur().Range, "unexpected identifier %q", p.cur().Lexeme)
		p.skipToStmtEnd()
		return &ast.BadStmt{Range: subject.Range}
	case token.Plus, token.Arrow, token.DoubleArrow:
		return p.parseReactionFrom(nil, subject)
	default:
		if p.endsStmt() {
			// A lone identifier: treat as a degenerate reaction listing so
			// position queries still see the occurrence.
			p.finishStmt()
			return &ast.ReactionStmt{
				Reactants: []ast.SpeciesRef{{Name: subject}},
				Range:     subject.Range,
			}
		}
		p.errorf(p.cur().Range, "unexpected %s after %q", p.cur().Kind, subject.Name)
		p.skipToStmtEnd()
		return &ast.BadStmt{Range: subject.Range}
	}
}

// parseAnnotationTail parses `predicate "uri"` after the subject and its
// separator. A non-keyword predicate still yields an annotation node; the
// analyzer diagnoses it so the rest of the pass is not aborted.
func (p *parser) parseAnnotationTail(subject *ast.Ident, sepRange token.Range) ast.Stmt {
	stmt := &ast.AnnotationStmt{Subject: subject}
	end := sepRange.End
	if p.at(token.Ident) {
		pred := p.advance()
		stmt.Predicate = pred.Lexeme
		stmt.PredicateRange = pred.Range
		end = pred.Range.End
	} else {
		p.errorf(p.cur().Range, "expected annotation predicate")
		stmt.PredicateRange = sepRange
	}
	if p.at(token.String) {
		tok := p.advance()
		stmt.Resource = &ast.StringLit{Value: lexer.StringValue(tok.Lexeme), Range: tok.Range}
		end = tok.Range.End
	} else {
		p.errorf(p.cur().Range, "expected quoted resource URI in annotation")
	}
	stmt.Range = token.Range{Start: subject.Range.Start, End: end}
	p.finishStmt()
	return stmt
}

// parseReaction parses the participant lists, arrow, and rate law of a
// reaction statement, starting at the current token.
func (p *parser) parseReaction(name *ast.Ident, start token.Position) ast.Stmt {
	return p.parseReactionAt(name, nil, start)
}

// parseReactionFrom continues a reaction whose first reactant was already
// consumed during statement dispatch.
func (p *parser) parseReactionFrom(name *ast.Ident, first *ast.Ident) ast.Stmt {
	start := first.Range.Start
	if name != nil {
		start = name.Range.Start
	}
	return p.parseReactionAt(name, &ast.SpeciesRef{Name: first}, start)
}

func (p *parser) parseReactionAt(name *ast.Ident, first *ast.SpeciesRef, start token.Position) ast.Stmt {
	rxn := &ast.ReactionStmt{Name: name}
	if first != nil {
		rxn.Reactants = append(rxn.Reactants, *first)
		if p.at(token.Plus) {
			p.advance()
		}
	}
	rxn.Reactants = append(rxn.Reactants, p.parseSpeciesList()...)

	end := start
	if n := len(rxn.Reactants); n > 0 {
		end = rxn.Reactants[n-1].Name.Range.End
	}

	switch p.cur().Kind {
	case token.Arrow, token.DoubleArrow:
		arrow := p.advance()
		rxn.ArrowRange = arrow.Range
		rxn.Irreversible = arrow.Kind == token.DoubleArrow
		rxn.Products = p.parseSpeciesList()
		end = arrow.Range.End
		if n := len(rxn.Products); n > 0 {
			end = rxn.Products[n-1].Name.Range.End
		}
	}

	if p.at(token.Semicolon) {
		p.advance()
		if !p.endsStmt() {
			rxn.Rate = p.parseExpr()
			end = rxn.Rate.Span().End
		}
	}
	rxn.Range = token.Range{Start: start, End: end}
	p.finishStmt()
	return rxn
}

// parseSpeciesList parses `2 A + B + ...` and stops at the first token
// that cannot continue the list.
func (p *parser) parseSpeciesList() []ast.SpeciesRef {
	var refs []ast.SpeciesRef
	for {
		var ref ast.SpeciesRef
		if p.at(token.Number) {
			tok := p.advance()
			ref.Stoich = &ast.NumberLit{Text: tok.Lexeme, Range: tok.Range}
		}
		if !p.at(token.Ident) {
			if ref.Stoich != nil {
				p.errorf(p.cur().Range, "expected species name after stoichiometric coefficient")
			}
			return refs
		}
		ref.Name = p.ident()
		refs = append(refs, ref)
		if !p.at(token.Plus) {
			return refs
		}
		p.advance()
	}
}

// finishStmt consumes the statement terminator if present and reports
// anything left over on the line.
func (p *parser) finishStmt() {
	if p.endsStmt() {
		if !p.at(token.EOF) {
			p.advance()
		}
		return
	}
	rng := p.skipToStmtEnd()
	p.errorf(rng, "unexpected trailing tokens")
}

func (p *parser) ident() *ast.Ident {
	tok := p.advance()
	return &ast.Ident{Name: tok.Lexeme, Range: tok.Range}
}
