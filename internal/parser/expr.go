package parser

import (
	"github.com/antimonylang/antimony-ls/internal/ast"
	"github.com/antimonylang/antimony-ls/internal/lexer"
	"github.com/antimonylang/antimony-ls/internal/token"
)

// Binding powers, loosest first. Exponentiation binds tightest and is
// right-associative.
const (
	precNone = iota
	precAdd
	precMul
	precPow
)

func precedenceOf(kind token.Kind) int {
	switch kind {
	case token.Plus, token.Minus:
		return precAdd
	case token.Star, token.Slash, token.Percent:
		return precMul
	case token.Caret:
		return precPow
	}
	return precNone
}

// parseExpr parses an arithmetic expression (rate laws, initializers,
// function bodies). It never fails: an unparseable position yields a
// BadExpr covering the offending token plus a syntax diagnostic.
func (p *parser) parseExpr() ast.Expr {
	return p.parseBinary(precNone + 1)
}

func (p *parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		prec := precedenceOf(p.cur().Kind)
		if prec < minPrec {
			return left
		}
		op := p.advance()
		next := prec + 1
		if op.Kind == token.Caret {
			next = prec // right-associative
		}
		right := p.parseBinary(next)
		left = &ast.BinaryExpr{Op: op.Kind, X: left, Y: right}
	}
}

func (p *parser) parseUnary() ast.Expr {
	if p.at(token.Minus) || p.at(token.Plus) {
		op := p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{
			Op:    op.Kind,
			X:     x,
			Range: token.Range{Start: op.Range.Start, End: x.Span().End},
		}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case token.Number:
		p.advance()
		return &ast.NumberLit{Text: tok.Lexeme, Range: tok.Range}
	case token.String:
		p.advance()
		return &ast.StringLit{Value: lexer.StringValue(tok.Lexeme), Range: tok.Range}
	case token.Ident:
		ident := p.ident()
		if p.at(token.LParen) {
			return p.parseCall(ident)
		}
		return ident
	case token.LParen:
		open := p.advance()
		x := p.parseExpr()
		closeRange := x.Span()
		if p.at(token.RParen) {
			closeRange = p.advance().Range
		} else {
			p.errorf(p.cur().Range, "expected ')'")
		}
		return &ast.ParenExpr{
			X:     x,
			Range: token.Range{Start: open.Range.Start, End: closeRange.End},
		}
	default:
		p.errorf(tok.Range, "expected expression, found %s", tok.Kind)
		if !p.endsStmt() {
			p.advance()
		}
		return &ast.BadExpr{Range: tok.Range}
	}
}

func (p *parser) parseCall(fun *ast.Ident) ast.Expr {
	p.advance() // consume '('
	call := &ast.CallExpr{Fun: fun}
	end := fun.Range.End
	for !p.at(token.RParen) && !p.endsStmt() {
		arg := p.parseExpr()
		call.Args = append(call.Args, arg)
		end = arg.Span().End
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if p.at(token.RParen) {
		end = p.advance().Range.End
	} else {
		p.errorf(p.cur().Range, "expected ')' to close call")
	}
	call.Range = token.Range{Start: fun.Range.Start, End: end}
	return call
}
