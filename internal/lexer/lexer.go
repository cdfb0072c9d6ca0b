// Package lexer tokenizes Antimony-style DSL source text. Tokenization is
// total: every input string, however malformed, produces a token stream
// ending in EOF. Unrecognized characters become Illegal tokens whose
// positions are preserved for diagnostics.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antimonylang/antimony-ls/internal/token"
)

// Lexer scans one source string into tokens.
type Lexer struct {
	src  string
	cur  int // byte offset of the next unread rune
	line int // 1-based
	col  int // 1-based column of the next unread rune

	tokLine int
	tokCol  int
	start   int
}

// New creates a lexer for the given source.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize scans the entire source and returns all tokens including the
// trailing EOF. Comments and EOL tokens are included; callers that do not
// care filter them out.
func Tokenize(src string) []token.Token {
	lx := New(src)
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func (lx *Lexer) atEnd() bool {
	return lx.cur >= len(lx.src)
}

func (lx *Lexer) peek() rune {
	if lx.atEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.cur:])
	return r
}

func (lx *Lexer) peekAt(offset int) rune {
	i := lx.cur
	for ; offset > 0 && i < len(lx.src); offset-- {
		_, w := utf8.DecodeRuneInString(lx.src[i:])
		i += w
	}
	if i >= len(lx.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[i:])
	return r
}

func (lx *Lexer) advance() rune {
	r, w := utf8.DecodeRuneInString(lx.src[lx.cur:])
	lx.cur += w
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *Lexer) match(r rune) bool {
	if lx.peek() != r {
		return false
	}
	lx.advance()
	return true
}

func (lx *Lexer) emit(kind token.Kind) token.Token {
	return token.Token{
		Kind:   kind,
		Lexeme: lx.src[lx.start:lx.cur],
		Range: token.Range{
			Start: token.Position{Line: lx.tokLine, Column: lx.tokCol},
			End:   token.Position{Line: lx.line, Column: lx.col},
		},
	}
}

// Next scans and returns the next token.
func (lx *Lexer) Next() token.Token {
	lx.skipBlanks()

	lx.start = lx.cur
	lx.tokLine = lx.line
	lx.tokCol = lx.col

	if lx.atEnd() {
		return lx.emit(token.EOF)
	}

	r := lx.advance()
	switch r {
	case '\n':
		return lx.emit(token.EOL)
	case '+':
		return lx.emit(token.Plus)
	case '*':
		return lx.emit(token.Star)
	case '%':
		return lx.emit(token.Percent)
	case '^':
		return lx.emit(token.Caret)
	case ';':
		return lx.emit(token.Semicolon)
	case ',':
		return lx.emit(token.Comma)
	case '(':
		return lx.emit(token.LParen)
	case ')':
		return lx.emit(token.RParen)
	case '.':
		return lx.emit(token.Dot)
	case '-':
		if lx.match('>') {
			return lx.emit(token.Arrow)
		}
		return lx.emit(token.Minus)
	case '=':
		if lx.match('>') {
			return lx.emit(token.DoubleArrow)
		}
		return lx.emit(token.Assign)
	case ':':
		if lx.match('=') {
			return lx.emit(token.Define)
		}
		return lx.emit(token.Colon)
	case '/':
		if lx.match('/') {
			return lx.scanLineComment()
		}
		return lx.emit(token.Slash)
	case '#':
		return lx.scanLineComment()
	case '"':
		return lx.scanString()
	case '`':
		if lx.peek() == '`' && lx.peekAt(1) == '`' {
			lx.advance()
			lx.advance()
			return lx.scanFence()
		}
		return lx.emit(token.Illegal)
	}

	if isDigit(r) {
		return lx.scanNumber(r)
	}
	if isIdentStart(r) {
		return lx.scanIdent()
	}
	return lx.emit(token.Illegal)
}

// skipBlanks consumes spaces, tabs, and carriage returns. Newlines are
// significant (statement terminators) and are not skipped.
func (lx *Lexer) skipBlanks() {
	for !lx.atEnd() {
		switch lx.peek() {
		case ' ', '\t', '\r':
			lx.advance()
		default:
			return
		}
	}
}

func (lx *Lexer) scanLineComment() token.Token {
	for !lx.atEnd() && lx.peek() != '\n' {
		lx.advance()
	}
	return lx.emit(token.Comment)
}

// scanString consumes a double-quoted string. An unterminated string ends
// at the newline or EOF; the token is still produced so downstream stages
// can report a range-attributed diagnostic instead of losing the text.
func (lx *Lexer) scanString() token.Token {
	for !lx.atEnd() && lx.peek() != '\n' {
		r := lx.advance()
		if r == '\\' && !lx.atEnd() {
			lx.advance()
			continue
		}
		if r == '"' {
			return lx.emit(token.String)
		}
	}
	return lx.emit(token.String)
}

// scanFence consumes a triple-backtick fenced region, fences included.
// The opening fence has already been consumed. An unterminated fence runs
// to EOF; the parser attaches a hint diagnostic in that case.
func (lx *Lexer) scanFence() token.Token {
	for !lx.atEnd() {
		if lx.peek() == '`' && lx.peekAt(1) == '`' && lx.peekAt(2) == '`' {
			lx.advance()
			lx.advance()
			lx.advance()
			return lx.emit(token.FencedText)
		}
		lx.advance()
	}
	return lx.emit(token.FencedText)
}

// scanNumber consumes integer, decimal, exponent, hex (0x), octal (0o),
// and binary (0b) literals. Validity of digits per base is not enforced
// here; the literal's textual form is preserved for the parser.
func (lx *Lexer) scanNumber(first rune) token.Token {
	if first == '0' {
		switch lx.peek() {
		case 'x', 'X':
			lx.advance()
			lx.consumeWhile(isHexDigit)
			return lx.emit(token.Number)
		case 'o', 'O':
			lx.advance()
			lx.consumeWhile(isDigit)
			return lx.emit(token.Number)
		case 'b', 'B':
			lx.advance()
			lx.consumeWhile(isDigit)
			return lx.emit(token.Number)
		}
	}
	lx.consumeWhile(isDigit)
	if lx.peek() == '.' && isDigit(lx.peekAt(1)) {
		lx.advance()
		lx.consumeWhile(isDigit)
	}
	if r := lx.peek(); r == 'e' || r == 'E' {
		next := lx.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(lx.peekAt(2))) {
			lx.advance()
			if r := lx.peek(); r == '+' || r == '-' {
				lx.advance()
			}
			lx.consumeWhile(isDigit)
		}
	}
	return lx.emit(token.Number)
}

func (lx *Lexer) scanIdent() token.Token {
	lx.consumeWhile(isIdentPart)
	tok := lx.emit(token.Ident)
	tok.Kind = token.Lookup(tok.Lexeme)
	return tok
}

func (lx *Lexer) consumeWhile(pred func(rune) bool) {
	for !lx.atEnd() && pred(lx.peek()) {
		lx.advance()
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// StringValue strips the surrounding quotes and resolves simple escapes in
// a String token's lexeme. Unterminated strings are returned as-is minus
// the opening quote.
func StringValue(lexeme string) string {
	s := strings.TrimPrefix(lexeme, `"`)
	s = strings.TrimSuffix(s, `"`)
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
