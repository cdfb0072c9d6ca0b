package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antimonylang/antimony-ls/internal/token"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Kind)
	}
	return out
}

func TestTokenizeDeclaration(t *testing.T) {
	tokens := Tokenize("species A, B in cytosol")
	assert.Equal(t, []token.Kind{
		token.Species, token.Ident, token.Comma, token.Ident,
		token.In, token.Ident, token.EOF,
	}, kinds(tokens))
	assert.Equal(t, "cytosol", tokens[5].Lexeme)
}

func TestTokenizeReaction(t *testing.T) {
	tokens := Tokenize(`J: A + B -> C; k1*A`)
	assert.Equal(t, []token.Kind{
		token.Ident, token.Colon, token.Ident, token.Plus, token.Ident,
		token.Arrow, token.Ident, token.Semicolon, token.Ident,
		token.Star, token.Ident, token.EOF,
	}, kinds(tokens))
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"integer", "42"},
		{"decimal", "3.14"},
		{"exponent", "1.5e-3"},
		{"upper exponent", "2E6"},
		{"hex", "0x1F"},
		{"octal", "0o17"},
		{"binary", "0b101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Len(t, tokens, 2)
			assert.Equal(t, token.Number, tokens[0].Kind)
			assert.Equal(t, tt.input, tokens[0].Lexeme)
		})
	}
}

func TestOperators(t *testing.T) {
	tokens := Tokenize("= := -> => + - * / ^ %")
	assert.Equal(t, []token.Kind{
		token.Assign, token.Define, token.Arrow, token.DoubleArrow,
		token.Plus, token.Minus, token.Star, token.Slash,
		token.Caret, token.Percent, token.EOF,
	}, kinds(tokens))
}

func TestComments(t *testing.T) {
	tokens := Tokenize("A // trailing\n# full line\nB")
	assert.Equal(t, []token.Kind{
		token.Ident, token.Comment, token.EOL,
		token.Comment, token.EOL, token.Ident, token.EOF,
	}, kinds(tokens))
}

func TestTokenizationIsTotal(t *testing.T) {
	inputs := []string{
		"",
		"   \t  ",
		"@@@ $$$ ???",
		"species @A",
		"\x00\x01",
		"\"unterminated",
		"```unterminated fence",
	}
	for _, input := range inputs {
		tokens := Tokenize(input)
		require.NotEmpty(t, tokens, "input %q", input)
		assert.Equal(t, token.EOF, tokens[len(tokens)-1].Kind, "input %q", input)
	}
}

func TestIllegalCharacterKeepsPosition(t *testing.T) {
	tokens := Tokenize("A @ B")
	require.Equal(t, []token.Kind{
		token.Ident, token.Illegal, token.Ident, token.EOF,
	}, kinds(tokens))
	assert.Equal(t, token.Position{Line: 1, Column: 3}, tokens[1].Range.Start)
}

func TestUnterminatedString(t *testing.T) {
	tokens := Tokenize("\"abc\nB")
	require.Equal(t, []token.Kind{
		token.String, token.EOL, token.Ident, token.EOF,
	}, kinds(tokens))
	assert.Equal(t, `"abc`, tokens[0].Lexeme)
}

func TestFencedText(t *testing.T) {
	tokens := Tokenize("notes ```some <b>text</b>```")
	require.Equal(t, []token.Kind{token.Notes, token.FencedText, token.EOF}, kinds(tokens))
	assert.Equal(t, "```some <b>text</b>```", tokens[1].Lexeme)
}

func TestPositionsAreOneBased(t *testing.T) {
	tokens := Tokenize("A\n  B")
	require.Equal(t, []token.Kind{token.Ident, token.EOL, token.Ident, token.EOF}, kinds(tokens))
	assert.Equal(t, token.Range{
		Start: token.Position{Line: 1, Column: 1},
		End:   token.Position{Line: 1, Column: 2},
	}, tokens[0].Range)
	assert.Equal(t, token.Position{Line: 2, Column: 3}, tokens[2].Range.Start)
}

func TestKeywordsAndPredicates(t *testing.T) {
	assert.Equal(t, token.Species, token.Lookup("species"))
	assert.Equal(t, token.End, token.Lookup("end"))
	// Predicates are contextual identifiers, not reserved words.
	assert.Equal(t, token.Ident, token.Lookup("identity"))
	assert.True(t, token.IsPredicate("identity"))
	assert.True(t, token.IsPredicate("isDerivedFrom"))
	assert.False(t, token.IsPredicate("banana"))
}

func TestStringValue(t *testing.T) {
	assert.Equal(t, "urn:foo", StringValue(`"urn:foo"`))
	assert.Equal(t, "a\nb", StringValue(`"a\nb"`))
	assert.Equal(t, `say "hi"`, StringValue(`"say \"hi\""`))
}
