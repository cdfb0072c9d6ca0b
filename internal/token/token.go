// Package token defines the lexical vocabulary of the Antimony-style
// reaction-network DSL: token kinds, keyword tables, and the source
// positions shared by every stage of the pipeline.
package token

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	// Special
	EOF Kind = iota
	Illegal
	Comment
	EOL

	// Literals and identifiers
	Ident
	Number
	String
	FencedText // triple-backtick fenced region, fences included

	// Operators
	Assign      // =
	Define      // :=
	Arrow       // ->
	DoubleArrow // =>
	Plus
	Minus
	Star
	Slash
	Percent
	Caret
	Colon
	Semicolon
	Comma
	LParen
	RParen
	Dot

	// Keywords
	At
	In
	Import
	Has
	Notes
	End

	// Declaration keywords
	Const
	Unit
	Var
	Species
	Function
	Model
	Compartment
)

var kindNames = map[Kind]string{
	EOF:         "EOF",
	Illegal:     "Illegal",
	Comment:     "Comment",
	EOL:         "EOL",
	Ident:       "Ident",
	Number:      "Number",
	String:      "String",
	FencedText:  "FencedText",
	Assign:      "=",
	Define:      ":=",
	Arrow:       "->",
	DoubleArrow: "=>",
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	Percent:     "%",
	Caret:       "^",
	Colon:       ":",
	Semicolon:   ";",
	Comma:       ",",
	LParen:      "(",
	RParen:      ")",
	Dot:         ".",
	At:          "at",
	In:          "in",
	Import:      "import",
	Has:         "has",
	Notes:       "notes",
	End:         "end",
	Const:       "const",
	Unit:        "unit",
	Var:         "var",
	Species:     "species",
	Function:    "function",
	Model:       "model",
	Compartment: "compartment",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps reserved words to their token kinds. Identifiers matching
// none of these lex as Ident; annotation predicates are deliberately not
// reserved (they are ordinary identifiers recognized by the parser).
var keywords = map[string]Kind{
	"at":          At,
	"in":          In,
	"import":      Import,
	"has":         Has,
	"notes":       Notes,
	"end":         End,
	"const":       Const,
	"unit":        Unit,
	"var":         Var,
	"species":     Species,
	"function":    Function,
	"model":       Model,
	"compartment": Compartment,
}

// Lookup returns the keyword kind for an identifier, or Ident.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Ident
}

// predicates is the closed set of annotation-predicate keywords. They are
// contextual: outside an annotation statement they are plain identifiers.
var predicates = map[string]struct{}{
	"identity":      {},
	"hasPart":       {},
	"isPartOf":      {},
	"isVersionOf":   {},
	"hasVersion":    {},
	"encodes":       {},
	"isEncodedBy":   {},
	"occursIn":      {},
	"hasProperty":   {},
	"isPropertyOf":  {},
	"hasTaxon":      {},
	"isDerivedFrom": {},
	"hasInstance":   {},
	"instanceOf":    {},
}

// IsPredicate reports whether name is a recognized annotation predicate.
func IsPredicate(name string) bool {
	_, ok := predicates[name]
	return ok
}

// IsDeclKeyword reports whether k introduces a declaration statement.
func (k Kind) IsDeclKeyword() bool {
	switch k {
	case Const, Unit, Var, Species, Function, Model, Compartment:
		return true
	}
	return false
}

// Token is one lexical unit with its source range.
type Token struct {
	Kind   Kind
	Lexeme string
	Range  Range
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Lexeme, t.Range)
}
