// Package token declares the lexical token types produced by the scanner and
// consumed by the parser, resolver and interpreter.
package token

import "fmt"

//go:generate go tool stringer -type Type

// Type identifies the lexical class of a [Token].
type Type int

// The complete set of token kinds produced by the scanner.
const (
	Illegal Type = iota
	EOF

	// Single-character punctuation.
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One or two character operators.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
)

// Keywords maps reserved identifiers to their token type.
var Keywords = map[string]Type{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// Position is a source location: a 1-based line and a 0-based column.
type Position struct {
	Line   int
	Column int // 0-based byte offset from the start of the line
}

// Literal is the value carried by a literal token. The scanner sets it only
// on NUMBER (float64) and STRING (string) tokens; the parser sets it to true
// or false on the tokens of boolean literals. Every other token carries a nil
// Literal; the lexeme is authoritative for those.
type Literal any

// Token is a single lexical token. Tokens are immutable after construction.
type Token struct {
	Type    Type
	Lexeme  string
	Literal Literal
	Line    int
	Column  int // 0-based byte offset of the first character of the lexeme
}

// End returns the position immediately after the token, used to build
// source-highlighting ranges for diagnostics.
func (t Token) End() Position {
	return Position{Line: t.Line, Column: t.Column + len(t.Lexeme)}
}

// Start returns the position of the token's first character.
func (t Token) Start() Position {
	return Position{Line: t.Line, Column: t.Column}
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q %v", t.Type, t.Lexeme, t.Literal)
}
