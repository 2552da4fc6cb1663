// Package scanner converts Lox source text into a stream of lexical tokens.
package scanner

import (
	"strconv"

	"github.com/loxlang/golox/loxerror"
	"github.com/loxlang/golox/token"
)

// Scanner converts a source string into tokens, one pass, character by
// character, tracking start/current offsets and the current line the way
// the book's jlox scanner does.
type Scanner struct {
	src []byte

	start   int // start of the lexeme currently being scanned
	current int // index of the next character to consume
	line    int
	lineCol int // byte offset of start of current line, used to compute Column

	errs loxerror.Errors
}

// New constructs a Scanner over src.
func New(src string) *Scanner {
	return &Scanner{src: []byte(src), line: 1}
}

// ScanTokens scans the entire source and returns the resulting token list,
// always ending with exactly one EOF token whose line is the final source
// line. If any lexical errors were encountered, they are returned as a
// joined error; scanning itself still continues past each one so that every
// error in the source is reported in a single pass.
func ScanTokens(src string) ([]token.Token, error) {
	s := New(src)
	var tokens []token.Token
	for {
		tok := s.scanToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens, s.errs.Err()
}

func (s *Scanner) column(start int) int {
	return start - s.lineCol
}

func (s *Scanner) scanToken() token.Token {
	s.skipWhitespaceAndComments()
	s.start = s.current
	if s.isAtEnd() {
		return s.makeToken(token.EOF)
	}

	c := s.advance()
	switch {
	case isAlpha(c):
		return s.identifier()
	case isDigit(c):
		return s.number()
	}

	switch c {
	case '(':
		return s.makeToken(token.LeftParen)
	case ')':
		return s.makeToken(token.RightParen)
	case '{':
		return s.makeToken(token.LeftBrace)
	case '}':
		return s.makeToken(token.RightBrace)
	case ',':
		return s.makeToken(token.Comma)
	case '.':
		return s.makeToken(token.Dot)
	case '-':
		return s.makeToken(token.Minus)
	case '+':
		return s.makeToken(token.Plus)
	case ';':
		return s.makeToken(token.Semicolon)
	case '*':
		return s.makeToken(token.Star)
	case '/':
		return s.makeToken(token.Slash)
	case '!':
		return s.makeToken(s.choose('=', token.BangEqual, token.Bang))
	case '=':
		return s.makeToken(s.choose('=', token.EqualEqual, token.Equal))
	case '<':
		return s.makeToken(s.choose('=', token.LessEqual, token.Less))
	case '>':
		return s.makeToken(s.choose('=', token.GreaterEqual, token.Greater))
	case '"':
		return s.string()
	default:
		tok := s.makeToken(token.Illegal)
		s.errs.Add(tok.Start(), tok.End(), "unexpected character: %q", c)
		return tok
	}
}

// skipWhitespaceAndComments advances past spaces, tabs, carriage returns,
// newlines (bumping the line counter) and // line comments.
func (s *Scanner) skipWhitespaceAndComments() {
	for !s.isAtEnd() {
		switch s.peek() {
		case ' ', '\t', '\r':
			s.current++
		case '\n':
			s.current++
			s.line++
			s.lineCol = s.current
		case '/':
			if s.peekNext() == '/' {
				for !s.isAtEnd() && s.peek() != '\n' {
					s.current++
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) identifier() token.Token {
	for isAlphaNumeric(s.peek()) {
		s.current++
	}
	lexeme := string(s.src[s.start:s.current])
	typ, ok := token.Keywords[lexeme]
	if !ok {
		typ = token.Identifier
	}
	return s.makeToken(typ)
}

// number matches DIGIT+ ( "." DIGIT+ )?. A trailing "." not followed by a
// digit is left unconsumed so that, e.g., 1. parses as 1 followed by Dot.
func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.current++
	}
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.current++ // consume the "."
		for isDigit(s.peek()) {
			s.current++
		}
	}
	lexeme := string(s.src[s.start:s.current])
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		panic("scanner: invalid number lexeme " + lexeme)
	}
	tok := s.makeToken(token.Number)
	tok.Literal = value
	return tok
}

// string matches a double-quoted string literal, which may span multiple
// lines. Reaching EOF before the closing quote is a scan error.
func (s *Scanner) string() token.Token {
	for !s.isAtEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
			s.current++
			s.lineCol = s.current
			continue
		}
		s.current++
	}
	if s.isAtEnd() {
		tok := s.makeToken(token.Illegal)
		s.errs.Add(tok.Start(), tok.End(), "unterminated string")
		return tok
	}
	s.current++ // consume the closing quote
	tok := s.makeToken(token.String)
	tok.Literal = string(s.src[s.start+1 : s.current-1])
	return tok
}

func (s *Scanner) makeToken(typ token.Type) token.Token {
	return token.Token{
		Type:   typ,
		Lexeme: string(s.src[s.start:s.current]),
		Line:   s.line,
		Column: s.column(s.start),
	}
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.src)
}

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

// choose returns matched if the next character is expected (consuming it),
// otherwise unmatched.
func (s *Scanner) choose(expected byte, matched, unmatched token.Type) token.Type {
	if s.isAtEnd() || s.src[s.current] != expected {
		return unmatched
	}
	s.current++
	return matched
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	return s.peekAt(1)
}

func (s *Scanner) peekAt(offset int) byte {
	if s.current+offset >= len(s.src) {
		return 0
	}
	return s.src[s.current+offset]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
