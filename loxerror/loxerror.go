// Package loxerror defines the diagnostic type shared by every stage of the
// Lox pipeline: scan errors, parse errors, resolve errors and runtime
// errors are all a *loxerror.Error.
package loxerror

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/loxlang/golox/token"
)

// Error describes a problem attributable to a range of characters in the
// source code.
type Error struct {
	msg   string
	start token.Position
	end   token.Position
	// Lexeme and Line back the spec-canonical one-line summary
	// ("[line N] <lexeme> Runtime Error: <message>"), independent of the
	// multi-line, colourised rendering that Error() produces.
	Lexeme string
	Line   int
}

// New creates an *Error spanning [start, end).
func New(start, end token.Position, format string, args ...any) *Error {
	return &Error{
		msg:   fmt.Sprintf(format, args...),
		start: start,
		end:   end,
		Line:  start.Line,
	}
}

// NewFromToken creates an *Error describing a problem with tok.
func NewFromToken(tok token.Token, format string, args ...any) *Error {
	e := New(tok.Start(), tok.End(), format, args...)
	e.Lexeme = tok.Lexeme
	return e
}

// Error implements the error interface. It renders only the bold location
// line and the message, e.g. "2:7: error: unterminated string"; *Error does
// not retain the source text, so no source line is shown.
func (e *Error) Error() string {
	return e.render(nil)
}

// ErrorWithSource is like Error but also renders the offending source
// line(s), taken from src, with a coloured ~~~ underline beneath the exact
// byte range when the error is on a single line, e.g.:
//
//	2:7: error: unterminated string
//	print "bar;
//	      ~~~~~
func (e *Error) ErrorWithSource(src string) string {
	lines := strings.Split(src, "\n")
	return e.render(lines)
}

func (e *Error) render(lines []string) string {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)

	var b strings.Builder
	bold.Fprintf(&b, "%d:%d: ", e.start.Line, e.start.Column+1)
	red.Fprint(&b, "error: ")
	fmt.Fprint(&b, e.msg)

	if lines == nil || e.start.Line-1 >= len(lines) {
		return b.String()
	}
	fmt.Fprintln(&b)
	if e.start.Line == e.end.Line {
		line := lines[e.start.Line-1]
		fmt.Fprintln(&b, line)
		fmt.Fprint(&b, strings.Repeat(" ", runewidth.StringWidth(safeSlice(line, 0, e.start.Column))))
		width := max(1, runewidth.StringWidth(safeSlice(line, e.start.Column, e.end.Column)))
		red.Fprint(&b, strings.Repeat("~", width))
	} else {
		for i := e.start.Line; i <= e.end.Line && i-1 < len(lines); i++ {
			fmt.Fprintln(&b, lines[i-1])
		}
	}
	return b.String()
}

func safeSlice(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start > end {
		return ""
	}
	return s[start:end]
}

// Summary renders the spec-canonical single-line diagnostic form:
// "[line N] <lexeme> Runtime Error: <message>". Lexeme is omitted (along
// with its trailing space) when empty, e.g. for resolver errors that aren't
// attached to a single token.
func (e *Error) Summary(kind string) string {
	if e.Lexeme == "" {
		return fmt.Sprintf("[line %d] %s: %s", e.Line, kind, e.msg)
	}
	return fmt.Sprintf("[line %d] %s %s: %s", e.Line, e.Lexeme, kind, e.msg)
}

// Errors accumulates *Error values produced during a single pass (e.g.
// scanning a whole file, or parsing each top-level declaration) so that
// every error in that pass can be reported together.
type Errors []*Error

// Add appends a new *Error built from the given range and message.
func (e *Errors) Add(start, end token.Position, format string, args ...any) {
	*e = append(*e, New(start, end, format, args...))
}

// AddFromToken appends a new *Error describing a problem with tok.
func (e *Errors) AddFromToken(tok token.Token, format string, args ...any) {
	*e = append(*e, NewFromToken(tok, format, args...))
}

// Err orders the accumulated errors by source position and joins them into
// a single error, or returns nil if there are none.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	sorted := slices.Clone(e)
	slices.SortFunc(sorted, func(a, b *Error) int {
		if a.start.Line != b.start.Line {
			return a.start.Line - b.start.Line
		}
		return a.start.Column - b.start.Column
	})
	errs := make([]error, len(sorted))
	for i, err := range sorted {
		errs[i] = err
	}
	return errors.Join(errs...)
}
