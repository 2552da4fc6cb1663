// Package parser implements a recursive-descent parser with precedence
// climbing which turns a token stream into an *ast.Program.
package parser

import (
	"errors"

	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/loxerror"
	"github.com/loxlang/golox/scanner"
	"github.com/loxlang/golox/token"
)

const maxArgs = 255

// parseError unwinds the current declaration when a syntax error is hit; it
// is recovered by parseDeclarationRecovering, which calls synchronize to
// resume parsing at the next statement boundary. It carries no payload: the error itself has already been
// recorded in p.errs by the time it's thrown.
type parseError struct{}

// Parse scans src and parses it into an *ast.Program. If any scan or parse
// errors were encountered, they are returned as a single joined error and
// the returned program is nil.
func Parse(src string) (*ast.Program, error) {
	tokens, scanErr := scanner.ScanTokens(src)
	p := &parser{tokens: tokens}
	program := p.parseProgram()
	var errs []error
	if scanErr != nil {
		errs = append(errs, scanErr)
	}
	if err := p.errs.Err(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return program, nil
}

type parser struct {
	tokens  []token.Token
	current int
	errs    loxerror.Errors
}

func (p *parser) parseProgram() (program *ast.Program) {
	program = &ast.Program{}
	for !p.isAtEnd() {
		stmt, ok := p.parseDeclarationRecovering()
		if ok {
			program.Stmts = append(program.Stmts, stmt)
		}
	}
	return program
}

// parseDeclarationRecovering parses one declaration, recovering via
// panic-mode synchronization if a parse error occurs partway through it.
func (p *parser) parseDeclarationRecovering() (stmt ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isParseError := r.(parseError); !isParseError {
				panic(r)
			}
			p.synchronize()
			ok = false
		}
	}()
	return p.parseDeclaration(), true
}

func (p *parser) parseDeclaration() ast.Stmt {
	switch {
	case p.match(token.Class):
		return p.parseClassDecl()
	case p.match(token.Fun):
		return p.parseFunDecl("function")
	case p.match(token.Var):
		return p.parseVarDecl()
	default:
		return p.parseStatement()
	}
}

func (p *parser) parseClassDecl() ast.Stmt {
	keyword := p.previous()
	name := p.consume(token.Identifier, "expect class name")

	var superclass *ast.Variable
	if p.match(token.Less) {
		superclassName := p.consume(token.Identifier, "expect superclass name")
		superclass = &ast.Variable{Name: superclassName}
	}

	p.consume(token.LeftBrace, "expect '{' before class body")
	var methods []*ast.Function
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		methods = append(methods, p.parseFunDecl("method").(*ast.Function))
	}
	rightBrace := p.consume(token.RightBrace, "expect '}' after class body")

	return &ast.Class{Keyword: keyword, Name: name, Superclass: superclass, Methods: methods, RightBrace: rightBrace}
}

func (p *parser) parseFunDecl(kind string) ast.Stmt {
	keyword := p.previous()
	name := p.consume(token.Identifier, "expect "+kind+" name")
	p.consume(token.LeftParen, "expect '(' after "+kind+" name")
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.reportError(p.peek(), "can't have more than %d parameters", maxArgs)
			}
			params = append(params, p.consume(token.Identifier, "expect parameter name"))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "expect ')' after parameters")
	p.consume(token.LeftBrace, "expect '{' before "+kind+" body")
	body := p.parseBlock()
	return &ast.Function{Keyword: keyword, Name: name, Params: params, Body: body}
}

func (p *parser) parseVarDecl() ast.Stmt {
	keyword := p.previous()
	name := p.consume(token.Identifier, "expect variable name")
	var initialiser ast.Expr
	if p.match(token.Equal) {
		initialiser = p.parseExpression()
	}
	p.consume(token.Semicolon, "expect ';' after variable declaration")
	return &ast.Var{Keyword: keyword, Name: name, Initialiser: initialiser}
}

func (p *parser) parseStatement() ast.Stmt {
	switch {
	case p.match(token.Print):
		return p.parsePrintStmt()
	case p.match(token.Return):
		return p.parseReturnStmt()
	case p.match(token.If):
		return p.parseIfStmt()
	case p.match(token.While):
		return p.parseWhileStmt()
	case p.match(token.For):
		return p.parseForStmt()
	case p.match(token.LeftBrace):
		return &ast.Block{LeftBrace: p.previous(), Stmts: p.parseBlock()}
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parsePrintStmt() ast.Stmt {
	keyword := p.previous()
	expr := p.parseExpression()
	p.consume(token.Semicolon, "expect ';' after value")
	return &ast.Print{Keyword: keyword, Expr: expr}
}

func (p *parser) parseReturnStmt() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.parseExpression()
	}
	p.consume(token.Semicolon, "expect ';' after return value")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *parser) parseIfStmt() ast.Stmt {
	keyword := p.previous()
	p.consume(token.LeftParen, "expect '(' after 'if'")
	condition := p.parseExpression()
	p.consume(token.RightParen, "expect ')' after if condition")
	then := p.parseStatement()
	var elseStmt ast.Stmt
	if p.match(token.Else) {
		elseStmt = p.parseStatement()
	}
	return &ast.If{Keyword: keyword, Condition: condition, Then: then, Else: elseStmt}
}

func (p *parser) parseWhileStmt() ast.Stmt {
	keyword := p.previous()
	p.consume(token.LeftParen, "expect '(' after 'while'")
	condition := p.parseExpression()
	p.consume(token.RightParen, "expect ')' after while condition")
	body := p.parseStatement()
	return &ast.While{Keyword: keyword, Condition: condition, Body: body}
}

// parseForStmt desugars for (init; cond; incr) body into
// { init; while (cond ?? true) { body; incr; } }, always wrapping the
// while's body in a Block per the invariant in ast.While.
func (p *parser) parseForStmt() ast.Stmt {
	keyword := p.previous()
	p.consume(token.LeftParen, "expect '(' after 'for'")

	var initialiser ast.Stmt
	switch {
	case p.match(token.Semicolon):
		// no initialiser
	case p.match(token.Var):
		initialiser = p.parseVarDecl()
	default:
		initialiser = p.parseExprStmt()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.parseExpression()
	}
	semicolon := p.consume(token.Semicolon, "expect ';' after loop condition")

	var update ast.Expr
	if !p.check(token.RightParen) {
		update = p.parseExpression()
	}
	p.consume(token.RightParen, "expect ')' after for clauses")

	body := p.parseStatement()

	loopBody := []ast.Stmt{body}
	if update != nil {
		loopBody = append(loopBody, &ast.Expression{Expr: update, Semicolon: semicolon})
	}
	if condition == nil {
		condition = &ast.Literal{Tok: token.Token{Type: token.True, Lexeme: "true", Literal: true, Line: keyword.Line}}
	}
	loop := &ast.While{Keyword: keyword, Condition: condition, Body: &ast.Block{LeftBrace: keyword, Stmts: loopBody}}

	if initialiser == nil {
		return loop
	}
	return &ast.Block{LeftBrace: keyword, Stmts: []ast.Stmt{initialiser, loop}}
}

func (p *parser) parseBlock() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if stmt, ok := p.parseDeclarationRecovering(); ok {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RightBrace, "expect '}' after block")
	return stmts
}

func (p *parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpression()
	semicolon := p.consume(token.Semicolon, "expect ';' after expression")
	return &ast.Expression{Expr: expr, Semicolon: semicolon}
}

// Expression grammar, precedence climbing lowest to highest:
// assignment, logic_or, logic_and, equality, comparison, addition,
// multiplication, unary, call, primary.

func (p *parser) parseExpression() ast.Expr {
	return p.parseAssignment()
}

func (p *parser) parseAssignment() ast.Expr {
	expr := p.parseOr()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.parseAssignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.reportError(equals, "invalid assignment target")
			return expr
		}
	}

	return expr
}

func (p *parser) parseOr() ast.Expr {
	expr := p.parseAnd()
	for p.match(token.Or) {
		op := p.previous()
		right := p.parseAnd()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseAnd() ast.Expr {
	expr := p.parseEquality()
	for p.match(token.And) {
		op := p.previous()
		right := p.parseEquality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseEquality() ast.Expr {
	expr := p.parseComparison()
	for p.match(token.BangEqual, token.EqualEqual) {
		op := p.previous()
		right := p.parseComparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseComparison() ast.Expr {
	expr := p.parseAddition()
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		right := p.parseAddition()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseAddition() ast.Expr {
	expr := p.parseMultiplication()
	for p.match(token.Minus, token.Plus) {
		op := p.previous()
		right := p.parseMultiplication()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseMultiplication() ast.Expr {
	expr := p.parseUnary()
	for p.match(token.Slash, token.Star) {
		op := p.previous()
		right := p.parseUnary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseUnary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		operand := p.parseUnary()
		return &ast.Unary{Op: op, Operand: operand}
	}
	return p.parseCall()
}

func (p *parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "expect property name after '.'")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.reportError(p.peek(), "can't have more than %d arguments", maxArgs)
			}
			args = append(args, p.parseExpression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	closingParen := p.consume(token.RightParen, "expect ')' after arguments")
	return &ast.Call{Callee: callee, ClosingParen: closingParen, Args: args}
}

func (p *parser) parsePrimary() ast.Expr {
	switch {
	case p.match(token.False):
		tok := p.previous()
		tok.Literal = false
		return &ast.Literal{Tok: tok}
	case p.match(token.True):
		tok := p.previous()
		tok.Literal = true
		return &ast.Literal{Tok: tok}
	case p.match(token.Nil):
		return &ast.Literal{Tok: p.previous()}
	case p.match(token.Number, token.String):
		return &ast.Literal{Tok: p.previous()}
	case p.match(token.This):
		return &ast.This{Keyword: p.previous()}
	case p.match(token.Super):
		keyword := p.previous()
		p.consume(token.Dot, "expect '.' after 'super'")
		method := p.consume(token.Identifier, "expect superclass method name")
		return &ast.Super{Keyword: keyword, Method: method}
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LeftParen):
		leftParen := p.previous()
		expr := p.parseExpression()
		p.consume(token.RightParen, "expect ')' after expression")
		return &ast.Grouping{LeftParen: leftParen, Expr: expr}
	default:
		p.reportError(p.peek(), "expect expression")
		panic(parseError{})
	}
}

// synchronize discards tokens until it finds a likely statement boundary,
// so that parsing can resume at the next declaration after a parse error.
func (p *parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.peek().Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

// --- token stream helpers ---

func (p *parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *parser) consume(t token.Type, msg string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.reportError(p.peek(), msg)
	panic(parseError{})
}

func (p *parser) reportError(tok token.Token, format string, args ...any) {
	if tok.Type == token.EOF {
		p.errs.AddFromToken(tok, "at end: "+format, args...)
		return
	}
	p.errs.AddFromToken(tok, format, args...)
}
