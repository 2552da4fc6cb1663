// Package resolver implements the static scope-resolution pass: it walks
// the parsed AST without evaluating anything and annotates every variable,
// this, super and assignment reference with the number of enclosing lexical
// scopes between its use and its declaration.
package resolver

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/loxerror"
	"github.com/loxlang/golox/token"
)

// identState tracks whether a name has been declared and/or defined in a
// scope: false (declared) while its initialiser is being resolved, true
// (defined) once it's safe to read.
type identState bool

const (
	declared identState = false
	defined  identState = true
)

// scope maps names to their declaration state in one lexical block.
type scope map[string]identState

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

type funcType int

const (
	funcNone funcType = iota
	funcFunction
	funcInitializer
	funcMethod
)

// Locals maps each Variable/Assign/This/Super expression to the number of
// enclosing scopes between its use site and the scope in which its name was
// declared. An expression absent from the map refers to a global, or to a
// name that was never declared at all (left for the interpreter to reject
// at runtime).
type Locals map[ast.Expr]int

type resolver struct {
	scopes      *arraystack.Stack
	currentFunc funcType
	currentCls  classType
	locals      Locals
	errs        loxerror.Errors
}

// Resolve runs the resolution pass over program and returns the resulting
// locals table. If any static errors are detected (undefined self-reference
// in an initialiser, duplicate declaration in the same scope, return
// outside a function, return with a value inside an initializer, this
// outside a class, or a class declaring itself as its own superclass), they
// are returned as a single joined error and the returned table is nil.
func Resolve(program *ast.Program) (Locals, error) {
	r := &resolver{
		scopes: arraystack.New(),
		locals: Locals{},
	}
	for _, stmt := range program.Stmts {
		r.resolveStmt(stmt)
	}
	if err := r.errs.Err(); err != nil {
		return nil, err
	}
	return r.locals, nil
}

func (r *resolver) beginScope() {
	r.scopes.Push(scope{})
}

func (r *resolver) endScope() {
	r.scopes.Pop()
}

func (r *resolver) peekScope() (scope, bool) {
	v, ok := r.scopes.Peek()
	if !ok {
		return nil, false
	}
	return v.(scope), true
}

func (r *resolver) declare(name token.Token) {
	s, ok := r.peekScope()
	if !ok {
		return // global scope: nothing to track
	}
	if _, ok := s[name.Lexeme]; ok {
		r.errs.AddFromToken(name, "already a variable named %q in this scope", name.Lexeme)
		return
	}
	s[name.Lexeme] = declared
}

func (r *resolver) define(name token.Token) {
	s, ok := r.peekScope()
	if !ok {
		return
	}
	s[name.Lexeme] = defined
}

// resolveLocal walks the scope stack from innermost to outermost looking
// for name. If found at depth d scopes up, it records expr -> d in the
// locals table. If not found anywhere, the reference is assumed global and
// no entry is recorded.
func (r *resolver) resolveLocal(expr ast.Expr, name token.Token) {
	raw := r.scopes.Values() // innermost-first: arraystack returns LIFO order
	for i := 0; i < len(raw); i++ {
		if _, ok := raw[i].(scope)[name.Lexeme]; ok {
			r.locals[expr] = i
			return
		}
	}
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Expression:
		r.resolveExpr(s.Expr)
	case *ast.Print:
		r.resolveExpr(s.Expr)
	case *ast.Var:
		r.resolveVarDecl(s)
	case *ast.Block:
		r.beginScope()
		for _, inner := range s.Stmts {
			r.resolveStmt(inner)
		}
		r.endScope()
	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.While:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Params, s.Body, funcFunction)
	case *ast.Return:
		if r.currentFunc == funcNone {
			r.errs.AddFromToken(s.Keyword, "can't return from top-level code")
		}
		if s.Value != nil {
			if r.currentFunc == funcInitializer {
				r.errs.AddFromToken(s.Keyword, "can't return a value from an initializer")
			}
			r.resolveExpr(s.Value)
		}
	case *ast.Class:
		r.resolveClassDecl(s)
	default:
		panic(fmt.Sprintf("resolver: unexpected statement type %T", s))
	}
}

func (r *resolver) resolveVarDecl(stmt *ast.Var) {
	r.declare(stmt.Name)
	if stmt.Initialiser != nil {
		r.resolveExpr(stmt.Initialiser)
	}
	r.define(stmt.Name)
}

func (r *resolver) resolveFunction(params []token.Token, body []ast.Stmt, typ funcType) {
	enclosingFunc := r.currentFunc
	r.currentFunc = typ
	defer func() { r.currentFunc = enclosingFunc }()

	r.beginScope()
	defer r.endScope()
	for _, param := range params {
		r.declare(param)
		r.define(param)
	}
	for _, stmt := range body {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveClassDecl(stmt *ast.Class) {
	enclosingCls := r.currentCls
	r.currentCls = classClass
	defer func() { r.currentCls = enclosingCls }()

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Lexeme == stmt.Name.Lexeme {
			r.errs.AddFromToken(stmt.Superclass.Name, "a class can't inherit from itself")
		}
		r.currentCls = classSubclass
		r.resolveExpr(stmt.Superclass)

		r.beginScope()
		defer r.endScope()
		if s, ok := r.peekScope(); ok {
			s["super"] = defined
		}
	}

	r.beginScope()
	defer r.endScope()
	if s, ok := r.peekScope(); ok {
		s["this"] = defined
	}

	for _, method := range stmt.Methods {
		typ := funcMethod
		if method.Name.Lexeme == "init" {
			typ = funcInitializer
		}
		r.resolveFunction(method.Params, method.Body, typ)
	}
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Literal:
		// nothing to resolve
	case *ast.Grouping:
		r.resolveExpr(e.Expr)
	case *ast.Unary:
		r.resolveExpr(e.Operand)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Variable:
		if s, ok := r.peekScope(); ok {
			if state, declaredHere := s[e.Name.Lexeme]; declaredHere && state == declared {
				r.errs.AddFromToken(e.Name, "can't read local variable %q in its own initializer", e.Name.Lexeme)
				return
			}
		}
		r.resolveLocal(e, e.Name)
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.This:
		if r.currentCls == classNone {
			r.errs.AddFromToken(e.Keyword, "can't use 'this' outside of a class")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.Super:
		switch r.currentCls {
		case classNone:
			r.errs.AddFromToken(e.Keyword, "can't use 'super' outside of a class")
		case classClass:
			r.errs.AddFromToken(e.Keyword, "can't use 'super' in a class with no superclass")
		}
		r.resolveLocal(e, e.Keyword)
	default:
		panic(fmt.Sprintf("resolver: unexpected expression type %T", e))
	}
}
