// Package interpreter executes a resolved Lox AST: it evaluates
// expressions to runtime values and runs statements for their side
// effects, walking the tree directly with no intermediate bytecode.
package interpreter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/loxerror"
	"github.com/loxlang/golox/resolver"
	"github.com/loxlang/golox/token"
)

// runtimeError is what every runtime failure panics with; it's recovered at
// the Interpret call boundary and turned back into a plain error. It is
// never meant to propagate out of Interpret.
type runtimeError struct {
	err *loxerror.Error
}

func newRuntimeError(tok token.Token, format string, args ...any) runtimeError {
	return runtimeError{err: loxerror.NewFromToken(tok, format, args...)}
}

func (r runtimeError) Error() string { return r.err.Error() }

// Summary renders the spec-canonical one-line form of a runtime error,
// e.g. "[line 3] x Runtime Error: Undefined variable x.".
func (r runtimeError) Summary() string { return r.err.Summary("Runtime Error") }

// IsRuntimeError reports whether err (as returned by Interpret) happened
// during execution rather than during parsing or resolution. Callers use
// this to pick an exit code: static errors and runtime errors are reported
// differently by the book's reference behaviour.
func IsRuntimeError(err error) bool {
	_, ok := err.(runtimeError)
	return ok
}

// Summary renders err's spec-canonical one-line form if err is a runtime
// error produced by Interpret, and err.Error() otherwise.
func Summary(err error) string {
	if rtErr, ok := err.(runtimeError); ok {
		return rtErr.Summary()
	}
	return err.Error()
}

// Interpreter holds the global environment, the current environment, and
// the locals table produced by the resolver. It can interpret multiple
// programs in sequence (REPL mode) with state preserved between calls.
type Interpreter struct {
	globals *environment
	env     *environment
	locals  resolver.Locals

	// Out is where print statements and expression-statement echoes (REPL
	// mode) are written. Defaults to os.Stdout.
	Out io.Writer
	// replMode, when true, prints the value of each top-level expression
	// statement, matching a REPL's "show me what that evaluated to" UX.
	replMode bool
}

// Option configures an Interpreter constructed by New.
type Option func(*Interpreter)

// REPLMode causes the interpreter to print the value of every top-level
// expression statement, not just print statements.
func REPLMode() Option {
	return func(i *Interpreter) { i.replMode = true }
}

// New constructs an Interpreter with the native clock() function seeded
// into its global environment.
func New(opts ...Option) *Interpreter {
	globals := newEnvironment(nil)
	globals.define("clock", &NativeFunction{
		Name: "clock",
		Ar:   0,
		Fn: func([]Value) Value {
			return Number(float64(time.Now().UnixNano()) / float64(time.Millisecond))
		},
	})

	i := &Interpreter{
		globals: globals,
		env:     globals,
		locals:  resolver.Locals{},
		Out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret resolves and runs a parsed program, merging its local
// declaration distances into the interpreter's locals table. A static
// resolution error prevents the program from running at all; a runtime
// error aborts the program but does not panic out of Interpret, so a REPL
// can safely call Interpret again for the next line.
func (i *Interpreter) Interpret(program *ast.Program) (err error) {
	locals, err := resolver.Resolve(program)
	if err != nil {
		return err
	}
	for expr, depth := range locals {
		i.locals[expr] = depth
	}

	defer func() {
		if r := recover(); r != nil {
			if rtErr, ok := r.(runtimeError); ok {
				err = rtErr
				return
			}
			panic(r)
		}
	}()

	for _, stmt := range program.Stmts {
		i.execStmt(stmt)
	}
	return nil
}

// stmtResult is the in-band control-flow signal a statement execution
// produces: either "nothing special happened" or "a return statement was
// hit", carrying its value. Unlike an error, it's expected, ordinary
// control flow and is threaded through normal return values rather than
// panic/recover.
type stmtResult interface {
	isStmtResult()
}

type stmtNone struct{}

func (stmtNone) isStmtResult() {}

type stmtReturn struct{ value Value }

func (stmtReturn) isStmtResult() {}

func (i *Interpreter) execStmt(stmt ast.Stmt) stmtResult {
	switch s := stmt.(type) {
	case *ast.Expression:
		value := i.evalExpr(s.Expr)
		if i.replMode {
			fmt.Fprintln(i.Out, value.String())
		}
	case *ast.Print:
		fmt.Fprintln(i.Out, i.evalExpr(s.Expr).String())
	case *ast.Var:
		var value Value = Nil{}
		if s.Initialiser != nil {
			value = i.evalExpr(s.Initialiser)
		}
		i.env.define(s.Name.Lexeme, value)
	case *ast.Block:
		return i.execBlock(s.Stmts, newEnvironment(i.env))
	case *ast.If:
		if isTruthy(i.evalExpr(s.Condition)) {
			return i.execStmt(s.Then)
		} else if s.Else != nil {
			return i.execStmt(s.Else)
		}
	case *ast.While:
		for isTruthy(i.evalExpr(s.Condition)) {
			if result := i.execStmt(s.Body); !isNone(result) {
				return result
			}
		}
	case *ast.Function:
		i.env.define(s.Name.Lexeme, newFunction(s, i.env, false))
	case *ast.Return:
		var value Value = Nil{}
		if s.Value != nil {
			value = i.evalExpr(s.Value)
		}
		return stmtReturn{value: value}
	case *ast.Class:
		i.execClassDecl(s)
	default:
		panic(fmt.Sprintf("interpreter: unexpected statement type %T", s))
	}
	return stmtNone{}
}

func isNone(r stmtResult) bool {
	_, ok := r.(stmtNone)
	return ok
}

// execBlock runs stmts in env, a scope nested under the environment active
// when the block started. The caller's current environment is always
// restored afterwards, whether the block finishes normally, returns, or a
// runtime error panics through it.
func (i *Interpreter) execBlock(stmts []ast.Stmt, env *environment) stmtResult {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range stmts {
		if result := i.execStmt(stmt); !isNone(result) {
			return result
		}
	}
	return stmtNone{}
}

// execClassDecl implements the class-statement evaluation state machine
// from the book: the class name is bound (initially nil) before its
// methods are built so that methods can refer to the class recursively;
// when there's a superclass, a short-lived environment binding "super" is
// spliced in around method construction then popped again before the final
// assignment.
func (i *Interpreter) execClassDecl(stmt *ast.Class) {
	var superclass *Class
	if stmt.Superclass != nil {
		superVal := i.evalVariableExpr(stmt.Superclass)
		var ok bool
		superclass, ok = superVal.(*Class)
		if !ok {
			panic(newRuntimeError(stmt.Superclass.Name, "Superclass must be a class."))
		}
	}

	i.env.define(stmt.Name.Lexeme, Nil{})

	methodEnv := i.env
	if superclass != nil {
		methodEnv = newEnvironment(i.env)
		methodEnv.define("super", superclass)
	}

	methods := make(map[string]*Function, len(stmt.Methods))
	for _, methodDecl := range stmt.Methods {
		methods[methodDecl.Name.Lexeme] = newFunction(methodDecl, methodEnv, methodDecl.Name.Lexeme == "init")
	}

	class := newClass(stmt.Name.Lexeme, superclass, methods)
	i.env.assign(stmt.Name, class)
}

func (i *Interpreter) evalExpr(expr ast.Expr) Value {
	switch e := expr.(type) {
	case *ast.Literal:
		return i.evalLiteral(e)
	case *ast.Grouping:
		return i.evalExpr(e.Expr)
	case *ast.Unary:
		return i.evalUnary(e)
	case *ast.Binary:
		return i.evalBinary(e)
	case *ast.Logical:
		return i.evalLogical(e)
	case *ast.Variable:
		return i.evalVariableExpr(e)
	case *ast.Assign:
		return i.evalAssign(e)
	case *ast.Call:
		return i.evalCall(e)
	case *ast.Get:
		return i.evalGet(e)
	case *ast.Set:
		return i.evalSet(e)
	case *ast.This:
		return i.lookUpVariable(e.Keyword, e)
	case *ast.Super:
		return i.evalSuper(e)
	default:
		panic(fmt.Sprintf("interpreter: unexpected expression type %T", e))
	}
}

func (i *Interpreter) evalLiteral(e *ast.Literal) Value {
	switch v := e.Tok.Literal.(type) {
	case nil:
		return Nil{}
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case string:
		return String(v)
	default:
		panic(fmt.Sprintf("interpreter: unexpected literal value %T", v))
	}
}

func (i *Interpreter) evalUnary(e *ast.Unary) Value {
	right := i.evalExpr(e.Operand)
	if e.Op.Type == token.Bang {
		return Bool(!isTruthy(right))
	}
	if operand, ok := right.(unaryOperand); ok {
		if result, ok := operand.unaryOp(e.Op); ok {
			return result
		}
	}
	panic(newRuntimeError(e.Op, "Operand must be a number."))
}

func (i *Interpreter) evalBinary(e *ast.Binary) Value {
	left := i.evalExpr(e.Left)
	right := i.evalExpr(e.Right)

	switch e.Op.Type {
	case token.EqualEqual:
		return Bool(valuesEqual(left, right))
	case token.BangEqual:
		return Bool(!valuesEqual(left, right))
	case token.Plus:
		// + is the one operator whose valid operand types differ by pair
		// (number+number or string+string), so it gets its own check ahead
		// of the generic binaryOperand dispatch below.
		if result, ok := tryBinaryOp(left, e.Op, right); ok {
			return result
		}
		panic(newRuntimeError(e.Op, "Operands must both be a number or a string."))
	default:
		if result, ok := tryBinaryOp(left, e.Op, right); ok {
			return result
		}
		panic(newRuntimeError(e.Op, "Both operands must be a number."))
	}
}

func tryBinaryOp(left Value, op token.Token, right Value) (Value, bool) {
	operand, ok := left.(binaryOperand)
	if !ok {
		return nil, false
	}
	return operand.binaryOp(op, right)
}

func (i *Interpreter) evalLogical(e *ast.Logical) Value {
	left := i.evalExpr(e.Left)
	if e.Op.Type == token.Or {
		if isTruthy(left) {
			return left
		}
	} else { // And
		if !isTruthy(left) {
			return left
		}
	}
	return i.evalExpr(e.Right)
}

func (i *Interpreter) evalVariableExpr(e *ast.Variable) Value {
	return i.lookUpVariable(e.Name, e)
}

// lookUpVariable implements the spec's variable-resolution rule: if the
// resolver recorded a scope depth for this expression, jump straight there;
// otherwise the name is assumed global.
func (i *Interpreter) lookUpVariable(tok token.Token, expr ast.Expr) Value {
	if depth, ok := i.locals[expr]; ok {
		return i.env.getAt(depth, tok)
	}
	return i.globals.get(tok)
}

func (i *Interpreter) evalAssign(e *ast.Assign) Value {
	value := i.evalExpr(e.Value)
	if depth, ok := i.locals[ast.Expr(e)]; ok {
		i.env.assignAt(depth, e.Name, value)
	} else {
		i.globals.assign(e.Name, value)
	}
	return value
}

func (i *Interpreter) evalCall(e *ast.Call) Value {
	callee := i.evalExpr(e.Callee)

	args := make([]Value, len(e.Args))
	for idx, arg := range e.Args {
		args[idx] = i.evalExpr(arg)
	}

	callable, ok := callee.(Callable)
	if !ok {
		panic(newRuntimeError(e.ClosingParen, "Can only call functions and classes."))
	}
	if len(args) != callable.Arity() {
		panic(newRuntimeError(e.ClosingParen, "Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}
	return callable.Call(i, args)
}

func (i *Interpreter) evalGet(e *ast.Get) Value {
	object := i.evalExpr(e.Object)
	instance, ok := object.(*Instance)
	if !ok {
		panic(newRuntimeError(e.Name, "Only instances have properties."))
	}
	return instance.get(e.Name)
}

func (i *Interpreter) evalSet(e *ast.Set) Value {
	object := i.evalExpr(e.Object)
	instance, ok := object.(*Instance)
	if !ok {
		panic(newRuntimeError(e.Name, "Only instances have fields."))
	}
	value := i.evalExpr(e.Value)
	instance.set(e.Name, value)
	return value
}

// evalSuper implements super.method: super is resolved at its recorded
// depth, this at one scope shallower (super's defining scope always
// immediately encloses this's), and the method is looked up on the
// superclass and bound to this.
func (i *Interpreter) evalSuper(e *ast.Super) Value {
	depth := i.locals[ast.Expr(e)]
	superclass := i.env.getAt(depth, e.Keyword).(*Class)
	thisTok := token.Token{Lexeme: "this"}
	instance := i.env.getAt(depth-1, thisTok).(*Instance)

	method, ok := superclass.findMethod(e.Method.Lexeme)
	if !ok {
		panic(newRuntimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme))
	}
	return method.bind(instance)
}
