package interpreter

import (
	"fmt"
	"strconv"

	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/token"
)

// Value is the runtime value sum type: Nil, Bool, Number, String, a
// Callable (function, method, class or native), or an *Instance.
type Value interface {
	String() string
	typeName() string
}

// unaryOperand is implemented by values which define their own behaviour
// for a unary operator (currently only Number, for unary minus; unary bang
// is type-independent and handled directly by the interpreter).
type unaryOperand interface {
	unaryOp(op token.Token) (Value, bool)
}

// binaryOperand is implemented by values which define their own behaviour
// for a binary arithmetic/comparison operator. == and != are type-
// independent and handled directly by the interpreter.
type binaryOperand interface {
	binaryOp(op token.Token, right Value) (Value, bool)
}

// Nil is Lox's nil value.
type Nil struct{}

func (Nil) String() string   { return "nil" }
func (Nil) typeName() string { return "nil" }

// Bool is Lox's boolean value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) typeName() string { return "bool" }

// Number is Lox's only numeric type: an IEEE-754 double.
type Number float64

func (n Number) String() string {
	// Canonical Lox numbers print without a trailing .0 when integer-valued.
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}
func (Number) typeName() string { return "number" }

func (n Number) unaryOp(op token.Token) (Value, bool) {
	if op.Type == token.Minus {
		return -n, true
	}
	return nil, false
}

func (n Number) binaryOp(op token.Token, right Value) (Value, bool) {
	r, ok := right.(Number)
	if !ok {
		return nil, false
	}
	switch op.Type {
	case token.Plus:
		return n + r, true
	case token.Minus:
		return n - r, true
	case token.Star:
		return n * r, true
	case token.Slash:
		return n / r, true
	case token.Greater:
		return Bool(n > r), true
	case token.GreaterEqual:
		return Bool(n >= r), true
	case token.Less:
		return Bool(n < r), true
	case token.LessEqual:
		return Bool(n <= r), true
	default:
		return nil, false
	}
}

// String is Lox's string type.
type String string

func (s String) String() string   { return string(s) }
func (String) typeName() string   { return "string" }

func (s String) binaryOp(op token.Token, right Value) (Value, bool) {
	r, ok := right.(String)
	if !ok {
		return nil, false
	}
	switch op.Type {
	case token.Plus:
		return s + r, true
	default:
		return nil, false
	}
}

// valuesEqual implements Lox's == semantics: nil equals only nil, numbers
// and strings compare by value, and values of different types are never
// equal.
func valuesEqual(a, b Value) bool {
	switch a := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		other, ok := b.(Bool)
		return ok && a == other
	case Number:
		other, ok := b.(Number)
		return ok && a == other
	case String:
		other, ok := b.(String)
		return ok && a == other
	default:
		return a == b // reference identity for callables and instances
	}
}

// isTruthy implements Lox's truthiness: nil and false are falsey, every
// other value (including 0 and "") is truthy.
func isTruthy(v Value) bool {
	switch v := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// Callable is implemented by every value that can appear as the callee of
// a Call expression: user functions, bound methods, classes and natives.
type Callable interface {
	Value
	Arity() int
	Call(interp *Interpreter, args []Value) Value
}

// NativeFunction wraps a Go function as a callable Lox value.
type NativeFunction struct {
	Name string
	Fn   func(args []Value) Value
	Ar   int
}

func (n *NativeFunction) String() string   { return "<native fn " + n.Name + ">" }
func (*NativeFunction) typeName() string   { return "function" }
func (n *NativeFunction) Arity() int       { return n.Ar }
func (n *NativeFunction) Call(_ *Interpreter, args []Value) Value {
	return n.Fn(args)
}

// Function is a user-defined Lox function or method: it owns the AST of its
// body, the environment captured at its declaration site (its closure), and
// whether it's a class initializer.
type Function struct {
	decl          *ast.Function
	closure       *environment
	isInitializer bool
}

func newFunction(decl *ast.Function, closure *environment, isInitializer bool) *Function {
	return &Function{decl: decl, closure: closure, isInitializer: isInitializer}
}

func (f *Function) String() string { return "<fn " + f.decl.Name.Lexeme + ">" }
func (*Function) typeName() string { return "function" }
func (f *Function) Arity() int     { return len(f.decl.Params) }

// bind returns a new Function whose closure extends f's closure with a
// fresh scope binding "this" to instance; this is how a method looked up
// via Get becomes a bound method.
func (f *Function) bind(instance *Instance) *Function {
	env := newEnvironment(f.closure)
	env.define("this", instance)
	return newFunction(f.decl, env, f.isInitializer)
}

func (f *Function) Call(interp *Interpreter, args []Value) Value {
	env := newEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.define(param.Lexeme, args[i])
	}

	result := interp.execBlock(f.decl.Body, env)

	if f.isInitializer {
		return f.closure.getAt(0, token.Token{Lexeme: "this"})
	}
	if ret, ok := result.(stmtReturn); ok {
		return ret.value
	}
	return Nil{}
}

// Class is a Lox class: a name, an optional superclass, and its own (not
// inherited) methods. Calling a class constructs a new Instance.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func newClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

func (c *Class) String() string { return c.Name }
func (*Class) typeName() string { return "class" }

// findMethod looks up name on this class, walking the superclass chain.
func (c *Class) findMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.findMethod(name)
	}
	return nil, false
}

// Arity equals init's arity, or 0 if the class has no initializer.
func (c *Class) Arity() int {
	if init, ok := c.findMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(interp *Interpreter, args []Value) Value {
	instance := &Instance{class: c, fields: map[string]Value{}}
	if init, ok := c.findMethod("init"); ok {
		init.bind(instance).Call(interp, args)
	}
	return instance
}

// Instance is a runtime object: a back-reference to its class plus its own
// per-instance field bindings.
type Instance struct {
	class  *Class
	fields map[string]Value
}

func (i *Instance) String() string { return i.class.Name + " instance" }
func (*Instance) typeName() string { return "instance" }

// get implements property access: fields shadow methods, and a method found
// on the class (or an ancestor) is returned bound to this instance.
func (i *Instance) get(name token.Token) Value {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v
	}
	if m, ok := i.class.findMethod(name.Lexeme); ok {
		return m.bind(i)
	}
	panic(newRuntimeError(name, "Undefined property '%s'.", name.Lexeme))
}

func (i *Instance) set(name token.Token, value Value) {
	i.fields[name.Lexeme] = value
}

var (
	_ fmt.Stringer  = Nil{}
	_ Callable      = (*NativeFunction)(nil)
	_ Callable      = (*Function)(nil)
	_ Callable      = (*Class)(nil)
	_ unaryOperand  = Number(0)
	_ binaryOperand = Number(0)
	_ binaryOperand = String("")
)
