package interpreter

import "github.com/loxlang/golox/token"

// environment is one node in the lexical scope chain: a mapping of names to
// values, plus a reference to the enclosing environment (nil at
// the global root).
type environment struct {
	parent *environment
	values map[string]Value
}

func newEnvironment(parent *environment) *environment {
	return &environment{parent: parent, values: map[string]Value{}}
}

// define binds name to value in this environment, overwriting any existing
// binding for it in this (and only this) scope.
func (e *environment) define(name string, value Value) {
	e.values[name] = value
}

// get looks up name by walking the chain outward from this environment
// (dynamic lookup mode), used for identifiers the resolver could not
// statically bind to a scope (assumed global).
func (e *environment) get(tok token.Token) Value {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[tok.Lexeme]; ok {
			return v
		}
	}
	panic(newRuntimeError(tok, "Undefined variable %s.", tok.Lexeme))
}

// assign walks the chain outward from this environment looking for an
// existing binding of tok's name and overwrites it. It is a runtime error
// to assign to a name that was never declared.
func (e *environment) assign(tok token.Token, value Value) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[tok.Lexeme]; ok {
			env.values[tok.Lexeme] = value
			return
		}
	}
	panic(newRuntimeError(tok, "Undefined variable %s.", tok.Lexeme))
}

// ancestor jumps exactly depth enclosing environments outward without
// searching, as recorded by the resolver.
func (e *environment) ancestor(depth int) *environment {
	env := e
	for range depth {
		env = env.parent
	}
	return env
}

// getAt reads a variable known (from resolution) to live exactly depth
// scopes up the chain: it jumps straight there with no further search,
// unlike get's dynamic walk.
func (e *environment) getAt(depth int, tok token.Token) Value {
	env := e.ancestor(depth)
	if v, ok := env.values[tok.Lexeme]; ok {
		return v
	}
	panic(newRuntimeError(tok, "Undefined variable %s.", tok.Lexeme))
}

// assignAt writes a variable known (from resolution) to live exactly depth
// scopes up the chain, with no further search.
func (e *environment) assignAt(depth int, tok token.Token, value Value) {
	env := e.ancestor(depth)
	if _, ok := env.values[tok.Lexeme]; !ok {
		panic(newRuntimeError(tok, "Undefined variable %s.", tok.Lexeme))
	}
	env.values[tok.Lexeme] = value
}
