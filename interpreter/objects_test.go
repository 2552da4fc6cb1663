package interpreter

import (
	"testing"

	"github.com/loxlang/golox/token"
)

func TestNumberStringNoTrailingZero(t *testing.T) {
	tests := map[Number]string{
		0:    "0",
		1:    "1",
		-1:   "-1",
		1.5:  "1.5",
		100:  "100",
		0.25: "0.25",
	}
	for n, want := range tests {
		if got := n.String(); got != want {
			t.Errorf("Number(%v).String() = %q, want %q", float64(n), got, want)
		}
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{Nil{}, Nil{}, true},
		{Nil{}, Bool(false), false},
		{Number(1), Number(1), true},
		{Number(1), Number(2), false},
		{String("a"), String("a"), true},
		{String("a"), Number(1), false},
		{Bool(true), Bool(true), true},
	}
	for _, tt := range tests {
		if got := valuesEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("valuesEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Nil{}, false},
		{Bool(false), false},
		{Bool(true), true},
		{Number(0), true},
		{String(""), true},
	}
	for _, tt := range tests {
		if got := isTruthy(tt.v); got != tt.want {
			t.Errorf("isTruthy(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestClassFindMethodWalksSuperclassChain(t *testing.T) {
	base := newClass("Base", nil, map[string]*Function{
		"greet": newFunction(nil, nil, false),
	})
	derived := newClass("Derived", base, map[string]*Function{})

	method, ok := derived.findMethod("greet")
	if !ok || method == nil {
		t.Fatal("findMethod: want to find greet via superclass chain")
	}
	if _, ok := derived.findMethod("missing"); ok {
		t.Error("findMethod: want false for a method that doesn't exist anywhere in the chain")
	}
}

func TestInstanceGetUndefinedPropertyPanics(t *testing.T) {
	instance := &Instance{class: newClass("A", nil, map[string]*Function{}), fields: map[string]Value{}}
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("get: want panic for undefined property, got none")
		}
	}()
	instance.get(token.Token{Lexeme: "missing"})
}
