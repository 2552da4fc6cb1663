package interpreter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/loxlang/golox/interpreter"
	"github.com/loxlang/golox/parser"
)

func run(t *testing.T, src string) (stdout string, err error) {
	t.Helper()
	program, parseErr := parser.Parse(src)
	if parseErr != nil {
		t.Fatalf("Parse(%q): %v", src, parseErr)
	}
	var buf bytes.Buffer
	interp := interpreter.New()
	interp.Out = &buf
	err = interp.Interpret(program)
	return buf.String(), err
}

func TestInterpretArithmetic(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "7\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "foobar\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretNumberPrintsWithoutTrailingZero(t *testing.T) {
	out, err := run(t, `print 6 / 2;`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "3\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretVariablesAndAssignment(t *testing.T) {
	out, err := run(t, `
		var a = 1;
		a = a + 1;
		print a;
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "2\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretBlockScoping(t *testing.T) {
	out, err := run(t, `
		var a = "outer";
		{
			var a = "inner";
			print a;
		}
		print a;
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "inner\nouter\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretIfElse(t *testing.T) {
	out, err := run(t, `
		if (1 < 2) print "yes"; else print "no";
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "yes\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretWhileLoop(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "0\n1\n2\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretForLoop(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) print i;
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "0\n1\n2\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretLogicalShortCircuit(t *testing.T) {
	out, err := run(t, `
		fun sideEffect() { print "called"; return true; }
		print false and sideEffect();
		print true or sideEffect();
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "false\ntrue\n"; out != want {
		t.Errorf("stdout = %q, want %q (sideEffect should never run)", out, want)
	}
}

func TestInterpretFunctionsAndClosures(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "1\n2\n3\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretRecursion(t *testing.T) {
	out, err := run(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "55\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretClassesAndInstances(t *testing.T) {
	out, err := run(t, `
		class Point {
			init(x, y) {
				this.x = x;
				this.y = y;
			}
			sum() {
				return this.x + this.y;
			}
		}
		var p = Point(1, 2);
		print p.sum();
		p.x = 10;
		print p.sum();
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "3\n12\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretInheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
		class Animal {
			speak() {
				print "...";
			}
		}
		class Dog < Animal {
			speak() {
				super.speak();
				print "Woof";
			}
		}
		Dog().speak();
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "...\nWoof\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretEqualityAcrossTypes(t *testing.T) {
	out, err := run(t, `
		print 1 == "1";
		print nil == nil;
		print nil == false;
		print 1 == 1.0;
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "false\ntrue\nfalse\ntrue\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretTruthiness(t *testing.T) {
	out, err := run(t, `
		if (0) print "zero is truthy"; else print "zero is falsey";
		if ("") print "empty string is truthy"; else print "empty string is falsey";
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "zero is truthy\nempty string is truthy\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretRuntimeErrorMessages(t *testing.T) {
	// These messages are canonical: spec.md's worked scenarios match them
	// verbatim (capitalised, trailing period), so wording drift here is a
	// spec violation, not cosmetic.
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"undefined variable", `print undefined;`, "Undefined variable undefined."},
		{"calling a non-callable", `var x = 1; x();`, "Can only call functions and classes."},
		{"wrong arity", `fun f(a, b) { return a + b; } f(1);`, "Expected 2 arguments but got 1."},
		{"adding number and string", `print 1 + "a";`, "Operands must both be a number or a string."},
		{"subtracting non-numbers", `print "a" - "b";`, "Both operands must be a number."},
		{"negating a non-number", `print -"a";`, "Operand must be a number."},
		{"undefined property", `class A {} A().missing;`, "Undefined property 'missing'."},
		{"setting a field on a non-instance", `var x = 1; x.y = 2;`, "Only instances have fields."},
		{"superclass must be a class", `var NotAClass = 1; class A < NotAClass {}`, "Superclass must be a class."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.src)
			if err == nil {
				t.Fatalf("Interpret(%q): want runtime error, got nil", tt.src)
			}
			if !interpreter.IsRuntimeError(err) {
				t.Errorf("IsRuntimeError = false, want true for %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestInterpretRuntimeErrorSummaryFormat(t *testing.T) {
	_, err := run(t, `print undefined;`)
	summary := interpreter.Summary(err)
	want := "[line 1] undefined Runtime Error: Undefined variable undefined."
	if summary != want {
		t.Errorf("Summary = %q, want %q", summary, want)
	}
}

func TestInterpretInitReturnsBoundInstanceRegardlessOfReturnForm(t *testing.T) {
	out, err := run(t, `
		class A {
			init(x) {
				this.x = x;
				return;
			}
		}
		var a = A(5);
		print a.x;
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "5\n"; out != want {
		t.Errorf("stdout = %q, want %q (bare return in init should still yield the instance)", out, want)
	}
}

func TestInterpretSuperInitChaining(t *testing.T) {
	out, err := run(t, `
		class A {
			init(x) {
				this.x = x;
			}
		}
		class B < A {
			init(x, y) {
				super.init(x);
				this.y = y;
			}
		}
		var b = B(1, 2);
		print b.x;
		print b.y;
	`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "1\n2\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretNativeClock(t *testing.T) {
	out, err := run(t, `print clock() >= 0;`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if want := "true\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInterpretStaticErrorIsNotRuntimeError(t *testing.T) {
	program, err := parser.Parse(`return 1;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	interp := interpreter.New()
	err = interp.Interpret(program)
	if err == nil {
		t.Fatal("Interpret: want resolution error for top-level return, got nil")
	}
	if interpreter.IsRuntimeError(err) {
		t.Errorf("IsRuntimeError = true, want false for a static resolution error")
	}
}
