package ast

import (
	"fmt"
	"strings"
)

// PrintNode writes an indented s-expression representation of node to stdout.
// It is the debug-dump seam that an external pretty-printer tool would use;
// the core pipeline never calls it itself.
func PrintNode(node Node) {
	fmt.Println(Sprint(node))
}

// Sprint formats node as an s-expression with each child on its own line,
// indented two spaces per nesting level: 1 + 2 becomes "(+\n  1\n  2)" and
// var x; becomes "(var\n  x)". A node with no children stays on one line,
// e.g. "(return)".
func Sprint(node Node) string {
	return sprint(node, 0)
}

func sprint(n Node, depth int) string {
	switch n := n.(type) {
	case *Literal:
		if n.Tok.Literal == nil {
			return "nil"
		}
		return n.Tok.Lexeme
	case *Grouping:
		return sexpr(depth, "group", sprint(n.Expr, depth+1))
	case *Unary:
		return sexpr(depth, n.Op.Lexeme, sprint(n.Operand, depth+1))
	case *Binary:
		return sexpr(depth, n.Op.Lexeme, sprint(n.Left, depth+1), sprint(n.Right, depth+1))
	case *Logical:
		return sexpr(depth, n.Op.Lexeme, sprint(n.Left, depth+1), sprint(n.Right, depth+1))
	case *Variable:
		return n.Name.Lexeme
	case *Assign:
		return sexpr(depth, "=", n.Name.Lexeme, sprint(n.Value, depth+1))
	case *Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = sprint(a, depth+1)
		}
		return sexpr(depth, "call", append([]string{sprint(n.Callee, depth+1)}, args...)...)
	case *Get:
		return sexpr(depth, ".", sprint(n.Object, depth+1), n.Name.Lexeme)
	case *Set:
		return sexpr(depth, "set", sprint(n.Object, depth+1), n.Name.Lexeme, sprint(n.Value, depth+1))
	case *This:
		return "this"
	case *Super:
		return sexpr(depth, "super", n.Method.Lexeme)

	case *Expression:
		return sexpr(depth, "expr", sprint(n.Expr, depth+1))
	case *Print:
		return sexpr(depth, "print", sprint(n.Expr, depth+1))
	case *Var:
		if n.Initialiser == nil {
			return sexpr(depth, "var", n.Name.Lexeme)
		}
		return sexpr(depth, "var", n.Name.Lexeme, sprint(n.Initialiser, depth+1))
	case *Block:
		children := make([]string, len(n.Stmts))
		for i, s := range n.Stmts {
			children[i] = sprint(s, depth+1)
		}
		return sexpr(depth, "block", children...)
	case *If:
		if n.Else == nil {
			return sexpr(depth, "if", sprint(n.Condition, depth+1), sprint(n.Then, depth+1))
		}
		return sexpr(depth, "if", sprint(n.Condition, depth+1), sprint(n.Then, depth+1), sprint(n.Else, depth+1))
	case *While:
		return sexpr(depth, "while", sprint(n.Condition, depth+1), sprint(n.Body, depth+1))
	case *Function:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Lexeme
		}
		body := make([]string, len(n.Body))
		for i, s := range n.Body {
			body[i] = sprint(s, depth+1)
		}
		return sexpr(depth, "fun", append([]string{n.Name.Lexeme + "(" + strings.Join(params, " ") + ")"}, body...)...)
	case *Return:
		if n.Value == nil {
			return "(return)"
		}
		return sexpr(depth, "return", sprint(n.Value, depth+1))
	case *Class:
		head := n.Name.Lexeme
		if n.Superclass != nil {
			head += " < " + n.Superclass.Name.Lexeme
		}
		methods := make([]string, len(n.Methods))
		for i, m := range n.Methods {
			methods[i] = sprint(m, depth+1)
		}
		return sexpr(depth, "class", append([]string{head}, methods...)...)
	case *Program:
		stmts := make([]string, len(n.Stmts))
		for i, s := range n.Stmts {
			stmts[i] = sprint(s, depth+1)
		}
		return sexpr(depth, "program", stmts...)
	default:
		panic(fmt.Sprintf("ast.Sprint: unexpected node type %T", n))
	}
}

func sexpr(depth int, head string, children ...string) string {
	if len(children) == 0 {
		return "(" + head + ")"
	}
	var b strings.Builder
	fmt.Fprint(&b, "(", head)
	indent := strings.Repeat("  ", depth+1)
	for _, c := range children {
		fmt.Fprint(&b, "\n", indent, c)
	}
	fmt.Fprint(&b, ")")
	return b.String()
}
