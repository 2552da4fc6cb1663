// Command golox is the entry point for the Lox interpreter: run a script
// file, evaluate a one-off program passed with -c, or drop into a REPL.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"

	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/interpreter"
	"github.com/loxlang/golox/parser"
)

var (
	cmd      = flag.String("c", "", "Program passed in as a string")
	printAST = flag.Bool("p", false, "Print the parsed AST instead of running the program")
)

// Exit codes follow the convention used by the book's reference
// implementations: 2 is a command-line usage error, 65 is a static error
// (scan, parse or resolve failure), 70 is a runtime error, 0 is success.
const (
	exitUsage   = 2
	exitStatic  = 65
	exitRuntime = 70
)

// nolint:revive
func Usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: golox [options] [script]\n\n")
	fmt.Fprintf(flag.CommandLine.Output(), "Options:\n")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)

	flag.Usage = Usage
	flag.Parse()

	if *cmd != "" {
		exitCode := run(*cmd, interpreter.New())
		os.Exit(exitCode)
	}

	switch len(flag.Args()) {
	case 0:
		os.Exit(runREPL())
	case 1:
		os.Exit(runFile(flag.Arg(0)))
	default:
		flag.Usage()
		os.Exit(exitUsage)
	}
}

// run parses and interprets src under interp, reporting any error to
// stderr, and returns the exit code run should contribute.
func run(src string, interp *interpreter.Interpreter) int {
	program, err := parser.Parse(src)
	if *printAST {
		if program != nil {
			ast.PrintNode(program)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitStatic
		}
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitStatic
	}

	if err := interp.Interpret(program); err != nil {
		fmt.Fprintln(os.Stderr, interpreter.Summary(err))
		if interpreter.IsRuntimeError(err) {
			return exitRuntime
		}
		return exitStatic
	}
	return 0
}

func runREPL() int {
	cfg := &readline.Config{Prompt: ">>"}

	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = path.Join(homeDir, ".lox_history")
	} else {
		fmt.Fprintf(os.Stderr, "can't get current user's home directory (%s); command history will not be saved\n", err)
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		cfg.DisableAutoSaveHistory = true
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		log.Fatalf("running Lox REPL: %s", err)
	}
	defer rl.Close()

	fmt.Fprintln(os.Stderr, "Welcome to Lox!")

	interp := interpreter.New(interpreter.REPLMode())
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				break
			}
			log.Fatalf("unexpected error from readline: %s", err)
		}
		if strings.EqualFold(strings.TrimSpace(line), "quit") {
			break
		}
		// A REPL line's errors never end the session; only the exit code of
		// the final line would matter, and the book's jlox/clox reference
		// REPLs never actually exit non-zero for this, so we don't bother
		// tracking it across iterations.
		run(line, interp)
	}
	return 0
}

func runFile(name string) int {
	src, err := os.ReadFile(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	return run(string(src), interpreter.New())
}
