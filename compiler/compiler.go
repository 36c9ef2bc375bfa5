// Package compiler turns source text into a self-contained JavaScript
// program. The pipeline is lex, parse, resolve, generate; Run executes
// the generated program in-process on goja with the configured print
// callback bound.
package compiler

import (
	"fmt"
	"io"

	"github.com/dop251/goja"

	"github.com/ankitr/N-lang/ast"
	"github.com/ankitr/N-lang/lexer"
	"github.com/ankitr/N-lang/parser"
	"github.com/ankitr/N-lang/resolver"
)

// Options configures a compilation.
type Options struct {
	// Print is the name of the host print callback referenced by the
	// generated program. Defaults to "print".
	Print string
	// Ambiguity selects how the parser treats ambiguous constructs.
	Ambiguity parser.AmbiguityPolicy
}

// Result holds the output of a compilation.
type Result struct {
	// JS is the generated program.
	JS      string
	Program *ast.Program
	Info    *resolver.Info
	// Ambiguities lists constructs that admitted more than one parse.
	// Only populated under parser.Report; the generated program follows
	// the first candidate of each.
	Ambiguities []parser.Ambiguity
}

// Parse lexes and parses source text.
func Parse(src string, opts Options) (*parser.Result, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, fmt.Errorf("lexing: %w", err)
	}
	res, err := parser.Parse(toks, parser.Options{Ambiguity: opts.Ambiguity})
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	return res, nil
}

// ToJS generates the JavaScript program for an already-resolved parse.
func ToJS(prog *ast.Program, info *resolver.Info, opts Options) (string, error) {
	js, err := generate(prog, info, opts.Print)
	if err != nil {
		return "", fmt.Errorf("code generation: %w", err)
	}
	return js, nil
}

// Compile runs the full pipeline on source text.
func Compile(src string, opts Options) (*Result, error) {
	res, err := Parse(src, opts)
	if err != nil {
		return nil, err
	}
	info, err := resolver.Resolve(res.Program)
	if err != nil {
		return nil, fmt.Errorf("resolving: %w", err)
	}
	js, err := ToJS(res.Program, info, opts)
	if err != nil {
		return nil, err
	}
	return &Result{
		JS:          js,
		Program:     res.Program,
		Info:        info,
		Ambiguities: res.Ambiguities,
	}, nil
}

// Run compiles source text and executes it. Each print instruction
// writes one line to out.
func Run(src string, opts Options, out io.Writer) error {
	result, err := Compile(src, opts)
	if err != nil {
		return err
	}
	return RunJS(result.JS, opts.Print, out)
}

// RunJS executes an already-generated program on a fresh goja VM.
func RunJS(js, printName string, out io.Writer) error {
	if printName == "" {
		printName = "print"
	}
	vm := goja.New()
	err := vm.Set(printName, func(call goja.FunctionCall) goja.Value {
		fmt.Fprintln(out, call.Argument(0).String())
		return goja.Undefined()
	})
	if err != nil {
		return fmt.Errorf("binding %s: %w", printName, err)
	}
	if _, err := vm.RunString(js); err != nil {
		return fmt.Errorf("running generated program: %w", err)
	}
	return nil
}
