package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ankitr/N-lang/compiler"
	"github.com/ankitr/N-lang/interp"
	"github.com/ankitr/N-lang/lexer"
	"github.com/ankitr/N-lang/parser"
	"github.com/ankitr/N-lang/resolver"
	"github.com/ankitr/N-lang/token"
)

func init() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		color.NoColor = true
	}
}

var (
	errLabel  = color.New(color.FgRed, color.Bold)
	arrowText = color.New(color.FgCyan)
	fileText  = color.New(color.FgBlue)
	gutter    = color.New(color.FgCyan)
	caret     = color.New(color.FgRed)
)

// renderError prints a source excerpt with a caret under the offending
// position when the error carries one, then returns a short error for
// the CLI exit path.
func renderError(filename, src string, err error) error {
	pos, ok := errorPosition(err)
	if !ok {
		return err
	}
	errLabel.Fprint(os.Stderr, "Error")
	fmt.Fprintf(os.Stderr, ": %s\n", errorMessage(err))
	arrowText.Fprint(os.Stderr, "  --> ")
	fileText.Fprintf(os.Stderr, "%s:%d:%d\n", filename, pos.Line, pos.Column)

	lines := strings.Split(src, "\n")
	if pos.Line >= 1 && pos.Line <= len(lines) {
		line := lines[pos.Line-1]
		num := fmt.Sprintf("%4d", pos.Line)
		gutter.Fprintf(os.Stderr, "%s | ", num)
		fmt.Fprintln(os.Stderr, line)
		pad := strings.Repeat(" ", len(num)+3+pos.Column-1)
		fmt.Fprint(os.Stderr, pad)
		caret.Fprintln(os.Stderr, "^")
	}
	return fmt.Errorf("%s:%d:%d: %s", filename, pos.Line, pos.Column, errorMessage(err))
}

// errorMessage strips the leading position prefix our error types
// include, since the excerpt already shows it.
func errorMessage(err error) string {
	pos, ok := errorPosition(err)
	if !ok {
		return err.Error()
	}
	msg := err.Error()
	prefix := fmt.Sprintf("%s: ", pos)
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[:i] + msg[i+len(prefix):]
	}
	return msg
}

func errorPosition(err error) (token.Position, bool) {
	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		return lexErr.Pos, true
	}
	var untermStr *lexer.UnterminatedError
	if errors.As(err, &untermStr) {
		return untermStr.Pos, true
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Pos, true
	}
	var untermBlock *parser.UnterminatedBlockError
	if errors.As(err, &untermBlock) {
		return untermBlock.Pos, true
	}
	var ambErr *parser.AmbiguityError
	if errors.As(err, &ambErr) {
		return ambErr.Pos, true
	}
	var semErr *resolver.SemanticError
	if errors.As(err, &semErr) {
		return semErr.Pos, true
	}
	var genErr *compiler.CodeGenError
	if errors.As(err, &genErr) {
		return genErr.Pos, true
	}
	var runErr *interp.RuntimeError
	if errors.As(err, &runErr) {
		return runErr.Pos, true
	}
	return token.Position{}, false
}
