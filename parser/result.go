package parser

import (
	"fmt"
	"strings"

	"github.com/ankitr/N-lang/ast"
	"github.com/ankitr/N-lang/token"
)

// AmbiguityPolicy selects what happens when the grammar admits more
// than one parse for an input.
type AmbiguityPolicy int

const (
	// Fail makes an ambiguous parse return an *AmbiguityError.
	Fail AmbiguityPolicy = iota
	// Report makes an ambiguous parse return a Result carrying the
	// candidate subtrees instead of an AST.
	Report
)

// Options configures a parse run.
type Options struct {
	Ambiguity AmbiguityPolicy
}

// Ambiguity is one ambiguous region of the input with every candidate
// interpretation of it. Candidates are ordered deterministically:
// the greedy (innermost-attachment) parse first.
type Ambiguity struct {
	Pos        token.Position
	Candidates []ast.Instr
}

// Result is the outcome of a successful parse. Program always holds
// the greedy parse; under the Report policy Ambiguities additionally
// records every region that admitted another interpretation, with the
// greedy candidate first.
type Result struct {
	Program     *ast.Program
	Ambiguities []Ambiguity
}

// Ambiguous reports whether the input had multiple valid parses.
func (r *Result) Ambiguous() bool { return len(r.Ambiguities) > 0 }

// Report renders the ambiguity records as deterministic text, one
// candidate dump per line. Empty for unambiguous results.
func (r *Result) Report() string {
	var sb strings.Builder
	for _, amb := range r.Ambiguities {
		fmt.Fprintf(&sb, "ambiguous parse at %s: %d interpretations:\n", amb.Pos, len(amb.Candidates))
		for i, c := range amb.Candidates {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, ast.Dump(c))
		}
	}
	return sb.String()
}

// ParseError is a grammar violation: the offending token plus the set
// of productions that were expected at that point.
type ParseError struct {
	Pos      token.Position
	Got      token.Token
	Expected []string
}

func (e *ParseError) Error() string {
	switch len(e.Expected) {
	case 0:
		return fmt.Sprintf("%s: unexpected %s", e.Pos, e.Got)
	case 1:
		return fmt.Sprintf("%s: unexpected %s, expected %s", e.Pos, e.Got, e.Expected[0])
	default:
		return fmt.Sprintf("%s: unexpected %s, expected one of %s", e.Pos, e.Got, strings.Join(e.Expected, ", "))
	}
}

// UnterminatedBlockError reports a block that never closes. Pos is the
// opening brace, not end of input.
type UnterminatedBlockError struct {
	Pos token.Position
}

func (e *UnterminatedBlockError) Error() string {
	return fmt.Sprintf("%s: unterminated block", e.Pos)
}

// AmbiguityError is returned under the Fail policy when the input has
// multiple valid parses.
type AmbiguityError struct {
	Pos    token.Position
	Detail string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%s: ambiguous parse", e.Pos)
}
