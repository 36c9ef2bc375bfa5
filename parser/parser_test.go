package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitr/N-lang/ast"
	"github.com/ankitr/N-lang/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.NoError(t, err)
	res, err := Parse(toks, Options{})
	require.NoError(t, err)
	return res.Program
}

func parseErr(t *testing.T, src string, opts Options) error {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.NoError(t, err)
	_, err = Parse(toks, opts)
	require.Error(t, err)
	return err
}

// exprDump parses `print <src>` and dumps the printed expression.
func exprDump(t *testing.T, src string) string {
	t.Helper()
	prog := parse(t, "print "+src)
	require.Len(t, prog.Instrs, 1)
	return ast.Dump(prog.Instrs[0].(*ast.Print).Value)
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"2 + 3 * 4", "(+ 2 (* 3 4))"},
		{"(2 + 3) * 4", "(* (paren (+ 2 3)) 4)"},
		{"2 ^ 3 ^ 2", "(^ 2 (^ 3 2))"},
		{"-2 ^ 2", "(- (^ 2 2))"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"1 + 2 // 3", "(+ 1 (// 2 3))"},
		{"7 % 3 * 2", "(* (% 7 3) 2)"},
		{"~a || b", "(|| (~ a) b)"},
		{"a || b && c", "(|| a (&& b c))"},
		{"-x * y", "(* (- x) y)"},
		{"1 + 2 < 3 * 4", "(compare (+ 1 2) < (* 3 4))"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, exprDump(t, tt.src))
		})
	}
}

func TestCompareChain(t *testing.T) {
	assert.Equal(t, "(compare 1 < 2 <= 3)", exprDump(t, "1 < 2 <= 3"))
	assert.Equal(t, "(compare a = b /= c)", exprDump(t, "a = b /= c"))
	assert.Equal(t, "(compare x == y)", exprDump(t, "x == y"))
}

func TestSeparatorsEquivalent(t *testing.T) {
	semis := parse(t, "print 1; print 2; print 3")
	newlines := parse(t, "print 1\nprint 2\nprint 3")
	assert.Equal(t, ast.DumpProgram(semis), ast.DumpProgram(newlines))
}

func TestDeclare(t *testing.T) {
	prog := parse(t, "var x:int = 41 + 1")
	require.Len(t, prog.Instrs, 1)
	d := prog.Instrs[0].(*ast.Declare)
	assert.Equal(t, "x", d.Name.Name)
	assert.Equal(t, "int", d.Name.Type)
}

func TestDeclareFunction(t *testing.T) {
	prog := parse(t, "var double = [x:int] -> int { return x * 2 }")
	d := prog.Instrs[0].(*ast.Declare)
	fn, ok := d.Value.(*ast.FuncLit)
	require.True(t, ok)
	assert.Equal(t, "double", fn.Name)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "x", fn.Params[0].Name)
	assert.Equal(t, "int", fn.Params[0].Type)
	assert.Equal(t, "int", fn.ReturnType)
	require.Len(t, fn.Body.Instrs, 1)
}

func TestAnonymousFunction(t *testing.T) {
	prog := parse(t, "print [a:int b:int] -> int { return a + b }")
	fn := prog.Instrs[0].(*ast.Print).Value.(*ast.FuncLit)
	assert.Empty(t, fn.Name)
	assert.Len(t, fn.Params, 2)
}

func TestFor(t *testing.T) {
	prog := parse(t, "for i:int 3 { print i }")
	f := prog.Instrs[0].(*ast.For)
	assert.Equal(t, "i", f.Var.Name)
	assert.Equal(t, "3", f.Count.(*ast.NumberLit).Value)
	assert.Len(t, f.Body.Instrs, 1)
}

func TestBracelessBlock(t *testing.T) {
	prog := parse(t, "for i:int 3 print i")
	f := prog.Instrs[0].(*ast.For)
	require.Len(t, f.Body.Instrs, 1)
	_, ok := f.Body.Instrs[0].(*ast.Print)
	assert.True(t, ok)
}

func TestIfElse(t *testing.T) {
	prog := parse(t, "if x < 3 { print 1 } else { print 2 }")
	ie := prog.Instrs[0].(*ast.IfElse)
	assert.Len(t, ie.Then.Instrs, 1)
	assert.Len(t, ie.Else.Instrs, 1)
}

func TestIfElseAcrossNewline(t *testing.T) {
	prog := parse(t, "if x {\n\tprint 1\n}\nelse {\n\tprint 2\n}")
	_, ok := prog.Instrs[0].(*ast.IfElse)
	assert.True(t, ok)
}

func TestCallback(t *testing.T) {
	prog := parse(t, "<f 1 \"two\" x>")
	cb := prog.Instrs[0].(*ast.Callback)
	assert.Equal(t, "f", cb.Callee.(*ast.NameRef).Name)
	assert.Len(t, cb.Args, 3)
}

func TestCallbackNoArgs(t *testing.T) {
	assert.Equal(t, "(call f)", exprDump(t, "<f>"))
}

func TestCallbackInExpression(t *testing.T) {
	assert.Equal(t, "(+ (call f 1) 2)", exprDump(t, "<f 1> + 2"))
}

func TestAnonymousCallback(t *testing.T) {
	prog := parse(t, "<[x:int] { print x } 5>")
	cb := prog.Instrs[0].(*ast.Callback)
	_, ok := cb.Callee.(*ast.FuncLit)
	assert.True(t, ok)
	assert.Len(t, cb.Args, 1)
}

func TestImportedCommand(t *testing.T) {
	prog := parse(t, "<str.intInBase10 42>")
	c := prog.Instrs[0].(*ast.Command)
	assert.Equal(t, "str", c.Module)
	assert.Equal(t, "intInBase10", c.Command)
	assert.Len(t, c.Args, 1)
}

func TestInvocationVersusComparison(t *testing.T) {
	// '<' in operand position opens an invocation; after an operand it
	// is the less-than operator.
	assert.Equal(t, "(compare a < b)", exprDump(t, "a < b"))
	assert.Equal(t, "(compare a < (call f))", exprDump(t, "a < <f>"))
}

func TestIfElseExpression(t *testing.T) {
	prog := parse(t, "var x = if c { 1 } else { 2 }")
	d := prog.Instrs[0].(*ast.Declare)
	ie, ok := d.Value.(*ast.IfElseExpr)
	require.True(t, ok)
	assert.Equal(t, "c", ie.Cond.(*ast.NameRef).Name)
}

func TestDanglingElseFails(t *testing.T) {
	err := parseErr(t, "if a if b print 1 else print 2", Options{Ambiguity: Fail})
	var amb *AmbiguityError
	require.ErrorAs(t, err, &amb)
	assert.Contains(t, amb.Detail, "2 interpretations")
}

func TestDanglingElseReport(t *testing.T) {
	toks, err := lexer.Tokenize("if a if b print 1 else print 2")
	require.NoError(t, err)
	res, err := Parse(toks, Options{Ambiguity: Report})
	require.NoError(t, err)
	require.True(t, res.Ambiguous())
	require.Len(t, res.Ambiguities, 1)
	cands := res.Ambiguities[0].Candidates
	require.Len(t, cands, 2)
	// Greedy parse first: else bound to the inner if.
	assert.Equal(t,
		"(if a (block (ifelse b (block (print 1)) (block (print 2)))))",
		ast.Dump(cands[0]))
	assert.Equal(t,
		"(ifelse a (block (if b (block (print 1)))) (block (print 2)))",
		ast.Dump(cands[1]))
	// The program itself carries the greedy parse.
	assert.Equal(t, ast.Dump(cands[0]), ast.Dump(res.Program.Instrs[0]))
}

func TestNoAmbiguityWithBraces(t *testing.T) {
	toks, err := lexer.Tokenize("if a { if b print 1 } else print 2")
	require.NoError(t, err)
	res, err := Parse(toks, Options{Ambiguity: Fail})
	require.NoError(t, err)
	assert.False(t, res.Ambiguous())
}

func TestParseErrorExpected(t *testing.T) {
	err := parseErr(t, "var = 3", Options{})
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "expected name")
}

func TestUnterminatedBlock(t *testing.T) {
	err := parseErr(t, "if a {\nprint 1\n", Options{})
	var uerr *UnterminatedBlockError
	require.ErrorAs(t, err, &uerr)
	// Position is the opening brace.
	assert.Equal(t, 1, uerr.Pos.Line)
	assert.Equal(t, 6, uerr.Pos.Column)
}

func TestInvocationUnclosedAtNewline(t *testing.T) {
	err := parseErr(t, "<f 1\nprint 2>", Options{})
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestTrailingSeparators(t *testing.T) {
	prog := parse(t, "\n\nprint 1\n\n;\n")
	assert.Len(t, prog.Instrs, 1)
}
