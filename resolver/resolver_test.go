package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitr/N-lang/ast"
	"github.com/ankitr/N-lang/lexer"
	"github.com/ankitr/N-lang/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.NoError(t, err)
	res, err := parser.Parse(toks, parser.Options{})
	require.NoError(t, err)
	return res.Program
}

func resolveErr(t *testing.T, src string) *SemanticError {
	t.Helper()
	_, err := Resolve(parse(t, src))
	require.Error(t, err)
	var serr *SemanticError
	require.ErrorAs(t, err, &serr)
	return serr
}

func TestResolveSimple(t *testing.T) {
	info, err := Resolve(parse(t, "var x = 1\nprint x"))
	require.NoError(t, err)
	require.NotEmpty(t, info.Scopes)
	assert.Equal(t, -1, info.Scopes[0].Parent)
	assert.Contains(t, info.Scopes[0].Names, "x")
}

func TestUndefinedName(t *testing.T) {
	serr := resolveErr(t, "print y")
	assert.Equal(t, UndefinedName, serr.Kind)
	assert.Equal(t, "y", serr.Name)
}

func TestSelfReferenceInInitializer(t *testing.T) {
	// The initializer resolves before the name binds.
	serr := resolveErr(t, "var x = x")
	assert.Equal(t, UndefinedName, serr.Kind)
}

func TestNamedFunctionRecursion(t *testing.T) {
	_, err := Resolve(parse(t, `var f = [n:int] -> int {
	if n < 1 { return 0 }
	return <f (n - 1)>
}`))
	assert.NoError(t, err)
}

func TestDuplicateDeclaration(t *testing.T) {
	serr := resolveErr(t, "var x = 1\nvar x = 2")
	assert.Equal(t, DuplicateDeclaration, serr.Kind)
	assert.Equal(t, "x", serr.Name)
}

func TestShadowingInInnerScope(t *testing.T) {
	_, err := Resolve(parse(t, "var x = 1\nif true { var x = 2\nprint x }"))
	assert.NoError(t, err)
}

func TestParamShadowedInBody(t *testing.T) {
	// Parameters share the function body's scope.
	serr := resolveErr(t, "var f = [x:int] { var x = 1\nreturn x }")
	assert.Equal(t, DuplicateDeclaration, serr.Kind)
}

func TestReturnOutsideFunction(t *testing.T) {
	serr := resolveErr(t, "return 1")
	assert.Equal(t, ReturnOutsideFunction, serr.Kind)
}

func TestReturnInsideFunction(t *testing.T) {
	_, err := Resolve(parse(t, "var f = [] { return 1 }"))
	assert.NoError(t, err)
}

func TestLoopVarScope(t *testing.T) {
	_, err := Resolve(parse(t, "for i:int 3 { print i }"))
	require.NoError(t, err)

	serr := resolveErr(t, "for i:int 3 { print i }\nprint i")
	assert.Equal(t, UndefinedName, serr.Kind)
	assert.Equal(t, "i", serr.Name)
}

func TestCaptures(t *testing.T) {
	prog := parse(t, `var base = 10
var a = 1
var f = [x:int] -> int {
	return x + base
}`)
	info, err := Resolve(prog)
	require.NoError(t, err)

	fn := prog.Instrs[2].(*ast.Declare).Value.(*ast.FuncLit)
	assert.Equal(t, []string{"base"}, info.Captures[fn])
}

func TestNestedCapturePropagates(t *testing.T) {
	prog := parse(t, `var outer = 1
var f = [] {
	var g = [] {
		return outer
	}
	return <g>
}`)
	info, err := Resolve(prog)
	require.NoError(t, err)

	f := prog.Instrs[1].(*ast.Declare).Value.(*ast.FuncLit)
	g := f.Body.Instrs[0].(*ast.Declare).Value.(*ast.FuncLit)
	assert.Equal(t, []string{"outer"}, info.Captures[g])
	// The name crosses both function boundaries, so the outer function
	// captures it too.
	assert.Equal(t, []string{"outer"}, info.Captures[f])
}

func TestParamIsNotACapture(t *testing.T) {
	prog := parse(t, "var f = [x:int] -> int { return x * x }")
	info, err := Resolve(prog)
	require.NoError(t, err)
	fn := prog.Instrs[0].(*ast.Declare).Value.(*ast.FuncLit)
	assert.Empty(t, info.Captures[fn])
}

func TestImportBindsModule(t *testing.T) {
	info, err := Resolve(parse(t, "import str\n<str.intInBase10 1>"))
	require.NoError(t, err)
	assert.Equal(t, []string{"str"}, info.Imports)
}

func TestCommandWithoutImport(t *testing.T) {
	serr := resolveErr(t, "<str.intInBase10 1>")
	assert.Equal(t, UndefinedName, serr.Kind)
	assert.Equal(t, "str", serr.Name)
}

func TestRefScopeRecorded(t *testing.T) {
	prog := parse(t, "var x = 1\nprint x")
	info, err := Resolve(prog)
	require.NoError(t, err)
	ref := prog.Instrs[1].(*ast.Print).Value.(*ast.NameRef)
	assert.Equal(t, 0, info.RefScope[ref])
}
