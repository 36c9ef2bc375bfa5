package lexer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitr/N-lang/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, err := Tokenize(src)
	require.NoError(t, err)
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeDeclare(t *testing.T) {
	assert.Equal(t, []token.Kind{
		token.Var, token.Name, token.Colon, token.Name,
		token.Assign, token.Number, token.Add, token.Number, token.EOF,
	}, kinds(t, "var x:int = 1 + 2"))
}

func TestKeywordsAndBooleans(t *testing.T) {
	assert.Equal(t, []token.Kind{
		token.Print, token.Boolean, token.Newline,
		token.If, token.Boolean, token.LBrace, token.Return, token.Number, token.RBrace,
		token.EOF,
	}, kinds(t, "print true\nif false { return 1 }"))
}

func TestOperators(t *testing.T) {
	assert.Equal(t, []token.Kind{
		token.Or, token.And, token.Eq, token.Assign, token.Ge, token.Le,
		token.Neq, token.NeqQuirk, token.Mod, token.Pow, token.Tilde, token.Bang,
		token.Arrow, token.EOF,
	}, kinds(t, "|| && == = >= <= != /= % ^ ~ ! ->"))
}

func TestFloorDivAfterOperand(t *testing.T) {
	// After an operand '//' is the floor division operator.
	assert.Equal(t, []token.Kind{
		token.Print, token.Number, token.FloorDiv, token.Number, token.EOF,
	}, kinds(t, "print 7 // 2"))

	assert.Equal(t, []token.Kind{
		token.Print, token.LParen, token.Name, token.RParen,
		token.FloorDiv, token.Number, token.EOF,
	}, kinds(t, "print (x) // 2"))
}

func TestCommentAtLineStart(t *testing.T) {
	assert.Equal(t, []token.Kind{
		token.Print, token.Number, token.EOF,
	}, kinds(t, "// a comment\nprint 1"))
}

func TestCommentAfterOperandLine(t *testing.T) {
	// A full-line comment between instructions is a comment even when
	// the previous line ended in an operand.
	assert.Equal(t, []token.Kind{
		token.Var, token.Name, token.Assign, token.Number, token.Newline,
		token.Print, token.Name, token.EOF,
	}, kinds(t, "var x = 1\n// note\nprint x"))
}

func TestNewlineRunsCollapse(t *testing.T) {
	assert.Equal(t, []token.Kind{
		token.Name, token.Newline, token.Name, token.EOF,
	}, kinds(t, "a\n\n\n\nb"))
}

func TestStringEscapes(t *testing.T) {
	toks, err := Tokenize(`print "a\n\t\"b\\"`)
	require.NoError(t, err)
	require.Equal(t, token.String, toks[1].Kind)
	assert.Equal(t, "a\n\t\"b\\", toks[1].Lexeme)
}

func TestNumbers(t *testing.T) {
	toks, err := Tokenize("1 12.5 0.25")
	require.NoError(t, err)
	assert.Equal(t, "1", toks[0].Lexeme)
	assert.Equal(t, "12.5", toks[1].Lexeme)
	assert.Equal(t, "0.25", toks[2].Lexeme)
}

func TestUnaryMinusNotPartOfNumber(t *testing.T) {
	assert.Equal(t, []token.Kind{
		token.Sub, token.Number, token.EOF,
	}, kinds(t, "-5"))
}

func TestPositions(t *testing.T) {
	toks, err := Tokenize("var x = 1\nprint x")
	require.NoError(t, err)
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 5, Offset: 4}, toks[1].Pos)
	// print on line 2
	assert.Equal(t, 2, toks[5].Pos.Line)
	assert.Equal(t, 1, toks[5].Pos.Column)
}

func TestUnterminatedString(t *testing.T) {
	_, err := Tokenize(`print "abc`)
	var uerr *UnterminatedError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, 7, uerr.Pos.Column)
}

func TestUnterminatedStringAtNewline(t *testing.T) {
	_, err := Tokenize("print \"abc\nprint 1")
	var uerr *UnterminatedError
	assert.ErrorAs(t, err, &uerr)
}

func TestLexError(t *testing.T) {
	_, err := Tokenize("print @")
	var lerr *LexError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, byte('@'), lerr.Char)
	assert.Equal(t, 7, lerr.Pos.Column)
}

func TestBareAmpersand(t *testing.T) {
	_, err := Tokenize("a & b")
	var lerr *LexError
	assert.ErrorAs(t, err, &lerr)
}
