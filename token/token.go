// Package token defines the lexical tokens of the N language and the
// source positions attached to every token, AST node, and error.
package token

import "fmt"

// Position is a source location. Offset is the byte offset into the
// source text; Line and Column are 1-based.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical token. Tokens are immutable once produced.
type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Lexeme)
}

// Kind classifies a token.
type Kind int

const (
	EOF Kind = iota

	// Literals and names
	Name
	Number
	String
	Boolean

	// Keywords
	Var
	Print
	For
	Import
	Return
	If
	Else

	// Operators
	Or       // ||
	And      // &&
	Eq       // ==
	Assign   // = (also equality inside expressions)
	Ge       // >=
	Le       // <=
	Lt       // <
	Gt       // >
	Neq      // !=
	NeqQuirk // /=
	Add      // +
	Sub      // -
	Mul      // *
	Div      // /
	FloorDiv // //
	Mod      // %
	Pow      // ^
	Tilde    // ~
	Bang     // !

	// Punctuation
	Semi   // ;
	Colon  // :
	Dot    // .
	Arrow  // ->
	LParen // (
	RParen // )
	LBrace // {
	RBrace // }
	LBrack // [
	RBrack // ]

	// Newline separates instructions like ';' does. The lexer keeps it
	// as a token instead of whitespace so the parser can treat both
	// separators uniformly.
	Newline
)

var kindNames = map[Kind]string{
	EOF:      "end of input",
	Name:     "name",
	Number:   "number",
	String:   "string",
	Boolean:  "boolean",
	Var:      "'var'",
	Print:    "'print'",
	For:      "'for'",
	Import:   "'import'",
	Return:   "'return'",
	If:       "'if'",
	Else:     "'else'",
	Or:       "'||'",
	And:      "'&&'",
	Eq:       "'=='",
	Assign:   "'='",
	Ge:       "'>='",
	Le:       "'<='",
	Lt:       "'<'",
	Gt:       "'>'",
	Neq:      "'!='",
	NeqQuirk: "'/='",
	Add:      "'+'",
	Sub:      "'-'",
	Mul:      "'*'",
	Div:      "'/'",
	FloorDiv: "'//'",
	Mod:      "'%'",
	Pow:      "'^'",
	Tilde:    "'~'",
	Bang:     "'!'",
	Semi:     "';'",
	Colon:    "':'",
	Dot:      "'.'",
	Arrow:    "'->'",
	LParen:   "'('",
	RParen:   "')'",
	LBrace:   "'{'",
	RBrace:   "'}'",
	LBrack:   "'['",
	RBrack:   "']'",
	Newline:  "newline",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"var":    Var,
	"print":  Print,
	"for":    For,
	"import": Import,
	"return": Return,
	"if":     If,
	"else":   Else,
}

// LookupName returns the keyword kind for an identifier, Boolean for
// "true"/"false", and Name otherwise.
func LookupName(lit string) Kind {
	if lit == "true" || lit == "false" {
		return Boolean
	}
	if k, ok := keywords[lit]; ok {
		return k
	}
	return Name
}
