// Package lexer implements a single-pass, no-backtracking lexer for N
// source text. Whitespace and line comments are discarded; newlines are
// kept as tokens because they separate instructions exactly like ';'.
package lexer

import (
	"fmt"
	"strings"

	"github.com/ankitr/N-lang/token"
)

// LexError reports a character that matches no token rule.
type LexError struct {
	Pos  token.Position
	Char byte
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: unexpected character %q", e.Pos, string(e.Char))
}

// UnterminatedError reports a string literal that never closes. Pos is
// the position of the opening quote, not end of input.
type UnterminatedError struct {
	Pos token.Position
}

func (e *UnterminatedError) Error() string {
	return fmt.Sprintf("%s: unterminated string literal", e.Pos)
}

// lexer holds the state for one tokenization run.
type lexer struct {
	input []byte

	// pos indexes the next byte to load into ch. After advance(),
	// ch == input[pos-1] and pos points one past it.
	pos  int
	line int
	col  int

	ch byte // current character; 0 past end

	// prev is the kind of the last emitted token. '//' is floor
	// division when prev can end an operand and a line comment
	// everywhere else, the same trick JS lexers use for regex
	// literals.
	prev token.Kind
}

// operandEnd reports whether a token of kind k can end an expression
// operand, making a binary operator valid right after it.
func operandEnd(k token.Kind) bool {
	switch k {
	case token.Number, token.String, token.Boolean, token.Name, token.RParen:
		return true
	}
	return false
}

// Tokenize converts source text into a token stream ending in an EOF
// token. It is purely computational and never blocks.
func Tokenize(src string) ([]token.Token, error) {
	l := &lexer{input: []byte(src), line: 1, col: 0}
	l.advance()

	var toks []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.prev = tok.Kind
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

func (l *lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	if l.pos >= len(l.input) {
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
	l.pos++
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// currentPos captures the position of ch. Call before consuming the
// first character of a token.
func (l *lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos - 1}
}

func (l *lexer) skipBlanks() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.advance()
		case l.ch == '/' && l.peek() == '/' && !operandEnd(l.prev):
			for l.ch != '\n' && l.ch != 0 {
				l.advance()
			}
		default:
			return
		}
	}
}

func mk(kind token.Kind, lexeme string, pos token.Position) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Pos: pos}
}

func (l *lexer) next() (token.Token, error) {
	l.skipBlanks()

	pos := l.currentPos()
	ch := l.ch

	if ch == 0 {
		return mk(token.EOF, "", pos), nil
	}

	l.advance() // consume ch; l.ch is now the character after it

	switch {
	case ch == '\n':
		// Collapse runs of blank lines into one separator. prev is
		// reset first so full-line comments inside the run are skipped
		// as comments rather than lexed as floor division.
		l.prev = token.Newline
		for {
			l.skipBlanks()
			if l.ch != '\n' {
				break
			}
			l.advance()
		}
		return mk(token.Newline, "\n", pos), nil

	case isNameStart(ch):
		lit := l.readName(ch)
		return mk(token.LookupName(lit), lit, pos), nil

	case isDigit(ch):
		return mk(token.Number, l.readNumber(ch), pos), nil

	case ch == '"':
		lit, err := l.readString(pos)
		if err != nil {
			return token.Token{}, err
		}
		return mk(token.String, lit, pos), nil

	case ch == '|':
		if l.ch == '|' {
			l.advance()
			return mk(token.Or, "||", pos), nil
		}
		return token.Token{}, &LexError{Pos: pos, Char: ch}

	case ch == '&':
		if l.ch == '&' {
			l.advance()
			return mk(token.And, "&&", pos), nil
		}
		return token.Token{}, &LexError{Pos: pos, Char: ch}

	case ch == '=':
		if l.ch == '=' {
			l.advance()
			return mk(token.Eq, "==", pos), nil
		}
		return mk(token.Assign, "=", pos), nil

	case ch == '>':
		if l.ch == '=' {
			l.advance()
			return mk(token.Ge, ">=", pos), nil
		}
		return mk(token.Gt, ">", pos), nil

	case ch == '<':
		if l.ch == '=' {
			l.advance()
			return mk(token.Le, "<=", pos), nil
		}
		return mk(token.Lt, "<", pos), nil

	case ch == '!':
		if l.ch == '=' {
			l.advance()
			return mk(token.Neq, "!=", pos), nil
		}
		return mk(token.Bang, "!", pos), nil

	case ch == '/':
		// A '//' that survives skipBlanks follows an operand, so it is
		// floor division rather than a comment.
		if l.ch == '/' {
			l.advance()
			return mk(token.FloorDiv, "//", pos), nil
		}
		if l.ch == '=' {
			l.advance()
			return mk(token.NeqQuirk, "/=", pos), nil
		}
		return mk(token.Div, "/", pos), nil

	case ch == '+':
		return mk(token.Add, "+", pos), nil

	case ch == '-':
		if l.ch == '>' {
			l.advance()
			return mk(token.Arrow, "->", pos), nil
		}
		return mk(token.Sub, "-", pos), nil

	case ch == '*':
		return mk(token.Mul, "*", pos), nil

	case ch == '%':
		return mk(token.Mod, "%", pos), nil

	case ch == '^':
		return mk(token.Pow, "^", pos), nil

	case ch == '~':
		return mk(token.Tilde, "~", pos), nil

	case ch == ';':
		return mk(token.Semi, ";", pos), nil

	case ch == ':':
		return mk(token.Colon, ":", pos), nil

	case ch == '.':
		return mk(token.Dot, ".", pos), nil

	case ch == '(':
		return mk(token.LParen, "(", pos), nil
	case ch == ')':
		return mk(token.RParen, ")", pos), nil
	case ch == '{':
		return mk(token.LBrace, "{", pos), nil
	case ch == '}':
		return mk(token.RBrace, "}", pos), nil
	case ch == '[':
		return mk(token.LBrack, "[", pos), nil
	case ch == ']':
		return mk(token.RBrack, "]", pos), nil
	}

	return token.Token{}, &LexError{Pos: pos, Char: ch}
}

// readName consumes the rest of an identifier whose first character was
// already consumed.
func (l *lexer) readName(first byte) string {
	var sb strings.Builder
	sb.WriteByte(first)
	for isNameStart(l.ch) || isDigit(l.ch) {
		sb.WriteByte(l.ch)
		l.advance()
	}
	return sb.String()
}

// readNumber consumes an unsigned numeric literal. The grammar has one
// numeric domain, so "12" and "12.5" both lex as Number; sign is always
// the unary minus operator.
func (l *lexer) readNumber(first byte) string {
	var sb strings.Builder
	sb.WriteByte(first)
	for isDigit(l.ch) {
		sb.WriteByte(l.ch)
		l.advance()
	}
	if l.ch == '.' && isDigit(l.peek()) {
		sb.WriteByte(l.ch)
		l.advance()
		for isDigit(l.ch) {
			sb.WriteByte(l.ch)
			l.advance()
		}
	}
	return sb.String()
}

// readString consumes a string body after the opening quote, processing
// escape sequences. The returned lexeme is the decoded content without
// quotes.
func (l *lexer) readString(open token.Position) (string, error) {
	var sb strings.Builder
	for {
		switch l.ch {
		case 0, '\n':
			return "", &UnterminatedError{Pos: open}
		case '"':
			l.advance()
			return sb.String(), nil
		case '\\':
			l.advance()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case 0:
				return "", &UnterminatedError{Pos: open}
			default:
				return "", &LexError{Pos: l.currentPos(), Char: l.ch}
			}
			l.advance()
		default:
			sb.WriteByte(l.ch)
			l.advance()
		}
	}
}

func isNameStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
