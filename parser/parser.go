// Package parser turns the lexer's token stream into an AST. Statement
// forms use plain recursive descent; expressions go through an
// iterative precedence loop with an explicit operator stack (expr.go)
// so pathological operator chains cannot exhaust the call stack.
package parser

import (
	"github.com/ankitr/N-lang/ast"
	"github.com/ankitr/N-lang/token"
)

type parser struct {
	toks []token.Token
	i    int
	opts Options

	ambiguities []Ambiguity
}

// Parse consumes a token stream (as produced by lexer.Tokenize,
// terminated by an EOF token) and returns the parse result.
func Parse(toks []token.Token, opts Options) (*Result, error) {
	p := &parser{toks: toks, opts: opts}
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if len(p.ambiguities) > 0 && opts.Ambiguity == Fail {
		first := p.ambiguities[0]
		r := &Result{Program: prog, Ambiguities: p.ambiguities}
		return nil, &AmbiguityError{Pos: first.Pos, Detail: r.Report()}
	}
	return &Result{Program: prog, Ambiguities: p.ambiguities}, nil
}

func (p *parser) peek() token.Token { return p.toks[p.i] }

func (p *parser) at(k token.Kind) bool { return p.toks[p.i].Kind == k }

func (p *parser) next() token.Token {
	t := p.toks[p.i]
	if t.Kind != token.EOF {
		p.i++
	}
	return t
}

// skipSeps consumes any run of instruction separators.
func (p *parser) skipSeps() {
	for p.at(token.Newline) || p.at(token.Semi) {
		p.next()
	}
}

func (p *parser) errExpected(expected ...string) error {
	t := p.peek()
	return &ParseError{Pos: t.Pos, Got: t, Expected: expected}
}

func (p *parser) expect(k token.Kind) (token.Token, error) {
	if !p.at(k) {
		return token.Token{}, p.errExpected(k.String())
	}
	return p.next(), nil
}

func (p *parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	p.skipSeps()
	for !p.at(token.EOF) {
		in, err := p.parseInstr()
		if err != nil {
			return nil, err
		}
		prog.Instrs = append(prog.Instrs, in)
		if err := p.instrEnd(); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

// instrEnd consumes the separator after an instruction: one or more
// ';'/newline, a closing brace (left for the block parser), or EOF.
func (p *parser) instrEnd() error {
	if p.at(token.Semi) || p.at(token.Newline) {
		p.skipSeps()
		return nil
	}
	if p.at(token.RBrace) || p.at(token.EOF) {
		return nil
	}
	return p.errExpected("';'", "newline")
}

func (p *parser) parseInstr() (ast.Instr, error) {
	switch p.peek().Kind {
	case token.Var:
		return p.parseDeclare()
	case token.Print:
		pos := p.next().Pos
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Print{Pos: pos, Value: v}, nil
	case token.For:
		return p.parseFor()
	case token.Import:
		pos := p.next().Pos
		name, err := p.expect(token.Name)
		if err != nil {
			return nil, err
		}
		return &ast.Import{Pos: pos, Module: name.Lexeme}, nil
	case token.Return:
		pos := p.next().Pos
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Return{Pos: pos, Value: v}, nil
	case token.If:
		return p.parseIf()
	case token.Lt:
		return p.parseInvocation()
	}
	return nil, p.errExpected(
		"'var'", "'print'", "'for'", "'import'", "'return'", "'if'", "'<'")
}

// parseDeclare handles var NAME[:TYPE] = value. A function literal as
// the direct initializer becomes a named function definition.
func (p *parser) parseDeclare() (ast.Instr, error) {
	pos := p.next().Pos // var
	nt, err := p.parseNameType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if fn, ok := v.(*ast.FuncLit); ok {
		fn.Name = nt.Name
	}
	return &ast.Declare{Pos: pos, Name: nt, Value: v}, nil
}

// parseNameType parses NAME[:TYPE]. The annotation is advisory only.
func (p *parser) parseNameType() (ast.NameType, error) {
	name, err := p.expect(token.Name)
	if err != nil {
		return ast.NameType{}, err
	}
	nt := ast.NameType{Pos: name.Pos, Name: name.Lexeme}
	if p.at(token.Colon) {
		p.next()
		typ, err := p.expect(token.Name)
		if err != nil {
			return ast.NameType{}, err
		}
		nt.Type = typ.Lexeme
	}
	return nt, nil
}

func (p *parser) parseFor() (ast.Instr, error) {
	pos := p.next().Pos // for
	nt, err := p.parseNameType()
	if err != nil {
		return nil, err
	}
	count, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, _, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.For{Pos: pos, Var: nt, Count: count, Body: body}, nil
}

func (p *parser) parseIf() (ast.Instr, error) {
	pos := p.next().Pos // if
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, braced, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	// Newlines before else are only bridged after a braced body; after
	// a braceless one the newline already ended the instruction.
	if braced {
		save := p.i
		p.skipSeps()
		if !p.at(token.Else) {
			p.i = save
		}
	}
	if !p.at(token.Else) {
		node := &ast.If{Pos: pos, Cond: cond, Then: then}
		p.checkDanglingElse(node, braced)
		return node, nil
	}
	p.next()
	els, _, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.IfElse{Pos: pos, Cond: cond, Then: then, Else: els}, nil
}

// checkDanglingElse records the grammar's dangling-else ambiguity: a
// braceless then-body holding an if-else admits two attachments. The
// greedy parse bound the else to the inner if; the alternative binds
// it to the outer one.
func (p *parser) checkDanglingElse(outer *ast.If, bracelessThen bool) {
	if !bracelessThen || len(outer.Then.Instrs) != 1 {
		return
	}
	inner, ok := outer.Then.Instrs[0].(*ast.IfElse)
	if !ok {
		return
	}
	alt := &ast.IfElse{
		Pos:  outer.Pos,
		Cond: outer.Cond,
		Then: &ast.CodeBlock{
			Pos:    inner.Pos,
			Instrs: []ast.Instr{&ast.If{Pos: inner.Pos, Cond: inner.Cond, Then: inner.Then}},
		},
		Else: inner.Else,
	}
	p.ambiguities = append(p.ambiguities, Ambiguity{
		Pos:        inner.Else.Pos,
		Candidates: []ast.Instr{outer, alt},
	})
}

// parseBlock parses a clause body: either { instr* } or a single
// braceless instruction wrapped in a one-element block. The bool
// result reports whether braces were present.
func (p *parser) parseBlock() (*ast.CodeBlock, bool, error) {
	if p.at(token.LBrace) {
		open := p.next().Pos
		block := &ast.CodeBlock{Pos: open}
		p.skipSeps()
		for !p.at(token.RBrace) {
			if p.at(token.EOF) {
				return nil, false, &UnterminatedBlockError{Pos: open}
			}
			in, err := p.parseInstr()
			if err != nil {
				return nil, false, err
			}
			block.Instrs = append(block.Instrs, in)
			if p.at(token.RBrace) {
				break
			}
			if err := p.instrEnd(); err != nil {
				return nil, false, err
			}
		}
		p.next() // }
		return block, true, nil
	}
	in, err := p.parseInstr()
	if err != nil {
		return nil, false, err
	}
	return &ast.CodeBlock{Pos: in.NodePos(), Instrs: []ast.Instr{in}}, false, nil
}

// parseInvocation parses <callee arg...> at instruction or atom
// position: a function callback, or an imported command when the
// callee is a two-part dotted name.
func (p *parser) parseInvocation() (ast.Instr, error) {
	open, err := p.expect(token.Lt)
	if err != nil {
		return nil, err
	}

	// Imported command: <module.command arg...>
	if p.at(token.Name) && p.toks[p.i+1].Kind == token.Dot {
		mod := p.next()
		p.next() // .
		cmd, err := p.expect(token.Name)
		if err != nil {
			return nil, err
		}
		args, err := p.parseInvocationArgs()
		if err != nil {
			return nil, err
		}
		return &ast.Command{Pos: open.Pos, Module: mod.Lexeme, Command: cmd.Lexeme, Args: args}, nil
	}

	var callee ast.Expr
	switch p.peek().Kind {
	case token.Name:
		n := p.next()
		callee = &ast.NameRef{Pos: n.Pos, Name: n.Lexeme}
	case token.LBrack:
		fn, err := p.parseFuncLit()
		if err != nil {
			return nil, err
		}
		callee = fn
	default:
		return nil, p.errExpected("name", "function literal")
	}

	args, err := p.parseInvocationArgs()
	if err != nil {
		return nil, err
	}
	return &ast.Callback{Pos: open.Pos, Callee: callee, Args: args}, nil
}

// parseInvocationArgs parses invocation arguments up to the closing
// '>'. Arguments are atoms (literals, names, parenthesized expressions,
// nested invocations); anything looser needs parentheses, which keeps
// '>' unambiguous as the invocation terminator.
func (p *parser) parseInvocationArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	for !p.at(token.Gt) {
		if p.at(token.EOF) || p.at(token.Newline) {
			return nil, p.errExpected("'>'")
		}
		a, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	p.next() // >
	return args, nil
}

// parseFuncLit parses [NAME:TYPE ...] [-> TYPE] { instr* }.
func (p *parser) parseFuncLit() (*ast.FuncLit, error) {
	open, err := p.expect(token.LBrack)
	if err != nil {
		return nil, err
	}
	fn := &ast.FuncLit{Pos: open.Pos}
	for !p.at(token.RBrack) {
		if p.at(token.EOF) {
			return nil, p.errExpected("parameter", "']'")
		}
		nt, err := p.parseNameType()
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, nt)
	}
	p.next() // ]
	if p.at(token.Arrow) {
		p.next()
		ret, err := p.expect(token.Name)
		if err != nil {
			return nil, err
		}
		fn.ReturnType = ret.Lexeme
	}
	if !p.at(token.LBrace) {
		return nil, p.errExpected("'{'")
	}
	body, _, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}
