package parser

import (
	"github.com/ankitr/N-lang/ast"
	"github.com/ankitr/N-lang/token"
)

// Binding powers, lowest to highest. Unary minus sits between the
// multiplicative level and exponentiation so that -2^2 parses as
// -(2^2): the minus prefixes the whole exponent expression.
const (
	precOr  = 10
	precAnd = 20
	precNot = 30
	precCmp = 40
	precAdd = 50
	precMul = 60
	precNeg = 65
	precPow = 70
)

type binOp struct {
	prec  int
	right bool
}

var binOps = map[token.Kind]binOp{
	token.Or:       {prec: precOr},
	token.And:      {prec: precAnd},
	token.Eq:       {prec: precCmp},
	token.Assign:   {prec: precCmp},
	token.Ge:       {prec: precCmp},
	token.Le:       {prec: precCmp},
	token.Lt:       {prec: precCmp},
	token.Gt:       {prec: precCmp},
	token.Neq:      {prec: precCmp},
	token.NeqQuirk: {prec: precCmp},
	token.Add:      {prec: precAdd},
	token.Sub:      {prec: precAdd},
	token.Mul:      {prec: precMul},
	token.Div:      {prec: precMul},
	token.FloorDiv: {prec: precMul},
	token.Mod:      {prec: precMul},
	token.Pow:      {prec: precPow, right: true},
}

func isCompareOp(k token.Kind) bool {
	switch k {
	case token.Eq, token.Assign, token.Ge, token.Le, token.Lt, token.Gt,
		token.Neq, token.NeqQuirk:
		return true
	}
	return false
}

// parseExpr is the expression entry point. The if-else expression form
// is only admitted here, at full-expression position, never inside a
// binary chain.
func (p *parser) parseExpr() (ast.Expr, error) {
	if p.at(token.If) {
		return p.parseIfElseExpr()
	}
	return p.parseBinary()
}

// opEntry is one pending operator on the explicit stack.
type opEntry struct {
	kind  token.Kind
	prec  int
	right bool
	unary bool
	pos   token.Position
}

// parseBinary runs the iterative precedence loop: a single pass over
// the operator chain with explicit operand and operator stacks, so
// arbitrarily long chains parse in constant call-stack depth.
// Recursion only happens through atoms (parentheses, blocks).
func (p *parser) parseBinary() (ast.Expr, error) {
	var operands []ast.Expr
	var ops []opEntry

	reduce := func() {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if op.unary {
			operand := operands[len(operands)-1]
			operands[len(operands)-1] = &ast.UnaryOp{Pos: op.pos, Op: op.kind, Operand: operand}
			return
		}
		right := operands[len(operands)-1]
		left := operands[len(operands)-2]
		operands = operands[:len(operands)-1]
		if isCompareOp(op.kind) {
			// Comparisons accumulate into a single chain node. Since
			// same-precedence reduction runs left to right, a chain's
			// left side is always the chain built so far.
			if chain, ok := left.(*ast.Compare); ok {
				chain.Operands = append(chain.Operands, right)
				chain.Ops = append(chain.Ops, op.kind)
				operands[len(operands)-1] = chain
				return
			}
			operands[len(operands)-1] = &ast.Compare{
				Pos:      left.NodePos(),
				Operands: []ast.Expr{left, right},
				Ops:      []token.Kind{op.kind},
			}
			return
		}
		operands[len(operands)-1] = &ast.BinaryOp{Pos: op.pos, Op: op.kind, Left: left, Right: right}
	}

	expectOperand := true
	for {
		t := p.peek()
		if expectOperand {
			switch t.Kind {
			case token.Sub:
				p.next()
				ops = append(ops, opEntry{kind: token.Sub, prec: precNeg, unary: true, pos: t.Pos})
			case token.Tilde, token.Bang:
				p.next()
				ops = append(ops, opEntry{kind: t.Kind, prec: precNot, unary: true, pos: t.Pos})
			default:
				atom, err := p.parseAtom()
				if err != nil {
					return nil, err
				}
				operands = append(operands, atom)
				expectOperand = false
			}
			continue
		}

		info, ok := binOps[t.Kind]
		if !ok {
			break
		}
		for len(ops) > 0 {
			top := ops[len(ops)-1]
			if top.prec > info.prec || (top.prec == info.prec && !info.right) {
				reduce()
				continue
			}
			break
		}
		p.next()
		ops = append(ops, opEntry{kind: t.Kind, prec: info.prec, right: info.right, pos: t.Pos})
		expectOperand = true
	}

	for len(ops) > 0 {
		reduce()
	}
	return operands[0], nil
}

// parseAtom parses the highest-precedence forms: literals, name
// references, parenthesized expressions, invocations, and function
// literals.
func (p *parser) parseAtom() (ast.Expr, error) {
	t := p.peek()
	switch t.Kind {
	case token.Number:
		p.next()
		return &ast.NumberLit{Pos: t.Pos, Value: t.Lexeme}, nil
	case token.String:
		p.next()
		return &ast.StringLit{Pos: t.Pos, Value: t.Lexeme}, nil
	case token.Boolean:
		p.next()
		return &ast.BoolLit{Pos: t.Pos, Value: t.Lexeme == "true"}, nil
	case token.Name:
		p.next()
		return &ast.NameRef{Pos: t.Pos, Name: t.Lexeme}, nil
	case token.LParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return &ast.Paren{Pos: t.Pos, Inner: inner}, nil
	case token.Lt:
		inv, err := p.parseInvocation()
		if err != nil {
			return nil, err
		}
		return inv.(ast.Expr), nil
	case token.LBrack:
		return p.parseFuncLit()
	}
	return nil, p.errExpected(
		"number", "string", "boolean", "name", "'('", "invocation", "function literal")
}

// parseIfElseExpr parses the expression form if cond { a } else { b }.
// Branch bodies are single expressions, braced or bare; the else
// branch is mandatory because the form must produce a value.
func (p *parser) parseIfElseExpr() (ast.Expr, error) {
	pos := p.next().Pos // if
	cond, err := p.parseBinary()
	if err != nil {
		return nil, err
	}
	then, err := p.parseExprBranch()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Else); err != nil {
		return nil, err
	}
	els, err := p.parseExprBranch()
	if err != nil {
		return nil, err
	}
	return &ast.IfElseExpr{Pos: pos, Cond: cond, Then: then, Else: els}, nil
}

func (p *parser) parseExprBranch() (ast.Expr, error) {
	if p.at(token.LBrace) {
		p.next()
		p.skipSeps()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSeps()
		if _, err := p.expect(token.RBrace); err != nil {
			return nil, err
		}
		return e, nil
	}
	return p.parseExpr()
}
