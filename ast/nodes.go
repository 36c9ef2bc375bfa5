// Package ast defines the syntax tree produced by the parser and
// consumed by the resolver and code generator. Nodes are constructed
// once during parsing and never mutated afterwards; auxiliary binding
// information computed by the resolver lives outside the tree.
package ast

import "github.com/ankitr/N-lang/token"

// Node is the interface for all AST nodes.
type Node interface {
	node()
	// NodePos returns the source position of the node's first token.
	NodePos() token.Position
}

// Instr is the interface for instruction nodes.
type Instr interface {
	Node
	instr()
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr()
}

// Program is the root node: an ordered sequence of instructions.
type Program struct {
	Instrs []Instr
}

func (p *Program) node() {}

func (p *Program) NodePos() token.Position {
	if len(p.Instrs) > 0 {
		return p.Instrs[0].NodePos()
	}
	return token.Position{Line: 1, Column: 1}
}

// NameType is a name with an optional advisory type annotation. The
// annotation is carried through but never enforced.
type NameType struct {
	Pos  token.Position
	Name string
	Type string // "" when omitted
}

// CodeBlock is a delimited scope boundary: an ordered instruction
// sequence. Braceless single-instruction clause bodies are wrapped in a
// one-element CodeBlock so every clause body resolves as its own scope.
type CodeBlock struct {
	Pos    token.Position
	Instrs []Instr
}

func (b *CodeBlock) node()                   {}
func (b *CodeBlock) NodePos() token.Position { return b.Pos }

// Declare binds exactly one name to an expression: var NAME[:TYPE] = expr.
type Declare struct {
	Pos   token.Position
	Name  NameType
	Value Expr
}

func (d *Declare) node()                   {}
func (d *Declare) instr()                  {}
func (d *Declare) NodePos() token.Position { return d.Pos }

// Print evaluates its value and hands it to the host's print callback.
type Print struct {
	Pos   token.Position
	Value Expr
}

func (p *Print) node()                   {}
func (p *Print) instr()                  {}
func (p *Print) NodePos() token.Position { return p.Pos }

// For is the counted loop: for NAME:TYPE count block. Count is
// evaluated once at loop entry; the loop variable is bound to
// successive integers 0..count-1 within the body's scope.
type For struct {
	Pos   token.Position
	Var   NameType
	Count Expr
	Body  *CodeBlock
}

func (f *For) node()                   {}
func (f *For) instr()                  {}
func (f *For) NodePos() token.Position { return f.Pos }

// Import brings a named host module into scope: import NAME.
type Import struct {
	Pos    token.Position
	Module string
}

func (i *Import) node()                   {}
func (i *Import) instr()                  {}
func (i *Import) NodePos() token.Position { return i.Pos }

// Return exits the enclosing function with a value.
type Return struct {
	Pos   token.Position
	Value Expr
}

func (r *Return) node()                   {}
func (r *Return) instr()                  {}
func (r *Return) NodePos() token.Position { return r.Pos }

// If is a conditional without an else clause.
type If struct {
	Pos  token.Position
	Cond Expr
	Then *CodeBlock
}

func (i *If) node()                   {}
func (i *If) instr()                  {}
func (i *If) NodePos() token.Position { return i.Pos }

// IfElse is a conditional with both branches.
type IfElse struct {
	Pos  token.Position
	Cond Expr
	Then *CodeBlock
	Else *CodeBlock
}

func (i *IfElse) node()                   {}
func (i *IfElse) instr()                  {}
func (i *IfElse) NodePos() token.Position { return i.Pos }

// Callback is a function invocation <callee arg...>. It is valid both
// as an instruction and as an expression, so it implements both
// interfaces. Callee is a NameRef for named functions or a FuncLit for
// an anonymous function invoked at its definition site.
type Callback struct {
	Pos    token.Position
	Callee Expr
	Args   []Expr
}

func (c *Callback) node()                   {}
func (c *Callback) instr()                  {}
func (c *Callback) expr()                   {}
func (c *Callback) NodePos() token.Position { return c.Pos }

// Command is an imported-command call <module.command arg...>, routed
// at runtime through the host dispatch table. Like Callback it is both
// an instruction and an expression.
type Command struct {
	Pos     token.Position
	Module  string
	Command string
	Args    []Expr
}

func (c *Command) node()                   {}
func (c *Command) instr()                  {}
func (c *Command) expr()                   {}
func (c *Command) NodePos() token.Position { return c.Pos }

// IfElseExpr is the expression form if cond { a } else { b }. It is
// only valid at full-expression position, never inside looser binary
// chains.
type IfElseExpr struct {
	Pos  token.Position
	Cond Expr
	Then Expr
	Else Expr
}

func (i *IfElseExpr) node()                   {}
func (i *IfElseExpr) expr()                   {}
func (i *IfElseExpr) NodePos() token.Position { return i.Pos }

// BinaryOp is left op right for every binary operator except the
// comparison chain.
type BinaryOp struct {
	Pos   token.Position
	Op    token.Kind
	Left  Expr
	Right Expr
}

func (b *BinaryOp) node()                   {}
func (b *BinaryOp) expr()                   {}
func (b *BinaryOp) NodePos() token.Position { return b.Pos }

// UnaryOp is prefix negation (-) or logical not (~ or !).
type UnaryOp struct {
	Pos     token.Position
	Op      token.Kind
	Operand Expr
}

func (u *UnaryOp) node()                   {}
func (u *UnaryOp) expr()                   {}
func (u *UnaryOp) NodePos() token.Position { return u.Pos }

// Compare is a comparison chain: Operands[0] Ops[0] Operands[1] Ops[1]
// ... with len(Operands) == len(Ops)+1. A chain evaluates left to
// right, each link comparing against the previous operand's value, and
// short-circuits to false on the first failing link.
type Compare struct {
	Pos      token.Position
	Operands []Expr
	Ops      []token.Kind
}

func (c *Compare) node()                   {}
func (c *Compare) expr()                   {}
func (c *Compare) NodePos() token.Position { return c.Pos }

// NumberLit is a numeric literal. The grammar has a single numeric
// domain, so the lexeme is kept verbatim and interpreted by the
// backend.
type NumberLit struct {
	Pos   token.Position
	Value string
}

func (n *NumberLit) node()                   {}
func (n *NumberLit) expr()                   {}
func (n *NumberLit) NodePos() token.Position { return n.Pos }

// BoolLit is true or false.
type BoolLit struct {
	Pos   token.Position
	Value bool
}

func (b *BoolLit) node()                   {}
func (b *BoolLit) expr()                   {}
func (b *BoolLit) NodePos() token.Position { return b.Pos }

// StringLit is a string literal with escapes already decoded.
type StringLit struct {
	Pos   token.Position
	Value string
}

func (s *StringLit) node()                   {}
func (s *StringLit) expr()                   {}
func (s *StringLit) NodePos() token.Position { return s.Pos }

// NameRef reads a declared name.
type NameRef struct {
	Pos  token.Position
	Name string
}

func (n *NameRef) node()                   {}
func (n *NameRef) expr()                   {}
func (n *NameRef) NodePos() token.Position { return n.Pos }

// Paren wraps a parenthesized expression. The wrapper is kept so the
// dump output mirrors the source and precedence tests can assert
// grouping.
type Paren struct {
	Pos   token.Position
	Inner Expr
}

func (p *Paren) node()                   {}
func (p *Paren) expr()                   {}
func (p *Paren) NodePos() token.Position { return p.Pos }

// FuncLit is a function literal [params] -> type { body }. Name is set
// when the literal is the direct initializer of a declare, making it a
// named function definition; anonymous literals leave it empty.
type FuncLit struct {
	Pos        token.Position
	Name       string // "" for anonymous functions
	Params     []NameType
	ReturnType string // "" when omitted
	Body       *CodeBlock
}

func (f *FuncLit) node()                   {}
func (f *FuncLit) expr()                   {}
func (f *FuncLit) NodePos() token.Position { return f.Pos }
