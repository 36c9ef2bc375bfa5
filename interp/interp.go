// Package interp is a reference tree-walking interpreter. It evaluates
// a parsed program directly, with the same observable semantics as the
// compiled JavaScript, and backs `run --interp` as well as the
// compiler's end-to-end tests.
package interp

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ankitr/N-lang/ast"
	"github.com/ankitr/N-lang/token"
)

// RuntimeError is an evaluation failure.
type RuntimeError struct {
	Pos token.Position
	Msg string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func errAt(pos token.Position, format string, args ...interface{}) error {
	return &RuntimeError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Value is a runtime value: float64, string, bool, *Function, or a
// module command table.
type Value interface{}

// Function is a user function value closing over its defining scope.
type Function struct {
	lit   *ast.FuncLit
	scope *scope
}

// Command is a host command reachable through an imported module.
type Command func(args []Value) (Value, error)

// Module is a host module: a named table of commands.
type Module map[string]Command

type scope struct {
	parent *scope
	names  map[string]Value
}

func (s *scope) child() *scope {
	return &scope{parent: s, names: make(map[string]Value)}
}

func (s *scope) lookup(name string) (Value, bool) {
	for c := s; c != nil; c = c.parent {
		if v, ok := c.names[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Interp evaluates programs against a module table and a print sink.
type Interp struct {
	out     io.Writer
	modules map[string]Module
}

// New returns an interpreter printing to out, with the built-in host
// modules installed.
func New(out io.Writer) *Interp {
	return &Interp{out: out, modules: builtinModules()}
}

// AddModule installs or replaces a host module.
func (it *Interp) AddModule(name string, m Module) {
	it.modules[name] = m
}

// Run evaluates a program.
func (it *Interp) Run(prog *ast.Program) error {
	s := &scope{names: make(map[string]Value)}
	_, _, err := it.instrs(prog.Instrs, s)
	return err
}

// instrs runs an instruction sequence. The bool result reports an
// early return carrying the Value result.
func (it *Interp) instrs(ins []ast.Instr, s *scope) (Value, bool, error) {
	for _, in := range ins {
		v, returned, err := it.instr(in, s)
		if err != nil || returned {
			return v, returned, err
		}
	}
	return nil, false, nil
}

func (it *Interp) instr(in ast.Instr, s *scope) (Value, bool, error) {
	switch x := in.(type) {
	case *ast.Declare:
		v, err := it.eval(x.Value, s)
		if err != nil {
			return nil, false, err
		}
		s.names[x.Name.Name] = v
		return nil, false, nil
	case *ast.Print:
		v, err := it.eval(x.Value, s)
		if err != nil {
			return nil, false, err
		}
		fmt.Fprintln(it.out, Display(v))
		return nil, false, nil
	case *ast.For:
		countVal, err := it.eval(x.Count, s)
		if err != nil {
			return nil, false, err
		}
		count, err := loopCount(countVal, x.Count.NodePos())
		if err != nil {
			return nil, false, err
		}
		for i := 0; i < count; i++ {
			body := s.child()
			body.names[x.Var.Name] = float64(i)
			v, returned, err := it.instrs(x.Body.Instrs, body)
			if err != nil || returned {
				return v, returned, err
			}
		}
		return nil, false, nil
	case *ast.Import:
		if _, ok := it.modules[x.Module]; !ok {
			return nil, false, errAt(x.Pos, "library %s not found", x.Module)
		}
		s.names[x.Module] = it.modules[x.Module]
		return nil, false, nil
	case *ast.Return:
		v, err := it.eval(x.Value, s)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	case *ast.If:
		cond, err := it.eval(x.Cond, s)
		if err != nil {
			return nil, false, err
		}
		if Truthy(cond) {
			return it.instrs(x.Then.Instrs, s.child())
		}
		return nil, false, nil
	case *ast.IfElse:
		cond, err := it.eval(x.Cond, s)
		if err != nil {
			return nil, false, err
		}
		branch := x.Else
		if Truthy(cond) {
			branch = x.Then
		}
		return it.instrs(branch.Instrs, s.child())
	case *ast.Callback:
		_, err := it.eval(x, s)
		return nil, false, err
	case *ast.Command:
		_, err := it.eval(x, s)
		return nil, false, err
	}
	return nil, false, errAt(in.NodePos(), "cannot evaluate %T", in)
}

func (it *Interp) eval(e ast.Expr, s *scope) (Value, error) {
	switch x := e.(type) {
	case *ast.NumberLit:
		n, err := strconv.ParseFloat(x.Value, 64)
		if err != nil {
			return nil, errAt(x.Pos, "bad number literal %q", x.Value)
		}
		return n, nil
	case *ast.BoolLit:
		return x.Value, nil
	case *ast.StringLit:
		return x.Value, nil
	case *ast.NameRef:
		v, ok := s.lookup(x.Name)
		if !ok {
			return nil, errAt(x.Pos, "%q is not defined", x.Name)
		}
		return v, nil
	case *ast.Paren:
		return it.eval(x.Inner, s)
	case *ast.UnaryOp:
		return it.unary(x, s)
	case *ast.BinaryOp:
		return it.binary(x, s)
	case *ast.Compare:
		return it.compare(x, s)
	case *ast.IfElseExpr:
		cond, err := it.eval(x.Cond, s)
		if err != nil {
			return nil, err
		}
		if Truthy(cond) {
			return it.eval(x.Then, s)
		}
		return it.eval(x.Else, s)
	case *ast.Callback:
		return it.callback(x, s)
	case *ast.Command:
		return it.command(x, s)
	case *ast.FuncLit:
		return &Function{lit: x, scope: s}, nil
	}
	return nil, errAt(e.NodePos(), "cannot evaluate %T", e)
}

func (it *Interp) unary(e *ast.UnaryOp, s *scope) (Value, error) {
	v, err := it.eval(e.Operand, s)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.Sub:
		return -toNumber(v), nil
	case token.Tilde, token.Bang:
		return !Truthy(v), nil
	}
	return nil, errAt(e.Pos, "unknown unary operator")
}

func (it *Interp) binary(e *ast.BinaryOp, s *scope) (Value, error) {
	left, err := it.eval(e.Left, s)
	if err != nil {
		return nil, err
	}
	// Both logical operators yield an operand value, not a bare
	// boolean, and the right side only runs when it decides the result.
	switch e.Op {
	case token.Or:
		if Truthy(left) {
			return left, nil
		}
		return it.eval(e.Right, s)
	case token.And:
		if !Truthy(left) {
			return left, nil
		}
		return it.eval(e.Right, s)
	}
	right, err := it.eval(e.Right, s)
	if err != nil {
		return nil, err
	}
	if e.Op == token.Add {
		ls, lok := left.(string)
		rs, rok := right.(string)
		if lok || rok {
			if !lok {
				ls = Display(left)
			}
			if !rok {
				rs = Display(right)
			}
			return ls + rs, nil
		}
	}
	l, r := toNumber(left), toNumber(right)
	switch e.Op {
	case token.Add:
		return l + r, nil
	case token.Sub:
		return l - r, nil
	case token.Mul:
		return l * r, nil
	case token.Div:
		return l / r, nil
	case token.FloorDiv:
		return math.Floor(l / r), nil
	case token.Mod:
		m := math.Mod(l, r)
		return math.Mod(m+r, r), nil
	case token.Pow:
		return math.Pow(l, r), nil
	}
	return nil, errAt(e.Pos, "unknown binary operator")
}

// compare folds a chain left to right, evaluating each operand at most
// once and stopping at the first failing link.
func (it *Interp) compare(e *ast.Compare, s *scope) (Value, error) {
	left, err := it.eval(e.Operands[0], s)
	if err != nil {
		return nil, err
	}
	for i, op := range e.Ops {
		right, err := it.eval(e.Operands[i+1], s)
		if err != nil {
			return nil, err
		}
		ok, err := compareOne(op, left, right, e.Pos)
		if err != nil {
			return nil, err
		}
		if !ok {
			return false, nil
		}
		left = right
	}
	return true, nil
}

func compareOne(op token.Kind, left, right Value, pos token.Position) (bool, error) {
	switch op {
	case token.Eq, token.Assign:
		return equal(left, right), nil
	case token.Neq, token.NeqQuirk:
		return !equal(left, right), nil
	}
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			return orderString(op, strings.Compare(ls, rs)), nil
		}
	}
	l, r := toNumber(left), toNumber(right)
	if math.IsNaN(l) || math.IsNaN(r) {
		return false, nil
	}
	switch op {
	case token.Lt:
		return l < r, nil
	case token.Gt:
		return l > r, nil
	case token.Le:
		return l <= r, nil
	case token.Ge:
		return l >= r, nil
	}
	return false, errAt(pos, "unknown comparison operator")
}

func orderString(op token.Kind, cmp int) bool {
	switch op {
	case token.Lt:
		return cmp < 0
	case token.Gt:
		return cmp > 0
	case token.Le:
		return cmp <= 0
	case token.Ge:
		return cmp >= 0
	}
	return false
}

func equal(left, right Value) bool {
	switch l := left.(type) {
	case float64:
		r, ok := right.(float64)
		return ok && l == r
	case string:
		r, ok := right.(string)
		return ok && l == r
	case bool:
		r, ok := right.(bool)
		return ok && l == r
	}
	return left == right
}

func (it *Interp) callback(e *ast.Callback, s *scope) (Value, error) {
	callee, err := it.eval(e.Callee, s)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*Function)
	if !ok {
		return nil, errAt(e.Pos, "calling a non-function value")
	}
	if len(e.Args) != len(fn.lit.Params) {
		return nil, errAt(e.Pos, "function expects %d argument(s), got %d", len(fn.lit.Params), len(e.Args))
	}
	frame := fn.scope.child()
	for i, p := range fn.lit.Params {
		v, err := it.eval(e.Args[i], s)
		if err != nil {
			return nil, err
		}
		frame.names[p.Name] = v
	}
	v, _, err := it.instrs(fn.lit.Body.Instrs, frame)
	return v, err
}

func (it *Interp) command(e *ast.Command, s *scope) (Value, error) {
	mv, ok := s.lookup(e.Module)
	if !ok {
		return nil, errAt(e.Pos, "library %s not found", e.Module)
	}
	mod, ok := mv.(Module)
	if !ok {
		return nil, errAt(e.Pos, "%q is not a module", e.Module)
	}
	cmd, ok := mod[e.Command]
	if !ok {
		return nil, errAt(e.Pos, "command %s not found", e.Command)
	}
	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := it.eval(a, s)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	out, err := cmd(args)
	if err != nil {
		return nil, errAt(e.Pos, "%s.%s: %v", e.Module, e.Command, err)
	}
	return out, nil
}

func loopCount(v Value, pos token.Position) (int, error) {
	n := math.Trunc(toNumber(v))
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, errAt(pos, "loop count must be finite, got %s", Display(v))
	}
	if n < 0 {
		return 0, nil
	}
	return int(n), nil
}

// Truthy reports whether a value counts as true in a condition.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	case nil:
		return false
	}
	return true
}

func toNumber(v Value) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return math.NaN()
		}
		return n
	}
	return math.NaN()
}

// Display renders a value the way print shows it. Number formatting
// matches what String() produces in the generated program, including
// the exponent-notation switchover outside [1e-6, 1e21).
func Display(v Value) string {
	switch x := v.(type) {
	case nil:
		// A call that falls off the end of its body.
		return "undefined"
	case float64:
		return displayNumber(x)
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case *Function:
		return "<function>"
	case Module:
		return "<module>"
	}
	return fmt.Sprintf("%v", v)
}

func displayNumber(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case x == 0:
		// Both zeros render "0"; FormatFloat would keep the sign.
		return "0"
	}
	if abs := math.Abs(x); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(x, 'e', -1, 64)
		// FormatFloat pads single-digit exponents ("1e-07"); String()
		// does not ("1e-7").
		return strings.Replace(s, "e-0", "e-", 1)
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
