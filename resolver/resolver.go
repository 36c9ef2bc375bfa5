// Package resolver binds names to lexical scopes at compile time. It
// walks the parsed tree once, maintaining an arena of scopes indexed by
// integer id, and records for every function literal the set of outer
// names it reads (its capture set) so the code generator can emit
// proper closures. The tree itself is never mutated; all binding
// information lives in the returned Info.
package resolver

import (
	"fmt"
	"sort"

	"github.com/ankitr/N-lang/ast"
	"github.com/ankitr/N-lang/token"
)

// ErrKind classifies a SemanticError.
type ErrKind int

const (
	// UndefinedName is a name read before any enclosing declaration of
	// it, including an imported-command module that was never imported.
	UndefinedName ErrKind = iota
	// DuplicateDeclaration is a second declaration of a name in the
	// same scope.
	DuplicateDeclaration
	// ReturnOutsideFunction is a return instruction with no enclosing
	// function body.
	ReturnOutsideFunction
)

// SemanticError is a name-binding failure found during resolution.
type SemanticError struct {
	Kind ErrKind
	Pos  token.Position
	Name string
}

func (e *SemanticError) Error() string {
	switch e.Kind {
	case UndefinedName:
		return fmt.Sprintf("%s: %q is not defined", e.Pos, e.Name)
	case DuplicateDeclaration:
		return fmt.Sprintf("%s: %q is already defined in this scope", e.Pos, e.Name)
	case ReturnOutsideFunction:
		return fmt.Sprintf("%s: return outside a function", e.Pos)
	}
	return fmt.Sprintf("%s: semantic error", e.Pos)
}

// BindKind classifies what introduced a binding.
type BindKind int

const (
	BindVar BindKind = iota
	BindParam
	BindLoop
	BindImport
)

// Binding is one name introduced into a scope.
type Binding struct {
	Name string
	Kind BindKind
	Pos  token.Position
}

// Scope is one lexical scope in the arena. Parent is -1 for the
// program scope.
type Scope struct {
	ID     int
	Parent int
	Names  map[string]Binding
}

// Info is the resolver's output: the scope arena, the scope id
// attached to every scope-opening node, the binding scope of every
// name reference, the capture set of every function literal, and the
// imported module names in program order.
type Info struct {
	Scopes   []*Scope
	ScopeOf  map[ast.Node]int
	RefScope map[*ast.NameRef]int
	Captures map[*ast.FuncLit][]string
	Imports  []string
}

type frame struct {
	scope    *Scope
	fn       *ast.FuncLit // non-nil when this scope is a function root
	captures map[string]bool
}

type resolver struct {
	info  *Info
	stack []frame
	depth int // function nesting depth
}

// Resolve walks the program and returns binding information, or the
// first SemanticError encountered.
func Resolve(prog *ast.Program) (*Info, error) {
	r := &resolver{info: &Info{
		ScopeOf:  make(map[ast.Node]int),
		RefScope: make(map[*ast.NameRef]int),
		Captures: make(map[*ast.FuncLit][]string),
	}}
	r.push(nil)
	r.info.ScopeOf[prog] = 0
	if err := r.instrs(prog.Instrs); err != nil {
		return nil, err
	}
	return r.info, nil
}

func (r *resolver) push(fn *ast.FuncLit) *Scope {
	parent := -1
	if len(r.stack) > 0 {
		parent = r.top().ID
	}
	s := &Scope{ID: len(r.info.Scopes), Parent: parent, Names: make(map[string]Binding)}
	r.info.Scopes = append(r.info.Scopes, s)
	f := frame{scope: s, fn: fn}
	if fn != nil {
		f.captures = make(map[string]bool)
		r.depth++
	}
	r.stack = append(r.stack, f)
	return s
}

func (r *resolver) pop() {
	f := r.stack[len(r.stack)-1]
	if f.fn != nil {
		names := make([]string, 0, len(f.captures))
		for n := range f.captures {
			names = append(names, n)
		}
		sort.Strings(names)
		r.info.Captures[f.fn] = names
		r.depth--
	}
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *resolver) top() *Scope { return r.stack[len(r.stack)-1].scope }

func (r *resolver) bind(nt ast.NameType, kind BindKind) error {
	s := r.top()
	if _, exists := s.Names[nt.Name]; exists {
		return &SemanticError{Kind: DuplicateDeclaration, Pos: nt.Pos, Name: nt.Name}
	}
	s.Names[nt.Name] = Binding{Name: nt.Name, Kind: kind, Pos: nt.Pos}
	return nil
}

// lookup resolves a name against the scope stack. Every function
// boundary crossed before the binding scope captures the name.
func (r *resolver) lookup(name string, pos token.Position) (int, error) {
	var crossed []frame
	for i := len(r.stack) - 1; i >= 0; i-- {
		f := r.stack[i]
		if _, ok := f.scope.Names[name]; ok {
			for _, cf := range crossed {
				cf.captures[name] = true
			}
			return f.scope.ID, nil
		}
		if f.fn != nil {
			crossed = append(crossed, f)
		}
	}
	return 0, &SemanticError{Kind: UndefinedName, Pos: pos, Name: name}
}

func (r *resolver) instrs(ins []ast.Instr) error {
	for _, in := range ins {
		if err := r.instr(in); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) instr(in ast.Instr) error {
	switch x := in.(type) {
	case *ast.Declare:
		// A named function is bound before its body resolves so it can
		// call itself; any other initializer resolves first, so
		// `var x = x` is an undefined-name error.
		if fn, ok := x.Value.(*ast.FuncLit); ok && fn.Name != "" {
			if err := r.bind(x.Name, BindVar); err != nil {
				return err
			}
			return r.expr(x.Value)
		}
		if err := r.expr(x.Value); err != nil {
			return err
		}
		return r.bind(x.Name, BindVar)
	case *ast.Print:
		return r.expr(x.Value)
	case *ast.For:
		if err := r.expr(x.Count); err != nil {
			return err
		}
		r.push(nil)
		r.info.ScopeOf[x.Body] = r.top().ID
		if err := r.bind(x.Var, BindLoop); err != nil {
			r.pop()
			return err
		}
		err := r.instrs(x.Body.Instrs)
		r.pop()
		return err
	case *ast.Import:
		r.info.Imports = append(r.info.Imports, x.Module)
		return r.bind(ast.NameType{Pos: x.Pos, Name: x.Module}, BindImport)
	case *ast.Return:
		if r.depth == 0 {
			return &SemanticError{Kind: ReturnOutsideFunction, Pos: x.Pos}
		}
		return r.expr(x.Value)
	case *ast.If:
		if err := r.expr(x.Cond); err != nil {
			return err
		}
		return r.block(x.Then)
	case *ast.IfElse:
		if err := r.expr(x.Cond); err != nil {
			return err
		}
		if err := r.block(x.Then); err != nil {
			return err
		}
		return r.block(x.Else)
	case *ast.Callback:
		return r.expr(x)
	case *ast.Command:
		return r.expr(x)
	}
	return nil
}

func (r *resolver) block(b *ast.CodeBlock) error {
	r.push(nil)
	r.info.ScopeOf[b] = r.top().ID
	err := r.instrs(b.Instrs)
	r.pop()
	return err
}

func (r *resolver) expr(e ast.Expr) error {
	switch x := e.(type) {
	case *ast.NameRef:
		id, err := r.lookup(x.Name, x.Pos)
		if err != nil {
			return err
		}
		r.info.RefScope[x] = id
	case *ast.BinaryOp:
		if err := r.expr(x.Left); err != nil {
			return err
		}
		return r.expr(x.Right)
	case *ast.UnaryOp:
		return r.expr(x.Operand)
	case *ast.Compare:
		for _, op := range x.Operands {
			if err := r.expr(op); err != nil {
				return err
			}
		}
	case *ast.Paren:
		return r.expr(x.Inner)
	case *ast.IfElseExpr:
		if err := r.expr(x.Cond); err != nil {
			return err
		}
		if err := r.expr(x.Then); err != nil {
			return err
		}
		return r.expr(x.Else)
	case *ast.Callback:
		if err := r.expr(x.Callee); err != nil {
			return err
		}
		for _, a := range x.Args {
			if err := r.expr(a); err != nil {
				return err
			}
		}
	case *ast.Command:
		// The module half of the two-part name must resolve to an
		// enclosing import.
		if _, err := r.lookup(x.Module, x.Pos); err != nil {
			return err
		}
		for _, a := range x.Args {
			if err := r.expr(a); err != nil {
				return err
			}
		}
	case *ast.FuncLit:
		r.push(x)
		r.info.ScopeOf[x] = r.top().ID
		for _, p := range x.Params {
			if err := r.bind(p, BindParam); err != nil {
				r.pop()
				return err
			}
		}
		err := r.instrs(x.Body.Instrs)
		r.pop()
		return err
	}
	return nil
}
