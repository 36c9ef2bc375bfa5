package compiler

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/ankitr/N-lang/ast"
	"github.com/ankitr/N-lang/modules"
	"github.com/ankitr/N-lang/resolver"
	"github.com/ankitr/N-lang/token"
)

//go:embed templates/runtime_pre.js.tmpl
var runtimePre string

//go:embed templates/runtime_post.js.tmpl
var runtimePost string

// CodeGenError reports an instruction or expression the generator
// cannot lower.
type CodeGenError struct {
	Pos token.Position
	Msg string
}

func (e *CodeGenError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// jsGen generates JavaScript source from a resolved program.
type jsGen struct {
	w         jsWriter
	info      *resolver.Info
	printName string
	tmp       int // hidden temporary counter
}

// generate produces the self-contained JavaScript program for prog.
func generate(prog *ast.Program, info *resolver.Info, printName string) (string, error) {
	if printName == "" {
		printName = "print"
	}
	g := &jsGen{info: info, printName: printName}
	return g.generate(prog)
}

func (g *jsGen) generate(prog *ast.Program) (string, error) {
	g.w.Raw(runtimePre)
	g.writeModuleRuntimes()
	g.w.Raw(runtimePost)
	for _, in := range prog.Instrs {
		if err := g.writeInstr(in); err != nil {
			return "", err
		}
	}
	g.w.Raw("})();\n")
	return g.w.String(), nil
}

// writeModuleRuntimes embeds the runtime snippet of every imported
// registered module, once each, in import order.
func (g *jsGen) writeModuleRuntimes() {
	seen := make(map[string]bool)
	for _, name := range g.info.Imports {
		if seen[name] {
			continue
		}
		seen[name] = true
		if m, ok := modules.Get(name); ok {
			g.w.Raw(m.Runtime)
		}
	}
}

func (g *jsGen) writeInstr(in ast.Instr) error {
	switch x := in.(type) {
	case *ast.Declare:
		val, err := g.exprString(x.Value)
		if err != nil {
			return err
		}
		g.w.Linef("let %s = %s;", jsName(x.Name.Name), val)
	case *ast.Print:
		val, err := g.exprString(x.Value)
		if err != nil {
			return err
		}
		g.w.Linef("%s(__n.display(%s));", g.printName, val)
	case *ast.For:
		return g.writeFor(x)
	case *ast.Import:
		// Registered modules were embedded above; the require still
		// runs so a missing host module fails at the import site.
		g.w.Linef("__n.require(%s);", jsString(x.Module))
	case *ast.Return:
		val, err := g.exprString(x.Value)
		if err != nil {
			return err
		}
		g.w.Linef("return %s;", val)
	case *ast.If:
		cond, err := g.exprString(x.Cond)
		if err != nil {
			return err
		}
		g.w.Linef("if (__n.bool(%s)) {", cond)
		if err := g.writeBlock(x.Then); err != nil {
			return err
		}
		g.w.Linef("}")
	case *ast.IfElse:
		cond, err := g.exprString(x.Cond)
		if err != nil {
			return err
		}
		g.w.Linef("if (__n.bool(%s)) {", cond)
		if err := g.writeBlock(x.Then); err != nil {
			return err
		}
		g.w.Linef("} else {")
		if err := g.writeBlock(x.Else); err != nil {
			return err
		}
		g.w.Linef("}")
	case *ast.Callback:
		call, err := g.exprString(x)
		if err != nil {
			return err
		}
		g.w.Linef("%s;", call)
	case *ast.Command:
		call, err := g.exprString(x)
		if err != nil {
			return err
		}
		g.w.Linef("%s;", call)
	default:
		return &CodeGenError{Pos: in.NodePos(), Msg: fmt.Sprintf("cannot generate code for %T", in)}
	}
	return nil
}

func (g *jsGen) writeBlock(b *ast.CodeBlock) error {
	g.w.Indent()
	for _, in := range b.Instrs {
		if err := g.writeInstr(in); err != nil {
			g.w.Dedent()
			return err
		}
	}
	g.w.Dedent()
	return nil
}

// writeFor lowers the counted loop. The count expression is evaluated
// once into a hidden temporary at loop entry.
func (g *jsGen) writeFor(f *ast.For) error {
	count, err := g.exprString(f.Count)
	if err != nil {
		return err
	}
	limit := g.nextTmp()
	v := jsName(f.Var.Name)
	g.w.Linef("for (let %s = __n.count(%s), %s = 0; %s < %s; %s++) {", limit, count, v, v, limit, v)
	if err := g.writeBlock(f.Body); err != nil {
		return err
	}
	g.w.Linef("}")
	return nil
}

func (g *jsGen) nextTmp() string {
	name := fmt.Sprintf("__n_c%d", g.tmp)
	g.tmp++
	return name
}

func (g *jsGen) exprString(e ast.Expr) (string, error) {
	switch ex := e.(type) {
	case *ast.NumberLit:
		return ex.Value, nil
	case *ast.BoolLit:
		if ex.Value {
			return "true", nil
		}
		return "false", nil
	case *ast.StringLit:
		return jsString(ex.Value), nil
	case *ast.NameRef:
		return jsName(ex.Name), nil
	case *ast.Paren:
		inner, err := g.exprString(ex.Inner)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	case *ast.UnaryOp:
		return g.unaryExpr(ex)
	case *ast.BinaryOp:
		return g.binaryExpr(ex)
	case *ast.Compare:
		return g.compareExpr(ex)
	case *ast.IfElseExpr:
		cond, err := g.exprString(ex.Cond)
		if err != nil {
			return "", err
		}
		then, err := g.exprString(ex.Then)
		if err != nil {
			return "", err
		}
		els, err := g.exprString(ex.Else)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(__n.bool(%s) ? %s : %s)", cond, then, els), nil
	case *ast.Callback:
		return g.callbackExpr(ex)
	case *ast.Command:
		return g.commandExpr(ex)
	case *ast.FuncLit:
		return g.funcExpr(ex)
	}
	return "", &CodeGenError{Pos: e.NodePos(), Msg: fmt.Sprintf("cannot generate code for %T", e)}
}

func (g *jsGen) unaryExpr(e *ast.UnaryOp) (string, error) {
	operand, err := g.exprString(e.Operand)
	if err != nil {
		return "", err
	}
	switch e.Op {
	case token.Sub:
		return "(-" + operand + ")", nil
	case token.Tilde, token.Bang:
		return "(!__n.bool(" + operand + "))", nil
	}
	return "", &CodeGenError{Pos: e.Pos, Msg: fmt.Sprintf("unknown unary operator %v", e.Op)}
}

func (g *jsGen) binaryExpr(e *ast.BinaryOp) (string, error) {
	left, err := g.exprString(e.Left)
	if err != nil {
		return "", err
	}
	right, err := g.exprString(e.Right)
	if err != nil {
		return "", err
	}
	switch e.Op {
	case token.Or:
		return fmt.Sprintf("(%s || %s)", left, right), nil
	case token.And:
		return fmt.Sprintf("(%s && %s)", left, right), nil
	case token.Add:
		return fmt.Sprintf("(%s + %s)", left, right), nil
	case token.Sub:
		return fmt.Sprintf("(%s - %s)", left, right), nil
	case token.Mul:
		return fmt.Sprintf("(%s * %s)", left, right), nil
	case token.Div:
		return fmt.Sprintf("(%s / %s)", left, right), nil
	case token.FloorDiv:
		return fmt.Sprintf("__n.floordiv(%s, %s)", left, right), nil
	case token.Mod:
		return fmt.Sprintf("__n.mod(%s, %s)", left, right), nil
	case token.Pow:
		return fmt.Sprintf("__n.pow(%s, %s)", left, right), nil
	}
	return "", &CodeGenError{Pos: e.Pos, Msg: fmt.Sprintf("unknown binary operator %v", e.Op)}
}

// compareExpr lowers a comparison chain to an arrow IIFE that evaluates
// each operand at most once and returns false at the first failing
// link, leaving later operands unevaluated. Its temporaries live in the
// __n namespace, which jsName keeps source identifiers out of.
func (g *jsGen) compareExpr(e *ast.Compare) (string, error) {
	first, err := g.exprString(e.Operands[0])
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("(() => { let __n_l = ")
	sb.WriteString(first)
	sb.WriteString("; let __n_r;")
	for i, op := range e.Ops {
		jsOp, ok := compareOps[op]
		if !ok {
			return "", &CodeGenError{Pos: e.Pos, Msg: fmt.Sprintf("unknown comparison operator %v", op)}
		}
		next, err := g.exprString(e.Operands[i+1])
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, " __n_r = %s; if (!(__n_l %s __n_r)) { return false; } __n_l = __n_r;", next, jsOp)
	}
	sb.WriteString(" return true; })()")
	return sb.String(), nil
}

var compareOps = map[token.Kind]string{
	token.Eq:       "===",
	token.Assign:   "===",
	token.Neq:      "!==",
	token.NeqQuirk: "!==",
	token.Lt:       "<",
	token.Gt:       ">",
	token.Le:       "<=",
	token.Ge:       ">=",
}

func (g *jsGen) callbackExpr(e *ast.Callback) (string, error) {
	callee, err := g.exprString(e.Callee)
	if err != nil {
		return "", err
	}
	args, err := g.argStrings(e.Args)
	if err != nil {
		return "", err
	}
	if _, ok := e.Callee.(*ast.FuncLit); ok {
		callee = "(" + callee + ")"
	}
	return fmt.Sprintf("%s(%s)", callee, strings.Join(args, ", ")), nil
}

func (g *jsGen) commandExpr(e *ast.Command) (string, error) {
	// Commands on registered modules are checked at compile time; an
	// unregistered module may still be provided by the host and is
	// resolved when the dispatch runs.
	if modules.IsModule(e.Module) {
		cmd, ok := modules.LookupCmd(e.Module, e.Command)
		if !ok {
			return "", &CodeGenError{Pos: e.Pos, Msg: fmt.Sprintf("module %q has no command %q", e.Module, e.Command)}
		}
		if len(e.Args) < cmd.Arity || (!cmd.Variadic && len(e.Args) > cmd.Arity) {
			return "", &CodeGenError{Pos: e.Pos, Msg: fmt.Sprintf("%s.%s expects %d argument(s), got %d", e.Module, e.Command, cmd.Arity, len(e.Args))}
		}
	}
	args, err := g.argStrings(e.Args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("__n.dispatch(%s, %s, [%s])", jsString(e.Module), jsString(e.Command), strings.Join(args, ", ")), nil
}

func (g *jsGen) argStrings(args []ast.Expr) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		s, err := g.exprString(a)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// funcExpr lowers a function literal to an arrow function. Arrow
// functions close over let bindings by reference, so an outer name read
// inside the body observes the value at call time.
func (g *jsGen) funcExpr(e *ast.FuncLit) (string, error) {
	params := make([]string, len(e.Params))
	for i, p := range e.Params {
		params[i] = jsName(p.Name)
	}
	body, err := g.w.Capture(func() error {
		return g.writeBlock(e.Body)
	})
	if err != nil {
		return "", err
	}
	indent := strings.Repeat("  ", g.w.indent)
	return fmt.Sprintf("(%s) => {\n%s%s}", strings.Join(params, ", "), body, indent), nil
}

// jsString renders a string literal with JavaScript-safe escaping.
func jsString(s string) string {
	return strconv.Quote(s)
}

// jsReserved is the set of JavaScript reserved words that are legal
// names in the source language.
var jsReserved = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "debugger": true,
	"default": true, "delete": true, "do": true, "enum": true,
	"export": true, "extends": true, "finally": true, "function": true,
	"in": true, "instanceof": true, "let": true, "new": true,
	"null": true, "static": true, "super": true, "switch": true,
	"this": true, "throw": true, "typeof": true, "undefined": true,
	"void": true, "while": true, "with": true, "yield": true,
}

// jsName maps a source name to a JavaScript identifier, stepping around
// reserved words and the generated runtime's own names.
func jsName(name string) string {
	if jsReserved[name] || strings.HasPrefix(name, "__n") {
		return name + "_"
	}
	return name
}
