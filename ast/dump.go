package ast

import (
	"fmt"
	"strings"
)

// Dump renders a node as a deterministic S-expression. The output is
// stable across runs for structurally equal trees, which is what the
// ambiguity report and the `n ast` command rely on.
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n)
	return sb.String()
}

// DumpProgram renders a whole program one instruction per line.
func DumpProgram(p *Program) string {
	var sb strings.Builder
	for _, in := range p.Instrs {
		dump(&sb, in)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func dump(sb *strings.Builder, n Node) {
	switch x := n.(type) {
	case *Program:
		sb.WriteString("(program")
		for _, in := range x.Instrs {
			sb.WriteByte(' ')
			dump(sb, in)
		}
		sb.WriteByte(')')
	case *CodeBlock:
		sb.WriteString("(block")
		for _, in := range x.Instrs {
			sb.WriteByte(' ')
			dump(sb, in)
		}
		sb.WriteByte(')')
	case *Declare:
		fmt.Fprintf(sb, "(declare %s ", nameType(x.Name))
		dump(sb, x.Value)
		sb.WriteByte(')')
	case *Print:
		sb.WriteString("(print ")
		dump(sb, x.Value)
		sb.WriteByte(')')
	case *For:
		fmt.Fprintf(sb, "(for %s ", nameType(x.Var))
		dump(sb, x.Count)
		sb.WriteByte(' ')
		dump(sb, x.Body)
		sb.WriteByte(')')
	case *Import:
		fmt.Fprintf(sb, "(import %s)", x.Module)
	case *Return:
		sb.WriteString("(return ")
		dump(sb, x.Value)
		sb.WriteByte(')')
	case *If:
		sb.WriteString("(if ")
		dump(sb, x.Cond)
		sb.WriteByte(' ')
		dump(sb, x.Then)
		sb.WriteByte(')')
	case *IfElse:
		sb.WriteString("(ifelse ")
		dump(sb, x.Cond)
		sb.WriteByte(' ')
		dump(sb, x.Then)
		sb.WriteByte(' ')
		dump(sb, x.Else)
		sb.WriteByte(')')
	case *IfElseExpr:
		sb.WriteString("(ifelse-expr ")
		dump(sb, x.Cond)
		sb.WriteByte(' ')
		dump(sb, x.Then)
		sb.WriteByte(' ')
		dump(sb, x.Else)
		sb.WriteByte(')')
	case *Callback:
		sb.WriteString("(call ")
		dump(sb, x.Callee)
		for _, a := range x.Args {
			sb.WriteByte(' ')
			dump(sb, a)
		}
		sb.WriteByte(')')
	case *Command:
		fmt.Fprintf(sb, "(command %s.%s", x.Module, x.Command)
		for _, a := range x.Args {
			sb.WriteByte(' ')
			dump(sb, a)
		}
		sb.WriteByte(')')
	case *BinaryOp:
		fmt.Fprintf(sb, "(%s ", strings.Trim(x.Op.String(), "'"))
		dump(sb, x.Left)
		sb.WriteByte(' ')
		dump(sb, x.Right)
		sb.WriteByte(')')
	case *UnaryOp:
		fmt.Fprintf(sb, "(%s ", strings.Trim(x.Op.String(), "'"))
		dump(sb, x.Operand)
		sb.WriteByte(')')
	case *Compare:
		sb.WriteString("(compare")
		for i, op := range x.Ops {
			sb.WriteByte(' ')
			if i == 0 {
				dump(sb, x.Operands[0])
				sb.WriteByte(' ')
			}
			sb.WriteString(strings.Trim(op.String(), "'"))
			sb.WriteByte(' ')
			dump(sb, x.Operands[i+1])
		}
		sb.WriteByte(')')
	case *NumberLit:
		sb.WriteString(x.Value)
	case *BoolLit:
		fmt.Fprintf(sb, "%v", x.Value)
	case *StringLit:
		fmt.Fprintf(sb, "%q", x.Value)
	case *NameRef:
		sb.WriteString(x.Name)
	case *Paren:
		sb.WriteString("(paren ")
		dump(sb, x.Inner)
		sb.WriteByte(')')
	case *FuncLit:
		sb.WriteString("(func")
		if x.Name != "" {
			sb.WriteByte(' ')
			sb.WriteString(x.Name)
		}
		sb.WriteString(" [")
		for i, p := range x.Params {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(nameType(p))
		}
		sb.WriteString("]")
		if x.ReturnType != "" {
			fmt.Fprintf(sb, " -> %s", x.ReturnType)
		}
		sb.WriteByte(' ')
		dump(sb, x.Body)
		sb.WriteByte(')')
	default:
		fmt.Fprintf(sb, "(?%T)", n)
	}
}

func nameType(nt NameType) string {
	if nt.Type == "" {
		return nt.Name
	}
	return nt.Name + ":" + nt.Type
}
