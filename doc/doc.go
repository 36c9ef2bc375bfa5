// Package doc formats documentation for the registered host modules.
package doc

import (
	"fmt"
	"strings"

	"github.com/ankitr/N-lang/modules"
)

// FormatAll formats a one-line summary of every registered module.
func FormatAll() string {
	var sb strings.Builder
	for _, name := range modules.Names() {
		m, _ := modules.Get(name)
		fmt.Fprintf(&sb, "%-8s %s\n", m.Name, m.Doc)
	}
	return sb.String()
}

// FormatModule formats the full command listing of one module.
func FormatModule(name string) (string, error) {
	m, ok := modules.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown module %q (have %s)", name, strings.Join(modules.Names(), ", "))
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s - %s\n\n", m.Name, m.Doc)
	for _, c := range m.Cmds {
		fmt.Fprintf(&sb, "  %s.%s%s\n", m.Name, c.Name, signature(c))
		if c.Doc != "" {
			fmt.Fprintf(&sb, "      %s\n", c.Doc)
		}
	}
	return sb.String(), nil
}

func signature(c modules.CmdDef) string {
	args := make([]string, c.Arity)
	for i := range args {
		args[i] = fmt.Sprintf("arg%d", i+1)
	}
	if c.Variadic {
		args = append(args, "...")
	}
	if len(args) == 0 {
		return ""
	}
	return " " + strings.Join(args, " ")
}
