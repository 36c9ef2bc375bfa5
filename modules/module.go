// Package modules holds the registry of host modules reachable through
// import and <module.command ...>. Each module contributes a JavaScript
// runtime snippet that the code generator embeds into the generated
// program, where it installs itself into the __n_modules table unless
// the host already provides a module of the same name.
package modules

import (
	"sort"
	"strings"
)

// CmdDef describes a command exposed by a module.
type CmdDef struct {
	// Name is the command half of the two-part module.command name.
	Name string
	// Arity is the number of required arguments.
	Arity int
	// Variadic, when true, accepts any number of arguments beyond Arity.
	Variadic bool
	// Doc is a one-line description.
	Doc string
}

// Module is a host module that programs can import.
type Module struct {
	// Name is the import name (e.g. "str", "math").
	Name string
	// Doc is a one-line description.
	Doc string
	// Cmds describes the commands this module exposes.
	Cmds []CmdDef
	// Runtime is the JavaScript source installing the module into
	// __n_modules (from embedded runtime.js).
	Runtime string
}

var registry = make(map[string]*Module)

// Register adds a module to the global registry.
func Register(m *Module) {
	registry[m.Name] = m
}

// Get returns a registered module by name.
func Get(name string) (*Module, bool) {
	m, ok := registry[name]
	return m, ok
}

// IsModule returns true if name is a registered module.
func IsModule(name string) bool {
	_, ok := registry[name]
	return ok
}

// LookupCmd resolves a command on a registered module.
func LookupCmd(module, cmd string) (CmdDef, bool) {
	m, ok := registry[module]
	if !ok {
		return CmdDef{}, false
	}
	for _, c := range m.Cmds {
		if c.Name == cmd {
			return c, true
		}
	}
	return CmdDef{}, false
}

// Names returns sorted names of all registered modules.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CleanRuntime strips the leading comment header from an embedded
// snippet so it is not repeated into every generated program.
func CleanRuntime(src string) string {
	lines := strings.Split(src, "\n")
	start := 0
	for start < len(lines) {
		trimmed := strings.TrimSpace(lines[start])
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			start++
			continue
		}
		break
	}
	return strings.TrimRight(strings.Join(lines[start:], "\n"), "\n") + "\n"
}
