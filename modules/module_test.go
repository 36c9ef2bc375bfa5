package modules

import (
	"strings"
	"testing"
)

func withCleanRegistry(t *testing.T) {
	t.Helper()
	old := registry
	registry = make(map[string]*Module)
	t.Cleanup(func() { registry = old })
}

func TestRegisterAndGet(t *testing.T) {
	withCleanRegistry(t)

	Register(&Module{
		Name: "test",
		Cmds: []CmdDef{{Name: "foo", Arity: 1}},
	})

	got, ok := Get("test")
	if !ok {
		t.Fatal("expected module to be found")
	}
	if got.Name != "test" {
		t.Errorf("name = %q, want %q", got.Name, "test")
	}

	_, ok = Get("nonexistent")
	if ok {
		t.Error("expected false for unknown module")
	}
}

func TestIsModule(t *testing.T) {
	withCleanRegistry(t)
	Register(&Module{Name: "test"})

	if !IsModule("test") {
		t.Error("expected true for registered module")
	}
	if IsModule("nope") {
		t.Error("expected false for unregistered module")
	}
}

func TestNames(t *testing.T) {
	withCleanRegistry(t)
	Register(&Module{Name: "beta"})
	Register(&Module{Name: "alpha"})

	names := Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("Names() = %v, want [alpha beta]", names)
	}
}

func TestLookupCmd(t *testing.T) {
	withCleanRegistry(t)
	Register(&Module{
		Name: "test",
		Cmds: []CmdDef{{Name: "foo", Arity: 2}},
	})

	cmd, ok := LookupCmd("test", "foo")
	if !ok {
		t.Fatal("expected command to be found")
	}
	if cmd.Arity != 2 {
		t.Errorf("arity = %d, want 2", cmd.Arity)
	}

	if _, ok := LookupCmd("test", "bar"); ok {
		t.Error("expected false for unknown command")
	}
	if _, ok := LookupCmd("nope", "foo"); ok {
		t.Error("expected false for unknown module")
	}
}

func TestCleanRuntime(t *testing.T) {
	src := "// header comment\n// more header\n\nif (!__n_modules.x) {\n  __n_modules.x = {};\n}\n"
	got := CleanRuntime(src)
	if strings.Contains(got, "header") {
		t.Errorf("header not stripped: %q", got)
	}
	if !strings.HasPrefix(got, "if (!__n_modules.x)") {
		t.Errorf("unexpected start: %q", got)
	}
	if !strings.HasSuffix(got, "}\n") {
		t.Errorf("missing trailing newline: %q", got)
	}
}
