package doc

import (
	"strings"
	"testing"

	"github.com/ankitr/N-lang/modules"
	_ "github.com/ankitr/N-lang/modules/math"
	_ "github.com/ankitr/N-lang/modules/str"
)

func TestFormatAll(t *testing.T) {
	out := FormatAll()
	for _, name := range modules.Names() {
		if !strings.Contains(out, name) {
			t.Errorf("FormatAll() missing module %q:\n%s", name, out)
		}
	}
}

func TestFormatModule(t *testing.T) {
	out, err := FormatModule("str")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "str.intInBase10 arg1") {
		t.Errorf("missing command listing:\n%s", out)
	}
}

func TestFormatModule_Unknown(t *testing.T) {
	if _, err := FormatModule("nope"); err == nil {
		t.Error("expected error for unknown module")
	}
}
