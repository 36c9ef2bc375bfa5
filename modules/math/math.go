// Package mathmod provides the math host module.
package mathmod

import (
	_ "embed"

	"github.com/ankitr/N-lang/modules"
)

//go:embed runtime.js
var runtime string

func init() {
	modules.Register(&modules.Module{
		Name: "math",
		Doc:  "Mathematical functions and constants.",
		Cmds: []modules.CmdDef{
			{Name: "abs", Arity: 1, Doc: "Return the absolute value of n."},
			{Name: "ceil", Arity: 1, Doc: "Round n up to the nearest integer."},
			{Name: "floor", Arity: 1, Doc: "Round n down to the nearest integer."},
			{Name: "round", Arity: 1, Doc: "Round n to the nearest integer."},
			{Name: "sqrt", Arity: 1, Doc: "Return the square root of n."},
			{Name: "max", Arity: 2, Doc: "Return the larger of a and b."},
			{Name: "min", Arity: 2, Doc: "Return the smaller of a and b."},
			{Name: "pi", Doc: "Return the value of Pi."},
			{Name: "random", Doc: "Return a random float in [0.0, 1.0)."},
		},
		Runtime: modules.CleanRuntime(runtime),
	})
}
