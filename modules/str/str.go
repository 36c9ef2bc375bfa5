// Package strmod provides the str host module: string conversions and
// helpers, including intInBase10.
package strmod

import (
	_ "embed"

	"github.com/ankitr/N-lang/modules"
)

//go:embed runtime.js
var runtime string

func init() {
	modules.Register(&modules.Module{
		Name: "str",
		Doc:  "String conversions and helpers.",
		Cmds: []modules.CmdDef{
			{Name: "intInBase10", Arity: 1, Doc: "Render an integer as a base-10 string."},
			{Name: "length", Arity: 1, Doc: "Return the number of characters in a string."},
			{Name: "upper", Arity: 1, Doc: "Uppercase a string."},
			{Name: "lower", Arity: 1, Doc: "Lowercase a string."},
			{Name: "concat", Variadic: true, Doc: "Concatenate all arguments into one string."},
		},
		Runtime: modules.CleanRuntime(runtime),
	})
}
