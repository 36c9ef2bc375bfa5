// Package sysmod provides the sys host module.
package sysmod

import (
	_ "embed"

	"github.com/ankitr/N-lang/modules"
)

//go:embed runtime.js
var runtime string

func init() {
	modules.Register(&modules.Module{
		Name: "sys",
		Doc:  "Host environment introspection.",
		Cmds: []modules.CmdDef{
			{Name: "time", Doc: "Return milliseconds since the Unix epoch."},
			{Name: "platform", Doc: "Return the name of the execution backend."},
		},
		Runtime: modules.CleanRuntime(runtime),
	})
}
