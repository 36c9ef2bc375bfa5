package main

import (
	"github.com/ankitr/N-lang/cmd"
	_ "github.com/ankitr/N-lang/modules/math"
	_ "github.com/ankitr/N-lang/modules/str"
	_ "github.com/ankitr/N-lang/modules/sys"
)

var version = "v0.1.0"

func main() {
	cmd.Execute(version)
}
