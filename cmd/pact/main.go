// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// PACT is a tool for the analysis of coalescent trees.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/pact/cmd/pact/paramcmd"
	"github.com/js-arias/pact/cmd/pact/prj"
	"github.com/js-arias/pact/cmd/pact/run"
	"github.com/js-arias/pact/cmd/pact/tree"
)

var app = &command.Command{
	Usage: "pact <command> [<argument>...]",
	Short: "a tool for the analysis of coalescent trees",
}

func init() {
	app.Add(paramcmd.Command)
	app.Add(prj.Command)
	app.Add(run.Command)
	app.Add(tree.Command)
}

func main() {
	app.Main()
}
