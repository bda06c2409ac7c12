// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree is a metapackage for commands
// that dealt with coalescent trees.
package tree

import (
	"github.com/js-arias/command"
	"github.com/js-arias/pact/cmd/pact/tree/add"
	"github.com/js-arias/pact/cmd/pact/tree/labels"
	"github.com/js-arias/pact/cmd/pact/tree/print"
	"github.com/js-arias/pact/cmd/pact/tree/terms"
)

var Command = &command.Command{
	Usage: "tree <command> [<argument>...]",
	Short: "commands for coalescent trees",
}

func init() {
	Command.Add(add.Command)
	Command.Add(labels.Command)
	Command.Add(print.Command)
	Command.Add(terms.Command)
}
