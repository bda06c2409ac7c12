// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package print implements a command to print
// a tree of a PACT project.
package print

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/pact/project"
	"github.com/js-arias/pact/report"
)

var Command = &command.Command{
	Usage: `print [--tree <number>] [--newick] [--manip]
	[--scale <value>] <project-file>`,
	Short: "print a tree",
	Long: `
Command print reads the trees of a PACT project and prints a tree in the
standard output.

The argument of the command is the name of the project file.

By default, the tree with the highest probability (or the last tree, if the
trees do not have probabilities) will be printed. Use the flag --tree to print
a different tree, counting from 1.

By default, the tree is printed as an indented list of nodes, one node per
line, with the node number, the name, the label, and the time of the node.
Nodes in the trunk are marked with "trunk". If the flag --newick is set, the
tree will be printed in parenthetical format, with labels and locations as
annotations.

If the flag --manip is set, the tree manipulations defined in the project
parameters will be applied before printing the tree.

The flag --scale sets the time unit of time calibrated trees.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeNum int
var newick bool
var manip bool
var scale float64

func setFlags(c *command.Command) {
	c.Flags().IntVar(&treeNum, "tree", 0, "")
	c.Flags().BoolVar(&newick, "newick", false, "")
	c.Flags().BoolVar(&manip, "manip", false, "")
	c.Flags().Float64Var(&scale, "scale", 1, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	d, err := report.ReadProject(p, scale)
	if err != nil {
		return err
	}

	i := d.Sample.Best()
	if treeNum > 0 {
		if treeNum > d.Sample.Len() {
			return fmt.Errorf("tree %d not found: only %d trees", treeNum, d.Sample.Len())
		}
		i = treeNum - 1
	}

	if manip {
		if err := d.Sample.Manip(d.Param, d.Order, 0); err != nil {
			return err
		}
	}

	t := d.Sample.Tree(i)
	if newick {
		return t.Newick(c.Stdout())
	}
	return t.PrintTree(c.Stdout())
}
