// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package terms implements a command to print
// the list of the tips in the trees of a PACT project.
package terms

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/pact/project"
	"github.com/js-arias/pact/report"
	"golang.org/x/exp/slices"
)

var Command = &command.Command{
	Usage: "terms [--scale <value>] [--time] <project-file>",
	Short: "print a list of tree tips",
	Long: `
Command terms reads the trees from a PACT project and prints the name of the
tips in the standard output, sorted by name.

The argument of the command is the name of the project file.

By default, all tips found in any tree will be printed. If the flag --time is
set, the time of each tip (as found in the first tree that contains the tip)
will be printed after the name.

The flag --scale sets the time unit of time calibrated trees.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var scale float64
var printTime bool

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&scale, "scale", 1, "")
	c.Flags().BoolVar(&printTime, "time", false, "")
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

	times := make(map[string]float64)
	for i := 0; i < d.Sample.Len(); i++ {
		t := d.Sample.Tree(i)
		for _, tn := range t.TipNames() {
			if _, ok := times[tn]; ok {
				continue
			}
			times[tn] = t.Time(tn)
		}
	}

	terms := make([]string, 0, len(times))
	for tn := range times {
		terms = append(terms, tn)
	}
	slices.Sort(terms)

	for _, tn := range terms {
		if printTime {
			fmt.Fprintf(c.Stdout(), "%s\t%.6f\n", tn, times[tn])
			continue
		}
		fmt.Fprintf(c.Stdout(), "%s\n", tn)
	}
	return nil
}
