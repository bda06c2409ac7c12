// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package labels implements a command to print
// or add the labels of the tips
// in the trees of a PACT project.
package labels

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/pact/project"
	"github.com/js-arias/pact/report"
	"github.com/js-arias/pact/tiplabel"
)

var Command = &command.Command{
	Usage: "labels [--add <label-file>] [--scale <value>] <project-file>",
	Short: "print or add tip labels",
	Long: `
Command labels reads the trees of a PACT project and prints the label of each
tip as a tab-delimited table, into the standard output.

The argument of the command is the name of the project file.

By default, the label of a tip is defined by the leading digits of the tip
name. A tab-delimited table with the label of the tips can be used to override
the labels. The table must have the following columns:

	- tip    the name of the tip
	- label  an integer with the label of the tip

Here is an example file:

	tip	label
	A/Hong_Kong/1/1968	1
	A/Wellington/1/2004	2

To add a label table to the project use the flag --add with the name of the
table file.

The flag --scale sets the time unit of time calibrated trees.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var addFile string
var scale float64

func setFlags(c *command.Command) {
	c.Flags().StringVar(&addFile, "add", "", "")
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

	if addFile != "" {
		if err := validate(addFile); err != nil {
			return err
		}
		p.Add(project.Labels, addFile)
		if err := p.Write(); err != nil {
			return err
		}
	}

	d, err := report.ReadProject(p, scale)
	if err != nil {
		return err
	}

	l := tiplabel.New()
	for i := 0; i < d.Sample.Len(); i++ {
		t := d.Sample.Tree(i)
		for _, tn := range t.TipNames() {
			if _, ok := l.Label(tn); ok {
				continue
			}
			lb, _ := t.Label(tn)
			l.Set(tn, lb)
		}
	}
	return l.TSV(c.Stdout())
}

func validate(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := tiplabel.ReadTSV(f); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}
