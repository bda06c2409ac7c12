// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to print
// the basic information of a project.
package prj

import (
	"fmt"
	"io"

	"github.com/js-arias/command"
	"github.com/js-arias/pact/param"
	"github.com/js-arias/pact/project"
	"github.com/js-arias/pact/report"
)

var Command = &command.Command{
	Usage: "prj [--scale <value>] <project-file>",
	Short: "print information about a project",
	Long: `
Command prj reads a PACT project and prints the information of the different
project elements into the standard output.

The argument of the command is the name of the project file.

If the trees are read from time calibrated trees, the flag --scale sets the
time unit of the ages (for example, 1000000 for million years).
	`,
	SetFlags: setFlags,
	Run:      run,
}

var scale float64

func setFlags(c *command.Command) {
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

	w := c.Stdout()
	fmt.Fprintf(w, "project %q\n", args[0])
	for _, s := range p.Sets() {
		fmt.Fprintf(w, "\t%s\t%s\n", s, p.Path(s))
	}

	d, err := report.ReadProject(p, scale)
	if err != nil {
		return err
	}
	printSample(w, d.Sample)
	printParam(w, d.Param)
	if tips := d.Labels.Tips(); len(tips) > 0 {
		fmt.Fprintf(w, "tip labels: %d tips, labels %v\n", len(tips), d.Labels.Labels())
	}
	if len(d.Order) > 0 {
		fmt.Fprintf(w, "ordering: %d tips\n", len(d.Order))
	}
	return nil
}

func printSample(w io.Writer, s *report.Sample) {
	fmt.Fprintf(w, "trees: %d\n", s.Len())
	t := s.Tree(s.Best())
	fmt.Fprintf(w, "\tbest tree: %d\n", s.Best()+1)
	fmt.Fprintf(w, "\ttips: %d\n", t.LeafCount())
	fmt.Fprintf(w, "\ttmrca: %.6f\n", t.TMRCA())
	fmt.Fprintf(w, "\tlabels: %v\n", s.LabelSet())
}

func printParam(w io.Writer, p *param.P) {
	ps := p.Params()
	if len(ps) == 0 {
		return
	}
	fmt.Fprintf(w, "parameters:\n")
	for _, par := range ps {
		fmt.Fprintf(w, "\t%s\t%s\n", par, p.String(par))
	}
}
