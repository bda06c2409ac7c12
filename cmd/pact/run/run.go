// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package run implements a command to evaluate
// the statistics of a sample of coalescent trees.
package run

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/pact/param"
	"github.com/js-arias/pact/project"
	"github.com/js-arias/pact/report"
)

var Command = &command.Command{
	Usage: `run [--scale <value>] [-o|--output <prefix>]
	[--cpu <number>] <project-file>`,
	Short: "evaluate statistics on a sample of trees",
	Long: `
Command run reads a PACT project, applies the tree manipulations defined in
the project parameters to each tree of the sample, and evaluates the
statistics defined in the parameters.

The argument of the command is the name of the project file.

The trees are read from the tree file of the project. If the project does not
have a tree file, the time calibrated trees of the project will be used. By
default, the ages of time calibrated trees are used as given (in years). Use
the flag --scale to define a different time unit, for example, 1000000 for
million years.

The results are written in tab-delimited files, using the name of the project
(without extension) as prefix. Use the flag -o, or --output, to set a
different prefix. The following files will be written, depending on the
parameters:

	<prefix>.stats     summary statistics
	<prefix>.skylines  statistics through time
	<prefix>.tips      statistics of each tip
	<prefix>.pairs     statistics of pairs of tips
	<prefix>.rules     the rule list of the tree with the highest
	                   probability
	<prefix>-trees/    the rule list of each tree

Undefined values are written as "NA".

By default, all available CPUs will be used in the processing. Set --cpu flag
to use a different number of CPUs.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var numCPU int
var output string
var scale float64

func setFlags(c *command.Command) {
	c.Flags().IntVar(&numCPU, "cpu", runtime.GOMAXPROCS(0), "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().Float64Var(&scale, "scale", 1, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if scale <= 0 {
		return c.UsageError(fmt.Sprintf("invalid scale value %.6f", scale))
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	d, err := report.ReadProject(p, scale)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Stderr(), "%d trees read\n", d.Sample.Len())

	pp := d.Param
	if pp.Any(param.Manip) || len(d.Order) > 0 || pp.Has(param.Ordering) {
		fmt.Fprintf(c.Stderr(), "performing tree manipulations\n")
		if err := d.Sample.Manip(pp, d.Order, numCPU); err != nil {
			return err
		}
	}

	if output == "" {
		output = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
	}

	r := report.New(d.Sample, pp)
	r.CPU = numCPU
	r.Log = c.Stderr()

	if pp.Has(param.PrintTree) || pp.Has(param.PrintCircularTree) {
		err := writeFile(output+".rules", func(w io.Writer) error {
			return r.Rules(w, d.Order)
		})
		if err != nil {
			return err
		}
	}
	if pp.Has(param.PrintAllTrees) {
		if err := allTrees(r, d); err != nil {
			return err
		}
	}
	if pp.Any(param.Summary) {
		if err := writeFile(output+".stats", r.Summary); err != nil {
			return err
		}
	}
	if pp.Any(param.Skylines) {
		if err := writeFile(output+".skylines", r.Skylines); err != nil {
			return err
		}
	}
	if pp.Any(param.Tips) {
		if err := writeFile(output+".tips", r.Tips); err != nil {
			return err
		}
	}
	if pp.Any(param.Pairs) {
		if err := writeFile(output+".pairs", r.Pairs); err != nil {
			return err
		}
	}
	return nil
}

func allTrees(r *report.Report, d *report.Data) error {
	dir := output + "-trees"
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for i := 0; i < d.Sample.Len(); i++ {
		name := filepath.Join(dir, fmt.Sprintf("tree%d.rules", i+1))
		err := writeFile(name, func(w io.Writer) error {
			return r.TreeRules(w, i, d.Order)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFile(name string, fn func(w io.Writer) error) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	return nil
}
