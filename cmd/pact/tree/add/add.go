// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package add implements a command to add trees
// to a PACT project.
package add

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/pact/project"
	"github.com/js-arias/pact/report"
	"github.com/js-arias/timetree"
)

var Command = &command.Command{
	Usage: `add [-f|--file <tree-file>]
	[--time] [--newick <name>] [--age <value>]
	<project-file> [<tree-file>...]`,
	Short: "add trees to a PACT project",
	Long: `
Command add reads the trees from a tree file and adds them to a PACT project.

The first argument of the command is the name of the project file. If no
project file exists, a new project will be created.

By default, the tree file is a sample of coalescent trees, with a tree per
line, as produced by programs such as BEAST or migrate. The file is validated,
and it is set as the tree file of the project. Only a single tree file can be
added in this way.

If the flag --time is set, the trees are read as time calibrated trees stored
in tab-delimited files. One or more tree files can be given as arguments. If
no file is given the trees will be read from the standard input. To import
newick trees (i.e., trees in parenthetical format) as time calibrated trees,
use the flag --newick with a name to be defined for the trees found in the
input files. It is expected that branch lengths were given in years. By
default, the age of the root will be calculated from the largest branch length
between any terminal and the root. To set a different root age, use the flag
--age, with a value in years.

By default the time calibrated trees will be stored in the time tree file
currently defined for the project. If the project does not have a time tree
file, a new one will be created with the name 'timetrees.tab'. A different
file name can be defined using the flag --file, or -f.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeFile string
var newickName string
var rootAge float64
var timeTrees bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeFile, "file", "", "")
	c.Flags().StringVar(&treeFile, "f", "", "")
	c.Flags().StringVar(&newickName, "newick", "", "")
	c.Flags().Float64Var(&rootAge, "age", 0, "")
	c.Flags().BoolVar(&timeTrees, "time", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	pFile := args[0]
	p, err := openProject(pFile)
	if err != nil {
		return err
	}

	if newickName != "" {
		timeTrees = true
	}
	if !timeTrees {
		if len(args) < 2 {
			return c.UsageError("expecting tree file")
		}
		if err := addSample(c.Stderr(), p, args[1]); err != nil {
			return err
		}
		return p.Write()
	}

	var tc *timetree.Collection
	if p.Path(project.TimeTrees) != "" {
		tc, err = p.TimeTrees()
		if err != nil {
			return err
		}
	}
	if tc == nil {
		tc = timetree.NewCollection()
	}

	args = args[1:]
	if len(args) == 0 {
		args = append(args, "-")
	}
	for i, a := range args {
		fn := a
		if fn == "-" {
			fn = ""
			a = "stdin"
		}
		var nc *timetree.Collection
		if newickName != "" {
			tn := newickName
			if i > 0 {
				tn = fmt.Sprintf("%s.%d", newickName, i)
			}
			nc, err = readNewick(c.Stdin(), fn, tn)
		} else {
			nc, err = readTreeFile(c.Stdin(), fn)
		}
		if err != nil {
			return err
		}

		for _, tn := range nc.Names() {
			t := nc.Tree(tn)
			if err := tc.Add(t); err != nil {
				return fmt.Errorf("when adding trees from %q: %v", a, err)
			}
		}
	}

	if treeFile == "" {
		treeFile = p.Path(project.TimeTrees)
		if treeFile == "" {
			treeFile = "timetrees.tab"
		}
	}

	if err := writeTrees(tc); err != nil {
		return err
	}
	p.Add(project.TimeTrees, treeFile)
	if err := p.Write(); err != nil {
		return err
	}

	return nil
}

func addSample(w io.Writer, p *project.Project, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := report.ReadTrees(f, 0)
	if err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	fmt.Fprintf(w, "%d trees in %q\n", s.Len(), name)

	if prev := p.Add(project.Trees, name); prev != "" && prev != name {
		fmt.Fprintf(w, "tree file %q replaced\n", prev)
	}
	return nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %v", name, err)
	}
	return p, nil
}

func readTreeFile(r io.Reader, name string) (*timetree.Collection, error) {
	if name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}

	c, err := timetree.ReadTSV(r)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return c, nil
}

func writeTrees(tc *timetree.Collection) (err error) {
	f, err := os.Create(treeFile)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := tc.TSV(f); err != nil {
		return fmt.Errorf("while writing to %q: %v", treeFile, err)
	}
	return nil
}

func readNewick(r io.Reader, newickFile, treeName string) (*timetree.Collection, error) {
	if newickFile != "" {
		f, err := os.Open(newickFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		newickFile = "stdin"
	}

	c, err := timetree.Newick(r, treeName, int64(rootAge))
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", newickFile, err)
	}
	return c, nil
}
