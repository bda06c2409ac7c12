// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package report

import (
	"errors"
	"fmt"
	"os"

	"github.com/js-arias/pact/param"
	"github.com/js-arias/pact/project"
	"github.com/js-arias/pact/tiplabel"
)

// ErrNoTreeFile is returned when a project
// does not define a tree file.
var ErrNoTreeFile = errors.New("tree file undefined")

// Data contains the data files of a PACT project.
type Data struct {
	Sample *Sample
	Param  *param.P
	Labels *tiplabel.Labels
	Order  []string
}

// ReadProject reads the data files of a project.
//
// The trees are read from the trees dataset,
// or if it is undefined,
// from the time trees dataset,
// with the ages divided by scale.
// Tip labels are set on the trees
// as soon as the trees are read.
func ReadProject(p *project.Project, scale float64) (*Data, error) {
	d := &Data{
		Param:  param.New(""),
		Labels: tiplabel.New(),
	}

	if pf := p.Path(project.Param); pf != "" {
		pp, err := param.Read(pf)
		if err != nil {
			return nil, err
		}
		d.Param = pp
	}

	l, err := p.Labels()
	if err != nil {
		return nil, err
	}
	d.Labels = l

	d.Order, err = p.Ordering()
	if err != nil {
		return nil, err
	}

	if tf := p.Path(project.Trees); tf != "" {
		d.Sample, err = readTreeFile(tf, d.Param.Burnin())
	} else if p.Path(project.TimeTrees) != "" {
		d.Sample, err = readTimeTrees(p, scale)
	} else {
		return nil, fmt.Errorf("on project %q: %w", p.Name(), ErrNoTreeFile)
	}
	if err != nil {
		return nil, err
	}
	d.Sample.SetLabels(d.Labels)

	return d, nil
}

func readTreeFile(name string, burnin int) (*Sample, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ReadTrees(f, burnin)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %w", name, err)
	}
	return s, nil
}

func readTimeTrees(p *project.Project, scale float64) (*Sample, error) {
	c, err := p.TimeTrees()
	if err != nil {
		return nil, err
	}
	s, err := FromTimeTrees(c, scale)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %w", p.Path(project.TimeTrees), err)
	}
	return s, nil
}
