// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/js-arias/pact/tiplabel"
	"github.com/js-arias/timetree"
)

// Labels reads a tip label file
// as defined in a project.
// If no label file is defined,
// it returns an empty set of labels.
func (p *Project) Labels() (*tiplabel.Labels, error) {
	name := p.Path(Labels)
	if name == "" {
		return tiplabel.New(), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := tiplabel.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return l, nil
}

// Ordering reads the tip ordering file
// as defined in a project.
func (p *Project) Ordering() ([]string, error) {
	name := p.Path(Ordering)
	if name == "" {
		return nil, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	o, err := tiplabel.ReadOrder(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return o, nil
}

// TimeTrees reads a time tree collection file
// as defined in a project.
func (p *Project) TimeTrees() (*timetree.Collection, error) {
	name := p.Path(TimeTrees)
	if name == "" {
		return nil, fmt.Errorf("time trees not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := timetree.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return c, nil
}
