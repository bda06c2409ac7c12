// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package coaltree

import (
	"github.com/js-arias/timetree"
)

// FromTimeTree creates a new tree
// from a time calibrated tree.
// Node ages (in years before present)
// are divided by scale,
// and the time of each node is set as the negative
// of the scaled age,
// so the present is at time 0.
// If scale is zero or negative,
// the ages are used as given.
//
// Terminal labels are derived from the taxon names.
func FromTimeTree(tt *timetree.Tree, scale float64) *Tree {
	if scale <= 0 {
		scale = 1
	}
	t := &Tree{root: -1}

	type item struct {
		id     int
		parent int
	}
	stack := []item{{id: tt.Root(), parent: -1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := Node{
			Time:    -float64(tt.Age(it.id)) / scale,
			Label:   1,
			Include: true,
		}
		if tt.IsTerm(it.id) {
			n.Name = tt.Taxon(it.id)
		}
		id := t.add(it.parent, n)

		children := tt.Children(it.id)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, item{id: children[i], parent: id})
		}
	}

	t.init(nil)
	return t
}
