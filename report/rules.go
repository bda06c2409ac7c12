// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"

	"github.com/js-arias/pact/param"
)

// Rules writes the rule list
// of the tree with the highest probability.
func (r *Report) Rules(w io.Writer, order []string) error {
	return r.TreeRules(w, r.s.Best(), order)
}

// TreeRules writes the rule list
// of the i-th tree of the sample.
// If order is empty,
// the ordering defined in the parameters is used.
func (r *Report) TreeRules(w io.Writer, i int, order []string) error {
	if i < 0 || i >= r.s.Len() {
		return fmt.Errorf("invalid tree index %d", i)
	}
	if len(order) == 0 {
		order = r.p.Names(param.Ordering)
	}

	t := r.s.trees[i].Clone()
	// circular trees ignore the ordering
	if r.p.Has(param.PrintCircularTree) {
		return t.RuleList(w, true)
	}
	if len(order) > 0 {
		return t.RuleListWithOrdering(w, order)
	}
	return t.RuleList(w, false)
}
