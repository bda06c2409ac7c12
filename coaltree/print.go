// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package coaltree

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
)

// PrintTree writes the tree as an indented list,
// one node per line,
// with the node number,
// name, label, and time.
func (t *Tree) PrintTree(w io.Writer) error {
	bw := bufio.NewWriter(w)
	depth := make(map[int]int, len(t.nodes))
	for _, id := range t.preorder() {
		v := t.nodes[id]
		d := 0
		if v.parent >= 0 {
			d = depth[v.parent] + 1
		}
		depth[id] = d

		fmt.Fprintf(bw, "%s%d", strings.Repeat("  ", d), v.Number)
		if v.Name != "" {
			fmt.Fprintf(bw, " %s", v.Name)
		}
		fmt.Fprintf(bw, " [%d] %.6f", v.Label, v.Time)
		if v.Trunk {
			fmt.Fprintf(bw, " trunk")
		}
		fmt.Fprintf(bw, "\n")
	}
	return bw.Flush()
}

// RuleList writes the tree as a list of rules,
// one for each branch,
// in the form:
//
//	{parent -> child, {{x0, y0}, {x1, y1}}, label}
//
// in which the points are the positions
// of the parent and the child in a tree drawing.
// In a rectangular drawing,
// X is the time and Y is the layout coordinate
// (tips are placed in pre-order).
// If circular is true,
// the tree is drawn around the root.
func (t *Tree) RuleList(w io.Writer, circular bool) error {
	next := 0
	for _, id := range t.tips() {
		t.nodes[id].Coord = float64(next)
		next++
	}
	t.internalCoords()
	return t.writeRules(w, circular)
}

// RuleListWithOrdering writes the tree as a list of rules,
// using an ordering of the tips
// to set the layout coordinates.
func (t *Tree) RuleListWithOrdering(w io.Writer, names []string) error {
	t.SetCoords(names)
	return t.writeRules(w, false)
}

func (t *Tree) writeRules(w io.Writer, circular bool) error {
	bw := bufio.NewWriter(w)
	if t.root < 0 {
		return bw.Flush()
	}

	rootTime := t.nodes[t.root].Time
	nTips := float64(t.LeafCount())
	point := func(v *vertex) (float64, float64) {
		if !circular {
			return v.Time, v.Coord
		}
		angle := 2 * math.Pi * v.Coord / nTips
		r := v.Time - rootTime
		return r * math.Cos(angle), r * math.Sin(angle)
	}

	for _, id := range t.preorder() {
		v := t.nodes[id]
		if v.parent < 0 {
			continue
		}
		pv := t.nodes[v.parent]
		x0, y0 := point(pv)
		x1, y1 := point(v)
		fmt.Fprintf(bw, "{%d -> %d, {{%s, %s}, {%s, %s}}, %d}\n", pv.Number, v.Number, formatFloat(x0), formatFloat(y0), formatFloat(x1), formatFloat(y1), v.Label)
	}
	return bw.Flush()
}
