// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package coaltree

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// PresentTime returns the most recent time in the tree.
func (t *Tree) PresentTime() float64 {
	return t.present()
}

// RootTime returns the time of the root.
func (t *Tree) RootTime() float64 {
	if t.root < 0 {
		return math.NaN()
	}
	return t.nodes[t.root].Time
}

// TMRCA returns the time span of the tree,
// from the root to the present.
func (t *Tree) TMRCA() float64 {
	return t.present() - t.RootTime()
}

// LeafCount returns the number of tips in the tree.
func (t *Tree) LeafCount() int {
	return len(t.tips())
}

// NodeCount returns the number of nodes in the tree.
func (t *Tree) NodeCount() int {
	return len(t.preorder())
}

// Length returns the sum of the branch lengths
// of the included branches.
func (t *Tree) Length() float64 {
	return t.lengthFunc(func(v *vertex) bool { return true })
}

// LengthLabel returns the sum of the branch lengths
// of the included branches with the given label.
func (t *Tree) LengthLabel(label int) float64 {
	return t.lengthFunc(func(v *vertex) bool { return v.Label == label })
}

func (t *Tree) lengthFunc(fn func(v *vertex) bool) float64 {
	if t.root < 0 {
		return math.NaN()
	}
	var sum float64
	for _, id := range t.preorder() {
		if !t.edgeIn(id) {
			continue
		}
		v := t.nodes[id]
		if !fn(v) {
			continue
		}
		sum += v.Length
	}
	return sum
}

// LabelPro returns the proportion of the tree length
// with the given label.
func (t *Tree) LabelPro(label int) float64 {
	l := t.Length()
	if !(l > 0) {
		return math.NaN()
	}
	return t.LengthLabel(label) / l
}

// RootLabelPro returns 1 if the root has the given label,
// and 0 otherwise.
func (t *Tree) RootLabelPro(label int) float64 {
	if t.root < 0 {
		return math.NaN()
	}
	if t.nodes[t.root].Label == label {
		return 1
	}
	return 0
}

// TrunkPro returns the proportion of the tree length
// that is part of the trunk.
func (t *Tree) TrunkPro() float64 {
	l := t.Length()
	if !(l > 0) {
		return math.NaN()
	}
	return t.lengthFunc(func(v *vertex) bool { return v.Trunk }) / l
}

// LabelProFromTips returns the proportion of tips
// that have an ancestor with the given label,
// at the given time back from the tip.
func (t *Tree) LabelProFromTips(label int, back float64) float64 {
	return t.labelProFromTips(label, back, func(v *vertex) bool { return true })
}

// LabelProFromTipsCond returns the proportion of tips
// with a given label
// that have an ancestor with the given label,
// at the given time back from the tip.
func (t *Tree) LabelProFromTipsCond(label int, back float64, tipLabel int) float64 {
	return t.labelProFromTips(label, back, func(v *vertex) bool { return v.Label == tipLabel })
}

func (t *Tree) labelProFromTips(label int, back float64, fn func(v *vertex) bool) float64 {
	var n, c int
	for _, id := range t.tips() {
		v := t.nodes[id]
		if !v.Leaf || !fn(v) {
			continue
		}
		a := t.nodeBack(id, back)
		if a < 0 {
			continue
		}
		n++
		if t.nodes[a].Label == label {
			c++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return float64(c) / float64(n)
}

// nodeBack returns the node whose branch
// contains the time at the given time back from a node.
// It returns -1 if the time is before the root.
func (t *Tree) nodeBack(id int, back float64) int {
	if back < 0 {
		return -1
	}
	target := t.nodes[id].Time - back
	if target < t.nodes[t.root].Time-tol {
		return -1
	}
	n := id
	for {
		p := t.nodes[n].parent
		if p < 0 || t.nodes[p].Time <= target {
			return n
		}
		n = p
	}
}

// CoalCount returns the number of coalescent events
// in the included nodes of the tree.
func (t *Tree) CoalCount() int {
	var n int
	for _, id := range t.preorder() {
		v := t.nodes[id]
		if v.Include && len(v.children) > 1 {
			n++
		}
	}
	return n
}

// CoalCountLabel returns the number of coalescent events
// with the given label.
func (t *Tree) CoalCountLabel(label int) int {
	var n int
	for _, id := range t.preorder() {
		v := t.nodes[id]
		if v.Include && len(v.children) > 1 && v.Label == label {
			n++
		}
	}
	return n
}

// CoalWeight returns the opportunity for coalescence:
// the sum over time of n(n-1)/2,
// in which n is the number of lineages
// at a given time.
func (t *Tree) CoalWeight() float64 {
	return t.coalWeight(func(v *vertex) bool { return true })
}

// CoalWeightLabel returns the opportunity for coalescence
// for lineages with the given label.
func (t *Tree) CoalWeightLabel(label int) float64 {
	return t.coalWeight(func(v *vertex) bool { return v.Label == label })
}

type event struct {
	time  float64
	delta int

	// trunk lineage
	trunk bool
}

// events returns the start and end events
// of the included branches accepted by fn,
// sorted by time.
func (t *Tree) events(fn func(v *vertex) bool) []event {
	var ev []event
	for _, id := range t.preorder() {
		if !t.edgeIn(id) {
			continue
		}
		v := t.nodes[id]
		if !fn(v) {
			continue
		}
		pv := t.nodes[v.parent]
		ev = append(ev,
			event{time: pv.Time, delta: 1, trunk: v.Trunk},
			event{time: v.Time, delta: -1, trunk: v.Trunk},
		)
	}
	slices.SortStableFunc(ev, func(a, b event) int {
		if a.time < b.time {
			return -1
		}
		if a.time > b.time {
			return 1
		}
		return 0
	})
	return ev
}

func (t *Tree) coalWeight(fn func(v *vertex) bool) float64 {
	if t.root < 0 {
		return math.NaN()
	}
	ev := t.events(fn)
	if len(ev) == 0 {
		return 0
	}

	var w float64
	var n int
	prev := ev[0].time
	for _, e := range ev {
		dt := e.time - prev
		w += dt * float64(n*(n-1)) / 2
		n += e.delta
		prev = e.time
	}
	return w
}

// CoalRate returns the rate of coalescence:
// the number of coalescent events
// divided by the opportunity for coalescence.
func (t *Tree) CoalRate() float64 {
	w := t.CoalWeight()
	if !(w > 0) {
		return math.NaN()
	}
	return float64(t.CoalCount()) / w
}

// CoalRateLabel returns the rate of coalescence
// of the given label.
func (t *Tree) CoalRateLabel(label int) float64 {
	w := t.CoalWeightLabel(label)
	if !(w > 0) {
		return math.NaN()
	}
	return float64(t.CoalCountLabel(label)) / w
}

// CoalCountTrunk returns the number of coalescent events
// between a trunk lineage and a side branch.
func (t *Tree) CoalCountTrunk() int {
	var n int
	for _, id := range t.preorder() {
		v := t.nodes[id]
		if !v.Include || !v.Trunk || len(v.children) < 2 {
			continue
		}
		var trunk int
		for _, c := range v.children {
			if t.nodes[c].Trunk {
				trunk++
			}
		}
		if trunk == 1 {
			n++
		}
	}
	return n
}

// CoalWeightTrunk returns the opportunity for coalescence
// of side branches with the trunk:
// the sum over time of the number of side branch lineages,
// while a trunk lineage exists.
func (t *Tree) CoalWeightTrunk() float64 {
	if t.root < 0 {
		return math.NaN()
	}
	ev := t.events(func(v *vertex) bool { return true })
	if len(ev) == 0 {
		return 0
	}

	var w float64
	var trunk, side int
	prev := ev[0].time
	for _, e := range ev {
		dt := e.time - prev
		if trunk > 0 {
			w += dt * float64(side)
		}
		if e.trunk {
			trunk += e.delta
		} else {
			side += e.delta
		}
		prev = e.time
	}
	return w
}

// MigCount returns the number of migration events:
// the number of included branches
// in which the label of the node
// is different from the label of its parent.
func (t *Tree) MigCount() int {
	var n int
	for _, id := range t.preorder() {
		if !t.edgeIn(id) {
			continue
		}
		v := t.nodes[id]
		if v.Label != t.nodes[v.parent].Label {
			n++
		}
	}
	return n
}

// MigCountLabels returns the number of migration events
// from a label to another label.
func (t *Tree) MigCountLabels(from, to int) int {
	if from == to {
		return 0
	}
	var n int
	for _, id := range t.preorder() {
		if !t.edgeIn(id) {
			continue
		}
		v := t.nodes[id]
		if v.Label == to && t.nodes[v.parent].Label == from {
			n++
		}
	}
	return n
}

// MigRate returns the number of migration events
// per unit of tree length.
func (t *Tree) MigRate() float64 {
	l := t.Length()
	if !(l > 0) {
		return math.NaN()
	}
	return float64(t.MigCount()) / l
}

// MigRateLabels returns the number of migration events
// from a label to another label,
// per unit of tree length with the source label.
func (t *Tree) MigRateLabels(from, to int) float64 {
	l := t.LengthLabel(from)
	if !(l > 0) {
		return math.NaN()
	}
	return float64(t.MigCountLabels(from, to)) / l
}

// Persistence returns the mean time from a tip
// to its first ancestor with a different label.
// Tips without an ancestor with a different label
// are ignored.
func (t *Tree) Persistence() float64 {
	p := t.persistence(func(v *vertex) bool { return true })
	if len(p) == 0 {
		return math.NaN()
	}
	return stat.Mean(p, nil)
}

// PersistenceLabel returns the mean persistence
// of the tips with the given label.
func (t *Tree) PersistenceLabel(label int) float64 {
	p := t.persistence(func(v *vertex) bool { return v.Label == label })
	if len(p) == 0 {
		return math.NaN()
	}
	return stat.Mean(p, nil)
}

// PersistenceQuantile returns the given quantile
// of the persistence of the tips.
func (t *Tree) PersistenceQuantile(p float64) float64 {
	return quantile(p, t.persistence(func(v *vertex) bool { return true }))
}

// PersistenceQuantileLabel returns the given quantile
// of the persistence of the tips with the given label.
func (t *Tree) PersistenceQuantileLabel(p float64, label int) float64 {
	return quantile(p, t.persistence(func(v *vertex) bool { return v.Label == label }))
}

func (t *Tree) persistence(fn func(v *vertex) bool) []float64 {
	var p []float64
	for _, id := range t.tips() {
		v := t.nodes[id]
		if !v.Leaf || !fn(v) {
			continue
		}
		for a := v.parent; a >= 0; a = t.nodes[a].parent {
			av := t.nodes[a]
			if av.Label != v.Label {
				p = append(p, v.Time-av.Time)
				break
			}
		}
	}
	return p
}

// quantile returns the empirical quantile of a sample.
func quantile(p float64, x []float64) float64 {
	if len(x) == 0 || p < 0 || p > 1 || math.IsNaN(p) {
		return math.NaN()
	}
	slices.Sort(x)
	return stat.Quantile(p, stat.Empirical, x, nil)
}

// MeanRate returns the mean of the rate of the tips.
func (t *Tree) MeanRate() float64 {
	var r []float64
	for _, id := range t.tips() {
		r = append(r, t.nodes[id].Rate)
	}
	if len(r) == 0 {
		return math.NaN()
	}
	return stat.Mean(r, nil)
}

// TipNames returns the names of the tips in the tree,
// in pre-order.
// Unnamed tips are ignored.
func (t *Tree) TipNames() []string {
	var names []string
	for _, id := range t.tips() {
		if n := t.nodes[id].Name; n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Time returns the time of the node with the given name.
func (t *Tree) Time(name string) float64 {
	id := t.findName(name)
	if id < 0 {
		return math.NaN()
	}
	return t.nodes[id].Time
}

// Label returns the label of the node with the given name.
func (t *Tree) Label(name string) (int, bool) {
	id := t.findName(name)
	if id < 0 {
		return 0, false
	}
	return t.nodes[id].Label, true
}

// TimeToTrunk returns the time from the named tip
// to its first ancestor in the trunk.
// If the tip is part of the trunk,
// it returns 0.
func (t *Tree) TimeToTrunk(name string) float64 {
	id := t.findName(name)
	if id < 0 {
		return math.NaN()
	}
	v := t.nodes[id]
	for a := id; a >= 0; a = t.nodes[a].parent {
		if t.nodes[a].Trunk {
			return v.Time - t.nodes[a].Time
		}
	}
	return math.NaN()
}
