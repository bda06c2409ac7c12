// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package coaltree

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// PruneToTips reduces the tree
// to the ancestors of the tips with the given names.
func (t *Tree) PruneToTips(names []string) {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	t.pruneTips(func(v *vertex) bool {
		return keep[v.Name]
	}, true)
}

// RemoveTips removes the tips with the given names.
func (t *Tree) RemoveTips(names []string) {
	rm := make(map[string]bool, len(names))
	for _, n := range names {
		rm[n] = true
	}
	t.pruneTips(func(v *vertex) bool {
		return !rm[v.Name]
	}, true)
}

// PruneToLabel reduces the tree
// to the ancestors of the tips with the given label.
func (t *Tree) PruneToLabel(label int) {
	t.pruneTips(func(v *vertex) bool {
		return v.Label == label
	}, true)
}

// PruneToTime reduces the tree
// to the ancestors of the tips sampled
// between start and stop.
func (t *Tree) PruneToTime(start, stop float64) {
	t.pruneTips(func(v *vertex) bool {
		return v.Time >= start-tol && v.Time <= stop+tol
	}, true)
}

// ReduceTips reduces the tree
// to the ancestors of a random subset of tips.
// Each tip is kept with probability pro.
func (t *Tree) ReduceTips(pro float64, rng *rand.Rand) {
	t.pruneTips(func(v *vertex) bool {
		return rng.Float64() < pro
	}, true)
}

// LeafSlice reduces the tree
// to the ancestors of the tips sampled
// between start and stop.
// Unlike PruneToTime,
// the root of the tree is kept.
func (t *Tree) LeafSlice(start, stop float64) {
	t.pruneTips(func(v *vertex) bool {
		return v.Time >= start-tol && v.Time <= stop+tol
	}, false)
}

// pruneTips deletes the tips rejected by keep,
// and then reduces the tree.
func (t *Tree) pruneTips(keep func(v *vertex) bool, peel bool) {
	for _, id := range t.tips() {
		if keep(t.nodes[id]) {
			continue
		}
		// if the root is a tip
		// the tree will be empty
		t.deleteSubtree(id)
	}
	t.reduce()
	if peel {
		t.peelBack()
	}
	t.finish()
}

// reduce removes non-root nodes with a single child,
// and internal nodes left without children.
func (t *Tree) reduce() {
	for _, id := range t.postorder() {
		v := t.nodes[id]
		if v == nil {
			continue
		}
		switch len(v.children) {
		case 0:
			if v.Leaf {
				continue
			}
			t.deleteSubtree(id)
			if t.root < 0 {
				return
			}
		case 1:
			if v.parent < 0 {
				continue
			}
			t.remove(id)
		}
	}
}

// peelBack removes the root
// while it has a single child.
func (t *Tree) peelBack() {
	for t.root >= 0 && len(t.nodes[t.root].children) == 1 {
		t.remove(t.root)
	}
}

// PruneToName reduces the tree
// to the lineage of the indicated tip.
// The nodes of the lineage are kept,
// so the resulting tree is a chain.
func (t *Tree) PruneToName(name string) error {
	id := t.findName(name)
	if id < 0 {
		return fmt.Errorf("tip %q: %w", name, ErrNotFound)
	}
	path := make(map[int]bool)
	for n := id; n >= 0; n = t.nodes[n].parent {
		path[n] = true
	}
	t.keepMarked(path)
	t.finish()
	return nil
}

// keepMarked deletes all nodes not in the marked set.
func (t *Tree) keepMarked(mark map[int]bool) {
	if t.root < 0 {
		return
	}
	if !mark[t.root] {
		t.deleteSubtree(t.root)
		return
	}
	for _, id := range t.preorder() {
		if t.nodes[id] == nil || mark[id] {
			continue
		}
		t.deleteSubtree(id)
	}
}

// RenewTrunk sets the trunk of the tree
// as the ancestors of the tips sampled
// at most t time units before the present.
func (t *Tree) RenewTrunk(tm float64) {
	p := t.present()
	var current []int
	for _, id := range t.tips() {
		if t.nodes[id].Time >= p-tm-tol {
			current = append(current, id)
		}
	}
	t.setTrunk(current)
}

// RenewTrunkRandom sets the trunk of the tree
// as the ancestors of a single tip,
// picked at random from the tips sampled
// at most t time units before the present.
func (t *Tree) RenewTrunkRandom(tm float64, rng *rand.Rand) {
	p := t.present()
	var current []int
	for _, id := range t.tips() {
		if t.nodes[id].Time >= p-tm-tol {
			current = append(current, id)
		}
	}
	if len(current) == 0 {
		t.setTrunk(nil)
		return
	}
	t.setTrunk([]int{current[rng.IntN(len(current))]})
}

func (t *Tree) setTrunk(tips []int) {
	for _, id := range t.preorder() {
		t.nodes[id].Trunk = false
	}
	for _, id := range tips {
		for n := id; n >= 0; n = t.nodes[n].parent {
			v := t.nodes[n]
			if v.Trunk {
				break
			}
			v.Trunk = true
		}
	}
}

// PruneToTrunk removes all the nodes
// that are not part of the trunk.
func (t *Tree) PruneToTrunk() {
	trunk := make(map[int]bool)
	for _, id := range t.preorder() {
		if t.nodes[id].Trunk {
			trunk[id] = true
		}
	}
	t.keepMarked(trunk)
	t.finish()
}

// TimeSlice reduces the tree
// to the part of the tree at or before the given time.
// Branches that cross the time of the slice
// end in a new tip at that time.
// If the time is before the root,
// the tree will be empty.
func (t *Tree) TimeSlice(tm float64) {
	t.slice(tm)
	t.reduce()
	t.finish()
}

func (t *Tree) slice(tm float64) {
	if t.root < 0 {
		return
	}
	if t.nodes[t.root].Time > tm+tol {
		t.deleteSubtree(t.root)
		return
	}
	for _, id := range t.preorder() {
		v := t.nodes[id]
		if v == nil {
			continue
		}
		if math.Abs(v.Time-tm) <= tol {
			for _, c := range slices.Clone(v.children) {
				t.deleteSubtree(c)
			}
			v.Leaf = true
			continue
		}
		if v.Time < tm {
			continue
		}

		// the parent is before the slice
		nid := t.insertAbove(id, tm)
		t.nodes[nid].Leaf = true
		t.deleteSubtree(id)
	}
}

// cut adds a node in each branch
// that crosses the given time.
func (t *Tree) cut(tm float64) {
	for _, id := range t.preorder() {
		v := t.nodes[id]
		if v.parent < 0 {
			continue
		}
		pv := t.nodes[v.parent]
		if pv.Time < tm-tol && v.Time > tm+tol {
			t.insertAbove(id, tm)
		}
	}
}

// TrimEnds reduces the tree to the section
// between start and stop.
// Nodes after stop are removed,
// and nodes are added at the branches
// that cross the start time.
// Only the nodes and branches inside the section
// will be included in the statistics.
func (t *Tree) TrimEnds(start, stop float64) error {
	if start > stop {
		return fmt.Errorf("invalid section: start %g after stop %g", start, stop)
	}
	t.slice(stop)
	if t.root >= 0 {
		t.cut(start)
	}
	t.windows = []window{{start: start, end: stop}}
	t.setInclude()
	t.finish()
	return nil
}

// SectionTree breaks the tree into sections
// of the given window size,
// starting at start
// and separated by step time units,
// up to the present of the tree.
// Only the nodes and branches inside a section
// will be included in the statistics.
func (t *Tree) SectionTree(start, size, step float64) error {
	if size <= 0 {
		return fmt.Errorf("invalid section window %g", size)
	}
	if step <= 0 {
		return fmt.Errorf("invalid section step %g", step)
	}
	if t.root < 0 {
		return nil
	}

	p := t.present()
	t.windows = t.windows[:0]
	for s := start; s <= p+tol; s += step {
		t.windows = append(t.windows, window{start: s, end: s + size})
		t.cut(s)
		t.cut(s + size)
	}
	t.setInclude()
	t.finish()
	return nil
}

func (t *Tree) setInclude() {
	for _, id := range t.preorder() {
		v := t.nodes[id]
		v.Include = t.inWindow(v.Time)
	}
}

func (t *Tree) inWindow(tm float64) bool {
	if len(t.windows) == 0 {
		return true
	}
	for _, w := range t.windows {
		if tm >= w.start-tol && tm <= w.end+tol {
			return true
		}
	}
	return false
}

// edgeIn returns true if the branch that leads to a node
// is included in the statistics.
func (t *Tree) edgeIn(id int) bool {
	v := t.nodes[id]
	if v.parent < 0 {
		return false
	}
	pv := t.nodes[v.parent]
	if !v.Include || !pv.Include {
		return false
	}
	return t.inWindow((v.Time + pv.Time) / 2)
}

// TrunkSlice removes the trunk lineages after the given time,
// keeping the side branches that split
// from the trunk before that time.
func (t *Tree) TrunkSlice(tm float64) {
	for _, id := range t.preorder() {
		v := t.nodes[id]
		if v == nil || !v.Trunk || v.parent < 0 {
			continue
		}
		pv := t.nodes[v.parent]
		if pv.Time < tm && v.Time >= tm-tol {
			t.deleteSubtree(id)
		}
	}
	t.reduce()
	t.finish()
}

// PushTimesBack shifts the node times
// so the most recent sample is at the given time.
func (t *Tree) PushTimesBack(stop float64) {
	if t.root < 0 {
		return
	}
	d := stop - t.present()
	for _, id := range t.preorder() {
		t.nodes[id].Time += d
	}
	for i := range t.windows {
		t.windows[i].start += d
		t.windows[i].end += d
	}
}

// PushTimesBackRange rescales the node times
// so the oldest sample is at start,
// and the most recent sample is at stop.
func (t *Tree) PushTimesBackRange(start, stop float64) error {
	if start >= stop {
		return fmt.Errorf("invalid time range: start %g, stop %g", start, stop)
	}
	if t.root < 0 {
		return nil
	}
	tips := t.tips()
	oldest := t.nodes[tips[0]].Time
	for _, id := range tips {
		oldest = math.Min(oldest, t.nodes[id].Time)
	}
	p := t.present()
	if p-oldest <= tol {
		return fmt.Errorf("all tips at the same time: can not rescale times")
	}

	scale := (stop - start) / (p - oldest)
	for _, id := range t.preorder() {
		v := t.nodes[id]
		v.Time = start + (v.Time-oldest)*scale
	}
	t.setLengths()
	return nil
}

func (t *Tree) setLengths() {
	for _, id := range t.preorder() {
		v := t.nodes[id]
		if v.parent < 0 {
			v.Length = 0
			continue
		}
		v.Length = v.Time - t.nodes[v.parent].Time
	}
}

// CollapseLabels sets all labels to 1.
func (t *Tree) CollapseLabels() {
	for _, id := range t.preorder() {
		t.nodes[id].Label = 1
	}
	t.updateLabels()
}

// SetLabels sets the label of the named nodes
// using a map of names to labels.
// Nodes not in the map keep their labels.
func (t *Tree) SetLabels(labels map[string]int) {
	for _, id := range t.preorder() {
		v := t.nodes[id]
		if v.Name == "" {
			continue
		}
		l, ok := labels[v.Name]
		if !ok {
			continue
		}
		v.Label = l
	}
	t.updateLabels()
}

// AddTail adds a new root to the tree,
// setback time units before the current root.
func (t *Tree) AddTail(setback float64) error {
	if setback < 0 {
		return fmt.Errorf("invalid tail length %g", setback)
	}
	if t.root < 0 {
		return ErrEmpty
	}

	old := t.root
	ov := t.nodes[old]
	n := Node{
		Time:    ov.Time - setback,
		Label:   ov.Label,
		Rate:    ov.Rate,
		Trunk:   ov.Trunk,
		Include: t.inWindow(ov.Time - setback),
		X:       ov.X,
		Y:       ov.Y,
	}
	if !t.accumulated {
		ov.X, ov.Y = 0, 0
	}
	nid := len(t.nodes)
	t.nodes = append(t.nodes, &vertex{
		Node:     n,
		parent:   -1,
		children: []int{old},
	})
	ov.parent = nid
	ov.Length = setback
	t.root = nid
	t.finish()
	return nil
}

// SetCoords sets the layout coordinate of the tips
// using the position of their names in an ordering.
// Tips not in the ordering are placed after the ordered tips.
// Internal nodes are placed at the mean of their children.
func (t *Tree) SetCoords(names []string) {
	pos := make(map[string]int, len(names))
	for i, n := range names {
		pos[n] = i
	}
	next := len(names)
	for _, id := range t.tips() {
		v := t.nodes[id]
		if i, ok := pos[v.Name]; ok {
			v.Coord = float64(i)
			continue
		}
		v.Coord = float64(next)
		next++
	}
	t.internalCoords()
}

func (t *Tree) internalCoords() {
	for _, id := range t.postorder() {
		v := t.nodes[id]
		if len(v.children) == 0 {
			continue
		}
		var sum float64
		for _, c := range v.children {
			sum += t.nodes[c].Coord
		}
		v.Coord = sum / float64(len(v.children))
	}
}

// RotateLoc rotates the positions of the nodes
// around the origin,
// by the given angle in degrees.
func (t *Tree) RotateLoc(deg float64) {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	for _, id := range t.preorder() {
		v := t.nodes[id]
		v.X, v.Y = v.X*cos-v.Y*sin, v.X*sin+v.Y*cos
	}
}

// AccumulateLoc converts the branch displacements
// into absolute node positions,
// by summing the displacements from the root.
// It must be called only once.
func (t *Tree) AccumulateLoc() {
	for _, id := range t.preorder() {
		v := t.nodes[id]
		if v.parent < 0 {
			continue
		}
		pv := t.nodes[v.parent]
		v.X += pv.X
		v.Y += pv.Y
	}
	t.accumulated = true
}
