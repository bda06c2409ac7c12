// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package coaltree implements coalescent trees:
// rooted bifurcating trees with nodes mapped to time points,
// as produced by Bayesian phylogenetic inference,
// and the statistics used to summarize them
// (coalescent and migration rates,
// diversity, trunk measures, and spatial diffusion).
//
// A tree owns its nodes.
// All manipulations are done in place,
// so use Clone to keep an unmodified copy.
//
// Statistics that are undefined for a given tree
// (for example a rate with no opportunity,
// or the mean of an empty sample)
// are reported as NaN.
package coaltree

import (
	"errors"
	"maps"
	"math"
	"slices"
)

// Errors returned by tree manipulations.
var (
	// ErrNotFound is returned when a node is not in the tree.
	ErrNotFound = errors.New("node not found")

	// ErrEmpty is returned when an operation
	// requires a non-empty tree.
	ErrEmpty = errors.New("empty tree")
)

// tol is the tolerance used to compare node times.
const tol = 1e-9

// A Node is a node of a coalescent tree.
type Node struct {
	// Number is the node identifier.
	// It is unique in the tree,
	// and assigned in pre-order.
	Number int

	// Name is the name of the node,
	// usually only defined for tips.
	Name string

	// Time is the date of the node.
	Time float64

	// Length is the length of the branch
	// that leads to the node.
	Length float64

	// Label is the state of the node,
	// (for example, a location).
	Label int

	// X and Y are the spatial position of the node.
	// As read from a tree,
	// they are the displacement along the branch;
	// use Tree.AccumulateLoc to convert them
	// into absolute positions.
	X, Y float64

	// Rate is the rate annotated for the branch.
	Rate float64

	// Coord is the layout coordinate of the node.
	Coord float64

	// Leaf is true if the node is a tip.
	Leaf bool

	// Trunk is true if the node is part of the trunk.
	Trunk bool

	// Include is true if the node is included in
	// the statistics.
	Include bool
}

type vertex struct {
	Node
	parent   int
	children []int
}

// A Tree is a coalescent tree.
type Tree struct {
	nodes  []*vertex
	root   int
	labels map[int]bool

	// names maps node names to node indices.
	// It is rebuilt after any structural change.
	names map[string]int

	// windows are the time windows
	// used to include branches.
	windows []window

	// accumulated is true if the positions
	// are absolute positions.
	accumulated bool
}

type window struct {
	start, end float64
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	nt := &Tree{
		nodes:       make([]*vertex, len(t.nodes)),
		root:        t.root,
		labels:      maps.Clone(t.labels),
		names:       maps.Clone(t.names),
		windows:     slices.Clone(t.windows),
		accumulated: t.accumulated,
	}
	for i, v := range t.nodes {
		if v == nil {
			continue
		}
		nv := *v
		nv.children = slices.Clone(v.children)
		nt.nodes[i] = &nv
	}
	return nt
}

// IsEmpty returns true if the tree has no nodes.
func (t *Tree) IsEmpty() bool {
	return t.root < 0
}

// Root returns the root node of the tree.
func (t *Tree) Root() (Node, bool) {
	if t.root < 0 {
		return Node{}, false
	}
	return t.nodes[t.root].Node, true
}

// Nodes returns the nodes of the tree in pre-order.
func (t *Tree) Nodes() []Node {
	ids := t.preorder()
	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, t.nodes[id].Node)
	}
	return nodes
}

// Children returns the numbers of the children
// of the indicated node.
func (t *Tree) Children(number int) []int {
	id := t.findNumber(number)
	if id < 0 {
		return nil
	}
	children := make([]int, 0, len(t.nodes[id].children))
	for _, c := range t.nodes[id].children {
		children = append(children, t.nodes[c].Number)
	}
	return children
}

// Parent returns the parent of the indicated node.
func (t *Tree) Parent(number int) (Node, bool) {
	id := t.findNumber(number)
	if id < 0 {
		return Node{}, false
	}
	p := t.nodes[id].parent
	if p < 0 {
		return Node{}, false
	}
	return t.nodes[p].Node, true
}

// FindNumber returns the node with the given number.
func (t *Tree) FindNumber(number int) (Node, bool) {
	id := t.findNumber(number)
	if id < 0 {
		return Node{}, false
	}
	return t.nodes[id].Node, true
}

// FindName returns the node with the given name.
func (t *Tree) FindName(name string) (Node, bool) {
	id := t.findName(name)
	if id < 0 {
		return Node{}, false
	}
	return t.nodes[id].Node, true
}

// CommonAncestor returns the most recent common ancestor
// of two nodes,
// identified by their numbers.
// If both numbers are the same,
// it returns that node.
func (t *Tree) CommonAncestor(a, b int) (Node, bool) {
	ia := t.findNumber(a)
	ib := t.findNumber(b)
	if ia < 0 || ib < 0 {
		return Node{}, false
	}
	ca := t.commonAncestor(ia, ib)
	if ca < 0 {
		return Node{}, false
	}
	return t.nodes[ca].Node, true
}

// CountDescendants returns the number of tips
// descendant from a node.
// A tip counts itself.
func (t *Tree) CountDescendants(number int) (int, bool) {
	id := t.findNumber(number)
	if id < 0 {
		return 0, false
	}
	return t.countDescendants(id), true
}

// Renumber sets the node numbers in pre-order,
// starting from the given value,
// and returns the value after the last assigned number.
func (t *Tree) Renumber(start int) int {
	for _, id := range t.preorder() {
		t.nodes[id].Number = start
		start++
	}
	return start
}

// LabelSet returns the labels used in the tree,
// sorted in increasing order.
func (t *Tree) LabelSet() []int {
	ls := make([]int, 0, len(t.labels))
	for l := range t.labels {
		ls = append(ls, l)
	}
	slices.Sort(ls)
	return ls
}

// HasLabel returns true if the label is used in the tree.
func (t *Tree) HasLabel(label int) bool {
	return t.labels[label]
}

func (t *Tree) findNumber(number int) int {
	// after finish, numbers are arena indices
	if number >= 0 && number < len(t.nodes) {
		if v := t.nodes[number]; v != nil && v.Number == number {
			return number
		}
	}
	for _, id := range t.preorder() {
		if t.nodes[id].Number == number {
			return id
		}
	}
	return -1
}

func (t *Tree) findName(name string) int {
	if name == "" {
		return -1
	}
	if id, ok := t.names[name]; ok && id < len(t.nodes) {
		if v := t.nodes[id]; v != nil && v.Name == name {
			return id
		}
	}
	for _, id := range t.preorder() {
		if t.nodes[id].Name == name {
			return id
		}
	}
	return -1
}

func (t *Tree) commonAncestor(a, b int) int {
	anc := make(map[int]bool)
	for id := a; id >= 0; id = t.nodes[id].parent {
		anc[id] = true
	}
	for id := b; id >= 0; id = t.nodes[id].parent {
		if anc[id] {
			return id
		}
	}
	return -1
}

func (t *Tree) countDescendants(id int) int {
	var n int
	stack := []int{id}
	for len(stack) > 0 {
		v := t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if len(v.children) == 0 {
			n++
			continue
		}
		stack = append(stack, v.children...)
	}
	return n
}

// preorder returns the node indices in pre-order.
func (t *Tree) preorder() []int {
	if t.root < 0 {
		return nil
	}
	ids := make([]int, 0, len(t.nodes))
	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ids = append(ids, id)
		ch := t.nodes[id].children
		for i := len(ch) - 1; i >= 0; i-- {
			stack = append(stack, ch[i])
		}
	}
	return ids
}

// postorder returns the node indices in post-order.
func (t *Tree) postorder() []int {
	if t.root < 0 {
		return nil
	}
	ids := make([]int, 0, len(t.nodes))
	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ids = append(ids, id)
		stack = append(stack, t.nodes[id].children...)
	}
	slices.Reverse(ids)
	return ids
}

// tips returns the indices of the nodes without children
// in pre-order.
func (t *Tree) tips() []int {
	var tips []int
	for _, id := range t.preorder() {
		if len(t.nodes[id].children) == 0 {
			tips = append(tips, id)
		}
	}
	return tips
}

// add adds a new node as the last child of parent.
// If parent is -1,
// the node will be the root.
func (t *Tree) add(parent int, n Node) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, &vertex{
		Node:   n,
		parent: parent,
	})
	if parent < 0 {
		t.root = id
		return id
	}
	pv := t.nodes[parent]
	pv.children = append(pv.children, id)
	return id
}

// detach removes a node from the children of its parent.
func (t *Tree) detach(id int) {
	p := t.nodes[id].parent
	if p < 0 {
		return
	}
	pv := t.nodes[p]
	pv.children = slices.DeleteFunc(pv.children, func(c int) bool {
		return c == id
	})
	t.nodes[id].parent = -1
}

// deleteSubtree removes a node and all of its descendants.
func (t *Tree) deleteSubtree(id int) {
	if id == t.root {
		t.nodes = nil
		t.root = -1
		return
	}
	t.detach(id)
	stack := []int{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, t.nodes[n].children...)
		t.nodes[n] = nil
	}
}

// remove removes a node
// and attach its children to the parent of the node,
// at the position of the removed node.
// A root can only be removed
// if it has at most a single child.
func (t *Tree) remove(id int) {
	v := t.nodes[id]
	if v.parent < 0 {
		switch len(v.children) {
		case 0:
			t.nodes = nil
			t.root = -1
		case 1:
			c := t.nodes[v.children[0]]
			c.parent = -1
			c.Length = 0
			if !t.accumulated {
				c.X += v.X
				c.Y += v.Y
			}
			t.root = v.children[0]
			t.nodes[id] = nil
		}
		return
	}

	pv := t.nodes[v.parent]
	i := slices.Index(pv.children, id)
	pv.children = slices.Replace(pv.children, i, i+1, v.children...)
	for _, c := range v.children {
		cv := t.nodes[c]
		cv.parent = v.parent
		cv.Length = cv.Time - pv.Time
		if !t.accumulated {
			cv.X += v.X
			cv.Y += v.Y
		}
	}
	t.nodes[id] = nil
}

// insertAbove adds a new node at the given time,
// in the branch that leads to a node.
// The new node inherits the branch attributes.
func (t *Tree) insertAbove(id int, time float64) int {
	v := t.nodes[id]
	pv := t.nodes[v.parent]

	var f float64
	if v.Length > 0 {
		f = (time - pv.Time) / v.Length
	}
	n := Node{
		Time:    time,
		Length:  time - pv.Time,
		Label:   v.Label,
		Rate:    v.Rate,
		Trunk:   v.Trunk,
		Include: true,
	}
	if t.accumulated {
		n.X = pv.X + f*(v.X-pv.X)
		n.Y = pv.Y + f*(v.Y-pv.Y)
	} else {
		n.X = f * v.X
		n.Y = f * v.Y
		v.X -= n.X
		v.Y -= n.Y
	}

	nid := len(t.nodes)
	t.nodes = append(t.nodes, &vertex{
		Node:     n,
		parent:   v.parent,
		children: []int{id},
	})
	i := slices.Index(pv.children, id)
	pv.children[i] = nid
	v.parent = nid
	v.Length = v.Time - time
	return nid
}

// finish compacts the node arena,
// renumbers the nodes
// and updates the label set.
// It must be called after any structural change.
func (t *Tree) finish() {
	t.compact()
	t.Renumber(0)
	t.updateLabels()
	t.updateNames()
}

func (t *Tree) updateNames() {
	t.names = make(map[string]int)
	for _, id := range t.preorder() {
		n := t.nodes[id].Name
		if n == "" {
			continue
		}
		if _, ok := t.names[n]; ok {
			continue
		}
		t.names[n] = id
	}
}

func (t *Tree) compact() {
	if t.root < 0 {
		t.nodes = nil
		return
	}
	ids := t.preorder()
	idx := make([]int, len(t.nodes))
	nodes := make([]*vertex, len(ids))
	for i, id := range ids {
		idx[id] = i
		nodes[i] = t.nodes[id]
	}
	for _, v := range nodes {
		if v.parent >= 0 {
			v.parent = idx[v.parent]
		}
		for j, c := range v.children {
			v.children[j] = idx[c]
		}
	}
	t.nodes = nodes
	t.root = 0
}

func (t *Tree) updateLabels() {
	t.labels = make(map[int]bool)
	for _, id := range t.preorder() {
		t.labels[t.nodes[id].Label] = true
	}
}

// present returns the most recent time in the tree.
func (t *Tree) present() float64 {
	if t.root < 0 {
		return math.NaN()
	}
	p := t.nodes[t.root].Time
	for _, id := range t.preorder() {
		if tm := t.nodes[id].Time; tm > p {
			p = tm
		}
	}
	return p
}
