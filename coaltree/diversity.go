// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package coaltree

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// pairSums stores the sum of the path lengths
// between pairs of tips.
type pairSums struct {
	// number of tips
	n int

	// labels of the tips,
	// and number of tips with each label
	labels []int
	count  []float64

	// sum of path lengths
	// between all pairs of tips,
	// and for pairs with the same label
	// (one sum for each label).
	all   float64
	label []float64
}

// pairSums calculates the sums of path lengths
// visiting each branch once:
// a branch is part of the path
// of every pair with one tip below the branch
// and the other tip outside it.
func (t *Tree) pairSums() pairSums {
	tips := t.tips()
	ps := pairSums{n: len(tips)}

	idx := make(map[int]int)
	for _, id := range tips {
		l := t.nodes[id].Label
		if _, ok := idx[l]; ok {
			continue
		}
		idx[l] = 0
		ps.labels = append(ps.labels, l)
	}
	slices.Sort(ps.labels)
	for i, l := range ps.labels {
		idx[l] = i
	}
	ps.count = make([]float64, len(ps.labels))
	for _, id := range tips {
		ps.count[idx[t.nodes[id].Label]]++
	}
	ps.label = make([]float64, len(ps.labels))

	below := make([][]float64, len(t.nodes))
	out := make([]float64, len(ps.labels))
	n := float64(ps.n)
	for _, id := range t.postorder() {
		v := t.nodes[id]
		b := make([]float64, len(ps.labels))
		if len(v.children) == 0 {
			b[idx[v.Label]] = 1
		}
		for _, c := range v.children {
			floats.Add(b, below[c])
			below[c] = nil
		}
		below[id] = b
		if v.parent < 0 {
			continue
		}

		nb := floats.Sum(b)
		ps.all += v.Length * nb * (n - nb)

		floats.SubTo(out, ps.count, b)
		floats.Mul(out, b)
		floats.AddScaled(ps.label, v.Length, out)
	}
	return ps
}

// pairs returns the number of pairs
// from a sample of the given size.
func pairs(n float64) float64 {
	return n * (n - 1) / 2
}

// Diversity returns the mean of the path length
// between every pair of tips.
// For contemporaneous tips,
// it is twice the time to the common ancestor.
func (t *Tree) Diversity() float64 {
	ps := t.pairSums()
	np := pairs(float64(ps.n))
	if np <= 0 {
		return math.NaN()
	}
	return ps.all / np
}

// DiversityLabel returns the mean of the path length
// between every pair of tips with the given label.
func (t *Tree) DiversityLabel(label int) float64 {
	ps := t.pairSums()
	i := slices.Index(ps.labels, label)
	if i < 0 {
		return math.NaN()
	}
	np := pairs(ps.count[i])
	if np <= 0 {
		return math.NaN()
	}
	return ps.label[i] / np
}

// DiversityPair returns the path length
// between two named tips.
func (t *Tree) DiversityPair(a, b string) float64 {
	ia := t.findName(a)
	ib := t.findName(b)
	if ia < 0 || ib < 0 {
		return math.NaN()
	}
	ca := t.commonAncestor(ia, ib)
	if ca < 0 {
		return math.NaN()
	}
	return t.nodes[ia].Time + t.nodes[ib].Time - 2*t.nodes[ca].Time
}

// DiversityWithin returns the mean of the path length
// between pairs of tips with the same label.
func (t *Tree) DiversityWithin() float64 {
	ps := t.pairSums()
	within, _ := ps.within()
	return within
}

// DiversityBetween returns the mean of the path length
// between pairs of tips with different labels.
func (t *Tree) DiversityBetween() float64 {
	ps := t.pairSums()
	return ps.between()
}

func (ps pairSums) within() (float64, float64) {
	var np float64
	for _, c := range ps.count {
		np += pairs(c)
	}
	if np <= 0 {
		return math.NaN(), 0
	}
	return floats.Sum(ps.label) / np, np
}

func (ps pairSums) between() float64 {
	var np float64
	for _, c := range ps.count {
		np += pairs(c)
	}
	nb := pairs(float64(ps.n)) - np
	if nb <= 0 {
		return math.NaN()
	}
	return (ps.all - floats.Sum(ps.label)) / nb
}

// Fst returns the fixation index
// of the labels in the tree:
// (between - within) / between,
// in which between is the diversity
// between tips with different labels,
// and within is the diversity
// between tips with the same label.
func (t *Tree) Fst() float64 {
	ps := t.pairSums()
	within, _ := ps.within()
	between := ps.between()
	if math.IsNaN(within) || !(between > 0) {
		return math.NaN()
	}
	return (between - within) / between
}

// TajimaD returns Tajima's D
// as the diversity minus the tree length
// normalized by the harmonic number of the sample size.
func (t *Tree) TajimaD() float64 {
	n := t.LeafCount()
	if n < 2 {
		return math.NaN()
	}
	var a1 float64
	for i := 1; i < n; i++ {
		a1 += 1 / float64(i)
	}
	return t.Diversity() - t.Length()/a1
}
