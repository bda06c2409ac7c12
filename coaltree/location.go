// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package coaltree

import (
	"math"

	"github.com/js-arias/earth"
	"gonum.org/v1/gonum/stat"
)

// MeanX returns the mean X position of the tips.
func (t *Tree) MeanX() float64 {
	x := t.TipsX()
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// MeanY returns the mean Y position of the tips.
func (t *Tree) MeanY() float64 {
	y := t.TipsY()
	if len(y) == 0 {
		return math.NaN()
	}
	return stat.Mean(y, nil)
}

// TipsX returns the X position of each tip,
// in pre-order.
func (t *Tree) TipsX() []float64 {
	tips := t.tips()
	x := make([]float64, 0, len(tips))
	for _, id := range tips {
		px, _ := t.position(id)
		x = append(x, px)
	}
	return x
}

// TipsY returns the Y position of each tip,
// in pre-order.
func (t *Tree) TipsY() []float64 {
	tips := t.tips()
	y := make([]float64, 0, len(tips))
	for _, id := range tips {
		_, py := t.position(id)
		y = append(y, py)
	}
	return y
}

// position returns the absolute position of a node.
func (t *Tree) position(id int) (x, y float64) {
	if t.accumulated {
		v := t.nodes[id]
		return v.X, v.Y
	}
	for n := id; n >= 0; n = t.nodes[n].parent {
		x += t.nodes[n].X
		y += t.nodes[n].Y
	}
	return x, y
}

// displacement returns the displacement
// along the branch that leads to a node.
func (t *Tree) displacement(id int) (dx, dy float64) {
	v := t.nodes[id]
	if !t.accumulated {
		return v.X, v.Y
	}
	pv := t.nodes[v.parent]
	return v.X - pv.X, v.Y - pv.Y
}

// Branch classes used by the spatial statistics.
const (
	allBranches = iota
	trunkBranches
	sideBranches
	internalBranches
)

func (t *Tree) branchClass(id int) int {
	v := t.nodes[id]
	if v.Trunk {
		return trunkBranches
	}
	if t.nodes[v.parent].Trunk {
		return sideBranches
	}
	return internalBranches
}

// DiffusionCoefficient returns the mean
// of the squared displacement divided by the branch length,
// over all included branches.
func (t *Tree) DiffusionCoefficient() float64 {
	return t.diffusion(allBranches)
}

// DiffusionCoefficientTrunk returns the diffusion coefficient
// of the trunk branches.
func (t *Tree) DiffusionCoefficientTrunk() float64 {
	return t.diffusion(trunkBranches)
}

// DiffusionCoefficientSideBranches returns the diffusion coefficient
// of the branches that descend directly from the trunk.
func (t *Tree) DiffusionCoefficientSideBranches() float64 {
	return t.diffusion(sideBranches)
}

// DiffusionCoefficientInternalBranches returns the diffusion coefficient
// of the branches that are not connected to the trunk.
func (t *Tree) DiffusionCoefficientInternalBranches() float64 {
	return t.diffusion(internalBranches)
}

func (t *Tree) diffusion(class int) float64 {
	return t.branchMean(class, func(id int) float64 {
		dx, dy := t.displacement(id)
		return (dx*dx + dy*dy) / t.nodes[id].Length
	})
}

// DriftRate returns the mean
// of the X displacement divided by the branch length,
// over all included branches.
func (t *Tree) DriftRate() float64 {
	return t.drift(allBranches)
}

// DriftRateTrunk returns the drift rate of the trunk branches.
func (t *Tree) DriftRateTrunk() float64 {
	return t.drift(trunkBranches)
}

// DriftRateSideBranches returns the drift rate
// of the branches that descend directly from the trunk.
func (t *Tree) DriftRateSideBranches() float64 {
	return t.drift(sideBranches)
}

// DriftRateInternalBranches returns the drift rate
// of the branches that are not connected to the trunk.
func (t *Tree) DriftRateInternalBranches() float64 {
	return t.drift(internalBranches)
}

func (t *Tree) drift(class int) float64 {
	return t.branchMean(class, func(id int) float64 {
		dx, _ := t.displacement(id)
		return dx / t.nodes[id].Length
	})
}

func (t *Tree) branchMean(class int, fn func(id int) float64) float64 {
	var vals []float64
	for _, id := range t.preorder() {
		if !t.edgeIn(id) {
			continue
		}
		if !(t.nodes[id].Length > 0) {
			continue
		}
		if class != allBranches && t.branchClass(id) != class {
			continue
		}
		vals = append(vals, fn(id))
	}
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// NodeBackFromTip returns the node whose branch
// contains the time at the given time back
// from the named tip.
func (t *Tree) NodeBackFromTip(name string, back float64) (Node, bool) {
	id := t.findName(name)
	if id < 0 {
		return Node{}, false
	}
	n := t.nodeBack(id, back)
	if n < 0 {
		return Node{}, false
	}
	return t.nodes[n].Node, true
}

// XBackFromTip returns the X position
// at the given time back from the named tip.
// The position is interpolated along the branch.
func (t *Tree) XBackFromTip(name string, back float64) float64 {
	id := t.findName(name)
	if id < 0 {
		return math.NaN()
	}
	x, _, ok := t.positionBack(id, back)
	if !ok {
		return math.NaN()
	}
	return x
}

// YBackFromTip returns the Y position
// at the given time back from the named tip.
// The position is interpolated along the branch.
func (t *Tree) YBackFromTip(name string, back float64) float64 {
	id := t.findName(name)
	if id < 0 {
		return math.NaN()
	}
	_, y, ok := t.positionBack(id, back)
	if !ok {
		return math.NaN()
	}
	return y
}

// positionBack returns the position
// at a time back from a node.
func (t *Tree) positionBack(id int, back float64) (x, y float64, ok bool) {
	n := t.nodeBack(id, back)
	if n < 0 {
		return 0, 0, false
	}
	v := t.nodes[n]
	x, y = t.position(n)
	if v.parent < 0 || !(v.Length > 0) {
		return x, y, true
	}
	target := t.nodes[id].Time - back
	px, py := t.position(v.parent)
	f := (target - t.nodes[v.parent].Time) / v.Length
	return px + f*(x-px), py + f*(y-py), true
}

// Rate1DFromTips returns the mean rate of drift in X,
// measured in a window of the given size,
// that starts at the given time back from each tip.
func (t *Tree) Rate1DFromTips(back, window float64) float64 {
	return t.rateFromTips(back, window, func(x0, y0, x1, y1 float64) float64 {
		return x0 - x1
	})
}

// Rate2DFromTips returns the mean rate of euclidean drift,
// measured in a window of the given size,
// that starts at the given time back from each tip.
func (t *Tree) Rate2DFromTips(back, window float64) float64 {
	return t.rateFromTips(back, window, func(x0, y0, x1, y1 float64) float64 {
		return math.Hypot(x0-x1, y0-y1)
	})
}

// GeoRateFromTips returns the mean rate of drift
// in kilometers per time unit,
// measured in a window of the given size,
// that starts at the given time back from each tip.
// X is taken as the longitude,
// and Y as the latitude,
// both in degrees.
func (t *Tree) GeoRateFromTips(back, window float64) float64 {
	return t.rateFromTips(back, window, func(x0, y0, x1, y1 float64) float64 {
		if !validCoord(y0, x0) || !validCoord(y1, x1) {
			return math.NaN()
		}
		p0 := earth.NewPoint(y0, x0)
		p1 := earth.NewPoint(y1, x1)
		return earth.Distance(p0, p1) * earth.Radius / 1000
	})
}

func validCoord(lat, lon float64) bool {
	if lat < -90 || lat > 90 {
		return false
	}
	if lon < -180 || lon > 180 {
		return false
	}
	return true
}

func (t *Tree) rateFromTips(back, window float64, dist func(x0, y0, x1, y1 float64) float64) float64 {
	if !(window > 0) {
		return math.NaN()
	}
	var rates []float64
	for _, id := range t.tips() {
		if !t.nodes[id].Leaf {
			continue
		}
		x0, y0, ok := t.positionBack(id, back)
		if !ok {
			continue
		}
		x1, y1, ok := t.positionBack(id, back+window)
		if !ok {
			continue
		}
		d := dist(x0, y0, x1, y1)
		if math.IsNaN(d) {
			continue
		}
		rates = append(rates, d/window)
	}
	if len(rates) == 0 {
		return math.NaN()
	}
	return stat.Mean(rates, nil)
}
