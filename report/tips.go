// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package report

import (
	"io"
	"math"
	"strconv"

	"github.com/js-arias/pact/coaltree"
	"github.com/js-arias/pact/param"
	"github.com/js-arias/pact/series"
)

// Tips writes the statistics of each tip.
// Each row contains the name of the statistic,
// the name of the tip,
// its label and time
// (as found in the first tree of the sample),
// and the lower quantile,
// mean,
// and upper quantile of the statistic.
//
// The location history of a tip
// is written as a row per time,
// using the quartiles and the median.
func (r *Report) Tips(w io.Writer) error {
	p := r.p
	tab := newTable(w, "statistic", "name", "label", "time", "lower", "mean", "upper")

	first := r.s.trees[0]
	tips := first.TipNames()
	tipFields := func(stat, name string, tm float64) []string {
		lb := NA
		if l, ok := first.Label(name); ok {
			lb = strconv.Itoa(l)
		}
		return []string{stat, name, lb, format(tm)}
	}

	if p.Has(param.TipsTimeToTrunk) {
		r.logf("tips: time to trunk\n")
		for _, tn := range tips {
			s := r.series(func(t *coaltree.Tree) float64 { return t.TimeToTrunk(tn) })
			tab.summary(tipFields("time_to_trunk", tn, first.Time(tn)), s, lower95, upper95)
		}
	}

	locHistory := []struct {
		par  param.Param
		name string
		loc  func(t *coaltree.Tree) float64
	}{
		{param.XLocHistory, "x_loc_history", (*coaltree.Tree).MeanX},
		{param.YLocHistory, "y_loc_history", (*coaltree.Tree).MeanY},
	}
	for _, lh := range locHistory {
		v := p.Values(lh.par)
		if len(v) != 3 {
			continue
		}
		r.logf("tips: %s\n", lh.name)
		for _, tn := range tips {
			r.locHistory(tab, lh.name, tn, v[0], v[1], v[2], lh.loc, tipFields)
		}
	}

	return tab.flush()
}

// locHistory writes the location of the lineage of a tip
// through time.
func (r *Report) locHistory(tab *table, stat, tip string, start, stop, step float64, loc func(t *coaltree.Tree) float64, fields func(stat, name string, tm float64) []string) {
	lineages := make([]*coaltree.Tree, r.s.Len())
	r.s.each(r.CPU, func(i int) {
		t := r.s.trees[i].Clone()
		if err := t.PruneToName(tip); err != nil {
			return
		}
		lineages[i] = t
	})
	if lineages[0] == nil {
		return
	}

	end := math.Min(stop, lineages[0].PresentTime())
	for k := 0; ; k++ {
		tm := start + float64(k)*step
		if tm > end+tol {
			break
		}
		vals := make([]float64, len(lineages))
		r.s.each(r.CPU, func(i int) {
			if lineages[i] == nil {
				vals[i] = math.NaN()
				return
			}
			t := lineages[i].Clone()
			t.TimeSlice(tm)
			vals[i] = loc(t)
		})
		s := series.New()
		for _, v := range vals {
			s.Insert(v)
		}
		tab.median(fields(stat, tip, tm), s, lowerQ, upperQ)
	}
}

// Pairs writes the statistics of pairs of tips.
// Each row contains the name of the statistic,
// the names of the tips,
// and the 2.5% quantile,
// mean,
// and 97.5% quantile of the statistic.
func (r *Report) Pairs(w io.Writer) error {
	p := r.p
	tab := newTable(w, "statistic", "nameA", "nameB", "lower", "mean", "upper")

	if p.Has(param.PairsDiversity) {
		r.logf("pairs: diversity\n")
		diff := p.Value(param.PairsDiversity, 0)
		first := r.s.trees[0]
		tips := first.TipNames()
		for i, a := range tips {
			for _, b := range tips[i+1:] {
				if math.Abs(first.Time(a)-first.Time(b)) >= diff {
					continue
				}
				s := r.s.view(r.CPU, func(t *coaltree.Tree) float64 { return t.DiversityPair(a, b) })
				tab.summary([]string{"diversity", a, b}, s, lower95, upper95)
			}
		}
	}

	return tab.flush()
}
