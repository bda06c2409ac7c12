// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/js-arias/pact/coaltree"
	"github.com/js-arias/pact/param"
)

// ErrNoSkyline is returned when the skyline intervals
// are not defined.
var ErrNoSkyline = errors.New("skyline settings undefined")

// tolerance for the end of the intervals
const tol = 1e-9

// intervals returns the start of each skyline interval.
func intervals(start, stop, step float64) []float64 {
	var ts []float64
	for k := 0; ; k++ {
		t := start + float64(k)*step
		if t+step > stop+tol {
			break
		}
		ts = append(ts, t)
	}
	return ts
}

// Skylines writes the value of the statistics
// through time.
// Each row contains the name of the statistic,
// the time of the interval,
// the 2.5% quantile,
// the mean,
// and the 97.5% quantile.
// Statistics on locations and rates
// use the quartiles.
func (r *Report) Skylines(w io.Writer) error {
	p := r.p
	v := p.Values(param.Skyline)
	if len(v) != 3 {
		return ErrNoSkyline
	}
	ts := intervals(v[0], v[1], v[2])
	step := v[2]

	tab := newTable(w, "statistic", "time", "lower", "mean", "upper")

	// sliced evaluates a statistic
	// on the tree sliced at the middle of each interval.
	sliced := func(name string, stat func(t *coaltree.Tree) float64, lower, upper float64) {
		for _, t := range ts {
			mid := t + step/2
			s := r.series(func(tr *coaltree.Tree) float64 {
				tr.TimeSlice(mid)
				return stat(tr)
			})
			tab.summary([]string{name, format(mid)}, s, lower, upper)
		}
	}

	// trimmed evaluates a statistic
	// on the section of the tree inside each interval.
	trimmed := func(name string, stat func(t *coaltree.Tree) float64) {
		for _, t := range ts {
			s := r.series(func(tr *coaltree.Tree) float64 {
				if err := tr.TrimEnds(t, t+step); err != nil {
					return math.NaN()
				}
				return stat(tr)
			})
			tab.summary([]string{name, format(t + step/2)}, s, lower95, upper95)
		}
	}

	if p.Has(param.SkylineTMRCA) {
		r.logf("skyline: tmrca\n")
		sliced("tmrca", (*coaltree.Tree).TMRCA, lower95, upper95)
	}

	if p.Has(param.SkylineLength) {
		r.logf("skyline: length\n")
		sliced("length", (*coaltree.Tree).Length, lower95, upper95)
	}

	if p.Has(param.SkylineProportions) {
		r.logf("skyline: label proportions\n")
		for _, l := range r.labels {
			trimmed("pro_"+strconv.Itoa(l), func(t *coaltree.Tree) float64 { return t.LabelPro(l) })
		}
	}

	if p.Has(param.SkylineCoalRates) {
		r.logf("skyline: coalescent rates\n")
		for _, l := range r.labels {
			trimmed("coal_"+strconv.Itoa(l), func(t *coaltree.Tree) float64 { return t.CoalRateLabel(l) })
		}
	}

	if p.Has(param.SkylineMigRates) {
		r.logf("skyline: migration rates\n")
		trimmed("mig_all", (*coaltree.Tree).MigRate)
		for _, from := range r.labels {
			for _, to := range r.labels {
				if from == to {
					continue
				}
				trimmed(migName(from, to), func(t *coaltree.Tree) float64 { return t.MigRateLabels(from, to) })
			}
		}
	}

	if p.Has(param.SkylineProHistoryFromTips) {
		r.logf("skyline: label history from tips\n")
		for _, start := range r.labels {
			for _, end := range r.labels {
				name := fmt.Sprintf("prohist_%d_%d", start, end)
				for _, t := range ts {
					s := r.series(func(tr *coaltree.Tree) float64 {
						return tr.LabelProFromTipsCond(end, t, start)
					})
					tab.summary([]string{name, format(t + step/2)}, s, lower95, upper95)
				}
			}
		}
	}

	if p.Has(param.SkylineDiversity) {
		r.logf("skyline: diversity\n")
		sliced("div", (*coaltree.Tree).Diversity, lower95, upper95)
	}

	if p.Has(param.SkylineFst) {
		r.logf("skyline: fst\n")
		sliced("fst", (*coaltree.Tree).Fst, lower95, upper95)
	}

	if p.Has(param.SkylineTajimaD) {
		r.logf("skyline: tajima's D\n")
		sliced("tajimad", (*coaltree.Tree).TajimaD, lower95, upper95)
	}

	if p.Has(param.SkylineTimeToFix) {
		r.logf("skyline: time to fix\n")
		for _, t := range ts {
			mid := t + step/2
			s := r.series(func(tr *coaltree.Tree) float64 {
				tr.TrunkSlice(mid)
				return tr.PresentTime() - mid
			})
			tab.summary([]string{"timetofix", format(mid)}, s, lower95, upper95)
		}
	}

	// location statistics are evaluated
	// at the start of each interval
	atTime := func(name string, stat func(tr *coaltree.Tree, t float64) float64, lower, upper float64) {
		for _, t := range ts {
			s := r.series(func(tr *coaltree.Tree) float64 { return stat(tr, t) })
			tab.summary([]string{name, format(t)}, s, lower, upper)
		}
	}

	if p.Has(param.SkylineXMean) {
		r.logf("skyline: mean x location\n")
		atTime("xmean", func(tr *coaltree.Tree, t float64) float64 {
			tr.TimeSlice(t)
			return tr.MeanX()
		}, lowerQ, upperQ)
	}

	if p.Has(param.SkylineYMean) {
		r.logf("skyline: mean y location\n")
		atTime("ymean", func(tr *coaltree.Tree, t float64) float64 {
			tr.TimeSlice(t)
			return tr.MeanY()
		}, lowerQ, upperQ)
	}

	if p.Has(param.SkylineXDrift) {
		r.logf("skyline: x drift\n")
		atTime("xdrift", func(tr *coaltree.Tree, t float64) float64 {
			prev := tr.Clone()
			prev.TimeSlice(t - step)
			tr.TimeSlice(t)
			return tr.MeanX() - prev.MeanX()
		}, lowerQ, upperQ)
	}

	if p.Has(param.SkylineRateMean) {
		r.logf("skyline: mean rate\n")
		sliced("ratemean", (*coaltree.Tree).MeanRate, lowerQ, upperQ)
	}

	if p.Has(param.SkylineXTrunkDiff) {
		r.logf("skyline: x trunk difference\n")
		atTime("xtrunkdiff", func(tr *coaltree.Tree, t float64) float64 {
			trunk := tr.Clone()
			trunk.PruneToTrunk()
			trunk.TimeSlice(t)
			tr.TimeSlice(t)
			return trunk.MeanX() - tr.MeanX()
		}, lower95, upper95)
	}

	if p.Has(param.SkylineDriftRateFromTips) {
		r.logf("skyline: drift rate from tips\n")
		for _, t := range ts {
			s := r.series(func(tr *coaltree.Tree) float64 { return tr.Rate1DFromTips(t, step) })
			tab.summary([]string{"1dratefromtips", format(t + step/2)}, s, lowerQ, upperQ)
		}
		for _, t := range ts {
			s := r.series(func(tr *coaltree.Tree) float64 { return tr.Rate2DFromTips(t, step) })
			tab.summary([]string{"2dratefromtips", format(t + step/2)}, s, lowerQ, upperQ)
		}
	}

	if p.Has(param.SkylineGeoRateFromTips) {
		r.logf("skyline: geographic rate from tips\n")
		for _, t := range ts {
			s := r.series(func(tr *coaltree.Tree) float64 { return tr.GeoRateFromTips(t, step) })
			tab.summary([]string{"georatefromtips", format(t + step/2)}, s, lowerQ, upperQ)
		}
	}

	return tab.flush()
}
