// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/js-arias/pact/coaltree"
	"github.com/js-arias/pact/param"
	"github.com/js-arias/pact/series"
)

// A Report evaluates the statistics
// defined in a parameter collection
// over a sample of trees.
type Report struct {
	s      *Sample
	p      *param.P
	labels []int

	// CPU is the number of goroutines
	// used to evaluate the statistics.
	// The default (zero) uses all available CPU.
	CPU int

	// Log receives progress messages.
	// If nil,
	// no message is written.
	Log io.Writer
}

// New creates a new report for a sample of trees.
// The sample should be already manipulated.
func New(s *Sample, p *param.P) *Report {
	return &Report{
		s:      s,
		p:      p,
		labels: s.LabelSet(),
	}
}

func (r *Report) logf(format string, a ...any) {
	if r.Log == nil {
		return
	}
	fmt.Fprintf(r.Log, format, a...)
}

func (r *Report) series(stat func(t *coaltree.Tree) float64) *series.Series {
	return r.s.series(r.CPU, stat)
}

// Quantiles used for the statistic intervals.
const (
	lower95 = 0.025
	upper95 = 0.975
	lowerQ  = 0.25
	upperQ  = 0.75
)

// Summary writes the summary statistics
// of the sample.
// Each row contains the name of the statistic,
// the 2.5% quantile,
// the mean,
// and the 97.5% quantile.
// Statistics on locations use the quartiles.
func (r *Report) Summary(w io.Writer) error {
	tab := newTable(w, "statistic", "lower", "mean", "upper")
	p := r.p

	if p.Has(param.SummaryTMRCA) {
		r.logf("summary: tmrca\n")
		s := r.series(func(t *coaltree.Tree) float64 { return t.TMRCA() })
		tab.summary([]string{"tmrca"}, s, lower95, upper95)
	}

	if p.Has(param.SummaryLength) {
		r.logf("summary: length\n")
		s := r.series(func(t *coaltree.Tree) float64 { return t.Length() })
		tab.summary([]string{"length"}, s, lower95, upper95)
	}

	if p.Has(param.SummaryRootProportions) {
		r.logf("summary: root proportions\n")
		for _, l := range r.labels {
			s := r.series(func(t *coaltree.Tree) float64 { return t.RootLabelPro(l) })
			tab.summary([]string{"rootpro_" + strconv.Itoa(l)}, s, lower95, upper95)
		}
	}

	if p.Has(param.SummaryProportions) {
		r.logf("summary: label proportions\n")
		for _, l := range r.labels {
			s := r.series(func(t *coaltree.Tree) float64 { return t.LabelPro(l) })
			tab.summary([]string{"pro_" + strconv.Itoa(l)}, s, lower95, upper95)
		}
	}

	if p.Has(param.SummaryCoalRates) {
		r.logf("summary: coalescent rates\n")
		if len(r.labels) > 1 {
			for _, l := range r.labels {
				s := r.series(func(t *coaltree.Tree) float64 { return t.CoalRateLabel(l) })
				tab.summary([]string{"coal_" + strconv.Itoa(l)}, s, lower95, upper95)
			}
		} else {
			s := r.series(func(t *coaltree.Tree) float64 { return t.CoalRate() })
			tab.summary([]string{"coal"}, s, lower95, upper95)
		}
	}

	if p.Has(param.SummaryMigRates) {
		r.logf("summary: migration rates\n")
		s := r.series(func(t *coaltree.Tree) float64 { return t.MigRate() })
		tab.summary([]string{"mig_all"}, s, lower95, upper95)
		for _, from := range r.labels {
			for _, to := range r.labels {
				if from == to {
					continue
				}
				s := r.series(func(t *coaltree.Tree) float64 { return t.MigRateLabels(from, to) })
				tab.summary([]string{migName(from, to)}, s, lower95, upper95)
			}
		}
	}

	if p.Has(param.SummarySubRates) {
		r.logf("summary: substitution rates\n")
		s := r.series(func(t *coaltree.Tree) float64 { return t.MeanRate() })
		tab.summary([]string{"subrate"}, s, lower95, upper95)
	}

	if p.Has(param.SummaryDiversity) {
		r.logf("summary: diversity\n")
		if len(r.labels) > 1 {
			for _, l := range r.labels {
				s := r.series(func(t *coaltree.Tree) float64 { return t.DiversityLabel(l) })
				tab.summary([]string{"div_" + strconv.Itoa(l)}, s, lower95, upper95)
			}
		} else {
			s := r.series(func(t *coaltree.Tree) float64 { return t.Diversity() })
			tab.summary([]string{"div"}, s, lower95, upper95)
		}
	}

	if p.Has(param.SummaryFst) {
		r.logf("summary: fst\n")
		s := r.series(func(t *coaltree.Tree) float64 { return t.Fst() })
		tab.summary([]string{"fst"}, s, lower95, upper95)
	}

	if p.Has(param.SummaryTajimaD) {
		r.logf("summary: tajima's D\n")
		s := r.series(func(t *coaltree.Tree) float64 { return t.TajimaD() })
		tab.summary([]string{"tajimad"}, s, lower95, upper95)
	}

	if p.Has(param.SummaryPersistence) {
		r.logf("summary: persistence\n")
		r.persistence(tab, "persistence_all",
			func(t *coaltree.Tree) float64 { return t.Persistence() },
			func(t *coaltree.Tree, q float64) float64 { return t.PersistenceQuantile(q) },
		)
		for _, l := range r.labels {
			r.persistence(tab, "persistence_"+strconv.Itoa(l),
				func(t *coaltree.Tree) float64 { return t.PersistenceLabel(l) },
				func(t *coaltree.Tree, q float64) float64 { return t.PersistenceQuantileLabel(q, l) },
			)
		}
	}

	if p.Has(param.SummaryDiffusionCoefficient) {
		r.logf("summary: diffusion coefficients\n")
		r.branchStats(tab, "diffusionCoefficient", branchStat{
			all:      (*coaltree.Tree).DiffusionCoefficient,
			trunk:    (*coaltree.Tree).DiffusionCoefficientTrunk,
			side:     (*coaltree.Tree).DiffusionCoefficientSideBranches,
			internal: (*coaltree.Tree).DiffusionCoefficientInternalBranches,
		})
	}

	if p.Has(param.SummaryDriftRate) {
		r.logf("summary: drift rates\n")
		r.branchStats(tab, "driftRate", branchStat{
			all:      (*coaltree.Tree).DriftRate,
			trunk:    (*coaltree.Tree).DriftRateTrunk,
			side:     (*coaltree.Tree).DriftRateSideBranches,
			internal: (*coaltree.Tree).DriftRateInternalBranches,
		})
	}

	return tab.flush()
}

func migName(from, to int) string {
	return fmt.Sprintf("mig_%d_%d", from, to)
}

// persistence writes the persistence of a sample.
// The mean is the mean of the persistence of each tree,
// and the bounds are the means of the quartiles
// of each tree.
func (r *Report) persistence(tab *table, name string, mean func(t *coaltree.Tree) float64, quantile func(t *coaltree.Tree, q float64) float64) {
	row := []string{name}
	for _, fn := range []func(t *coaltree.Tree) float64{
		func(t *coaltree.Tree) float64 { return quantile(t, lowerQ) },
		mean,
		func(t *coaltree.Tree) float64 { return quantile(t, upperQ) },
	} {
		v, err := r.series(fn).Mean()
		if err != nil {
			row = append(row, NA)
			continue
		}
		row = append(row, format(v))
	}
	tab.write(row)
}

// branchStat is a statistic evaluated
// over different kinds of branches.
type branchStat struct {
	all      func(t *coaltree.Tree) float64
	trunk    func(t *coaltree.Tree) float64
	side     func(t *coaltree.Tree) float64
	internal func(t *coaltree.Tree) float64
}

func (r *Report) branchStats(tab *table, name string, bs branchStat) {
	stats := []struct {
		suffix string
		fn     func(t *coaltree.Tree) float64
	}{
		{"", bs.all},
		{"Trunk", bs.trunk},
		{"SideBranches", bs.side},
		{"InternalBranches", bs.internal},
		{"TSRatio", func(t *coaltree.Tree) float64 { return bs.trunk(t) / bs.side(t) }},
		{"TIRatio", func(t *coaltree.Tree) float64 { return bs.trunk(t) / bs.internal(t) }},
	}
	for _, st := range stats {
		s := r.series(st.fn)
		tab.summary([]string{name + st.suffix}, s, lowerQ, upperQ)
	}
}
