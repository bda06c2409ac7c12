// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package report implements the evaluation
// of statistics over a sample of coalescent trees
// and the writing of the results as tab-delimited tables.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/pact/coaltree"
	"github.com/js-arias/pact/param"
	"github.com/js-arias/pact/tiplabel"
	"github.com/js-arias/timetree"
)

// ErrNoTrees is returned when a sample
// does not contain trees.
var ErrNoTrees = errors.New("no suitable trees on which to perform analysis")

// A Sample is a sample of coalescent trees,
// for example,
// the posterior sample of a Bayesian analysis.
type Sample struct {
	trees []*coaltree.Tree

	// log probability of each tree
	probs []float64
}

// Annotations used to store the log probability
// of a tree.
const (
	migrateProb = "ln(L) = "
	beastProb   = "[&lnP="
)

// ReadTrees reads a sample of trees
// from a tree file.
//
// In the file each tree is in a single line,
// starting with the first open parenthesis.
// Lines starting with '#' are ignored.
// The log probability of a tree
// can be given by a BEAST annotation ("[&lnP=value]")
// before the tree,
// or by a line with a migrate annotation ("ln(L) = value")
// before the tree.
//
// The first burnin trees are ignored.
func ReadTrees(r io.Reader, burnin int) (*Sample, error) {
	s := &Sample{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var probs []float64
	read := 0
	var prob float64
	hasProb := false
	for ln := 1; sc.Scan(); ln++ {
		line := sc.Text()
		if line == "" || line[0] == '#' {
			continue
		}

		if i := strings.Index(line, migrateProb); i >= 0 {
			v, err := parseProb(line[i+len(migrateProb):], " ")
			if err != nil {
				return nil, fmt.Errorf("on line %d: %v", ln, err)
			}
			prob, hasProb = v, true
			continue
		}
		if i := strings.Index(line, beastProb); i >= 0 {
			v, err := parseProb(line[i+len(beastProb):], "]")
			if err != nil {
				return nil, fmt.Errorf("on line %d: %v", ln, err)
			}
			prob, hasProb = v, true
		}

		pos := strings.IndexByte(line, '(')
		if pos < 0 {
			continue
		}
		read++
		if read <= burnin {
			hasProb = false
			continue
		}

		t, err := coaltree.Parse(line[pos:])
		if err != nil {
			return nil, fmt.Errorf("on line %d: %v", ln, err)
		}
		s.trees = append(s.trees, t)
		if hasProb {
			probs = append(probs, prob)
		}
		hasProb = false
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(s.trees) == 0 {
		return nil, ErrNoTrees
	}

	// probabilities are only used
	// if they are defined for all trees
	if len(probs) == len(s.trees) {
		s.probs = probs
	}
	return s, nil
}

func parseProb(s, sep string) (float64, error) {
	if i := strings.Index(s, sep); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid log probability: %v", err)
	}
	return v, nil
}

// FromTimeTrees creates a sample
// from a collection of time calibrated trees.
// Ages are divided by scale
// (for example, 1 for years,
// or 1_000_000 for million years).
func FromTimeTrees(c *timetree.Collection, scale float64) (*Sample, error) {
	s := &Sample{}
	for _, tn := range c.Names() {
		t := c.Tree(tn)
		s.trees = append(s.trees, coaltree.FromTimeTree(t, scale))
	}
	if len(s.trees) == 0 {
		return nil, ErrNoTrees
	}
	return s, nil
}

// Len returns the number of trees in the sample.
func (s *Sample) Len() int {
	return len(s.trees)
}

// Tree returns the i-th tree of the sample.
func (s *Sample) Tree(i int) *coaltree.Tree {
	return s.trees[i]
}

// Best returns the index of the tree
// with the highest probability.
// If the probabilities are not defined,
// it returns the last tree.
func (s *Sample) Best() int {
	if len(s.probs) != len(s.trees) {
		return len(s.trees) - 1
	}
	best := 0
	max := math.Inf(-1)
	for i, p := range s.probs {
		if p > max {
			max = p
			best = i
		}
	}
	return best
}

// LabelSet returns the labels used in the sample.
func (s *Sample) LabelSet() []int {
	seen := make(map[int]bool)
	for _, t := range s.trees {
		for _, l := range t.LabelSet() {
			seen[l] = true
		}
	}
	labels := make([]int, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}

// SetLabels sets the labels of the tips
// of all trees in the sample.
func (s *Sample) SetLabels(l *tiplabel.Labels) {
	m := l.Map()
	for _, t := range s.trees {
		t.SetLabels(m)
	}
}

// Manip applies the tree manipulations
// defined in a parameter collection
// to each tree in the sample.
// If order is not empty,
// it will be used as the ordering of the tips,
// instead of the ordering defined in the parameters.
func (s *Sample) Manip(p *param.P, order []string, cpu int) error {
	if len(order) == 0 {
		order = p.Names(param.Ordering)
	}

	seed := uint64(rand.Int64())
	if p.Has(param.Seed) {
		seed = uint64(int64(p.Value(param.Seed, 0)))
	}

	errs := make([]error, len(s.trees))
	s.each(cpu, func(i int) {
		t := s.trees[i]
		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		errs[i] = manip(t, p, order, rng)
	})
	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("tree %d: %v", i+1, err)
		}
	}
	return nil
}

func manip(t *coaltree.Tree, p *param.P, order []string, rng *rand.Rand) error {
	if v := p.Values(param.PushTimesBack); len(v) == 1 {
		t.PushTimesBack(v[0])
	} else if len(v) == 2 {
		if err := t.PushTimesBackRange(v[0], v[1]); err != nil {
			return err
		}
	}
	if p.Has(param.ReduceTips) {
		t.ReduceTips(p.Value(param.ReduceTips, 1), rng)
	}
	if p.Has(param.RenewTrunk) {
		t.RenewTrunk(p.Value(param.RenewTrunk, 0))
	}
	if v := p.Values(param.TrimEnds); len(v) == 2 {
		if err := t.TrimEnds(v[0], v[1]); err != nil {
			return err
		}
	}
	if v := p.Values(param.SectionTree); len(v) == 3 {
		if err := t.SectionTree(v[0], v[1], v[2]); err != nil {
			return err
		}
	}
	if p.Has(param.TimeSlice) {
		t.TimeSlice(p.Value(param.TimeSlice, 0))
	}
	if p.Has(param.PruneToLabel) {
		t.PruneToLabel(int(p.Value(param.PruneToLabel, 1)))
	}
	if p.Has(param.PruneToTips) {
		t.PruneToTips(p.Names(param.PruneToTips))
	}
	if p.Has(param.RemoveTips) {
		t.RemoveTips(p.Names(param.RemoveTips))
	}
	if p.Has(param.PruneToTrunk) {
		t.PruneToTrunk()
	}
	if v := p.Values(param.PruneToTime); len(v) == 2 {
		t.PruneToTime(v[0], v[1])
	}
	if p.Has(param.CollapseLabels) {
		t.CollapseLabels()
	}
	if p.Has(param.Rotate) {
		t.RotateLoc(p.Value(param.Rotate, 0))
	}
	if p.Has(param.Accumulate) {
		t.AccumulateLoc()
	}
	if p.Has(param.AddTail) && !t.IsEmpty() {
		if err := t.AddTail(p.Value(param.AddTail, 0)); err != nil {
			return err
		}
	}
	if len(order) > 0 {
		t.SetCoords(order)
	}
	return nil
}
