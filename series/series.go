// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package series implements a sample of real values
// with summary statistics.
//
// A series is used to aggregate the value of a statistic
// across a sample of trees.
// Undefined values (NaN or infinite)
// are not stored,
// but they are counted.
package series

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// ErrEmpty is returned when a statistic
// is requested on a series without defined values.
var ErrEmpty = errors.New("empty series")

// A Series is a sample of values.
type Series struct {
	values    []float64
	sorted    bool
	undefined int
}

// New creates a new empty series.
func New() *Series {
	return &Series{sorted: true}
}

// Insert adds a value to the series.
// NaN and infinite values are discarded.
func (s *Series) Insert(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s.undefined++
		return
	}
	s.values = append(s.values, v)
	s.sorted = false
}

// Len returns the number of defined values
// in the series.
func (s *Series) Len() int {
	return len(s.values)
}

// Undefined returns the number of discarded values.
func (s *Series) Undefined() int {
	return s.undefined
}

// Reset removes all values of the series.
func (s *Series) Reset() {
	s.values = s.values[:0]
	s.sorted = true
	s.undefined = 0
}

// At returns the value at position i
// of the sorted series.
func (s *Series) At(i int) (float64, error) {
	if len(s.values) == 0 {
		return 0, ErrEmpty
	}
	if i < 0 || i >= len(s.values) {
		return 0, fmt.Errorf("index %d out of range [0, %d)", i, len(s.values))
	}
	s.sort()
	return s.values[i], nil
}

// Mean returns the arithmetic mean of the series.
func (s *Series) Mean() (float64, error) {
	if len(s.values) == 0 {
		return 0, ErrEmpty
	}
	return stat.Mean(s.values, nil), nil
}

// Quantile returns the value of the empirical distribution
// of the series at the probability p.
//
// When n*p is an integer j,
// the quantile is the average of the values
// at the sorted positions j-1 and j.
func (s *Series) Quantile(p float64) (float64, error) {
	if len(s.values) == 0 {
		return 0, ErrEmpty
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("invalid probability %.6f", p)
	}
	s.sort()

	n := len(s.values)
	if p == 0 {
		return s.values[0], nil
	}
	q := stat.Quantile(p, stat.Empirical, s.values, nil)

	np := float64(n) * p
	j := int(math.Floor(np))
	if np-float64(j) == 0 && j < n {
		q = (q + s.values[j]) / 2
	}
	return q, nil
}

func (s *Series) sort() {
	if s.sorted {
		return
	}
	slices.Sort(s.values)
	s.sorted = true
}
