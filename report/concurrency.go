// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package report

import (
	"runtime"
	"sync"

	"github.com/js-arias/pact/coaltree"
	"github.com/js-arias/pact/series"
)

// each calls fn with the index of each tree in the sample,
// using cpu goroutines.
// The default (zero) uses all available CPU.
func (s *Sample) each(cpu int, fn func(i int)) {
	if cpu <= 0 {
		cpu = runtime.NumCPU()
	}
	if cpu > len(s.trees) {
		cpu = len(s.trees)
	}

	idChan := make(chan int, cpu*2)
	var wg sync.WaitGroup
	for range cpu {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idChan {
				fn(i)
			}
		}()
	}

	for i := range s.trees {
		idChan <- i
	}
	close(idChan)
	wg.Wait()
}

// values returns the value of a statistic
// for each tree of the sample.
// The statistic is evaluated on a copy of each tree,
// so the statistic can modify the tree.
func (s *Sample) values(cpu int, stat func(t *coaltree.Tree) float64) []float64 {
	vals := make([]float64, len(s.trees))
	s.each(cpu, func(i int) {
		vals[i] = stat(s.trees[i].Clone())
	})
	return vals
}

// series returns the values of a statistic
// over the sample as a series.
func (s *Sample) series(cpu int, stat func(t *coaltree.Tree) float64) *series.Series {
	sr := series.New()
	for _, v := range s.values(cpu, stat) {
		sr.Insert(v)
	}
	return sr
}

// view returns the values of a read-only statistic
// over the sample as a series.
// The statistic is evaluated on the trees of the sample,
// so it must not modify them.
func (s *Sample) view(cpu int, stat func(t *coaltree.Tree) float64) *series.Series {
	vals := make([]float64, len(s.trees))
	s.each(cpu, func(i int) {
		vals[i] = stat(s.trees[i])
	})

	sr := series.New()
	for _, v := range vals {
		sr.Insert(v)
	}
	return sr
}
