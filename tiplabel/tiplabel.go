// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tiplabel implements tables
// that assign labels to the tips of coalescent trees.
//
// By default,
// the label of a tip is read from the leading digits
// of the tip name.
// A table of tip labels can be used to override
// or to set the labels of tips
// with names that do not encode a label.
package tiplabel

import (
	"slices"
	"strings"
)

// Labels is a collection of tip labels.
type Labels struct {
	tips map[string]int
}

// New creates a new empty collection of tip labels.
func New() *Labels {
	return &Labels{
		tips: make(map[string]int),
	}
}

// Set sets the label of a tip.
func (l *Labels) Set(tip string, label int) {
	tip = strings.TrimSpace(tip)
	if tip == "" {
		return
	}
	l.tips[tip] = label
}

// Label returns the label of a tip.
func (l *Labels) Label(tip string) (int, bool) {
	lb, ok := l.tips[tip]
	return lb, ok
}

// Labels returns the labels used in the collection.
func (l *Labels) Labels() []int {
	seen := make(map[int]bool)
	var labels []int
	for _, lb := range l.tips {
		if seen[lb] {
			continue
		}
		seen[lb] = true
		labels = append(labels, lb)
	}
	slices.Sort(labels)
	return labels
}

// Tips returns the tips with a label.
func (l *Labels) Tips() []string {
	tips := make([]string, 0, len(l.tips))
	for tp := range l.tips {
		tips = append(tips, tp)
	}
	slices.Sort(tips)
	return tips
}

// Map returns the labels as a map of tip names to labels.
func (l *Labels) Map() map[string]int {
	m := make(map[string]int, len(l.tips))
	for tp, lb := range l.tips {
		m[tp] = lb
	}
	return m
}
