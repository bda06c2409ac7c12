// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tiplabel_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/pact/tiplabel"
)

func TestLabels(t *testing.T) {
	l := newLabels()

	testLabels(t, "labels", l)
}

func TestTSV(t *testing.T) {
	l := newLabels()

	var w bytes.Buffer
	if err := l.TSV(&w); err != nil {
		t.Fatalf("unable to write TSV data: %v", err)
	}
	t.Logf("output:\n%s\n", w.String())

	r := strings.NewReader(w.String())
	nl, err := tiplabel.ReadTSV(r)
	if err != nil {
		t.Fatalf("unable to read TSV data: %v", err)
	}

	testLabels(t, "tsv", nl)
}

func TestReadTSVError(t *testing.T) {
	tests := map[string]string{
		"no label field": "tip\tstate\nA\t1\n",
		"bad label":      "tip\tlabel\nA\tone\n",
	}
	for name, data := range tests {
		if _, err := tiplabel.ReadTSV(strings.NewReader(data)); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}

func TestReadOrder(t *testing.T) {
	data := `# tip order
A/Wellington/1/2004

A/Hong_Kong/1/1968
A/Wellington/1/2004
A/New_York/392/2004
`
	tips, err := tiplabel.ReadOrder(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unable to read order: %v", err)
	}
	want := []string{"A/Wellington/1/2004", "A/Hong_Kong/1/1968", "A/New_York/392/2004"}
	if !reflect.DeepEqual(tips, want) {
		t.Errorf("order: got %v, want %v", tips, want)
	}
}

func newLabels() *tiplabel.Labels {
	l := tiplabel.New()

	l.Set("A/Hong_Kong/1/1968", 1)
	l.Set("A/Wellington/1/2004", 2)
	l.Set("A/New_York/392/2004", 3)
	l.Set("A/Fujian/411/2002", 2)
	return l
}

func testLabels(t testing.TB, name string, l *tiplabel.Labels) {
	t.Helper()

	tips := []string{"A/Fujian/411/2002", "A/Hong_Kong/1/1968", "A/New_York/392/2004", "A/Wellington/1/2004"}
	if g := l.Tips(); !reflect.DeepEqual(g, tips) {
		t.Errorf("%s: tips: got %v, want %v", name, g, tips)
	}

	labels := []int{1, 2, 3}
	if g := l.Labels(); !reflect.DeepEqual(g, labels) {
		t.Errorf("%s: labels: got %v, want %v", name, g, labels)
	}

	want := map[string]int{
		"A/Fujian/411/2002":   2,
		"A/Hong_Kong/1/1968":  1,
		"A/New_York/392/2004": 3,
		"A/Wellington/1/2004": 2,
	}
	if g := l.Map(); !reflect.DeepEqual(g, want) {
		t.Errorf("%s: map: got %v, want %v", name, g, want)
	}
	if _, ok := l.Label("A/Brisbane/10/2007"); ok {
		t.Errorf("%s: label of undefined tip: found", name)
	}
}
