// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package report_test

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/js-arias/pact/param"
	"github.com/js-arias/pact/project"
	"github.com/js-arias/pact/report"
)

func TestReadProject(t *testing.T) {
	files := map[string]string{
		"tmp-trees-for-test.tab":    beastTrees,
		"tmp-param-for-test.tab":    "parameter\tvalue\nburnin\t1\nprune_to_label\t1\n",
		"tmp-labels-for-test.tab":   "tip\tlabel\n1A\t3\n",
		"tmp-ordering-for-test.tab": "1B\n1A\n",
	}
	for name, data := range files {
		if err := os.WriteFile(name, []byte(data), 0644); err != nil {
			t.Fatalf("unable to write file %q: %v", name, err)
		}
		defer os.Remove(name)
	}

	p := project.New()
	p.SetName("tmp-project-for-test.tab")
	p.Add(project.Trees, "tmp-trees-for-test.tab")
	p.Add(project.Param, "tmp-param-for-test.tab")
	p.Add(project.Labels, "tmp-labels-for-test.tab")
	p.Add(project.Ordering, "tmp-ordering-for-test.tab")

	d, err := report.ReadProject(p, 1)
	if err != nil {
		t.Fatalf("unable to read project: %v", err)
	}
	if d.Sample.Len() != 2 {
		t.Errorf("trees: got %d, want %d", d.Sample.Len(), 2)
	}
	if !d.Param.Has(param.PruneToLabel) {
		t.Errorf("param: %q undefined", param.PruneToLabel)
	}
	if !reflect.DeepEqual(d.Order, []string{"1B", "1A"}) {
		t.Errorf("order: got %v, want %v", d.Order, []string{"1B", "1A"})
	}
	if ls := d.Sample.LabelSet(); !reflect.DeepEqual(ls, []int{1, 2, 3}) {
		t.Errorf("labels: got %v, want %v", ls, []int{1, 2, 3})
	}

	if err := d.Sample.Manip(d.Param, d.Order, 0); err != nil {
		t.Fatalf("manip: %v", err)
	}
	// only 1B has label 1
	if n := d.Sample.Tree(0).LeafCount(); n != 1 {
		t.Errorf("tips after manip: got %d, want %d", n, 1)
	}
}

func TestReadProjectNoTrees(t *testing.T) {
	p := project.New()
	p.SetName("tmp-project-for-test.tab")
	if _, err := report.ReadProject(p, 1); !errors.Is(err, report.ErrNoTreeFile) {
		t.Errorf("project without trees: got error %v, want %v", err, report.ErrNoTreeFile)
	}
}
