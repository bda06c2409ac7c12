// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project_test

import (
	"os"
	"reflect"
	"slices"
	"testing"

	"github.com/js-arias/pact/project"
)

type setPath struct {
	set  project.Dataset
	path string
}

func TestProject(t *testing.T) {
	p := project.New()

	sets := []setPath{
		{project.Trees, "h3n2.trees"},
		{project.Param, "h3n2.param"},
		{project.Labels, "labels.tab"},
		{project.Ordering, "ordering.txt"},
	}

	for _, s := range sets {
		p.Add(s.set, s.path)
	}
	testProject(t, p, sets)

	name := "tmp-project-for-test.tab"
	defer os.Remove(name)

	p.SetName(name)
	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := project.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	if np.Name() != name {
		t.Errorf("name: got %q, want %q", np.Name(), name)
	}
	testProject(t, np, sets)

	if prev := np.Add(project.Ordering, ""); prev != "ordering.txt" {
		t.Errorf("remove ordering: got previous %q, want %q", prev, "ordering.txt")
	}
	testProject(t, np, sets[:3])
}

func TestReadUnknownDataset(t *testing.T) {
	name := "tmp-bad-project-for-test.tab"
	defer os.Remove(name)

	data := "dataset\tpath\ntrees\th3n2.trees\nlandscape\tlandscape.tab\n"
	if err := os.WriteFile(name, []byte(data), 0644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}
	if _, err := project.Read(name); err == nil {
		t.Errorf("expecting error for unknown dataset")
	}
}

func testProject(t testing.TB, p *project.Project, sets []setPath) {
	t.Helper()

	for _, s := range sets {
		if path := p.Path(s.set); path != s.path {
			t.Errorf("set %s: got path %q, want %q", s.set, path, s.path)
		}
	}
	datasets := make([]project.Dataset, 0, len(sets))
	for _, v := range sets {
		datasets = append(datasets, v.set)
	}
	slices.Sort(datasets)

	if ls := p.Sets(); !reflect.DeepEqual(ls, datasets) {
		t.Errorf("sets: got %v, want %v", ls, datasets)
	}
}

func TestReadDatasets(t *testing.T) {
	labels := "tmp-labels-for-test.tab"
	defer os.Remove(labels)
	if err := os.WriteFile(labels, []byte("tip\tlabel\nA\t2\nB\t1\n"), 0644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}
	order := "tmp-ordering-for-test.txt"
	defer os.Remove(order)
	if err := os.WriteFile(order, []byte("# ordering\nB\nA\nB\n"), 0644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}

	p := project.New()
	l, err := p.Labels()
	if err != nil {
		t.Fatalf("undefined labels: %v", err)
	}
	if ls := l.Labels(); len(ls) != 0 {
		t.Errorf("undefined labels: got %v, want empty", ls)
	}
	if _, err := p.TimeTrees(); err == nil {
		t.Errorf("undefined time trees: expecting error")
	}

	p.Add(project.Labels, labels)
	p.Add(project.Ordering, order)

	l, err = p.Labels()
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	if lb, ok := l.Label("A"); !ok || lb != 2 {
		t.Errorf("label %q: got %d, want %d", "A", lb, 2)
	}
	o, err := p.Ordering()
	if err != nil {
		t.Fatalf("ordering: %v", err)
	}
	if want := []string{"B", "A"}; !reflect.DeepEqual(o, want) {
		t.Errorf("ordering: got %v, want %v", o, want)
	}
}
