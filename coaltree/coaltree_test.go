// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package coaltree_test

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/pact/coaltree"
	"github.com/js-arias/timetree"
)

const balanced = "((A:1,B:1):1,(C:1,D:1):1);"

func TestParse(t *testing.T) {
	tr := parse(t, balanced)
	testInvariants(t, "balanced", tr, true)

	if g := tr.TMRCA(); g != 2 {
		t.Errorf("tmrca: got %.6f, want %.6f", g, 2.0)
	}
	if g := tr.LeafCount(); g != 4 {
		t.Errorf("leaf count: got %d, want %d", g, 4)
	}
	if g := tr.NodeCount(); g != 7 {
		t.Errorf("node count: got %d, want %d", g, 7)
	}
	if g := tr.CoalCount(); g != 3 {
		t.Errorf("coalescent count: got %d, want %d", g, 3)
	}
	if g := tr.RootTime(); g != -2 {
		t.Errorf("root time: got %.6f, want %.6f", g, -2.0)
	}
	if g := tr.PresentTime(); g != 0 {
		t.Errorf("present time: got %.6f, want %.6f", g, 0.0)
	}

	names := []string{"A", "B", "C", "D"}
	if g := tr.TipNames(); !reflect.DeepEqual(g, names) {
		t.Errorf("tip names: got %v, want %v", g, names)
	}

	var numbers []int
	for _, n := range tr.Nodes() {
		numbers = append(numbers, n.Number)
	}
	if want := []int{0, 1, 2, 3, 4, 5, 6}; !reflect.DeepEqual(numbers, want) {
		t.Errorf("node numbers: got %v, want %v", numbers, want)
	}
}

func TestParseTimes(t *testing.T) {
	tr := parse(t, "((A:1,B:2):1,C:1);")

	times := map[string]float64{
		"A": -1,
		"B": 0,
		"C": -2,
	}
	for n, w := range times {
		if g := tr.Time(n); g != w {
			t.Errorf("time %q: got %.6f, want %.6f", n, g, w)
		}
	}
	if g := tr.RootTime(); g != -3 {
		t.Errorf("root time: got %.6f, want %.6f", g, -3.0)
	}
	if g := tr.Time("Z"); !math.IsNaN(g) {
		t.Errorf("time of undefined tip: got %.6f, want NaN", g)
	}
}

func TestParseLabels(t *testing.T) {
	tr := parse(t, "(0A:1,1B:1);")

	if g := tr.LabelSet(); !reflect.DeepEqual(g, []int{0, 1}) {
		t.Errorf("label set: got %v, want %v", g, []int{0, 1})
	}
	labels := map[string]int{
		"0A": 0,
		"1B": 1,
	}
	for n, w := range labels {
		g, ok := tr.Label(n)
		if !ok {
			t.Errorf("label %q: tip not found", n)
			continue
		}
		if g != w {
			t.Errorf("label %q: got %d, want %d", n, g, w)
		}
	}
	if _, ok := tr.Label("2C"); ok {
		t.Errorf("label %q: found undefined tip", "2C")
	}
}

func TestParseAnnotations(t *testing.T) {
	tr := parse(t, "((A[&label=2]:1,B:1):1,'C c':2[&rate=0.5,location={1.5,-2}]);")

	want := map[string]coaltree.Node{
		"A":   {Name: "A", Label: 2},
		"B":   {Name: "B", Label: 1},
		"C c": {Name: "C c", Label: 1, Rate: 0.5, X: 1.5, Y: -2},
	}
	for n, w := range want {
		g, ok := tr.FindName(n)
		if !ok {
			t.Errorf("node %q: not found", n)
			continue
		}
		if g.Label != w.Label {
			t.Errorf("node %q: label: got %d, want %d", n, g.Label, w.Label)
		}
		if g.Rate != w.Rate {
			t.Errorf("node %q: rate: got %.6f, want %.6f", n, g.Rate, w.Rate)
		}
		if g.X != w.X || g.Y != w.Y {
			t.Errorf("node %q: location: got {%.6f,%.6f}, want {%.6f,%.6f}", n, g.X, g.Y, w.X, w.Y)
		}
	}

	// internal nodes take the label of the first child
	root, _ := tr.Root()
	if root.Label != 2 {
		t.Errorf("root label: got %d, want %d", root.Label, 2)
	}
	if g := tr.LabelSet(); !reflect.DeepEqual(g, []int{1, 2}) {
		t.Errorf("label set: got %v, want %v", g, []int{1, 2})
	}
}

func TestParseError(t *testing.T) {
	tests := map[string]string{
		"empty":         "",
		"unbalanced":    "((A:1,B:1):1",
		"bad length":    "(A:x,B:1);",
		"trailing":      "(A:1,B:1);junk",
		"extra closing": "(A:1,B:1));",
		"annotation":    "(A[&label=1:1,B:1);",
	}
	for name, s := range tests {
		if _, err := coaltree.Parse(s); err == nil {
			t.Errorf("%s: expecting error for %q", name, s)
		}
	}
}

func TestNewick(t *testing.T) {
	tr := parse(t, "((1A[&x=1,y=0]:1,2B:1.5):1,'C c':2.5[&rate=0.25]);")

	s := tr.String()
	t.Logf("newick: %s", s)

	nt, err := coaltree.Read(strings.NewReader(s))
	if err != nil {
		t.Fatalf("unable to read tree %q: %v", s, err)
	}
	if !reflect.DeepEqual(nt.Nodes(), tr.Nodes()) {
		t.Errorf("newick: got %v, want %v", nt.Nodes(), tr.Nodes())
	}
}

func TestClone(t *testing.T) {
	tr := parse(t, balanced)
	c := tr.Clone()
	c.PruneToTips([]string{"A", "C"})

	if g := tr.NodeCount(); g != 7 {
		t.Errorf("node count after modifying the clone: got %d, want %d", g, 7)
	}
	if g := c.NodeCount(); g != 3 {
		t.Errorf("clone node count: got %d, want %d", g, 3)
	}
}

func TestCommonAncestor(t *testing.T) {
	tr := parse(t, balanced)

	tests := []struct {
		a, b int
		want int
	}{
		{2, 3, 1},
		{3, 2, 1},
		{2, 5, 0},
		{2, 2, 2},
		{1, 3, 1},
	}
	for _, test := range tests {
		g, ok := tr.CommonAncestor(test.a, test.b)
		if !ok {
			t.Errorf("common ancestor of %d and %d: not found", test.a, test.b)
			continue
		}
		if g.Number != test.want {
			t.Errorf("common ancestor of %d and %d: got %d, want %d", test.a, test.b, g.Number, test.want)
		}
	}

	if _, ok := tr.CommonAncestor(2, 99); ok {
		t.Errorf("common ancestor with undefined node: found")
	}
}

func TestCountDescendants(t *testing.T) {
	tr := parse(t, balanced)

	want := map[int]int{
		0: 4,
		1: 2,
		2: 1,
		4: 2,
	}
	for n, w := range want {
		g, ok := tr.CountDescendants(n)
		if !ok {
			t.Errorf("descendants of %d: node not found", n)
			continue
		}
		if g != w {
			t.Errorf("descendants of %d: got %d, want %d", n, g, w)
		}
	}
	if _, ok := tr.CountDescendants(99); ok {
		t.Errorf("descendants of undefined node: found")
	}
}

func TestRenumber(t *testing.T) {
	tr := parse(t, balanced)

	if g := tr.Renumber(10); g != 17 {
		t.Errorf("renumber: got %d, want %d", g, 17)
	}
	for i, n := range tr.Nodes() {
		if n.Number != 10+i {
			t.Errorf("renumber: node %d: got number %d, want %d", i, n.Number, 10+i)
		}
	}
	if g := tr.NodeCount(); g != 7 {
		t.Errorf("node count: got %d, want %d", g, 7)
	}

	a, _ := tr.FindName("A")
	if a.Number != 12 {
		t.Errorf("renumber: tip %q: got %d, want %d", "A", a.Number, 12)
	}
	if p, ok := tr.Parent(a.Number); !ok || p.Number != 11 {
		t.Errorf("renumber: parent of %q: got %d, want %d", "A", p.Number, 11)
	}
	if c := tr.Children(10); !reflect.DeepEqual(c, []int{11, 14}) {
		t.Errorf("renumber: root children: got %v, want %v", c, []int{11, 14})
	}
}

func TestFromTimeTree(t *testing.T) {
	c, err := timetree.Newick(strings.NewReader(balanced), "balanced", 0)
	if err != nil {
		t.Fatalf("unable to read time tree: %v", err)
	}
	tt := c.Tree(c.Names()[0])

	scale := 1e6
	tr := coaltree.FromTimeTree(tt, scale)
	testInvariants(t, "time tree", tr, true)

	if g := tr.LeafCount(); g != 4 {
		t.Errorf("time tree: leaf count: got %d, want %d", g, 4)
	}
	want := float64(tt.Age(tt.Root())) / scale
	if g := tr.TMRCA(); math.Abs(g-want) > 1e-9 {
		t.Errorf("time tree: tmrca: got %.6f, want %.6f", g, want)
	}
	if g := tr.PresentTime(); g != 0 {
		t.Errorf("time tree: present: got %.6f, want %.6f", g, 0.0)
	}
}

func parse(t testing.TB, s string) *coaltree.Tree {
	t.Helper()

	tr, err := coaltree.Parse(s)
	if err != nil {
		t.Fatalf("unable to parse %q: %v", s, err)
	}
	return tr
}

// testInvariants checks the structure of a tree.
// If binary is true,
// internal nodes must have exactly two children,
// except for the root.
func testInvariants(t testing.TB, name string, tr *coaltree.Tree, binary bool) {
	t.Helper()

	nodes := tr.Nodes()
	seen := make(map[int]bool, len(nodes))
	for i, n := range nodes {
		if seen[n.Number] {
			t.Errorf("%s: node number %d repeated", name, n.Number)
		}
		seen[n.Number] = true

		p, ok := tr.Parent(n.Number)
		if i == 0 {
			if ok {
				t.Errorf("%s: root %d has parent %d", name, n.Number, p.Number)
			}
			if n.Length != 0 {
				t.Errorf("%s: root %d: length %.6f", name, n.Number, n.Length)
			}
		} else {
			if !ok {
				t.Errorf("%s: node %d without parent", name, n.Number)
				continue
			}
			if math.Abs(n.Time-p.Time-n.Length) > 1e-6 {
				t.Errorf("%s: node %d: length %.6f, time difference %.6f", name, n.Number, n.Length, n.Time-p.Time)
			}
		}

		if !tr.HasLabel(n.Label) {
			t.Errorf("%s: node %d: label %d not in label set", name, n.Number, n.Label)
		}

		c := tr.Children(n.Number)
		if binary && i > 0 && len(c) == 1 {
			t.Errorf("%s: node %d: single child", name, n.Number)
		}
		for _, cn := range c {
			cp, ok := tr.Parent(cn)
			if !ok || cp.Number != n.Number {
				t.Errorf("%s: node %d: child %d with parent %d", name, n.Number, cn, cp.Number)
			}
		}
	}
}

func TestNewickAccumulated(t *testing.T) {
	tr := parse(t, "((A[&x=1,y=-1]:1,B[&x=2]:1)[&x=1,y=2]:1,C[&x=3,y=0.5]:2);")
	tr.AccumulateLoc()

	nt := parse(t, tr.String())
	nt.AccumulateLoc()

	tests := map[string]struct {
		got  []float64
		want []float64
	}{
		"x": {nt.TipsX(), tr.TipsX()},
		"y": {nt.TipsY(), tr.TipsY()},
	}
	for name, test := range tests {
		if len(test.got) != len(test.want) {
			t.Fatalf("tips %s: got %v, want %v", name, test.got, test.want)
		}
		for i, g := range test.got {
			if math.Abs(g-test.want[i]) > 1e-9 {
				t.Errorf("tips %s: tip %d: got %.6f, want %.6f", name, i, g, test.want[i])
			}
		}
	}

	a, _ := nt.FindName("A")
	if math.Abs(a.X-2) > 1e-9 || math.Abs(a.Y-1) > 1e-9 {
		t.Errorf("position of %q: got {%.6f,%.6f}, want {%.6f,%.6f}", "A", a.X, a.Y, 2.0, 1.0)
	}
}

func TestFindAfterChanges(t *testing.T) {
	tr := parse(t, balanced)
	c := tr.Clone()
	c.PruneToTips([]string{"A", "C"})

	if _, ok := c.FindName("B"); ok {
		t.Errorf("find %q in pruned tree: found", "B")
	}
	if _, ok := tr.FindName("B"); !ok {
		t.Errorf("find %q in source tree: not found", "B")
	}
	for _, n := range c.Nodes() {
		g, ok := c.FindNumber(n.Number)
		if !ok || g.Name != n.Name || g.Time != n.Time {
			t.Errorf("find number %d: got %v, want %v", n.Number, g, n)
		}
		if n.Name == "" {
			continue
		}
		g, ok = c.FindName(n.Name)
		if !ok || g.Number != n.Number {
			t.Errorf("find %q: got %d, want %d", n.Name, g.Number, n.Number)
		}
	}

	c.Renumber(10)
	root, _ := c.Root()
	if g, ok := c.FindNumber(10); !ok || g.Number != root.Number {
		t.Errorf("find number %d after renumber: got %d, want %d", 10, g.Number, root.Number)
	}
	if _, ok := c.FindNumber(0); ok {
		t.Errorf("find number %d after renumber: found", 0)
	}
	if g, ok := c.FindName("C"); !ok || g.Number != 12 {
		t.Errorf("find %q after renumber: got %d, want %d", "C", g.Number, 12)
	}
}
