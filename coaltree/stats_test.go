// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package coaltree_test

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

const structured = "((1A:1,1B:1):1,(2C:1,2D:1):1);"

func TestLength(t *testing.T) {
	tr := parse(t, structured)

	tests := map[string]struct {
		got  float64
		want float64
	}{
		"length":         {tr.Length(), 6},
		"length 1":       {tr.LengthLabel(1), 3},
		"length 2":       {tr.LengthLabel(2), 3},
		"label pro 2":    {tr.LabelPro(2), 0.5},
		"root pro 1":     {tr.RootLabelPro(1), 1},
		"root pro 2":     {tr.RootLabelPro(2), 0},
		"trunk pro":      {tr.TrunkPro(), 1},
		"pro from tips":  {tr.LabelProFromTips(1, 1.5), 0.5},
		"pro from tips2": {tr.LabelProFromTipsCond(2, 1.5, 2), 1},
		"mig count":      {float64(tr.MigCount()), 1},
		"mig 1 2":        {float64(tr.MigCountLabels(1, 2)), 1},
		"mig 2 1":        {float64(tr.MigCountLabels(2, 1)), 0},
		"mig 1 1":        {float64(tr.MigCountLabels(1, 1)), 0},
		"mig rate":       {tr.MigRate(), 1.0 / 6},
		"mig rate 1 2":   {tr.MigRateLabels(1, 2), 1.0 / 3},
	}
	for name, test := range tests {
		if math.Abs(test.got-test.want) > 1e-9 {
			t.Errorf("%s: got %.6f, want %.6f", name, test.got, test.want)
		}
	}

	if g := tr.MigRateLabels(3, 1); !math.IsNaN(g) {
		t.Errorf("mig rate of undefined label: got %.6f, want NaN", g)
	}
}

func TestCoalescent(t *testing.T) {
	tr := parse(t, balanced)

	if g := tr.CoalWeight(); math.Abs(g-7) > 1e-9 {
		t.Errorf("coalescent weight: got %.6f, want %.6f", g, 7.0)
	}
	if g := tr.CoalRate(); math.Abs(g-3.0/7) > 1e-9 {
		t.Errorf("coalescent rate: got %.6f, want %.6f", g, 3.0/7)
	}

	st := parse(t, structured)
	if g := st.CoalCountLabel(2); g != 1 {
		t.Errorf("coalescent count 2: got %d, want %d", g, 1)
	}
	if g := st.CoalWeightLabel(2); math.Abs(g-1) > 1e-9 {
		t.Errorf("coalescent weight 2: got %.6f, want %.6f", g, 1.0)
	}
	if g := st.CoalRateLabel(2); math.Abs(g-1) > 1e-9 {
		t.Errorf("coalescent rate 2: got %.6f, want %.6f", g, 1.0)
	}
	if g := st.CoalRateLabel(3); !math.IsNaN(g) {
		t.Errorf("coalescent rate of undefined label: got %.6f, want NaN", g)
	}

	one := parse(t, "A;")
	if g := one.CoalRate(); !math.IsNaN(g) {
		t.Errorf("coalescent rate of a single node: got %.6f, want NaN", g)
	}
}

func TestCoalTrunk(t *testing.T) {
	tr := parse(t, sided)

	if g := tr.CoalCountTrunk(); g != 1 {
		t.Errorf("trunk coalescent count: got %d, want %d", g, 1)
	}
	if g := tr.CoalWeightTrunk(); math.Abs(g-1.5) > 1e-9 {
		t.Errorf("trunk coalescent weight: got %.6f, want %.6f", g, 1.5)
	}
	if g := tr.TimeToTrunk("C"); math.Abs(g-1.5) > 1e-9 {
		t.Errorf("time to trunk %q: got %.6f, want %.6f", "C", g, 1.5)
	}
	if g := tr.TimeToTrunk("A"); g != 0 {
		t.Errorf("time to trunk %q: got %.6f, want %.6f", "A", g, 0.0)
	}
	if g := tr.TimeToTrunk("Z"); !math.IsNaN(g) {
		t.Errorf("time to trunk of undefined tip: got %.6f, want NaN", g)
	}
}

func TestPersistence(t *testing.T) {
	tr := parse(t, "((1A:1,2B:1):1,2C:2);")

	tests := map[string]struct {
		got  float64
		want float64
	}{
		"persistence":     {tr.Persistence(), 1.5},
		"persistence 2":   {tr.PersistenceLabel(2), 1.5},
		"quantile 0":      {tr.PersistenceQuantile(0), 1},
		"quantile 1":      {tr.PersistenceQuantile(1), 2},
		"quantile 2 (1)":  {tr.PersistenceQuantileLabel(1, 2), 2},
		"tips persisting": {tr.LabelProFromTips(1, 1.5), 2.0 / 3},
	}
	for name, test := range tests {
		if math.Abs(test.got-test.want) > 1e-9 {
			t.Errorf("%s: got %.6f, want %.6f", name, test.got, test.want)
		}
	}

	// tips without label changes are ignored
	if g := tr.PersistenceLabel(1); !math.IsNaN(g) {
		t.Errorf("persistence 1: got %.6f, want NaN", g)
	}
	if g := tr.PersistenceQuantile(1.5); !math.IsNaN(g) {
		t.Errorf("persistence quantile 1.5: got %.6f, want NaN", g)
	}
}

func TestDiversity(t *testing.T) {
	tr := parse(t, balanced)

	if g := tr.Diversity(); math.Abs(g-20.0/6) > 1e-9 {
		t.Errorf("diversity: got %.6f, want %.6f", g, 20.0/6)
	}

	names := tr.TipNames()
	for _, a := range names {
		for _, b := range names {
			ab := tr.DiversityPair(a, b)
			ba := tr.DiversityPair(b, a)
			if ab != ba {
				t.Errorf("diversity %q-%q: got %.6f and %.6f", a, b, ab, ba)
			}
			na, _ := tr.FindName(a)
			nb, _ := tr.FindName(b)
			ca, _ := tr.CommonAncestor(na.Number, nb.Number)
			if want := 2 * (tr.PresentTime() - ca.Time); math.Abs(ab-want) > 1e-9 {
				t.Errorf("diversity %q-%q: got %.6f, want %.6f", a, b, ab, want)
			}
		}
	}
	if g := tr.DiversityPair("A", "Z"); !math.IsNaN(g) {
		t.Errorf("diversity with undefined tip: got %.6f, want NaN", g)
	}

	// a1 = 1 + 1/2 + 1/3
	if g, want := tr.TajimaD(), 20.0/6-6/(11.0/6); math.Abs(g-want) > 1e-9 {
		t.Errorf("tajima's D: got %.6f, want %.6f", g, want)
	}
}

func TestFst(t *testing.T) {
	tr := parse(t, structured)

	tests := map[string]struct {
		got  float64
		want float64
	}{
		"diversity 1": {tr.DiversityLabel(1), 2},
		"diversity 2": {tr.DiversityLabel(2), 2},
		"within":      {tr.DiversityWithin(), 2},
		"between":     {tr.DiversityBetween(), 4},
		"fst":         {tr.Fst(), 0.5},
	}
	for name, test := range tests {
		if math.Abs(test.got-test.want) > 1e-9 {
			t.Errorf("%s: got %.6f, want %.6f", name, test.got, test.want)
		}
	}

	// no structure
	st := parse(t, "(1A:1,1B:1,2C:1,2D:1);")
	if g := st.Fst(); math.Abs(g) > 1e-9 {
		t.Errorf("fst without structure: got %.6f, want %.6f", g, 0.0)
	}

	// a single label
	bt := parse(t, balanced)
	if g := bt.Fst(); !math.IsNaN(g) {
		t.Errorf("fst with a single label: got %.6f, want NaN", g)
	}
	if g := bt.DiversityLabel(3); !math.IsNaN(g) {
		t.Errorf("diversity of undefined label: got %.6f, want NaN", g)
	}
}

func TestMeanRate(t *testing.T) {
	tr := parse(t, "((A[&rate=1]:1,B[&rate=2]:1):1,C[&rate=3]:2);")
	if g := tr.MeanRate(); math.Abs(g-2) > 1e-9 {
		t.Errorf("mean rate: got %.6f, want %.6f", g, 2.0)
	}
}

func TestPrintTree(t *testing.T) {
	tr := parse(t, balanced)

	var w bytes.Buffer
	if err := tr.PrintTree(&w); err != nil {
		t.Fatalf("print tree: %v", err)
	}
	t.Logf("tree:\n%s", w.String())

	lines := strings.Split(strings.TrimSpace(w.String()), "\n")
	if len(lines) != tr.NodeCount() {
		t.Errorf("print tree: got %d lines, want %d", len(lines), tr.NodeCount())
	}
	if want := "    2 A [1] 0.000000 trunk"; lines[2] != want {
		t.Errorf("print tree: got %q, want %q", lines[2], want)
	}
}

func TestRuleList(t *testing.T) {
	tr := parse(t, balanced)

	var w bytes.Buffer
	if err := tr.RuleList(&w, false); err != nil {
		t.Fatalf("rule list: %v", err)
	}
	t.Logf("rules:\n%s", w.String())

	lines := strings.Split(strings.TrimSpace(w.String()), "\n")
	if len(lines) != tr.NodeCount()-1 {
		t.Errorf("rule list: got %d rules, want %d", len(lines), tr.NodeCount()-1)
	}
	if want := "{0 -> 1, {{-2, 1.5}, {-1, 0.5}}, 1}"; lines[0] != want {
		t.Errorf("rule list: got %q, want %q", lines[0], want)
	}

	w.Reset()
	if err := tr.RuleListWithOrdering(&w, []string{"D", "C", "B", "A"}); err != nil {
		t.Fatalf("rule list with ordering: %v", err)
	}
	lines = strings.Split(strings.TrimSpace(w.String()), "\n")
	if want := "{0 -> 1, {{-2, 1.5}, {-1, 2.5}}, 1}"; lines[0] != want {
		t.Errorf("rule list with ordering: got %q, want %q", lines[0], want)
	}

	w.Reset()
	if err := tr.RuleList(&w, true); err != nil {
		t.Fatalf("circular rule list: %v", err)
	}
	lines = strings.Split(strings.TrimSpace(w.String()), "\n")
	if len(lines) != tr.NodeCount()-1 {
		t.Errorf("circular rule list: got %d rules, want %d", len(lines), tr.NodeCount()-1)
	}
}
