// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package param_test

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/pact/param"
)

func TestParam(t *testing.T) {
	name := "tmp-parameters-for-test.tab"
	p := param.New(name)

	sets := map[param.Param]string{
		param.Burnin:           "100",
		param.PushTimesBack:    "1968 2009",
		param.PruneToTips:      "A/Hong_Kong/1/1968 A/Fujian/411/2002",
		param.SummaryTMRCA:     "",
		param.Skyline:          "1990 2005 0.5",
		param.SkylineDiversity: "yes",
		param.PairsDiversity:   "1.5",
	}
	for par, v := range sets {
		if err := p.Set(par, v); err != nil {
			t.Fatalf("set %q: %v", par, err)
		}
	}
	testParam(t, p)

	defer os.Remove(name)
	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := param.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	if np.Name() != name {
		t.Errorf("name: got %q, want %q", np.Name(), name)
	}
	testParam(t, np)

	np.Set(param.SummaryTMRCA, "false")
	if np.Has(param.SummaryTMRCA) {
		t.Errorf("flag %q: still defined after disabled", param.SummaryTMRCA)
	}
	if np.Any(param.Summary) {
		t.Errorf("summary: got true, want false")
	}
}

func testParam(t testing.TB, p *param.P) {
	t.Helper()

	want := []param.Param{
		param.Burnin,
		param.PushTimesBack,
		param.PruneToTips,
		param.SummaryTMRCA,
		param.Skyline,
		param.SkylineDiversity,
		param.PairsDiversity,
	}
	if ps := p.Params(); !reflect.DeepEqual(ps, want) {
		t.Errorf("params: got %v, want %v", ps, want)
	}

	if b := p.Burnin(); b != 100 {
		t.Errorf("burnin: got %d, want %d", b, 100)
	}
	if v := p.Values(param.PushTimesBack); !reflect.DeepEqual(v, []float64{1968, 2009}) {
		t.Errorf("push times back: got %v, want %v", v, []float64{1968, 2009})
	}
	if v := p.Values(param.Skyline); !reflect.DeepEqual(v, []float64{1990, 2005, 0.5}) {
		t.Errorf("skyline: got %v, want %v", v, []float64{1990, 2005, 0.5})
	}
	names := []string{"A/Hong_Kong/1/1968", "A/Fujian/411/2002"}
	if n := p.Names(param.PruneToTips); !reflect.DeepEqual(n, names) {
		t.Errorf("prune to tips: got %v, want %v", n, names)
	}
	if v := p.Value(param.PairsDiversity, 0); v != 1.5 {
		t.Errorf("pairs diversity: got %.6f, want %.6f", v, 1.5)
	}
	if v := p.Value(param.TimeSlice, -1); v != -1 {
		t.Errorf("undefined time slice: got %.6f, want %.6f", v, -1.0)
	}

	groups := map[param.Group]bool{
		param.Manip:    true,
		param.Print:    false,
		param.Summary:  true,
		param.Skylines: true,
		param.Tips:     false,
		param.Pairs:    true,
	}
	for g, w := range groups {
		if a := p.Any(g); a != w {
			t.Errorf("group %d: got %v, want %v", g, a, w)
		}
	}
}

func TestParseParam(t *testing.T) {
	tests := map[string]param.Param{
		"push times back":     param.PushTimesBack,
		"Summary-TMRCA":       param.SummaryTMRCA,
		"  skyline_settings ": param.Skyline,
	}
	for s, want := range tests {
		p, err := param.ParseParam(s)
		if err != nil {
			t.Errorf("parse %q: %v", s, err)
			continue
		}
		if p != want {
			t.Errorf("parse %q: got %q, want %q", s, p, want)
		}
	}

	if _, err := param.ParseParam("summary mass"); err == nil {
		t.Errorf("parse unknown parameter: expecting error")
	}
}

func TestReadTSV(t *testing.T) {
	data := `# pact parameters
parameter	value
Time slice	2000
prune to trunk
print tree	true
`
	p, err := param.ReadTSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unable to read parameters: %v", err)
	}
	want := []param.Param{param.TimeSlice, param.PruneToTrunk, param.PrintTree}
	if ps := p.Params(); !reflect.DeepEqual(ps, want) {
		t.Errorf("params: got %v, want %v", ps, want)
	}
	if v := p.Value(param.TimeSlice, 0); v != 2000 {
		t.Errorf("time slice: got %.6f, want %.6f", v, 2000.0)
	}
}

func TestSetError(t *testing.T) {
	tests := []struct {
		par   param.Param
		value string
	}{
		{param.TrimEnds, "2000"},
		{param.TrimEnds, "2005 2000"},
		{param.ReduceTips, "1.5"},
		{param.Burnin, "10.5"},
		{param.SectionTree, "2000 0 1"},
		{param.Skyline, "2000 2005 0"},
		{param.TimeSlice, "now"},
		{param.PrintTree, "maybe"},
		{param.Param("landscape"), "1"},
	}
	for _, test := range tests {
		p := param.New("")
		if err := p.Set(test.par, test.value); err == nil {
			t.Errorf("set %q to %q: expecting error", test.par, test.value)
		}
	}
}
