// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package param implements reading and writing
// of the parameters of a PACT analysis.
//
// Parameters define the manipulations applied to each tree
// and the statistics reported for the sample of trees.
package param

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Param is a keyword to identify
// a parameter in a parameter file.
type Param string

// Valid parameters.
//
// Tree manipulations are applied
// in the order of the declaration.
const (
	// Burnin is the number of trees
	// discarded at the start of a tree file.
	Burnin Param = "burnin"

	// Seed is the seed for random operations.
	Seed Param = "seed"

	// PushTimesBack sets the time of the most recent sample
	// (one value)
	// or the time of the oldest and most recent samples
	// (two values).
	PushTimesBack Param = "push_times_back"

	// ReduceTips keeps each tip
	// with the indicated probability.
	ReduceTips Param = "reduce_tips"

	// RenewTrunk redefines the trunk
	// from tips sampled in the indicated time
	// before the present.
	RenewTrunk Param = "renew_trunk"

	// TrimEnds keeps the tree between
	// a start and a stop time.
	TrimEnds Param = "trim_ends"

	// SectionTree keeps sections of the tree
	// defined by a start time,
	// a window size,
	// and a step.
	SectionTree Param = "section_tree"

	// TimeSlice keeps the tree before the indicated time.
	TimeSlice Param = "time_slice"

	// PruneToLabel keeps the tips with the indicated label.
	PruneToLabel Param = "prune_to_label"

	// PruneToTips keeps the named tips.
	PruneToTips Param = "prune_to_tips"

	// RemoveTips removes the named tips.
	RemoveTips Param = "remove_tips"

	// PruneToTrunk keeps only the trunk of the tree.
	PruneToTrunk Param = "prune_to_trunk"

	// PruneToTime keeps the tips sampled
	// between a start and a stop time.
	PruneToTime Param = "prune_to_time"

	// CollapseLabels sets all labels to 1.
	CollapseLabels Param = "collapse_labels"

	// Rotate rotates the locations
	// by the indicated degrees.
	Rotate Param = "rotate"

	// Accumulate transforms branch displacements
	// into absolute locations.
	Accumulate Param = "accumulate"

	// AddTail adds a branch of the indicated length
	// before the root.
	AddTail Param = "add_tail"

	// Ordering is the ordering of the tips
	// used for the layout of rule lists.
	Ordering Param = "ordering"

	// Print parameters.
	PrintTree         Param = "print_tree"
	PrintCircularTree Param = "print_circular_tree"
	PrintAllTrees     Param = "print_all_trees"

	// Summary statistics.
	SummaryTMRCA                Param = "summary_tmrca"
	SummaryLength               Param = "summary_length"
	SummaryRootProportions      Param = "summary_root_proportions"
	SummaryProportions          Param = "summary_proportions"
	SummaryCoalRates            Param = "summary_coal_rates"
	SummaryMigRates             Param = "summary_mig_rates"
	SummarySubRates             Param = "summary_sub_rates"
	SummaryDiversity            Param = "summary_diversity"
	SummaryFst                  Param = "summary_fst"
	SummaryTajimaD              Param = "summary_tajima_d"
	SummaryPersistence          Param = "summary_persistence"
	SummaryDiffusionCoefficient Param = "summary_diffusion_coefficient"
	SummaryDriftRate            Param = "summary_drift_rate"

	// Skyline sets the start,
	// stop and step of the skyline intervals.
	Skyline Param = "skyline_settings"

	// Skyline statistics.
	SkylineTMRCA              Param = "skyline_tmrca"
	SkylineLength             Param = "skyline_length"
	SkylineProportions        Param = "skyline_proportions"
	SkylineCoalRates          Param = "skyline_coal_rates"
	SkylineMigRates           Param = "skyline_mig_rates"
	SkylineProHistoryFromTips Param = "skyline_pro_history_from_tips"
	SkylineDiversity          Param = "skyline_diversity"
	SkylineFst                Param = "skyline_fst"
	SkylineTajimaD            Param = "skyline_tajima_d"
	SkylineTimeToFix          Param = "skyline_timetofix"
	SkylineXMean              Param = "skyline_xmean"
	SkylineYMean              Param = "skyline_ymean"
	SkylineXDrift             Param = "skyline_xdrift"
	SkylineRateMean           Param = "skyline_ratemean"
	SkylineXTrunkDiff         Param = "skyline_xtrunkdiff"
	SkylineDriftRateFromTips  Param = "skyline_drift_rate_from_tips"
	SkylineGeoRateFromTips    Param = "skyline_geo_rate_from_tips"

	// Tip statistics.
	TipsTimeToTrunk Param = "tips_time_to_trunk"
	XLocHistory     Param = "x_loc_history"
	YLocHistory     Param = "y_loc_history"

	// PairsDiversity reports the diversity
	// of pairs of tips sampled within the indicated time.
	PairsDiversity Param = "pairs_diversity"
)

// Group is a set of related parameters.
type Group int

// Parameter groups.
const (
	Setting Group = iota
	Manip
	Print
	Summary
	Skylines
	Tips
	Pairs
)

// kind defines the values accepted by a parameter.
type kind struct {
	group Group

	// number of numeric values
	min, max int

	// accepts a list of names
	names bool
}

// kinds of the valid parameters.
// Parameters without numeric values or names
// are flags.
var kinds = map[Param]kind{
	Burnin:         {group: Setting, min: 1, max: 1},
	Seed:           {group: Setting, min: 1, max: 1},
	PushTimesBack:  {group: Manip, min: 1, max: 2},
	ReduceTips:     {group: Manip, min: 1, max: 1},
	RenewTrunk:     {group: Manip, min: 1, max: 1},
	TrimEnds:       {group: Manip, min: 2, max: 2},
	SectionTree:    {group: Manip, min: 3, max: 3},
	TimeSlice:      {group: Manip, min: 1, max: 1},
	PruneToLabel:   {group: Manip, min: 1, max: 1},
	PruneToTips:    {group: Manip, names: true},
	RemoveTips:     {group: Manip, names: true},
	PruneToTrunk:   {group: Manip},
	PruneToTime:    {group: Manip, min: 2, max: 2},
	CollapseLabels: {group: Manip},
	Rotate:         {group: Manip, min: 1, max: 1},
	Accumulate:     {group: Manip},
	AddTail:        {group: Manip, min: 1, max: 1},
	Ordering:       {group: Setting, names: true},

	PrintTree:         {group: Print},
	PrintCircularTree: {group: Print},
	PrintAllTrees:     {group: Print},

	SummaryTMRCA:                {group: Summary},
	SummaryLength:               {group: Summary},
	SummaryRootProportions:      {group: Summary},
	SummaryProportions:          {group: Summary},
	SummaryCoalRates:            {group: Summary},
	SummaryMigRates:             {group: Summary},
	SummarySubRates:             {group: Summary},
	SummaryDiversity:            {group: Summary},
	SummaryFst:                  {group: Summary},
	SummaryTajimaD:              {group: Summary},
	SummaryPersistence:          {group: Summary},
	SummaryDiffusionCoefficient: {group: Summary},
	SummaryDriftRate:            {group: Summary},

	Skyline:                   {group: Setting, min: 3, max: 3},
	SkylineTMRCA:              {group: Skylines},
	SkylineLength:             {group: Skylines},
	SkylineProportions:        {group: Skylines},
	SkylineCoalRates:          {group: Skylines},
	SkylineMigRates:           {group: Skylines},
	SkylineProHistoryFromTips: {group: Skylines},
	SkylineDiversity:          {group: Skylines},
	SkylineFst:                {group: Skylines},
	SkylineTajimaD:            {group: Skylines},
	SkylineTimeToFix:          {group: Skylines},
	SkylineXMean:              {group: Skylines},
	SkylineYMean:              {group: Skylines},
	SkylineXDrift:             {group: Skylines},
	SkylineRateMean:           {group: Skylines},
	SkylineXTrunkDiff:         {group: Skylines},
	SkylineDriftRateFromTips:  {group: Skylines},
	SkylineGeoRateFromTips:    {group: Skylines},

	TipsTimeToTrunk: {group: Tips},
	XLocHistory:     {group: Tips, min: 3, max: 3},
	YLocHistory:     {group: Tips, min: 3, max: 3},

	PairsDiversity: {group: Pairs, min: 1, max: 1},
}

// order is the canonical order of the parameters.
var order = []Param{
	Burnin,
	Seed,
	PushTimesBack,
	ReduceTips,
	RenewTrunk,
	TrimEnds,
	SectionTree,
	TimeSlice,
	PruneToLabel,
	PruneToTips,
	RemoveTips,
	PruneToTrunk,
	PruneToTime,
	CollapseLabels,
	Rotate,
	Accumulate,
	AddTail,
	Ordering,
	PrintTree,
	PrintCircularTree,
	PrintAllTrees,
	SummaryTMRCA,
	SummaryLength,
	SummaryRootProportions,
	SummaryProportions,
	SummaryCoalRates,
	SummaryMigRates,
	SummarySubRates,
	SummaryDiversity,
	SummaryFst,
	SummaryTajimaD,
	SummaryPersistence,
	SummaryDiffusionCoefficient,
	SummaryDriftRate,
	Skyline,
	SkylineTMRCA,
	SkylineLength,
	SkylineProportions,
	SkylineCoalRates,
	SkylineMigRates,
	SkylineProHistoryFromTips,
	SkylineDiversity,
	SkylineFst,
	SkylineTajimaD,
	SkylineTimeToFix,
	SkylineXMean,
	SkylineYMean,
	SkylineXDrift,
	SkylineRateMean,
	SkylineXTrunkDiff,
	SkylineDriftRateFromTips,
	SkylineGeoRateFromTips,
	TipsTimeToTrunk,
	XLocHistory,
	YLocHistory,
	PairsDiversity,
}

// ParseParam returns the parameter of a keyword.
// Keywords are case insensitive,
// and words can be separated by spaces,
// hyphens,
// or underscores.
func ParseParam(s string) (Param, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == '\t'
	}), "_")
	p := Param(s)
	if _, ok := kinds[p]; !ok {
		return "", fmt.Errorf("unknown parameter %q", s)
	}
	return p, nil
}

// P is a collection of analysis parameters.
type P struct {
	name   string // file name
	values map[Param][]float64
	names  map[Param][]string
	flags  map[Param]bool
}

// New creates a new empty parameter collection.
func New(name string) *P {
	return &P{
		name:   name,
		values: make(map[Param][]float64),
		names:  make(map[Param][]string),
		flags:  make(map[Param]bool),
	}
}

// Name returns the file name of the parameter collection.
func (p *P) Name() string {
	return p.name
}

// SetName sets the name of a parameter collection.
func (p *P) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	p.name = name
}

// Set sets the value of a parameter.
//
// Flag parameters are enabled with an empty value
// (or "true", "yes", "1")
// and disabled with "false", "no", or "0".
// Numeric parameters are a list of numbers
// separated by spaces.
// Name parameters are a list of names
// separated by spaces.
func (p *P) Set(par Param, value string) error {
	k, ok := kinds[par]
	if !ok {
		return fmt.Errorf("unknown parameter %q", par)
	}

	fields := strings.Fields(value)
	if k.names {
		if len(fields) == 0 {
			delete(p.names, par)
			return nil
		}
		p.names[par] = fields
		return nil
	}

	if k.max == 0 {
		switch v := strings.ToLower(strings.TrimSpace(value)); v {
		case "", "true", "yes", "1":
			p.flags[par] = true
		case "false", "no", "0":
			delete(p.flags, par)
		default:
			return fmt.Errorf("parameter %q: invalid flag value %q", par, value)
		}
		return nil
	}

	if len(fields) < k.min || len(fields) > k.max {
		if k.min == k.max {
			return fmt.Errorf("parameter %q: got %d values, want %d", par, len(fields), k.min)
		}
		return fmt.Errorf("parameter %q: got %d values, want between %d and %d", par, len(fields), k.min, k.max)
	}
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("parameter %q: %v", par, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("parameter %q: invalid value %q", par, f)
		}
		vals = append(vals, v)
	}
	if err := validate(par, vals); err != nil {
		return fmt.Errorf("parameter %q: %v", par, err)
	}
	p.values[par] = vals
	return nil
}

func validate(par Param, vals []float64) error {
	switch par {
	case Burnin:
		if vals[0] < 0 || vals[0] != math.Trunc(vals[0]) {
			return fmt.Errorf("invalid number of trees %.6g", vals[0])
		}
	case Seed:
		if vals[0] != math.Trunc(vals[0]) {
			return fmt.Errorf("invalid seed %.6g", vals[0])
		}
	case ReduceTips:
		if vals[0] < 0 || vals[0] > 1 {
			return fmt.Errorf("invalid probability %.6g", vals[0])
		}
	case RenewTrunk, AddTail:
		if vals[0] < 0 {
			return fmt.Errorf("invalid time %.6g", vals[0])
		}
	case PushTimesBack, TrimEnds, PruneToTime:
		if len(vals) == 2 && vals[0] > vals[1] {
			return fmt.Errorf("start %.6g after stop %.6g", vals[0], vals[1])
		}
	case SectionTree:
		if vals[1] <= 0 || vals[2] <= 0 {
			return fmt.Errorf("invalid window %.6g or step %.6g", vals[1], vals[2])
		}
	case Skyline, XLocHistory, YLocHistory:
		if vals[0] > vals[1] {
			return fmt.Errorf("start %.6g after stop %.6g", vals[0], vals[1])
		}
		if vals[2] <= 0 {
			return fmt.Errorf("invalid step %.6g", vals[2])
		}
	case PruneToLabel:
		if vals[0] != math.Trunc(vals[0]) {
			return fmt.Errorf("invalid label %.6g", vals[0])
		}
	case PairsDiversity:
		if vals[0] < 0 {
			return fmt.Errorf("invalid time %.6g", vals[0])
		}
	}
	return nil
}

// Unset removes a parameter.
func (p *P) Unset(par Param) {
	delete(p.values, par)
	delete(p.names, par)
	delete(p.flags, par)
}

// Has returns true if a parameter is defined.
func (p *P) Has(par Param) bool {
	if p.flags[par] {
		return true
	}
	if _, ok := p.values[par]; ok {
		return true
	}
	if _, ok := p.names[par]; ok {
		return true
	}
	return false
}

// Values returns the numeric values of a parameter.
func (p *P) Values(par Param) []float64 {
	return slices.Clone(p.values[par])
}

// Value returns the first value of a parameter.
// If the parameter is undefined
// it returns the default value.
func (p *P) Value(par Param, def float64) float64 {
	v, ok := p.values[par]
	if !ok {
		return def
	}
	return v[0]
}

// Names returns the names of a parameter.
func (p *P) Names(par Param) []string {
	return slices.Clone(p.names[par])
}

// Burnin returns the number of trees
// discarded at the start of a tree file.
func (p *P) Burnin() int {
	return int(p.Value(Burnin, 0))
}

// Any returns true if any parameter
// of the given group is defined.
func (p *P) Any(g Group) bool {
	for _, par := range p.Params() {
		if kinds[par].group == g {
			return true
		}
	}
	return false
}

// Params returns the defined parameters
// in its canonical order.
func (p *P) Params() []Param {
	var ps []Param
	for _, par := range order {
		if p.Has(par) {
			ps = append(ps, par)
		}
	}
	return ps
}

// Group returns the group of a parameter.
func (par Param) Group() Group {
	return kinds[par].group
}

// String returns the value of a parameter
// as it is stored in a file.
func (p *P) String(par Param) string {
	if p.flags[par] {
		return "true"
	}
	if v, ok := p.values[par]; ok {
		s := make([]string, 0, len(v))
		for _, x := range v {
			s = append(s, strconv.FormatFloat(x, 'g', -1, 64))
		}
		return strings.Join(s, " ")
	}
	return strings.Join(p.names[par], " ")
}
