// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package paramcmd implements a command to set
// or print the analysis parameters of a PACT project.
package paramcmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/pact/param"
	"github.com/js-arias/pact/project"
)

var Command = &command.Command{
	Usage: `param [-f|--file <param-file>] [--unset]
	<project-file> [<parameter> [<value>...]]`,
	Short: "set or print analysis parameters",
	Long: `
Command param reads the analysis parameters of a PACT project. If only the
project file is given, it prints the defined parameters into the standard
output.

The first argument of the command is the name of the project file. If no
project file exists, a new project will be created.

The second argument is the name of a parameter, and any additional argument
is used as the value of the parameter. Parameters without values (for
example, "summary_tmrca") are flags, and they are enabled when given without a
value. To remove a parameter use the flag --unset.

By default, the parameters will be stored in the parameter file currently
defined for the project. If the project does not have a parameter file, a new
one will be created with the name 'param.tab'. A different file name can be
defined using the flag --file, or -f.

Valid parameters are (in the order they are applied):

	burnin <number>             number of trees to discard
	seed <number>               seed for random operations
	push_times_back <stop>      time of the most recent sample
	push_times_back <start> <stop>
	reduce_tips <probability>   keep each tip with a probability
	renew_trunk <time>          redefine the trunk
	trim_ends <start> <stop>    keep a time section of the trees
	section_tree <start> <window> <step>
	time_slice <time>           keep the trees before a time
	prune_to_label <label>      keep tips with a label
	prune_to_tips <tip>...      keep the indicated tips
	remove_tips <tip>...        remove the indicated tips
	prune_to_trunk              keep the trunk
	prune_to_time <start> <stop>
	                            keep tips sampled in a time interval
	collapse_labels             set all labels to 1
	rotate <degrees>            rotate the locations
	accumulate                  make the locations absolute
	add_tail <time>             add a branch before the root
	ordering <tip>...           ordering of tips for rule lists

	print_tree, print_circular_tree, print_all_trees

	summary_tmrca, summary_length, summary_root_proportions,
	summary_proportions, summary_coal_rates, summary_mig_rates,
	summary_sub_rates, summary_diversity, summary_fst, summary_tajima_d,
	summary_persistence, summary_diffusion_coefficient, summary_drift_rate

	skyline_settings <start> <stop> <step>

	skyline_tmrca, skyline_length, skyline_proportions, skyline_coal_rates,
	skyline_mig_rates, skyline_pro_history_from_tips, skyline_diversity,
	skyline_fst, skyline_tajima_d, skyline_timetofix, skyline_xmean,
	skyline_ymean, skyline_xdrift, skyline_ratemean, skyline_xtrunkdiff,
	skyline_drift_rate_from_tips, skyline_geo_rate_from_tips

	tips_time_to_trunk
	x_loc_history <start> <stop> <step>
	y_loc_history <start> <stop> <step>

	pairs_diversity <time>      diversity of tips sampled within a time
	`,
	SetFlags: setFlags,
	Run:      run,
}

var paramFile string
var unset bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&paramFile, "file", "", "")
	c.Flags().StringVar(&paramFile, "f", "", "")
	c.Flags().BoolVar(&unset, "unset", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	pFile := args[0]
	p, err := openProject(pFile)
	if err != nil {
		return err
	}

	pp := param.New("")
	if pf := p.Path(project.Param); pf != "" {
		pp, err = param.Read(pf)
		if err != nil {
			return err
		}
	}

	if len(args) < 2 {
		return pp.TSV(c.Stdout())
	}

	par, err := param.ParseParam(args[1])
	if err != nil {
		return c.UsageError(err.Error())
	}
	if unset {
		pp.Unset(par)
	} else if err := pp.Set(par, strings.Join(args[2:], " ")); err != nil {
		return err
	}

	if paramFile == "" {
		paramFile = p.Path(project.Param)
		if paramFile == "" {
			paramFile = "param.tab"
		}
	}
	pp.SetName(paramFile)
	if err := pp.Write(); err != nil {
		return err
	}

	p.Add(project.Param, paramFile)
	if err := p.Write(); err != nil {
		return err
	}
	return nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %v", name, err)
	}
	return p, nil
}
