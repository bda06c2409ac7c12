// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(outputGuide)
	app.Add(paramGuide)
	app.Add(projectsGuide)
	app.Add(treeFilesGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
PACT requires several files to read and process a sample of coalescent trees.
To reduce the burden of keeping track of many files, a single project file is
used to hold the reference of all files required in the analysis. This guide
explains the structure of the file, but most of the time, the best and most
secure way to edit or view this file is by using pact commands.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# pact project files
	dataset	path
	trees	h3n2.trees
	param	param.tab
	labels	labels.tab

The valid file types are:

- Coalescent trees. Defined by the dataset keyword "trees". This file contains
  a sample of trees, one tree per line. The recommended way to add a tree file
  is by using the command 'pact tree add'.
- Time-calibrated trees. Defined by the dataset keyword "timetrees". This
  file contains one or more time calibrated trees in the form of a
  tab-delimited file. It is used only if the project does not have a
  coalescent tree file. The recommended way to add time calibrated trees is by
  using the command 'pact tree add --time'.
- Analysis parameters. Defined by the dataset keyword "param". This file
  contains the tree manipulations and the statistics to be evaluated. The
  recommended way to edit the parameters is by using the command
  'pact param'.
- Tip labels. Defined by the dataset keyword "labels". This file contains the
  label of the tips in the form of a tab-delimited file. The recommended way
  to add a tip label file is by using the command 'pact tree labels --add'.
- Tip ordering. Defined by the dataset keyword "ordering". This file contains
  a tip name per line, and it is used to order the tips in rule lists.
	`,
}

var treeFilesGuide = &command.Command{
	Usage: "tree-files",
	Short: "about tree files",
	Long: `
In PACT, a sample of coalescent trees is stored in a text file, with a tree
per line, in parenthetical format. Lines starting with '#' are ignored. The
tree starts with the first open parenthesis of the line, so the output of
programs such as BEAST can be used directly.

The name of a tip can start with digits that encode the label of the tip, for
example "2Hong_Kong" is a tip with label 2. Tips without leading digits, or
with names made only of digits, have label 1. The labels and locations of the
nodes can be defined with annotations after the node name or the branch
length:

	[&label=2]      or [&state=2] the label of the node
	[&x=1.5,y=-2]   the displacement of the node along its branch
	[&location={1.5,-2}]
	[&rate=0.004]   the rate of the branch

The log probability of a tree is read from a BEAST annotation "[&lnP=value]"
before the tree, or from a migrate line "ln(L) = value" before the tree.

Here is an example file:

	# h3n2 trees
	tree STATE_0 [&lnP=-3421.5] = ((1A:1.5,1B:1.5):0.5,2C:2);
	tree STATE_1 [&lnP=-3419.2] = ((1A:1,2C:1):1,1B:2);

Times are measured from the root, and shifted so the most recent tip is at
time 0. Use the parameter "push_times_back" to set the time of the most recent
sample.
	`,
}

var paramGuide = &command.Command{
	Usage: "param-files",
	Short: "about parameter files",
	Long: `
The analysis parameters of PACT are stored in a tab-delimited file with the
following fields:

	- parameter  the name of the parameter
	- value      the value of the parameter

Here is an example file:

	# pact parameters
	parameter	value
	burnin	100
	push_times_back	1968 2009
	summary_tmrca	true
	skyline_settings	1990 2005 0.5
	skyline_diversity	true

Numeric values are separated by spaces. Parameters without a value are flags.
The recommended way to edit a parameter file is by using the command
'pact param'. Type 'pact help param' for a list of the valid parameters.
	`,
}

var outputGuide = &command.Command{
	Usage: "output-files",
	Short: "about output files",
	Long: `
The command 'pact run' writes the statistics into tab-delimited files.

The summary file (.stats) contains the fields:

	statistic  lower  mean  upper

The skyline file (.skylines) contains the fields:

	statistic  time  lower  mean  upper

The tips file (.tips) contains the fields:

	statistic  name  label  time  lower  mean  upper

The pairs file (.pairs) contains the fields:

	statistic  nameA  nameB  lower  mean  upper

By default, lower and upper are the 2.5% and 97.5% quantiles of the values
of the statistic in the sample of trees. Statistics on locations and rates use
the 25% and 75% quantiles. Undefined values are written as "NA".

Rule files (.rules) contain a rule for each branch of a tree, in the form:

	{parent -> child, {{x0, y0}, {x1, y1}}, label}
	`,
}
