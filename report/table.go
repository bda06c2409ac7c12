// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/js-arias/pact/series"
)

// NA is the value written for undefined statistics.
const NA = "NA"

// A table is a tab-delimited output table.
// The first write error is kept
// and returned on flush.
type table struct {
	tsv *csv.Writer
	err error
}

func newTable(w io.Writer, header ...string) *table {
	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	t := &table{tsv: tsv}
	t.write(header)
	return t
}

func (t *table) write(row []string) {
	if t.err != nil {
		return
	}
	if err := t.tsv.Write(row); err != nil {
		t.err = fmt.Errorf("when writing data: %v", err)
	}
}

// summary writes a row with the given fields
// followed by the lower quantile,
// the mean,
// and the upper quantile of a series.
func (t *table) summary(fields []string, s *series.Series, lower, upper float64) {
	lo, _ := s.Quantile(lower)
	m, err := s.Mean()
	up, _ := s.Quantile(upper)
	if err != nil {
		t.write(append(fields, NA, NA, NA))
		return
	}
	t.write(append(fields, format(lo), format(m), format(up)))
}

// median writes a row with the given fields
// followed by the lower quantile,
// the median,
// and the upper quantile of a series.
func (t *table) median(fields []string, s *series.Series, lower, upper float64) {
	lo, err := s.Quantile(lower)
	md, _ := s.Quantile(0.5)
	up, _ := s.Quantile(upper)
	if err != nil {
		t.write(append(fields, NA, NA, NA))
		return
	}
	t.write(append(fields, format(lo), format(md), format(up)))
}

func (t *table) flush() error {
	t.tsv.Flush()
	if t.err != nil {
		return t.err
	}
	if err := t.tsv.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}

func format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	return fmt.Sprintf("%.6f", v)
}
