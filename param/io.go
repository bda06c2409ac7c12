// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package param

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

var header = []string{
	"parameter",
	"value",
}

// Read reads a parameter file from a TSV file.
//
// The TSV must contain the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Here is an example file:
//
//	# pact parameters
//	parameter	value
//	burnin	100
//	push_times_back	1968 2009
//	skyline_settings	1990 2005 0.5
//	summary_tmrca	true
//	skyline_proportions	true
//	prune_to_tips	A/Hong_Kong/1/1968 A/Fujian/411/2002
func Read(name string) (*P, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	p.name = name
	return p, nil
}

// ReadTSV reads a parameter collection
// from a TSV stream.
func ReadTSV(r io.Reader) (*P, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'
	tsv.FieldsPerRecord = -1

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(strings.TrimSpace(h))
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	p := New("")
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "parameter"
		if fields[f] >= len(row) {
			return nil, fmt.Errorf("on row %d: field %q: missing value", ln, f)
		}
		par, err := ParseParam(row[fields[f]])
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}

		f = "value"
		var v string
		if fields[f] < len(row) {
			v = row[fields[f]]
		}
		if err := p.Set(par, v); err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}
	}
	return p, nil
}

// Write writes a parameter collection into a file.
func (p *P) Write() (err error) {
	f, err := os.Create(p.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# pact parameters\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	if err := p.TSV(bw); err != nil {
		return fmt.Errorf("on file %q: %v", p.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", p.name, err)
	}
	return nil
}

// TSV writes a parameter collection
// as a TSV stream.
func (p *P) TSV(w io.Writer) error {
	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}

	for _, par := range p.Params() {
		row := []string{
			string(par),
			p.String(par),
		}
		if err := tsv.Write(row); err != nil {
			return err
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}
