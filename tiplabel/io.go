// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tiplabel

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadTSV reads a set of tip labels
// from a TSV file.
//
// The TSV file must contain the following fields:
//
//   - tip, the name of the tip
//   - label, an integer with the label of the tip
//
// Here is an example file:
//
//	tip	label
//	A/Hong_Kong/1/1968	1
//	A/Wellington/1/2004	2
//	A/New_York/392/2004	3
func ReadTSV(r io.Reader) (*Labels, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range []string{"tip", "label"} {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	l := New()
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "tip"
		tip := strings.TrimSpace(row[fields[f]])
		if tip == "" {
			continue
		}

		f = "label"
		lb, err := strconv.Atoi(strings.TrimSpace(row[fields[f]]))
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}

		l.Set(tip, lb)
	}
	return l, nil
}

// TSV writes tip labels as a TSV file.
func (l *Labels) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	// header
	header := []string{"tip", "label"}
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, tp := range l.Tips() {
		row := []string{
			tp,
			strconv.Itoa(l.tips[tp]),
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}

// ReadOrder reads an ordering of tips,
// one tip name per line.
// Empty lines and lines starting with '#'
// are ignored.
func ReadOrder(r io.Reader) ([]string, error) {
	var tips []string
	seen := make(map[string]bool)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		tp := strings.TrimSpace(sc.Text())
		if tp == "" || strings.HasPrefix(tp, "#") {
			continue
		}
		if seen[tp] {
			continue
		}
		seen[tp] = true
		tips = append(tips, tp)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tips, nil
}
