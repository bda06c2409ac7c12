// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package coaltree

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse creates a new tree from a parenthetical
// (newick-like) tree string.
//
// Tip names can include the label of the tip
// as leading digits,
// for example,
// "2Hong_Kong" is a tip with label 2.
// A name without leading digits,
// or made only of digits,
// will have the label 1.
//
// Nodes can be annotated
// using a bracketed list of key-value pairs
// that start with '&',
// placed after the node name,
// or around the branch length.
// The recognized keys are:
//
//   - label, state, states: the label of the node
//   - x, y: the displacement along the branch
//   - location, loc: the displacement as {x,y}
//   - rate: the rate of the branch
//
// Any other key,
// or comment without '&',
// is ignored.
// Here is an example tree:
//
//	((1A:1[&x=0.5],2B[&label=2]:1):1,(1C:1,1D:1):1);
//
// Node times are accumulated from the root,
// and set so the most recent node has time 0.
func Parse(s string) (*Tree, error) {
	p := &parser{
		s:       strings.TrimSpace(s),
		t:       &Tree{root: -1},
		labeled: make(map[int]bool),
	}
	if p.s == "" {
		return nil, fmt.Errorf("empty tree string")
	}

	if _, err := p.subtree(-1); err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() == ';' {
		p.pos++
	}
	p.skipSpace()
	if p.pos < len(p.s) {
		return nil, fmt.Errorf("at position %d: unexpected %q", p.pos, p.s[p.pos])
	}

	p.t.setTimes()
	p.t.init(p.labeled)
	return p.t, nil
}

// Read reads a tree from a reader.
func Read(r io.Reader) (*Tree, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(b))
}

type parser struct {
	s   string
	pos int
	t   *Tree

	// labeled nodes
	// with a label annotation.
	labeled map[int]bool
}

func (p *parser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) subtree(parent int) (int, error) {
	p.skipSpace()
	id := p.t.add(parent, Node{
		Label:   1,
		Include: true,
	})

	if p.peek() == '(' {
		p.pos++
		for {
			if _, err := p.subtree(id); err != nil {
				return 0, err
			}
			p.skipSpace()
			c := p.peek()
			if c == ',' {
				p.pos++
				continue
			}
			if c == ')' {
				p.pos++
				break
			}
			if c == 0 {
				return 0, fmt.Errorf("at position %d: unbalanced parenthesis", p.pos)
			}
			return 0, fmt.Errorf("at position %d: unexpected %q", p.pos, c)
		}
	}

	p.skipSpace()
	name, err := p.name()
	if err != nil {
		return 0, err
	}
	p.t.nodes[id].Name = name
	if err := p.annotations(id); err != nil {
		return 0, err
	}

	p.skipSpace()
	if p.peek() != ':' {
		return id, nil
	}
	p.pos++
	if err := p.annotations(id); err != nil {
		return 0, err
	}
	l, err := p.number()
	if err != nil {
		return 0, err
	}
	p.t.nodes[id].Length = l
	if err := p.annotations(id); err != nil {
		return 0, err
	}
	return id, nil
}

func (p *parser) name() (string, error) {
	if p.peek() == '\'' {
		p.pos++
		var sb strings.Builder
		for {
			if p.pos >= len(p.s) {
				return "", fmt.Errorf("at position %d: unterminated quoted name", p.pos)
			}
			c := p.s[p.pos]
			p.pos++
			if c != '\'' {
				sb.WriteByte(c)
				continue
			}
			// escaped quote
			if p.peek() == '\'' {
				sb.WriteByte(c)
				p.pos++
				continue
			}
			return sb.String(), nil
		}
	}

	start := p.pos
	for p.pos < len(p.s) {
		if strings.IndexByte("(),:;[ \t\n\r", p.s[p.pos]) >= 0 {
			break
		}
		p.pos++
	}
	return p.s[start:p.pos], nil
}

func (p *parser) number() (float64, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.s) {
		if strings.IndexByte("+-.0123456789eE", p.s[p.pos]) < 0 {
			break
		}
		p.pos++
	}
	v := p.s[start:p.pos]
	if v == "" {
		return 0, fmt.Errorf("at position %d: expecting branch length", start)
	}
	l, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("at position %d: invalid branch length %q: %v", start, v, err)
	}
	return l, nil
}

func (p *parser) annotations(id int) error {
	for {
		p.skipSpace()
		if p.peek() != '[' {
			return nil
		}
		end := strings.IndexByte(p.s[p.pos:], ']')
		if end < 0 {
			return fmt.Errorf("at position %d: unterminated annotation", p.pos)
		}
		body := p.s[p.pos+1 : p.pos+end]
		start := p.pos
		p.pos += end + 1

		if !strings.HasPrefix(body, "&") {
			// a comment
			continue
		}
		if err := p.annotate(id, body[1:]); err != nil {
			return fmt.Errorf("at position %d: %v", start, err)
		}
	}
}

func (p *parser) annotate(id int, body string) error {
	v := p.t.nodes[id]
	for _, kv := range splitFields(body) {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.Trim(strings.TrimSpace(val), "\"")

		switch key {
		case "label", "state", "states":
			l, ok := leadingNumber(val)
			if !ok {
				continue
			}
			v.Label = l
			p.labeled[id] = true
		case "x":
			x, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("annotation %q: %v", key, err)
			}
			v.X = x
		case "y":
			y, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("annotation %q: %v", key, err)
			}
			v.Y = y
		case "location", "loc":
			val = strings.TrimSuffix(strings.TrimPrefix(val, "{"), "}")
			xs, ys, ok := strings.Cut(val, ",")
			if !ok {
				return fmt.Errorf("annotation %q: expecting {x,y}, got %q", key, val)
			}
			x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
			if err != nil {
				return fmt.Errorf("annotation %q: %v", key, err)
			}
			y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
			if err != nil {
				return fmt.Errorf("annotation %q: %v", key, err)
			}
			v.X, v.Y = x, y
		case "rate":
			r, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("annotation %q: %v", key, err)
			}
			v.Rate = r
		}
	}
	return nil
}

// splitFields splits an annotation body by commas
// outside of braces and quotes.
func splitFields(s string) []string {
	var fields []string
	var depth int
	var quoted bool
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			quoted = !quoted
		case '{':
			if !quoted {
				depth++
			}
		case '}':
			if !quoted {
				depth--
			}
		case ',':
			if depth == 0 && !quoted {
				fields = append(fields, s[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, s[start:])
}

// leadingNumber returns the integer
// formed by the leading digits of a string.
func leadingNumber(s string) (int, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// nameLabel returns the label encoded in a tip name.
func nameLabel(name string) int {
	l, ok := leadingNumber(name)
	if !ok {
		return 1
	}
	if _, err := strconv.Atoi(name); err == nil {
		// a taxon number
		return 1
	}
	return l
}

// setTimes sets node times from the branch lengths,
// with the most recent node at time 0.
func (t *Tree) setTimes() {
	ids := t.preorder()
	for _, id := range ids {
		v := t.nodes[id]
		if v.parent < 0 {
			v.Time = 0
			v.Length = 0
			continue
		}
		v.Time = t.nodes[v.parent].Time + v.Length
	}
	p := t.present()
	for _, id := range ids {
		t.nodes[id].Time -= p
	}
}

// init sets the node flags and labels
// of a newly created tree.
func (t *Tree) init(labeled map[int]bool) {
	for _, id := range t.preorder() {
		v := t.nodes[id]
		v.Include = true
		if v.parent < 0 {
			v.Length = 0
		} else {
			v.Length = v.Time - t.nodes[v.parent].Time
		}
		if len(v.children) > 0 {
			continue
		}
		v.Leaf = true
		if !labeled[id] {
			v.Label = nameLabel(v.Name)
		}
	}

	for _, id := range t.postorder() {
		v := t.nodes[id]
		if len(v.children) == 0 || labeled[id] {
			continue
		}
		v.Label = t.nodes[v.children[0]].Label
	}

	t.finish()
	t.RenewTrunk(0)
}

// Newick writes the tree in parenthetical format.
// Labels and positions are written as annotations.
func (t *Tree) Newick(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if t.root >= 0 {
		t.writeNode(bw, t.root)
	}
	bw.WriteString(";\n")
	return bw.Flush()
}

// String returns the tree in parenthetical format.
func (t *Tree) String() string {
	var sb strings.Builder
	t.Newick(&sb)
	return strings.TrimSpace(sb.String())
}

func (t *Tree) writeNode(w *bufio.Writer, id int) {
	v := t.nodes[id]
	if len(v.children) > 0 {
		w.WriteByte('(')
		for i, c := range v.children {
			if i > 0 {
				w.WriteByte(',')
			}
			t.writeNode(w, c)
		}
		w.WriteByte(')')
	}
	w.WriteString(quoteName(v.Name))
	fmt.Fprintf(w, "[&label=%d", v.Label)
	// positions are written as displacements
	x, y := v.X, v.Y
	if v.parent >= 0 {
		x, y = t.displacement(id)
	}
	if x != 0 || y != 0 {
		fmt.Fprintf(w, ",x=%s,y=%s", formatFloat(x), formatFloat(y))
	}
	if v.Rate != 0 {
		fmt.Fprintf(w, ",rate=%s", formatFloat(v.Rate))
	}
	w.WriteByte(']')
	if v.parent >= 0 {
		fmt.Fprintf(w, ":%s", formatFloat(v.Length))
	}
}

func quoteName(name string) string {
	if !strings.ContainsAny(name, "(),:;[]' \t\n\r") {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
