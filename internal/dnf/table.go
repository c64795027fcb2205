// Package dnf reads truth-table text and synthesizes one sum-of-products
// formula per output column.
//
// Table text has one line per input assignment:
//
//	00|1
//	01|-
//
// Input bits are named in1, in2, ... by position. A '-' output marks a
// don't-care row.
package dnf

import (
	"strings"
)

// Cell is a three-valued truth-table entry.
type Cell int

const (
	Zero Cell = iota
	One
	DontCare
)

func parseCell(ch rune) Cell {
	switch ch {
	case '1':
		return One
	case '-':
		return DontCare
	}
	return Zero
}

func (c Cell) String() string {
	switch c {
	case One:
		return "1"
	case DontCare:
		return "-"
	}
	return "0"
}

// Row is one table line.
type Row struct {
	Inputs  []Cell
	Outputs []Cell
}

// Table is a validated truth table: every row has the widths of the first.
type Table struct {
	Rows []Row
}

// NumInputs returns the input width, 0 for an empty table.
func (t Table) NumInputs() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0].Inputs)
}

// NumOutputs returns the output width, 0 for an empty table.
func (t Table) NumOutputs() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0].Outputs)
}

// ParseTable reads table text. Malformed text is not an error: it yields
// an empty table, which synthesizes to no formulas. Text is malformed when
// the first line has no '|' or an empty side, or when any later line
// disagrees with the first line's widths.
func ParseTable(text string) Table {
	var rows []Row
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		in, out, ok := strings.Cut(line, "|")
		if !ok {
			return Table{}
		}
		r := Row{Inputs: parseCells(in), Outputs: parseCells(out)}
		if len(rows) == 0 {
			if len(r.Inputs) == 0 || len(r.Outputs) == 0 {
				return Table{}
			}
		} else if len(r.Inputs) != len(rows[0].Inputs) || len(r.Outputs) != len(rows[0].Outputs) {
			return Table{}
		}
		rows = append(rows, r)
	}
	return Table{Rows: rows}
}

func parseCells(s string) []Cell {
	s = strings.TrimSpace(s)
	cells := make([]Cell, 0, len(s))
	for _, ch := range s {
		if ch == ' ' || ch == '\t' {
			continue
		}
		cells = append(cells, parseCell(ch))
	}
	return cells
}
