// Package kmap minimizes a formula through a Karnaugh map.
//
// Rows and columns are addressed by plain binary value, not Gray code, and
// adjacency wraps around both edges. Blocks that touch across an edge are
// therefore "adjacent" even when their addresses differ in more than one
// bit; the optimizer keeps this layout deliberately.
package kmap

import (
	"fmt"

	"github.com/pborges/logicsyn/internal/rpn"
	"github.com/pborges/logicsyn/internal/token"
	"github.com/pborges/logicsyn/internal/truth"
)

// Cell is one map entry.
type Cell int

const (
	Zero Cell = iota
	One
	DontCare
)

func (c Cell) String() string {
	switch c {
	case One:
		return "1"
	case DontCare:
		return "-"
	}
	return "0"
}

// Map is a Karnaugh map over sorted variables. The first half of the
// variables (rounded down) addresses rows, the rest address columns; the
// first variable of each half is the most significant address bit.
type Map struct {
	RowVars []token.Token
	ColVars []token.Token
	Cells   [][]Cell
}

func (m *Map) Rows() int { return len(m.Cells) }
func (m *Map) Cols() int { return len(m.Cells[0]) }

// Build evaluates expr for every cell. Cells are One where the expression
// holds and Zero elsewhere.
func Build(expr token.Expression) (*Map, error) {
	vars := truth.Variables(expr)
	half := len(vars) / 2
	m := &Map{RowVars: vars[:half], ColVars: vars[half:]}
	rows, cols := 1<<uint(len(m.RowVars)), 1<<uint(len(m.ColVars))
	postfix := rpn.ToPostfix(expr)
	a := make(truth.Assignment, len(vars))
	m.Cells = make([][]Cell, rows)
	for r := 0; r < rows; r++ {
		m.Cells[r] = make([]Cell, cols)
		for c := 0; c < cols; c++ {
			m.assign(a, r, c)
			v, err := truth.Evaluate(postfix, a)
			if err != nil {
				return nil, fmt.Errorf("kmap cell %d,%d: %w", r, c, err)
			}
			if v {
				m.Cells[r][c] = One
			}
		}
	}
	return m, nil
}

func (m *Map) assign(a truth.Assignment, r, c int) {
	for i, v := range m.RowVars {
		a[v] = addressBit(r, len(m.RowVars), i)
	}
	for i, v := range m.ColVars {
		a[v] = addressBit(c, len(m.ColVars), i)
	}
}

// addressBit returns variable i of an address over width variables.
func addressBit(index, width, i int) bool {
	return (index>>uint(width-1-i))&1 == 1
}

// Locate returns the cell addressed by a. Variables missing from a read as
// false.
func (m *Map) Locate(a truth.Assignment) (row, col int) {
	for i, v := range m.RowVars {
		if a[v] {
			row |= 1 << uint(len(m.RowVars)-1-i)
		}
	}
	for i, v := range m.ColVars {
		if a[v] {
			col |= 1 << uint(len(m.ColVars)-1-i)
		}
	}
	return row, col
}

// MarkDontCares sets every listed Zero cell to DontCare.
func (m *Map) MarkDontCares(assignments []truth.Assignment) {
	for _, a := range assignments {
		r, c := m.Locate(a)
		if m.Cells[r][c] == Zero {
			m.Cells[r][c] = DontCare
		}
	}
}

// PromoteDontCares turns a DontCare cell into One when at least two of its
// four wrap-around neighbours were One before the pass. It returns the
// number of promoted cells.
func (m *Map) PromoteDontCares() int {
	rows, cols := m.Rows(), m.Cols()
	var promote [][2]int
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if m.Cells[r][c] != DontCare {
				continue
			}
			n := 0
			for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				if m.Cells[wrap(r+d[0], rows)][wrap(c+d[1], cols)] == One {
					n++
				}
			}
			if n >= 2 {
				promote = append(promote, [2]int{r, c})
			}
		}
	}
	for _, p := range promote {
		m.Cells[p[0]][p[1]] = One
	}
	return len(promote)
}

// ClearDontCares turns every DontCare cell into Zero.
func (m *Map) ClearDontCares() {
	for _, row := range m.Cells {
		for c, cell := range row {
			if cell == DontCare {
				row[c] = Zero
			}
		}
	}
}

// Constant reports whether the map is constant and its value. DontCare
// cells agree with either value, but a map of only DontCare is 0.
func (m *Map) Constant() (value, ok bool) {
	var ones, zeros int
	for _, row := range m.Cells {
		for _, cell := range row {
			switch cell {
			case One:
				ones++
			case Zero:
				zeros++
			}
		}
	}
	switch {
	case ones == 0:
		return false, true
	case zeros == 0:
		return true, true
	}
	return false, false
}

// RowLabel renders row address r as a bit string.
func (m *Map) RowLabel(r int) string { return label(r, len(m.RowVars)) }

// ColLabel renders column address c as a bit string.
func (m *Map) ColLabel(c int) string { return label(c, len(m.ColVars)) }

func label(index, width int) string {
	b := make([]byte, width)
	for i := range b {
		b[i] = '0'
		if addressBit(index, width, i) {
			b[i] = '1'
		}
	}
	return string(b)
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
