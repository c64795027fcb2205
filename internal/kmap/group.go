package kmap

import (
	"github.com/pborges/logicsyn/internal/simplify"
	"github.com/pborges/logicsyn/internal/token"
)

// Group is the product term covering one block of One cells.
type Group []simplify.Literal

// detector looks for one block pattern. It reports false when the pattern
// does not occur.
type detector func(m *Map) (Group, bool)

// detectors are tried in order; the first hit wins.
var detectors = []detector{fullRows, fullCols, rectangles}

// blockSizes lists candidate rectangles as height x width, largest first.
var blockSizes = [][2]int{{4, 4}, {4, 2}, {2, 4}, {2, 2}, {2, 1}, {1, 2}, {1, 1}}

// Search returns the first block found by the detectors. Only one block is
// ever produced, even when it leaves other One cells uncovered.
func (m *Map) Search() (Group, bool) {
	for _, d := range detectors {
		if g, ok := d(m); ok {
			return g, true
		}
	}
	return nil, false
}

// fullRows groups every row that is entirely One.
func fullRows(m *Map) (Group, bool) {
	var rows []int
	for r := 0; r < m.Rows(); r++ {
		full := true
		for c := 0; c < m.Cols(); c++ {
			if m.Cells[r][c] != One {
				full = false
				break
			}
		}
		if full {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil, false
	}
	return nonEmpty(common(m.RowVars, rows))
}

// fullCols groups every column that is entirely One.
func fullCols(m *Map) (Group, bool) {
	var cols []int
	for c := 0; c < m.Cols(); c++ {
		full := true
		for r := 0; r < m.Rows(); r++ {
			if m.Cells[r][c] != One {
				full = false
				break
			}
		}
		if full {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil, false
	}
	return nonEmpty(common(m.ColVars, cols))
}

// rectangles scans each candidate size row-major, wrapping around the map
// edges, and takes the first block that is entirely One.
func rectangles(m *Map) (Group, bool) {
	rows, cols := m.Rows(), m.Cols()
	for _, size := range blockSizes {
		h, w := size[0], size[1]
		if h > rows || w > cols {
			continue
		}
		for r0 := 0; r0 < rows; r0++ {
			for c0 := 0; c0 < cols; c0++ {
				if !m.block(r0, c0, h, w) {
					continue
				}
				rs := make([]int, h)
				for i := range rs {
					rs[i] = (r0 + i) % rows
				}
				cs := make([]int, w)
				for i := range cs {
					cs[i] = (c0 + i) % cols
				}
				g := append(common(m.RowVars, rs), common(m.ColVars, cs)...)
				if len(g) > 0 {
					return g, true
				}
			}
		}
	}
	return nil, false
}

func (m *Map) block(r0, c0, h, w int) bool {
	for dr := 0; dr < h; dr++ {
		for dc := 0; dc < w; dc++ {
			if m.Cells[(r0+dr)%m.Rows()][(c0+dc)%m.Cols()] != One {
				return false
			}
		}
	}
	return true
}

// common returns a literal for every variable whose address bit is the same
// across all indices.
func common(vars []token.Token, indices []int) Group {
	var g Group
	for i, v := range vars {
		first := addressBit(indices[0], len(vars), i)
		same := true
		for _, idx := range indices[1:] {
			if addressBit(idx, len(vars), i) != first {
				same = false
				break
			}
		}
		if same {
			g = append(g, simplify.Literal{Name: v.Value, Neg: !first})
		}
	}
	return g
}

// nonEmpty rejects a group without literals: it would claim the whole map,
// which the constant check has already ruled out.
func nonEmpty(g Group) (Group, bool) {
	return g, len(g) > 0
}

// Render joins groups into an expression. A single group is emitted as a
// bare product. With factor set, literals shared by every group are pulled
// out in front of a bracketed sum of the remainders; otherwise each group
// is bracketed and the groups are ORed.
func Render(groups []Group, factor bool) token.Expression {
	switch len(groups) {
	case 0:
		return nil
	case 1:
		return simplify.ProductTokens(groups[0])
	}
	if factor {
		if shared := sharedLiterals(groups); len(shared) > 0 {
			return renderFactored(groups, shared)
		}
	}
	var terms []token.Expression
	for _, g := range groups {
		t := append(token.Expression{token.Open}, simplify.ProductTokens(g)...)
		terms = append(terms, append(t, token.Close))
	}
	return simplify.JoinTerms(terms)
}

func renderFactored(groups []Group, shared Group) token.Expression {
	skip := simplify.LiteralSet(shared)
	var rest []token.Expression
	for _, g := range groups {
		var r Group
		for _, l := range g {
			if !skip.Contains(l.Key()) {
				r = append(r, l)
			}
		}
		if len(r) == 0 {
			// One group is exactly the shared product, which absorbs the rest.
			return simplify.ProductTokens(shared)
		}
		rest = append(rest, simplify.ProductTokens(r))
	}
	out := simplify.ProductTokens(shared)
	out = append(out, token.AndOp, token.Open)
	out = append(out, simplify.JoinTerms(rest)...)
	return append(out, token.Close)
}

// sharedLiterals returns the literals of the first group present in every
// group, in first-group order.
func sharedLiterals(groups []Group) Group {
	var shared Group
	for _, l := range groups[0] {
		inAll := true
		for _, g := range groups[1:] {
			if !simplify.LiteralSet(g).Contains(l.Key()) {
				inAll = false
				break
			}
		}
		if inAll {
			shared = append(shared, l)
		}
	}
	return shared
}
