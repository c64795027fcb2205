// Package gal builds fuse maps for GAL16V8 (simple mode) and GAL22V10
// (combinational) devices.
package gal

import "fmt"

// Pin is one input of a product term.
type Pin struct {
	Pin int
	Neg bool
}

// Term is an OR of AND terms. Each inner slice is an AND term. Output names
// the signal the term drives and only appears in errors.
type Term struct {
	Output string
	Pins   [][]Pin
}

// TrueTerm is a single product with no inputs.
func TrueTerm(output string) Term {
	return Term{Output: output, Pins: [][]Pin{{}}}
}

// FalseTerm has no products.
func FalseTerm(output string) Term {
	return Term{Output: output}
}

// GAL is a fuse map. A true logic fuse is intact-but-unused; programming a
// literal into a row clears its fuse.
type GAL struct {
	Chip Chip

	Fuses []bool
	Xor   []bool
	Sig   []bool
	AC1   []bool
	PT    []bool
	Syn   bool
	AC0   bool
}

func NewGAL(chip Chip) *GAL {
	olmcs := chip.NumOLMCs()
	g := &GAL{
		Chip:  chip,
		Fuses: make([]bool, chip.NumRows()*chip.NumCols()),
		Xor:   make([]bool, olmcs),
		Sig:   make([]bool, 64),
		AC1:   make([]bool, olmcs),
		PT:    make([]bool, 64),
	}
	for i := range g.Fuses {
		g.Fuses[i] = true
	}
	return g
}

// SetSimpleMode selects SYN=1, AC0=0 on a GAL16V8.
func (g *GAL) SetSimpleMode() {
	g.Syn = true
	g.AC0 = false
}

// AddTerm programs term into the rows of bounds starting at RowOffset and
// clears every row left over.
func (g *GAL) AddTerm(term Term, bounds Bounds) error {
	b := bounds
	for _, row := range term.Pins {
		if b.RowOffset == b.MaxRows {
			return fmt.Errorf("%s: too many product terms (max %d)", term.Output, bounds.MaxRows-bounds.RowOffset)
		}
		for _, input := range row {
			if err := g.setAnd(b.StartRow+b.RowOffset, input.Pin, input.Neg); err != nil {
				return fmt.Errorf("%s: %w", term.Output, err)
			}
		}
		b.RowOffset++
	}
	g.clearRows(b)
	return nil
}

func (g *GAL) clearRows(bounds Bounds) {
	rowLen := g.Chip.NumCols()
	start := (bounds.StartRow + bounds.RowOffset) * rowLen
	end := (bounds.StartRow + bounds.MaxRows) * rowLen
	for i := start; i < end; i++ {
		g.Fuses[i] = false
	}
}

func (g *GAL) setAnd(row int, pin int, neg bool) error {
	col, err := g.PinColumn(pin)
	if err != nil {
		return err
	}
	if neg {
		col++
	}
	idx := row*g.Chip.NumCols() + col
	if idx < 0 || idx >= len(g.Fuses) {
		return fmt.Errorf("fuse index %d out of range", idx)
	}
	g.Fuses[idx] = false
	return nil
}

// PinColumn returns the AND array column carrying pin true; the next column
// carries its complement.
func (g *GAL) PinColumn(pin int) (int, error) {
	if pin < 1 || pin > g.Chip.NumPins() {
		return 0, fmt.Errorf("invalid pin %d", pin)
	}
	if g.Chip.IsPower(pin) {
		return 0, fmt.Errorf("pin %d is power", pin)
	}
	var cols []int
	switch g.Chip {
	case ChipGAL16V8:
		cols = columns16Simple
	case ChipGAL22V10:
		cols = columns22V10
	default:
		return 0, fmt.Errorf("unsupported chip")
	}
	col := cols[pin-1]
	if col < 0 {
		return 0, fmt.Errorf("pin %d is not an input on %s", pin, g.Chip)
	}
	return col, nil
}

// Column of each pin, indexed by pin-1. Power pins and the two GAL16V8
// simple mode outputs without feedback are -1.
var (
	columns16Simple = []int{
		2, 0, 4, 8, 12, 16, 20, 24, 28, -1,
		30, 26, 22, 18, -1, -1, 14, 10, 6, -1,
	}
	columns22V10 = []int{
		0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, -1,
		42, 38, 34, 30, 26, 22, 18, 14, 10, 6, 2, -1,
	}
)

// Eval drives the AND/OR array of an OLMC with the pin levels reported by
// level and returns the level at the output pin, polarity applied. The
// output enable row of a GAL22V10 is not consulted.
func (g *GAL) Eval(olmc int, level func(pin int) bool) bool {
	rowLen := g.Chip.NumCols()
	pins := make(map[int]int, rowLen/2)
	for p := 1; p <= g.Chip.NumPins(); p++ {
		if col, err := g.PinColumn(p); err == nil {
			pins[col] = p
		}
	}

	b := g.Chip.BoundsForOLMC(olmc)
	first := b.StartRow
	if g.Chip == ChipGAL22V10 {
		first++
	}
	sum := false
	for r := first; r < b.StartRow+b.MaxRows && !sum; r++ {
		product := true
		for c := 0; c < rowLen && product; c++ {
			if g.Fuses[r*rowLen+c] {
				continue
			}
			v := level(pins[c&^1])
			if c&1 == 1 {
				v = !v
			}
			product = v
		}
		sum = product
	}
	if !g.Xor[g.Chip.NumOLMCs()-1-olmc] {
		return !sum
	}
	return sum
}
