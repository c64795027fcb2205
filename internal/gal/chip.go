package gal

import (
	"fmt"
	"strings"
)

type Chip int

const (
	ChipUnknown Chip = iota
	ChipGAL16V8
	ChipGAL22V10
)

type chipData struct {
	name      string
	numPins   int
	numRows   int
	numCols   int
	totalSize int
	minOLMC   int
	maxOLMC   int
	olmcMap   []int
	inputs    []int
}

var (
	chip16v8 = chipData{
		name:      "GAL16V8",
		numPins:   20,
		numRows:   64,
		numCols:   32,
		totalSize: 2194,
		minOLMC:   12,
		maxOLMC:   19,
		olmcMap:   []int{56, 48, 40, 32, 24, 16, 8, 0},
		inputs:    []int{2, 3, 4, 5, 6, 7, 8, 9, 1, 11},
	}
	chip22v10 = chipData{
		name:      "GAL22V10",
		numPins:   24,
		numRows:   132,
		numCols:   44,
		totalSize: 5892,
		minOLMC:   14,
		maxOLMC:   23,
		olmcMap:   []int{122, 111, 98, 83, 66, 49, 34, 21, 10, 1},
		inputs:    []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 1, 13},
	}
)

var olmcSize22v10 = []int{9, 11, 13, 15, 17, 17, 15, 13, 11, 9}

// ParseChip accepts GAL16V8 and GAL22V10 in the usual spellings, e.g.
// g16v8, GAL16V8A, gal22v10.
func ParseChip(name string) (Chip, error) {
	n := normalizeDevice(name)
	switch {
	case strings.Contains(n, "16V8"):
		return ChipGAL16V8, nil
	case strings.Contains(n, "22V10"):
		return ChipGAL22V10, nil
	default:
		return ChipUnknown, fmt.Errorf("unsupported device: %s", name)
	}
}

func normalizeDevice(name string) string {
	n := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - ('a' - 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, name)
	if len(n) >= 5 && n[0] == 'G' && !strings.HasPrefix(n, "GAL") {
		n = "GAL" + n[1:]
	}
	return n
}

func (c Chip) data() chipData {
	switch c {
	case ChipGAL16V8:
		return chip16v8
	case ChipGAL22V10:
		return chip22v10
	default:
		return chipData{}
	}
}

func (c Chip) String() string  { return c.Name() }
func (c Chip) Name() string    { return c.data().name }
func (c Chip) NumPins() int    { return c.data().numPins }
func (c Chip) NumRows() int    { return c.data().numRows }
func (c Chip) NumCols() int    { return c.data().numCols }
func (c Chip) TotalSize() int  { return c.data().totalSize }
func (c Chip) MinOLMCPin() int { return c.data().minOLMC }
func (c Chip) MaxOLMCPin() int { return c.data().maxOLMC }
func (c Chip) NumOLMCs() int   { return c.data().maxOLMC - c.data().minOLMC + 1 }

func (c Chip) PinToOLMC(pin int) (int, bool) {
	d := c.data()
	if pin < d.minOLMC || pin > d.maxOLMC {
		return 0, false
	}
	return pin - d.minOLMC, true
}

// InputPins lists the pins that can only be inputs, most convenient first.
func (c Chip) InputPins() []int {
	return append([]int(nil), c.data().inputs...)
}

// OutputPins lists the OLMC pins from the highest down.
func (c Chip) OutputPins() []int {
	d := c.data()
	var pins []int
	for p := d.maxOLMC; p >= d.minOLMC; p-- {
		pins = append(pins, p)
	}
	return pins
}

// IsPower reports whether pin is VCC or GND.
func (c Chip) IsPower(pin int) bool {
	n := c.NumPins()
	return n > 0 && (pin == n || pin == n/2)
}

func (c Chip) NumRowsForOLMC(olmc int) int {
	if c == ChipGAL22V10 {
		return olmcSize22v10[olmc]
	}
	return 8
}

// Bounds define the usable row range for an OLMC's terms.
type Bounds struct {
	StartRow  int
	MaxRows   int
	RowOffset int
}

func (c Chip) BoundsForOLMC(olmc int) Bounds {
	return Bounds{
		StartRow: c.data().olmcMap[olmc],
		MaxRows:  c.NumRowsForOLMC(olmc),
	}
}

// ProductTerms is the number of sum terms an OLMC can hold once any output
// enable row is reserved.
func (c Chip) ProductTerms(olmc int) int {
	n := c.NumRowsForOLMC(olmc)
	if c == ChipGAL22V10 {
		n--
	}
	return n
}
