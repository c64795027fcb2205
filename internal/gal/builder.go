package gal

import "fmt"

// Active indicates output polarity.
type Active int

const (
	ActiveLow Active = iota
	ActiveHigh
)

// OLMC is the configuration of one output macrocell. An OLMC without Output
// is either unused or, when Input is set, read as an input pin.
type OLMC struct {
	Active Active
	Output *Term
	Input  bool
}

// Blueprint is everything BuildGAL needs to lay out a fuse map.
type Blueprint struct {
	Chip Chip
	Pins []string
	Sig  []byte
	OLMC []OLMC
}

func NewBlueprint(chip Chip) Blueprint {
	olmcs := make([]OLMC, chip.NumOLMCs())
	for i := range olmcs {
		olmcs[i] = OLMC{Active: ActiveLow}
	}
	pins := make([]string, chip.NumPins())
	for i := range pins {
		pins[i] = fmt.Sprintf("PIN%d", i+1)
	}
	pins[chip.NumPins()-1] = "VCC"
	pins[chip.NumPins()/2-1] = "GND"
	return Blueprint{Chip: chip, Pins: pins, OLMC: olmcs}
}

// BuildGAL constructs a fuse map from a blueprint. A GAL16V8 is always laid
// out in simple mode and every GAL22V10 output is combinational.
func BuildGAL(bp Blueprint) (*GAL, error) {
	g := NewGAL(bp.Chip)
	if bp.Chip == ChipGAL16V8 {
		g.SetSimpleMode()
	}

	setSig(g, bp.Sig)
	setAC1(g, bp)
	setXors(g, bp)

	if bp.Chip == ChipGAL22V10 {
		if err := setARSP(g); err != nil {
			return nil, err
		}
	}
	if err := setCoreEqns(g, bp); err != nil {
		return nil, err
	}
	setPTs(g)
	return g, nil
}

func setSig(g *GAL, sig []byte) {
	for i := 0; i < len(sig) && i < 8; i++ {
		c := sig[i]
		for j := 0; j < 8; j++ {
			g.Sig[i*8+j] = (c<<j)&0x80 != 0
		}
	}
}

// setAC1 configures AC1 for each OLMC. In GAL16V8 simple mode a set AC1
// turns the OLMC into an input. A GAL22V10 output is combinational when AC1
// is set, and so is the feedback path of an OLMC read as an input.
func setAC1(g *GAL, bp Blueprint) {
	olmcs := len(bp.OLMC)
	for i, olmc := range bp.OLMC {
		var set bool
		switch bp.Chip {
		case ChipGAL16V8:
			set = olmc.Output == nil
		case ChipGAL22V10:
			set = olmc.Output != nil || olmc.Input
		}
		if set {
			g.AC1[olmcs-1-i] = true
		}
	}
}

func setXors(g *GAL, bp Blueprint) {
	olmcs := len(bp.OLMC)
	for i, olmc := range bp.OLMC {
		if olmc.Output != nil && olmc.Active == ActiveHigh {
			g.Xor[olmcs-1-i] = true
		}
	}
}

func setPTs(g *GAL) {
	for i := range g.PT {
		g.PT[i] = true
	}
}

// setARSP leaves the GAL22V10 asynchronous reset (row 0) and synchronous
// preset (row 131) permanently false.
func setARSP(g *GAL) error {
	if err := g.AddTerm(FalseTerm("AR"), Bounds{StartRow: 0, MaxRows: 1}); err != nil {
		return err
	}
	return g.AddTerm(FalseTerm("SP"), Bounds{StartRow: 131, MaxRows: 1})
}

func setCoreEqns(g *GAL, bp Blueprint) error {
	for i, olmc := range bp.OLMC {
		bounds := g.Chip.BoundsForOLMC(i)
		if olmc.Output == nil {
			g.clearRows(bounds)
			continue
		}
		if bp.Chip == ChipGAL22V10 {
			// Row 0 is output enable; left intact it is always true.
			bounds.RowOffset = 1
		}
		if err := g.AddTerm(*olmc.Output, bounds); err != nil {
			return err
		}
	}
	return nil
}
