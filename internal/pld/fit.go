// Package pld fits sum-of-products formulas into a GAL device.
package pld

import (
	"fmt"

	"github.com/pborges/logicsyn/internal/diag"
	"github.com/pborges/logicsyn/internal/gal"
	"github.com/pborges/logicsyn/internal/rpn"
	"github.com/pborges/logicsyn/internal/token"
	"github.com/pborges/logicsyn/internal/truth"
)

type Options struct {
	// Device defaults to GAL16V8.
	Device string
	// Signature is stored in the device's user signature, eight bytes at
	// most.
	Signature string
	// Pins fixes signals to pins. Signals not listed are placed
	// automatically.
	Pins map[string]int
	// DontCares holds, per output name, input assignments whose output may
	// take either value.
	DontCares map[string][]truth.Assignment
	Log       *diag.Logger
}

// Output is one fitted formula.
type Output struct {
	Name   string
	Pin    int
	Active gal.Active
	Terms  []Term
}

// Expression renders the sum of products driving the pin, before polarity.
func (o Output) Expression() token.Expression {
	return TermsExpression(o.Terms)
}

type Result struct {
	Chip    gal.Chip
	GAL     *gal.GAL
	Pins    map[string]int
	Inputs  []string
	Outputs []Output

	dontCares map[string][]truth.Assignment
}

// Compile builds a GAL fuse map implementing formulas. Output names must be
// distinct and must not be read by any formula.
func Compile(formulas []token.Formula, opt Options) (*Result, error) {
	device := opt.Device
	if device == "" {
		device = gal.ChipGAL16V8.Name()
	}
	chip, err := gal.ParseChip(device)
	if err != nil {
		return nil, err
	}
	log := opt.Log.With("pld")

	outputs := make([]string, 0, len(formulas))
	isOutput := make(map[string]bool, len(formulas))
	var exprs token.Expression
	for _, f := range formulas {
		name := f.Output.Value
		if isOutput[name] {
			return nil, fmt.Errorf("output %q defined twice", name)
		}
		isOutput[name] = true
		outputs = append(outputs, name)
		exprs = append(exprs, f.Expr...)
	}
	var inputs []string
	for _, v := range truth.Variables(exprs) {
		if isOutput[v.Value] {
			return nil, fmt.Errorf("%q is both an input and an output", v.Value)
		}
		inputs = append(inputs, v.Value)
	}

	pins, err := assignPins(chip, inputs, outputs, opt.Pins)
	if err != nil {
		return nil, err
	}
	for _, name := range inputs {
		log.Fit("input %s -> pin %d", name, pins[name])
	}

	bp := gal.NewBlueprint(chip)
	if len(opt.Signature) > 0 {
		bp.Sig = []byte(opt.Signature)
	}
	for name, pin := range pins {
		bp.Pins[pin-1] = name
		if olmc, ok := chip.PinToOLMC(pin); ok && !isOutput[name] {
			bp.OLMC[olmc].Input = true
		}
	}

	res := &Result{Chip: chip, Pins: pins, Inputs: inputs, dontCares: opt.DontCares}
	for _, f := range formulas {
		name := f.Output.Value
		olmc, _ := chip.PinToOLMC(pins[name])
		out, err := fitOutput(f, dontCareTerms(opt.DontCares[name]), chip.ProductTerms(olmc))
		if err != nil {
			return nil, err
		}
		out.Pin = pins[name]
		log.Fit("output %s -> pin %d, %d product terms, active %s", name, out.Pin, len(out.Terms), activeName(out.Active))
		log.Terms("%s = %s", name, out.Expression().Join(""))

		rows, err := mapTermsToPins(out.Terms, pins)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		bp.OLMC[olmc] = gal.OLMC{Active: out.Active, Output: &gal.Term{Output: name, Pins: rows}}
		res.Outputs = append(res.Outputs, out)
	}

	g, err := gal.BuildGAL(bp)
	if err != nil {
		return nil, err
	}
	res.GAL = g
	return res, nil
}

// fitOutput minimizes f into at most capacity products. A formula whose
// top level is a negation is fitted inverted with the output active low,
// and so is any formula whose complement fits when it does not.
func fitOutput(f token.Formula, dontCares []Term, capacity int) (Output, error) {
	name := f.Output.Value
	tree, err := FromInfix(f.Expr)
	if err != nil {
		return Output{}, fmt.Errorf("%s: %w", name, err)
	}
	out := Output{Name: name, Active: gal.ActiveHigh}
	if not, ok := tree.(ExprNot); ok {
		tree = not.X
		out.Active = gal.ActiveLow
	}
	terms := exprToTerms(tree)
	out.Terms = minimizeTerms(terms, dontCares)
	if len(out.Terms) <= capacity {
		return out, nil
	}
	if inverted, ok := complementTerms(terms, dontCares); ok {
		inverted = minimizeTerms(inverted, dontCares)
		if len(inverted) > capacity {
			return Output{}, fmt.Errorf("%s: needs %d product terms, pin has %d", name, len(out.Terms), capacity)
		}
		out.Terms = inverted
		if out.Active == gal.ActiveHigh {
			out.Active = gal.ActiveLow
		} else {
			out.Active = gal.ActiveHigh
		}
		return out, nil
	}
	return Output{}, fmt.Errorf("%s: needs %d product terms, pin has %d", name, len(out.Terms), capacity)
}

func activeName(a gal.Active) string {
	if a == gal.ActiveHigh {
		return "high"
	}
	return "low"
}

// dontCareTerms turns each assignment into the product selecting it.
func dontCareTerms(as []truth.Assignment) []Term {
	terms := make([]Term, 0, len(as))
	for _, a := range as {
		t := Term{Lits: make([]Literal, 0, len(a))}
		for v, b := range a {
			t.Lits = append(t.Lits, Literal{Name: v.Value, Neg: !b})
		}
		terms = append(terms, t)
	}
	return terms
}

func mapTermsToPins(terms []Term, pins map[string]int) ([][]gal.Pin, error) {
	var out [][]gal.Pin
	for _, t := range terms {
		row := []gal.Pin{}
		for _, lit := range t.Lits {
			pin, ok := pins[lit.Name]
			if !ok {
				return nil, fmt.Errorf("unknown symbol %q", lit.Name)
			}
			row = append(row, gal.Pin{Pin: pin, Neg: lit.Neg})
		}
		out = append(out, row)
	}
	return out, nil
}

// assignPins places every signal. Fixed placements are honoured first;
// outputs then take OLMC pins from the top down and inputs take the
// dedicated input pins followed by the free OLMC pins from the bottom up.
func assignPins(chip gal.Chip, inputs, outputs []string, fixed map[string]int) (map[string]int, error) {
	probe := gal.NewGAL(chip)
	canInput := func(pin int) bool {
		_, err := probe.PinColumn(pin)
		return err == nil
	}

	kind := make(map[string]string, len(inputs)+len(outputs))
	for _, n := range inputs {
		kind[n] = "input"
	}
	for _, n := range outputs {
		kind[n] = "output"
	}

	pins := make(map[string]int, len(kind))
	used := make(map[int]string, len(kind))
	for name, pin := range fixed {
		k, ok := kind[name]
		if !ok {
			return nil, fmt.Errorf("pin %d assigned to unknown signal %q", pin, name)
		}
		if pin < 1 || pin > chip.NumPins() || chip.IsPower(pin) {
			return nil, fmt.Errorf("%s %q: pin %d is not usable on %s", k, name, pin, chip)
		}
		if other, taken := used[pin]; taken {
			return nil, fmt.Errorf("pin %d assigned to both %q and %q", pin, other, name)
		}
		if _, ok := chip.PinToOLMC(pin); k == "output" && !ok {
			return nil, fmt.Errorf("output %q: pin %d is not an output on %s", name, pin, chip)
		}
		if k == "input" && !canInput(pin) {
			return nil, fmt.Errorf("input %q: pin %d is not an input on %s", name, pin, chip)
		}
		pins[name] = pin
		used[pin] = name
	}

	place := func(name string, candidates []int, ok func(int) bool) error {
		if _, done := pins[name]; done {
			return nil
		}
		for _, p := range candidates {
			if _, taken := used[p]; !taken && ok(p) {
				pins[name] = p
				used[p] = name
				return nil
			}
		}
		return fmt.Errorf("no free %s pin for %q on %s", kind[name], name, chip)
	}
	anyPin := func(int) bool { return true }
	for _, name := range outputs {
		if err := place(name, chip.OutputPins(), anyPin); err != nil {
			return nil, err
		}
	}
	olmcPins := chip.OutputPins()
	for i, j := 0, len(olmcPins)-1; i < j; i, j = i+1, j-1 {
		olmcPins[i], olmcPins[j] = olmcPins[j], olmcPins[i]
	}
	inputPins := append(chip.InputPins(), olmcPins...)
	for _, name := range inputs {
		if err := place(name, inputPins, canInput); err != nil {
			return nil, err
		}
	}
	return pins, nil
}

// Check simulates the fuse map under every input combination and compares
// each output pin with its formula. Don't-care assignments are skipped.
func (r *Result) Check(formulas []token.Formula) error {
	if len(r.Inputs) > truth.DefaultMaxVariables {
		return fmt.Errorf("%w: %d inputs", truth.ErrTooManyVariables, len(r.Inputs))
	}
	postfix := make([]token.Expression, len(formulas))
	for i, f := range formulas {
		postfix[i] = rpn.ToPostfix(f.Expr)
	}
	a := make(truth.Assignment, len(r.Inputs))
	byPin := make(map[int]bool, len(r.Inputs))
	level := func(pin int) bool { return byPin[pin] }

	perms := truth.NewPermutations(len(r.Inputs))
	for {
		bits, ok := perms.Next()
		if !ok {
			return nil
		}
		for i, name := range r.Inputs {
			a[token.Var(name)] = bits[i]
			byPin[r.Pins[name]] = bits[i]
		}
		for i, f := range formulas {
			name := f.Output.Value
			if matchesAny(a, r.dontCares[name]) {
				continue
			}
			want := false
			if !f.Expr.Empty() {
				v, err := truth.Evaluate(postfix[i], a)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				want = v
			}
			olmc, _ := r.Chip.PinToOLMC(r.Outputs[i].Pin)
			if got := r.GAL.Eval(olmc, level); got != want {
				return fmt.Errorf("%s on pin %d: got %v, want %v for %v", name, r.Outputs[i].Pin, got, want, a)
			}
		}
	}
}

func matchesAny(a truth.Assignment, set []truth.Assignment) bool {
	for _, dc := range set {
		match := true
		for v, b := range dc {
			if cur, ok := a[v]; ok && cur != b {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// PinReport lists "name = pin" lines in pin order.
func (r *Result) PinReport() []string {
	byPin := make(map[int]string, len(r.Pins))
	for name, pin := range r.Pins {
		byPin[pin] = name
	}
	var lines []string
	for p := 1; p <= r.Chip.NumPins(); p++ {
		if name, ok := byPin[p]; ok {
			lines = append(lines, fmt.Sprintf("%s = %d", name, p))
		}
	}
	return lines
}
