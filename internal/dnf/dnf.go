package dnf

import (
	"strconv"

	"github.com/pborges/logicsyn/internal/token"
	"github.com/pborges/logicsyn/internal/truth"
)

// OutputName names every synthesized formula.
const OutputName = "Out"

// InputName returns the operand name of 0-based input column i.
func InputName(i int) string {
	return "in" + strconv.Itoa(i+1)
}

// Output is the synthesis result for one output column.
type Output struct {
	Formula token.Formula
	// DontCares lists the input assignments, as booleans in column order,
	// whose output cell is '-'. They never appear in Formula.
	DontCares [][]bool
}

// CreateFormulas synthesizes one DNF formula per output column of text.
// A column without any '1' yields an empty expression.
func CreateFormulas(text string) []token.Formula {
	outs := Synthesize(ParseTable(text))
	formulas := make([]token.Formula, len(outs))
	for i, o := range outs {
		formulas[i] = o.Formula
	}
	return formulas
}

// Synthesize builds the DNF and don't-care set of each output column.
func Synthesize(t Table) []Output {
	outs := make([]Output, t.NumOutputs())
	for col := range outs {
		var expr token.Expression
		var dc [][]bool
		for _, r := range t.Rows {
			switch r.Outputs[col] {
			case One:
				if len(expr) > 0 {
					expr = append(expr, token.OrOp)
				}
				expr = appendProduct(expr, r.Inputs)
			case DontCare:
				dc = append(dc, bools(r.Inputs))
			}
		}
		outs[col] = Output{
			Formula:   token.Formula{Output: token.Var(OutputName), Expr: expr},
			DontCares: dc,
		}
	}
	return outs
}

// appendProduct appends "(l1*l2*...)" for one row, negating zero bits.
func appendProduct(expr token.Expression, inputs []Cell) token.Expression {
	expr = append(expr, token.Open)
	for i, c := range inputs {
		if i > 0 {
			expr = append(expr, token.AndOp)
		}
		if c != One {
			expr = append(expr, token.NotOp)
		}
		expr = append(expr, token.Var(InputName(i)))
	}
	return append(expr, token.Close)
}

func bools(cells []Cell) []bool {
	out := make([]bool, len(cells))
	for i, c := range cells {
		out[i] = c == One
	}
	return out
}

// Assignments returns the don't-care rows keyed by input operand.
func (o Output) Assignments() []truth.Assignment {
	out := make([]truth.Assignment, len(o.DontCares))
	for i, bits := range o.DontCares {
		a := make(truth.Assignment, len(bits))
		for j, b := range bits {
			a[token.Var(InputName(j))] = b
		}
		out[i] = a
	}
	return out
}
