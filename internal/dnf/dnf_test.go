package dnf

import (
	"reflect"
	"testing"
)

func TestCreateFormulas(t *testing.T) {
	got := CreateFormulas("00|1\n01|0\n10|1\n11|0")
	if len(got) != 1 {
		t.Fatalf("got %d formulas, want 1", len(got))
	}
	if s := got[0].Expr.String(); s != "(~in1*~in2)+(in1*~in2)" {
		t.Errorf("expr = %q", s)
	}
	if got[0].Output.Value != OutputName {
		t.Errorf("output = %q", got[0].Output.Value)
	}
}

func TestCreateFormulasMultipleOutputs(t *testing.T) {
	got := CreateFormulas("0|10\n1|11\n")
	if len(got) != 2 {
		t.Fatalf("got %d formulas, want 2", len(got))
	}
	if s := got[0].Expr.String(); s != "(~in1)+(in1)" {
		t.Errorf("column 0 = %q", s)
	}
	if s := got[1].Expr.String(); s != "(in1)" {
		t.Errorf("column 1 = %q", s)
	}
}

func TestCreateFormulasConstantFalse(t *testing.T) {
	got := CreateFormulas("0|0\n1|-")
	if len(got) != 1 {
		t.Fatalf("got %d formulas, want 1", len(got))
	}
	if !got[0].Expr.Empty() {
		t.Errorf("expected empty expression, got %q", got[0].Expr)
	}
}

func TestCreateFormulasMalformed(t *testing.T) {
	for _, text := range []string{
		"",
		"\n\n",
		"0011",
		"01|",
		"|1",
		"00|1\n0|1",
		"00|1\n01|10",
		"00|1\n01",
	} {
		if got := CreateFormulas(text); len(got) != 0 {
			t.Errorf("%q: expected no formulas, got %v", text, got)
		}
	}
}

func TestSynthesizeDontCares(t *testing.T) {
	outs := Synthesize(ParseTable("00|1\n01|-\n10|0\n11|-"))
	if len(outs) != 1 {
		t.Fatalf("got %d outputs", len(outs))
	}
	if s := outs[0].Formula.Expr.String(); s != "(~in1*~in2)" {
		t.Errorf("expr = %q", s)
	}
	want := [][]bool{{false, true}, {true, true}}
	if !reflect.DeepEqual(outs[0].DontCares, want) {
		t.Errorf("don't-cares = %v, want %v", outs[0].DontCares, want)
	}
}
