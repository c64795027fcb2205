package verify

import (
	"testing"

	"github.com/dalzilio/rudd"

	"github.com/pborges/logicsyn/internal/parser"
	"github.com/pborges/logicsyn/internal/rpn"
	"github.com/pborges/logicsyn/internal/token"
	"github.com/pborges/logicsyn/internal/truth"
)

func mustParse(t *testing.T, src string) token.Formula {
	t.Helper()
	f, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return f
}

func TestEquivalent(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Out=a*(b+c)", "Out=a*b+a*c", true},
		{"Out=a+b", "Out=a*b", false},
		{"Out=~(a*b)", "Out=~a+~b", true},
		{"Out=~(a+b)", "Out=~a*~b", true},
		{"Out=a+~a", "Out=1", true},
		{"Out=a*~a", "Out=0", true},
		{"Out=a", "Out=a+b", false},
		{"Out=a+a*b", "Out=a", true},
		{"X=~~a", "Y=a", true},
	}
	for _, tt := range tests {
		got, err := Equivalent(mustParse(t, tt.a), mustParse(t, tt.b))
		if err != nil {
			t.Errorf("Equivalent(%q, %q): %v", tt.a, tt.b, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Equivalent(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestEquivalentEmpty(t *testing.T) {
	empty := token.Formula{Output: token.Var("Out")}
	ok, err := Equivalent(empty, mustParse(t, "Out=0"))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("empty expression should equal 0")
	}
}

func TestEquivalentMalformed(t *testing.T) {
	bad := token.Formula{Output: token.Var("Out"), Expr: token.Expression{token.Var("a"), token.AndOp}}
	if _, err := Equivalent(bad, mustParse(t, "Out=a")); err == nil {
		t.Error("expected an error for a dangling operator")
	}
}

func TestSatisfiable(t *testing.T) {
	tests := map[string]bool{
		"Out=a*~a":        false,
		"Out=a*~b":        true,
		"Out=(a+b)*~a*~b": false,
		"Out=(a+b)*~a":    true,
		"Out=1":           true,
		"Out=0":           false,
		"Out=a*b*c*~d":    true,
	}
	for src, want := range tests {
		f := mustParse(t, src)
		witness, ok, err := Satisfiable(f)
		if err != nil {
			t.Errorf("Satisfiable(%q): %v", src, err)
			continue
		}
		if ok != want {
			t.Errorf("Satisfiable(%q) = %v, want %v", src, ok, want)
			continue
		}
		if !ok {
			if witness != nil {
				t.Errorf("Satisfiable(%q) returned a witness for an unsatisfiable formula", src)
			}
			continue
		}
		got, err := truth.Evaluate(rpn.ToPostfix(f.Expr), witness)
		if err != nil {
			t.Fatal(err)
		}
		if !got {
			t.Errorf("Satisfiable(%q): witness %v does not satisfy", src, witness)
		}
	}
}

func TestSatisfiableWitness(t *testing.T) {
	witness, ok, err := Satisfiable(mustParse(t, "Out=a*~b"))
	if err != nil || !ok {
		t.Fatalf("got ok=%v err=%v", ok, err)
	}
	if !witness[token.Var("a")] || witness[token.Var("b")] {
		t.Errorf("witness = %v, want a=1 b=0", witness)
	}
}

func TestTautology(t *testing.T) {
	tests := map[string]bool{
		"Out=a+~a":          true,
		"Out=a":             false,
		"Out=1":             true,
		"Out=(a*b)+~a+~b":   true,
		"Out=(a*b)+(~a*~b)": false,
	}
	for src, want := range tests {
		got, err := Tautology(mustParse(t, src))
		if err != nil {
			t.Errorf("Tautology(%q): %v", src, err)
			continue
		}
		if got != want {
			t.Errorf("Tautology(%q) = %v, want %v", src, got, want)
		}
	}
}

func TestImplements(t *testing.T) {
	in1, in2 := token.Var("in1"), token.Var("in2")
	dc := []truth.Assignment{{in1: true, in2: false}}
	tests := []struct {
		ref, impl string
		dc        []truth.Assignment
		want      bool
	}{
		{"Out=in1*in2", "Out=in1", dc, true},
		{"Out=in1*in2", "Out=in1", nil, false},
		{"Out=in1*in2", "Out=in2", dc, false},
		{"Out=in1*in2", "Out=in1*in2", dc, true},
		{"Out=in1*in2+in1*~in2", "Out=in2", dc, false},
	}
	for _, tt := range tests {
		got, err := Implements(mustParse(t, tt.ref), mustParse(t, tt.impl), tt.dc)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("Implements(%q, %q, %v) = %v, want %v", tt.ref, tt.impl, tt.dc, got, tt.want)
		}
	}
}

func TestToBDDConstants(t *testing.T) {
	set, err := rudd.New(1)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		expr token.Expression
		want rudd.Node
	}{
		{token.Expression{truth.True}, set.True()},
		{token.Expression{truth.False}, set.False()},
		{nil, set.False()},
		{token.Expression{token.NotOp, truth.False}, set.True()},
	}
	for _, tt := range tests {
		got, err := toBDD(set, nil, tt.expr)
		if err != nil {
			t.Fatalf("%v: %v", tt.expr, err)
		}
		if !set.Equal(got, tt.want) {
			t.Errorf("%v: wrong node", tt.expr)
		}
	}
}
