package simplify

import (
	"testing"

	"github.com/pborges/logicsyn/internal/parser"
	"github.com/pborges/logicsyn/internal/token"
)

func simplified(t *testing.T, src string, r Rules) string {
	t.Helper()
	f, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return Simplify(f, r).Expr.String()
}

func TestIdempotent(t *testing.T) {
	r := Rules{Idempotent: true}
	cases := map[string]string{
		"o = A + A":             "A",
		"o = A*B + C + A*B + C": "A*B+C",
		"o = (A+B) + (A+B)":     "(A+B)",
		"o = A*B + B*A":         "A*B+B*A",
	}
	for in, want := range cases {
		if got := simplified(t, in, r); got != want {
			t.Errorf("%s: got %q, want %q", in, got, want)
		}
	}
}

func TestAbsorption(t *testing.T) {
	r := Rules{Absorption: true}
	cases := map[string]string{
		"o = A + (A*B)":          "A",
		"o = (A*B) + A":          "A",
		"o = A*B*C + A*~B + A*B": "A*~B+A*B",
		"o = A*B + B*A":          "A*B",
		"o = ~A + ~A*B":          "~A",
		"o = A + ~A*B":           "A+~A*B",
		"o = A + (A+B)*C":        "A+(A+B)*C",
	}
	for in, want := range cases {
		if got := simplified(t, in, r); got != want {
			t.Errorf("%s: got %q, want %q", in, got, want)
		}
	}
}

func TestDefaultRules(t *testing.T) {
	if got := simplified(t, "o = A + A + (A*B)", DefaultRules()); got != "A" {
		t.Errorf("got %q", got)
	}
}

func TestComplement(t *testing.T) {
	r := Rules{Complement: true}
	cases := map[string]string{
		"o = A*~A + B":   "B",
		"o = A + B + ~A": "1",
		"o = A*~A":       "0",
		"o = A*B + ~C":   "A*B+~C",
	}
	for in, want := range cases {
		if got := simplified(t, in, r); got != want {
			t.Errorf("%s: got %q, want %q", in, got, want)
		}
	}
}

func TestDeMorgan(t *testing.T) {
	r := Rules{DeMorgan: true}
	cases := map[string]string{
		"o = ~(A+B)":       "~A*~B",
		"o = ~(A*B)":       "(~A+~B)",
		"o = C*~(A+~B)":    "C*~A*B",
		"o = ~(A+(B*C))":   "~(A+(B*C))",
		"o = ~(A+B*C)":     "~(A+B*C)",
		"o = ~~(A+B)":      "~(~A*~B)",
		"o = D + ~(~A*~B)": "D+(A+B)",
	}
	for in, want := range cases {
		if got := simplified(t, in, r); got != want {
			t.Errorf("%s: got %q, want %q", in, got, want)
		}
	}
}

func TestSplitTerms(t *testing.T) {
	f, err := parser.Parse("o = A + (B+C)*D + ~(E+F)")
	if err != nil {
		t.Fatal(err)
	}
	terms := SplitTerms(f.Expr)
	if len(terms) != 3 {
		t.Fatalf("got %d terms", len(terms))
	}
	if got := JoinTerms(terms).String(); got != f.Expr.String() {
		t.Errorf("rejoined %q", got)
	}
	if SplitTerms(token.Expression{}) != nil {
		t.Error("empty expression has terms")
	}
}

func TestProduct(t *testing.T) {
	f, _ := parser.Parse("o = ((A*~B*C))")
	lits, ok := Product(f.Expr)
	if !ok || len(lits) != 3 || !lits[1].Neg || lits[1].Name != "B" {
		t.Fatalf("Product = %v, %v", lits, ok)
	}
	for _, src := range []string{"o = (A+B)*C", "o = ~(A)", "o = (A)*(B)"} {
		g, _ := parser.Parse(src)
		if _, ok := Product(g.Expr); ok {
			t.Errorf("%s read as a product", src)
		}
	}
}
