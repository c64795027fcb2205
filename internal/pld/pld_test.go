package pld

import (
	"fmt"
	"math/bits"
	"reflect"
	"strings"
	"testing"

	"github.com/pborges/logicsyn/internal/gal"
	"github.com/pborges/logicsyn/internal/jed"
	"github.com/pborges/logicsyn/internal/parser"
	"github.com/pborges/logicsyn/internal/testutil"
	"github.com/pborges/logicsyn/internal/token"
	"github.com/pborges/logicsyn/internal/truth"
)

func formulas(t *testing.T, srcs ...string) []token.Formula {
	t.Helper()
	out := make([]token.Formula, len(srcs))
	for i, src := range srcs {
		f, err := parser.Parse(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		out[i] = f
	}
	return out
}

func TestExprToTerms(t *testing.T) {
	tests := map[string]string{
		"Out=a*(b+~c)":    "a*b+a*~c",
		"Out=~(a+b)":      "~a*~b",
		"Out=~(a*~b)":     "~a+b",
		"Out=a*~a":        "0",
		"Out=1":           "1",
		"Out=0+b":         "b",
		"Out=(a+b)*(a+c)": "a+a*b+a*c+b*c",
	}
	for src, want := range tests {
		f := formulas(t, src)[0]
		tree, err := FromInfix(f.Expr)
		if err != nil {
			t.Fatal(err)
		}
		if got := TermsExpression(exprToTerms(tree)).String(); got != want {
			t.Errorf("%s: got %s, want %s", src, got, want)
		}
	}
}

func TestCompileSingle(t *testing.T) {
	fs := formulas(t, "Out=(~in1*~in2)+(in1*~in2)")
	res, err := Compile(fs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Chip != gal.ChipGAL16V8 {
		t.Errorf("chip = %v", res.Chip)
	}
	wantPins := map[string]int{"Out": 19, "in1": 2, "in2": 3}
	if !reflect.DeepEqual(res.Pins, wantPins) {
		t.Errorf("pins = %v, want %v", res.Pins, wantPins)
	}
	out := res.Outputs[0]
	if got := out.Expression().String(); got != "~in2" || out.Active != gal.ActiveHigh {
		t.Errorf("output = %s active %v", got, out.Active)
	}
	if err := res.Check(fs); err != nil {
		t.Error(err)
	}
	want := []string{"in1 = 2", "in2 = 3", "Out = 19"}
	if got := res.PinReport(); !reflect.DeepEqual(got, want) {
		t.Errorf("PinReport = %q, want %q", got, want)
	}
}

func TestCompileCheck(t *testing.T) {
	tests := []struct {
		device string
		srcs   []string
	}{
		{"GAL16V8", []string{"X=a*b", "Y=a+b", "Z=~(a*b*c)"}},
		{"GAL16V8", []string{"One=1", "Zero=0", "Buf=a"}},
		{"GAL16V8", []string{"Out=a+b+c+d+e+f+g+h+i"}},
		{"GAL16V8", []string{"Out=a*b*c*d*e*f*g*h*i*j*k*l"}},
		{"GAL22V10", []string{"Out=a*b+c", "Nand=~(a*b)", "Xor=a*~b+~a*b"}},
		{"g22v10", []string{"Sum=a*~b*~c+~a*b*~c+~a*~b*c+a*b*c", "Carry=a*b+b*c+a*c"}},
	}
	for _, tt := range tests {
		fs := formulas(t, tt.srcs...)
		res, err := Compile(fs, Options{Device: tt.device})
		if err != nil {
			t.Errorf("%s %v: %v", tt.device, tt.srcs, err)
			continue
		}
		if err := res.Check(fs); err != nil {
			t.Errorf("%s %v: %v", tt.device, tt.srcs, err)
		}
	}
}

func TestPolarity(t *testing.T) {
	res, err := Compile(formulas(t, "Z=~(a*b*c)", "W=a+b+c+d+e+f+g+h+i"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range res.Outputs {
		if o.Active != gal.ActiveLow || len(o.Terms) != 1 {
			t.Errorf("%s: active %v with %d terms, want active low with 1", o.Name, o.Active, len(o.Terms))
		}
	}
}

func parity(n int) string {
	var terms []string
	for m := 0; m < 1<<n; m++ {
		if bits.OnesCount(uint(m))%2 == 0 {
			continue
		}
		var lits []string
		for i := 0; i < n; i++ {
			lit := fmt.Sprintf("x%d", i)
			if m&(1<<i) == 0 {
				lit = "~" + lit
			}
			lits = append(lits, lit)
		}
		terms = append(terms, strings.Join(lits, "*"))
	}
	return "Out=" + strings.Join(terms, "+")
}

func TestTooManyProducts(t *testing.T) {
	fs := formulas(t, parity(4))
	res, err := Compile(fs, Options{})
	if err != nil {
		t.Fatalf("4-input parity should fit: %v", err)
	}
	if err := res.Check(fs); err != nil {
		t.Error(err)
	}
	_, err = Compile(formulas(t, parity(5)), Options{})
	if err == nil || !strings.Contains(err.Error(), "needs 16 product terms, pin has 8") {
		t.Errorf("err = %v", err)
	}
}

func TestDontCares(t *testing.T) {
	fs := formulas(t, "Out=in1*in2")
	dc := truth.Assignment{token.Var("in1"): true, token.Var("in2"): false}
	res, err := Compile(fs, Options{DontCares: map[string][]truth.Assignment{"Out": {dc}}})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Outputs[0].Expression().String(); got != "in1" {
		t.Errorf("output = %s, want in1", got)
	}
	if err := res.Check(fs); err != nil {
		t.Error(err)
	}
}

func TestInputsOnOutputPins(t *testing.T) {
	var names []string
	for i := 0; i < 12; i++ {
		names = append(names, fmt.Sprintf("i%02d", i))
	}
	fs := formulas(t, "Out="+strings.Join(names, "*"))
	res, err := Compile(fs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Pins["i10"] != 12 || res.Pins["i11"] != 13 {
		t.Errorf("pins = %v", res.Pins)
	}
	if err := res.Check(fs); err != nil {
		t.Error(err)
	}
}

func TestFixedPins(t *testing.T) {
	fs := formulas(t, "Out=a*~b")
	res, err := Compile(fs, Options{Device: "GAL22V10", Pins: map[string]int{"a": 13, "Out": 14}})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"a": 13, "b": 2, "Out": 14}
	if !reflect.DeepEqual(res.Pins, want) {
		t.Errorf("pins = %v, want %v", res.Pins, want)
	}
	if err := res.Check(fs); err != nil {
		t.Error(err)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		srcs []string
		opt  Options
		want string
	}{
		{"device", []string{"Out=a"}, Options{Device: "PAL16L8"}, "unsupported device"},
		{"twice", []string{"Out=a", "Out=b"}, Options{}, `output "Out" defined twice`},
		{"feedback", []string{"X=a", "Y=X"}, Options{}, `"X" is both an input and an output`},
		{"unknown", []string{"Out=a"}, Options{Pins: map[string]int{"q": 3}}, `unknown signal "q"`},
		{"power", []string{"Out=a"}, Options{Pins: map[string]int{"a": 10}}, "pin 10 is not usable"},
		{"output on input", []string{"Out=a"}, Options{Pins: map[string]int{"Out": 2}}, "pin 2 is not an output"},
		{"input without feedback", []string{"Out=a"}, Options{Pins: map[string]int{"a": 15}}, "pin 15 is not an input"},
		{"conflict", []string{"Out=a*b"}, Options{Pins: map[string]int{"a": 3, "b": 3}}, "pin 3 assigned to both"},
	}
	for _, tt := range tests {
		_, err := Compile(formulas(t, tt.srcs...), tt.opt)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want %q", tt.name, err, tt.want)
		}
	}
}

func TestNoFreeInputPin(t *testing.T) {
	var names []string
	for i := 0; i < 16; i++ {
		names = append(names, fmt.Sprintf("v%02d", i))
	}
	_, err := Compile(formulas(t, "Out="+strings.Join(names, "+")), Options{})
	if err == nil || !strings.Contains(err.Error(), `no free input pin for "v15"`) {
		t.Errorf("err = %v", err)
	}
}

func TestJEDECOutput(t *testing.T) {
	res, err := Compile(formulas(t, "Out=a*b+~c"), Options{Signature: "LOGIC"})
	if err != nil {
		t.Fatal(err)
	}
	text := jed.MakeJEDEC(jed.Config{Header: res.PinReport()}, res.GAL)
	j, err := testutil.ParseJEDEC([]byte(text))
	if err != nil {
		t.Fatal(err)
	}
	want := testutil.JEDEC{QF: res.Chip.TotalSize(), Fuses: jed.Fuses(res.GAL)}
	if diff := testutil.CompareJEDEC(j, want); diff != "" {
		t.Error(diff)
	}
	if !reflect.DeepEqual(j.Header, res.PinReport()) {
		t.Errorf("header = %q", j.Header)
	}
}
