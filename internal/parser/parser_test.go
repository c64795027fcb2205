package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestParseValid(t *testing.T) {
	cases := map[string]string{
		"Out = A + B * ~C":  "Out = A+B*~C",
		"A = B*C+~D":        "A = B*C+~D",
		"x=~(a+(b*c))":      "x = ~(a+(b*c))",
		"y = ((a))":         "y = ((a))",
		"z = ~~a * ~(b+~c)": "z = ~~a*~(b+~c)",
	}
	for in, want := range cases {
		f, err := Parse(in)
		if err != nil {
			t.Errorf("Parse(%q): %v", in, err)
			continue
		}
		if f.String() != want {
			t.Errorf("Parse(%q) = %q, want %q", in, f.String(), want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		in      string
		pos     int
		message string
	}{
		{"out1A*B", 1, "Operand = Expression"},
		{"out1=()", 3, "empty brackets"},
		{"out1=((a+b)", 8, "unclosed"},
		{"=A", 0, "Operand = Expression"},
		{"out1=a)", 3, "premature closure"},
		{"out1=+a", 2, "must follow an operand"},
		{"out1=a*+b", 4, "must follow an operand"},
		{"out1=a(b)", 3, "'(' must follow"},
		{"out1=(a)(b)", 5, "'(' must follow"},
		{"out1=a+$", 4, "invalid character"},
		{"A = é", 2, `invalid character "é"`},
		{"out1=a~b", 3, "missing binary operator"},
		{"out1=(a+)", 5, "')' must follow"},
		{"out1=a+", 4, "ends with an operator"},
		{"out1=", 2, "empty expression"},
		{"out1", 1, "Operand = Expression"},
		{"out1=a=b", 3, "unexpected '='"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := Parse(tc.in)
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected SyntaxError, got %v", err)
			}
			if se.Pos != tc.pos {
				t.Errorf("position = %d, want %d (%v)", se.Pos, tc.pos, err)
			}
			if !strings.Contains(se.Msg, tc.message) {
				t.Errorf("message %q does not mention %q", se.Msg, tc.message)
			}
		})
	}
}

func TestParseIsStateless(t *testing.T) {
	if _, err := Parse("a=(b"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Parse("a=b)"); err == nil {
		t.Fatal("bracket balance leaked between calls")
	}
}
