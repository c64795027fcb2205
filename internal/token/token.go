// Package token defines the values shared by every stage of the pipeline:
// tokens, token sequences and assignment formulas.
package token

import (
	"errors"
	"strings"
)

// Kind classifies a token.
type Kind int

const (
	Invalid Kind = iota
	Operand
	And
	Or
	Not
	Equal
	BracketOpen
	BracketClose
)

func (k Kind) String() string {
	switch k {
	case Operand:
		return "operand"
	case And:
		return "and"
	case Or:
		return "or"
	case Not:
		return "not"
	case Equal:
		return "equal"
	case BracketOpen:
		return "bracket-open"
	case BracketClose:
		return "bracket-close"
	default:
		return "invalid"
	}
}

// IsOperator reports whether k is one of the boolean operators.
func (k Kind) IsOperator() bool {
	return k == And || k == Or || k == Not
}

// IsBinary reports whether k is a two-operand operator.
func (k Kind) IsBinary() bool {
	return k == And || k == Or
}

// Token is compared and hashed by value and kind, so it can be used
// directly as a map key.
type Token struct {
	Value string
	Kind  Kind
}

// Structural tokens.
var (
	AndOp = Token{Value: "*", Kind: And}
	OrOp  = Token{Value: "+", Kind: Or}
	NotOp = Token{Value: "~", Kind: Not}
	Eq    = Token{Value: "=", Kind: Equal}
	Open  = Token{Value: "(", Kind: BracketOpen}
	Close = Token{Value: ")", Kind: BracketClose}
)

// Var returns an operand token named name.
func Var(name string) Token {
	return Token{Value: name, Kind: Operand}
}

func (t Token) String() string { return t.Value }

// Expression is an ordered token sequence. The same expression may be held
// in infix or postfix order.
type Expression []Token

// String renders the expression as the space-free concatenation of its
// token values.
func (e Expression) String() string {
	var b strings.Builder
	for _, t := range e {
		b.WriteString(t.Value)
	}
	return b.String()
}

// Join renders the token values separated by sep.
func (e Expression) Join(sep string) string {
	parts := make([]string, len(e))
	for i, t := range e {
		parts[i] = t.Value
	}
	return strings.Join(parts, sep)
}

// Empty reports whether the expression has no tokens; an empty expression
// stands for constant false.
func (e Expression) Empty() bool { return len(e) == 0 }

// Clone returns a copy that shares no backing array with e.
func (e Expression) Clone() Expression {
	if e == nil {
		return nil
	}
	out := make(Expression, len(e))
	copy(out, e)
	return out
}

var (
	ErrOutputNotOperand = errors.New("formula output must be an operand")
	ErrAssignmentInBody = errors.New("formula expression must not contain '='")
)

// Formula is an assignment Output = Expr. Value is set only once the
// formula has been evaluated under a single fixed assignment.
type Formula struct {
	Output Token
	Expr   Expression
	Value  *bool
}

// NewFormula builds a formula, enforcing that output is an operand and that
// expr carries no assignment token.
func NewFormula(output Token, expr Expression) (Formula, error) {
	if output.Kind != Operand {
		return Formula{}, ErrOutputNotOperand
	}
	for _, t := range expr {
		if t.Kind == Equal {
			return Formula{}, ErrAssignmentInBody
		}
	}
	return Formula{Output: output, Expr: expr.Clone()}, nil
}

// WithExpr returns a copy of f with a replaced expression and no value.
func (f Formula) WithExpr(expr Expression) Formula {
	return Formula{Output: f.Output, Expr: expr}
}

func (f Formula) String() string {
	return f.Output.Value + " = " + f.Expr.String()
}
