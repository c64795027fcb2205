package verify

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/pborges/logicsyn/internal/rpn"
	"github.com/pborges/logicsyn/internal/token"
	"github.com/pborges/logicsyn/internal/truth"
)

// Satisfiable searches for an assignment that makes f true. The witness
// covers every variable of f and is nil when f is unsatisfiable.
func Satisfiable(f token.Formula) (truth.Assignment, bool, error) {
	vars := truth.Variables(f.Expr)
	c := logic.NewC()
	lits := make(map[token.Token]z.Lit, len(vars))
	for _, v := range vars {
		lits[v] = c.Lit()
	}
	root, err := toCircuit(c, lits, f.Expr)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", f.Output, err)
	}

	witness := make(truth.Assignment, len(vars))
	switch root {
	case c.F:
		return nil, false, nil
	case c.T:
		for _, v := range vars {
			witness[v] = false
		}
		return witness, true, nil
	}

	g := gini.New()
	c.ToCnf(g)
	g.Assume(root)
	if g.Solve() != 1 {
		return nil, false, nil
	}
	for _, v := range vars {
		witness[v] = g.Value(lits[v])
	}
	return witness, true, nil
}

// Tautology reports whether f holds under every assignment.
func Tautology(f token.Formula) (bool, error) {
	neg := make(token.Expression, 0, len(f.Expr)+3)
	neg = append(neg, token.NotOp, token.Open)
	neg = append(neg, f.Expr...)
	neg = append(neg, token.Close)
	_, ok, err := Satisfiable(f.WithExpr(neg))
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func toCircuit(c *logic.C, lits map[token.Token]z.Lit, expr token.Expression) (z.Lit, error) {
	if expr.Empty() {
		return c.F, nil
	}
	postfix := rpn.ToPostfix(expr)
	var stack []z.Lit
	for i, tok := range postfix {
		switch tok.Kind {
		case token.Operand:
			switch tok {
			case truth.True:
				stack = append(stack, c.T)
			case truth.False:
				stack = append(stack, c.F)
			default:
				stack = append(stack, lits[tok])
			}
		case token.Not:
			if len(stack) < 1 {
				return z.LitNull, &truth.EvalError{Pos: i, Msg: "'~' on empty stack"}
			}
			stack[len(stack)-1] = stack[len(stack)-1].Not()
		case token.And, token.Or:
			if len(stack) < 2 {
				return z.LitNull, &truth.EvalError{Pos: i, Msg: fmt.Sprintf("%q needs two operands, have %d", tok.Value, len(stack))}
			}
			x, y := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if tok.Kind == token.And {
				stack[len(stack)-1] = c.And(x, y)
			} else {
				stack[len(stack)-1] = c.Or(x, y)
			}
		default:
			return z.LitNull, &truth.EvalError{Pos: i, Msg: fmt.Sprintf("unexpected %s %q", tok.Kind, tok.Value)}
		}
	}
	if len(stack) != 1 {
		return z.LitNull, &truth.EvalError{Pos: len(postfix), Msg: fmt.Sprintf("%d values left on stack", len(stack))}
	}
	return stack[0], nil
}
