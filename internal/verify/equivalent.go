// Package verify checks rewritten formulas against their originals.
package verify

import (
	"fmt"

	"github.com/dalzilio/rudd"

	"github.com/pborges/logicsyn/internal/rpn"
	"github.com/pborges/logicsyn/internal/token"
	"github.com/pborges/logicsyn/internal/truth"
)

// Equivalent reports whether a and b agree on every assignment of the union
// of their variables. Output names are ignored.
func Equivalent(a, b token.Formula) (bool, error) {
	return Implements(a, b, nil)
}

// Implements reports whether impl agrees with ref everywhere outside
// dontCares: every assignment satisfying ref satisfies impl, and every
// assignment satisfying impl satisfies ref or is a don't-care.
func Implements(ref, impl token.Formula, dontCares []truth.Assignment) (bool, error) {
	all := append(ref.Expr.Clone(), impl.Expr...)
	for _, dc := range dontCares {
		for v := range dc {
			all = append(all, v)
		}
	}
	vars := truth.Variables(all)
	index := make(map[token.Token]int, len(vars))
	for i, v := range vars {
		index[v] = i
	}
	varnum := len(vars)
	if varnum == 0 {
		varnum = 1
	}
	set, err := rudd.New(varnum)
	if err != nil {
		return false, err
	}
	s, err := toBDD(set, index, ref.Expr)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ref.Output, err)
	}
	i, err := toBDD(set, index, impl.Expr)
	if err != nil {
		return false, fmt.Errorf("%s: %w", impl.Output, err)
	}
	d := set.False()
	for _, dc := range dontCares {
		cube := set.True()
		for v, b := range dc {
			if b {
				cube = set.And(cube, set.Ithvar(index[v]))
			} else {
				cube = set.And(cube, set.NIthvar(index[v]))
			}
		}
		d = set.Or(d, cube)
	}
	lower := set.Imp(s, i)
	upper := set.Imp(i, set.Or(s, d))
	if msg := set.Error(); msg != "" {
		return false, fmt.Errorf("bdd: %s", msg)
	}
	return set.Equal(lower, set.True()) && set.Equal(upper, set.True()), nil
}

// toBDD folds the postfix form of expr into a single node. The empty
// expression is false.
func toBDD(set *rudd.BDD, index map[token.Token]int, expr token.Expression) (rudd.Node, error) {
	if expr.Empty() {
		return set.False(), nil
	}
	postfix := rpn.ToPostfix(expr)
	var stack []rudd.Node
	for i, tok := range postfix {
		switch tok.Kind {
		case token.Operand:
			switch tok {
			case truth.True:
				stack = append(stack, set.True())
			case truth.False:
				stack = append(stack, set.False())
			default:
				stack = append(stack, set.Ithvar(index[tok]))
			}
		case token.Not:
			if len(stack) < 1 {
				return nil, &truth.EvalError{Pos: i, Msg: "'~' on empty stack"}
			}
			stack[len(stack)-1] = set.Not(stack[len(stack)-1])
		case token.And, token.Or:
			if len(stack) < 2 {
				return nil, &truth.EvalError{Pos: i, Msg: fmt.Sprintf("%q needs two operands, have %d", tok.Value, len(stack))}
			}
			x, y := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if tok.Kind == token.And {
				stack[len(stack)-1] = set.And(x, y)
			} else {
				stack[len(stack)-1] = set.Or(x, y)
			}
		default:
			return nil, &truth.EvalError{Pos: i, Msg: fmt.Sprintf("unexpected %s %q", tok.Kind, tok.Value)}
		}
	}
	if len(stack) != 1 {
		return nil, &truth.EvalError{Pos: len(postfix), Msg: fmt.Sprintf("%d values left on stack", len(stack))}
	}
	return stack[0], nil
}
