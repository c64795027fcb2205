// Package truth evaluates postfix expressions and enumerates truth tables.
package truth

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/exp/slices"

	"github.com/pborges/logicsyn/internal/token"
)

// EvalError signals a postfix stream that does not reduce to exactly one
// value. Postfix produced by rpn.ToPostfix from a validated formula never
// triggers it, so it indicates an internal inconsistency rather than bad
// user input.
type EvalError struct {
	Pos int
	Msg string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("malformed postfix at token %d: %s", e.Pos, e.Msg)
}

// Assignment binds operands to values. Missing operands read as false.
type Assignment map[token.Token]bool

// Constant operands produced by the optimizer.
var (
	False = token.Var("0")
	True  = token.Var("1")
)

// IsConstant reports whether tok is the literal 0 or 1.
func IsConstant(tok token.Token) bool {
	return tok == False || tok == True
}

// Evaluate runs postfix on a value stack under a.
func Evaluate(postfix token.Expression, a Assignment) (bool, error) {
	stack := make([]bool, 0, len(postfix))
	for i, tok := range postfix {
		switch tok.Kind {
		case token.Operand:
			switch tok {
			case True:
				stack = append(stack, true)
			case False:
				stack = append(stack, false)
			default:
				stack = append(stack, a[tok])
			}
		case token.Not:
			if len(stack) < 1 {
				return false, &EvalError{Pos: i, Msg: "'~' on empty stack"}
			}
			stack[len(stack)-1] = !stack[len(stack)-1]
		case token.And, token.Or:
			if len(stack) < 2 {
				return false, &EvalError{Pos: i, Msg: fmt.Sprintf("%q needs two operands, have %d", tok.Value, len(stack))}
			}
			b := stack[len(stack)-1]
			x := stack[len(stack)-2]
			stack = stack[:len(stack)-1]
			if tok.Kind == token.And {
				stack[len(stack)-1] = x && b
			} else {
				stack[len(stack)-1] = x || b
			}
		default:
			return false, &EvalError{Pos: i, Msg: fmt.Sprintf("unexpected %s %q", tok.Kind, tok.Value)}
		}
	}
	if len(stack) != 1 {
		return false, &EvalError{Pos: len(postfix), Msg: fmt.Sprintf("%d values left on stack", len(stack))}
	}
	return stack[0], nil
}

// Variables returns the distinct operands of expr sorted by name. The
// constants 0 and 1 are not variables.
func Variables(expr token.Expression) []token.Token {
	set := mapset.NewThreadUnsafeSet[token.Token]()
	for _, tok := range expr {
		if tok.Kind == token.Operand && !IsConstant(tok) {
			set.Add(tok)
		}
	}
	vars := set.ToSlice()
	slices.SortFunc(vars, func(a, b token.Token) int {
		switch {
		case a.Value < b.Value:
			return -1
		case a.Value > b.Value:
			return 1
		}
		return 0
	})
	return vars
}
