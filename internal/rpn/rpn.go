// Package rpn converts between infix and postfix token order.
package rpn

import (
	"fmt"

	"github.com/pborges/logicsyn/internal/token"
)

// Precedence returns the binding strength of an operator kind, 0 for
// anything else.
func Precedence(k token.Kind) int {
	switch k {
	case token.Not:
		return 3
	case token.And:
		return 2
	case token.Or:
		return 1
	}
	return 0
}

// ToPostfix reorders a syntactically valid infix expression into postfix.
// A leading "Output =" pair is kept in front of the converted body.
// Brackets never appear in the result.
func ToPostfix(expr token.Expression) token.Expression {
	var out token.Expression
	body := expr
	if len(expr) >= 2 && expr[0].Kind == token.Operand && expr[1].Kind == token.Equal {
		out = append(out, expr[0], expr[1])
		body = expr[2:]
	}

	var stack []token.Token
	for _, tok := range body {
		switch {
		case tok.Kind == token.Operand:
			out = append(out, tok)
		case tok.Kind == token.BracketOpen:
			stack = append(stack, tok)
		case tok.Kind == token.BracketClose:
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.Kind == token.BracketOpen {
					break
				}
				out = append(out, top)
			}
		case tok.Kind.IsOperator():
			// A prefix operator has no left operand yet, so nothing on the
			// stack can be complete.
			if tok.Kind != token.Not {
				p := Precedence(tok.Kind)
				for len(stack) > 0 {
					top := stack[len(stack)-1]
					if !top.Kind.IsOperator() || Precedence(top.Kind) < p {
						break
					}
					out = append(out, top)
					stack = stack[:len(stack)-1]
				}
			}
			stack = append(stack, tok)
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Kind.IsOperator() {
			out = append(out, stack[i])
		}
	}
	return out
}

// ToInfix rebuilds a fully bracketed infix expression from postfix.
func ToInfix(postfix token.Expression) (token.Expression, error) {
	var stack []token.Expression
	for i, tok := range postfix {
		switch {
		case tok.Kind == token.Operand:
			stack = append(stack, token.Expression{tok})
		case tok.Kind == token.Not:
			if len(stack) < 1 {
				return nil, fmt.Errorf("postfix token %d: %q lacks an operand", i, tok.Value)
			}
			x := stack[len(stack)-1]
			e := append(token.Expression{tok}, x...)
			stack[len(stack)-1] = e
		case tok.Kind.IsBinary():
			if len(stack) < 2 {
				return nil, fmt.Errorf("postfix token %d: %q lacks operands", i, tok.Value)
			}
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			e := make(token.Expression, 0, len(a)+len(b)+3)
			e = append(e, token.Open)
			e = append(e, a...)
			e = append(e, tok)
			e = append(e, b...)
			e = append(e, token.Close)
			stack = stack[:len(stack)-1]
			stack[len(stack)-1] = e
		default:
			return nil, fmt.Errorf("postfix token %d: unexpected %s %q", i, tok.Kind, tok.Value)
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("postfix leaves %d values, want 1", len(stack))
	}
	return stack[0], nil
}
