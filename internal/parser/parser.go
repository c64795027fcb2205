// Package parser validates a token stream against the assignment grammar
//
//	Output = Expression
//
// and produces a token.Formula. Validation is fail-fast: the first rule
// violation, scanning left to right, is reported.
package parser

import (
	"fmt"

	"github.com/pborges/logicsyn/internal/lexer"
	"github.com/pborges/logicsyn/internal/token"
)

// SyntaxError reports a grammar violation at a 0-based token index.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at token %d: %s", e.Pos, e.Msg)
}

const shapeMsg = "expected form 'Operand = Expression'"

// Parse tokenizes and validates input.
func Parse(input string) (token.Formula, error) {
	return ParseTokens(lexer.Tokenize(input))
}

// ParseTokens validates an already tokenized assignment.
func ParseTokens(tokens token.Expression) (token.Formula, error) {
	v := validator{prev: token.Equal}
	for i, tok := range tokens {
		if err := v.step(i, tok); err != nil {
			return token.Formula{}, err
		}
	}
	if err := v.finish(len(tokens)); err != nil {
		return token.Formula{}, err
	}
	return token.Formula{Output: tokens[0], Expr: tokens[2:].Clone()}, nil
}

// validator holds the fold state of a single Parse call.
type validator struct {
	prev    token.Kind
	balance int
}

func fail(pos int, format string, args ...interface{}) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (v *validator) step(i int, tok token.Token) error {
	if tok.Kind == token.Invalid {
		return fail(i, "invalid character %q", tok.Value)
	}
	switch i {
	case 0:
		if tok.Kind != token.Operand {
			return fail(i, "%s: output must be an operand, found %q", shapeMsg, tok.Value)
		}
		return nil
	case 1:
		if tok.Kind != token.Equal {
			return fail(i, "%s: found %q", shapeMsg, tok.Value)
		}
		return nil
	}

	prev := v.prev
	switch tok.Kind {
	case token.Equal:
		return fail(i, "unexpected '=' inside expression")
	case token.Operand:
		if prev == token.Operand || prev == token.BracketClose {
			return fail(i, "missing operator before %q", tok.Value)
		}
	case token.Not:
		if prev == token.Operand || prev == token.BracketClose {
			return fail(i, "missing binary operator before '~'")
		}
	case token.And, token.Or:
		if prev != token.Operand && prev != token.BracketClose {
			return fail(i, "operator %q must follow an operand or ')'", tok.Value)
		}
	case token.BracketOpen:
		if !prev.IsOperator() && prev != token.Equal && prev != token.BracketOpen {
			return fail(i, "'(' must follow an operator, '=' or '('")
		}
		v.balance++
	case token.BracketClose:
		if prev == token.BracketOpen {
			return fail(i, "empty brackets")
		}
		if v.balance == 0 {
			return fail(i, "premature closure of bracket")
		}
		if prev != token.Operand && prev != token.BracketClose {
			return fail(i, "')' must follow an operand or ')'")
		}
		v.balance--
	}
	v.prev = tok.Kind
	return nil
}

func (v *validator) finish(n int) error {
	if n < 2 {
		return fail(n, "%s: input ended early", shapeMsg)
	}
	if n == 2 {
		return fail(n, "empty expression after '='")
	}
	if v.balance > 0 {
		return fail(n, "%d unclosed bracket(s)", v.balance)
	}
	if v.prev.IsOperator() {
		return fail(n, "expression ends with an operator")
	}
	return nil
}
