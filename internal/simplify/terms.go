package simplify

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/pborges/logicsyn/internal/token"
)

// SplitTerms splits expr at every '+' outside brackets. An empty
// expression has no terms.
func SplitTerms(expr token.Expression) []token.Expression {
	if len(expr) == 0 {
		return nil
	}
	var terms []token.Expression
	depth, start := 0, 0
	for i, tok := range expr {
		switch tok.Kind {
		case token.BracketOpen:
			depth++
		case token.BracketClose:
			depth--
		case token.Or:
			if depth == 0 {
				terms = append(terms, expr[start:i])
				start = i + 1
			}
		}
	}
	return append(terms, expr[start:])
}

// JoinTerms is the inverse of SplitTerms.
func JoinTerms(terms []token.Expression) token.Expression {
	var out token.Expression
	for i, t := range terms {
		if i > 0 {
			out = append(out, token.OrOp)
		}
		out = append(out, t...)
	}
	return out
}

// StripBrackets removes bracket pairs that enclose the whole of e.
func StripBrackets(e token.Expression) token.Expression {
	for len(e) >= 2 && e[0].Kind == token.BracketOpen && matching(e, 0) == len(e)-1 {
		e = e[1 : len(e)-1]
	}
	return e
}

// matching returns the index of the bracket closing the one opened at i,
// or -1.
func matching(e token.Expression, i int) int {
	depth := 0
	for j := i; j < len(e); j++ {
		switch e[j].Kind {
		case token.BracketOpen:
			depth++
		case token.BracketClose:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// Literal is an operand with polarity.
type Literal struct {
	Name string
	Neg  bool
}

// Key is the literal's set key: the name, prefixed by '~' when negated.
func (l Literal) Key() string {
	if l.Neg {
		return "~" + l.Name
	}
	return l.Name
}

// Tokens renders the literal.
func (l Literal) Tokens() token.Expression {
	if l.Neg {
		return token.Expression{token.NotOp, token.Var(l.Name)}
	}
	return token.Expression{token.Var(l.Name)}
}

// Product reads term as a conjunction of literals, ignoring enclosing
// brackets. It reports false when term is anything else, such as a
// bracketed sum or a negated group.
func Product(term token.Expression) ([]Literal, bool) {
	term = StripBrackets(term)
	if len(term) == 0 {
		return nil, false
	}
	var lits []Literal
	expectLiteral := true
	for i := 0; i < len(term); i++ {
		tok := term[i]
		if !expectLiteral {
			if tok.Kind != token.And {
				return nil, false
			}
			expectLiteral = true
			continue
		}
		neg := false
		if tok.Kind == token.Not {
			neg = true
			i++
			if i >= len(term) {
				return nil, false
			}
			tok = term[i]
		}
		if tok.Kind != token.Operand {
			return nil, false
		}
		lits = append(lits, Literal{Name: tok.Value, Neg: neg})
		expectLiteral = false
	}
	if expectLiteral {
		return nil, false
	}
	return lits, true
}

// LiteralSet returns the set of literal keys of a product.
func LiteralSet(lits []Literal) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, l := range lits {
		set.Add(l.Key())
	}
	return set
}

// ProductTokens renders lits joined by '*'.
func ProductTokens(lits []Literal) token.Expression {
	var out token.Expression
	for i, l := range lits {
		if i > 0 {
			out = append(out, token.AndOp)
		}
		out = append(out, l.Tokens()...)
	}
	return out
}
