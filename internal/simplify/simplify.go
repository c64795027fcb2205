// Package simplify applies term-level boolean laws to a sum-of-products
// formula.
package simplify

import (
	"github.com/pborges/logicsyn/internal/token"
	"github.com/pborges/logicsyn/internal/truth"
)

// Rules selects the laws Simplify applies.
type Rules struct {
	Idempotent bool // A + A = A
	Absorption bool // A + A*B = A
	Complement bool // A * ~A = 0, A + ~A = 1
	DeMorgan   bool // ~(A+B) = ~A*~B, ~(A*B) = ~A+~B
}

// DefaultRules enables the idempotent and absorption laws.
func DefaultRules() Rules {
	return Rules{Idempotent: true, Absorption: true}
}

// Simplify rewrites f.Expr with the enabled rules. De Morgan runs first on
// the whole expression, then the expression is split into top-level terms
// for complement, idempotent and absorption, in that order.
func Simplify(f token.Formula, r Rules) token.Formula {
	expr := f.Expr
	if r.DeMorgan {
		expr = deMorgan(expr)
	}
	terms := SplitTerms(expr)
	if r.Complement {
		var constant token.Token
		terms, constant = complement(terms)
		if constant.Kind == token.Operand {
			return f.WithExpr(token.Expression{constant})
		}
	}
	if r.Idempotent {
		terms = idempotent(terms)
	}
	if r.Absorption {
		terms = absorption(terms)
	}
	return f.WithExpr(JoinTerms(terms).Clone())
}

func idempotent(terms []token.Expression) []token.Expression {
	seen := make(map[string]bool, len(terms))
	out := make([]token.Expression, 0, len(terms))
	for _, t := range terms {
		sig := t.String()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, t)
	}
	return out
}

// absorption drops every product whose literal set contains another
// product's literal set. Pairs are visited once, in order; of two equal
// sets the later term goes.
func absorption(terms []token.Expression) []token.Expression {
	type entry struct {
		lits    []Literal
		product bool
	}
	entries := make([]entry, len(terms))
	for i, t := range terms {
		lits, ok := Product(t)
		entries[i] = entry{lits: lits, product: ok}
	}
	dropped := make([]bool, len(terms))
	for i := range terms {
		for j := i + 1; j < len(terms); j++ {
			if dropped[i] {
				break
			}
			if dropped[j] || !entries[i].product || !entries[j].product {
				continue
			}
			a, b := LiteralSet(entries[i].lits), LiteralSet(entries[j].lits)
			switch {
			case a.IsSubset(b):
				dropped[j] = true
			case b.IsSubset(a):
				dropped[i] = true
			}
		}
	}
	out := make([]token.Expression, 0, len(terms))
	for i, t := range terms {
		if !dropped[i] {
			out = append(out, t)
		}
	}
	return out
}

// complement drops products holding a literal and its negation. When two
// single-literal terms are complementary the sum is constant 1; when every
// term is dropped it is constant 0. A zero Token means no constant.
func complement(terms []token.Expression) ([]token.Expression, token.Token) {
	if len(terms) == 0 {
		return terms, token.Token{}
	}
	singles := map[string]bool{}
	out := make([]token.Expression, 0, len(terms))
	for _, t := range terms {
		lits, ok := Product(t)
		if !ok {
			out = append(out, t)
			continue
		}
		set := LiteralSet(lits)
		contradiction := false
		for _, l := range lits {
			if set.Contains(Literal{Name: l.Name, Neg: !l.Neg}.Key()) {
				contradiction = true
				break
			}
		}
		if contradiction {
			continue
		}
		if set.Cardinality() == 1 {
			l := lits[0]
			if singles[Literal{Name: l.Name, Neg: !l.Neg}.Key()] {
				return nil, truth.True
			}
			singles[l.Key()] = true
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, truth.False
	}
	return out, token.Token{}
}

// deMorgan rewrites each "~(" group whose body is a flat sum or a flat
// product of literals. Groups with nested brackets are left alone.
func deMorgan(expr token.Expression) token.Expression {
	var out token.Expression
	for i := 0; i < len(expr); i++ {
		if expr[i].Kind == token.Not && i+1 < len(expr) && expr[i+1].Kind == token.BracketOpen {
			end := matching(expr, i+1)
			if end > 0 {
				if rewritten, ok := pushNot(expr[i+2 : end]); ok {
					if len(rewritten) > 2 && len(out) > 0 && out[len(out)-1].Kind == token.Not && rewritten[0].Kind != token.BracketOpen {
						rewritten = append(append(token.Expression{token.Open}, rewritten...), token.Close)
					}
					out = append(out, rewritten...)
					i = end
					continue
				}
			}
		}
		out = append(out, expr[i])
	}
	return out
}

func pushNot(body token.Expression) (token.Expression, bool) {
	var lits []Literal
	var op token.Kind
	expectLiteral := true
	for i := 0; i < len(body); i++ {
		tok := body[i]
		if !expectLiteral {
			if !tok.Kind.IsBinary() || (op != 0 && tok.Kind != op) {
				return nil, false
			}
			op = tok.Kind
			expectLiteral = true
			continue
		}
		neg := false
		if tok.Kind == token.Not {
			neg = true
			i++
			if i >= len(body) {
				return nil, false
			}
			tok = body[i]
		}
		if tok.Kind != token.Operand {
			return nil, false
		}
		lits = append(lits, Literal{Name: tok.Value, Neg: !neg})
		expectLiteral = false
	}
	if expectLiteral {
		return nil, false
	}
	if op == token.And {
		// ~(A*B) becomes a bracketed sum so it keeps its place in a product.
		var out token.Expression
		out = append(out, token.Open)
		for i, l := range lits {
			if i > 0 {
				out = append(out, token.OrOp)
			}
			out = append(out, l.Tokens()...)
		}
		return append(out, token.Close), true
	}
	if len(lits) == 1 {
		return lits[0].Tokens(), true
	}
	// ~(A+B) becomes a product, which binds tighter than any neighbour.
	return ProductTokens(lits), true
}
