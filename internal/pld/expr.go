package pld

import (
	"fmt"
	"sort"

	"github.com/pborges/logicsyn/internal/rpn"
	"github.com/pborges/logicsyn/internal/token"
	"github.com/pborges/logicsyn/internal/truth"
)

// Expr AST

type Expr interface{ isExpr() }

type ExprIdent struct{ Name string }

func (ExprIdent) isExpr() {}

type ExprNot struct{ X Expr }

func (ExprNot) isExpr() {}

type ExprAnd struct{ A, B Expr }

func (ExprAnd) isExpr() {}

type ExprOr struct{ A, B Expr }

func (ExprOr) isExpr() {}

type ExprConst struct{ Value bool }

func (ExprConst) isExpr() {}

// FromInfix builds the tree of an infix expression. The empty expression is
// the constant false.
func FromInfix(expr token.Expression) (Expr, error) {
	if expr.Empty() {
		return ExprConst{}, nil
	}
	postfix := rpn.ToPostfix(expr)
	var stack []Expr
	for i, tok := range postfix {
		switch tok.Kind {
		case token.Operand:
			switch tok {
			case truth.True:
				stack = append(stack, ExprConst{Value: true})
			case truth.False:
				stack = append(stack, ExprConst{})
			default:
				stack = append(stack, ExprIdent{Name: tok.Value})
			}
		case token.Not:
			if len(stack) < 1 {
				return nil, &truth.EvalError{Pos: i, Msg: "'~' on empty stack"}
			}
			stack[len(stack)-1] = ExprNot{X: stack[len(stack)-1]}
		case token.And, token.Or:
			if len(stack) < 2 {
				return nil, &truth.EvalError{Pos: i, Msg: fmt.Sprintf("%q needs two operands, have %d", tok.Value, len(stack))}
			}
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if tok.Kind == token.And {
				stack[len(stack)-1] = ExprAnd{A: a, B: b}
			} else {
				stack[len(stack)-1] = ExprOr{A: a, B: b}
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

// DNF handling

type Literal struct {
	Name string
	Neg  bool
}

// Term is a product of literals. A Term without literals is true.
type Term struct {
	Lits []Literal
}

func exprToTerms(expr Expr) []Term {
	return dnf(toNNF(expr, false))
}

// toNNF pushes negation down to the identifiers.
func toNNF(expr Expr, neg bool) Expr {
	switch e := expr.(type) {
	case ExprConst:
		if neg {
			return ExprConst{Value: !e.Value}
		}
		return e
	case ExprIdent:
		if neg {
			return ExprNot{X: e}
		}
		return e
	case ExprNot:
		return toNNF(e.X, !neg)
	case ExprAnd:
		left, right := toNNF(e.A, neg), toNNF(e.B, neg)
		if neg {
			return ExprOr{A: left, B: right}
		}
		return ExprAnd{A: left, B: right}
	case ExprOr:
		left, right := toNNF(e.A, neg), toNNF(e.B, neg)
		if neg {
			return ExprAnd{A: left, B: right}
		}
		return ExprOr{A: left, B: right}
	default:
		return expr
	}
}

// dnf expands an NNF tree into a sum of products. Products holding a
// variable and its complement are dropped.
func dnf(expr Expr) []Term {
	switch e := expr.(type) {
	case ExprConst:
		if e.Value {
			return []Term{{}}
		}
		return nil
	case ExprIdent:
		return []Term{{Lits: []Literal{{Name: e.Name}}}}
	case ExprNot:
		// NNF guarantees an identifier here.
		return []Term{{Lits: []Literal{{Name: e.X.(ExprIdent).Name, Neg: true}}}}
	case ExprAnd:
		return andDNF(dnf(e.A), dnf(e.B))
	case ExprOr:
		return append(dnf(e.A), dnf(e.B)...)
	}
	return nil
}

func andDNF(a, b []Term) []Term {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	var out []Term
	for _, tb := range b {
		for _, ta := range a {
			if t, ok := mergeTerms(ta, tb); ok {
				out = append(out, t)
			}
		}
	}
	return out
}

func mergeTerms(a, b Term) (Term, bool) {
	m := map[string]bool{}
	for _, l := range a.Lits {
		m[l.Name] = l.Neg
	}
	for _, l := range b.Lits {
		if neg, ok := m[l.Name]; ok {
			if neg != l.Neg {
				return Term{}, false
			}
			continue
		}
		m[l.Name] = l.Neg
	}
	lits := make([]Literal, 0, len(m))
	for name, neg := range m {
		lits = append(lits, Literal{Name: name, Neg: neg})
	}
	sort.Slice(lits, func(i, j int) bool { return lits[i].Name < lits[j].Name })
	return Term{Lits: lits}, true
}

// TermsExpression renders terms as "a*~b+c". No terms renders "0" and an
// empty product renders "1".
func TermsExpression(terms []Term) token.Expression {
	if len(terms) == 0 {
		return token.Expression{truth.False}
	}
	var out token.Expression
	for i, t := range terms {
		if i > 0 {
			out = append(out, token.OrOp)
		}
		if len(t.Lits) == 0 {
			out = append(out, truth.True)
			continue
		}
		for j, l := range t.Lits {
			if j > 0 {
				out = append(out, token.AndOp)
			}
			if l.Neg {
				out = append(out, token.NotOp)
			}
			out = append(out, token.Var(l.Name))
		}
	}
	return out
}
