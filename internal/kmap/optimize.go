package kmap

import (
	"github.com/pborges/logicsyn/internal/simplify"
	"github.com/pborges/logicsyn/internal/token"
	"github.com/pborges/logicsyn/internal/truth"
)

// Config selects optimizer behaviour.
type Config struct {
	UseKMap        bool
	UseDontCares   bool
	PreferAndGates bool
	// MaxVariables bounds the map size; larger formulas are returned
	// unchanged. Zero means truth.DefaultMaxVariables.
	MaxVariables int
}

// DefaultConfig enables the map and don't-care promotion.
func DefaultConfig() Config {
	return Config{UseKMap: true, UseDontCares: true}
}

func (c Config) limit() int {
	if c.MaxVariables <= 0 {
		return truth.DefaultMaxVariables
	}
	return c.MaxVariables
}

// Optimize minimizes f. When no improvement is found the original
// expression is returned unchanged; that is not an error.
func Optimize(f token.Formula, cfg Config) token.Formula {
	return OptimizeWithDontCares(f, nil, cfg)
}

// OptimizeWithDontCares is Optimize with input assignments whose output is
// unconstrained. They enter the map as DontCare cells.
func OptimizeWithDontCares(f token.Formula, dontCares []truth.Assignment, cfg Config) token.Formula {
	if !cfg.UseKMap {
		return factorOnly(f, cfg)
	}
	if f.Expr.Empty() {
		return f.WithExpr(token.Expression{truth.False})
	}
	if len(truth.Variables(f.Expr)) > cfg.limit() {
		return f
	}
	m, err := Build(f.Expr)
	if err != nil {
		return f
	}
	m.MarkDontCares(dontCares)
	if cfg.UseDontCares {
		m.PromoteDontCares()
	} else {
		m.ClearDontCares()
	}

	if lit, ok := commonFactor(f.Expr); ok {
		return f.WithExpr(lit.Tokens())
	}
	if v, ok := m.Constant(); ok {
		if v {
			return f.WithExpr(token.Expression{truth.True})
		}
		return f.WithExpr(token.Expression{truth.False})
	}
	if g, ok := m.Search(); ok {
		return f.WithExpr(Render([]Group{g}, cfg.PreferAndGates))
	}
	return f
}

// factorOnly handles a disabled map: a sum of products is re-rendered
// with shared literals factored out when PreferAndGates is set.
func factorOnly(f token.Formula, cfg Config) token.Formula {
	if !cfg.PreferAndGates {
		return f
	}
	terms := simplify.SplitTerms(f.Expr)
	if len(terms) < 2 {
		return f
	}
	groups := make([]Group, 0, len(terms))
	for _, t := range terms {
		lits, ok := simplify.Product(t)
		if !ok {
			return f
		}
		groups = append(groups, lits)
	}
	if len(sharedLiterals(groups)) == 0 {
		return f
	}
	return f.WithExpr(Render(groups, true))
}

// commonFactor reports the single literal a sum of products collapses to:
// one literal shared by every product, where the remainders add up to 1
// because one of them is empty or two of them are X and ~X.
func commonFactor(expr token.Expression) (simplify.Literal, bool) {
	terms := simplify.SplitTerms(expr)
	if len(terms) == 0 {
		return simplify.Literal{}, false
	}
	groups := make([]Group, 0, len(terms))
	for _, t := range terms {
		lits, ok := simplify.Product(t)
		if !ok {
			return simplify.Literal{}, false
		}
		groups = append(groups, lits)
	}
	shared := sharedLiterals(groups)
	if len(shared) != 1 {
		return simplify.Literal{}, false
	}
	skip := shared[0].Key()
	singles := map[string]bool{}
	for _, g := range groups {
		var rest []simplify.Literal
		for _, l := range g {
			if l.Key() != skip {
				rest = append(rest, l)
			}
		}
		switch len(rest) {
		case 0:
			return shared[0], true
		case 1:
			l := rest[0]
			if singles[simplify.Literal{Name: l.Name, Neg: !l.Neg}.Key()] {
				return shared[0], true
			}
			singles[l.Key()] = true
		}
	}
	return simplify.Literal{}, false
}
