package truth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pborges/logicsyn/internal/rpn"
	"github.com/pborges/logicsyn/internal/token"
)

// DefaultMaxVariables bounds the 2^k enumeration when no limit is given.
const DefaultMaxVariables = 16

var ErrTooManyVariables = errors.New("too many variables for truth table")

// Permutations walks all 2^n assignments of n variables in ripple-counter
// order: position 0 toggles fastest. Each value is single use; create a new
// one to enumerate again.
type Permutations struct {
	n    int
	next uint64
	end  uint64
}

func NewPermutations(n int) *Permutations {
	return &Permutations{n: n, end: uint64(1) << uint(n)}
}

// Next returns the next assignment, or false once all have been produced.
func (p *Permutations) Next() ([]bool, bool) {
	if p.next >= p.end {
		return nil, false
	}
	bits := make([]bool, p.n)
	for i := range bits {
		bits[i] = p.next&(1<<uint(i)) != 0
	}
	p.next++
	return bits, true
}

// Row is one evaluated assignment.
type Row struct {
	Index  int
	Inputs []bool
	Output bool
}

// Config bounds table generation.
type Config struct {
	MaxVariables int
}

func (c Config) limit() int {
	if c.MaxVariables <= 0 {
		return DefaultMaxVariables
	}
	return c.MaxVariables
}

// Rows evaluates f for every assignment of its variables. The returned
// variables are sorted by name and index the Inputs of each row.
func Rows(ctx context.Context, cfg Config, f token.Formula) ([]token.Token, []Row, error) {
	vars := Variables(f.Expr)
	if len(vars) > cfg.limit() {
		return nil, nil, fmt.Errorf("%w: %d > %d", ErrTooManyVariables, len(vars), cfg.limit())
	}
	postfix := rpn.ToPostfix(f.Expr)
	rows := make([]Row, 0, 1<<uint(len(vars)))
	perms := NewPermutations(len(vars))
	a := make(Assignment, len(vars))
	for idx := 0; ; idx++ {
		bits, ok := perms.Next()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		for i, v := range vars {
			a[v] = bits[i]
		}
		out, err := Evaluate(postfix, a)
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, Row{Index: idx, Inputs: bits, Output: out})
	}
	return vars, rows, nil
}

// Table renders the truth table of f:
//
//	    B C D   A
//	0 | 0 0 0 | 1
//	1 | 1 0 0 | 1
//
// Lines are joined by newlines with no trailing newline.
func Table(f token.Formula) (string, error) {
	return TableContext(context.Background(), Config{}, f)
}

// TableContext is Table with a cancellation context and a variable limit.
func TableContext(ctx context.Context, cfg Config, f token.Formula) (string, error) {
	vars, rows, err := Rows(ctx, cfg, f)
	if err != nil {
		return "", err
	}
	return Render(f.Output, vars, rows), nil
}

// Render formats rows produced by Rows.
func Render(output token.Token, vars []token.Token, rows []Row) string {
	lines := make([]string, 0, len(rows)+1)
	var b strings.Builder
	b.WriteString("    ")
	for _, v := range vars {
		b.WriteString(v.Value)
		b.WriteByte(' ')
	}
	b.WriteString("  ")
	b.WriteString(output.Value)
	lines = append(lines, b.String())

	for _, r := range rows {
		b.Reset()
		fmt.Fprintf(&b, "%d | ", r.Index)
		for i, v := range vars {
			fmt.Fprintf(&b, "%-*s", len(v.Value)+1, bit(r.Inputs[i]))
		}
		b.WriteString("| ")
		b.WriteString(bit(r.Output))
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func bit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
