package kmap

import "github.com/pborges/logicsyn/internal/simplify"

func lit(name string, neg bool) simplify.Literal {
	return simplify.Literal{Name: name, Neg: neg}
}
