// Package lexer splits expression text into tokens.
package lexer

import (
	"unicode/utf8"

	"github.com/pborges/logicsyn/internal/token"
)

// Lexer yields tokens one at a time from its input. It is single pass:
// once Next reports false the lexer is exhausted.
type Lexer struct {
	s       string
	i       int
	start   int // start offset of the pending operand
	pending bool
	queued  *token.Token
}

func New(s string) *Lexer { return &Lexer{s: s} }

// Next returns the next token, or false at end of input.
func (l *Lexer) Next() (token.Token, bool) {
	if l.queued != nil {
		tok := *l.queued
		l.queued = nil
		return tok, true
	}
	for l.i < len(l.s) {
		ch := l.s[l.i]
		if isSymbol(ch) {
			if !l.pending {
				l.start = l.i
				l.pending = true
			}
			l.i++
			continue
		}
		end := l.i
		r, size := utf8.DecodeRuneInString(l.s[l.i:])
		l.i += size
		tok, emit := single(r)
		if l.pending {
			operand := l.flush(end)
			if emit {
				l.queued = &tok
			}
			return operand, true
		}
		if emit {
			return tok, true
		}
	}
	if l.pending {
		return l.flush(l.i), true
	}
	return token.Token{}, false
}

// All drains the lexer.
func (l *Lexer) All() token.Expression {
	var out token.Expression
	for {
		tok, ok := l.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

// Tokenize is shorthand for New(s).All().
func Tokenize(s string) token.Expression {
	return New(s).All()
}

func (l *Lexer) flush(end int) token.Token {
	l.pending = false
	return token.Var(l.s[l.start:end])
}

// single classifies a non-operand character. Whitespace separates tokens
// without producing one.
func single(r rune) (token.Token, bool) {
	switch r {
	case '+':
		return token.OrOp, true
	case '*':
		return token.AndOp, true
	case '~':
		return token.NotOp, true
	case '=':
		return token.Eq, true
	case '(':
		return token.Open, true
	case ')':
		return token.Close, true
	case ' ', '\t', '\r', '\n':
		return token.Token{}, false
	}
	return token.Token{Value: string(r), Kind: token.Invalid}, true
}

func isSymbol(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}
