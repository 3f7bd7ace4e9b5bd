package calc

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isDigit(c) || c == '.':
			start := i
			dots := 0
			for i < len(expr) && (isDigit(expr[i]) || expr[i] == '.') {
				if expr[i] == '.' {
					dots++
				}
				i++
			}
			lit := expr[start:i]
			if dots > 1 || lit == "." {
				return nil, fmt.Errorf("%w: bad number %q at %d", ErrSyntax, lit, start)
			}
			if dots == 0 && len(lit) > 1 && lit[0] == '0' && strings.Trim(lit, "0") != "" {
				return nil, fmt.Errorf("%w: leading zero in %q at %d", ErrSyntax, lit, start)
			}
			tokens = append(tokens, token{kind: tokNumber, text: lit, pos: start})
		case c == '*' || c == '/':
			if i+1 < len(expr) && expr[i+1] == c {
				tokens = append(tokens, token{kind: tokOp, text: expr[i : i+2], pos: i})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '+' || c == '-' || c == '%':
			tokens = append(tokens, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, c, i)
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(expr)}), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
