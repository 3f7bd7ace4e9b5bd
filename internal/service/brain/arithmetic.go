package brain

import (
	"regexp"
	"strings"

	"github.com/sandevgo/parley/pkg/calc"
)

const maxExpressionLen = 120

var (
	mathPrefixes = []string{
		"what is ", "what's ", "calculate ", "compute ", "solve ", "evaluate ",
		"how much is ", "what does ", "simplify ", "math: ", "calculate: ",
	}
	trailingPunct = regexp.MustCompile(`[?!.]+$`)
)

// ExtractExpression strips a question prefix and any characters outside
// the arithmetic alphabet. Unknown characters are dropped silently, so
// "what is 2 apples + 3" still yields "2+3".
func ExtractExpression(text string) (string, bool) {
	t := strings.TrimSpace(text)
	for _, prefix := range mathPrefixes {
		if hasPrefixFold(t, prefix) {
			t = strings.TrimSpace(t[len(prefix):])
			break
		}
	}
	t = strings.TrimSpace(trailingPunct.ReplaceAllString(t, ""))
	t = strings.ReplaceAll(t, "^", "**")

	expr := strings.Map(func(r rune) rune {
		if strings.ContainsRune("0123456789.+-*/()%", r) {
			return r
		}
		return -1
	}, t)

	if expr == "" || len(expr) > maxExpressionLen {
		return "", false
	}
	if !strings.ContainsAny(expr, "+-*/%") {
		return "", false
	}
	if !strings.ContainsAny(expr, "0123456789") {
		return "", false
	}
	return expr, true
}

// SolveArithmetic answers a chat arithmetic question, e.g. "what is 2^10?".
func SolveArithmetic(text string) (string, bool) {
	expr, ok := ExtractExpression(text)
	if !ok {
		return "", false
	}
	n, err := calc.Evaluate(expr)
	if err != nil {
		return "", false
	}
	return n.String(), true
}
