package brain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTeach(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantQ  string
		wantA  string
		wantOK bool
	}{
		{name: "teach prefix", input: "teach: hi -> hello there", wantQ: "hi", wantA: "hello there", wantOK: true},
		{name: "learn prefix any case", input: "LEARN:  capital of France->Paris ", wantQ: "capital of France", wantA: "Paris", wantOK: true},
		{name: "splits at first arrow", input: "teach: a -> b -> c", wantQ: "a", wantA: "b -> c", wantOK: true},
		{name: "missing arrow", input: "teach: just words", wantOK: false},
		{name: "empty question", input: "teach: -> answer", wantOK: false},
		{name: "empty answer", input: "teach: question ->   ", wantOK: false},
		{name: "prefix not at start", input: "please teach: a -> b", wantOK: false},
		{name: "plain text", input: "hello", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fact, ok := ParseTeach(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantQ, fact.Question)
				assert.Equal(t, tt.wantA, fact.Answer)
			}
		})
	}
}

func TestSolveArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "parenthesized product", input: "what is (2+3)*4", want: "20", wantOK: true},
		{name: "modulo", input: "10%3", want: "1", wantOK: true},
		{name: "caret power", input: "2^10", want: "1024", wantOK: true},
		{name: "whole float", input: "3.5*2", want: "7", wantOK: true},
		{name: "true division with punctuation", input: "What's 7/2?", want: "3.5", wantOK: true},
		{name: "colon prefix", input: "calculate: 2+2", want: "4", wantOK: true},
		{name: "unknown characters dropped", input: "what is 2 apples + 3", want: "5", wantOK: true},
		{name: "unary minus and power", input: "evaluate -2^2", want: "-4", wantOK: true},
		{name: "no operator", input: "what is 5", wantOK: false},
		{name: "no digit", input: "what is -", wantOK: false},
		{name: "plain question", input: "what time is it", wantOK: false},
		{name: "division by zero", input: "1/0", wantOK: false},
		{name: "malformed", input: "2+*", wantOK: false},
		{name: "date-like text", input: "2025-01-01", wantOK: false},
		{name: "too long", input: strings.Repeat("1+", 61) + "1", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SolveArithmetic(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractExpression(t *testing.T) {
	expr, ok := ExtractExpression("How much is 3 ^ 2 ?!")
	assert.True(t, ok)
	assert.Equal(t, "3**2", expr)
}
