package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandevgo/parley/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFacts []core.Fact

func (s staticFacts) Facts(context.Context) []core.Fact { return s }

type failingCommand struct{}

func (failingCommand) Name() string        { return "boom" }
func (failingCommand) Description() string { return "Always fails" }
func (failingCommand) Execute(context.Context, string, []string) (string, error) {
	return "", errors.New("kaput")
}

func newTestRouter(facts staticFacts) *Router {
	status := core.StatusFunc(func() core.Status {
		return core.Status{
			Name:      "Parley",
			Version:   "0.1.0",
			Storage:   "sqlite",
			Models:    []string{"openai:gpt-4o-mini", "ollama:llama3.2"},
			Knowledge: map[string]bool{"wikipedia": true},
		}
	})
	cmds := append(NewCommands(facts, status), failingCommand{})
	return New(cmds)
}

func TestRouter_Execute(t *testing.T) {
	router := newTestRouter(staticFacts{{Question: "capital of france", Answer: "Paris"}})
	ctx := context.Background()

	tests := []struct {
		name        string
		input       string
		wantHandled bool
		contains    []string
	}{
		{name: "plain text", input: "hello there", wantHandled: false},
		{name: "bare slash", input: "/", wantHandled: false},
		{name: "path-like text", input: "/usr/bin is a directory", wantHandled: false},
		{name: "help", input: "/help", wantHandled: true, contains: []string{"`/facts`", "`/status`", "teach: question -> answer"}},
		{name: "telegram start", input: "/start", wantHandled: true, contains: []string{"Commands"}},
		{name: "facts", input: " /facts ", wantHandled: true, contains: []string{"**capital of france** -> Paris", "`1`"}},
		{name: "status", input: "/STATUS", wantHandled: true, contains: []string{"openai:gpt-4o-mini → ollama:llama3.2", "`sqlite`", "lexical matching", `{"wikipedia":true}`}},
		{name: "unknown", input: "/nope", wantHandled: true, contains: []string{"Unknown command: /nope"}},
		{name: "failing", input: "/boom", wantHandled: true, contains: []string{"/boom failed", "kaput"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, handled := router.Execute(ctx, "s1", tt.input)
			assert.Equal(t, tt.wantHandled, handled)
			if !tt.wantHandled {
				assert.Empty(t, reply)
			}
			for _, c := range tt.contains {
				assert.Contains(t, reply, c)
			}
		})
	}
}

func TestFactsCommand_Empty(t *testing.T) {
	reply, err := NewFactsCommand(staticFacts(nil)).Execute(context.Background(), "s1", nil)
	require.NoError(t, err)
	assert.Contains(t, reply, "Nothing taught yet.")
}

func TestFactsCommand_ShowsMostRecent(t *testing.T) {
	var facts staticFacts
	for i := range maxListedFacts + 5 {
		facts = append(facts, core.Fact{Question: "q" + strings.Repeat("x", i), Answer: "a"})
	}

	reply, err := NewFactsCommand(facts).Execute(context.Background(), "s1", nil)
	require.NoError(t, err)
	assert.Contains(t, reply, "`25`")
	assert.NotContains(t, reply, "**q** ->")
	assert.Equal(t, maxListedFacts, strings.Count(reply, "\n› "))
}

func TestRouter_ListCommandsSorted(t *testing.T) {
	names := []string{}
	for _, c := range newTestRouter(nil).ListCommands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"boom", "facts", "status"}, names)
}
