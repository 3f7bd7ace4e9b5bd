package command

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sandevgo/parley/internal/core"
)

type Router struct {
	commands  map[string]core.Command
	formatter *ResponseFormatter
}

var _ core.CommandRouter = (*Router)(nil)

func New(commands []core.Command) *Router {
	c := &Router{
		commands:  make(map[string]core.Command),
		formatter: NewResponseFormatter(),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	return c
}

// Execute runs input as a slash command. The bool is false when input is
// not a command and should go to the brain.
func (c *Router) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	// Bare "/" or a path like "/usr/bin" is ordinary text.
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}

	if name == "help" || name == "start" {
		return c.help(), true
	}

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s. Try /help.", name), true
	}

	result, err := cmd.Execute(ctx, sessionID, args)
	if err != nil {
		return c.formatter.Error(name, err), true
	}
	return result, true
}

// ListCommands returns the commands sorted by name.
func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	slices.SortFunc(res, func(a, b core.Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return res
}

func (c *Router) help() string {
	items := []string{"`/help` Show this message"}
	for _, cmd := range c.ListCommands() {
		items = append(items, fmt.Sprintf("`/%s` %s", cmd.Name(), cmd.Description()))
	}

	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
		c.formatter.Tip("Teach me with `teach: question -> answer`. Ask anything else in plain words."),
	)
}
