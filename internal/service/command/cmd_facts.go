package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sandevgo/parley/internal/core"
)

const maxListedFacts = 20

type FactLister interface {
	Facts(ctx context.Context) []core.Fact
}

type FactsCommand struct {
	facts     FactLister
	formatter *ResponseFormatter
}

func NewFactsCommand(facts FactLister) *FactsCommand {
	return &FactsCommand{
		facts:     facts,
		formatter: NewResponseFormatter(),
	}
}

func (c *FactsCommand) Name() string {
	return "facts"
}

func (c *FactsCommand) Description() string {
	return "List taught facts"
}

func (c *FactsCommand) Execute(ctx context.Context, _ string, _ []string) (string, error) {
	facts := c.facts.Facts(ctx)
	if len(facts) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Taught Facts"),
			c.formatter.Label("Status", "Nothing taught yet."),
			c.formatter.Usage("teach: question -> answer"),
		), nil
	}

	shown := facts
	if len(shown) > maxListedFacts {
		shown = shown[len(shown)-maxListedFacts:]
	}
	items := make([]string, len(shown))
	for i, f := range shown {
		items[i] = fmt.Sprintf("**%s** -> %s", f.Question, f.Answer)
	}

	return c.formatter.Combine(
		c.formatter.Info("Taught Facts"),
		c.formatter.Label("Total", strconv.Itoa(len(facts))),
		"\n",
		c.formatter.List(items),
	), nil
}
