package command

import (
	"github.com/sandevgo/parley/internal/core"
)

// NewCommands builds the slash commands. /help is added by the router itself.
func NewCommands(facts FactLister, status core.StatusReporter) []core.Command {
	return []core.Command{
		NewFactsCommand(facts),
		NewStatusCommand(status),
	}
}
