package core

import "context"

// CommandRouter handles slash commands ahead of the brain. Execute reports
// false when input is not a command.
type CommandRouter interface {
	Execute(ctx context.Context, sessionID, input string) (string, bool)
	ListCommands() []Command
}

// Command is a single slash command; args exclude the command name.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}
