package core

import "context"

// ChatService answers one user turn.
type ChatService interface {
	// Run uses and extends the stored history of sessionID.
	Run(ctx context.Context, sessionID, input string) string
	// Reply uses caller-supplied history and stores nothing.
	Reply(ctx context.Context, input string, history []Message) string
}
