package core

import "context"

type MessagesRepository interface {
	AddMessage(ctx context.Context, sessionID string, msg Message) error
	GetMessages(ctx context.Context, sessionID string, limit int) ([]Message, error)
}

type FactRepository interface {
	LoadFacts(ctx context.Context) ([]Fact, error)
	AppendFact(ctx context.Context, fact Fact) error
}
