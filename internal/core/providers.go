package core

import (
	"context"
	"errors"
)

// ErrEmbedderUnavailable reports that no embedding model is configured,
// as opposed to a configured model failing to encode.
var ErrEmbedderUnavailable = errors.New("embedder unavailable")

// LanguageModel is a single chat completion backend.
type LanguageModel interface {
	Name() string
	Chat(ctx context.Context, history []Message) (Message, error)
}

// Responder produces a free-form reply for the utterance, or "" when no
// backend could answer.
type Responder interface {
	Respond(ctx context.Context, text string, history []Message) (string, error)
}

// Knowledge answers factual questions from external sources, or "" when
// there is nothing to say.
type Knowledge interface {
	Query(ctx context.Context, text string) (string, error)
}

type Embedder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
}
