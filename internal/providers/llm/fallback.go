package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
)

var (
	// ErrAllFailed is returned when every provider in the chain failed.
	ErrAllFailed = errors.New("llm: all providers failed")
	// ErrEmptyReply marks a provider that answered with blank content.
	ErrEmptyReply = errors.New("llm: empty reply")
)

// Fallback implements core.Responder over a ranked provider list. The
// first provider returning a non-blank reply wins; failures are logged
// and the next provider is tried.
type Fallback struct {
	models []core.LanguageModel
	budget *tokenBudget
}

var _ core.Responder = (*Fallback)(nil)

// NewFallback builds a responder. contextTokens bounds the prompt size;
// zero disables trimming.
func NewFallback(models []core.LanguageModel, contextTokens int) *Fallback {
	return &Fallback{
		models: models,
		budget: newTokenBudget(contextTokens, defaultTokenizer),
	}
}

// Names lists the providers in the order they are tried.
func (f *Fallback) Names() []string {
	names := make([]string, 0, len(f.models))
	for _, m := range f.models {
		names = append(names, m.Name())
	}
	return names
}

func (f *Fallback) Respond(ctx context.Context, text string, history []core.Message) (string, error) {
	if len(f.models) == 0 {
		return "", nil
	}
	logger := log.FromCtx(ctx)
	messages := f.budget.trim(BuildMessages(history, text))

	var errs []error
	for _, m := range f.models {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		reply, err := m.Chat(ctx, messages)
		if err != nil {
			logger.Warn().Err(err).Str("provider", m.Name()).Msg("llm provider failed, trying next")
			errs = append(errs, fmt.Errorf("%s: %w", m.Name(), err))
			continue
		}

		content := strings.TrimSpace(reply.Content)
		if content == "" {
			errs = append(errs, fmt.Errorf("%s: %w", m.Name(), ErrEmptyReply))
			continue
		}
		logger.Debug().Str("provider", m.Name()).Msg("llm provider answered")
		return content, nil
	}
	return "", fmt.Errorf("%w: %w", ErrAllFailed, errors.Join(errs...))
}

// BuildMessages converts history into provider messages. Only user and
// assistant turns with content are kept ("ai" counts as assistant), and
// the current utterance is appended as the final user turn.
func BuildMessages(history []core.Message, current string) []core.Message {
	out := make([]core.Message, 0, len(history)+1)
	for _, h := range history {
		role := strings.ToLower(strings.TrimSpace(h.Role))
		if role == "ai" {
			role = core.RoleAssistant
		}
		if role != core.RoleUser && role != core.RoleAssistant {
			continue
		}
		content := strings.TrimSpace(h.Content)
		if content == "" {
			continue
		}
		out = append(out, core.Message{Role: role, Content: content})
	}
	return append(out, core.Message{Role: core.RoleUser, Content: current})
}
