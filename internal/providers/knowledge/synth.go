package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
)

const synthesisPrompt = `You are General. Answer only from the context. Rules:
- Be very concise: 1 to 3 short sentences. No intros, no filler.
- If the question asks for a definition, fact, date, or number: give it directly.
- If the context doesn't contain enough: say "Not in the context" or what's missing.
- No speculation. Never write "According to..." or "The context suggests...". Just answer.`

// synthesize asks the model for a short answer grounded in the gathered context.
// It returns "" when no model is configured or the call fails.
func (s *Service) synthesize(ctx context.Context, sourcesContext, question string) string {
	if s.synth == nil {
		return ""
	}

	msgs := []core.Message{
		{Role: core.RoleSystem, Content: synthesisPrompt},
		{Role: core.RoleUser, Content: fmt.Sprintf("Context:\n%s\n\nQ: %s", sourcesContext, question)},
	}
	reply, err := s.synth.Chat(ctx, msgs)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("model", s.synth.Name()).Msg("knowledge synthesis failed")
		return ""
	}
	return strings.TrimSpace(reply.Content)
}
