package chat

import (
	"context"
	"strings"

	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
)

// MaxClientHistory bounds history supplied by stateless callers.
const MaxClientHistory = 10

const (
	emptyMessageReply = "Please type something."
	noResponseReply   = "No response."
)

type Brain interface {
	Think(ctx context.Context, text string, history []core.Message) string
}

// Service routes one user turn through slash commands and the brain, keeping
// per-session history.
type Service struct {
	brain        Brain
	repo         core.MessagesRepository
	router       core.CommandRouter
	historyLimit int
}

var _ core.ChatService = (*Service)(nil)

func NewService(brain Brain, repo core.MessagesRepository, router core.CommandRouter, historyLimit int) *Service {
	if historyLimit <= 0 {
		historyLimit = MaxClientHistory
	}
	return &Service{
		brain:        brain,
		repo:         repo,
		router:       router,
		historyLimit: historyLimit,
	}
}

// Run answers input using the stored history of sessionID and records both turns.
// Command replies are not recorded.
func (s *Service) Run(ctx context.Context, sessionID, input string) string {
	logger := log.FromCtx(ctx).With().Str("session", sessionID).Logger()

	input = strings.TrimSpace(input)
	if input == "" {
		return emptyMessageReply
	}
	if reply, ok := s.command(ctx, sessionID, input); ok {
		return reply
	}

	var history []core.Message
	if s.repo != nil {
		h, err := s.repo.GetMessages(ctx, sessionID, s.historyLimit)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to load history, continuing without it")
		}
		history = h
	}

	reply := s.think(ctx, input, history)

	if s.repo != nil {
		if err := s.repo.AddMessage(ctx, sessionID, core.Message{Role: core.RoleUser, Content: input}); err != nil {
			logger.Error().Err(err).Msg("failed to save user message")
		}
		if err := s.repo.AddMessage(ctx, sessionID, core.Message{Role: core.RoleAssistant, Content: reply}); err != nil {
			logger.Error().Err(err).Msg("failed to save assistant message")
		}
	}
	return reply
}

// Reply answers input with caller-supplied history and stores nothing.
func (s *Service) Reply(ctx context.Context, input string, history []core.Message) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return emptyMessageReply
	}
	if reply, ok := s.command(ctx, "", input); ok {
		return reply
	}

	if len(history) > MaxClientHistory {
		history = history[len(history)-MaxClientHistory:]
	}
	return s.think(ctx, input, history)
}

func (s *Service) command(ctx context.Context, sessionID, input string) (string, bool) {
	if s.router == nil {
		return "", false
	}
	return s.router.Execute(ctx, sessionID, input)
}

func (s *Service) think(ctx context.Context, input string, history []core.Message) string {
	reply := s.brain.Think(ctx, input, history)
	if strings.TrimSpace(reply) == "" {
		return noResponseReply
	}
	return reply
}
