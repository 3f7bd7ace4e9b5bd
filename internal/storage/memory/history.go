package memory

import (
	"context"
	"sync"

	"github.com/sandevgo/parley/internal/core"
)

// History keeps conversation turns per session for the lifetime of the process.
type History struct {
	mu       sync.RWMutex
	sessions map[string][]core.Message
	maxTurns int
}

var _ core.MessagesRepository = (*History)(nil)

// NewHistory bounds each session to maxTurns messages; 0 means unbounded.
func NewHistory(maxTurns int) *History {
	return &History{
		sessions: make(map[string][]core.Message),
		maxTurns: maxTurns,
	}
}

func (h *History) AddMessage(_ context.Context, sessionID string, msg core.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg.Role = core.NormalizeRole(msg.Role)
	turns := append(h.sessions[sessionID], msg)
	if h.maxTurns > 0 && len(turns) > h.maxTurns {
		turns = turns[len(turns)-h.maxTurns:]
	}
	h.sessions[sessionID] = turns
	return nil
}

func (h *History) GetMessages(_ context.Context, sessionID string, limit int) ([]core.Message, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	turns := h.sessions[sessionID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	if len(turns) == 0 {
		return nil, nil
	}
	out := make([]core.Message, len(turns))
	copy(out, turns)
	return out, nil
}
