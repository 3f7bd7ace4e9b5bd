package core

import (
	"strings"
	"time"
)

const (
	ParleyName          = "Parley"
	ParleyUserAgent     = "Parley/0.1 (+https://github.com/sandevgo/parley)"
	ParleyRepositoryURL = "https://github.com/sandevgo/parley"
	ParleyVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// NormalizeRole maps wire aliases onto the canonical roles.
// "ai" and "bot" are accepted for assistant turns.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "assistant", "ai", "bot":
		return RoleAssistant
	case "system":
		return RoleSystem
	default:
		return RoleUser
	}
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LastAssistant returns the content of the most recent assistant turn.
func LastAssistant(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if NormalizeRole(history[i].Role) == RoleAssistant {
			return history[i].Content
		}
	}
	return ""
}

// Fact is a question/answer pair taught at runtime.
type Fact struct {
	ID        int64     `json:"id,omitempty"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}
