package llm

import (
	"context"
	"time"

	"github.com/sandevgo/parley/internal/core"
)

const ollamaTimeout = 15 * time.Second

// Ollama talks to the native /api/chat endpoint with streaming disabled.
type Ollama struct {
	baseProvider
}

func NewOllama(baseURL, model string, opts ...Option) *Ollama {
	opts = append([]Option{WithTimeout(ollamaTimeout)}, opts...)
	return &Ollama{
		baseProvider: newBaseProvider("ollama", baseURL, "", model, opts...),
	}
}

func (o *Ollama) Chat(ctx context.Context, history []core.Message) (core.Message, error) {
	payload := map[string]any{
		"model":    o.model,
		"messages": history,
		"stream":   false,
		"options": map[string]any{
			"num_predict": o.maxTokens,
		},
	}
	if o.temperature != nil {
		payload["options"].(map[string]any)["temperature"] = *o.temperature
	}

	var result struct {
		Message core.Message `json:"message"`
	}
	if err := o.postJSON(ctx, "/api/chat", payload, nil, &result); err != nil {
		return core.Message{}, err
	}
	return core.Message{Role: core.RoleAssistant, Content: result.Message.Content}, nil
}
