package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/parley/internal/core"
)

type OpenAICompatible struct {
	baseProvider
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string
}

type OpenAICompatibleConfig struct {
	Name         string
	BaseURL      string
	APIKey       string
	Model        string
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	ExtraHeaders map[string]string
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig, opts ...Option) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.Name, cfg.BaseURL, cfg.APIKey, cfg.Model, opts...),
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		extraHeaders: cfg.ExtraHeaders,
	}
}

func (o *OpenAICompatible) Chat(ctx context.Context, history []core.Message) (core.Message, error) {
	payload := map[string]any{
		"model":      o.model,
		"messages":   history,
		"max_tokens": o.maxTokens,
	}
	if o.temperature != nil {
		payload["temperature"] = *o.temperature
	}

	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}

	var result struct {
		Choices []struct {
			Message core.Message `json:"message"`
		} `json:"choices"`
	}
	if err := o.postJSON(ctx, "/v1/chat/completions", payload, headers, &result); err != nil {
		return core.Message{}, err
	}
	if len(result.Choices) == 0 {
		return core.Message{}, fmt.Errorf("empty choices")
	}
	msg := result.Choices[0].Message
	msg.Role = core.RoleAssistant
	return msg, nil
}
