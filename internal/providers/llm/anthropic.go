package llm

import (
	"context"
	"strings"

	"github.com/sandevgo/parley/internal/core"
)

type Anthropic struct {
	baseProvider
}

func NewAnthropic(apiKey, model string, opts ...Option) *Anthropic {
	return &Anthropic{
		baseProvider: newBaseProvider("anthropic", "https://api.anthropic.com", apiKey, model, opts...),
	}
}

func (a *Anthropic) Chat(ctx context.Context, history []core.Message) (core.Message, error) {
	var (
		system   []string
		messages []core.Message
	)
	for _, m := range history {
		if m.Role == core.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		messages = append(messages, m)
	}

	payload := map[string]any{
		"model":      a.model,
		"max_tokens": a.maxTokens,
		"messages":   messages,
	}
	if len(system) > 0 {
		payload["system"] = strings.Join(system, "\n\n")
	}
	if a.temperature != nil {
		payload["temperature"] = *a.temperature
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": "2023-06-01",
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := a.postJSON(ctx, "/v1/messages", payload, headers, &result); err != nil {
		return core.Message{}, err
	}

	var text string
	for _, c := range result.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}
	return core.Message{Role: core.RoleAssistant, Content: text}, nil
}
