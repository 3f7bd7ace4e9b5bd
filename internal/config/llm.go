package config

import (
	"context"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/parley/pkg/log"
)

const (
	ProviderAuto       = "auto"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOllama     = "ollama"
	ProviderOpenRouter = "openrouter"
	ProviderCustom     = "custom"
	// ProviderBrain disables language models entirely.
	ProviderBrain = "brain"
)

type LLMConfig struct {
	Provider string `env:"AI_PROVIDER" envDefault:"auto"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-haiku-20240307"`

	OllamaBaseURL string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel   string `env:"OLLAMA_MODEL" envDefault:"llama3.2"`

	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OpenRouterModel  string `env:"OPENROUTER_MODEL" envDefault:"google/gemma-3-27b-it:free"`

	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`
	CustomOpenAIModel   string `env:"CUSTOM_OPENAI_MODEL"`

	MaxTokens     int `env:"LLM_MAX_TOKENS" envDefault:"1024"`
	ContextTokens int `env:"LLM_CONTEXT_TOKENS" envDefault:"4096"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

func (c LLMConfig) GetProvider() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return ProviderAuto
	}
	return p
}

func (c LLMConfig) GetOpenAIAPIKey() string        { return c.OpenAIAPIKey }
func (c LLMConfig) GetOpenAIModel() string         { return c.OpenAIModel }
func (c LLMConfig) GetAnthropicAPIKey() string     { return c.AnthropicAPIKey }
func (c LLMConfig) GetAnthropicModel() string      { return c.AnthropicModel }
func (c LLMConfig) GetOllamaBaseURL() string       { return strings.TrimRight(c.OllamaBaseURL, "/") }
func (c LLMConfig) GetOllamaModel() string         { return c.OllamaModel }
func (c LLMConfig) GetOpenRouterAPIKey() string    { return c.OpenRouterAPIKey }
func (c LLMConfig) GetOpenRouterModel() string     { return c.OpenRouterModel }
func (c LLMConfig) GetCustomOpenAIBaseURL() string { return c.CustomOpenAIBaseURL }
func (c LLMConfig) GetCustomOpenAIAPIKey() string  { return c.CustomOpenAIAPIKey }
func (c LLMConfig) GetCustomOpenAIModel() string   { return c.CustomOpenAIModel }
func (c LLMConfig) GetMaxTokens() int              { return c.MaxTokens }
func (c LLMConfig) GetContextTokens() int          { return c.ContextTokens }
