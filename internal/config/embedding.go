package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/parley/pkg/log"
)

const (
	EmbeddingNone   = "none"
	EmbeddingOllama = "ollama"
	EmbeddingOpenAI = "openai"
)

type EmbeddingConfig struct {
	Provider string `env:"PARLEY_EMBEDDING_PROVIDER" envDefault:"none"`
	Model    string `env:"PARLEY_EMBEDDING_MODEL"`
	BaseURL  string `env:"PARLEY_EMBEDDING_URL"`
	APIKey   string `env:"PARLEY_EMBEDDING_API_KEY"`
}

func NewEmbeddingConfig(ctx context.Context) *EmbeddingConfig {
	cfg := &EmbeddingConfig{}
	if err := env.Parse(cfg); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse embedding config")
	}
	return cfg
}

func (c EmbeddingConfig) GetEmbeddingProvider() string {
	if c.Provider == "" {
		return EmbeddingNone
	}
	return c.Provider
}

func (c EmbeddingConfig) GetEmbeddingModel() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case EmbeddingOllama:
		return "nomic-embed-text"
	case EmbeddingOpenAI:
		return "text-embedding-3-small"
	}
	return ""
}

func (c EmbeddingConfig) GetEmbeddingBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	switch c.Provider {
	case EmbeddingOllama:
		return "http://localhost:11434"
	case EmbeddingOpenAI:
		return "https://api.openai.com"
	}
	return ""
}

func (c EmbeddingConfig) GetEmbeddingAPIKey() string {
	return c.APIKey
}
