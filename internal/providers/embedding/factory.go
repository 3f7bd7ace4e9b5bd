package embedding

import (
	"context"
	"fmt"

	"github.com/sandevgo/parley/internal/config"
	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
)

// NewEmbedder returns the configured embedder. When semantic matching is
// disabled it returns core.ErrEmbedderUnavailable.
func NewEmbedder(ctx context.Context, cfg core.EmbeddingConfig) (core.Embedder, error) {
	logger := log.FromCtx(ctx)

	switch p := cfg.GetEmbeddingProvider(); p {
	case config.EmbeddingNone:
		logger.Info().Msg("embeddings disabled, taught facts use lexical matching")
		return nil, core.ErrEmbedderUnavailable
	case config.EmbeddingOllama:
		e := NewOllama(cfg.GetEmbeddingBaseURL(), cfg.GetEmbeddingModel())
		logger.Info().Str("embedder", e.Name()).Msg("starting embedder")
		return e, nil
	case config.EmbeddingOpenAI:
		if cfg.GetEmbeddingAPIKey() == "" {
			return nil, fmt.Errorf("openai embeddings require PARLEY_EMBEDDING_API_KEY")
		}
		e := NewOpenAI(cfg.GetEmbeddingBaseURL(), cfg.GetEmbeddingAPIKey(), cfg.GetEmbeddingModel())
		logger.Info().Str("embedder", e.Name()).Msg("starting embedder")
		return e, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", p)
	}
}
