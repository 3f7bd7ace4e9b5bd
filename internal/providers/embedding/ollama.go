package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Ollama encodes text with a local Ollama embedding model.
type Ollama struct {
	client   *http.Client
	endpoint string
	model    string
}

func NewOllama(endpoint, model string) *Ollama {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &Ollama{
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: endpoint,
		model:    model,
	}
}

func (o *Ollama) Encode(ctx context.Context, text string) ([]float32, error) {
	req := struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
	}{Model: o.model, Prompt: text}

	var resp struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := postJSON(ctx, o.client, o.endpoint+"/api/embeddings", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("ollama embedding: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("ollama embedding: empty vector")
	}
	return resp.Embedding, nil
}

func (o *Ollama) Name() string {
	return "ollama:" + o.model
}
