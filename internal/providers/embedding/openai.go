package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// OpenAI encodes text with the /v1/embeddings endpoint.
type OpenAI struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func NewOpenAI(baseURL, apiKey, model string) *OpenAI {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &OpenAI{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

func (o *OpenAI) Encode(ctx context.Context, text string) ([]float32, error) {
	req := struct {
		Model string `json:"model"`
		Input string `json:"input"`
	}{Model: o.model, Input: text}

	var resp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	headers := map[string]string{"Authorization": "Bearer " + o.apiKey}
	if err := postJSON(ctx, o.client, o.baseURL+"/v1/embeddings", headers, req, &resp); err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai embedding: empty vector")
	}
	return resp.Data[0].Embedding, nil
}

func (o *OpenAI) Name() string {
	return "openai:" + o.model
}
