package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxTokens = 1024
	maxErrorBody     = 512
)

type baseProvider struct {
	client      *http.Client
	name        string
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature *float64
}

// Option tunes a provider after construction.
type Option func(*baseProvider)

func WithBaseURL(url string) Option {
	return func(b *baseProvider) { b.baseURL = url }
}

func WithTimeout(d time.Duration) Option {
	return func(b *baseProvider) { b.client.Timeout = d }
}

func WithMaxTokens(n int) Option {
	return func(b *baseProvider) {
		if n > 0 {
			b.maxTokens = n
		}
	}
}

func WithTemperature(t float64) Option {
	return func(b *baseProvider) { b.temperature = &t }
}

func newBaseProvider(name, baseURL, apiKey, model string, opts ...Option) baseProvider {
	b := baseProvider{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		name:      name,
		baseURL:   baseURL,
		apiKey:    apiKey,
		model:     model,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *baseProvider) Name() string {
	return b.name
}

func (b *baseProvider) doRequest(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	return resp, nil
}

// postJSON sends payload and decodes a 200 response into out.
func (b *baseProvider) postJSON(ctx context.Context, path string, payload any, headers map[string]string, out any) error {
	resp, err := b.doRequest(ctx, http.MethodPost, path, payload, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d: %s", resp.StatusCode, truncate(string(data), maxErrorBody))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
