package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/retry"
)

const (
	maxResponseSize = 1 << 20 // 1MB limit
	defaultTimeout  = 8 * time.Second
)

// ErrNotFound is returned for 404 responses, which dictionaries use for unknown words.
var ErrNotFound = errors.New("not found")

type client struct {
	http    *http.Client
	retrier *retry.Retrier
}

func newClient(httpClient *http.Client, retryCfg *retry.Config) *client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if retryCfg == nil {
		retryCfg = retry.NewQuickConfig()
	}
	return &client{
		http:    httpClient,
		retrier: retry.NewRetrier(retryCfg),
	}
}

func (c *client) getJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	return c.do(ctx, http.MethodGet, url, headers, nil, out)
}

func (c *client) postJSON(ctx context.Context, url string, headers map[string]string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, headers, data, out)
}

func (c *client) do(ctx context.Context, method, url string, headers map[string]string, body []byte, out any) error {
	return c.retrier.Do(ctx, func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", core.ParleyUserAgent)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(ctx.Err())
			}
			return fmt.Errorf("failed to fetch: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return retry.Permanent(ErrNotFound)
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		case resp.StatusCode >= 400:
			return retry.Permanent(fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status))
		}

		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
			return retry.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	})
}
