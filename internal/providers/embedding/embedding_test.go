package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandevgo/parley/internal/config"
	"github.com/sandevgo/parley/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllama_Encode(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		want        []float32
		wantErr     bool
		errContains string
	}{
		{
			name:   "returns vector",
			status: http.StatusOK,
			body:   `{"embedding":[0.1,0.2,0.3]}`,
			want:   []float32{0.1, 0.2, 0.3},
		},
		{
			name:        "empty vector is an error",
			status:      http.StatusOK,
			body:        `{"embedding":[]}`,
			wantErr:     true,
			errContains: "empty vector",
		},
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			body:        `model not found`,
			wantErr:     true,
			errContains: "http 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/embeddings", r.URL.Path)
				var req map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "nomic-embed-text", req["model"])
				assert.Equal(t, "hello", req["prompt"])
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			got, err := NewOllama(server.URL, "").Encode(context.Background(), "hello")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenAI_Encode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[{"embedding":[1,0]}]}`))
	}))
	defer server.Close()

	got, err := NewOpenAI(server.URL, "sk", "").Encode(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, got)
}

func TestNewEmbedder(t *testing.T) {
	ctx := context.Background()

	e, err := NewEmbedder(ctx, config.EmbeddingConfig{Provider: "none"})
	assert.ErrorIs(t, err, core.ErrEmbedderUnavailable)
	assert.Nil(t, e)

	e, err = NewEmbedder(ctx, config.EmbeddingConfig{Provider: "ollama"})
	require.NoError(t, err)
	assert.IsType(t, &Ollama{}, e)

	_, err = NewEmbedder(ctx, config.EmbeddingConfig{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewEmbedder(ctx, config.EmbeddingConfig{Provider: "word2vec"})
	assert.Error(t, err)
}
