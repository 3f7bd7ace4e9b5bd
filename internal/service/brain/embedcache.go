package brain

import (
	"context"
	"fmt"
	"sync"

	"github.com/sandevgo/parley/internal/core"
)

// embeddingCache holds one vector per taught question. A snapshot is only
// valid while its length equals the current number of facts; facts are
// append-only, so a stale snapshot always has fewer rows.
type embeddingCache struct {
	mu      sync.RWMutex
	vectors [][]float32
}

func (c *embeddingCache) invalidate() {
	c.mu.Lock()
	c.vectors = nil
	c.mu.Unlock()
}

func (c *embeddingCache) lookup(n int) ([][]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vectors == nil || len(c.vectors) != n {
		return nil, false
	}
	return c.vectors, true
}

// vectorsFor returns the cached vectors for facts, encoding every question
// when the cache does not cover the current list. Concurrent callers may
// both encode; the results are identical so the last store wins.
func (c *embeddingCache) vectorsFor(ctx context.Context, enc core.Embedder, facts []core.Fact) ([][]float32, error) {
	if v, ok := c.lookup(len(facts)); ok {
		return v, nil
	}

	vectors := make([][]float32, len(facts))
	for i, f := range facts {
		v, err := enc.Encode(ctx, f.Question)
		if err != nil {
			return nil, fmt.Errorf("failed to encode fact %d: %w", i, err)
		}
		vectors[i] = v
	}

	c.mu.Lock()
	c.vectors = vectors
	c.mu.Unlock()
	return vectors, nil
}
