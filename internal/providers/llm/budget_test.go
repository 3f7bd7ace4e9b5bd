package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/parley/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stalledTokenizer(t *testing.T, loadErr error) (*tokenizer, chan struct{}) {
	t.Helper()
	release := make(chan struct{})
	tok := newTokenizer(func() (*tiktoken.Tiktoken, error) {
		<-release
		return nil, loadErr
	})
	return tok, release
}

func TestTokenizer_CountEstimatesWhileLoading(t *testing.T) {
	tok, release := stalledTokenizer(t, errors.New("offline"))
	defer close(release)

	start := time.Now()
	assert.Equal(t, 0, tok.count(""))
	assert.Equal(t, 5, tok.count("what is the weather"))
	assert.Less(t, time.Since(start), time.Second)
}

func TestTokenizer_WaitHonoursContext(t *testing.T) {
	tok, release := stalledTokenizer(t, errors.New("offline"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tok.wait(ctx), context.DeadlineExceeded)

	close(release)
	err := tok.wait(context.Background())
	require.Error(t, err)
	assert.EqualError(t, err, "offline")
	assert.Equal(t, 3, tok.count("good morning"), "failed load keeps estimating")
}

func TestFallback_RespondDoesNotWaitForTokenizer(t *testing.T) {
	tok, release := stalledTokenizer(t, errors.New("offline"))
	defer close(release)

	m := &fakeModel{name: "ollama", reply: "Hi there."}
	f := &Fallback{models: []core.LanguageModel{m}, budget: newTokenBudget(4096, tok)}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	reply, err := f.Respond(ctx, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "Hi there.", reply)
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}
