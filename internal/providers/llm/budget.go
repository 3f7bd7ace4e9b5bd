package llm

import (
	"context"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/parley/internal/core"
)

// perMessageOverhead approximates the role and separator tokens the chat
// formats add around every message.
const perMessageOverhead = 4

type tokenCounter func(string) int

// tokenizer loads a BPE encoding in the background. Counting never waits
// for the load: until the encoding is ready, tokens are estimated from the
// rune count.
type tokenizer struct {
	load func() (*tiktoken.Tiktoken, error)

	once  sync.Once
	done  chan struct{}
	err   error
	ready atomic.Pointer[tiktoken.Tiktoken]
}

func newTokenizer(load func() (*tiktoken.Tiktoken, error)) *tokenizer {
	return &tokenizer{load: load, done: make(chan struct{})}
}

// cl100k_base is fetched over HTTP unless TIKTOKEN_CACHE_DIR holds a copy.
var defaultTokenizer = newTokenizer(func() (*tiktoken.Tiktoken, error) {
	return tiktoken.GetEncoding("cl100k_base")
})

func (t *tokenizer) start() {
	t.once.Do(func() {
		go func() {
			defer close(t.done)
			enc, err := t.load()
			if err != nil {
				t.err = err
				return
			}
			t.ready.Store(enc)
		}()
	})
}

// wait starts the load if needed and blocks until it finishes or ctx is done.
// A cancelled wait leaves the load running.
func (t *tokenizer) wait(ctx context.Context) error {
	t.start()
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *tokenizer) count(text string) int {
	if text == "" {
		return 0
	}
	if enc := t.ready.Load(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	t.start()
	return (utf8.RuneCountInString(text) + 3) / 4
}

// LoadTokenizer warms the shared encoding used for prompt budgeting.
// Callers that give up early still get estimated counts.
func LoadTokenizer(ctx context.Context) error {
	return defaultTokenizer.wait(ctx)
}

// tokenBudget keeps a prompt under a token limit by dropping the oldest
// turns. The final message, the current utterance, is always kept.
type tokenBudget struct {
	limit int
	count tokenCounter
}

func newTokenBudget(limit int, tok *tokenizer) *tokenBudget {
	return &tokenBudget{limit: limit, count: tok.count}
}

func (b *tokenBudget) trim(messages []core.Message) []core.Message {
	if b == nil || b.limit <= 0 || len(messages) == 0 {
		return messages
	}

	sizes := make([]int, len(messages))
	total := 0
	for i, m := range messages {
		sizes[i] = b.count(m.Content) + perMessageOverhead
		total += sizes[i]
	}

	start := 0
	for total > b.limit && start < len(messages)-1 {
		total -= sizes[start]
		start++
	}
	return messages[start:]
}
