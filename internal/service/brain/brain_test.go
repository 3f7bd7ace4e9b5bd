package brain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandevgo/parley/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFacts struct {
	mu        sync.Mutex
	facts     []core.Fact
	appendErr error
	loadErr   error
}

func (m *memFacts) LoadFacts(ctx context.Context) ([]core.Fact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]core.Fact(nil), m.facts...), nil
}

func (m *memFacts) AppendFact(ctx context.Context, fact core.Fact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.facts = append(m.facts, fact)
	return nil
}

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   atomic.Int32
}

func (f *fakeEmbedder) Encode(ctx context.Context, text string) ([]float32, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0}, nil
}

type stubKnowledge struct {
	reply string
	err   error
	block bool
	stall chan struct{}
	calls atomic.Int32
}

func (s *stubKnowledge) Query(ctx context.Context, text string) (string, error) {
	s.calls.Add(1)
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if s.stall != nil {
		<-s.stall
	}
	return s.reply, s.err
}

type stubResponder struct {
	reply   string
	err     error
	panics  bool
	history []core.Message
}

func (s *stubResponder) Respond(ctx context.Context, text string, history []core.Message) (string, error) {
	if s.panics {
		panic("provider exploded")
	}
	s.history = history
	return s.reply, s.err
}

func newTestBrain(repo core.FactRepository, opts ...Option) *Brain {
	base := []Option{WithPicker(firstPick), WithClock(fixedClock)}
	return New(repo, append(base, opts...)...)
}

func TestThink_EndToEnd(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		history []core.Message
		want    string
	}{
		{name: "empty input", input: "   ", want: emptyInputReply},
		{name: "farewell", input: "bye", want: "Goodbye! Take care."},
		{name: "greeting", input: "Hello!", want: "Hello! How can I help you today?"},
		{name: "gibberish falls back to default pool", input: "xyzzy plugh", want: "I'm not sure how to answer that. Try rephrasing, or teach me: teach: your question -> the answer"},
		{name: "arithmetic", input: "what is (2+3)*4", want: "20"},
		{name: "time", input: "what time is it?", want: "The current time is 02:07 PM."},
		{name: "date", input: "what is the date today", want: "Today is Tuesday, March 05, 2024."},
		{
			name:    "follow-up with ai role alias",
			input:   "good",
			history: []core.Message{{Role: "user", Content: "how are you"}, {Role: "ai", Content: "I'm doing well, thanks for asking. How about you?"}},
			want:    "That's good to hear!",
		},
	}

	b := newTestBrain(&memFacts{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Think(context.Background(), tt.input, tt.history))
		})
	}
}

func TestThink_BlankAssistantTurnEndsFollowUp(t *testing.T) {
	history := []core.Message{
		{Role: "user", Content: "how are you"},
		{Role: "ai", Content: "I'm doing well, thanks for asking. How about you?"},
		{Role: "user", Content: "hm"},
		{Role: "ai", Content: ""},
	}
	b := newTestBrain(&memFacts{})
	assert.NotEqual(t, "That's good to hear!", b.Think(context.Background(), "good", history))
}

func TestThink_BareTimeKeywordIsNotATimeQuestion(t *testing.T) {
	b := newTestBrain(&memFacts{})
	assert.NotContains(t, b.Think(context.Background(), "time", nil), "The current time")
}

func TestThink_TeachRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := &memFacts{}
	b := newTestBrain(repo)

	got := b.Think(ctx, "teach: capital of France -> Paris", nil)
	assert.Equal(t, `Got it. I'll remember: "capital of France" -> "Paris"`, got)
	require.Len(t, repo.facts, 1)
	assert.False(t, repo.facts[0].CreatedAt.IsZero())

	assert.Equal(t, "Paris", b.Think(ctx, "What is the capital of France?", nil))
}

func TestThink_NumericAnswerGuard(t *testing.T) {
	ctx := context.Background()
	repo := &memFacts{facts: []core.Fact{
		{Question: "what is 2+2", Answer: "4"},
		{Question: "how many legs does a spider have", Answer: "8"},
	}}
	b := newTestBrain(repo)

	assert.NotEqual(t, "4", b.Think(ctx, "what is water", nil))
	assert.Equal(t, "8", b.Think(ctx, "how many legs does a spider have", nil))
}

func TestThink_PersistenceFailureKeepsSessionFact(t *testing.T) {
	ctx := context.Background()
	repo := &memFacts{appendErr: errors.New("read-only filesystem")}
	b := newTestBrain(repo)

	assert.Equal(t, teachSessionReply, b.Think(ctx, "teach: favourite colour -> green", nil))
	assert.Equal(t, "green", b.Think(ctx, "favourite colour", nil))
	assert.Len(t, b.Facts(ctx), 1)
}

func TestThink_NilRepository(t *testing.T) {
	b := newTestBrain(nil)
	assert.Equal(t, teachSessionReply, b.Think(context.Background(), "learn: ping -> pong", nil))
	assert.Equal(t, "pong", b.Think(context.Background(), "ping", nil))
}

func TestThink_EmbeddingCache(t *testing.T) {
	ctx := context.Background()
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"feline pet": {1, 0},
		"kitty":      {1, 0},
		"loyal pet":  {0, 1},
		"puppy":      {0, 1},
	}}
	b := newTestBrain(&memFacts{}, WithEmbedder(emb))

	b.Think(ctx, "teach: feline pet -> cat", nil)
	assert.Equal(t, "cat", b.Think(ctx, "kitty", nil))
	assert.EqualValues(t, 2, emb.calls.Load(), "one fact plus the query")

	assert.Equal(t, "cat", b.Think(ctx, "kitty", nil))
	assert.EqualValues(t, 3, emb.calls.Load(), "valid cache must not re-encode facts")

	b.Think(ctx, "teach: loyal pet -> dog", nil)
	assert.Equal(t, "dog", b.Think(ctx, "puppy", nil))
	assert.EqualValues(t, 6, emb.calls.Load(), "teach invalidates the cache")
}

func TestThink_EmbedderUnavailableFallsBackToLexical(t *testing.T) {
	ctx := context.Background()
	emb := &fakeEmbedder{err: core.ErrEmbedderUnavailable}
	repo := &memFacts{facts: []core.Fact{{Question: "capital of france", Answer: "Paris"}}}
	b := newTestBrain(repo, WithEmbedder(emb))

	assert.Equal(t, "Paris", b.Think(ctx, "capital of france", nil))
}

func TestThink_Collaborators(t *testing.T) {
	ctx := context.Background()
	history := []core.Message{{Role: core.RoleUser, Content: "hi"}, {Role: core.RoleAssistant, Content: "Hello!"}}

	t.Run("knowledge answers first", func(t *testing.T) {
		k := &stubKnowledge{reply: " From the encyclopedia. "}
		r := &stubResponder{reply: "From the model."}
		b := newTestBrain(&memFacts{}, WithKnowledge(k), WithResponder(r))
		assert.Equal(t, "From the encyclopedia.", b.Think(ctx, "who wrote hamlet", history))
	})

	t.Run("knowledge error falls through to model", func(t *testing.T) {
		k := &stubKnowledge{err: errors.New("upstream 503")}
		r := &stubResponder{reply: "From the model."}
		b := newTestBrain(&memFacts{}, WithKnowledge(k), WithResponder(r))
		assert.Equal(t, "From the model.", b.Think(ctx, "who wrote hamlet", history))
		assert.Equal(t, history, r.history)
	})

	t.Run("blank replies fall through to catalog", func(t *testing.T) {
		k := &stubKnowledge{reply: "   "}
		r := &stubResponder{err: errors.New("all providers failed")}
		b := newTestBrain(&memFacts{}, WithKnowledge(k), WithResponder(r))
		assert.Equal(t, "Hello! How can I help you today?", b.Think(ctx, "hello", nil))
	})

	t.Run("panicking provider is contained", func(t *testing.T) {
		r := &stubResponder{panics: true}
		b := newTestBrain(&memFacts{}, WithResponder(r))
		assert.Equal(t, "Goodbye! Take care.", b.Think(ctx, "bye", nil))
	})

	t.Run("stage timeout bounds a stuck collaborator", func(t *testing.T) {
		k := &stubKnowledge{block: true}
		b := newTestBrain(&memFacts{}, WithKnowledge(k), WithStageTimeout(20*time.Millisecond))

		start := time.Now()
		assert.Equal(t, "Goodbye! Take care.", b.Think(ctx, "bye", nil))
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("collaborator ignoring the deadline is abandoned", func(t *testing.T) {
		k := &stubKnowledge{reply: "too late", stall: make(chan struct{})}
		defer close(k.stall)
		b := newTestBrain(&memFacts{}, WithKnowledge(k), WithStageTimeout(20*time.Millisecond))

		start := time.Now()
		assert.Equal(t, "Goodbye! Take care.", b.Think(ctx, "bye", nil))
		assert.Less(t, time.Since(start), time.Second)
		assert.EqualValues(t, 1, k.calls.Load())
	})

	t.Run("local stages run before collaborators", func(t *testing.T) {
		k := &stubKnowledge{reply: "should not be used"}
		b := newTestBrain(&memFacts{}, WithKnowledge(k))
		assert.Equal(t, "4", b.Think(ctx, "2+2", nil))
		assert.Zero(t, k.calls.Load())
	})
}

func TestThink_CustomFollowUpRule(t *testing.T) {
	rule := FollowUpFunc(func(text, last string) (string, bool) {
		return "custom", text == "ping"
	})
	b := newTestBrain(&memFacts{}, WithFollowUpRule(rule))
	assert.Equal(t, "custom", b.Think(context.Background(), "ping", nil))
}

func TestThink_ConcurrentTeachAndQuery(t *testing.T) {
	ctx := context.Background()
	repo := &memFacts{}
	emb := &fakeEmbedder{}
	b := newTestBrain(repo, WithEmbedder(emb))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Think(ctx, fmt.Sprintf("teach: secret word %d -> answer %d", i, i), nil)
			b.Think(ctx, fmt.Sprintf("secret word %d", i), nil)
		}(i)
	}
	wg.Wait()

	assert.Len(t, repo.facts, 8)
	assert.Equal(t, "answer 3", b.Think(ctx, "secret word 3", nil))
}
