// Package brain turns one user utterance plus recent history into a reply.
//
// Think runs an ordered list of stages and returns the first usable
// answer: teach commands, follow-ups, arithmetic, time, date, external
// knowledge, the language model, taught facts, the static catalog and
// finally the default pool. It never fails; collaborator errors are
// logged and treated as "no answer".
package brain

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
	"github.com/sandevgo/parley/pkg/textsim"
)

const (
	emptyInputReply   = "You didn't say anything. Try a greeting or a question!"
	teachSessionReply = "Got it for this session, but I couldn't save permanently (e.g. on Vercel/serverless). Run locally to persist."

	defaultStageTimeout = 20 * time.Second
)

var errNoRepository = errors.New("no fact repository configured")

// Picker returns a uniform index in [0, n).
type Picker func(n int) int

func (p Picker) choice(items []string) string {
	return items[p(len(items))]
}

type Brain struct {
	facts     core.FactRepository
	knowledge core.Knowledge
	responder core.Responder
	followUp  FollowUpRule
	now       Clock
	timeout   time.Duration

	learned learnedMatcher
	intents intentMatcher

	// facts taught this process whose persistence failed
	mu      sync.RWMutex
	session []core.Fact
}

type Option func(*Brain)

func WithKnowledge(k core.Knowledge) Option {
	return func(b *Brain) { b.knowledge = k }
}

func WithResponder(r core.Responder) Option {
	return func(b *Brain) { b.responder = r }
}

func WithEmbedder(e core.Embedder) Option {
	return func(b *Brain) { b.learned.embedder = e }
}

func WithCatalog(c *Catalog) Option {
	return func(b *Brain) { b.intents.catalog = c }
}

func WithPicker(p Picker) Option {
	return func(b *Brain) { b.intents.pick = p }
}

func WithClock(c Clock) Option {
	return func(b *Brain) { b.now = c }
}

func WithFollowUpRule(r FollowUpRule) Option {
	return func(b *Brain) { b.followUp = r }
}

// WithStageTimeout bounds each blocking stage. Zero disables the bound.
func WithStageTimeout(d time.Duration) Option {
	return func(b *Brain) { b.timeout = d }
}

// New builds a Brain. facts may be nil, in which case every taught fact
// lives only for the lifetime of the process.
func New(facts core.FactRepository, opts ...Option) *Brain {
	b := &Brain{
		facts:    facts,
		followUp: Reciprocation,
		now:      time.Now,
		timeout:  defaultStageTimeout,
		intents: intentMatcher{
			catalog: DefaultCatalog(),
			pick:    rand.IntN,
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type utterance struct {
	raw    string
	norm   string
	tokens textsim.TokenSet
}

func newUtterance(raw string) utterance {
	return utterance{
		raw:    raw,
		norm:   textsim.Normalize(raw),
		tokens: textsim.Tokenize(raw),
	}
}

// Think returns the reply for text given the recent history.
func (b *Brain) Think(ctx context.Context, text string, history []core.Message) string {
	logger := log.FromCtx(ctx)

	raw := strings.TrimSpace(text)
	if raw == "" {
		return emptyInputReply
	}

	if fact, ok := ParseTeach(raw); ok {
		logger.Debug().Str("stage", "teach").Msg("teach command")
		return b.teach(ctx, fact)
	}

	if b.followUp != nil {
		if reply, ok := b.followUp.Resolve(raw, core.LastAssistant(history)); ok {
			logger.Debug().Str("stage", "follow_up").Msg("resolved follow-up")
			return reply
		}
	}

	u := newUtterance(raw)

	// arithmetic runs first so "what is 3*7" is never read as a time question
	if reply, ok := SolveArithmetic(raw); ok {
		logger.Debug().Str("stage", "arithmetic").Msg("evaluated expression")
		return reply
	}
	if reply, ok := timeReply(u.tokens, b.now); ok {
		logger.Debug().Str("stage", "time").Send()
		return reply
	}
	if reply, ok := dateReply(u.tokens, b.now); ok {
		logger.Debug().Str("stage", "date").Send()
		return reply
	}

	if b.knowledge != nil {
		if reply, ok := b.consult(ctx, "knowledge", func(ctx context.Context) (string, error) {
			return b.knowledge.Query(ctx, raw)
		}); ok {
			return reply
		}
	}

	if b.responder != nil {
		if reply, ok := b.consult(ctx, "llm", func(ctx context.Context) (string, error) {
			return b.responder.Respond(ctx, raw, history)
		}); ok {
			return reply
		}
	}

	if reply, ok := b.matchLearned(ctx, u); ok {
		logger.Debug().Str("stage", "learned").Msg("matched taught fact")
		return reply
	}

	if reply, tier := b.intents.respond(u.tokens); tier != TierNone {
		logger.Debug().Str("stage", "intent").Int("tier", int(tier)).Send()
		return reply
	}

	logger.Debug().Str("stage", "default").Send()
	return b.intents.fallback()
}

// Facts returns persisted facts followed by facts kept for this session.
func (b *Brain) Facts(ctx context.Context) []core.Fact {
	var facts []core.Fact
	if b.facts != nil {
		loaded, err := b.facts.LoadFacts(ctx)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("failed to load taught facts")
		}
		facts = loaded
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.session) == 0 {
		return facts
	}
	out := make([]core.Fact, 0, len(facts)+len(b.session))
	out = append(out, facts...)
	return append(out, b.session...)
}

func (b *Brain) teach(ctx context.Context, fact core.Fact) string {
	fact.CreatedAt = b.now()
	defer b.learned.cache.invalidate()

	var err error
	if b.facts == nil {
		err = errNoRepository
	} else {
		err = b.facts.AppendFact(ctx, fact)
	}
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to persist taught fact")
		b.mu.Lock()
		b.session = append(b.session, fact)
		b.mu.Unlock()
		return teachSessionReply
	}
	return fmt.Sprintf("Got it. I'll remember: \"%s\" -> \"%s\"", fact.Question, fact.Answer)
}

func (b *Brain) matchLearned(ctx context.Context, u utterance) (string, bool) {
	ctx, cancel := b.stageContext(ctx)
	defer cancel()
	return b.learned.match(ctx, u, b.Facts(ctx))
}

// consult calls a collaborator under the stage timeout. Errors, panics,
// blank replies and a collaborator still running at the deadline all mean
// "no answer". An abandoned call finishes in the background.
func (b *Brain) consult(ctx context.Context, stage string, fn func(context.Context) (string, error)) (string, bool) {
	logger := log.FromCtx(ctx)
	ctx, cancel := b.stageContext(ctx)
	defer cancel()

	type result struct {
		reply string
		err   error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("collaborator panicked: %v", r)}
			}
		}()
		out, err := fn(ctx)
		done <- result{reply: out, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	if res.err != nil {
		logger.Warn().Err(res.err).Str("stage", stage).Msg("collaborator failed")
		return "", false
	}
	out := strings.TrimSpace(res.reply)
	if out == "" {
		return "", false
	}
	logger.Debug().Str("stage", stage).Msg("collaborator answered")
	return out, true
}

func (b *Brain) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.timeout)
}
