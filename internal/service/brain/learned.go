package brain

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
	"github.com/sandevgo/parley/pkg/textsim"
)

const (
	semanticThreshold    = 0.5
	lexicalThreshold     = 0.3
	containmentScore     = 0.9
	numericAnswerMinimum = 0.7
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

type learnedMatcher struct {
	embedder core.Embedder
	cache    embeddingCache
}

// match ranks taught facts against the utterance. The semantic path wins
// whenever it produces a candidate; the lexical path is the fallback.
func (m *learnedMatcher) match(ctx context.Context, u utterance, facts []core.Fact) (string, bool) {
	if len(facts) == 0 {
		return "", false
	}

	answer, score, ok := m.matchSemantic(ctx, u, facts)
	if !ok {
		answer, score, ok = matchLexical(u, facts)
	}
	if !ok {
		return "", false
	}

	// "what is water" must not hit "what is 2+2 -> 4" on shared words alone.
	if digitsOnly.MatchString(strings.TrimSpace(answer)) && score < numericAnswerMinimum {
		return "", false
	}
	return answer, true
}

func (m *learnedMatcher) matchSemantic(ctx context.Context, u utterance, facts []core.Fact) (string, float64, bool) {
	if m.embedder == nil {
		return "", 0, false
	}
	logger := log.FromCtx(ctx)

	vectors, err := m.cache.vectorsFor(ctx, m.embedder, facts)
	if err != nil {
		logEmbedFailure(ctx, err, "fact embeddings failed, using lexical match")
		return "", 0, false
	}
	query, err := m.embedder.Encode(ctx, u.raw)
	if err != nil {
		logEmbedFailure(ctx, err, "query embedding failed, using lexical match")
		return "", 0, false
	}

	var (
		best   float64
		answer string
		found  bool
	)
	for i, v := range vectors {
		sim, err := textsim.Cosine(query, v)
		if err != nil {
			logger.Debug().Err(err).Int("fact", i).Msg("skipping fact embedding")
			continue
		}
		if sim > best && sim >= semanticThreshold {
			best, answer, found = sim, facts[i].Answer, true
		}
	}
	return answer, best, found
}

func matchLexical(u utterance, facts []core.Fact) (string, float64, bool) {
	var (
		best   float64
		answer string
		found  bool
	)
	for _, f := range facts {
		qNorm := textsim.Normalize(f.Question)
		var score float64
		if strings.Contains(u.norm, qNorm) || strings.Contains(qNorm, u.norm) {
			score = containmentScore
		} else {
			score = textsim.Dice(u.tokens, textsim.Tokenize(f.Question))
		}
		if score > best && score >= lexicalThreshold {
			best, answer, found = score, f.Answer, true
		}
	}
	return answer, best, found
}

// logEmbedFailure keeps an absent embedder quiet and reports real failures.
func logEmbedFailure(ctx context.Context, err error, msg string) {
	logger := log.FromCtx(ctx)
	if errors.Is(err, core.ErrEmbedderUnavailable) {
		logger.Debug().Msg("no embedder, using lexical match")
		return
	}
	logger.Warn().Err(err).Msg(msg)
}
