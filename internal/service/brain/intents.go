package brain

import (
	"strings"

	"github.com/sandevgo/parley/pkg/textsim"
)

const (
	confidentThreshold = 0.5
	ambiguousThreshold = 0.25
	suggestMinOverlap  = 2

	hardFallback = "I'm not sure what to say. Try 'help' or teach me with: teach: question -> answer"
)

// Tier classifies how sure the matcher is.
type Tier int

const (
	TierNone Tier = iota
	TierAmbiguous
	TierConfident
)

// MatchResult is the best-scoring pattern of one catalog entry.
type MatchResult struct {
	Score   float64
	Entry   *IntentEntry
	Pattern string
}

type intentMatcher struct {
	catalog *Catalog
	pick    Picker
}

// rank returns the best and second-best matches. Ties keep the earlier
// entry; the runner-up may be the same entry as the winner.
func (m *intentMatcher) rank(tokens textsim.TokenSet) (best, second MatchResult) {
	for i := range m.catalog.Intents {
		e := &m.catalog.Intents[i]
		if !e.matchable() {
			continue
		}
		for j, pt := range e.tokens {
			s := textsim.Dice(tokens, pt)
			switch {
			case s > best.Score:
				second = MatchResult{Score: best.Score, Entry: best.Entry}
				best = MatchResult{Score: s, Entry: e, Pattern: e.Patterns[j]}
			case s > second.Score:
				second = MatchResult{Score: s, Entry: e}
			}
		}
	}
	return best, second
}

// respond answers confidently or asks for clarification.
func (m *intentMatcher) respond(tokens textsim.TokenSet) (string, Tier) {
	best, second := m.rank(tokens)

	if best.Entry != nil && best.Score >= confidentThreshold {
		return m.pick.choice(best.Entry.Responses), TierConfident
	}
	if best.Score < ambiguousThreshold {
		return "", TierNone
	}

	overlap := 0
	if best.Pattern != "" {
		overlap = tokens.Overlap(textsim.Tokenize(best.Pattern))
	}

	var b strings.Builder
	b.WriteString("I'm not quite sure. ")
	if best.Entry != nil && len(best.Entry.Responses) > 0 && overlap >= suggestMinOverlap {
		b.WriteString(`Did you mean something like "` + best.Pattern + `"? `)
		b.WriteString(m.pick.choice(best.Entry.Responses))
	}
	if second.Entry != nil && second.Score >= ambiguousThreshold && second.Entry != best.Entry && overlap >= suggestMinOverlap {
		if p2 := firstPatternAbove(second.Entry, tokens, ambiguousThreshold); p2 != "" {
			b.WriteString(` Or "` + p2 + `"? `)
		}
	}
	b.WriteString(" Rephrase or teach me: teach: question -> answer")
	return strings.TrimSpace(b.String()), TierAmbiguous
}

func (m *intentMatcher) fallback() string {
	if pool := m.catalog.Fallback(); len(pool) > 0 {
		return m.pick.choice(pool)
	}
	return hardFallback
}

func firstPatternAbove(e *IntentEntry, tokens textsim.TokenSet, threshold float64) string {
	for j, pt := range e.tokens {
		if textsim.Dice(tokens, pt) >= threshold {
			return e.Patterns[j]
		}
	}
	return ""
}
