package brain

import (
	"strings"

	"github.com/sandevgo/parley/pkg/textsim"
)

// FollowUpRule answers short replies that only make sense next to the
// previous assistant turn.
type FollowUpRule interface {
	Resolve(text, lastAssistant string) (string, bool)
}

// FollowUpFunc adapts a function to FollowUpRule.
type FollowUpFunc func(text, lastAssistant string) (string, bool)

func (f FollowUpFunc) Resolve(text, lastAssistant string) (string, bool) {
	return f(text, lastAssistant)
}

var (
	reciprocalMarkers = []string{"and you", "what about you", "how about you"}
	affirmatives      = map[string]struct{}{
		"good": {}, "fine": {}, "ok": {}, "okay": {}, "great": {}, "alright": {}, "well": {},
		"not bad": {}, "pretty good": {}, "doing well": {}, "doing good": {},
		"im good": {}, "i'm good": {}, "im fine": {}, "i'm fine": {},
		"fantastic": {}, "excellent": {},
	}
)

// Reciprocation handles "and you?" after any assistant turn, and a short
// affirmative after the assistant asked how the user is doing.
var Reciprocation FollowUpRule = FollowUpFunc(reciprocate)

func reciprocate(text, lastAssistant string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	last := strings.ToLower(lastAssistant)

	if containsAny(lower, reciprocalMarkers) || lower == "you?" {
		if strings.TrimSpace(last) != "" {
			return "I'm doing well, thanks for asking!", true
		}
	}

	if isAffirmative(text, lower) && containsAny(last, reciprocalMarkers) {
		return "That's good to hear!", true
	}
	return "", false
}

func isAffirmative(text, lower string) bool {
	if _, ok := affirmatives[textsim.Normalize(text)]; ok {
		return true
	}
	_, ok := affirmatives[lower]
	return ok
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
