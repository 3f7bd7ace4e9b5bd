package brain

import (
	"strings"

	"github.com/sandevgo/parley/internal/core"
)

var teachPrefixes = []string{"teach:", "learn:"}

// ParseTeach recognizes "teach: question -> answer" and "learn: ...".
// The split happens at the first arrow; both sides must be non-empty.
func ParseTeach(text string) (core.Fact, bool) {
	text = strings.TrimSpace(text)
	for _, prefix := range teachPrefixes {
		if !hasPrefixFold(text, prefix) {
			continue
		}
		q, a, found := strings.Cut(text[len(prefix):], "->")
		if !found {
			continue
		}
		q, a = strings.TrimSpace(q), strings.TrimSpace(a)
		if q != "" && a != "" {
			return core.Fact{Question: q, Answer: a}, true
		}
	}
	return core.Fact{}, false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
