package knowledge

import (
	"regexp"
	"strings"
	"unicode"
)

var chitchatWords = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "thanks": {}, "thank": {}, "bye": {}, "ok": {}, "okay": {},
}

var (
	weatherMention = regexp.MustCompile(`(?i)\b(weather|forecast|temperature)\b`)
	newsMention    = regexp.MustCompile(`(?i)\b(news|latest|headlines|current|recent)\b`)
	placeNoise     = regexp.MustCompile(`(?i)\b(weather|forecast|temperature|in|for|at)\b`)
	mathLike       = regexp.MustCompile(`^[\d\s.+\-*/()%^]+$`)
	whatDoesPrefix = regexp.MustCompile(`(?i)^what\s+does\s`)

	// Tried in order; the first capture is the term.
	definePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:define|definition of|meaning of|what does)\s+(.+?)(?:\s+mean)?\s*[.?!]?\s*$`),
		regexp.MustCompile(`(?i)^(.+?)\s+(?:mean|means)\s*[.?!]?\s*$`),
		regexp.MustCompile(`(?i)(?:explain|explain the word|explain the phrase|define the word|define the phrase)\s+(.+?)\s*[.?!]?\s*$`),
		regexp.MustCompile(`(?i)(?:what is the meaning of|what is the definition of)\s+(.+?)\s*[.?!]?\s*$`),
		regexp.MustCompile(`(?i)^(?:what is|what's)\s+([\p{L}\p{N}_]+(?:\s+[\p{L}\p{N}_]+)?)\s*[.?!]?\s*$`),
		regexp.MustCompile(`(?i)(?:word|phrase|term)\s+["']?(.+?)["']?\s*[.?!]?\s*$`),
	}
)

// IsChitchat reports whether q is a greeting or thanks too short to look up.
func IsChitchat(q string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, strings.ToLower(q))

	words := strings.Fields(cleaned)
	if len(words) > 2 {
		return false
	}
	for _, w := range words {
		if _, ok := chitchatWords[w]; !ok {
			return false
		}
	}
	return true
}

func MentionsWeather(q string) bool { return weatherMention.MatchString(q) }

func MentionsNews(q string) bool { return newsMention.MatchString(q) }

// ExtractPlace removes weather vocabulary and prepositions from q.
func ExtractPlace(q string) string {
	place := strings.Join(strings.Fields(placeNoise.ReplaceAllString(q, "")), " ")
	return strings.TrimRight(place, ".?!,")
}

// ExtractDefineTerm finds the word or phrase a question asks to define.
// Short bare phrases of up to four words count as a term. Math-looking
// terms are rejected.
func ExtractDefineTerm(q string) (string, bool) {
	q = strings.TrimSpace(q)
	for i, re := range definePatterns {
		// "what does X mean" belongs to the first pattern only.
		if i == 1 && whatDoesPrefix.MatchString(q) {
			continue
		}
		m := re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		term := strings.TrimSpace(m[1])
		if term == "" || len(term) >= 80 {
			continue
		}
		switch strings.ToLower(term) {
		case "the", "a", "an":
			continue
		}
		if mathLike.MatchString(term) {
			return "", false
		}
		return term, true
	}

	if n := len(strings.Fields(q)); n >= 1 && n <= 4 && len(q) < 50 {
		if mathLike.MatchString(q) {
			return "", false
		}
		return q, true
	}
	return "", false
}
