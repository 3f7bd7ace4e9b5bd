package textsim

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var contractions = map[string]string{
	"what's": "what is", "that's": "that is", "it's": "it is", "who's": "who is",
	"there's": "there is", "here's": "here is", "he's": "he is", "she's": "she is",
	"don't": "do not", "doesn't": "does not", "didn't": "did not", "won't": "will not",
	"can't": "cannot", "couldn't": "could not", "wouldn't": "would not", "shouldn't": "should not",
	"isn't": "is not", "aren't": "are not", "wasn't": "was not", "weren't": "were not",
	"haven't": "have not", "hasn't": "has not", "hadn't": "had not",
	"i'm": "i am", "you're": "you are", "we're": "we are", "they're": "they are",
	"i've": "i have", "you've": "you have", "we've": "we have", "they've": "they have",
	"i'll": "i will", "you'll": "you will", "we'll": "we will", "they'll": "they will",
	"i'd": "i would", "you'd": "you would", "we'd": "we would", "they'd": "they would",
	"what're": "what are", "where's": "where is", "how's": "how is", "why's": "why is",
}

var (
	contractionRe = compileContractions()
	apostrophes   = strings.NewReplacer("’", "'", "‘", "'")
)

func compileContractions() *regexp.Regexp {
	keys := make([]string, 0, len(contractions))
	for k := range contractions {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	// longest first so alternation never stops at a shorter prefix
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return regexp.MustCompile(`\b(?:` + strings.Join(keys, "|") + `)\b`)
}

// ExpandContractions lowercases text and expands whole-word contractions.
func ExpandContractions(text string) string {
	t := apostrophes.Replace(strings.ToLower(text))
	return contractionRe.ReplaceAllStringFunc(t, func(m string) string {
		return contractions[m]
	})
}

// Normalize returns the canonical comparison form of text: lowercase,
// contractions expanded, punctuation removed, trimmed.
func Normalize(text string) string {
	expanded := ExpandContractions(text)
	stripped := strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, expanded)
	return strings.TrimSpace(stripped)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// Words returns the whitespace-separated tokens of the normalized text in order.
func Words(text string) []string {
	return strings.Fields(Normalize(text))
}

// TokenSet is an unordered set of normalized word tokens.
type TokenSet map[string]struct{}

// Tokenize returns the set of tokens of the normalized text.
func Tokenize(text string) TokenSet {
	return NewTokenSet(Words(text)...)
}

func NewTokenSet(words ...string) TokenSet {
	s := make(TokenSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s TokenSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Overlap counts tokens present in both sets.
func (s TokenSet) Overlap(other TokenSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for w := range small {
		if large.Has(w) {
			n++
		}
	}
	return n
}
