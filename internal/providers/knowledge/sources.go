package knowledge

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	noResults  = "No search results."
	nothing    = "Nothing found. Rephrase or add API keys with `parley install`."
	snippetMax = 180
)

type Snippet struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link,omitempty"`
}

// Sources is everything gathered for one query.
type Sources struct {
	Wiki       []Snippet
	Web        []Snippet
	Weather    string
	Definition string
	News       []Snippet
}

func (s Sources) Empty() bool {
	return len(s.Wiki) == 0 && len(s.Web) == 0 && s.Weather == "" && s.Definition == "" && len(s.News) == 0
}

// Context renders the sources as the prompt context for synthesis.
func (s Sources) Context() string {
	var parts []string
	if len(s.Wiki) > 0 {
		parts = append(parts, "Wikipedia:\n"+bulletList(s.Wiki))
	}
	if len(s.Web) > 0 {
		parts = append(parts, "Web:\n"+bulletList(s.Web))
	}
	if s.Weather != "" {
		parts = append(parts, "Weather: "+s.Weather)
	}
	if s.Definition != "" {
		parts = append(parts, "Definition: "+s.Definition)
	}
	if len(s.News) > 0 {
		parts = append(parts, "News:\n"+bulletList(s.News))
	}
	if len(parts) == 0 {
		return noResults
	}
	return strings.Join(parts, "\n\n")
}

// FallbackReply picks the single best source when no synthesis is available.
func (s Sources) FallbackReply() string {
	switch {
	case s.Weather != "":
		return s.Weather
	case s.Definition != "":
		return s.Definition
	case len(s.Wiki) > 0:
		return s.Wiki[0].line()
	case len(s.Web) > 0:
		return s.Web[0].line()
	case len(s.News) > 0:
		return s.News[0].line()
	}
	return nothing
}

func (s Snippet) line() string {
	return fmt.Sprintf("%s: %s", s.Title, s.Snippet)
}

func bulletList(items []Snippet) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "- " + it.line()
	}
	return strings.Join(lines, "\n")
}

// trimText cuts s to n runes and marks the cut with an ellipsis.
func trimText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRightFunc(string(r[:n]), unicode.IsSpace) + "..."
}
