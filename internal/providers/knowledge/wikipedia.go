package knowledge

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/inbucket/html2text"
)

func (s *Service) wikipedia(ctx context.Context, q string) ([]Snippet, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {q},
		"format":   {"json"},
		"origin":   {"*"},
		"srlimit":  {"5"},
	}

	var resp struct {
		Query struct {
			Search []struct {
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := s.client.getJSON(ctx, s.endpoints.Wikipedia+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("wikipedia: %w", err)
	}

	hits := resp.Query.Search
	if len(hits) > 3 {
		hits = hits[:3]
	}
	out := make([]Snippet, 0, len(hits))
	for _, h := range hits {
		out = append(out, Snippet{Title: h.Title, Snippet: trimText(stripHTML(h.Snippet), snippetMax)})
	}
	return out, nil
}

// stripHTML turns search-highlight markup into plain text.
func stripHTML(s string) string {
	text, err := html2text.FromString(s, html2text.Options{OmitLinks: true})
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(text), " ")
}
