package knowledge

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var newsFillerWords = regexp.MustCompile(`(?i)\b(news|latest|headlines|about|on)\b`)

// newsTopic strips the words that only signal a news request.
func newsTopic(q string) string {
	topic := strings.Join(strings.Fields(newsFillerWords.ReplaceAllString(q, "")), " ")
	if topic == "" {
		return "news"
	}
	return topic
}

func (s *Service) news(ctx context.Context, q string) ([]Snippet, error) {
	params := url.Values{
		"q":        {newsTopic(q)},
		"pageSize": {"3"},
		"apiKey":   {s.cfg.GetNewsAPIKey()},
	}
	var resp struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
		} `json:"articles"`
	}
	if err := s.client.getJSON(ctx, s.endpoints.NewsAPI+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}

	var out []Snippet
	for _, a := range resp.Articles {
		if a.Title == "" {
			continue
		}
		out = append(out, Snippet{Title: a.Title, Snippet: trimText(a.Description, 120), Link: a.URL})
		if len(out) == 3 {
			break
		}
	}
	return out, nil
}
