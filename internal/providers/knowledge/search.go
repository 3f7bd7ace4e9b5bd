package knowledge

import (
	"context"
	"fmt"
	"net/url"
)

// WebSearcher is one web search backend.
type WebSearcher interface {
	Name() string
	Search(ctx context.Context, q string) ([]Snippet, error)
}

// newWebSearcher returns the first configured backend in the order
// Google CSE, Serper, Brave, Tavily; nil when none is keyed.
func newWebSearcher(c *client, ep Endpoints, keys searchKeys) WebSearcher {
	switch {
	case keys.google != "" && keys.googleCX != "":
		return &googleSearch{client: c, endpoint: ep.Google, key: keys.google, cx: keys.googleCX}
	case keys.serper != "":
		return &serperSearch{client: c, endpoint: ep.Serper, key: keys.serper}
	case keys.brave != "":
		return &braveSearch{client: c, endpoint: ep.Brave, key: keys.brave}
	case keys.tavily != "":
		return &tavilySearch{client: c, endpoint: ep.Tavily, key: keys.tavily}
	}
	return nil
}

type searchKeys struct {
	google, googleCX, serper, brave, tavily string
}

type googleSearch struct {
	client   *client
	endpoint string
	key, cx  string
}

func (g *googleSearch) Name() string { return "google" }

func (g *googleSearch) Search(ctx context.Context, q string) ([]Snippet, error) {
	params := url.Values{"key": {g.key}, "cx": {g.cx}, "q": {q}, "num": {"5"}}
	var resp struct {
		Items []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Link    string `json:"link"`
		} `json:"items"`
	}
	if err := g.client.getJSON(ctx, g.endpoint+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}

	var out []Snippet
	for _, it := range firstN(resp.Items, 3) {
		out = append(out, Snippet{Title: it.Title, Snippet: trimText(it.Snippet, snippetMax), Link: it.Link})
	}
	return out, nil
}

type serperSearch struct {
	client   *client
	endpoint string
	key      string
}

func (s *serperSearch) Name() string { return "serper" }

func (s *serperSearch) Search(ctx context.Context, q string) ([]Snippet, error) {
	var resp struct {
		Organic []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Link    string `json:"link"`
		} `json:"organic"`
	}
	body := map[string]string{"q": q}
	if err := s.client.postJSON(ctx, s.endpoint, map[string]string{"X-API-KEY": s.key}, body, &resp); err != nil {
		return nil, fmt.Errorf("serper search: %w", err)
	}

	var out []Snippet
	for _, it := range firstN(resp.Organic, 3) {
		out = append(out, Snippet{Title: it.Title, Snippet: trimText(it.Snippet, snippetMax), Link: it.Link})
	}
	return out, nil
}

type braveSearch struct {
	client   *client
	endpoint string
	key      string
}

func (b *braveSearch) Name() string { return "brave" }

func (b *braveSearch) Search(ctx context.Context, q string) ([]Snippet, error) {
	var resp struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				URL         string `json:"url"`
			} `json:"results"`
		} `json:"web"`
	}
	endpoint := b.endpoint + "?" + url.Values{"q": {q}}.Encode()
	if err := b.client.getJSON(ctx, endpoint, map[string]string{"X-Subscription-Token": b.key}, &resp); err != nil {
		return nil, fmt.Errorf("brave search: %w", err)
	}

	var out []Snippet
	for _, it := range firstN(resp.Web.Results, 3) {
		out = append(out, Snippet{Title: it.Title, Snippet: trimText(it.Description, snippetMax), Link: it.URL})
	}
	return out, nil
}

type tavilySearch struct {
	client   *client
	endpoint string
	key      string
}

func (t *tavilySearch) Name() string { return "tavily" }

func (t *tavilySearch) Search(ctx context.Context, q string) ([]Snippet, error) {
	var resp struct {
		Results []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
			URL     string `json:"url"`
		} `json:"results"`
	}
	body := map[string]string{"query": q, "search_depth": "basic"}
	if err := t.client.postJSON(ctx, t.endpoint, map[string]string{"Authorization": "Bearer " + t.key}, body, &resp); err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}

	var out []Snippet
	for _, it := range firstN(resp.Results, 3) {
		out = append(out, Snippet{Title: it.Title, Snippet: trimText(it.Content, snippetMax), Link: it.URL})
	}
	return out, nil
}
