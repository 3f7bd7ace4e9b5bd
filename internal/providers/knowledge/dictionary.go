package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sandevgo/parley/pkg/log"
)

const maxDefinitionLen = 1200

type dictionaryLookup struct {
	name  string
	fetch func(ctx context.Context, term string) (string, error)
}

func (s *Service) dictionaries() []dictionaryLookup {
	lookups := []dictionaryLookup{
		{"free_dictionary", s.freeDictionary},
		{"datamuse", s.datamuse},
		{"wiktionary", s.wiktionary},
	}
	if s.cfg.GetMerriamWebsterAPIKey() != "" {
		lookups = append(lookups, dictionaryLookup{"merriam_webster", s.merriamWebster})
	}
	return lookups
}

// define queries every dictionary concurrently and joins the hits in a fixed order.
func (s *Service) define(ctx context.Context, term string) string {
	lookups := s.dictionaries()
	results := make([]string, len(lookups))

	g, gctx := errgroup.WithContext(ctx)
	for i, l := range lookups {
		g.Go(func() error {
			text, err := l.fetch(gctx, term)
			if err != nil {
				if !errors.Is(err, ErrNotFound) {
					log.FromCtx(ctx).Debug().Err(err).Str("source", l.name).Msg("dictionary lookup failed")
				}
				return nil
			}
			results[i] = text
			return nil
		})
	}
	_ = g.Wait()

	var defs []string
	for _, r := range results {
		if r != "" {
			defs = append(defs, r)
		}
	}
	if len(defs) == 0 {
		return ""
	}

	joined := []rune(strings.Join(defs, "\n\n"))
	if len(joined) > maxDefinitionLen {
		joined = joined[:maxDefinitionLen]
	}
	return string(joined)
}

func (s *Service) freeDictionary(ctx context.Context, term string) (string, error) {
	var entries []struct {
		Phonetic  string `json:"phonetic"`
		Phonetics []struct {
			Text string `json:"text"`
		} `json:"phonetics"`
		Meanings []struct {
			PartOfSpeech string `json:"partOfSpeech"`
			Definitions  []struct {
				Definition string `json:"definition"`
				Example    string `json:"example"`
			} `json:"definitions"`
			Synonyms []string `json:"synonyms"`
		} `json:"meanings"`
	}
	if err := s.client.getJSON(ctx, s.endpoints.FreeDictionary+url.PathEscape(term), nil, &entries); err != nil {
		return "", fmt.Errorf("free dictionary: %w", err)
	}
	if len(entries) == 0 {
		return "", nil
	}
	e := entries[0]

	phonetic := e.Phonetic
	for _, p := range e.Phonetics {
		if p.Text != "" {
			phonetic = p.Text
			break
		}
	}

	head := term
	if phonetic != "" {
		head = fmt.Sprintf("%s [%s]", term, phonetic)
	}
	lines := []string{head}

	for _, m := range firstN(e.Meanings, 4) {
		label := ""
		if pos := strings.TrimSpace(m.PartOfSpeech); pos != "" {
			label = " (" + pos + ")"
		}
		for i, d := range firstN(m.Definitions, 3) {
			if def := strings.TrimSpace(d.Definition); def != "" {
				lines = append(lines, fmt.Sprintf("  %d.%s %s", i+1, label, trimText(def, 150)))
			}
			if ex := strings.TrimSpace(d.Example); ex != "" {
				lines = append(lines, "     Example: "+trimText(ex, 100))
			}
		}

		var syns []string
		for _, syn := range firstN(m.Synonyms, 5) {
			if strings.TrimSpace(syn) != "" {
				syns = append(syns, syn)
			}
		}
		if len(syns) > 0 {
			lines = append(lines, "     Synonyms: "+strings.Join(syns, ", "))
		}
	}

	if len(lines) < 2 {
		return "", nil
	}
	return "Free Dictionary:\n" + strings.Join(lines, "\n"), nil
}

func (s *Service) datamuse(ctx context.Context, term string) (string, error) {
	params := url.Values{"sp": {term}, "md": {"d"}}
	var words []struct {
		Word string   `json:"word"`
		Defs []string `json:"defs"`
	}
	if err := s.client.getJSON(ctx, s.endpoints.Datamuse+"?"+params.Encode(), nil, &words); err != nil {
		return "", fmt.Errorf("datamuse: %w", err)
	}

	var parts []string
	seen := 0
	for _, w := range words {
		if len(w.Defs) == 0 {
			continue
		}
		if seen == 2 {
			break
		}
		seen++
		for _, d := range firstN(w.Defs, 3) {
			// Definitions come as "pos\ttext".
			_, def, ok := strings.Cut(d, "\t")
			if !ok {
				continue
			}
			if def = strings.TrimSpace(def); def != "" {
				parts = append(parts, "  • "+trimText(def, 120))
			}
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return fmt.Sprintf("Datamuse, %s:\n%s", term, strings.Join(parts, "\n")), nil
}

func (s *Service) wiktionary(ctx context.Context, term string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"titles":      {term},
		"prop":        {"extracts"},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"format":      {"json"},
	}
	var resp struct {
		Query struct {
			Pages map[string]struct {
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := s.client.getJSON(ctx, s.endpoints.Wiktionary+"?"+params.Encode(), nil, &resp); err != nil {
		return "", fmt.Errorf("wiktionary: %w", err)
	}

	for id, p := range resp.Query.Pages {
		if id == "-1" {
			continue
		}
		if ext := strings.TrimSpace(p.Extract); ext != "" {
			return fmt.Sprintf("Wiktionary, %s:\n%s", term, trimText(ext, 400)), nil
		}
	}
	return "", nil
}

func (s *Service) merriamWebster(ctx context.Context, term string) (string, error) {
	endpoint := s.endpoints.MerriamWebster + url.PathEscape(term) + "?key=" + url.QueryEscape(s.cfg.GetMerriamWebsterAPIKey())

	var raw []json.RawMessage
	if err := s.client.getJSON(ctx, endpoint, nil, &raw); err != nil {
		return "", fmt.Errorf("merriam-webster: %w", err)
	}
	// Unknown words come back as a list of spelling suggestions.
	if len(raw) == 0 || strings.HasPrefix(strings.TrimSpace(string(raw[0])), `"`) {
		return "", nil
	}

	var parts []string
	for _, item := range firstN(raw, 2) {
		var e struct {
			FunctionalLabel string   `json:"fl"`
			ShortDef        []string `json:"shortdef"`
		}
		if err := json.Unmarshal(item, &e); err != nil {
			continue
		}
		fl := strings.TrimSpace(e.FunctionalLabel)
		for i, d := range firstN(e.ShortDef, 2) {
			if d == "" {
				continue
			}
			label := "  " + strconv.Itoa(i+1) + "."
			if fl != "" {
				label += " (" + fl + ")"
			}
			parts = append(parts, label+" "+trimText(d, 120))
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return fmt.Sprintf("Merriam-Webster, %s:\n%s", term, strings.Join(parts, "\n")), nil
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
