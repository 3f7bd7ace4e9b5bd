package knowledge

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
	"github.com/sandevgo/parley/pkg/retry"
)

// Service answers factual questions from public sources.
type Service struct {
	cfg       core.KnowledgeConfig
	client    *client
	endpoints Endpoints
	web       WebSearcher
	synth     core.LanguageModel

	httpClient *http.Client
	retryCfg   *retry.Config
}

var _ core.Knowledge = (*Service)(nil)

type Option func(*Service)

func WithEndpoints(ep Endpoints) Option {
	return func(s *Service) { s.endpoints = ep }
}

// WithSynthesizer sets the model that turns gathered sources into a short answer.
func WithSynthesizer(m core.LanguageModel) Option {
	return func(s *Service) { s.synth = m }
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.httpClient = c }
}

func WithRetryConfig(cfg *retry.Config) Option {
	return func(s *Service) { s.retryCfg = cfg }
}

func New(cfg core.KnowledgeConfig, opts ...Option) *Service {
	s := &Service{
		cfg:       cfg,
		endpoints: DefaultEndpoints(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client = newClient(s.httpClient, s.retryCfg)
	s.web = newWebSearcher(s.client, s.endpoints, searchKeys{
		google:   cfg.GetGoogleAPIKey(),
		googleCX: cfg.GetGoogleCSEID(),
		serper:   cfg.GetSerperAPIKey(),
		brave:    cfg.GetBraveAPIKey(),
		tavily:   cfg.GetTavilyAPIKey(),
	})
	return s
}

// Query gathers sources for q and answers from them. An empty reply means
// nothing useful was found.
func (s *Service) Query(ctx context.Context, q string) (string, error) {
	if !s.cfg.IsKnowledgeEnabled() || IsChitchat(q) {
		return "", nil
	}

	sources := s.Gather(ctx, q)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if sources.Empty() {
		return "", nil
	}

	if reply := s.synthesize(ctx, sources.Context(), q); reply != "" {
		return reply, nil
	}
	return sources.FallbackReply(), nil
}

// Gather fetches every applicable source concurrently. Failing sources are
// logged and left empty.
func (s *Service) Gather(ctx context.Context, q string) Sources {
	logger := log.FromCtx(ctx)
	var src Sources

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		wiki, err := s.wikipedia(gctx, q)
		if err != nil {
			logger.Debug().Err(err).Msg("wikipedia lookup failed")
		}
		src.Wiki = wiki
		return nil
	})

	if s.web != nil {
		g.Go(func() error {
			web, err := s.web.Search(gctx, q)
			if err != nil {
				logger.Debug().Err(err).Str("searcher", s.web.Name()).Msg("web search failed")
			}
			src.Web = web
			return nil
		})
	}

	if MentionsWeather(q) {
		if place := ExtractPlace(q); place != "" {
			g.Go(func() error {
				w, err := s.weather(gctx, place)
				if err != nil {
					logger.Debug().Err(err).Str("place", place).Msg("weather lookup failed")
				}
				src.Weather = w
				return nil
			})
		}
	}

	if term, ok := ExtractDefineTerm(q); ok {
		g.Go(func() error {
			src.Definition = s.define(gctx, term)
			return nil
		})
	}

	if s.cfg.GetNewsAPIKey() != "" && MentionsNews(q) {
		g.Go(func() error {
			news, err := s.news(gctx, q)
			if err != nil {
				logger.Debug().Err(err).Msg("news lookup failed")
			}
			src.News = news
			return nil
		})
	}

	_ = g.Wait()
	return src
}

// Status lists which sources are configured, without secrets.
type Status struct {
	Wikipedia         bool     `json:"wikipedia"`
	Weather           bool     `json:"weather"`
	Dictionary        bool     `json:"dictionary"`
	DictionarySources []string `json:"dictionary_sources"`
	Web               string   `json:"web,omitempty"`
	News              bool     `json:"news"`
	Synthesis         bool     `json:"synthesis"`
}

func (s *Service) Status() Status {
	st := Status{
		Wikipedia:  s.cfg.IsKnowledgeEnabled(),
		Weather:    s.cfg.IsKnowledgeEnabled(),
		Dictionary: s.cfg.IsKnowledgeEnabled(),
		News:       s.cfg.GetNewsAPIKey() != "",
		Synthesis:  s.synth != nil,
	}
	for _, d := range s.dictionaries() {
		st.DictionarySources = append(st.DictionarySources, d.name)
	}
	if s.web != nil {
		st.Web = s.web.Name()
	}
	return st
}
