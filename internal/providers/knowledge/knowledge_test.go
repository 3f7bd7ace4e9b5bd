package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandevgo/parley/internal/config"
	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsChitchat(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"hi", true},
		{"Thanks!", true},
		{"ok bye", true},
		{"hi there", false},
		{"hello hello hello", false},
		{"weather in Oslo", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsChitchat(tt.in))
		})
	}
}

func TestExtractDefineTerm(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"define ephemeral", "ephemeral", true},
		{"what does serendipity mean?", "serendipity", true},
		{"What is love?", "love", true},
		{"meaning of life", "life", true},
		{"explain entropy", "entropy", true},
		{"quixotic means", "quixotic", true},
		{"2 + 2", "", false},
		{"please tell me a very long story about dragons", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ExtractDefineTerm(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPlace(t *testing.T) {
	assert.Equal(t, "Paris", ExtractPlace("weather in Paris?"))
	assert.Equal(t, "New York", ExtractPlace("temperature for New York"))
	assert.Equal(t, "", ExtractPlace("weather"))
}

func TestNewsTopic(t *testing.T) {
	assert.Equal(t, "Mars", newsTopic("latest news about Mars"))
	assert.Equal(t, "news", newsTopic("headlines"))
}

func TestSources_ContextAndFallback(t *testing.T) {
	var empty Sources
	assert.True(t, empty.Empty())
	assert.Equal(t, noResults, empty.Context())

	src := Sources{
		Wiki:       []Snippet{{Title: "Go", Snippet: "A language."}},
		Definition: "go: to move",
	}
	ctx := src.Context()
	assert.Contains(t, ctx, "Wikipedia:\n- Go: A language.")
	assert.Contains(t, ctx, "Definition: go: to move")
	assert.Equal(t, "go: to move", src.FallbackReply())

	src.Weather = "Oslo: 3°C, overcast."
	assert.Equal(t, "Oslo: 3°C, overcast.", src.FallbackReply())

	assert.Equal(t, "Go: A language.", Sources{Wiki: src.Wiki}.FallbackReply())
	assert.Equal(t, "Mars: rover lands", Sources{News: []Snippet{{Title: "Mars", Snippet: "rover lands"}}}.FallbackReply())
}

func TestTrimText(t *testing.T) {
	assert.Equal(t, "short", trimText("short", 10))
	assert.Equal(t, "hello...", trimText("hello world", 6))
	assert.Equal(t, "héllo...", trimText("héllo wörld", 5))
}

type upstream struct {
	server   *httptest.Server
	requests atomic.Int32
}

func newUpstream(t *testing.T, routes map[string]http.HandlerFunc) *upstream {
	t.Helper()
	u := &upstream{}
	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.requests.Add(1)
		assert.Equal(t, core.ParleyUserAgent, r.Header.Get("User-Agent"))
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) endpoints() Endpoints {
	base := u.server.URL
	return Endpoints{
		Wikipedia:      base + "/wiki",
		Geocoding:      base + "/geo",
		Forecast:       base + "/forecast",
		FreeDictionary: base + "/dict/",
		Datamuse:       base + "/datamuse",
		Wiktionary:     base + "/wiktionary",
		MerriamWebster: base + "/mw/",
		Google:         base + "/google",
		Serper:         base + "/serper",
		Brave:          base + "/brave",
		Tavily:         base + "/tavily",
		NewsAPI:        base + "/news",
	}
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

var noRetry = &retry.Config{MaxRetries: 0, BackoffFactor: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

type stubModel struct {
	reply    string
	err      error
	received []core.Message
}

func (m *stubModel) Name() string { return "stub" }

func (m *stubModel) Chat(_ context.Context, history []core.Message) (core.Message, error) {
	m.received = history
	return core.Message{Role: core.RoleAssistant, Content: m.reply}, m.err
}

func emptyLookups() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/wiki":       jsonHandler(`{"query":{"search":[]}}`),
		"/dict/":      http.NotFound,
		"/datamuse":   jsonHandler(`[]`),
		"/wiktionary": jsonHandler(`{"query":{"pages":{"-1":{}}}}`),
	}
}

func TestService_QueryWeather(t *testing.T) {
	routes := emptyLookups()
	routes["/geo"] = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Paris", r.URL.Query().Get("name"))
		jsonHandler(`{"results":[{"name":"Paris","latitude":48.85,"longitude":2.35}]}`)(w, r)
	}
	routes["/forecast"] = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "48.85", r.URL.Query().Get("latitude"))
		jsonHandler(`{"current":{"temperature_2m":18.4,"weather_code":2}}`)(w, r)
	}
	up := newUpstream(t, routes)

	svc := New(config.KnowledgeConfig{Enabled: true}, WithEndpoints(up.endpoints()), WithRetryConfig(noRetry))
	reply, err := svc.Query(context.Background(), "weather in Paris")

	require.NoError(t, err)
	assert.Equal(t, "Paris: 18°C, partly cloudy.", reply)
}

func TestService_QueryWikipediaWithSynthesis(t *testing.T) {
	routes := emptyLookups()
	routes["/wiki"] = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "who founded rome", r.URL.Query().Get("srsearch"))
		jsonHandler(`{"query":{"search":[{"title":"Founding of Rome","snippet":"<span class=\"searchmatch\">Romulus</span> and Remus"}]}}`)(w, r)
	}
	up := newUpstream(t, routes)

	model := &stubModel{reply: "  Romulus.  "}
	svc := New(config.KnowledgeConfig{Enabled: true},
		WithEndpoints(up.endpoints()),
		WithRetryConfig(noRetry),
		WithSynthesizer(model),
	)
	reply, err := svc.Query(context.Background(), "who founded rome")

	require.NoError(t, err)
	assert.Equal(t, "Romulus.", reply)
	require.Len(t, model.received, 2)
	assert.Equal(t, core.RoleSystem, model.received[0].Role)
	assert.Contains(t, model.received[1].Content, "Founding of Rome: Romulus and Remus")
	assert.True(t, strings.HasSuffix(model.received[1].Content, "Q: who founded rome"))
}

func TestService_SynthesisFailureFallsBack(t *testing.T) {
	routes := emptyLookups()
	routes["/wiki"] = jsonHandler(`{"query":{"search":[{"title":"Go","snippet":"A programming language"}]}}`)
	up := newUpstream(t, routes)

	model := &stubModel{err: assert.AnError}
	svc := New(config.KnowledgeConfig{Enabled: true}, WithEndpoints(up.endpoints()), WithRetryConfig(noRetry), WithSynthesizer(model))
	reply, err := svc.Query(context.Background(), "golang language history")

	require.NoError(t, err)
	assert.Equal(t, "Go: A programming language", reply)
}

func TestService_ChitchatSkipsLookups(t *testing.T) {
	up := newUpstream(t, emptyLookups())
	svc := New(config.KnowledgeConfig{Enabled: true}, WithEndpoints(up.endpoints()), WithRetryConfig(noRetry))

	reply, err := svc.Query(context.Background(), "hello!")
	require.NoError(t, err)
	assert.Empty(t, reply)
	assert.Zero(t, up.requests.Load())
}

func TestService_DisabledSkipsLookups(t *testing.T) {
	up := newUpstream(t, emptyLookups())
	svc := New(config.KnowledgeConfig{Enabled: false}, WithEndpoints(up.endpoints()), WithRetryConfig(noRetry))

	reply, err := svc.Query(context.Background(), "who founded rome")
	require.NoError(t, err)
	assert.Empty(t, reply)
	assert.Zero(t, up.requests.Load())
}

func TestService_NothingFound(t *testing.T) {
	up := newUpstream(t, emptyLookups())
	svc := New(config.KnowledgeConfig{Enabled: true}, WithEndpoints(up.endpoints()), WithRetryConfig(noRetry))

	reply, err := svc.Query(context.Background(), "zxqv blorft")
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestService_UpstreamErrorsAreSwallowed(t *testing.T) {
	up := newUpstream(t, map[string]http.HandlerFunc{
		"/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	})
	svc := New(config.KnowledgeConfig{Enabled: true}, WithEndpoints(up.endpoints()), WithRetryConfig(noRetry))

	reply, err := svc.Query(context.Background(), "define ephemeral")
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestService_Define(t *testing.T) {
	routes := emptyLookups()
	routes["/dict/"] = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dict/ephemeral", r.URL.Path)
		jsonHandler(`[{"phonetic":"/ɪˈfɛm(ə)rəl/","meanings":[{"partOfSpeech":"adjective","definitions":[{"definition":"Lasting a very short time.","example":"fashions are ephemeral"}],"synonyms":["fleeting","brief"]}]}]`)(w, r)
	}
	routes["/datamuse"] = jsonHandler(`[{"word":"ephemeral","defs":["adj\tlasting a very short time"]},{"word":"ephemera"}]`)
	routes["/wiktionary"] = jsonHandler(`{"query":{"pages":{"123":{"extract":"Lasting for a short period of time."}}}}`)
	routes["/mw/"] = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mw-key", r.URL.Query().Get("key"))
		jsonHandler(`[{"fl":"adjective","shortdef":["lasting one day only"]}]`)(w, r)
	}
	up := newUpstream(t, routes)

	svc := New(config.KnowledgeConfig{Enabled: true, MerriamWebsterAPIKey: "mw-key"}, WithEndpoints(up.endpoints()), WithRetryConfig(noRetry))
	def := svc.define(context.Background(), "ephemeral")

	free := strings.Index(def, "Free Dictionary:\nephemeral [/ɪˈfɛm(ə)rəl/]")
	datamuse := strings.Index(def, "Datamuse, ephemeral:\n  • lasting a very short time")
	wikt := strings.Index(def, "Wiktionary, ephemeral:\nLasting for a short period of time.")
	mw := strings.Index(def, "Merriam-Webster, ephemeral:\n  1. (adjective) lasting one day only")

	require.True(t, free >= 0 && datamuse > free && wikt > datamuse && mw > wikt, def)
	assert.Contains(t, def, "  1. (adjective) Lasting a very short time.")
	assert.Contains(t, def, "     Example: fashions are ephemeral")
	assert.Contains(t, def, "     Synonyms: fleeting, brief")
}

func TestService_DefinitionIsCapped(t *testing.T) {
	routes := emptyLookups()
	routes["/dict/"] = func(w http.ResponseWriter, r *http.Request) {
		long := strings.Repeat("d", 300)
		json.NewEncoder(w).Encode([]map[string]any{{
			"meanings": []map[string]any{{
				"partOfSpeech": "noun",
				"definitions":  []map[string]string{{"definition": long}, {"definition": long}, {"definition": long}},
			}},
		}})
	}
	routes["/wiktionary"] = jsonHandler(`{"query":{"pages":{"1":{"extract":"` + strings.Repeat("x", 400) + `"}}}}`)
	routes["/datamuse"] = func(w http.ResponseWriter, r *http.Request) {
		var items []map[string]any
		for range 2 {
			items = append(items, map[string]any{"word": "w", "defs": []string{
				"n\t" + strings.Repeat("a", 200), "n\t" + strings.Repeat("b", 200), "n\t" + strings.Repeat("c", 200),
			}})
		}
		json.NewEncoder(w).Encode(items)
	}
	up := newUpstream(t, routes)

	svc := New(config.KnowledgeConfig{Enabled: true}, WithEndpoints(up.endpoints()), WithRetryConfig(noRetry))
	def := svc.define(context.Background(), "w")
	assert.Len(t, []rune(def), maxDefinitionLen)
}

func TestMerriamWebster_Suggestions(t *testing.T) {
	up := newUpstream(t, map[string]http.HandlerFunc{
		"/mw/": jsonHandler(`["ephemera","ephemeris"]`),
	})
	svc := New(config.KnowledgeConfig{Enabled: true, MerriamWebsterAPIKey: "k"}, WithEndpoints(up.endpoints()), WithRetryConfig(noRetry))

	got, err := svc.merriamWebster(context.Background(), "ephemerall")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_NewsRequiresKeyAndMention(t *testing.T) {
	routes := emptyLookups()
	routes["/news"] = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mars rover", r.URL.Query().Get("q"))
		assert.Equal(t, "news-key", r.URL.Query().Get("apiKey"))
		jsonHandler(`{"articles":[{"title":""},{"title":"Rover lands","description":"It landed."}]}`)(w, r)
	}
	up := newUpstream(t, routes)

	svc := New(config.KnowledgeConfig{Enabled: true, NewsAPIKey: "news-key"}, WithEndpoints(up.endpoints()), WithRetryConfig(noRetry))
	src := svc.Gather(context.Background(), "latest news on Mars rover")
	require.Len(t, src.News, 1)
	assert.Equal(t, "Rover lands", src.News[0].Title)

	unkeyed := New(config.KnowledgeConfig{Enabled: true}, WithEndpoints(up.endpoints()), WithRetryConfig(noRetry))
	assert.Empty(t, unkeyed.Gather(context.Background(), "latest news on Mars rover").News)
}

func TestWebSearcherSelection(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.KnowledgeConfig
		want string
	}{
		{"none", config.KnowledgeConfig{}, ""},
		{"google needs cse id", config.KnowledgeConfig{GoogleAPIKey: "g"}, ""},
		{"google", config.KnowledgeConfig{GoogleAPIKey: "g", GoogleCSEID: "cx", SerperAPIKey: "s"}, "google"},
		{"serper before brave", config.KnowledgeConfig{SerperAPIKey: "s", BraveAPIKey: "b"}, "serper"},
		{"brave before tavily", config.KnowledgeConfig{BraveAPIKey: "b", TavilyAPIKey: "t"}, "brave"},
		{"tavily", config.KnowledgeConfig{TavilyAPIKey: "t"}, "tavily"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Enabled = true
			assert.Equal(t, tt.want, New(tt.cfg).Status().Web)
		})
	}
}

func TestSerperSearch(t *testing.T) {
	up := newUpstream(t, map[string]http.HandlerFunc{
		"/serper": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "sk", r.Header.Get("X-API-KEY"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "golang", body["q"])
			jsonHandler(`{"organic":[{"title":"Go","snippet":"Build simple software","link":"https://go.dev"}]}`)(w, r)
		},
	})
	svc := New(config.KnowledgeConfig{Enabled: true, SerperAPIKey: "sk"}, WithEndpoints(up.endpoints()), WithRetryConfig(noRetry))

	got, err := svc.web.Search(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, []Snippet{{Title: "Go", Snippet: "Build simple software", Link: "https://go.dev"}}, got)
}

func TestService_Status(t *testing.T) {
	svc := New(config.KnowledgeConfig{Enabled: true, MerriamWebsterAPIKey: "k", NewsAPIKey: "n"}, WithSynthesizer(&stubModel{}))
	st := svc.Status()

	assert.True(t, st.Wikipedia)
	assert.True(t, st.News)
	assert.True(t, st.Synthesis)
	assert.Equal(t, []string{"free_dictionary", "datamuse", "wiktionary", "merriam_webster"}, st.DictionarySources)
}
