package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandevgo/parley/internal/config"
	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/internal/providers/embedding"
	"github.com/sandevgo/parley/internal/providers/knowledge"
	"github.com/sandevgo/parley/internal/providers/llm"
	"github.com/sandevgo/parley/internal/service/brain"
	"github.com/sandevgo/parley/internal/service/chat"
	"github.com/sandevgo/parley/internal/service/command"
	"github.com/sandevgo/parley/internal/storage/jsonfile"
	"github.com/sandevgo/parley/internal/storage/memory"
	"github.com/sandevgo/parley/internal/storage/sqlite"
	"github.com/sandevgo/parley/internal/transport/cli"
	"github.com/sandevgo/parley/internal/transport/httpapi"
	"github.com/sandevgo/parley/internal/transport/telegram"
	"github.com/sandevgo/parley/pkg/log"
	"github.com/sandevgo/parley/pkg/srv"
)

const tokenizerLoadTimeout = 30 * time.Second

// app is the transport-independent part of the process: storage, the
// brain with its collaborators, and the chat service on top.
type app struct {
	cfg      *config.AppConfig
	brain    *brain.Brain
	chat     *chat.Service
	status   core.StatusReporter
	services []srv.Service
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	knowledgeCfg := config.NewKnowledgeConfig(ctx)
	embeddingCfg := config.NewEmbeddingConfig(ctx)

	a := &app{cfg: appCfg}

	// 2. Storage
	facts, messages, err := a.initStorage(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	// 3. Language models
	models, err := llm.NewProviders(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM providers")
	}
	responder := llm.NewFallback(models, llmCfg.GetContextTokens())
	if len(models) > 0 && llmCfg.GetContextTokens() > 0 {
		go warmTokenizer(ctx)
	}

	// 4. Embeddings
	embedder, err := embedding.NewEmbedder(ctx, embeddingCfg)
	if err != nil && !errors.Is(err, core.ErrEmbedderUnavailable) {
		logger.Fatal().Err(err).Msg("failed to initialize embedder")
	}

	// 5. Knowledge
	var knowledgeOpts []knowledge.Option
	if key := knowledgeCfg.GetOpenAIAPIKey(); key != "" {
		synth := llm.NewOpenAI(key, llmCfg.GetOpenAIModel(), llm.WithMaxTokens(280), llm.WithTemperature(0.2))
		knowledgeOpts = append(knowledgeOpts, knowledge.WithSynthesizer(synth))
	}
	knowledgeSvc := knowledge.New(knowledgeCfg, knowledgeOpts...)

	// 6. Brain
	brainOpts := []brain.Option{
		brain.WithKnowledge(knowledgeSvc),
		brain.WithStageTimeout(appCfg.GetStageTimeout()),
	}
	if len(models) > 0 {
		brainOpts = append(brainOpts, brain.WithResponder(responder))
	}
	if embedder != nil {
		brainOpts = append(brainOpts, brain.WithEmbedder(embedder))
	}
	if catalog := loadCatalog(ctx, appCfg.GetRuntimePath()); catalog != nil {
		brainOpts = append(brainOpts, brain.WithCatalog(catalog))
	}
	a.brain = brain.New(facts, brainOpts...)

	// 7. Status
	a.status = core.StatusFunc(func() core.Status {
		st := core.Status{
			Name:      "parley",
			Version:   core.ParleyVersion,
			Storage:   appCfg.GetStorageBackend(),
			Models:    responder.Names(),
			Knowledge: knowledgeSvc.Status(),
		}
		if named, ok := embedder.(interface{ Name() string }); ok {
			st.Embedder = named.Name()
		}
		return st
	})

	// 8. Commands and chat
	router := command.New(command.NewCommands(a.brain, a.status))
	a.chat = chat.NewService(a.brain, messages, router, appCfg.GetHistoryLimit())

	return a
}

func (a *app) initStorage(ctx context.Context) (core.FactRepository, core.MessagesRepository, error) {
	if a.cfg.GetStorageBackend() == config.StorageJSON {
		log.FromCtx(ctx).Info().Str("path", a.cfg.GetFactsPath()).Msg("using json fact store")
		return jsonfile.NewFactStore(a.cfg.GetFactsPath()), memory.NewHistory(4 * a.cfg.GetHistoryLimit()), nil
	}

	db, err := sqlite.NewDB(ctx, a.cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, err
	}
	a.services = append(a.services, srv.NewCleanup("sqlite", db.Close))
	return sqlite.NewFactsRepo(db), sqlite.NewMessagesRepo(db), nil
}

// close releases storage when the process exits without running services.
func (a *app) close(ctx context.Context) {
	srv.StopServices(ctx, a.services)
}

// NewServices builds the app plus every enabled transport.
func NewServices(ctx context.Context, stop func()) []srv.Service {
	logger := log.FromCtx(ctx)
	a := newApp(ctx)

	transports, err := a.initTransports(ctx, stop)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	if len(transports) == 0 {
		logger.Warn().Msg("no transport enabled, set ENABLE_CLI, ENABLE_HTTP or ENABLE_TELEGRAM")
	}

	// transports stop before storage closes
	return append(transports, a.services...)
}

func (a *app) initTransports(ctx context.Context, stop func()) ([]srv.Service, error) {
	var services []srv.Service

	// Telegram Bot
	if a.cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.chat)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	// HTTP API
	if a.cfg.IsHTTPSelected() {
		services = append(services, httpapi.NewServer(ctx, a.cfg.GetHTTPAddr(), a.chat, a.status))
	}

	// Interactive terminal
	if a.cfg.IsCLISelected() {
		rl, err := cli.NewReadLine(a.chat, a.cfg.GetRuntimePath(), stop)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	return services, nil
}

// loadCatalog reads <runtime>/intents.yaml when present. A broken file is
// logged and the built-in catalog is used instead.
func loadCatalog(ctx context.Context, runtimePath string) *brain.Catalog {
	logger := log.FromCtx(ctx)
	path := filepath.Join(runtimePath, "intents.yaml")

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Err(err).Str("path", path).Msg("failed to open intent catalog")
		}
		return nil
	}
	defer f.Close()

	catalog, err := brain.LoadCatalog(f)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("ignoring intent catalog")
		return nil
	}

	logger.Debug().Str("path", path).Int("intents", len(catalog.Intents)).Msg("loaded intent catalog")
	return catalog
}

// warmTokenizer fetches the prompt encoding off the request path. Prompts
// are budgeted with an estimate until it is ready.
func warmTokenizer(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, tokenizerLoadTimeout)
	defer cancel()

	if err := llm.LoadTokenizer(ctx); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("tokenizer unavailable, estimating prompt size")
	}
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
