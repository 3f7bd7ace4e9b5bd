package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/parley/pkg/log"
)

const (
	StorageSQLite = "sqlite"
	StorageJSON   = "json"
)

type AppConfig struct {
	RuntimePath string `env:"PARLEY_RUNTIME_PATH" envDefault:".parley"`
	// sqlite keeps facts and history in one database, json keeps facts in
	// learned.json and history in memory.
	Storage string `env:"PARLEY_STORAGE" envDefault:"sqlite"`

	// Transport Flags
	EnableTelegram bool   `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool   `env:"ENABLE_CLI" envDefault:"true"`
	EnableHTTP     bool   `env:"ENABLE_HTTP" envDefault:"false"`
	HTTPAddr       string `env:"PARLEY_HTTP_ADDR" envDefault:":8080"`

	// Context Management
	HistoryLimit int           `env:"PARLEY_HISTORY_LIMIT" envDefault:"10"`
	StageTimeout time.Duration `env:"PARLEY_STAGE_TIMEOUT" envDefault:"20s"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetStorageBackend() string {
	if c.Storage == StorageJSON {
		return StorageJSON
	}
	return StorageSQLite
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "parley.db")
}

func (c AppConfig) GetFactsPath() string {
	return filepath.Join(c.RuntimePath, "learned.json")
}

func (c AppConfig) GetHistoryLimit() int {
	if c.HistoryLimit <= 0 {
		return 10
	}
	return c.HistoryLimit
}

func (c AppConfig) GetStageTimeout() time.Duration {
	return c.StageTimeout
}

func (c AppConfig) GetHTTPAddr() string {
	return c.HTTPAddr
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

func (c AppConfig) IsCLISelected() bool {
	return c.EnableCLI
}

func (c AppConfig) IsHTTPSelected() bool {
	return c.EnableHTTP
}
