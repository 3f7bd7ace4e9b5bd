package log

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// MigrationLogger routes goose output into the context logger under the
// "migrate" component.
type MigrationLogger struct {
	logger zerolog.Logger
}

// Fatalf is called by goose when a migration cannot be applied.
func (m *MigrationLogger) Fatalf(format string, v ...any) {
	m.logger.Fatal().Msg(line(format, v...))
}

func (m *MigrationLogger) Printf(format string, v ...any) {
	m.logger.Info().Msg(line(format, v...))
}

// line drops the newline goose appends to every message.
func line(format string, v ...any) string {
	return strings.TrimRight(fmt.Sprintf(format, v...), "\n")
}

func NewMigrationLogger(ctx context.Context) *MigrationLogger {
	return &MigrationLogger{
		logger: FromCtx(ctx).With().Str("component", "migrate").Logger(),
	}
}
