package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

// NewContextWithLogger installs a console logger writing to stdout and
// returns a context carrying it plus a flush func for the ring buffer.
func NewContextWithLogger(ctx context.Context, debug bool) (context.Context, func()) {
	return NewContextWithWriter(ctx, debug, os.Stdout)
}

// NewContextWithWriter is NewContextWithLogger with an explicit sink.
// The MCP stdio server logs to stderr since stdout carries the protocol.
func NewContextWithWriter(ctx context.Context, debug bool, out io.Writer) (context.Context, func()) {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return ""
	}

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Use a diode (ring buffer) for non-blocking logging
	wr := diode.NewWriter(out, 1000, 5*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "Logger Dropped %d messages\n", missed)
	})

	output := zerolog.ConsoleWriter{
		Out:        wr,
		TimeFormat: time.DateTime,
		NoColor:    out != os.Stdout,
		PartsOrder: []string{
			zerolog.LevelFieldName,
			zerolog.TimestampFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		CallerWithSkipFrameCount(2).
		Logger()

	log.Logger = logger

	return log.With().Logger().WithContext(ctx), func() {
		wr.Close()
	}
}

func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}
