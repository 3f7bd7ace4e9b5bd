package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/conv"
	"github.com/sandevgo/parley/pkg/log"
)

const defaultSessionID = "cli-local"

type ReadLine struct {
	chat   core.ChatService
	rl     *readline.Instance
	onExit func()
}

// NewReadLine opens an interactive prompt. onExit runs when the user leaves
// with "exit", Ctrl+C or Ctrl+D.
func NewReadLine(chat core.ChatService, runtimePath string, onExit func()) (*ReadLine, error) {
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you> ",
		HistoryFile:     filepath.Join(runtimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		chat:   chat,
		rl:     rl,
		onExit: onExit,
	}, nil
}

func (r *ReadLine) Name() string { return "cli" }

func (r *ReadLine) Start(ctx context.Context) error {
	defer func() {
		if r.onExit != nil {
			r.onExit()
		}
	}()

	log.FromCtx(ctx).Info().Msg("chat started. Type 'exit' to quit, /help for commands.")
	return loop(ctx, r.rl, r.rl.Stdout(), r.chat)
}

type lineReader interface {
	Readline() (string, error)
}

func loop(ctx context.Context, in lineReader, out io.Writer, chat core.ChatService) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := in.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		reply := chat.Run(ctx, defaultSessionID, line)
		fmt.Fprintf(out, "parley> %s\n", conv.MarkdownToPlainText([]byte(reply)))
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
