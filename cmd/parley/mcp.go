package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/parley/internal/transport/mcpserver"
	"github.com/sandevgo/parley/pkg/log"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve Parley as an MCP server over stdio",
	Long:  `Exposes the ask, teach and facts tools to MCP clients. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// stdout carries the protocol
		var flushLog func()
		ctx, flushLog = setupLoggerTo(ctx, os.Stderr)
		defer flushLog()

		a := newApp(ctx)
		defer a.close(ctx)

		server := mcpserver.NewServer(a.chat, a.brain, os.Stdin, os.Stdout)
		log.FromCtx(ctx).Info().Msg("serving mcp over stdio")
		return server.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
