package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/parley/pkg/log"
	"github.com/sandevgo/parley/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Parley services",
	Long:  `Initializes storage and the brain, then starts every enabled transport (terminal, HTTP API, Telegram).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting parley")

		// Leaving the terminal chat stops the whole process.
		services := NewServices(ctx, stop)

		// Start services
		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("parley has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
