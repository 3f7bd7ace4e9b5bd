package main

import (
	"fmt"
	"strings"

	"github.com/sandevgo/parley/pkg/conv"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask a single question and print the reply",
	Long:  `Runs one utterance through the brain without conversation history and prints the reply.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLoggerTo(ctx, cmd.ErrOrStderr())
		defer flushLog()

		a := newApp(ctx)
		defer a.close(ctx)

		reply := a.chat.Reply(ctx, strings.Join(args, " "), nil)
		_, err := fmt.Fprintln(cmd.OutOrStdout(), conv.MarkdownToPlainText([]byte(reply)))
		return err
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
