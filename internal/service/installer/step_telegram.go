package installer

import (
	"fmt"
	"strconv"
)

func telegramSelected(state *InstallState) bool {
	return state.Channels[channelTelegram]
}

// NewTelegramTokenStep collects the Telegram bot token.
func NewTelegramTokenStep() Step {
	return newInputStep("Enter your Telegram Bot Token",
		telegramSelected,
		func(state *InstallState, v string) error {
			state.Settings.TelegramToken = v
			return nil
		},
		secret(), placeholder("123456789:ABCDEF..."),
	)
}

// NewTelegramOwnerStep collects the only user id the bot will answer.
func NewTelegramOwnerStep() Step {
	return newInputStep("Enter your Telegram User ID (Owner)",
		telegramSelected,
		func(state *InstallState, v string) error {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("owner id must be a positive number")
			}
			state.Settings.TelegramOwnerID = id
			return nil
		},
		placeholder("123456789"),
	)
}
