package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot     *tele.Bot
	chat    core.ChatService
	sender  *sender
	ownerID int64
}

func NewBot(ctx context.Context, cfg core.TelegramConfig, chat core.ChatService) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		chat:    chat,
		sender:  newSender(b),
		ownerID: cfg.GetTelegramOwnerID(),
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Only the owner may talk to the bot.
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Name() string { return "telegram" }

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx, ok := c.Get(baseContextKey).(context.Context)
	if !ok {
		ctx = context.Background()
	}

	_ = c.Notify(tele.Typing)

	reply := b.chat.Run(ctx, sessionID(c.Chat().ID), c.Text())
	return b.sender.sendMarkdown(ctx, c.Chat(), reply)
}

func sessionID(chatID int64) string {
	return fmt.Sprintf("telegram-%d", chatID)
}
