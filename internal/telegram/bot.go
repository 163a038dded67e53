package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ai-hub/internal/provider"
	"ai-hub/internal/resolve"
)

type Bot struct {
	api  *tgbotapi.BotAPI
	s    sender
	chat *resolve.Chat
	res  *resolve.Resolver
	reg  *provider.Registry
	log  *zap.SugaredLogger
}

func New(botToken string, chat *resolve.Chat, res *resolve.Resolver, reg *provider.Registry, log *zap.SugaredLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:  api,
		s:    botAPISender{api: api},
		chat: chat,
		res:  res,
		reg:  reg,
		log:  log,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			// Each user request is an independent task; the only
			// shared state is the memory store.
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	defer func() {
		if rec := recover(); rec != nil {
			b.log.Errorw("handler panic", "chat", msg.Chat.ID, "panic", rec)
			b.sendText(msg.Chat.ID, banner+"something went wrong, please try again")
		}
	}()
	if msg.From == nil || !msg.IsCommand() || msg.Command() != "ai" {
		return
	}
	b.log.Infow("incoming command", "user", msg.From.ID, "args", msg.CommandArguments())
	b.dispatch(ctx, msg.Chat.ID, msg.From.ID, msg.CommandArguments())
}

func (b *Bot) sendText(chatID int64, text string) {
	if _, err := b.s.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warnw("failed to send message", "chat", chatID, "err", err)
	}
}
