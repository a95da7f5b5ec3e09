package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
)

// Alerter pushes short operator messages to the admin team.
type Alerter interface {
	Alert(ctx context.Context, text string)
}

type NopAlerter struct{}

func (NopAlerter) Alert(context.Context, string) {}

// TelegramAlerter posts alerts into one admin chat.
type TelegramAlerter struct {
	api    *bot.Bot
	chatID int64
}

func NewTelegramAlerter(token string, chatID int64) (*TelegramAlerter, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot instance: %w", err)
	}
	return &TelegramAlerter{api: b, chatID: chatID}, nil
}

// NewAlerter falls back to a no-op when Telegram is not configured or
// unreachable.
func NewAlerter(token string, chatID int64) Alerter {
	if token == "" || chatID == 0 {
		return NopAlerter{}
	}
	a, err := NewTelegramAlerter(token, chatID)
	if err != nil {
		slog.Warn("telegram alerts disabled", "error", err)
		return NopAlerter{}
	}
	return a
}

func (a *TelegramAlerter) Alert(ctx context.Context, text string) {
	if _, err := a.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: a.chatID,
		Text:   text,
	}); err != nil {
		slog.Error("Error sending telegram alert", "error", err)
	}
}
