package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/textbot/internal/config"
	"github.com/edgard/textbot/internal/metrics"
	"github.com/edgard/textbot/internal/notify"
	"github.com/edgard/textbot/internal/session"
)

const sendMessageTimeout = 10 * time.Second

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Sessions *session.Manager
	// HTTPClient downloads uploaded files. Nil uses http.DefaultClient.
	HTTPClient *http.Client
	// Now returns the current time. Nil uses time.Now.
	Now func() time.Time
}

func (d HandlerDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d HandlerDeps) httpClient() *http.Client {
	if d.HTTPClient != nil {
		return d.HTTPClient
	}
	return http.DefaultClient
}

// send delivers text to chatID and logs a failure.
func (d HandlerDeps) send(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) bool {
	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	params := &bot.SendMessageParams{ChatID: chatID, Text: text}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := b.SendMessage(sendCtx, params); err != nil {
		d.Logger.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
		return false
	}
	return true
}

// notify sends a status notification and returns the metrics outcome matching kind.
func (d HandlerDeps) notify(ctx context.Context, b *bot.Bot, chatID int64, kind notify.Kind, message string) string {
	if err := notify.Send(ctx, b, chatID, kind, message); err != nil {
		d.Logger.ErrorContext(ctx, "Failed to send notification", "error", err, "chat_id", chatID, "kind", kind)
	}
	switch kind {
	case notify.KindWarning:
		return metrics.OutcomeWarning
	case notify.KindError:
		return metrics.OutcomeError
	default:
		return metrics.OutcomeSuccess
	}
}

// fail logs err and tells the user something went wrong.
func (d HandlerDeps) fail(ctx context.Context, b *bot.Bot, chatID int64, msg string, err error) string {
	d.Logger.ErrorContext(ctx, msg, "error", err, "chat_id", chatID)
	return d.notify(ctx, b, chatID, notify.KindError, d.Config.Messages.GeneralError)
}
