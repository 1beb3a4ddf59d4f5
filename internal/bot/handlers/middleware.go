// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/textbot/internal/metrics"
	"github.com/edgard/textbot/internal/notify"
)

// AllowedUsers creates a middleware that rejects users missing from the
// configured allow-list. Messages get an "unauthorized" reply, callback queries
// get it as a toast. With an empty allow-list every update passes.
func AllowedUsers(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			log := deps.Logger.With("middleware", "AllowedUsers")

			switch {
			case update.Message != nil && update.Message.From != nil:
				userID := update.Message.From.ID
				if deps.Config.IsUserAllowed(userID) {
					break
				}
				chatID := update.Message.Chat.ID
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", chatID)
				deps.notify(ctx, bot, chatID, notify.KindError, deps.Config.Messages.Unauthorized)
				metrics.RecordCommand("unauthorized", metrics.OutcomeError)
				return
			case update.CallbackQuery != nil:
				userID := update.CallbackQuery.From.ID
				if deps.Config.IsUserAllowed(userID) {
					break
				}
				log.WarnContext(ctx, "Unauthorized callback query", "user_id", userID)
				deps.answerCallback(ctx, bot, update.CallbackQuery.ID, deps.Config.Messages.Unauthorized)
				metrics.RecordCommand("unauthorized", metrics.OutcomeError)
				return
			}

			next(ctx, bot, update)
		}
	}
}
