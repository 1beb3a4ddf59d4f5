package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// callbackInvocation extracts the chat, user and message of a callback query.
// ok is false when the query carries no chat.
func callbackInvocation(q *models.CallbackQuery) (inv invocation, messageID int, ok bool) {
	inv.userID = q.From.ID
	switch {
	case q.Message.Message != nil:
		inv.chatID = q.Message.Message.Chat.ID
		messageID = q.Message.Message.ID
	case q.Message.InaccessibleMessage != nil:
		inv.chatID = q.Message.InaccessibleMessage.Chat.ID
		messageID = q.Message.InaccessibleMessage.MessageID
	default:
		return inv, 0, false
	}
	return inv, messageID, true
}

// answerCallback stops the loading indicator on the pressed button. A non-empty
// text is shown to the user as a toast.
func (d HandlerDeps) answerCallback(ctx context.Context, b *bot.Bot, queryID, text string) {
	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	if _, err := b.AnswerCallbackQuery(sendCtx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
	}); err != nil {
		d.Logger.ErrorContext(ctx, "Failed to answer callback query", "error", err, "callback_query_id", queryID)
	}
}
