package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/textbot/internal/metrics"
	"github.com/edgard/textbot/internal/notify"
)

// Callback data of the clear confirmation buttons.
const (
	clearCallbackPrefix = "clear:"
	clearConfirmData    = clearCallbackPrefix + "yes"
	clearCancelData     = clearCallbackPrefix + "no"
)

// clearHandler asks for confirmation before the document is deleted.
type clearHandler struct {
	deps HandlerDeps
}

func (h clearHandler) run(ctx context.Context, b *bot.Bot, inv invocation) string {
	markup := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "✅ Yes, clear", CallbackData: clearConfirmData},
			{Text: "✖️ No", CallbackData: clearCancelData},
		}},
	}
	if !h.deps.send(ctx, b, inv.chatID, notify.Format(notify.KindWarning, h.deps.Config.Messages.ClearConfirm), markup) {
		return metrics.OutcomeError
	}
	return metrics.OutcomeSuccess
}

// NewClearCallbackHandler returns a handler for the clear confirmation buttons.
func NewClearCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return clearCallbackHandler{deps}.Handle
}

type clearCallbackHandler struct {
	deps HandlerDeps
}

func (h clearCallbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "clear_callback")

	if update.CallbackQuery == nil {
		log.WarnContext(ctx, "Clear callback handler received update without callback query", "update_id", update.ID)
		return
	}
	q := update.CallbackQuery

	inv, messageID, ok := callbackInvocation(q)
	if !ok {
		h.deps.answerCallback(ctx, b, q.ID, "")
		return
	}

	if q.Data != clearConfirmData {
		h.deps.answerCallback(ctx, b, q.ID, h.deps.Config.Messages.ClearCancelled)
		h.removeButtons(ctx, b, inv.chatID, messageID)
		metrics.RecordCommand("clear_cancel", metrics.OutcomeSuccess)
		return
	}

	h.deps.answerCallback(ctx, b, q.ID, "")
	h.removeButtons(ctx, b, inv.chatID, messageID)

	if err := h.deps.Sessions.Clear(ctx, inv.userID); err != nil {
		metrics.RecordCommand("clear_confirm", h.deps.fail(ctx, b, inv.chatID, "Failed to clear text", err))
		return
	}

	log.InfoContext(ctx, "Text cleared", "chat_id", inv.chatID, "user_id", inv.userID)
	metrics.RecordCommand("clear_confirm", h.deps.sendStatus(ctx, b, inv, notify.KindSuccess, h.deps.Config.Messages.Cleared, ""))
}

// removeButtons drops the Yes/No keyboard so the confirmation cannot be answered twice.
func (h clearCallbackHandler) removeButtons(ctx context.Context, b *bot.Bot, chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	editCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	if _, err := b.EditMessageReplyMarkup(editCtx, &bot.EditMessageReplyMarkupParams{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{}},
	}); err != nil {
		h.deps.Logger.WarnContext(ctx, "Failed to remove confirmation buttons", "error", err, "chat_id", chatID)
	}
}
