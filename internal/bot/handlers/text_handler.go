package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/textbot/internal/metrics"
	"github.com/edgard/textbot/internal/notify"
)

// NewTextHandler returns the default handler. Plain text replaces the user's
// document, an uploaded text file does the same, and anything that looks like
// an unknown command gets a hint.
func NewTextHandler(deps HandlerDeps) bot.HandlerFunc {
	return AllowedUsers(deps)(textHandler{deps}.Handle)
}

type textHandler struct {
	deps HandlerDeps
}

func (h textHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "text")

	if update.CallbackQuery != nil {
		log.DebugContext(ctx, "Answering unmatched callback query", "data", update.CallbackQuery.Data)
		h.deps.answerCallback(ctx, b, update.CallbackQuery.ID, "")
		return
	}

	if update.Message == nil || update.Message.From == nil {
		log.DebugContext(ctx, "Ignoring update without message", "update_id", update.ID)
		return
	}
	msg := update.Message
	inv := invocation{chatID: msg.Chat.ID, userID: msg.From.ID}

	switch {
	case msg.Document != nil:
		metrics.RecordCommand("upload", h.upload(ctx, b, inv, msg.Document))
	case strings.HasPrefix(msg.Text, "/"):
		log.InfoContext(ctx, "Unknown command", "text", msg.Text, "chat_id", inv.chatID)
		metrics.RecordCommand("unknown", h.deps.notify(ctx, b, inv.chatID, notify.KindWarning, h.deps.Config.Messages.UnknownCommand))
	case msg.Text != "":
		metrics.RecordCommand("text", h.save(ctx, b, inv, msg.Text))
	default:
		log.DebugContext(ctx, "Ignoring message without text", "chat_id", inv.chatID, "message_id", msg.ID)
	}
}

// save replaces the document of the user with doc and reports its statistics.
func (h textHandler) save(ctx context.Context, b *bot.Bot, inv invocation, doc string) string {
	if err := h.deps.Sessions.SetText(ctx, inv.userID, doc); err != nil {
		return h.deps.fail(ctx, b, inv.chatID, "Failed to store text", err)
	}
	return h.deps.sendStatus(ctx, b, inv, notify.KindSuccess, h.deps.Config.Messages.TextSaved, doc)
}
