package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"

	"github.com/edgard/textbot/internal/notify"
)

// copyHandler sends the document back as a plain message so it can be copied.
type copyHandler struct {
	deps HandlerDeps
}

func (h copyHandler) run(ctx context.Context, b *bot.Bot, inv invocation) string {
	current, err := h.deps.Sessions.Text(ctx, inv.userID)
	if err != nil {
		return h.deps.fail(ctx, b, inv.chatID, "Failed to load text", err)
	}

	if strings.TrimSpace(current) == "" {
		return h.deps.notify(ctx, b, inv.chatID, notify.KindWarning, h.deps.Config.Messages.NoTextCopy)
	}

	msgs := h.deps.Config.Messages
	if !h.deps.send(ctx, b, inv.chatID, fitMessage(current, h.deps.Config.Telegram.MaxMessageLength, msgs.Truncated), nil) {
		return h.deps.notify(ctx, b, inv.chatID, notify.KindError, msgs.GeneralError)
	}
	return h.deps.notify(ctx, b, inv.chatID, notify.KindSuccess, msgs.Copied)
}
