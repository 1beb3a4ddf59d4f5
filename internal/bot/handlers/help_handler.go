package handlers

import (
	"context"

	"github.com/go-telegram/bot"

	"github.com/edgard/textbot/internal/metrics"
)

// helpHandler lists the available commands.
type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) run(ctx context.Context, b *bot.Bot, inv invocation) string {
	if !h.deps.send(ctx, b, inv.chatID, withBotName(h.deps, h.deps.Config.Messages.Help), nil) {
		return metrics.OutcomeError
	}
	h.deps.Logger.DebugContext(ctx, "Successfully sent help message", "chat_id", inv.chatID)
	return metrics.OutcomeSuccess
}
