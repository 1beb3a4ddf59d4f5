package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"

	"github.com/edgard/textbot/internal/metrics"
	"github.com/edgard/textbot/internal/notify"
	"github.com/edgard/textbot/internal/text"
)

// transformHandler applies one catalog transform to the user's document.
type transformHandler struct {
	deps HandlerDeps
	op   transformOp
}

func (h transformHandler) run(ctx context.Context, b *bot.Bot, inv invocation) string {
	current, err := h.deps.Sessions.Text(ctx, inv.userID)
	if err != nil {
		return h.deps.fail(ctx, b, inv.chatID, "Failed to load text", err)
	}

	if strings.TrimSpace(current) == "" {
		return h.deps.notify(ctx, b, inv.chatID, notify.KindWarning, h.deps.Config.Messages.NoText)
	}

	start := time.Now()
	res, err := text.Apply(current, h.op.request)
	metrics.ObserveTransform(h.op.command, time.Since(start))
	if err != nil {
		return h.deps.fail(ctx, b, inv.chatID, "Transform failed", err)
	}

	if err := h.deps.Sessions.SetText(ctx, inv.userID, res.Text); err != nil {
		return h.deps.fail(ctx, b, inv.chatID, "Failed to store transformed text", err)
	}

	h.deps.Logger.DebugContext(ctx, "Transform applied",
		"command", h.op.command, "user_id", inv.userID, "removed", res.RemovedCount)

	if res.Text != "" {
		h.deps.send(ctx, b, inv.chatID, fitMessage(res.Text, h.deps.Config.Telegram.MaxMessageLength, h.deps.Config.Messages.Truncated), nil)
	}
	return h.deps.sendStatus(ctx, b, inv, notify.KindSuccess, h.op.success(res), res.Text)
}
