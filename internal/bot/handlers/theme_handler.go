package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"

	"github.com/edgard/textbot/internal/notify"
)

// themeHandler toggles the light/dark theme of the user.
type themeHandler struct {
	deps HandlerDeps
}

func (h themeHandler) run(ctx context.Context, b *bot.Bot, inv invocation) string {
	theme, err := h.deps.Sessions.ToggleTheme(ctx, inv.userID)
	if err != nil {
		return h.deps.fail(ctx, b, inv.chatID, "Failed to toggle theme", err)
	}
	return h.deps.notify(ctx, b, inv.chatID, notify.KindSuccess, fmt.Sprintf("Switched to %s mode!", theme))
}
