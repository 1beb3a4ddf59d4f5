package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
)

// startHandler greets the user and shows the command panel.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) run(ctx context.Context, b *bot.Bot, inv invocation) string {
	return panelHandler{deps: h.deps, title: withBotName(h.deps, h.deps.Config.Messages.Welcome)}.run(ctx, b, inv)
}

// withBotName replaces the @botname placeholder with the bot's username.
func withBotName(deps HandlerDeps, msg string) string {
	if info := deps.Config.Telegram.BotInfo; info != nil && info.Username != "" {
		return strings.ReplaceAll(msg, "@botname", "@"+info.Username)
	}
	return msg
}
