package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/textbot/internal/metrics"
)

// invocation identifies who ran a command and where the reply goes.
type invocation struct {
	chatID int64
	userID int64
}

// runner executes one command and returns its metrics outcome. Commands are
// reachable both as slash commands and as panel buttons.
type runner interface {
	run(ctx context.Context, b *bot.Bot, inv invocation) string
}

// commandHandler adapts a runner to a slash-command handler.
type commandHandler struct {
	deps   HandlerDeps
	name   string
	runner runner
}

func newCommandHandler(deps HandlerDeps, name string, r runner) bot.HandlerFunc {
	return commandHandler{deps: deps, name: name, runner: r}.Handle
}

func (h commandHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", h.name)

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Command handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	inv := invocation{chatID: update.Message.Chat.ID, userID: update.Message.From.ID}
	log.InfoContext(ctx, "Handling command", "command", h.name, "chat_id", inv.chatID, "user_id", inv.userID)

	outcome := h.runner.run(ctx, b, inv)
	metrics.RecordCommand(h.name, outcome)
}
