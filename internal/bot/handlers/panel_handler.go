package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/textbot/internal/metrics"
	"github.com/edgard/textbot/internal/session"
)

const (
	panelCallbackPrefix = "cmd:"
	panelTitle          = "🛠 Command panel"
)

// panelLayout is the button grid of the command panel, by command name.
var panelLayout = [][]string{
	{"upper", "lower", "title", "sentence"},
	{"clean", "dedup"},
	{"reverse_letters", "reverse_words", "reverse_lines"},
	{"sort_asc", "sort_desc"},
	{"stats", "copy", "download"},
	{"clear", "theme"},
}

var panelLabels = map[string]string{
	"stats":    "📊 Stats",
	"copy":     "📋 Copy",
	"download": "💾 Download",
	"clear":    "🗑 Clear",
}

func init() {
	for _, op := range transformCatalog {
		panelLabels[op.command] = op.label
	}
}

// PanelMarkup builds the inline keyboard panel. The theme button shows the icon
// of the theme it switches to.
func PanelMarkup(theme session.Theme) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(panelLayout))
	for _, names := range panelLayout {
		row := make([]models.InlineKeyboardButton, 0, len(names))
		for _, name := range names {
			label := panelLabels[name]
			if name == "theme" {
				label = theme.Icon() + " Theme"
			}
			row = append(row, models.InlineKeyboardButton{Text: label, CallbackData: panelCallbackPrefix + name})
		}
		rows = append(rows, row)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// panelHandler shows the command panel.
type panelHandler struct {
	deps  HandlerDeps
	title string
}

func (h panelHandler) run(ctx context.Context, b *bot.Bot, inv invocation) string {
	theme, err := h.deps.Sessions.Theme(ctx, inv.userID)
	if err != nil {
		h.deps.Logger.WarnContext(ctx, "Failed to load theme, using default", "error", err, "user_id", inv.userID)
	}

	title := h.title
	if title == "" {
		title = panelTitle
	}
	if !h.deps.send(ctx, b, inv.chatID, title, PanelMarkup(theme)) {
		return metrics.OutcomeError
	}
	return metrics.OutcomeSuccess
}

// NewPanelCallbackHandler returns a handler for command panel buttons. Each
// button runs the command of the same name.
func NewPanelCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return panelCallbackHandler{deps: deps, runners: commandRunners(deps)}.Handle
}

type panelCallbackHandler struct {
	deps    HandlerDeps
	runners map[string]runner
}

func (h panelCallbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "panel_callback")

	if update.CallbackQuery == nil {
		log.WarnContext(ctx, "Panel callback handler received update without callback query", "update_id", update.ID)
		return
	}
	q := update.CallbackQuery
	name := strings.TrimPrefix(q.Data, panelCallbackPrefix)

	r, known := h.runners[name]
	inv, messageID, ok := callbackInvocation(q)
	if !known || !ok {
		log.WarnContext(ctx, "Ignoring panel button", "data", q.Data, "known", known)
		h.deps.answerCallback(ctx, b, q.ID, "")
		return
	}

	h.deps.answerCallback(ctx, b, q.ID, "")

	log.InfoContext(ctx, "Handling panel button", "command", name, "chat_id", inv.chatID, "user_id", inv.userID)
	outcome := r.run(ctx, b, inv)
	metrics.RecordCommand(name, outcome)

	if name == "theme" && outcome == metrics.OutcomeSuccess {
		h.refresh(ctx, b, inv, messageID)
	}
}

// refresh redraws the panel so the theme button shows the new icon.
func (h panelCallbackHandler) refresh(ctx context.Context, b *bot.Bot, inv invocation, messageID int) {
	if messageID == 0 {
		return
	}
	theme, err := h.deps.Sessions.Theme(ctx, inv.userID)
	if err != nil {
		return
	}

	editCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	if _, err := b.EditMessageReplyMarkup(editCtx, &bot.EditMessageReplyMarkupParams{
		ChatID:      inv.chatID,
		MessageID:   messageID,
		ReplyMarkup: PanelMarkup(theme),
	}); err != nil {
		h.deps.Logger.WarnContext(ctx, "Failed to refresh command panel", "error", err, "chat_id", inv.chatID)
	}
}
