package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/textbot/internal/metrics"
	"github.com/edgard/textbot/internal/notify"
)

// DownloadFilename returns the name of the exported file for the day of t.
func DownloadFilename(t time.Time) string {
	return "text_processed_" + t.Format(time.DateOnly) + ".txt"
}

// downloadHandler sends the document as a text file.
type downloadHandler struct {
	deps HandlerDeps
}

func (h downloadHandler) run(ctx context.Context, b *bot.Bot, inv invocation) string {
	current, err := h.deps.Sessions.Text(ctx, inv.userID)
	if err != nil {
		return h.deps.fail(ctx, b, inv.chatID, "Failed to load text", err)
	}

	if strings.TrimSpace(current) == "" {
		return h.deps.notify(ctx, b, inv.chatID, notify.KindWarning, h.deps.Config.Messages.NoTextDownload)
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	filename := DownloadFilename(h.deps.now())
	_, err = b.SendDocument(sendCtx, &bot.SendDocumentParams{
		ChatID:   inv.chatID,
		Document: &models.InputFileUpload{Filename: filename, Data: strings.NewReader(current)},
		Caption:  notify.Format(notify.KindSuccess, h.deps.Config.Messages.Downloaded),
	})
	if err != nil {
		return h.deps.fail(ctx, b, inv.chatID, "Failed to send document", err)
	}

	h.deps.Logger.DebugContext(ctx, "Document sent", "chat_id", inv.chatID, "filename", filename)
	return metrics.OutcomeSuccess
}
