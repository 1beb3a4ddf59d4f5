package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/textbot/internal/notify"
)

const (
	fileDownloadTimeout = 30 * time.Second
	defaultServerURL    = "https://api.telegram.org"
)

// errNotText marks an upload that is not a UTF-8 plain text file.
var errNotText = errors.New("uploaded file is not plain text")

// upload reads an uploaded text file and uses it as the user's document.
func (h textHandler) upload(ctx context.Context, b *bot.Bot, inv invocation, doc *models.Document) string {
	log := h.deps.Logger.With("handler", "upload")
	msgs := h.deps.Config.Messages
	limit := h.deps.Config.Telegram.MaxUploadBytes

	if !looksLikeText(doc) || int64(doc.FileSize) > limit {
		log.InfoContext(ctx, "Rejected upload", "file_name", doc.FileName, "mime_type", doc.MimeType, "size", doc.FileSize)
		return h.deps.notify(ctx, b, inv.chatID, notify.KindWarning, msgs.BadUpload)
	}

	data, err := h.download(ctx, b, doc.FileID, limit)
	if errors.Is(err, errNotText) {
		log.InfoContext(ctx, "Rejected upload content", "file_name", doc.FileName, "error", err)
		return h.deps.notify(ctx, b, inv.chatID, notify.KindWarning, msgs.BadUpload)
	}
	if err != nil {
		return h.deps.fail(ctx, b, inv.chatID, "Failed to download uploaded file", err)
	}

	content := strings.TrimPrefix(string(data), "\uFEFF")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	log.InfoContext(ctx, "Upload accepted", "file_name", doc.FileName, "bytes", len(data), "user_id", inv.userID)
	return h.save(ctx, b, inv, content)
}

// looksLikeText checks the declared type and name of an upload.
func looksLikeText(doc *models.Document) bool {
	if strings.HasPrefix(doc.MimeType, "text/plain") {
		return true
	}
	return doc.MimeType == "" && strings.EqualFold(path.Ext(doc.FileName), ".txt")
}

// download fetches a Telegram file of at most limit bytes and checks that it
// is UTF-8 text.
func (h textHandler) download(ctx context.Context, b *bot.Bot, fileID string, limit int64) (data []byte, err error) {
	if ctx.Err() != nil {
		return nil, fmt.Errorf("context cancelled before file download: %w", ctx.Err())
	}
	downloadCtx, cancel := context.WithTimeout(ctx, fileDownloadTimeout)
	defer cancel()

	fileObj, err := b.GetFile(downloadCtx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if fileObj.FilePath == "" {
		return nil, fmt.Errorf("empty file path returned from Telegram")
	}

	serverURL := h.deps.Config.Telegram.ServerURL
	if serverURL == "" {
		serverURL = defaultServerURL
	}
	url := fmt.Sprintf("%s/file/bot%s/%s", strings.TrimSuffix(serverURL, "/"), h.deps.Config.Telegram.Token, fileObj.FilePath)

	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := h.deps.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	data, err = io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: larger than %d bytes", errNotText, limit)
	}
	if !utf8.Valid(data) || !strings.HasPrefix(http.DetectContentType(data), "text/plain") {
		return nil, errNotText
	}
	return data, nil
}
