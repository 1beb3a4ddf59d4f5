package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-telegram/bot"

	"github.com/edgard/textbot/internal/metrics"
	"github.com/edgard/textbot/internal/notify"
	"github.com/edgard/textbot/internal/session"
	"github.com/edgard/textbot/internal/text"
)

// statsHandler processes the /stats command.
type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) run(ctx context.Context, b *bot.Bot, inv invocation) string {
	current, err := h.deps.Sessions.Text(ctx, inv.userID)
	if err != nil {
		return h.deps.fail(ctx, b, inv.chatID, "Failed to load text", err)
	}
	theme, err := h.deps.Sessions.Theme(ctx, inv.userID)
	if err != nil {
		return h.deps.fail(ctx, b, inv.chatID, "Failed to load theme", err)
	}

	if !h.deps.send(ctx, b, inv.chatID, FormatStatsCard(theme, text.ComputeStatistics(current)), nil) {
		return metrics.OutcomeError
	}
	return metrics.OutcomeSuccess
}

// FormatStatsCard renders statistics as a chat message. The theme selects the
// bullet style.
func FormatStatsCard(theme session.Theme, st text.Statistics) string {
	bullet := "▫️"
	if theme == session.ThemeDark {
		bullet = "▪️"
	}

	rows := []struct {
		label string
		value string
	}{
		{"Words", strconv.Itoa(st.WordCount)},
		{"Characters", strconv.Itoa(st.CharCount)},
		{"Characters (no spaces)", strconv.Itoa(st.CharCountNoSpaces)},
		{"Sentences", strconv.Itoa(st.SentenceCount)},
		{"Paragraphs", strconv.Itoa(st.ParagraphCount)},
		{"Reading time", text.FormatReadingTime(st.ReadingTimeMinutes)},
	}

	var sb strings.Builder
	sb.WriteString("📊 Statistics")
	for _, row := range rows {
		fmt.Fprintf(&sb, "\n%s %s: %s", bullet, row.label, row.value)
	}
	return sb.String()
}

// sendStatus sends a notification followed by the statistics of doc.
func (d HandlerDeps) sendStatus(ctx context.Context, b *bot.Bot, inv invocation, kind notify.Kind, message, doc string) string {
	theme, err := d.Sessions.Theme(ctx, inv.userID)
	if err != nil {
		d.Logger.WarnContext(ctx, "Failed to load theme, using default", "error", err, "user_id", inv.userID)
	}

	body := notify.Format(kind, message) + "\n\n" + FormatStatsCard(theme, text.ComputeStatistics(doc))
	if !d.send(ctx, b, inv.chatID, body, nil) {
		return metrics.OutcomeError
	}
	if kind == notify.KindWarning {
		return metrics.OutcomeWarning
	}
	return metrics.OutcomeSuccess
}

// fitMessage shortens s to at most limit UTF-16 code units, the unit Telegram
// measures messages in, ending with suffix when cut.
func fitMessage(s string, limit int, suffix string) string {
	if utf16Len(s) <= limit {
		return s
	}
	budget := limit - utf16Len(suffix) - 1
	cut, used := len(s), 0
	for i, r := range s {
		used += unitLen(r)
		if used > budget {
			cut = i
			break
		}
	}
	return s[:cut] + "\n" + suffix
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += unitLen(r)
	}
	return n
}

// unitLen counts invalid runes as one unit, matching their U+FFFD replacement.
func unitLen(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
