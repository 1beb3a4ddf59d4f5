// Package notify sends short status notifications to a Telegram chat.
package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Kind classifies a notification.
type Kind string

// Notification kinds.
const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Prefix returns the symbol shown in front of a notification of this kind.
// Unknown kinds use the success symbol.
func (k Kind) Prefix() string {
	switch k {
	case KindWarning:
		return "⚠️"
	case KindError:
		return "❌"
	default:
		return "✅"
	}
}

// Format renders a notification message.
func Format(kind Kind, message string) string {
	return kind.Prefix() + " " + message
}

// Sender is the part of the Telegram client used to deliver messages.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Send delivers a notification to chatID.
func Send(ctx context.Context, s Sender, chatID int64, kind Kind, message string) error {
	_, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   Format(kind, message),
	})
	if err != nil {
		return fmt.Errorf("failed to send %s notification: %w", kind, err)
	}
	return nil
}
