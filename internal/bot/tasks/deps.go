// Package tasks implements the scheduled tasks of the bot: database maintenance
// and the periodic autosave safety net.
package tasks

import (
	"log/slog"

	"github.com/edgard/textbot/internal/config"
	"github.com/edgard/textbot/internal/database"
	"github.com/edgard/textbot/internal/session"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Store    database.Store
	Sessions *session.Manager
	Config   *config.Config
}
