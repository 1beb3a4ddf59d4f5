package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/textbot/internal/logger"
)

// ErrNotFound is returned when a requested setting does not exist.
var ErrNotFound = errors.New("setting not found")

// Setting is one stored value of one user.
type Setting struct {
	UserID    int64     `db:"user_id"`
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Store is the per-user key/value persistence used for the working document
// and display preferences.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetSetting returns the value stored under key for userID, or ErrNotFound.
	GetSetting(ctx context.Context, userID int64, key string) (string, error)

	// GetUserSettings returns every value stored for userID, keyed by setting key.
	GetUserSettings(ctx context.Context, userID int64) (map[string]string, error)

	// SaveSetting inserts or replaces the value stored under key for userID.
	SaveSetting(ctx context.Context, userID int64, key, value string) error

	// DeleteSetting removes the value stored under key for userID. Removing a
	// missing value is not an error.
	DeleteSetting(ctx context.Context, userID int64, key string) error

	// RunSQLMaintenance compacts the database file.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx.
func NewStore(db *sqlx.DB, log *slog.Logger) Store {
	if log == nil {
		log = logger.Discard()
	}
	return &sqlxStore{
		db:     db,
		logger: log.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetSetting(ctx context.Context, userID int64, key string) (string, error) {
	if key == "" {
		return "", errors.New("setting key cannot be empty")
	}

	var value string
	err := s.db.GetContext(ctx, &value,
		`SELECT value FROM user_settings WHERE user_id = ? AND key = ?;`, userID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: user %d key %q", ErrNotFound, userID, key)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting setting", "user_id", userID, "key", key, "error", err)
		return "", fmt.Errorf("failed to get setting %q for user %d: %w", key, userID, err)
	}

	return value, nil
}

func (s *sqlxStore) GetUserSettings(ctx context.Context, userID int64) (map[string]string, error) {
	var rows []Setting
	err := s.db.SelectContext(ctx, &rows,
		`SELECT user_id, key, value FROM user_settings WHERE user_id = ?;`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting user settings", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get settings for user %d: %w", userID, err)
	}

	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}

	s.logger.DebugContext(ctx, "Fetched user settings", "user_id", userID, "count", len(settings))
	return settings, nil
}

func (s *sqlxStore) SaveSetting(ctx context.Context, userID int64, key, value string) error {
	if key == "" {
		return errors.New("setting key cannot be empty")
	}

	setting := Setting{
		UserID:    userID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving setting", "user_id", userID, "key", key, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	query := `
        INSERT INTO user_settings (user_id, key, value, updated_at)
        VALUES (:user_id, :key, :value, :updated_at)
        ON CONFLICT (user_id, key) DO UPDATE SET
            value = excluded.value,
            updated_at = excluded.updated_at;
    `
	if _, err := tx.NamedExecContext(ctx, query, setting); err != nil {
		s.logger.ErrorContext(ctx, "Error saving setting", "user_id", userID, "key", key, "error", err)
		return fmt.Errorf("failed to save setting %q for user %d: %w", key, userID, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit setting", "user_id", userID, "key", key, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Setting saved", "user_id", userID, "key", key, "size", len(value))
	return nil
}

func (s *sqlxStore) DeleteSetting(ctx context.Context, userID int64, key string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM user_settings WHERE user_id = ? AND key = ?;`, userID, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting setting", "user_id", userID, "key", key, "error", err)
		return fmt.Errorf("failed to delete setting %q for user %d: %w", key, userID, err)
	}

	if affected, err := result.RowsAffected(); err == nil {
		s.logger.DebugContext(ctx, "Setting deleted", "user_id", userID, "key", key, "affected", affected)
	}
	return nil
}

// RunSQLMaintenance executes VACUUM, which SQLite only allows outside a transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context done before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}
