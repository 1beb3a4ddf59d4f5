// Package database keeps the per-user settings that survive restarts: the
// SQLite handle, the embedded schema and the settings store on top of it.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/edgard/textbot/migrations"

	_ "modernc.org/sqlite" //revive:disable:blank-imports
)

// settingsPragmas apply when the configured path carries no query of its own.
// Panel taps and the maintenance task can hit the file at the same moment, so
// writers wait instead of failing with SQLITE_BUSY.
var settingsPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// NewDB opens the settings database at dbPath and brings its schema up to date.
func NewDB(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", ConnString(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}

	// One connection keeps every settings write serialized.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := ApplyMigrations(db.DB, ExtractDBNameFromPath(dbPath)); err != nil {
		CloseDB(db)
		return nil, fmt.Errorf("prepare settings schema: %w", err)
	}

	slog.Info("Settings database ready", "path", dbPath)
	return db, nil
}

// ConnString returns the driver DSN for path, adding the settings pragmas
// unless path already has its own query parameters.
func ConnString(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	params := make([]string, 0, len(settingsPragmas))
	for _, p := range settingsPragmas {
		params = append(params, "_pragma="+p)
	}
	return path + "?" + strings.Join(params, "&")
}

// CloseDB releases the settings database. A nil handle is ignored.
func CloseDB(db *sqlx.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		slog.Error("Failed to close settings database", "error", err)
		return
	}
	slog.Debug("Settings database closed")
}

// ApplyMigrations upgrades the user settings schema to the newest embedded
// revision and logs the version it ends on.
func ApplyMigrations(db *sql.DB, dbName string) error {
	switch {
	case db == nil:
		return errors.New("no database handle for schema upgrade")
	case dbName == "":
		return errors.New("no database name for schema upgrade")
	}

	migrator, err := newMigrator(db, dbName)
	if err != nil {
		return err
	}

	err = migrator.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("upgrade user settings schema: %w", err)
	}

	version, dirty, verr := migrator.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("read user settings schema version: %w", verr)
	}
	if dirty {
		return fmt.Errorf("user settings schema left dirty at version %d", version)
	}

	slog.Debug("User settings schema current", "database", dbName, "version", version, "changed", err == nil)
	return nil
}

func newMigrator(db *sql.DB, dbName string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("load embedded schema: %w", err)
	}
	drv, err := sqlite.WithInstance(db, &sqlite.Config{DatabaseName: dbName})
	if err != nil {
		return nil, fmt.Errorf("attach schema driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return nil, fmt.Errorf("build schema migrator: %w", err)
	}
	return m, nil
}

// ExtractDBNameFromPath reduces a SQLite DSN to the bare file name: no "file:"
// scheme, no query, percent escapes decoded when they are valid.
func ExtractDBNameFromPath(path string) string {
	name, _, _ := strings.Cut(strings.TrimPrefix(path, "file:"), "?")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}
