// Package session keeps each user's working document and theme in memory,
// backed by the settings store. Edits are persisted after a quiet period; theme
// changes and clears are persisted at once.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/edgard/textbot/internal/database"
	"github.com/edgard/textbot/internal/metrics"
)

// Storage keys of the per-user settings.
const (
	KeyContent = "textProcessorContent"
	KeyTheme   = "textProcessorTheme"
)

const flushTimeout = 10 * time.Second

type state struct {
	text    string
	theme   Theme
	dirty   bool
	version uint64
}

// Manager owns all user sessions.
type Manager struct {
	store     database.Store
	debouncer *Debouncer
	logger    *slog.Logger

	// persistMu orders document writes to the store. Acquired before mu.
	persistMu sync.Mutex

	mu       sync.Mutex
	sessions map[int64]*state
}

// NewManager creates a session manager. Text edits are saved through debouncer.
func NewManager(store database.Store, debouncer *Debouncer, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:     store,
		debouncer: debouncer,
		logger:    logger.With("component", "session_manager"),
		sessions:  make(map[int64]*state),
	}
}

// loadLocked returns the session of userID, reading it from the store on first use.
// m.mu must be held.
func (m *Manager) loadLocked(ctx context.Context, userID int64) (*state, error) {
	if st, ok := m.sessions[userID]; ok {
		return st, nil
	}

	settings, err := m.store.GetUserSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session for user %d: %w", userID, err)
	}

	st := &state{
		text:  settings[KeyContent],
		theme: ParseTheme(settings[KeyTheme]),
	}
	m.sessions[userID] = st
	metrics.ActiveSessions.Set(float64(len(m.sessions)))

	m.logger.DebugContext(ctx, "Session loaded", "user_id", userID, "theme", st.theme, "text_length", utf8.RuneCountInString(st.text))
	return st, nil
}

// Text returns the current document of userID.
func (m *Manager) Text(ctx context.Context, userID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.loadLocked(ctx, userID)
	if err != nil {
		return "", err
	}
	return st.text, nil
}

// SetText replaces the document of userID and schedules an autosave.
func (m *Manager) SetText(ctx context.Context, userID int64, text string) error {
	m.mu.Lock()
	st, err := m.loadLocked(ctx, userID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	st.text = text
	st.dirty = true
	st.version++
	m.mu.Unlock()

	metrics.DocumentSize.Observe(float64(utf8.RuneCountInString(text)))

	err = m.debouncer.Schedule(userID, func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := m.Flush(flushCtx, userID); err != nil {
			m.logger.Error("Autosave failed", "user_id", userID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule autosave: %w", err)
	}
	return nil
}

// Clear empties the document of userID and deletes it from the store at once.
func (m *Manager) Clear(ctx context.Context, userID int64) error {
	m.debouncer.Cancel(userID)

	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	m.mu.Lock()
	st, err := m.loadLocked(ctx, userID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	st.text = ""
	st.dirty = false
	st.version++
	m.mu.Unlock()

	if err := m.store.DeleteSetting(ctx, userID, KeyContent); err != nil {
		return fmt.Errorf("failed to clear document: %w", err)
	}
	return nil
}

// Theme returns the theme of userID.
func (m *Manager) Theme(ctx context.Context, userID int64) (Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.loadLocked(ctx, userID)
	if err != nil {
		return ThemeLight, err
	}
	return st.theme, nil
}

// ToggleTheme flips the theme of userID, persists it and returns the new theme.
func (m *Manager) ToggleTheme(ctx context.Context, userID int64) (Theme, error) {
	m.mu.Lock()
	st, err := m.loadLocked(ctx, userID)
	if err != nil {
		m.mu.Unlock()
		return ThemeLight, err
	}
	previous := st.theme
	st.theme = previous.Toggle()
	next := st.theme
	m.mu.Unlock()

	if err := m.store.SaveSetting(ctx, userID, KeyTheme, next.String()); err != nil {
		m.mu.Lock()
		if st.theme == next {
			st.theme = previous
		}
		m.mu.Unlock()
		return previous, fmt.Errorf("failed to save theme: %w", err)
	}
	return next, nil
}

// Flush persists the document of userID if it changed since the last save.
func (m *Manager) Flush(ctx context.Context, userID int64) error {
	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	m.mu.Lock()
	st, ok := m.sessions[userID]
	if !ok || !st.dirty {
		m.mu.Unlock()
		return nil
	}
	text, version := st.text, st.version
	m.mu.Unlock()

	err := m.store.SaveSetting(ctx, userID, KeyContent, text)
	metrics.RecordAutosave(err)
	if err != nil {
		return fmt.Errorf("failed to save document for user %d: %w", userID, err)
	}

	m.mu.Lock()
	if st.version == version {
		st.dirty = false
	}
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "Document saved", "user_id", userID, "text_length", utf8.RuneCountInString(text))
	return nil
}

// FlushAll persists every changed document and cancels their pending autosaves.
func (m *Manager) FlushAll(ctx context.Context) error {
	m.mu.Lock()
	var dirty []int64
	for userID, st := range m.sessions {
		if st.dirty {
			dirty = append(dirty, userID)
		}
	}
	m.mu.Unlock()

	var errs []error
	for _, userID := range dirty {
		m.debouncer.Cancel(userID)
		if err := m.Flush(ctx, userID); err != nil {
			errs = append(errs, err)
		}
	}

	if len(dirty) > 0 {
		m.logger.InfoContext(ctx, "Flushed sessions", "count", len(dirty), "failed", len(errs))
	}
	return errors.Join(errs...)
}

// DirtyCount returns the number of sessions with unsaved changes.
func (m *Manager) DirtyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, st := range m.sessions {
		if st.dirty {
			n++
		}
	}
	return n
}
