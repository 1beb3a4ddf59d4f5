package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/textbot/internal/bot/handlers"
	"github.com/edgard/textbot/internal/config"
	"github.com/edgard/textbot/internal/database"
	"github.com/edgard/textbot/internal/logger"
	"github.com/edgard/textbot/internal/session"
)

const testToken = "123:test-token"

// apiCall is one request received by the fake Bot API.
type apiCall struct {
	method    string
	fields    map[string]string
	files     map[string]string
	fileNames map[string]string
}

// fakeAPI is an httptest Bot API that records calls and serves uploaded files.
type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
	files map[string]string
	srv   *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	api := &fakeAPI{files: make(map[string]string)}
	api.srv = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.srv.Close)
	return api
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	filePrefix := "/file/bot" + testToken + "/documents/"
	if strings.HasPrefix(r.URL.Path, filePrefix) {
		a.mu.Lock()
		content, ok := a.files[strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, filePrefix), ".txt")]
		a.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, content)
		return
	}

	call := apiCall{
		method:    r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:],
		fields:    make(map[string]string),
		files:     make(map[string]string),
		fileNames: make(map[string]string),
	}
	readFields(r, &call)

	a.mu.Lock()
	a.calls = append(a.calls, call)
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch call.method {
	case "answerCallbackQuery", "setMyCommands":
		_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
	case "getFile":
		id := call.fields["file_id"]
		fmt.Fprintf(w, `{"ok":true,"result":{"file_id":%q,"file_unique_id":"u-%s","file_path":"documents/%s.txt"}}`, id, id, id)
	default:
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}}`)
	}
}

func readFields(r *http.Request, call *apiCall) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			for k, v := range body {
				if s, ok := v.(string); ok {
					call.fields[k] = s
					continue
				}
				raw, _ := json.Marshal(v)
				call.fields[k] = string(raw)
			}
		}
		return
	}

	if err := r.ParseMultipartForm(1 << 20); err == nil {
		for k, v := range r.MultipartForm.Value {
			call.fields[k] = strings.Join(v, "")
		}
		for k, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				f, err := fh.Open()
				if err != nil {
					continue
				}
				data, _ := io.ReadAll(f)
				_ = f.Close()
				call.files[k] = string(data)
				call.fileNames[k] = fh.Filename
			}
		}
		return
	}

	if err := r.ParseForm(); err == nil {
		for k, v := range r.Form {
			call.fields[k] = strings.Join(v, "")
		}
	}
}

// sent returns the calls of method, in order.
func (a *fakeAPI) sent(method string) []apiCall {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []apiCall
	for _, c := range a.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

// texts returns the text of every sendMessage call.
func (a *fakeAPI) texts() []string {
	var out []string
	for _, c := range a.sent("sendMessage") {
		out = append(out, c.fields["text"])
	}
	return out
}

func (a *fakeAPI) addFile(fileID, content string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files[fileID] = content
}

// env bundles a handler registry wired to a fake API and a real SQLite store.
type env struct {
	api      *fakeAPI
	bot      *bot.Bot
	cfg      *config.Config
	sessions *session.Manager
	handlers map[string]handlers.RegisteredHandler
	deps     handlers.HandlerDeps
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("telegram:\n  token: \""+testToken+"\"\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	return cfg
}

func newEnv(t *testing.T, cfg *config.Config) *env {
	t.Helper()

	api := newFakeAPI(t)
	cfg.Telegram.Token = testToken
	cfg.Telegram.ServerURL = api.srv.URL
	cfg.Telegram.BotInfo = &models.User{ID: 999, Username: "textbot_test"}

	db, err := database.NewDB(filepath.Join(t.TempDir(), "handlers.db"))
	if err != nil {
		t.Fatalf("NewDB() unexpected error: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	log := logger.Discard()
	debouncer, err := session.NewDebouncer(time.Minute, log)
	if err != nil {
		t.Fatalf("NewDebouncer() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = debouncer.Stop() })

	sessions := session.NewManager(database.NewStore(db, log), debouncer, log)

	b, err := bot.New(testToken, bot.WithServerURL(api.srv.URL), bot.WithSkipGetMe())
	if err != nil {
		t.Fatalf("bot.New() unexpected error: %v", err)
	}

	deps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Sessions: sessions,
		Now:      func() time.Time { return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC) },
	}

	return &env{
		api:      api,
		bot:      b,
		cfg:      cfg,
		sessions: sessions,
		handlers: handlers.RegisterAllCommands(deps),
		deps:     deps,
	}
}

// command runs the registered handler for a slash command, middleware included.
func (e *env) command(t *testing.T, userID int64, name string) {
	t.Helper()
	e.dispatch(t, "/"+name, messageUpdate(userID, "/"+name))
}

func (e *env) callback(t *testing.T, key string, userID int64, data string) {
	t.Helper()
	e.dispatch(t, key, callbackUpdate(userID, data))
}

func (e *env) dispatch(t *testing.T, key string, update *models.Update) {
	t.Helper()

	h, ok := e.handlers[key]
	if !ok {
		t.Fatalf("no handler registered for %q", key)
	}
	next := h.Handler
	for i := len(h.Middleware) - 1; i >= 0; i-- {
		next = h.Middleware[i](next)
	}
	next(context.Background(), e.bot, update)
}

// message runs the default handler.
func (e *env) message(update *models.Update) {
	handlers.NewTextHandler(e.deps)(context.Background(), e.bot, update)
}

func (e *env) setText(t *testing.T, userID int64, s string) {
	t.Helper()
	if err := e.sessions.SetText(context.Background(), userID, s); err != nil {
		t.Fatalf("SetText() unexpected error: %v", err)
	}
}

func (e *env) text(t *testing.T, userID int64) string {
	t.Helper()
	s, err := e.sessions.Text(context.Background(), userID)
	if err != nil {
		t.Fatalf("Text() unexpected error: %v", err)
	}
	return s
}

func messageUpdate(userID int64, text string) *models.Update {
	return &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   10,
			From: &models.User{ID: userID},
			Chat: models.Chat{ID: userID},
			Text: text,
		},
	}
}

func callbackUpdate(userID int64, data string) *models.Update {
	return &models.Update{
		ID: 2,
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb-1",
			From: models.User{ID: userID},
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{ID: 20, Chat: models.Chat{ID: userID}},
			},
			Data: data,
		},
	}
}

func containsText(texts []string, substr string) bool {
	for _, s := range texts {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
