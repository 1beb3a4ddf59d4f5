// Package config loads and validates the application configuration. Values come
// from built-in defaults, an optional YAML file and TEXTBOT_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// ErrConfiguration is returned when the configuration cannot be read or is invalid.
var ErrConfiguration = errors.New("configuration error")

// EnvPrefix is the prefix of environment variables that override config keys.
// TEXTBOT_TELEGRAM_TOKEN sets telegram.token.
const EnvPrefix = "TEXTBOT"

// Config is the root configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Autosave  AutosaveConfig  `mapstructure:"autosave"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds bot credentials and chat limits.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
	// AllowedUserIDs restricts the bot to the listed users. Empty allows everyone.
	AllowedUserIDs []int64 `mapstructure:"allowed_user_ids" validate:"dive,gt=0"`
	// MaxMessageLength is the longest reply, in UTF-16 code units as Telegram
	// counts them, before output is truncated.
	MaxMessageLength int `mapstructure:"max_message_length" validate:"min=100,max=4096"`
	// MaxUploadBytes limits the size of uploaded text files.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"min=1024"`
	// ServerURL overrides the Bot API endpoint. Empty uses the public API.
	ServerURL string `mapstructure:"server_url" validate:"omitempty,url"`

	// BotInfo is filled at startup from getMe.
	BotInfo *models.User `mapstructure:"-"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// AutosaveConfig controls debounced persistence of edited text.
type AutosaveConfig struct {
	Delay time.Duration `mapstructure:"delay" validate:"min=10ms,max=1m"`
}

// SchedulerConfig lists periodic tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a task and sets its cron schedule (seconds field allowed).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr" validate:"required_if=Enabled true"`
}

// MessagesConfig holds the fixed user-visible strings.
type MessagesConfig struct {
	Welcome        string `mapstructure:"welcome" validate:"required"`
	Help           string `mapstructure:"help" validate:"required"`
	Unauthorized   string `mapstructure:"unauthorized" validate:"required"`
	GeneralError   string `mapstructure:"general_error" validate:"required"`
	NoText         string `mapstructure:"no_text" validate:"required"`
	NoTextCopy     string `mapstructure:"no_text_copy" validate:"required"`
	NoTextDownload string `mapstructure:"no_text_download" validate:"required"`
	Copied         string `mapstructure:"copied" validate:"required"`
	Downloaded     string `mapstructure:"downloaded" validate:"required"`
	ClearConfirm   string `mapstructure:"clear_confirm" validate:"required"`
	Cleared        string `mapstructure:"cleared" validate:"required"`
	ClearCancelled string `mapstructure:"clear_cancelled" validate:"required"`
	TextSaved      string `mapstructure:"text_saved" validate:"required"`
	Truncated      string `mapstructure:"truncated" validate:"required"`
	UnknownCommand string `mapstructure:"unknown_command" validate:"required"`
	BadUpload      string `mapstructure:"bad_upload" validate:"required"`
}

var defaults = map[string]any{
	"logger.level": "info",
	"logger.json":  false,

	"telegram.token":              "",
	"telegram.allowed_user_ids":   []int64{},
	"telegram.max_message_length": 4096,
	"telegram.max_upload_bytes":   1 << 20,
	"telegram.server_url":         "",

	"database.path": "textbot.db",

	"autosave.delay": time.Second,

	"scheduler.tasks": map[string]any{
		"sql_maintenance": map[string]any{"enabled": true, "schedule": "0 0 3 * * *"},
		"autosave_flush":  map[string]any{"enabled": true, "schedule": "0 */5 * * * *"},
	},

	"metrics.enabled": false,
	"metrics.addr":    ":9090",

	"messages.welcome": "👋 Send me any text and I will keep it as your working document.\n" +
		"Use the buttons below or the command menu to transform it. /help lists every command.",
	"messages.help": "Send text to replace your document, then:\n" +
		"/upper /lower /title /sentence - change case\n" +
		"/clean - remove extra spaces\n" +
		"/dedup - remove duplicate lines\n" +
		"/reverse_letters /reverse_words /reverse_lines - reverse\n" +
		"/sort_asc /sort_desc - sort lines\n" +
		"/stats - show statistics\n" +
		"/copy - send the text back\n" +
		"/download - get the text as a file\n" +
		"/clear - delete the text\n" +
		"/theme - switch light/dark mode\n" +
		"/panel - show the command panel\n\n" +
		"You can also upload a .txt file to replace your text.",
	"messages.unauthorized":     "You are not allowed to use this bot.",
	"messages.general_error":    "Something went wrong. Please try again later.",
	"messages.no_text":          "Please enter some text first!",
	"messages.no_text_copy":     "No text to copy!",
	"messages.no_text_download": "No text to download!",
	"messages.copied":           "Text ready to copy!",
	"messages.downloaded":       "Text file downloaded!",
	"messages.clear_confirm":    "Are you sure you want to clear all text?",
	"messages.cleared":          "Text cleared!",
	"messages.clear_cancelled":  "Nothing was cleared.",
	"messages.text_saved":       "Text saved!",
	"messages.truncated":        "… (truncated, use /download for the full text)",
	"messages.unknown_command":  "Unknown command. /help lists every command.",
	"messages.bad_upload":       "Please send a plain text (.txt) file.",
}

// LoadConfig reads the configuration file at path (a missing file is not an
// error), applies TEXTBOT_* environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrConfiguration, path, err)
			}
			slog.Debug("Configuration file loaded", "path", path)
		} else if errors.Is(err, os.ErrNotExist) {
			slog.Info("Configuration file not found, using defaults and environment", "path", path)
		} else {
			return nil, fmt.Errorf("%w: failed to stat config file %s: %v", ErrConfiguration, path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the struct tags of the whole configuration.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// IsUserAllowed reports whether userID may use the bot. An empty allow-list
// admits every user.
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.Telegram.AllowedUserIDs) == 0 {
		return true
	}
	return slices.Contains(c.Telegram.AllowedUserIDs, userID)
}
