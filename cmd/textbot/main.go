// Package main contains the entrypoint for the text processing Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/textbot/internal/bot"
	"github.com/edgard/textbot/internal/bot/handlers"
	"github.com/edgard/textbot/internal/bot/tasks"
	"github.com/edgard/textbot/internal/config"
	"github.com/edgard/textbot/internal/database"
	"github.com/edgard/textbot/internal/logger"
	"github.com/edgard/textbot/internal/metrics"
	"github.com/edgard/textbot/internal/session"
	"github.com/edgard/textbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components and returns an exit
// code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	debouncer, err := session.NewDebouncer(cfg.Autosave.Delay, log)
	if err != nil {
		log.Error("Failed to create autosave debouncer", "error", err)
		return 1
	}
	sessions := session.NewManager(store, debouncer, log)

	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Sessions: sessions,
	}
	tDeps := tasks.TaskDeps{
		Logger:   log,
		Store:    store,
		Sessions: sessions,
		Config:   cfg,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewTextHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, cfg.Telegram.ServerURL, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		_ = debouncer.Stop()
		return 1
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		_ = debouncer.Stop()
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		_ = debouncer.Stop()
		return 1
	}
	if err := telegram.SetCommands(ctx, tg, log, handlers.BotCommands()); err != nil {
		log.Warn("Failed to publish command menu", "error", err)
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		_ = debouncer.Stop()
		return 1
	}

	var metricsServer bot.Service
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Addr, log, store.Ping)
	}

	app := bot.NewBot(log, tg, sched, sessions, debouncer, metricsServer)

	log.Info("Starting bot")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully")
	return 0
}
