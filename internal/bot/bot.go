// Package bot wires the Telegram poller, the task scheduler and the metrics
// server together and manages their lifecycle.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/textbot/internal/session"
)

const shutdownFlushTimeout = 10 * time.Second

// Poller receives Telegram updates until ctx is cancelled.
type Poller interface {
	Start(ctx context.Context)
}

// Service is a background component that runs until ctx is cancelled.
type Service interface {
	Run(ctx context.Context) error
}

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	poller    Poller
	scheduler *Scheduler
	sessions  *session.Manager
	debouncer *session.Debouncer
	metrics   Service
}

// NewBot creates the orchestrator. metricsServer may be nil.
func NewBot(
	logger *slog.Logger,
	poller Poller,
	scheduler *Scheduler,
	sessions *session.Manager,
	debouncer *session.Debouncer,
	metricsServer Service,
) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		poller:    poller,
		scheduler: scheduler,
		sessions:  sessions,
		debouncer: debouncer,
		metrics:   metricsServer,
	}
}

// Run starts all components and blocks until ctx is cancelled or one of them
// fails. Unsaved documents are flushed before it returns.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener")

		b.poller.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped")

		if gCtx.Err() == nil {
			b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation")
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		b.logger.Info("Starting scheduler")
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	if b.metrics != nil {
		g.Go(func() error {
			return b.metrics.Run(gCtx)
		})
	}

	b.logger.Info("Bot orchestrator running, waiting for shutdown signal or error")
	err := g.Wait()

	b.shutdown()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully")
	return nil
}

// shutdown stops the autosave debouncer and then saves every unsaved document.
// Edits arriving after Stop are refused, so the flush sees the final state.
func (b *Bot) shutdown() {
	if err := b.debouncer.Stop(); err != nil {
		b.logger.Error("Failed to stop autosave debouncer", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownFlushTimeout)
	defer cancel()

	if err := b.sessions.FlushAll(ctx); err != nil {
		b.logger.Error("Failed to flush sessions on shutdown", "error", err)
	}
}
