package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// Debouncer runs a function once per key after a quiet period. Scheduling again
// for the same key before the period ends replaces the pending run.
type Debouncer struct {
	scheduler gocron.Scheduler
	delay     time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[int64]uuid.UUID
	stopped bool
}

// NewDebouncer creates and starts a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration, logger *slog.Logger) (*Debouncer, error) {
	if delay <= 0 {
		return nil, fmt.Errorf("debounce delay must be positive, got %v", delay)
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "debouncer")

	s, err := gocron.NewScheduler(gocron.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to create debounce scheduler: %w", err)
	}
	s.Start()

	return &Debouncer{
		scheduler: s,
		delay:     delay,
		logger:    log,
		pending:   make(map[int64]uuid.UUID),
	}, nil
}

// Schedule arranges for fn to run once the key has been quiet for the delay.
func (d *Debouncer) Schedule(key int64, fn func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return fmt.Errorf("debouncer stopped, cannot schedule %d", key)
	}
	d.removeLocked(key)

	var jobID uuid.UUID
	job, err := d.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(time.Now().Add(d.delay))),
		gocron.NewTask(func() {
			d.mu.Lock()
			current, ok := d.pending[key]
			if !ok || current != jobID {
				d.mu.Unlock()
				return
			}
			delete(d.pending, key)
			d.mu.Unlock()

			fn()
		}),
		gocron.WithName(fmt.Sprintf("debounce-%d", key)),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule debounced job for %d: %w", key, err)
	}

	jobID = job.ID()
	d.pending[key] = jobID
	return nil
}

// Cancel drops the pending run for key. It reports whether one was pending.
func (d *Debouncer) Cancel(key int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.removeLocked(key)
}

// Pending reports whether a run is scheduled for key.
func (d *Debouncer) Pending(key int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Stop drops all pending runs and shuts down the scheduler, waiting for running
// functions to return. Later calls do nothing.
func (d *Debouncer) Stop() error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	clear(d.pending)
	d.mu.Unlock()

	if err := d.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop debounce scheduler: %w", err)
	}
	return nil
}

func (d *Debouncer) removeLocked(key int64) bool {
	id, ok := d.pending[key]
	if !ok {
		return false
	}
	delete(d.pending, key)
	if err := d.scheduler.RemoveJob(id); err != nil {
		d.logger.Debug("Debounced job already gone", "key", key, "error", err)
	}
	return true
}
