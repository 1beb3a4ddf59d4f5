package tasks

import (
	"context"
	"fmt"
)

// newAutosaveFlushTask creates the task that saves every document with unsaved
// edits, covering autosaves that failed or were lost.
func newAutosaveFlushTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "autosave_flush")

	return func(ctx context.Context) error {
		dirty := deps.Sessions.DirtyCount()
		if dirty == 0 {
			log.DebugContext(ctx, "No unsaved documents")
			return nil
		}

		if err := deps.Sessions.FlushAll(ctx); err != nil {
			return fmt.Errorf("autosave flush failed: %w", err)
		}

		log.InfoContext(ctx, "Unsaved documents flushed", "count", dirty)
		return nil
	}
}
