package worker

import (
	"context"
	"log/slog"
	"time"

	"farmassist-backend/internal/services"
)

const defaultSweepInterval = 6 * time.Hour

// MaintenanceWorker runs the reminder retention sweep on a fixed schedule
// across every user known to the reminder index.
type MaintenanceWorker struct {
	reminders *services.ReminderService
	ticker    *time.Ticker
	interval  time.Duration
}

func NewMaintenanceWorker(reminders *services.ReminderService, interval time.Duration) *MaintenanceWorker {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &MaintenanceWorker{
		reminders: reminders,
		interval:  interval,
	}
}

// Run blocks until ctx is cancelled. An initial sweep runs immediately so a
// restart does not postpone cleanup by a full interval.
func (w *MaintenanceWorker) Run(ctx context.Context) {
	slog.Info("maintenance worker started", "interval", w.interval)
	w.ticker = time.NewTicker(w.interval)
	defer w.ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-w.ticker.C:
			w.sweep(ctx)
		case <-ctx.Done():
			slog.Info("maintenance worker shutting down")
			return
		}
	}
}

func (w *MaintenanceWorker) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	userIDs, err := w.reminders.ListUsers(sweepCtx)
	if err != nil {
		slog.Error("retention sweep failed to list users", "error", err)
		return
	}

	totalRemoved := 0
	for _, userID := range userIDs {
		removed, err := w.reminders.CleanOldReminders(sweepCtx, userID)
		if err != nil {
			slog.Error("retention sweep failed for user", "user_id", userID, "error", err)
			continue
		}
		totalRemoved += removed
	}

	slog.Info("retention sweep finished", "users", len(userIDs), "reminders_removed", totalRemoved)
}
