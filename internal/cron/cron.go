package cron

import (
	"context"
	"log/slog"
	"time"
)

const DefaultCleanupInterval = 24 * time.Hour

// ResetPurger is the part of the user service the cleanup task drives.
type ResetPurger interface {
	PurgeExpiredResets(now time.Time) (int64, error)
}

// StartCleanupTask purges expired password reset tokens once on startup and
// then every interval until ctx is cancelled. The returned channel closes
// when the task exits.
func StartCleanupTask(ctx context.Context, users ResetPurger, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		slog.Info("starting background cleanup task", "interval", interval)

		runCleanup(users)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runCleanup(users)
			}
		}
	}()
	return done
}

func runCleanup(users ResetPurger) {
	n, err := users.PurgeExpiredResets(time.Now())
	if err != nil {
		slog.Error("failed to purge expired reset tokens", "error", err)
		return
	}
	if n > 0 {
		slog.Info("purged expired reset tokens", "count", n)
	}
}
