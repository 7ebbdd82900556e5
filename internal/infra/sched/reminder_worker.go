package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	red "biolink-saas/internal/infra/redis"
	"biolink-saas/internal/usecase"
)

const reminderLockKey = "lock:expiry_reminders"

// ReminderWorker periodically emails users whose plan is about to expire.
// Only the instance holding the Redis lock runs a given tick.
type ReminderWorker struct {
	interval   time.Duration
	withinDays int
	reminderUC usecase.ReminderUseCase
	locker     red.Locker
	log        *zerolog.Logger
}

func NewReminderWorker(interval time.Duration, withinDays int, reminderUC usecase.ReminderUseCase, locker red.Locker, logger *zerolog.Logger) *ReminderWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	compLog := logger.With().Str("component", "ReminderWorker").Logger()
	return &ReminderWorker{
		interval:   interval,
		withinDays: withinDays,
		reminderUC: reminderUC,
		locker:     locker,
		log:        &compLog,
	}
}

func (w *ReminderWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting reminder worker")
	// Run once on startup, then on every tick
	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping reminder worker")
			return ctx.Err()
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *ReminderWorker) runOnce(ctx context.Context) {
	if w.locker != nil {
		token, err := w.locker.TryLock(ctx, reminderLockKey, w.interval)
		if err != nil {
			if errors.Is(err, red.ErrLockHeld) {
				w.log.Debug().Msg("reminder run skipped, lock held elsewhere")
			} else {
				w.log.Error().Err(err).Msg("reminder lock failed")
			}
			return
		}
		defer func() {
			if err := w.locker.Unlock(context.WithoutCancel(ctx), reminderLockKey, token); err != nil {
				w.log.Warn().Err(err).Msg("reminder unlock failed")
			}
		}()
	}

	sent, err := w.reminderUC.SendExpiryReminders(ctx, w.withinDays)
	if err != nil {
		w.log.Error().Err(err).Msg("reminder run failed")
	}
	if sent > 0 {
		w.log.Info().Int("count", sent).Msg("expiry reminders sent")
	}
}
