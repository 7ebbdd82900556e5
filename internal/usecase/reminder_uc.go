package usecase

import (
	"context"
	"fmt"
	"html"
	"sync/atomic"
	"time"

	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/adapter"
	"biolink-saas/internal/domain/ports/repository"
	"biolink-saas/internal/infra/i18n"
	"biolink-saas/internal/infra/logging"
	"biolink-saas/internal/infra/metrics"
	"biolink-saas/internal/infra/worker"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ReminderUseCase = (*reminderUC)(nil)

type ReminderUseCase interface {
	// SendExpiryReminders emails every user whose plan expires within
	// withinDays and who was not reminded since the plan was last granted.
	// It returns how many reminders were sent.
	SendExpiryReminders(ctx context.Context, withinDays int) (int, error)
}

type reminderUC struct {
	users       repository.UserRepository
	plans       PlanUseCase
	mailer      adapter.Mailer
	cache       adapter.CacheInvalidator
	bundle      *i18n.Bundle
	concurrency int
	now         func() time.Time
	log         *zerolog.Logger
}

// NewReminderUseCase builds the use case; concurrency bounds how many emails
// are in flight at once.
func NewReminderUseCase(
	users repository.UserRepository,
	plans PlanUseCase,
	mailer adapter.Mailer,
	cache adapter.CacheInvalidator,
	bundle *i18n.Bundle,
	concurrency int,
	logger *zerolog.Logger,
) ReminderUseCase {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &reminderUC{
		users:       users,
		plans:       plans,
		mailer:      mailer,
		cache:       cache,
		bundle:      bundle,
		concurrency: concurrency,
		now:         time.Now,
		log:         logger,
	}
}

func (r *reminderUC) SendExpiryReminders(ctx context.Context, withinDays int) (int, error) {
	defer logging.TraceDuration(r.log, "ReminderUC.SendExpiryReminders")()

	from := r.now()
	users, err := r.users.FindExpiringWithoutReminder(ctx, repository.NoTX, from, from.AddDate(0, 0, withinDays))
	if err != nil {
		return 0, fmt.Errorf("find expiring users: %w", err)
	}

	var sent atomic.Int64
	pool := worker.NewPool(r.concurrency, r.log)
	pool.Start(ctx)
	for _, u := range users {
		u := u
		if err := pool.Submit(ctx, func(ctx context.Context) error {
			if err := r.remind(ctx, u); err != nil {
				return err
			}
			sent.Add(1)
			return nil
		}); err != nil {
			pool.Wait()
			return int(sent.Load()), err
		}
	}
	pool.Wait()
	return int(sent.Load()), ctx.Err()
}

func (r *reminderUC) remind(ctx context.Context, u *model.User) error {
	log := r.log.With().Str("user_id", u.ID).Logger()

	planName := u.PlanID
	if p, err := r.plans.GetPlanByID(ctx, u.PlanID); err == nil {
		planName = p.Name
	}
	tr := r.bundle.Match(u.Language)
	name := u.Name
	if name == "" {
		name = u.Email
	}
	email := adapter.Email{
		To:       u.Email,
		Subject:  tr.T("reminder.subject", planName),
		TextBody: tr.T("reminder.body", name, planName, u.PlanExpirationDate.Format("2006-01-02")),
		Tag:      "plan-expiry-reminder",
	}
	email.HTMLBody = "<p>" + html.EscapeString(email.TextBody) + "</p>"

	if err := r.mailer.Send(ctx, email); err != nil {
		metrics.IncExpiryReminder("error")
		log.Error().Err(err).Msg("failed to send expiry reminder")
		return err
	}
	marked, err := r.users.MarkReminded(ctx, repository.NoTX, u.ID, u.PlanExpirationDate)
	if err != nil {
		metrics.IncExpiryReminder("error")
		log.Error().Err(err).Msg("reminder sent but flag not stored")
		return err
	}
	if !marked {
		// the entitlement changed while mailing; the new expiration gets its own reminder
		metrics.IncExpiryReminder("superseded")
		log.Debug().Msg("reminder flag superseded by a newer entitlement")
		return nil
	}
	invalidateUser(ctx, r.cache, u.ID, &log)
	metrics.IncExpiryReminder("sent")
	return nil
}
