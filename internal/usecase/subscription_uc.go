package usecase

import (
	"context"
	"fmt"

	"biolink-saas/internal/domain"
	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/adapter"
	"biolink-saas/internal/domain/ports/repository"
	ucport "biolink-saas/internal/domain/ports/usecase"
	"biolink-saas/internal/infra/logging"
	"biolink-saas/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// SubscriptionUseCase manages the user's recurring billing subscription.
type SubscriptionUseCase interface {
	ucport.SubscriptionManager
}

var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type subscriptionUC struct {
	users     repository.UserRepository
	providers map[string]adapter.BillingProvider
	cache     adapter.CacheInvalidator
	log       *zerolog.Logger
}

// NewSubscriptionUseCase wires billing providers keyed by Name(), which must
// match the payment_processor stored on users.
func NewSubscriptionUseCase(
	users repository.UserRepository,
	providers []adapter.BillingProvider,
	cache adapter.CacheInvalidator,
	logger *zerolog.Logger,
) SubscriptionUseCase {
	byName := make(map[string]adapter.BillingProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &subscriptionUC{
		users:     users,
		providers: byName,
		cache:     cache,
		log:       logger,
	}
}

// CancelSubscription stops any recurring subscription the user has with a
// provider, then forgets the local reference. A user without one is a no-op.
// Every failure wraps domain.ErrSubscriptionCancellation.
func (s *subscriptionUC) CancelSubscription(ctx context.Context, userID string) error {
	defer logging.TraceDuration(s.log, "SubscriptionUC.CancelSubscription")()
	log := logging.With(ctx, s.log)

	user, err := s.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return fmt.Errorf("%w: load user: %w", domain.ErrSubscriptionCancellation, err)
	}
	if !user.HasRecurringSubscription() {
		metrics.IncSubscriptionCancellation(user.PaymentProcessor, "skipped")
		return nil
	}

	provider, ok := s.providers[user.PaymentProcessor]
	if !ok {
		metrics.IncSubscriptionCancellation(user.PaymentProcessor, "error")
		return fmt.Errorf("%w: %w %q", domain.ErrSubscriptionCancellation, domain.ErrUnknownPaymentProcessor, user.PaymentProcessor)
	}
	if err := provider.Cancel(ctx, user.PaymentSubscriptionID); err != nil {
		metrics.IncSubscriptionCancellation(provider.Name(), "error")
		log.Error().Err(err).Str("provider", provider.Name()).Msg("provider rejected cancellation")
		return fmt.Errorf("%w: %s: %w", domain.ErrSubscriptionCancellation, provider.Name(), err)
	}
	if err := s.users.ClearSubscription(ctx, repository.NoTX, user.ID); err != nil {
		metrics.IncSubscriptionCancellation(provider.Name(), "error")
		log.Error().Err(err).Msg("subscription cancelled at provider but local clear failed")
		return fmt.Errorf("%w: clear local reference: %w", domain.ErrSubscriptionCancellation, err)
	}
	metrics.IncSubscriptionCancellation(provider.Name(), "ok")

	invalidateUser(ctx, s.cache, user.ID, log)
	log.Info().Str("provider", provider.Name()).Msg("subscription cancelled")
	return nil
}

// invalidateUser evicts the user's cache tag. Failures are logged and counted;
// the write they follow has already committed.
func invalidateUser(ctx context.Context, cache adapter.CacheInvalidator, userID string, log *zerolog.Logger) {
	if err := cache.InvalidateTag(ctx, model.UserCacheTag(userID)); err != nil {
		metrics.IncCacheInvalidation("error")
		log.Error().Err(err).Str("tag", model.UserCacheTag(userID)).Msg("cache invalidation failed")
		return
	}
	metrics.IncCacheInvalidation("ok")
}
