package usecase

import "context"

// SubscriptionManager cancels a user's recurring subscription. The redemption
// flow depends on this port rather than the concrete use case.
type SubscriptionManager interface {
	CancelSubscription(ctx context.Context, userID string) error
}
