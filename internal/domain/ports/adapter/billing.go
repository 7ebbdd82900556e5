package adapter

import "context"

// BillingProvider is the hex port for recurring-billing providers.
type BillingProvider interface {
	Name() string
	// Cancel stops the recurring subscription identified by the provider's
	// own reference. It must be safe to call for an already cancelled subscription.
	Cancel(ctx context.Context, subscriptionRef string) error
}
