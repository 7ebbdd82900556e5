package payment

import (
	"context"
	"errors"
	"fmt"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"

	"biolink-saas/internal/config"
	"biolink-saas/internal/domain/ports/adapter"
)

var _ adapter.BillingProvider = (*PaddleProvider)(nil)

// subscriptionCanceller is the slice of the Paddle SDK this provider needs.
type subscriptionCanceller interface {
	CancelSubscription(ctx context.Context, req *paddle.CancelSubscriptionRequest) (*paddle.Subscription, error)
}

// PaddleProvider cancels recurring subscriptions through the Paddle Billing API.
type PaddleProvider struct {
	client subscriptionCanceller
}

// NewPaddleProvider creates the provider for the sandbox or production environment.
func NewPaddleProvider(cfg config.PaddleConfig) (*PaddleProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("paddle API key is required")
	}
	var (
		client *paddle.SDK
		err    error
	)
	if cfg.Sandbox {
		client, err = paddle.NewSandbox(cfg.APIKey)
	} else {
		client, err = paddle.New(cfg.APIKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}
	return &PaddleProvider{client: client}, nil
}

func (p *PaddleProvider) Name() string { return "paddle" }

// Cancel stops the subscription immediately. Access already granted by a
// redeemed code replaces whatever the subscription paid for.
func (p *PaddleProvider) Cancel(ctx context.Context, ref string) error {
	if ref == "" {
		return errors.New("paddle: empty subscription id")
	}
	sub, err := p.client.CancelSubscription(ctx, &paddle.CancelSubscriptionRequest{
		SubscriptionID: ref,
		EffectiveFrom:  paddle.PtrTo(paddle.EffectiveFromImmediately),
	})
	if err != nil {
		return fmt.Errorf("paddle cancel %s: %w", ref, err)
	}
	if sub != nil && sub.Status != paddle.SubscriptionStatusCanceled {
		return fmt.Errorf("paddle cancel %s: unexpected status %q", ref, sub.Status)
	}
	return nil
}
