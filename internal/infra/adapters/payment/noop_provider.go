package payment

import (
	"context"
	"fmt"
	"sync"

	"biolink-saas/internal/domain/ports/adapter"
)

var _ adapter.BillingProvider = (*NoopProvider)(nil)

// NoopProvider is an in-memory billing provider used in development and tests.
// It accepts every cancellation of a reference it has not already cancelled.
type NoopProvider struct {
	mu        sync.Mutex
	name      string
	cancelled map[string]bool
}

func NewNoopProvider(name string) *NoopProvider {
	if name == "" {
		name = "noop"
	}
	return &NoopProvider{name: name, cancelled: make(map[string]bool)}
}

func (p *NoopProvider) Name() string { return p.name }

func (p *NoopProvider) Cancel(ctx context.Context, ref string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ref == "" {
		return fmt.Errorf("%s: empty subscription reference", p.name)
	}
	if p.cancelled[ref] {
		return fmt.Errorf("%s: subscription %q already cancelled", p.name, ref)
	}
	p.cancelled[ref] = true
	return nil
}

// Cancelled reports whether ref was cancelled through this provider.
func (p *NoopProvider) Cancelled(ref string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled[ref]
}
