//go:build !integration

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncCodeRedemption_NormalizesLabels(t *testing.T) {
	before := testutil.ToFloat64(codeRedemptionsTotal.WithLabelValues("success", "true"))
	IncCodeRedemption(" SUCCESS ", true)
	after := testutil.ToFloat64(codeRedemptionsTotal.WithLabelValues("success", "true"))
	if after-before != 1 {
		t.Fatalf("expected counter to increase by 1, got %v", after-before)
	}
}

func TestIncSubscriptionCancellation_EmptyProvider(t *testing.T) {
	before := testutil.ToFloat64(subscriptionCancellationsTotal.WithLabelValues("none", "skipped"))
	IncSubscriptionCancellation("", "skipped")
	if got := testutil.ToFloat64(subscriptionCancellationsTotal.WithLabelValues("none", "skipped")); got-before != 1 {
		t.Fatalf("expected empty provider to be recorded as none")
	}
}
