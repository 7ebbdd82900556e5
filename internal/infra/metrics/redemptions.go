package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(codeRedemptionsTotal, codeChecksTotal) }

var (
	codeRedemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "code_redemptions_total",
			Help: "Redeem attempts by outcome.",
		},
		[]string{"outcome", "plan_change"}, // outcome: 'success', 'invalid_code', 'already_used', ...
	)

	codeChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "code_checks_total",
			Help: "Code availability checks by outcome.",
		},
		[]string{"outcome"},
	)
)

func IncCodeRedemption(outcome string, planChange bool) {
	pc := "false"
	if planChange {
		pc = "true"
	}
	codeRedemptionsTotal.WithLabelValues(norm(outcome), pc).Inc()
}

func IncCodeCheck(outcome string) {
	codeChecksTotal.WithLabelValues(norm(outcome)).Inc()
}
