package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionCancellationsTotal,
		expiryRemindersTotal,
	)
}

var (
	subscriptionCancellationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_cancellations_total",
			Help: "Recurring subscription cancellations by provider and result.",
		},
		[]string{"provider", "result"}, // result: 'ok', 'skipped', 'error'
	)

	expiryRemindersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_expiry_reminders_total",
			Help: "Plan expiry reminder emails by result.",
		},
		[]string{"result"},
	)
)

func IncSubscriptionCancellation(provider, result string) {
	if provider == "" {
		provider = "none"
	}
	subscriptionCancellationsTotal.WithLabelValues(norm(provider), norm(result)).Inc()
}

func IncExpiryReminder(result string) {
	expiryRemindersTotal.WithLabelValues(norm(result)).Inc()
}
