package payments

import "github.com/prometheus/client_golang/prometheus"

var (
	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinddraw_webhook_events_total",
			Help: "Stripe webhook events by type and reconciliation outcome.",
		},
		[]string{"type", "outcome"},
	)

	checkoutSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinddraw_checkout_sessions_total",
			Help: "Checkout session creation attempts by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(webhookEventsTotal, checkoutSessionsTotal)
}
