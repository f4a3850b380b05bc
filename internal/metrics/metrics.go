// Package metrics holds Prometheus instruments that are used across the
// toolkit.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WebhookRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Cumulative number of webhook deliveries received.",
		})

	WebhookUnauthorizedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_unauthorized_total",
			Help: "Cumulative number of deliveries rejected by signature verification.",
		})

	WebhookAcceptedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_accepted_total",
			Help: "Cumulative number of deliveries that passed verification.",
		})

	JournalWriteErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_write_errors_total",
			Help: "Cumulative number of failed journal inserts.",
		})

	SecretResolveTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "secret_resolve_total",
			Help: "Cumulative number of secret-reference resolutions (cache hits included).",
		})
)

func init() {
	prometheus.MustRegister(
		WebhookRequestsTotal,
		WebhookUnauthorizedTotal,
		WebhookAcceptedTotal,
		JournalWriteErrorsTotal,
		SecretResolveTotal,
	)
}
