package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records counters for the order and payment flows.
type StoreMetrics struct {
	ordersCreated *prometheus.CounterVec
	webhookEvents *prometheus.CounterVec
	emails        *prometheus.CounterVec
}

// NewStoreMetrics registers the storefront metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders persisted, labeled by payment method.",
	}, []string{"payment_method"})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Gateway webhook events, labeled by outcome (applied, skipped, ignored, failed).",
	}, []string{"outcome"})
	emails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_emails_total",
		Help: "Transactional emails, labeled by template and result.",
	}, []string{"template", "result"})
	reg.MustRegister(ordersCreated, webhookEvents, emails)
	return &StoreMetrics{
		ordersCreated: ordersCreated,
		webhookEvents: webhookEvents,
		emails:        emails,
	}
}

// IncOrderCreated increments the created-orders counter.
func (s *StoreMetrics) IncOrderCreated(paymentMethod string) {
	if s == nil || s.ordersCreated == nil {
		return
	}
	s.ordersCreated.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncWebhookEvent increments the webhook counter for the given outcome.
func (s *StoreMetrics) IncWebhookEvent(outcome string) {
	if s == nil || s.webhookEvents == nil {
		return
	}
	s.webhookEvents.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncEmail increments the email counter for the template/result pair.
func (s *StoreMetrics) IncEmail(template, result string) {
	if s == nil || s.emails == nil {
		return
	}
	s.emails.WithLabelValues(normalizeLabel(template), normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
