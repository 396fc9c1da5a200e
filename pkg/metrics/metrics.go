package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Allocation run outcomes
const (
	OutcomeSuccess       = "success"
	OutcomeAlreadyLocked = "already_locked"
	OutcomeNotFound      = "not_found"
	OutcomeError         = "error"
)

// Notification channels
const (
	ChannelInApp = "in_app"
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Metrics holds all Prometheus metrics for the allocator
type Metrics struct {
	registry *prometheus.Registry

	AllocationRuns       *prometheus.CounterVec
	SeatsAssigned        *prometheus.CounterVec
	Promotions           *prometheus.CounterVec
	NotificationFailures *prometheus.CounterVec
	ApplicationsReceived *prometheus.CounterVec
}

// NewMetrics creates the collectors on a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		AllocationRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_allocator_allocation_runs_total",
				Help: "Total number of allocation passes by outcome",
			},
			[]string{"outcome"},
		),

		SeatsAssigned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_allocator_seats_assigned_total",
				Help: "Total number of applicants placed by allocation tier",
			},
			[]string{"tier"},
		),

		Promotions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_allocator_promotions_total",
				Help: "Total number of waitlist promotions by district",
			},
			[]string{"district"},
		),

		NotificationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_allocator_notification_failures_total",
				Help: "Total number of failed best-effort notifications by channel",
			},
			[]string{"channel"},
		),

		ApplicationsReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_allocator_applications_received_total",
				Help: "Total number of applications accepted by category",
			},
			[]string{"category"},
		),
	}
}

// Registry returns the registry the collectors are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Push sends the current values to a Prometheus Pushgateway
func (m *Metrics) Push(url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).Push(); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}

// The Record methods are safe to call on a nil *Metrics, which records nothing.

// RecordAllocationRun counts one allocation pass by outcome
func (m *Metrics) RecordAllocationRun(outcome string) {
	if m == nil {
		return
	}
	m.AllocationRuns.WithLabelValues(outcome).Inc()
}

// RecordSeats counts applicants placed in a tier
func (m *Metrics) RecordSeats(tier string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.SeatsAssigned.WithLabelValues(tier).Add(float64(count))
}

// RecordPromotion counts one waitlist promotion
func (m *Metrics) RecordPromotion(district string) {
	if m == nil {
		return
	}
	m.Promotions.WithLabelValues(district).Inc()
}

// RecordNotificationFailure counts one failed notification on a channel
func (m *Metrics) RecordNotificationFailure(channel string) {
	if m == nil {
		return
	}
	m.NotificationFailures.WithLabelValues(channel).Inc()
}

// RecordApplication counts one accepted application
func (m *Metrics) RecordApplication(category string) {
	if m == nil {
		return
	}
	m.ApplicationsReceived.WithLabelValues(category).Inc()
}
