package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/db"
	"github.com/smartagri/seat-allocator/pkg/metrics"
)

// SMSSender delivers text messages to applicants
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) error
}

// EmailSender delivers plain-text emails
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// Notifier dispatches best-effort messages after state changes have been committed.
// Failures are logged and counted but never returned, so they cannot undo the change
// that caused them. A nil *Notifier sends nothing.
type Notifier struct {
	store        db.NotificationStore
	sms          SMSSender
	email        EmailSender
	officerEmail string
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewNotifier creates a notifier. sms and email may be nil to disable those channels.
func NewNotifier(store db.NotificationStore, sms SMSSender, email EmailSender, officerEmail string, m *metrics.Metrics, logger *zap.Logger) *Notifier {
	return &Notifier{
		store:        store,
		sms:          sms,
		email:        email,
		officerEmail: officerEmail,
		metrics:      m,
		logger:       logger,
	}
}

// Notify records an in-app notification for the applicant and texts them.
// The text is logged in the SMS log whether or not the gateway accepted it.
func (n *Notifier) Notify(ctx context.Context, applicant model.Applicant, inApp, sms string) {
	if n == nil {
		return
	}

	logger := n.logger.With(zap.String("applicant_id", applicant.ID))

	if inApp != "" {
		err := n.store.InsertNotification(ctx, &db.Notification{
			ApplicantID: applicant.ID,
			Message:     inApp,
		})
		if err != nil {
			logger.Warn("Failed to store notification", zap.Error(err))
			n.metrics.RecordNotificationFailure(metrics.ChannelInApp)
		}
	}

	if sms == "" || applicant.PhoneNumber == "" {
		return
	}

	delivered := false
	if n.sms != nil {
		if err := n.sms.SendSMS(ctx, applicant.PhoneNumber, sms); err != nil {
			logger.Warn("Failed to send sms", zap.Error(err))
			n.metrics.RecordNotificationFailure(metrics.ChannelSMS)
		} else {
			delivered = true
		}
	}

	err := n.store.InsertSMSLog(ctx, &db.SMSLog{
		PhoneNumber: applicant.PhoneNumber,
		Message:     sms,
		Delivered:   delivered,
	})
	if err != nil {
		logger.Warn("Failed to store sms log", zap.Error(err))
	}
}

// SendAllocationSummary emails the allocation outcome to the configured officer
func (n *Notifier) SendAllocationSummary(result *AllocationResult) {
	if n == nil || n.email == nil || n.officerEmail == "" {
		return
	}

	subject := fmt.Sprintf("Allocation completed: %s", result.SchemeTitle)
	if err := n.email.SendEmail(n.officerEmail, subject, result.Summary()); err != nil {
		n.logger.Warn("Failed to send allocation summary",
			zap.String("scheme_id", result.SchemeID),
			zap.String("officer_email", n.officerEmail),
			zap.Error(err))
		n.metrics.RecordNotificationFailure(metrics.ChannelEmail)
	}
}
