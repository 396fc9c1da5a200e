package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/smartagri/seat-allocator/pkg/core/allocator"
	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/db"
	"github.com/smartagri/seat-allocator/pkg/metrics"
)

// StatusChangeResult is the committed outcome of an administrative status update
type StatusChangeResult struct {
	Applicant      model.Applicant
	PreviousStatus model.Status

	// Promoted is the waitlisted applicant who took the vacated seat, if any
	Promoted *model.Applicant
}

// ApplyStatusChange sets an applicant's status. Rejecting a seat holder promotes the best ranked
// waitlisted applicant of the same scheme and district in the same atomic update.
// Notifications go out only after the update has committed.
func ApplyStatusChange(ctx context.Context, database db.StatusStore, notifier *Notifier, m *metrics.Metrics, logger *zap.Logger, applicantID string, status model.Status) (*StatusChangeResult, error) {
	logger = logger.With(zap.String("applicant_id", applicantID))
	logger.Debug("Applying status change", zap.String("status", string(status)))

	update, err := database.UpdateStatus(ctx, applicantID, status, allocator.PromotionRule{})
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	logger.Info("Status updated",
		zap.String("scheme_id", update.Applicant.SchemeID),
		zap.String("from", string(update.PreviousStatus)),
		zap.String("to", string(update.Applicant.Status)))

	if update.Promoted != nil {
		logger.Info("Promoted waitlisted applicant",
			zap.String("promoted_id", update.Promoted.ID),
			zap.String("district", update.Promoted.District))
		m.RecordPromotion(update.Promoted.District)

		msg := promotionMessage(update.Promoted.ID)
		notifier.Notify(ctx, *update.Promoted, msg, msg)
	}

	msg := statusMessage(update.Applicant.ID, update.Applicant.Status)
	notifier.Notify(ctx, update.Applicant, msg, msg)

	return &StatusChangeResult{
		Applicant:      update.Applicant,
		PreviousStatus: update.PreviousStatus,
		Promoted:       update.Promoted,
	}, nil
}
