package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/core/scoring"
	"github.com/smartagri/seat-allocator/pkg/db"
	"github.com/smartagri/seat-allocator/pkg/metrics"
)

// ErrDuplicateApplication is returned when the aadhaar number has already applied to the scheme
var ErrDuplicateApplication = db.ErrDuplicateApplicant

var validate = validator.New()

// ApplicationInput is the data an applicant submits
type ApplicationInput struct {
	SchemeID      string         `validate:"required"`
	ApplicantName string         `validate:"required"`
	AadhaarNumber string         `validate:"required,len=12,numeric"`
	PhoneNumber   string         `validate:"required,min=10,max=15"`
	Income        int            `validate:"min=0"`
	LandSize      float64        `validate:"min=0"`
	District      string         `validate:"required"`
	Category      model.Category `validate:"required"`
}

// SubmitApplication validates and stores a new application with its frozen impact score.
// The applicant is told by SMS that the application was received.
func SubmitApplication(ctx context.Context, database db.SubmissionStore, notifier *Notifier, m *metrics.Metrics, logger *zap.Logger, input ApplicationInput) (*model.Applicant, error) {
	input.ApplicantName = strings.TrimSpace(input.ApplicantName)
	input.District = strings.TrimSpace(input.District)

	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid application: %w", err)
	}

	logger = logger.With(zap.String("scheme_id", input.SchemeID))

	scheme, err := database.GetScheme(ctx, input.SchemeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheme: %w", err)
	}
	if scheme.AllocationLocked {
		return nil, fmt.Errorf("%w: %s", db.ErrAllocationLocked, scheme.ID)
	}

	_, err = database.FindApplicant(ctx, scheme.ID, input.AadhaarNumber)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateApplication, scheme.ID)
	}
	if !errors.Is(err, db.ErrApplicantNotFound) {
		return nil, fmt.Errorf("failed to check existing applications: %w", err)
	}

	if ok, reason := scoring.CheckEligibility(scheme, scoring.EligibilityCheck{
		Income:   input.Income,
		LandSize: input.LandSize,
		District: input.District,
		Category: input.Category,
	}); !ok {
		logger.Warn("Accepting application that fails the eligibility check", zap.String("reason", reason))
	}

	applicant := &model.Applicant{
		ID:            newApplicationID(),
		SchemeID:      scheme.ID,
		ApplicantName: input.ApplicantName,
		AadhaarNumber: input.AadhaarNumber,
		PhoneNumber:   input.PhoneNumber,
		District:      input.District,
		Category:      input.Category,
		Income:        input.Income,
		LandSize:      input.LandSize,
		ImpactScore:   scoring.ImpactScore(input.Income, input.LandSize, input.Category),
		Status:        model.StatusPending,
	}

	if err := database.InsertApplicant(ctx, applicant); err != nil {
		return nil, fmt.Errorf("failed to insert applicant: %w", err)
	}

	logger.Info("Application submitted",
		zap.String("applicant_id", applicant.ID),
		zap.String("district", applicant.District),
		zap.Float64("impact_score", applicant.ImpactScore))
	m.RecordApplication(string(applicant.Category))

	notifier.Notify(ctx, *applicant, submittedMessage(scheme.Title, applicant.ID), receivedSMS(applicant.ID))

	return applicant, nil
}

// newApplicationID returns an id of the form APP-1A2B3C4D
func newApplicationID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "APP-" + strings.ToUpper(hex[:8])
}
