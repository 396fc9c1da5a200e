package db

import (
	"context"

	"github.com/smartagri/seat-allocator/pkg/core/model"
)

// SchemeStore defines the interface for scheme database operations
type SchemeStore interface {
	GetScheme(ctx context.Context, schemeID string) (*model.Scheme, error)
	ListSchemes(ctx context.Context) ([]model.Scheme, error)
	InsertScheme(ctx context.Context, scheme *model.Scheme) error
}

// ApplicantStore defines the interface for applicant database operations
type ApplicantStore interface {
	GetApplicant(ctx context.Context, applicantID string) (*model.Applicant, error)

	// FindApplicant looks up an existing application to a scheme by aadhaar number.
	// Returns ErrApplicantNotFound when there is none.
	FindApplicant(ctx context.Context, schemeID, aadhaarNumber string) (*model.Applicant, error)

	ListApplicants(ctx context.Context, schemeID string) ([]model.Applicant, error)

	// ListPendingApplicants returns the scheme's pending applicants in submission order
	ListPendingApplicants(ctx context.Context, schemeID string) ([]model.Applicant, error)

	// ListWaitingApplicants returns the waitlist of one district, best ranked first
	ListWaitingApplicants(ctx context.Context, schemeID, district string) ([]model.Applicant, error)

	// InsertApplicant stores a new application and assigns its submission sequence.
	// The scheme's lock is checked in the same atomic unit: returns ErrAllocationLocked once
	// the scheme has been allocated and ErrDuplicateApplicant if the aadhaar number has
	// already applied.
	InsertApplicant(ctx context.Context, applicant *model.Applicant) error
}

// PromotionPolicy is consulted inside the status update transaction to fill a vacated seat
type PromotionPolicy interface {
	Triggers(from, to model.Status) bool
	Select(waiting []model.Applicant) (model.Applicant, bool)
}

// StatusUpdate is the committed result of an explicit status change
type StatusUpdate struct {
	// Applicant after the update
	Applicant      model.Applicant
	PreviousStatus model.Status

	// Promoted is the waitlisted applicant moved into the vacated seat, if any
	Promoted *model.Applicant
}

// AllocationStore defines the operations the allocation pass needs
type AllocationStore interface {
	GetScheme(ctx context.Context, schemeID string) (*model.Scheme, error)
	ListPendingApplicants(ctx context.Context, schemeID string) ([]model.Applicant, error)

	// CommitAllocation writes every status change and locks the scheme in one atomic unit.
	// pending holds the IDs the pass read as Pending. Returns ErrAllocationLocked if the scheme
	// was locked in the meantime and ErrStaleApplicant if the scheme's pending applicants are no
	// longer exactly that set; nothing is written in either case.
	CommitAllocation(ctx context.Context, schemeID string, pending []string, changes map[string]model.Status) error
}

// StatusStore defines the operations for explicit status updates
type StatusStore interface {
	// UpdateStatus changes one applicant's status. When policy triggers, the waiting pool of the
	// applicant's scheme and district is read and the selected applicant promoted within the same
	// atomic unit, serialised per (scheme, district).
	UpdateStatus(ctx context.Context, applicantID string, status model.Status, policy PromotionPolicy) (*StatusUpdate, error)
}

// NotificationStore defines the interface for notification records
type NotificationStore interface {
	InsertNotification(ctx context.Context, notification *Notification) error
	InsertSMSLog(ctx context.Context, log *SMSLog) error
	ListSMSLogs(ctx context.Context) ([]SMSLog, error)
}

// SubmissionStore defines the operations needed to accept a new application
type SubmissionStore interface {
	GetScheme(ctx context.Context, schemeID string) (*model.Scheme, error)
	FindApplicant(ctx context.Context, schemeID, aadhaarNumber string) (*model.Applicant, error)
	InsertApplicant(ctx context.Context, applicant *model.Applicant) error
}

// ReportStore defines the read-only operations used by the allocation reports
type ReportStore interface {
	GetScheme(ctx context.Context, schemeID string) (*model.Scheme, error)
	ListApplicants(ctx context.Context, schemeID string) ([]model.Applicant, error)
	ListWaitingApplicants(ctx context.Context, schemeID, district string) ([]model.Applicant, error)
}

// Database defines the interface for all database operations.
// Both the in-memory memdb.DB and postgres.DB implement this interface.
type Database interface {
	SchemeStore
	ApplicantStore
	AllocationStore
	StatusStore
	NotificationStore
}
