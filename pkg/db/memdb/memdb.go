// Package memdb provides an in-memory implementation of db.Database.
// Every operation runs under one mutex, so each call is atomic with respect to
// every other call; this gives the same serialisation guarantees the Postgres
// store gets from row and advisory locks.
package memdb

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/db"
)

// DB is an in-memory store
type DB struct {
	mu sync.Mutex

	schemes     map[string]*model.Scheme
	schemeOrder []string

	applicants map[string]*model.Applicant
	nextSeq    int64

	notifications []db.Notification
	smsLogs       []db.SMSLog

	// commitHook runs inside CommitAllocation before anything is written.
	// Tests use it to inject failures.
	commitHook func(schemeID string) error
}

var _ db.Database = (*DB)(nil)

// NewDB creates an empty in-memory store
func NewDB() *DB {
	return &DB{
		schemes:    make(map[string]*model.Scheme),
		applicants: make(map[string]*model.Applicant),
	}
}

// SetCommitHook installs a function invoked at the start of every CommitAllocation
func (d *DB) SetCommitHook(hook func(schemeID string) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commitHook = hook
}

// GetScheme retrieves a scheme by ID
func (d *DB) GetScheme(ctx context.Context, schemeID string) (*model.Scheme, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.schemes[schemeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", db.ErrSchemeNotFound, schemeID)
	}
	return cloneScheme(s), nil
}

// ListSchemes retrieves all schemes in creation order
func (d *DB) ListSchemes(ctx context.Context) ([]model.Scheme, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	schemes := make([]model.Scheme, 0, len(d.schemeOrder))
	for _, id := range d.schemeOrder {
		schemes = append(schemes, *cloneScheme(d.schemes[id]))
	}
	return schemes, nil
}

// InsertScheme stores a new scheme, assigning an ID if it has none
func (d *DB) InsertScheme(ctx context.Context, scheme *model.Scheme) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if scheme.ID == "" {
		scheme.ID = uuid.New().String()
	}
	if _, exists := d.schemes[scheme.ID]; exists {
		return fmt.Errorf("scheme %s already exists", scheme.ID)
	}
	if scheme.CreatedAt.IsZero() {
		scheme.CreatedAt = time.Now().UTC()
	}

	d.schemes[scheme.ID] = cloneScheme(scheme)
	d.schemeOrder = append(d.schemeOrder, scheme.ID)
	return nil
}

// GetApplicant retrieves an applicant by ID
func (d *DB) GetApplicant(ctx context.Context, applicantID string) (*model.Applicant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	a, ok := d.applicants[applicantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", db.ErrApplicantNotFound, applicantID)
	}
	applicant := *a
	return &applicant, nil
}

// FindApplicant looks up a scheme's application by aadhaar number
func (d *DB) FindApplicant(ctx context.Context, schemeID, aadhaarNumber string) (*model.Applicant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, a := range d.applicants {
		if a.SchemeID == schemeID && a.AadhaarNumber == aadhaarNumber {
			applicant := *a
			return &applicant, nil
		}
	}
	return nil, fmt.Errorf("%w: scheme %s", db.ErrApplicantNotFound, schemeID)
}

// ListApplicants retrieves all of a scheme's applicants in submission order
func (d *DB) ListApplicants(ctx context.Context, schemeID string) ([]model.Applicant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.filter(func(a *model.Applicant) bool {
		return a.SchemeID == schemeID
	}), nil
}

// ListPendingApplicants retrieves a scheme's pending applicants in submission order
func (d *DB) ListPendingApplicants(ctx context.Context, schemeID string) ([]model.Applicant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.filter(func(a *model.Applicant) bool {
		return a.SchemeID == schemeID && a.Status == model.StatusPending
	}), nil
}

// ListWaitingApplicants retrieves a district's waitlist, highest score first
func (d *DB) ListWaitingApplicants(ctx context.Context, schemeID, district string) ([]model.Applicant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.waiting(schemeID, district), nil
}

// InsertApplicant stores a new applicant and assigns its submission sequence.
// The scheme lock and the one-application-per-aadhaar rule are checked under the same mutex.
func (d *DB) InsertApplicant(ctx context.Context, applicant *model.Applicant) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.applicants[applicant.ID]; exists {
		return fmt.Errorf("applicant %s already exists", applicant.ID)
	}
	scheme, exists := d.schemes[applicant.SchemeID]
	if !exists {
		return fmt.Errorf("%w: %s", db.ErrSchemeNotFound, applicant.SchemeID)
	}
	if scheme.AllocationLocked {
		return fmt.Errorf("%w: %s", db.ErrAllocationLocked, scheme.ID)
	}
	for _, a := range d.applicants {
		if a.SchemeID == applicant.SchemeID && a.AadhaarNumber == applicant.AadhaarNumber {
			return fmt.Errorf("%w: %s", db.ErrDuplicateApplicant, scheme.ID)
		}
	}

	d.nextSeq++
	applicant.SubmissionSeq = d.nextSeq
	if applicant.SubmittedAt.IsZero() {
		applicant.SubmittedAt = time.Now().UTC()
	}

	stored := *applicant
	d.applicants[applicant.ID] = &stored
	return nil
}

// CommitAllocation applies the allocation pass and locks the scheme atomically
func (d *DB) CommitAllocation(ctx context.Context, schemeID string, pending []string, changes map[string]model.Status) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.commitHook != nil {
		if err := d.commitHook(schemeID); err != nil {
			return err
		}
	}

	scheme, ok := d.schemes[schemeID]
	if !ok {
		return fmt.Errorf("%w: %s", db.ErrSchemeNotFound, schemeID)
	}
	if scheme.AllocationLocked {
		return fmt.Errorf("%w: %s", db.ErrAllocationLocked, schemeID)
	}

	// Validate everything before writing anything
	current := d.filter(func(a *model.Applicant) bool {
		return a.SchemeID == schemeID && a.Status == model.StatusPending
	})
	currentIDs := make([]string, len(current))
	for i, a := range current {
		currentIDs[i] = a.ID
	}
	if db.PendingChanged(pending, currentIDs) {
		return fmt.Errorf("%w: %s", db.ErrStaleApplicant, schemeID)
	}

	for id := range changes {
		a, ok := d.applicants[id]
		if !ok {
			return fmt.Errorf("%w: %s", db.ErrApplicantNotFound, id)
		}
		if a.SchemeID != schemeID || a.Status != model.StatusPending {
			return fmt.Errorf("%w: %s", db.ErrStaleApplicant, id)
		}
	}

	for id, status := range changes {
		d.applicants[id].Status = status
	}
	scheme.AllocationLocked = true
	return nil
}

// UpdateStatus changes an applicant's status and runs the promotion policy atomically
func (d *DB) UpdateStatus(ctx context.Context, applicantID string, status model.Status, policy db.PromotionPolicy) (*db.StatusUpdate, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	a, ok := d.applicants[applicantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", db.ErrApplicantNotFound, applicantID)
	}

	previous := a.Status
	if err := model.ValidateTransition(previous, status); err != nil {
		return nil, err
	}

	var promoted *model.Applicant
	if policy != nil && policy.Triggers(previous, status) {
		if candidate, found := policy.Select(d.waiting(a.SchemeID, a.District)); found {
			stored := d.applicants[candidate.ID]
			stored.Status = model.StatusProvisionallyApproved
			p := *stored
			promoted = &p
		}
	}

	a.Status = status
	return &db.StatusUpdate{
		Applicant:      *a,
		PreviousStatus: previous,
		Promoted:       promoted,
	}, nil
}

// InsertNotification stores an in-app notification
func (d *DB) InsertNotification(ctx context.Context, notification *db.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	d.notifications = append(d.notifications, *notification)
	return nil
}

// Notifications returns every stored notification for an applicant, oldest first
func (d *DB) Notifications(applicantID string) []db.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()

	var result []db.Notification
	for _, n := range d.notifications {
		if n.ApplicantID == applicantID {
			result = append(result, n)
		}
	}
	return result
}

// InsertSMSLog stores an SMS log entry
func (d *DB) InsertSMSLog(ctx context.Context, log *db.SMSLog) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.SentAt.IsZero() {
		log.SentAt = time.Now().UTC()
	}
	d.smsLogs = append(d.smsLogs, *log)
	return nil
}

// ListSMSLogs returns SMS log entries, newest first
func (d *DB) ListSMSLogs(ctx context.Context) ([]db.SMSLog, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	logs := slices.Clone(d.smsLogs)
	slices.Reverse(logs)
	return logs, nil
}

// filter returns copies of matching applicants in submission order. Caller holds mu.
func (d *DB) filter(keep func(a *model.Applicant) bool) []model.Applicant {
	var result []model.Applicant
	for _, a := range d.applicants {
		if keep(a) {
			result = append(result, *a)
		}
	}
	slices.SortFunc(result, func(a, b model.Applicant) int {
		return cmp.Compare(a.SubmissionSeq, b.SubmissionSeq)
	})
	return result
}

// waiting returns a district's waitlist, best ranked first. Caller holds mu.
func (d *DB) waiting(schemeID, district string) []model.Applicant {
	result := d.filter(func(a *model.Applicant) bool {
		return a.SchemeID == schemeID && a.District == district && a.Status == model.StatusWaiting
	})
	slices.SortStableFunc(result, func(a, b model.Applicant) int {
		return cmp.Compare(b.ImpactScore, a.ImpactScore)
	})
	return result
}

func cloneScheme(s *model.Scheme) *model.Scheme {
	c := *s
	c.DistrictQuotas = make(map[string]int, len(s.DistrictQuotas))
	for district, seats := range s.DistrictQuotas {
		c.DistrictQuotas[district] = seats
	}
	return &c
}
