package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/smartagri/seat-allocator/pkg/core/allocator"
	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/db"
	"github.com/smartagri/seat-allocator/pkg/metrics"
)

// AllocationResult is the committed outcome of a scheme's allocation pass
type AllocationResult struct {
	SchemeID    string
	SchemeTitle string

	// Districts holds one plan per district with a quota, sorted by district name
	Districts []*allocator.DistrictPlan

	// Unallocated are pending applicants from districts without a quota. They stay Pending.
	Unallocated []model.Applicant

	// ConfigMalformed is set when the scheme's quota configuration could not be read
	// and every applicant was waitlisted
	ConfigMalformed bool
}

// Allocated returns the number of provisionally approved applicants across all districts
func (r *AllocationResult) Allocated() int {
	total := 0
	for _, d := range r.Districts {
		total += d.Allocated()
	}
	return total
}

// Waitlisted returns the number of waitlisted applicants across all districts
func (r *AllocationResult) Waitlisted() int {
	total := 0
	for _, d := range r.Districts {
		total += d.Waitlisted
	}
	return total
}

// Summary renders the result as plain text
func (r *AllocationResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Allocation for %s (%s)\n\n", r.SchemeTitle, r.SchemeID)
	if r.ConfigMalformed {
		b.WriteString("WARNING: the scheme's quota configuration could not be read; every applicant was waitlisted.\n\n")
	}
	for _, d := range r.Districts {
		fmt.Fprintf(&b, "%s: %d seats, %d allocated, %d waitlisted\n", d.District, d.QuotaSeats, d.Allocated(), d.Waitlisted)
		for _, fill := range d.Reservations {
			fmt.Fprintf(&b, "  %s reserved: %d/%d\n", fill.Category, fill.Filled, fill.Seats)
		}
		fmt.Fprintf(&b, "  merit: %d\n", d.MeritFilled)
	}
	fmt.Fprintf(&b, "\nTotal allocated: %d\nTotal waitlisted: %d\n", r.Allocated(), r.Waitlisted())
	if len(r.Unallocated) > 0 {
		fmt.Fprintf(&b, "Applicants left pending (district has no quota): %d\n", len(r.Unallocated))
	}
	return b.String()
}

// maxAllocationAttempts bounds how often a pass is re-planned when applications arrive
// between reading the pending applicants and committing
const maxAllocationAttempts = 3

// RunAllocation runs the single allocation pass of a scheme.
// It loads the scheme and its pending applicants, plans every district that has a quota,
// and commits all resulting statuses together with the scheme lock. Nothing is written
// unless the whole pass commits; a failed pass can be retried. If the pending applicants
// change before the commit, the pass is planned again from a fresh read.
//
// Returns an error wrapping db.ErrSchemeNotFound or db.ErrAllocationLocked for those outcomes.
func RunAllocation(ctx context.Context, database db.AllocationStore, notifier *Notifier, m *metrics.Metrics, logger *zap.Logger, schemeID string) (*AllocationResult, error) {
	logger = logger.With(zap.String("scheme_id", schemeID))
	logger.Debug("Starting allocation")

	var result *AllocationResult
	var err error
	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		result, err = runAllocation(ctx, database, logger, schemeID)
		if !errors.Is(err, db.ErrStaleApplicant) {
			break
		}
		logger.Warn("Pending applicants changed during allocation", zap.Int("attempt", attempt))
	}
	m.RecordAllocationRun(allocationOutcome(err))
	if err != nil {
		return nil, err
	}

	for _, d := range result.Districts {
		m.RecordSeats(string(allocator.TierReserved), d.Allocated()-d.MeritFilled)
		m.RecordSeats(string(allocator.TierMerit), d.MeritFilled)
		m.RecordSeats(string(allocator.TierWaitlist), d.Waitlisted)
	}

	logger.Info("Allocation committed",
		zap.Int("districts", len(result.Districts)),
		zap.Int("allocated", result.Allocated()),
		zap.Int("waitlisted", result.Waitlisted()),
		zap.Int("left_pending", len(result.Unallocated)))

	notifier.SendAllocationSummary(result)

	return result, nil
}

func runAllocation(ctx context.Context, database db.AllocationStore, logger *zap.Logger, schemeID string) (*AllocationResult, error) {
	scheme, err := database.GetScheme(ctx, schemeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheme: %w", err)
	}

	if scheme.AllocationLocked {
		return nil, fmt.Errorf("%w: %s", db.ErrAllocationLocked, scheme.ID)
	}

	pending, err := database.ListPendingApplicants(ctx, scheme.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending applicants: %w", err)
	}
	logger.Debug("Loaded pending applicants", zap.Int("count", len(pending)))

	byDistrict := groupByDistrict(pending)
	quotas, reservations := allocationConfig(scheme, byDistrict)
	if scheme.ConfigMalformed {
		logger.Warn("Scheme configuration is malformed, waitlisting every applicant")
	}

	result := &AllocationResult{
		SchemeID:        scheme.ID,
		SchemeTitle:     scheme.Title,
		ConfigMalformed: scheme.ConfigMalformed,
	}
	changes := make(map[string]model.Status, len(pending))
	pendingIDs := make([]string, len(pending))
	for i, a := range pending {
		pendingIDs[i] = a.ID
	}

	for _, district := range slices.Sorted(maps.Keys(quotas)) {
		plan := allocator.Plan(allocator.DistrictRequest{
			District:     district,
			QuotaSeats:   quotas[district],
			Reservations: reservations,
			Applicants:   byDistrict[district],
		})
		maps.Copy(changes, plan.Statuses())
		result.Districts = append(result.Districts, plan)

		logger.Debug("Planned district",
			zap.String("district", district),
			zap.Int("quota", plan.QuotaSeats),
			zap.Int("allocated", plan.Allocated()),
			zap.Int("waitlisted", plan.Waitlisted))
	}

	for _, applicant := range pending {
		if _, ok := quotas[applicant.District]; !ok {
			result.Unallocated = append(result.Unallocated, applicant)
		}
	}
	if len(result.Unallocated) > 0 {
		logger.Warn("Applicants from districts without a quota left pending", zap.Int("count", len(result.Unallocated)))
	}

	if err := database.CommitAllocation(ctx, scheme.ID, pendingIDs, changes); err != nil {
		return nil, fmt.Errorf("failed to commit allocation: %w", err)
	}

	return result, nil
}

// allocationConfig returns the quotas and reservations the pass should use.
// A malformed configuration is read as empty, which waitlists every applicant: each district
// that has applicants is planned with zero seats.
func allocationConfig(scheme *model.Scheme, byDistrict map[string][]model.Applicant) (map[string]int, model.Reservations) {
	if !scheme.ConfigMalformed {
		return scheme.DistrictQuotas, scheme.Reservations
	}

	quotas := make(map[string]int, len(byDistrict))
	for district := range byDistrict {
		quotas[district] = 0
	}
	return quotas, model.Reservations{}
}

func groupByDistrict(applicants []model.Applicant) map[string][]model.Applicant {
	grouped := make(map[string][]model.Applicant)
	for _, a := range applicants {
		grouped[a.District] = append(grouped[a.District], a)
	}
	return grouped
}

func allocationOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, db.ErrAllocationLocked):
		return metrics.OutcomeAlreadyLocked
	case errors.Is(err, db.ErrSchemeNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
