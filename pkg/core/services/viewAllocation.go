package services

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/db"
)

// DistrictReport summarises the applicants of one district
type DistrictReport struct {
	District string

	// Quota is nil when the district has no configured quota
	Quota *int

	Counts map[model.Status]int

	// Applicants are ordered by status lifecycle, then best score first
	Applicants []model.Applicant
}

// AllocationReport is the current allocation state of a scheme
type AllocationReport struct {
	Scheme    *model.Scheme
	Districts []DistrictReport
}

// ViewAllocation reports every applicant of a scheme grouped by district
func ViewAllocation(ctx context.Context, database db.ReportStore, schemeID string) (*AllocationReport, error) {
	scheme, err := database.GetScheme(ctx, schemeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheme: %w", err)
	}

	applicants, err := database.ListApplicants(ctx, scheme.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}

	byDistrict := groupByDistrict(applicants)
	for district := range scheme.DistrictQuotas {
		if _, ok := byDistrict[district]; !ok {
			byDistrict[district] = nil
		}
	}

	report := &AllocationReport{Scheme: scheme}
	for _, district := range slices.Sorted(maps.Keys(byDistrict)) {
		members := slices.Clone(byDistrict[district])
		slices.SortStableFunc(members, func(a, b model.Applicant) int {
			if c := cmp.Compare(statusOrder(a.Status), statusOrder(b.Status)); c != 0 {
				return c
			}
			if c := cmp.Compare(b.ImpactScore, a.ImpactScore); c != 0 {
				return c
			}
			return cmp.Compare(a.SubmissionSeq, b.SubmissionSeq)
		})

		dr := DistrictReport{
			District:   district,
			Counts:     make(map[model.Status]int),
			Applicants: members,
		}
		if quota, ok := scheme.DistrictQuotas[district]; ok {
			dr.Quota = &quota
		}
		for _, a := range members {
			dr.Counts[a.Status]++
		}
		report.Districts = append(report.Districts, dr)
	}

	return report, nil
}

// ViewWaitlist returns a district's waitlist in promotion order
func ViewWaitlist(ctx context.Context, database db.ReportStore, schemeID, district string) ([]model.Applicant, error) {
	if _, err := database.GetScheme(ctx, schemeID); err != nil {
		return nil, fmt.Errorf("failed to load scheme: %w", err)
	}

	waiting, err := database.ListWaitingApplicants(ctx, schemeID, district)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist: %w", err)
	}
	return waiting, nil
}

// ViewSMSLog returns every logged text message, newest first
func ViewSMSLog(ctx context.Context, database db.NotificationStore) ([]db.SMSLog, error) {
	logs, err := database.ListSMSLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sms logs: %w", err)
	}
	return logs, nil
}

func statusOrder(s model.Status) int {
	if i := slices.Index(model.AllStatuses, s); i >= 0 {
		return i
	}
	return len(model.AllStatuses)
}
