package allocator

import (
	"github.com/smartagri/seat-allocator/pkg/core/model"
)

// Tier records which step of the allocation pass decided an applicant's status
type Tier string

const (
	TierReserved Tier = "reserved"
	TierMerit    Tier = "merit"
	TierWaitlist Tier = "waitlist"
)

// DistrictRequest contains everything the planner needs for one district
type DistrictRequest struct {
	District string

	// QuotaSeats is the number of seats the scheme grants this district
	QuotaSeats int

	Reservations model.Reservations

	// Applicants are the pending applicants of this district, in submission order
	Applicants []model.Applicant
}

// Assignment is the planned outcome for a single applicant
type Assignment struct {
	ApplicantID string
	Category    model.Category
	ImpactScore float64

	// Rank is the 1-based position in the district's ranked list
	Rank int

	Tier   Tier
	Status model.Status
}

// ReservationFill reports how a category reservation was filled
type ReservationFill struct {
	Category model.Category
	Seats    int
	Filled   int
}

// DistrictPlan is the result of planning one district
type DistrictPlan struct {
	District   string
	QuotaSeats int

	// Assignments in rank order
	Assignments []Assignment

	// Reservations in fill order (SC then ST)
	Reservations []ReservationFill

	MeritFilled    int
	Waitlisted     int
	RemainingSeats int
}

// Allocated returns the number of provisionally approved applicants
func (p *DistrictPlan) Allocated() int {
	allocated := p.MeritFilled
	for _, r := range p.Reservations {
		allocated += r.Filled
	}
	return allocated
}

// Statuses returns the planned status for every applicant keyed by applicant ID
func (p *DistrictPlan) Statuses() map[string]model.Status {
	statuses := make(map[string]model.Status, len(p.Assignments))
	for _, a := range p.Assignments {
		statuses[a.ApplicantID] = a.Status
	}
	return statuses
}

// ReservedSeats returns the seats reserved for a category: floor(percentage% of quota).
// Non-positive inputs reserve nothing.
//
// The product is taken before dividing by 100, so integral percentages are exact: 29% of
// 100 reserves 29 seats. Computing int((percentage/100)*quota) instead truncates
// 0.29*100 = 28.999999999999996 to 28, so the two formulas disagree for some inputs.
func ReservedSeats(percentage float64, quotaSeats int) int {
	if percentage <= 0 || quotaSeats <= 0 {
		return 0
	}
	return int(percentage * float64(quotaSeats) / 100)
}

// Plan runs the allocation pass for one district. It is a pure function of its input.
//
// Applicants are ranked, then reserved seats are filled per category in fixed order
// (SC then ST), then the remaining seats are filled on merit regardless of category,
// and everyone left over is waitlisted. All tiers draw from one shared seat counter,
// so reservations that add up to more than 100% are resolved in SC's favour.
func Plan(req DistrictRequest) *DistrictPlan {
	ranked := Rank(req.Applicants)
	tiers := make([]Tier, len(ranked))
	remaining := max(req.QuotaSeats, 0)

	plan := &DistrictPlan{
		District:   req.District,
		QuotaSeats: req.QuotaSeats,
	}

	for _, reservation := range req.Reservations.Ordered() {
		seats := ReservedSeats(reservation.Percentage, req.QuotaSeats)

		var filled int
		filled, remaining = fillReserved(ranked, tiers, reservation.Category, seats, remaining)

		plan.Reservations = append(plan.Reservations, ReservationFill{
			Category: reservation.Category,
			Seats:    seats,
			Filled:   filled,
		})
	}

	plan.MeritFilled, remaining = fillMerit(ranked, tiers, remaining)
	plan.RemainingSeats = remaining

	plan.Assignments = make([]Assignment, len(ranked))
	for i, applicant := range ranked {
		tier := tiers[i]
		status := model.StatusProvisionallyApproved
		if tier == "" {
			tier = TierWaitlist
			status = model.StatusWaiting
			plan.Waitlisted++
		}

		plan.Assignments[i] = Assignment{
			ApplicantID: applicant.ID,
			Category:    applicant.Category,
			ImpactScore: applicant.ImpactScore,
			Rank:        i + 1,
			Tier:        tier,
			Status:      status,
		}
	}

	return plan
}

// fillReserved assigns up to seats unassigned applicants of the category, in rank order,
// stopping early when the shared remaining counter is exhausted.
// Returns the number filled and the new remaining count.
func fillReserved(ranked []model.Applicant, tiers []Tier, category model.Category, seats, remaining int) (int, int) {
	filled := 0
	for i, applicant := range ranked {
		if filled >= seats || remaining <= 0 {
			break
		}
		if tiers[i] != "" || applicant.Category != category {
			continue
		}
		tiers[i] = TierReserved
		filled++
		remaining--
	}
	return filled, remaining
}

// fillMerit assigns unassigned applicants in rank order until the remaining counter is exhausted.
// Returns the number filled and the new remaining count.
func fillMerit(ranked []model.Applicant, tiers []Tier, remaining int) (int, int) {
	filled := 0
	for i := range ranked {
		if remaining <= 0 {
			break
		}
		if tiers[i] != "" {
			continue
		}
		tiers[i] = TierMerit
		filled++
		remaining--
	}
	return filled, remaining
}
