package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category is the caste category an applicant declares
type Category string

const (
	CategorySC      Category = "SC"
	CategoryST      Category = "ST"
	CategoryGeneral Category = "General"
)

// IsReserved reports whether the category receives reservation seats and the score multiplier
func (c Category) IsReserved() bool {
	return c == CategorySC || c == CategoryST
}

// Status is the lifecycle state of an application
type Status string

const (
	StatusPending               Status = "pending"
	StatusProvisionallyApproved Status = "provisionally_approved"
	StatusWaiting               Status = "waiting"
	StatusApproved              Status = "approved"
	StatusRejected              Status = "rejected"
)

// AllStatuses lists every status in lifecycle order
var AllStatuses = []Status{
	StatusPending,
	StatusProvisionallyApproved,
	StatusWaiting,
	StatusApproved,
	StatusRejected,
}

// ErrInvalidTransition is returned when a status update would break the lifecycle rules
var ErrInvalidTransition = errors.New("invalid status transition")

// ParseStatus accepts the canonical lower-case form as well as the upper-case form
// used by the admin tooling (e.g. "PROVISIONALLY_APPROVED")
func ParseStatus(s string) (Status, error) {
	normalized := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, status := range AllStatuses {
		if status == normalized {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// ValidateTransition checks that an explicit status update is allowed.
// No application ever returns to Pending.
func ValidateTransition(from, to Status) error {
	if to == StatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// HoldsSeat reports whether an application in this status occupies a seat
func (s Status) HoldsSeat() bool {
	return s == StatusProvisionallyApproved || s == StatusApproved
}

// Applicant is a single application to a scheme
type Applicant struct {
	ID            string
	SchemeID      string
	ApplicantName string
	AadhaarNumber string
	PhoneNumber   string
	District      string
	Category      Category
	Income        int
	LandSize      float64

	// ImpactScore is computed once at submission and never recomputed
	ImpactScore float64

	Status Status

	// SubmissionSeq orders applications by submission; lower submitted earlier
	SubmissionSeq int64
	SubmittedAt   time.Time
}

// Reservations holds the reserved share of each district quota per category
type Reservations struct {
	SCPercentage float64 `json:"scPercentage" yaml:"scPercentage" validate:"min=0,max=100"`
	STPercentage float64 `json:"stPercentage" yaml:"stPercentage" validate:"min=0,max=100"`
}

// CategoryReservation pairs a category with its reserved percentage
type CategoryReservation struct {
	Category   Category
	Percentage float64
}

// Ordered returns the reservations in fill order. SC is filled before ST.
func (r Reservations) Ordered() []CategoryReservation {
	return []CategoryReservation{
		{Category: CategorySC, Percentage: r.SCPercentage},
		{Category: CategoryST, Percentage: r.STPercentage},
	}
}

// Scheme is a benefit programme with per-district seat quotas
type Scheme struct {
	ID          string
	Title       string
	Description string
	MaxIncome   *int
	MaxLandSize *float64
	Deadline    string

	// DistrictQuotas maps district name to seat count.
	// Districts absent from the map are never allocated.
	DistrictQuotas map[string]int
	Reservations   Reservations

	// ConfigMalformed is set when the stored quota or reservation data could not be parsed.
	// Such a scheme allocates as if every district had zero seats.
	ConfigMalformed bool

	AllocationLocked bool
	CreatedAt        time.Time
}

// HasQuota reports whether the district has a configured quota
func (s *Scheme) HasQuota(district string) bool {
	_, ok := s.DistrictQuotas[district]
	return ok
}
