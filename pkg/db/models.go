package db

import (
	"errors"
	"time"
)

var (
	ErrSchemeNotFound    = errors.New("scheme not found")
	ErrApplicantNotFound = errors.New("applicant not found")

	// ErrAllocationLocked is returned once a scheme's single allocation pass has been committed
	ErrAllocationLocked = errors.New("allocation already processed and locked")

	// ErrStaleApplicant is returned when an allocation commit finds that the scheme's
	// pending applicants changed after the pass read them
	ErrStaleApplicant = errors.New("pending applicants changed during allocation")

	// ErrDuplicateApplicant is returned when an aadhaar number has already applied to a scheme
	ErrDuplicateApplicant = errors.New("already applied to this scheme")
)

// Notification represents an in-app message to an applicant
type Notification struct {
	ID          string
	ApplicantID string
	Message     string
	IsRead      bool
	CreatedAt   time.Time
}

// SMSLog represents a record of an SMS handed to the gateway
type SMSLog struct {
	ID          string
	PhoneNumber string
	Message     string
	Delivered   bool
	SentAt      time.Time
}
