package allocator

import (
	"github.com/smartagri/seat-allocator/pkg/core/model"
)

// PromotionRule decides which waitlisted applicant takes a seat vacated by a rejection.
//
// Only a single promotion happens per rejection: promoting an applicant does not
// itself trigger another search, and reservation accounting is not re-run.
type PromotionRule struct{}

// Triggers reports whether a status change vacates a seat that should be offered to the waitlist.
// Only rejecting an applicant who currently holds a seat (provisionally approved or approved) qualifies.
func (PromotionRule) Triggers(from, to model.Status) bool {
	return to == model.StatusRejected && from.HoldsSeat()
}

// Select returns the highest ranked applicant still in Waiting status.
// The caller supplies the waiting pool of the rejected applicant's scheme and district.
func (PromotionRule) Select(waiting []model.Applicant) (model.Applicant, bool) {
	var best model.Applicant
	found := false
	for _, applicant := range waiting {
		if applicant.Status != model.StatusWaiting {
			continue
		}
		if !found || compareRank(applicant, best) < 0 {
			best = applicant
			found = true
		}
	}
	return best, found
}
