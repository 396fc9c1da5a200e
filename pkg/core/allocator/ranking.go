package allocator

import (
	"cmp"
	"slices"

	"github.com/smartagri/seat-allocator/pkg/core/model"
)

// compareRank orders applicants by impact score descending, then by submission sequence
// ascending so that the earlier application wins a tie
func compareRank(a, b model.Applicant) int {
	if c := cmp.Compare(b.ImpactScore, a.ImpactScore); c != 0 {
		return c
	}
	return cmp.Compare(a.SubmissionSeq, b.SubmissionSeq)
}

// Rank returns a copy of the applicants sorted into allocation order.
// The sort is stable, so applicants that tie on both keys keep their input order.
func Rank(applicants []model.Applicant) []model.Applicant {
	ranked := slices.Clone(applicants)
	slices.SortStableFunc(ranked, compareRank)
	return ranked
}
