package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartagri/seat-allocator/pkg/core/model"
)

func TestPromotionRule_Triggers(t *testing.T) {
	rule := PromotionRule{}

	tests := []struct {
		from     model.Status
		to       model.Status
		expected bool
	}{
		{model.StatusProvisionallyApproved, model.StatusRejected, true},
		{model.StatusApproved, model.StatusRejected, true},
		{model.StatusPending, model.StatusRejected, false},
		{model.StatusWaiting, model.StatusRejected, false},
		{model.StatusRejected, model.StatusRejected, false},
		{model.StatusProvisionallyApproved, model.StatusApproved, false},
		{model.StatusProvisionallyApproved, model.StatusWaiting, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, rule.Triggers(tt.from, tt.to))
		})
	}
}

func TestPromotionRule_SelectsHighestScore(t *testing.T) {
	waiting := []model.Applicant{
		waitingApplicant("low", 40, 1),
		waitingApplicant("high", 95.25, 5),
		waitingApplicant("mid", 70, 2),
	}

	candidate, ok := PromotionRule{}.Select(waiting)

	require.True(t, ok)
	assert.Equal(t, "high", candidate.ID)
}

func TestPromotionRule_TieGoesToEarliestSubmission(t *testing.T) {
	waiting := []model.Applicant{
		waitingApplicant("second", 80, 7),
		waitingApplicant("first", 80, 3),
		waitingApplicant("third", 80, 9),
	}

	candidate, ok := PromotionRule{}.Select(waiting)

	require.True(t, ok)
	assert.Equal(t, "first", candidate.ID)
}

func TestPromotionRule_IgnoresApplicantsNotWaiting(t *testing.T) {
	pending := waitingApplicant("pending", 150, 1)
	pending.Status = model.StatusPending
	rejected := waitingApplicant("rejected", 140, 2)
	rejected.Status = model.StatusRejected

	candidate, ok := PromotionRule{}.Select([]model.Applicant{pending, rejected, waitingApplicant("waiting", 10, 3)})

	require.True(t, ok)
	assert.Equal(t, "waiting", candidate.ID)
}

func TestPromotionRule_EmptyPool(t *testing.T) {
	_, ok := PromotionRule{}.Select(nil)
	assert.False(t, ok)
}

func TestRank_StableOnFullTies(t *testing.T) {
	applicants := []model.Applicant{
		newApplicant("x", model.CategoryGeneral, 10, 0),
		newApplicant("y", model.CategoryGeneral, 10, 0),
		newApplicant("z", model.CategoryGeneral, 20, 0),
	}

	ranked := Rank(applicants)

	assert.Equal(t, []string{"z", "x", "y"}, []string{ranked[0].ID, ranked[1].ID, ranked[2].ID})
	assert.Equal(t, "x", applicants[0].ID)
}

func waitingApplicant(id string, score float64, seq int64) model.Applicant {
	a := newApplicant(id, model.CategoryGeneral, score, seq)
	a.Status = model.StatusWaiting
	return a
}
