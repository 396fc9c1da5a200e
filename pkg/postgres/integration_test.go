//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartagri/seat-allocator/pkg/core/allocator"
	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/db"
)

// Run with: SEAT_ALLOCATOR_TEST_DATABASE_URL=postgres://... go test -tags integration ./pkg/postgres

func openTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("SEAT_ALLOCATOR_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SEAT_ALLOCATOR_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := NewDB(ctx, url)
	require.NoError(t, err)
	t.Cleanup(database.Close)
	require.NoError(t, database.RunMigrations(ctx))
	return database
}

// testScheme inserts a scheme with a unique ID so tests can share one database
func testScheme(t *testing.T, database *DB, quotas map[string]int) string {
	t.Helper()
	scheme := &model.Scheme{
		ID:             "it-" + uuid.NewString(),
		Title:          "Integration scheme",
		DistrictQuotas: quotas,
	}
	require.NoError(t, database.InsertScheme(context.Background(), scheme))
	return scheme.ID
}

func testApplicant(t *testing.T, database *DB, schemeID, district string, score float64) model.Applicant {
	t.Helper()
	id := uuid.NewString()
	a := model.Applicant{
		ID:            "it-" + id,
		SchemeID:      schemeID,
		ApplicantName: "Applicant " + id[:8],
		AadhaarNumber: id[:12],
		District:      district,
		Category:      model.CategoryGeneral,
		ImpactScore:   score,
		Status:        model.StatusPending,
	}
	require.NoError(t, database.InsertApplicant(context.Background(), &a))
	return a
}

func TestIntegration_CommitAllocationLocksOnce(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	schemeID := testScheme(t, database, map[string]int{"Pune": 1})
	first := testApplicant(t, database, schemeID, "Pune", 90)
	second := testApplicant(t, database, schemeID, "Pune", 50)
	pending := []string{first.ID, second.ID}
	changes := map[string]model.Status{
		first.ID:  model.StatusProvisionallyApproved,
		second.ID: model.StatusWaiting,
	}

	const callers = 6
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = database.CommitAllocation(ctx, schemeID, pending, changes)
		}(i)
	}
	wg.Wait()

	committed := 0
	for _, err := range errs {
		if err == nil {
			committed++
			continue
		}
		assert.True(t, errors.Is(err, db.ErrAllocationLocked), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, committed)

	scheme, err := database.GetScheme(ctx, schemeID)
	require.NoError(t, err)
	assert.True(t, scheme.AllocationLocked)

	got, err := database.GetApplicant(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProvisionallyApproved, got.Status)
}

func TestIntegration_CommitAllocationStaleWritesNothing(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	schemeID := testScheme(t, database, map[string]int{"Pune": 1})
	first := testApplicant(t, database, schemeID, "Pune", 90)
	late := testApplicant(t, database, schemeID, "Pune", 95)

	err := database.CommitAllocation(ctx, schemeID, []string{first.ID}, map[string]model.Status{
		first.ID: model.StatusProvisionallyApproved,
	})
	assert.True(t, errors.Is(err, db.ErrStaleApplicant))

	scheme, err := database.GetScheme(ctx, schemeID)
	require.NoError(t, err)
	assert.False(t, scheme.AllocationLocked)

	for _, id := range []string{first.ID, late.ID} {
		a, err := database.GetApplicant(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, a.Status)
	}
}

func TestIntegration_InsertApplicantRules(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	schemeID := testScheme(t, database, map[string]int{"Pune": 1})
	existing := testApplicant(t, database, schemeID, "Pune", 60)

	dup := existing
	dup.ID = "it-" + uuid.NewString()
	err := database.InsertApplicant(ctx, &dup)
	assert.True(t, errors.Is(err, db.ErrDuplicateApplicant), "unexpected error: %v", err)

	require.NoError(t, database.CommitAllocation(ctx, schemeID, []string{existing.ID}, map[string]model.Status{
		existing.ID: model.StatusProvisionallyApproved,
	}))

	late := model.Applicant{
		ID:            "it-" + uuid.NewString(),
		SchemeID:      schemeID,
		ApplicantName: "Late",
		AadhaarNumber: "999988887777",
		District:      "Pune",
		Category:      model.CategoryGeneral,
		Status:        model.StatusPending,
	}
	err = database.InsertApplicant(ctx, &late)
	assert.True(t, errors.Is(err, db.ErrAllocationLocked), "unexpected error: %v", err)
}

func TestIntegration_ConcurrentRejectionsPromoteDistinctApplicants(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	schemeID := testScheme(t, database, map[string]int{"Pune": 3})

	var holders, waiting []model.Applicant
	changes := map[string]model.Status{}
	var pending []string
	for i := range 3 {
		a := testApplicant(t, database, schemeID, "Pune", float64(100-i))
		holders = append(holders, a)
		changes[a.ID] = model.StatusProvisionallyApproved
		pending = append(pending, a.ID)
	}
	for i := range 2 {
		a := testApplicant(t, database, schemeID, "Pune", float64(50-i))
		waiting = append(waiting, a)
		changes[a.ID] = model.StatusWaiting
		pending = append(pending, a.ID)
	}
	require.NoError(t, database.CommitAllocation(ctx, schemeID, pending, changes))

	var wg sync.WaitGroup
	updates := make([]*db.StatusUpdate, len(holders))
	errs := make([]error, len(holders))
	for i, h := range holders {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			updates[i], errs[i] = database.UpdateStatus(ctx, id, model.StatusRejected, allocator.PromotionRule{})
		}(i, h.ID)
	}
	wg.Wait()

	promoted := map[string]int{}
	for i := range holders {
		require.NoError(t, errs[i], fmt.Sprintf("rejection %d", i))
		if updates[i].Promoted != nil {
			promoted[updates[i].Promoted.ID]++
		}
	}

	// two waiting applicants fill two of the three vacated seats, each exactly once
	assert.Equal(t, map[string]int{waiting[0].ID: 1, waiting[1].ID: 1}, promoted)

	remaining, err := database.ListWaitingApplicants(ctx, schemeID, "Pune")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
