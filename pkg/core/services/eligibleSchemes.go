package services

import (
	"context"
	"fmt"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/core/scoring"
	"github.com/smartagri/seat-allocator/pkg/db"
)

// EligibleSchemes returns the schemes an applicant with the given profile may apply to
func EligibleSchemes(ctx context.Context, database db.SchemeStore, check scoring.EligibilityCheck) ([]model.Scheme, error) {
	schemes, err := database.ListSchemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemes: %w", err)
	}

	var eligible []model.Scheme
	for _, s := range schemes {
		if ok, _ := scoring.CheckEligibility(&s, check); ok {
			eligible = append(eligible, s)
		}
	}
	return eligible, nil
}
