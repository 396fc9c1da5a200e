package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartagri/seat-allocator/pkg/core/model"
)

func TestCheckEligibility(t *testing.T) {
	maxIncome := 150000
	maxLand := 2.5
	scheme := &model.Scheme{
		ID:             "scheme-1",
		MaxIncome:      &maxIncome,
		MaxLandSize:    &maxLand,
		DistrictQuotas: map[string]int{"Pune": 10},
	}

	tests := []struct {
		name     string
		check    EligibilityCheck
		eligible bool
		reason   string
	}{
		{"within all limits", EligibilityCheck{Income: 150000, LandSize: 2.5, District: "Pune"}, true, ""},
		{"income too high", EligibilityCheck{Income: 150001, LandSize: 1, District: "Pune"}, false, "income exceeds 150000"},
		{"land too large", EligibilityCheck{Income: 1000, LandSize: 2.6, District: "Pune"}, false, "land size exceeds 2.50 acres"},
		{"district without quota", EligibilityCheck{Income: 1000, LandSize: 1, District: "Nagpur"}, false, "district Nagpur has no quota"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eligible, reason := CheckEligibility(scheme, tt.check)
			assert.Equal(t, tt.eligible, eligible)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestCheckEligibility_UnsetLimitsAndEmptyQuotas(t *testing.T) {
	scheme := &model.Scheme{ID: "open-scheme"}

	eligible, reason := CheckEligibility(scheme, EligibilityCheck{Income: 5000000, LandSize: 80, District: "Anywhere"})

	assert.True(t, eligible)
	assert.Empty(t, reason)
}
