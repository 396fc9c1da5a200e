package scoring

import (
	"fmt"

	"github.com/smartagri/seat-allocator/pkg/core/model"
)

// EligibilityCheck is the self-declared data an applicant supplies before choosing a scheme
type EligibilityCheck struct {
	Income   int
	LandSize float64
	District string
	Category model.Category
}

// CheckEligibility reports whether the applicant may apply to the scheme and, if not, why.
// Limits that are unset on the scheme are not checked. A scheme with no usable
// district quotas accepts applicants from any district.
func CheckEligibility(scheme *model.Scheme, check EligibilityCheck) (bool, string) {
	if scheme.MaxIncome != nil && check.Income > *scheme.MaxIncome {
		return false, fmt.Sprintf("income exceeds %d", *scheme.MaxIncome)
	}

	if scheme.MaxLandSize != nil && check.LandSize > *scheme.MaxLandSize {
		return false, fmt.Sprintf("land size exceeds %.2f acres", *scheme.MaxLandSize)
	}

	if len(scheme.DistrictQuotas) > 0 && !scheme.HasQuota(check.District) {
		return false, fmt.Sprintf("district %s has no quota", check.District)
	}

	return true, ""
}
