package scoring

import (
	"math"

	"github.com/smartagri/seat-allocator/pkg/core/model"
)

const (
	// MaxIncome is the income at and above which the income component contributes nothing
	MaxIncome = 200000

	// MaxLandSize (acres) is the holding at and above which the land component contributes nothing
	MaxLandSize = 5.0

	// componentWeight is the maximum contribution of each of the income and land components
	componentWeight = 50.0

	reservedMultiplier = 1.5
	generalMultiplier  = 1.0
)

// CategoryMultiplier returns the need multiplier for a category.
// Unrecognised categories are weighted like General.
func CategoryMultiplier(category model.Category) float64 {
	if category.IsReserved() {
		return reservedMultiplier
	}
	return generalMultiplier
}

// ImpactScore computes the need score used to rank applicants, rounded to two decimals.
// Lower income and smaller landholding both raise the score; the result lies in [0, 150].
//
// Callers are expected to validate that income and landSize are non-negative;
// out-of-range values are clamped rather than rejected.
func ImpactScore(income int, landSize float64, category model.Category) float64 {
	incomeScore := (1 - float64(clampInt(income, 0, MaxIncome))/MaxIncome) * componentWeight
	landScore := (1 - clampFloat(landSize, 0, MaxLandSize)/MaxLandSize) * componentWeight

	base := incomeScore + landScore
	return roundTo2(base * CategoryMultiplier(category))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return max(lo, min(v, hi))
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
