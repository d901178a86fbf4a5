package prediction

import (
	"math"
	"strings"
	"time"

	"github.com/zy538324/homegrubhub-backend/internal/utils"
)

// seasonalFactor adjusts for category-level consumption seasons: fresh
// produce peaks in summer, dairy climbs slightly in winter for baking.
func seasonalFactor(category string, month time.Month) float64 {
	lower := strings.ToLower(category)

	winter := month == time.December || month == time.January || month == time.February
	spring := month >= time.March && month <= time.May
	summer := month >= time.June && month <= time.August
	fall := month >= time.September && month <= time.November

	switch {
	case strings.Contains(lower, "vegetable"):
		switch {
		case winter:
			return 0.8
		case spring:
			return 1.2
		case summer:
			return 1.3
		case fall:
			return 1.1
		}
	case strings.Contains(lower, "fruit"):
		switch {
		case winter:
			return 0.9
		case summer:
			return 1.4
		}
	case strings.Contains(lower, "dairy"):
		if winter {
			return 1.1
		}
	}
	return 1.0
}

// costOptimizationScore models the value of buying in bulk. Without cost
// data the score stays neutral.
func costOptimizationScore(costPerUnit *float64, suggested float64, tuning utils.PredictionTuning) float64 {
	if costPerUnit == nil {
		return 0.5
	}
	discount := 0.0
	if suggested >= tuning.BulkThreshold {
		discount = tuning.BulkDiscount
	}
	return math.Min(1.0, discount+0.5)
}

// wasteRiskScore compares the predicted run-out horizon with the expiry
// horizon. Consuming well before expiry scores near zero, expiring before
// consumption scores toward one.
func wasteRiskScore(expiry *time.Time, daysRemaining float64, now time.Time) float64 {
	if expiry == nil {
		return 0.3
	}

	daysToExpiry := expiry.Sub(today(now)).Hours() / 24
	switch {
	case daysToExpiry <= 0:
		return 1.0
	case daysRemaining > daysToExpiry:
		return math.Min(1.0, (daysRemaining-daysToExpiry)/daysRemaining)
	default:
		return math.Max(0.0, 1.0-(daysToExpiry-daysRemaining)/daysToExpiry)
	}
}
