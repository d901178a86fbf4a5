package prediction

import (
	"math"
	"strings"
	"time"

	"github.com/zy538324/homegrubhub-backend/domain"
	"github.com/zy538324/homegrubhub-backend/internal/utils"
)

type categoryDefault struct {
	dailyRate  float64
	confidence float64
}

// categoryDefaults back the fallback path when fewer than the minimum events
// exist or every estimator declines. Matching is by substring, so "Dairy &
// Eggs" picks up the dairy default.
var categoryDefaults = []struct {
	keyword string
	categoryDefault
}{
	{"dairy", categoryDefault{0.2, 0.3}},
	{"vegetable", categoryDefault{0.3, 0.3}},
	{"meat", categoryDefault{0.15, 0.3}},
	{"fish", categoryDefault{0.15, 0.3}},
	{"pantry", categoryDefault{0.1, 0.4}},
	{"staple", categoryDefault{0.1, 0.4}},
	{"fruit", categoryDefault{0.25, 0.3}},
}

func defaultForCategory(category string) categoryDefault {
	lower := strings.ToLower(category)
	for _, cd := range categoryDefaults {
		if strings.Contains(lower, cd.keyword) {
			return cd.categoryDefault
		}
	}
	return categoryDefault{0.2, 0.2}
}

// combineEstimates merges the estimator outputs into one prediction. Rates
// are confidence-weighted; the combined confidence is the plain mean, capped
// at 0.95 no matter what the constituents claim. Summation walks
// estimatorOrder rather than the map: float addition is not associative, so
// a randomized iteration order would perturb the low-order bits between runs.
func combineEstimates(item ItemSnapshot, estimates map[string]Estimate, tuning utils.PredictionTuning, now time.Time) domain.ConsumptionPrediction {
	if len(estimates) == 0 {
		return fallbackPrediction(item, now)
	}

	var weightedRate, totalConfidence float64
	for _, name := range estimatorOrder {
		est, ok := estimates[name]
		if !ok {
			continue
		}
		weightedRate += est.DailyRate * est.Confidence
		totalConfidence += est.Confidence
	}
	if totalConfidence == 0 {
		return fallbackPrediction(item, now)
	}

	rate := weightedRate / totalConfidence
	confidence := math.Min(0.95, totalConfidence/float64(len(estimates)))

	daysRemaining := item.CurrentQuantity / math.Max(rate, 0.1)
	reorderDate := today(now).AddDate(0, 0, int(math.Max(1, daysRemaining-tuning.ReorderLeadDays)))
	suggested := suggestedQuantity(item, rate, tuning)

	return domain.ConsumptionPrediction{
		ItemID:                 item.ID,
		ItemName:               item.Name,
		PredictedDaysRemaining: daysRemaining,
		ConfidenceScore:        confidence,
		PredictionModel:        "ensemble",
		SuggestedReorderDate:   reorderDate,
		SuggestedQuantity:      suggested,
		SeasonalFactor:         seasonalFactor(item.Category, now.Month()),
		CostOptimizationScore:  costOptimizationScore(item.CostPerUnit, suggested, tuning),
		WasteRiskScore:         wasteRiskScore(item.ExpiryDate, daysRemaining, now),
	}
}

// fallbackPrediction is the category-default path. It never fails; an item
// with no usable history still gets a conservative prediction.
func fallbackPrediction(item ItemSnapshot, now time.Time) domain.ConsumptionPrediction {
	cd := defaultForCategory(item.Category)

	daysRemaining := item.CurrentQuantity / cd.dailyRate
	suggested := item.IdealQuantity
	if suggested <= 0 {
		suggested = 5.0
	}

	return domain.ConsumptionPrediction{
		ItemID:                 item.ID,
		ItemName:               item.Name,
		PredictedDaysRemaining: daysRemaining,
		ConfidenceScore:        cd.confidence,
		PredictionModel:        "fallback",
		SuggestedReorderDate:   today(now).AddDate(0, 0, int(math.Max(1, daysRemaining-2))),
		SuggestedQuantity:      suggested,
		SeasonalFactor:         1.0,
		CostOptimizationScore:  0.5,
		WasteRiskScore:         0.3,
	}
}

// suggestedQuantity targets a configured days-of-supply, capped down for
// short-shelf-life categories and floored up for staples, then rounded to a
// precision tier matching the magnitude.
func suggestedQuantity(item ItemSnapshot, rate float64, tuning utils.PredictionTuning) float64 {
	base := rate * tuning.TargetSupplyDays

	lower := strings.ToLower(item.Category)
	if strings.Contains(lower, "dairy") {
		base = math.Min(base, rate*tuning.DairySupplyCapDays)
	} else if strings.Contains(lower, "pantry") || strings.Contains(lower, "canned") || strings.Contains(lower, "dry") || strings.Contains(lower, "staple") {
		base = math.Max(base, rate*tuning.StapleSupplyFloorDays)
	}

	switch {
	case base < 1:
		return math.Round(base*100) / 100
	case base < 10:
		return math.Round(base*10) / 10
	default:
		return math.Round(base)
	}
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
