package prediction

import (
	"math"
	"testing"
	"time"

	"github.com/zy538324/homegrubhub-backend/internal/utils"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestCombineEstimatesWeightsByConfidence(t *testing.T) {
	item := ItemSnapshot{ID: "item-1", Name: "Milk", CurrentQuantity: 10}
	estimates := map[string]Estimate{
		"linear_trend": {DailyRate: 1.0, Confidence: 0.9},
		"bootstrap":    {DailyRate: 2.0, Confidence: 0.3},
	}

	p := combineEstimates(item, estimates, utils.DefaultPredictionTuning(), testNow)

	wantRate := (1.0*0.9 + 2.0*0.3) / 1.2
	wantDays := 10 / wantRate
	if math.Abs(p.PredictedDaysRemaining-wantDays) > 1e-9 {
		t.Errorf("days remaining = %v, want %v", p.PredictedDaysRemaining, wantDays)
	}
	if math.Abs(p.ConfidenceScore-0.6) > 1e-9 {
		t.Errorf("confidence = %v, want 0.6", p.ConfidenceScore)
	}
	if p.PredictionModel != "ensemble" {
		t.Errorf("model = %q, want ensemble", p.PredictionModel)
	}
}

func TestCombineEstimatesRepeatsBitIdentically(t *testing.T) {
	item := ItemSnapshot{ID: "item-1", Name: "Milk", CurrentQuantity: 2}
	estimates := map[string]Estimate{
		"linear_trend": {DailyRate: 0.1, Confidence: 0.1},
		"seasonal":     {DailyRate: 0.2, Confidence: 0.2},
		"bootstrap":    {DailyRate: 0.3, Confidence: 0.3},
	}
	tuning := utils.DefaultPredictionTuning()

	first := combineEstimates(item, estimates, tuning, testNow)
	for i := 0; i < 2000; i++ {
		again := combineEstimates(item, estimates, tuning, testNow)
		if again.PredictedDaysRemaining != first.PredictedDaysRemaining {
			t.Fatalf("run %d: days remaining = %v, first run gave %v", i, again.PredictedDaysRemaining, first.PredictedDaysRemaining)
		}
		if again.ConfidenceScore != first.ConfidenceScore {
			t.Fatalf("run %d: confidence = %v, first run gave %v", i, again.ConfidenceScore, first.ConfidenceScore)
		}
	}
}

func TestCombineEstimatesCapsConfidence(t *testing.T) {
	item := ItemSnapshot{ID: "item-1", CurrentQuantity: 5}
	estimates := map[string]Estimate{
		"linear_trend": {DailyRate: 1.0, Confidence: 1.0},
		"seasonal":     {DailyRate: 1.0, Confidence: 1.0},
	}

	p := combineEstimates(item, estimates, utils.DefaultPredictionTuning(), testNow)
	if p.ConfidenceScore != 0.95 {
		t.Errorf("confidence = %v, want the 0.95 cap", p.ConfidenceScore)
	}
}

func TestCombineEstimatesReorderDate(t *testing.T) {
	item := ItemSnapshot{ID: "item-1", CurrentQuantity: 10}
	estimates := map[string]Estimate{
		"linear_trend": {DailyRate: 1.0, Confidence: 0.9},
	}

	p := combineEstimates(item, estimates, utils.DefaultPredictionTuning(), testNow)

	// 10 days of supply minus the 3-day lead.
	want := time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC)
	if !p.SuggestedReorderDate.Equal(want) {
		t.Errorf("reorder date = %v, want %v", p.SuggestedReorderDate, want)
	}
}

func TestCombineEstimatesTinyRateKeepsDaysFinite(t *testing.T) {
	item := ItemSnapshot{ID: "item-1", CurrentQuantity: 4}
	estimates := map[string]Estimate{
		"linear_trend": {DailyRate: 0.0001, Confidence: 0.5},
	}

	p := combineEstimates(item, estimates, utils.DefaultPredictionTuning(), testNow)

	// Rate floors at 0.1, so 4 units last at most 40 days.
	if math.IsInf(p.PredictedDaysRemaining, 0) || p.PredictedDaysRemaining > 40 {
		t.Errorf("days remaining = %v, want at most 40", p.PredictedDaysRemaining)
	}
}

func TestCombineEstimatesEmptyFallsBack(t *testing.T) {
	item := ItemSnapshot{ID: "item-1", Category: "Dairy & Eggs", CurrentQuantity: 2, IdealQuantity: 6}

	p := combineEstimates(item, nil, utils.DefaultPredictionTuning(), testNow)

	if p.PredictionModel != "fallback" {
		t.Fatalf("model = %q, want fallback", p.PredictionModel)
	}
	if math.Abs(p.PredictedDaysRemaining-10) > 1e-9 {
		t.Errorf("days remaining = %v, want 10 at the dairy default rate", p.PredictedDaysRemaining)
	}
	if p.ConfidenceScore != 0.3 {
		t.Errorf("confidence = %v, want the dairy default 0.3", p.ConfidenceScore)
	}
	if p.SuggestedQuantity != 6 {
		t.Errorf("suggested quantity = %v, want the ideal quantity", p.SuggestedQuantity)
	}
}

func TestFallbackUnknownCategory(t *testing.T) {
	item := ItemSnapshot{ID: "item-1", Category: "Mystery", CurrentQuantity: 1}

	p := fallbackPrediction(item, testNow)
	if math.Abs(p.PredictedDaysRemaining-5) > 1e-9 {
		t.Errorf("days remaining = %v, want 5 at the generic 0.2 rate", p.PredictedDaysRemaining)
	}
	if p.ConfidenceScore != 0.2 {
		t.Errorf("confidence = %v, want 0.2", p.ConfidenceScore)
	}
	if p.SuggestedQuantity != 5.0 {
		t.Errorf("suggested quantity = %v, want the 5.0 default", p.SuggestedQuantity)
	}
}

func TestSuggestedQuantityCategoryBounds(t *testing.T) {
	tuning := utils.DefaultPredictionTuning()

	tests := []struct {
		name     string
		category string
		rate     float64
		want     float64
	}{
		{"nominal 21 day supply", "Vegetables", 1.0, 21},
		{"dairy capped at 14 days", "Dairy & Eggs", 1.0, 14},
		{"staples floored at 30 days", "Pantry Staples", 1.0, 30},
		{"small quantities keep two decimals", "Spices", 0.01, 0.21},
		{"mid quantities keep one decimal", "Vegetables", 0.25, 5.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := ItemSnapshot{Category: tt.category}
			got := suggestedQuantity(item, tt.rate, tuning)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("suggestedQuantity(%q, %v) = %v, want %v", tt.category, tt.rate, got, tt.want)
			}
		})
	}
}

func TestSeasonalFactorTable(t *testing.T) {
	if f := seasonalFactor("Fresh Vegetables", time.July); f != 1.3 {
		t.Errorf("vegetables in July = %v, want 1.3", f)
	}
	if f := seasonalFactor("Fruit", time.January); f != 0.9 {
		t.Errorf("fruit in January = %v, want 0.9", f)
	}
	if f := seasonalFactor("Snacks", time.July); f != 1.0 {
		t.Errorf("unlisted category = %v, want 1.0", f)
	}
}

func TestWasteRiskScoreBounds(t *testing.T) {
	expired := testNow.AddDate(0, 0, -1)
	if got := wasteRiskScore(&expired, 5, testNow); got != 1.0 {
		t.Errorf("expired item = %v, want 1.0", got)
	}
	if got := wasteRiskScore(nil, 5, testNow); got != 0.3 {
		t.Errorf("no expiry date = %v, want 0.3", got)
	}
	soon := testNow.AddDate(0, 0, 2)
	if got := wasteRiskScore(&soon, 10, testNow); got <= 0.3 {
		t.Errorf("expiring before consumption = %v, want a high score", got)
	}
}
