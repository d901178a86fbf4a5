package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	MessageSuccessGetPredictions = "predictions generated successfully"
	MessageSuccessGetForecast    = "consumption forecast generated successfully"
	MessageSuccessSmartList      = "smart shopping list generated successfully"
	MessageSuccessApplyRecs      = "recommendations applied successfully"

	MessageFailedGetPredictions = "failed to generate predictions"
	MessageFailedGetForecast    = "failed to generate consumption forecast"
	MessageFailedSmartList      = "failed to generate smart shopping list"
	MessageFailedApplyRecs      = "failed to apply recommendations"

	ErrNoPredictionData = errors.New("insufficient data for prediction")
)

// PredictionErrorKind is the closed taxonomy for pipeline failures. Handlers
// and tests branch on the kind, never on error strings.
type PredictionErrorKind string

const (
	KindInsufficientData   PredictionErrorKind = "insufficient_data"
	KindEstimatorFailure   PredictionErrorKind = "estimator_failure"
	KindPersistenceFailure PredictionErrorKind = "persistence_failure"
)

// PredictionError wraps a pipeline failure with its kind. Insufficient data is
// resolved by category fallback and never surfaces to callers; the other kinds
// do.
type PredictionError struct {
	Kind PredictionErrorKind
	Err  error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction: %s: %v", e.Kind, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// Insight types.
const (
	InsightReorder     = "reorder"
	InsightWasteRisk   = "waste_risk"
	InsightCostSavings = "cost_savings"
)

type (
	// ConsumptionPrediction is computed fresh on every request and never
	// persisted.
	ConsumptionPrediction struct {
		ItemID                 string    `json:"item_id"`
		ItemName               string    `json:"item_name"`
		PredictedDaysRemaining float64   `json:"predicted_days_remaining"`
		ConfidenceScore        float64   `json:"confidence_score"`
		PredictionModel        string    `json:"prediction_model"`
		SuggestedReorderDate   time.Time `json:"suggested_reorder_date"`
		SuggestedQuantity      float64   `json:"suggested_quantity"`
		SeasonalFactor         float64   `json:"seasonal_factor"`
		CostOptimizationScore  float64   `json:"cost_optimization_score"`
		WasteRiskScore         float64   `json:"waste_risk_score"`
	}

	PantryInsight struct {
		InsightType      string   `json:"insight_type"`
		Priority         int      `json:"priority"` // 1=high, 5=low
		Title            string   `json:"title"`
		Description      string   `json:"description"`
		ActionRequired   bool     `json:"action_required"`
		EstimatedSavings *float64 `json:"estimated_savings,omitempty"`
		ItemIDs          []string `json:"item_ids,omitempty"`
	}

	PredictionSummary struct {
		TotalItems            int     `json:"total_items"`
		AvgConfidence         float64 `json:"avg_confidence"`
		ItemsNeedReorder      int     `json:"items_need_reorder"`
		HighWasteRisk         int     `json:"high_waste_risk"`
		CostOptimizationOpps  int     `json:"cost_optimization_opportunities"`
		TotalEstimatedSavings float64 `json:"total_estimated_savings"`
	}

	PredictiveAnalysis struct {
		Predictions []ConsumptionPrediction `json:"predictions"`
		Insights    []PantryInsight         `json:"insights"`
		Summary     PredictionSummary       `json:"summary"`
		GeneratedAt time.Time               `json:"generated_at"`
	}

	ForecastPoint struct {
		Date              string  `json:"date"`
		PredictedQuantity float64 `json:"predicted_quantity"`
	}

	ItemForecast struct {
		ItemName         string                `json:"item_name"`
		CurrentQuantity  float64               `json:"current_quantity"`
		Prediction       ConsumptionPrediction `json:"prediction"`
		ForecastChart    []ForecastPoint       `json:"forecast_chart"`
		ReorderThreshold float64               `json:"reorder_threshold"`
		IdealStockLevel  float64               `json:"ideal_stock_level"`
	}

	SmartShoppingEntry struct {
		ItemID                 string  `json:"item_id"`
		ItemName               string  `json:"item_name"`
		CurrentQuantity        float64 `json:"current_quantity"`
		SuggestedQuantity      float64 `json:"suggested_quantity"`
		PredictedDaysRemaining float64 `json:"predicted_days_remaining"`
		ConfidenceScore        float64 `json:"confidence_score"`
		EstimatedCost          float64 `json:"estimated_cost"`
		Priority               int     `json:"priority"`
		Notes                  string  `json:"notes"`
	}

	SmartShoppingList struct {
		Items              []SmartShoppingEntry `json:"items"`
		TotalEstimatedCost float64              `json:"total_estimated_cost"`
		BudgetRemaining    *float64             `json:"budget_remaining,omitempty"`
		DaysAhead          int                  `json:"days_ahead"`
		GeneratedAt        time.Time            `json:"generated_at"`
	}

	ApplyRecommendationsRequest struct {
		ItemIDs    []string `json:"item_ids" validate:"required,min=1,dive,uuid"`
		ActionType string   `json:"action_type" validate:"required,oneof=add_to_shopping_list adjust_stock_levels"`
	}

	ApplyRecommendationsResponse struct {
		AffectedItems []string `json:"affected_items"`
		ActionType    string   `json:"action_type"`
	}
)
