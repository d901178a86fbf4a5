package prediction

import (
	"fmt"
	"sort"

	"github.com/zy538324/homegrubhub-backend/domain"
)

// itemInsights applies the fixed thresholds to one prediction. Thresholds are
// absolute: days <= 5 means reorder, waste > 0.7 means use soon, cost > 0.8
// means a bulk-buy opportunity.
func itemInsights(item ItemSnapshot, p domain.ConsumptionPrediction) []domain.PantryInsight {
	var insights []domain.PantryInsight

	if p.PredictedDaysRemaining <= 5 {
		priority := 2
		if p.PredictedDaysRemaining <= 2 {
			priority = 1
		}
		insights = append(insights, domain.PantryInsight{
			InsightType:    domain.InsightReorder,
			Priority:       priority,
			Title:          fmt.Sprintf("Reorder %s", item.Name),
			Description:    fmt.Sprintf("Running low - %.1f days remaining", p.PredictedDaysRemaining),
			ActionRequired: true,
			ItemIDs:        []string{item.ID},
		})
	}

	if p.WasteRiskScore > 0.7 {
		insights = append(insights, domain.PantryInsight{
			InsightType:    domain.InsightWasteRisk,
			Priority:       2,
			Title:          fmt.Sprintf("Use %s soon", item.Name),
			Description:    "High waste risk - consider using in next few meals",
			ActionRequired: true,
			ItemIDs:        []string{item.ID},
		})
	}

	if p.CostOptimizationScore > 0.8 {
		unitCost := 0.0
		if item.CostPerUnit != nil {
			unitCost = *item.CostPerUnit
		}
		savings := unitCost * p.SuggestedQuantity * 0.15
		insights = append(insights, domain.PantryInsight{
			InsightType:      domain.InsightCostSavings,
			Priority:         3,
			Title:            fmt.Sprintf("Bulk buy opportunity for %s", item.Name),
			Description:      "Consider buying larger quantity for better value",
			ActionRequired:   false,
			EstimatedSavings: &savings,
			ItemIDs:          []string{item.ID},
		})
	}

	return insights
}

// systemInsights looks across the whole pantry: clusters of waste risk and
// the aggregate savings of one well-planned shopping trip.
func systemInsights(predictions []domain.ConsumptionPrediction) []domain.PantryInsight {
	var insights []domain.PantryInsight

	var highWasteIDs []string
	for _, p := range predictions {
		if p.WasteRiskScore > 0.6 {
			highWasteIDs = append(highWasteIDs, p.ItemID)
		}
	}
	if len(highWasteIDs) > 3 {
		insights = append(insights, domain.PantryInsight{
			InsightType:    domain.InsightWasteRisk,
			Priority:       1,
			Title:          "Multiple items at risk of waste",
			Description:    fmt.Sprintf("%d items may expire soon - plan meals to use them", len(highWasteIDs)),
			ActionRequired: true,
			ItemIDs:        highWasteIDs,
		})
	}

	var tripSavings float64
	for _, p := range predictions {
		if p.PredictedDaysRemaining <= 7 {
			tripSavings += p.CostOptimizationScore * p.SuggestedQuantity * 0.1
		}
	}
	if tripSavings > 5.0 {
		insights = append(insights, domain.PantryInsight{
			InsightType:      domain.InsightCostSavings,
			Priority:         2,
			Title:            "Optimize your shopping trip",
			Description:      fmt.Sprintf("Plan purchases to save approximately %.2f", tripSavings),
			ActionRequired:   false,
			EstimatedSavings: &tripSavings,
		})
	}

	return insights
}

// sortInsights orders by priority, high first. The sort is stable so equal
// priorities keep generation order.
func sortInsights(insights []domain.PantryInsight) {
	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority < insights[j].Priority
	})
}

func summarize(predictions []domain.ConsumptionPrediction) domain.PredictionSummary {
	summary := domain.PredictionSummary{TotalItems: len(predictions)}
	if len(predictions) == 0 {
		return summary
	}

	var confidenceSum float64
	for _, p := range predictions {
		confidenceSum += p.ConfidenceScore
		if p.PredictedDaysRemaining <= 7 {
			summary.ItemsNeedReorder++
		}
		if p.WasteRiskScore > 0.6 {
			summary.HighWasteRisk++
		}
		if p.CostOptimizationScore > 0.7 {
			summary.CostOptimizationOpps++
		}
		summary.TotalEstimatedSavings += p.CostOptimizationScore * 2.0
	}
	summary.AvgConfidence = confidenceSum / float64(len(predictions))
	return summary
}
