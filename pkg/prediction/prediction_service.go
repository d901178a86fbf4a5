package prediction

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/zy538324/homegrubhub-backend/domain"
	"github.com/zy538324/homegrubhub-backend/entities"
	"github.com/zy538324/homegrubhub-backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	PredictionService interface {
		GeneratePredictions(ctx context.Context, userID string) (*domain.PredictiveAnalysis, error)
		GetItemForecast(ctx context.Context, userID, itemID string) (*domain.ItemForecast, error)
		GenerateSmartShoppingList(ctx context.Context, userID string, daysAhead int, budgetLimit *float64) (*domain.SmartShoppingList, error)
		ApplyRecommendations(ctx context.Context, userID string, req *domain.ApplyRecommendationsRequest) (*domain.ApplyRecommendationsResponse, error)
	}

	predictionService struct {
		predictionRepository PredictionRepository
		tuning               utils.PredictionTuning
		now                  func() time.Time
	}
)

func NewPredictionService(predictionRepository PredictionRepository) PredictionService {
	return &predictionService{
		predictionRepository: predictionRepository,
		tuning:               utils.GetPredictionTuning(),
		now:                  time.Now,
	}
}

func (s *predictionService) GeneratePredictions(ctx context.Context, userID string) (*domain.PredictiveAnalysis, error) {
	now := s.now()

	items, err := s.predictionRepository.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	recipeUse, err := s.predictionRepository.CountRecipeUse(ctx, userID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	var predictions []domain.ConsumptionPrediction
	var insights []domain.PantryInsight
	for _, item := range items {
		if item.CurrentQuantity <= 0 {
			continue
		}
		prediction, err := s.predictItem(ctx, userID, item, recipeUse, now)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, prediction)
		insights = append(insights, itemInsights(snapshotFromEntity(item), prediction)...)
	}

	insights = append(insights, systemInsights(predictions)...)
	sortInsights(insights)

	return &domain.PredictiveAnalysis{
		Predictions: predictions,
		Insights:    insights,
		Summary:     summarize(predictions),
		GeneratedAt: now,
	}, nil
}

func (s *predictionService) GetItemForecast(ctx context.Context, userID, itemID string) (*domain.ItemForecast, error) {
	now := s.now()

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.CurrentQuantity <= 0 {
		return nil, domain.ErrNoPredictionData
	}

	recipeUse, err := s.predictionRepository.CountRecipeUse(ctx, userID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	prediction, err := s.predictItem(ctx, userID, item, recipeUse, now)
	if err != nil {
		return nil, err
	}

	return &domain.ItemForecast{
		ItemName:         item.Name,
		CurrentQuantity:  item.CurrentQuantity,
		Prediction:       prediction,
		ForecastChart:    forecastChart(item.CurrentQuantity, prediction.PredictedDaysRemaining, now),
		ReorderThreshold: item.MinimumQuantity,
		IdealStockLevel:  item.IdealQuantity,
	}, nil
}

func (s *predictionService) GenerateSmartShoppingList(ctx context.Context, userID string, daysAhead int, budgetLimit *float64) (*domain.SmartShoppingList, error) {
	if daysAhead <= 0 {
		daysAhead = 7
	}

	analysis, err := s.GeneratePredictions(ctx, userID)
	if err != nil {
		return nil, err
	}

	var candidates []domain.ConsumptionPrediction
	for _, p := range analysis.Predictions {
		if p.PredictedDaysRemaining <= float64(daysAhead) {
			candidates = append(candidates, p)
		}
	}

	// Most urgent and most trusted first.
	sort.SliceStable(candidates, func(i, j int) bool {
		return urgencyScore(candidates[i]) > urgencyScore(candidates[j])
	})

	list := &domain.SmartShoppingList{
		DaysAhead:   daysAhead,
		GeneratedAt: analysis.GeneratedAt,
	}

	itemsByID := make(map[string]*entities.PantryItem)
	items, err := s.predictionRepository.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		itemsByID[item.ID.String()] = item
	}

	for _, p := range candidates {
		unitCost := 2.0
		item := itemsByID[p.ItemID]
		if item != nil && item.CostPerUnit != nil {
			unitCost = *item.CostPerUnit
		}
		estimatedCost := unitCost * p.SuggestedQuantity

		if budgetLimit != nil && list.TotalEstimatedCost+estimatedCost > *budgetLimit {
			continue
		}

		currentQuantity := 0.0
		if item != nil {
			currentQuantity = item.CurrentQuantity
		}

		list.Items = append(list.Items, domain.SmartShoppingEntry{
			ItemID:                 p.ItemID,
			ItemName:               p.ItemName,
			CurrentQuantity:        currentQuantity,
			SuggestedQuantity:      p.SuggestedQuantity,
			PredictedDaysRemaining: p.PredictedDaysRemaining,
			ConfidenceScore:        p.ConfidenceScore,
			EstimatedCost:          estimatedCost,
			Priority:               shoppingPriority(p.PredictedDaysRemaining),
			Notes:                  shoppingNotes(p),
		})
		list.TotalEstimatedCost += estimatedCost
	}

	if budgetLimit != nil {
		remaining := *budgetLimit - list.TotalEstimatedCost
		list.BudgetRemaining = &remaining
	}
	return list, nil
}

func (s *predictionService) ApplyRecommendations(ctx context.Context, userID string, req *domain.ApplyRecommendationsRequest) (*domain.ApplyRecommendationsResponse, error) {
	analysis, err := s.GeneratePredictions(ctx, userID)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(req.ItemIDs))
	for _, id := range req.ItemIDs {
		selected[id] = true
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	response := &domain.ApplyRecommendationsResponse{ActionType: req.ActionType}

	switch req.ActionType {
	case "add_to_shopping_list":
		var rows []*entities.ShoppingListItem
		for _, p := range analysis.Predictions {
			if !selected[p.ItemID] {
				continue
			}
			exists, err := s.predictionRepository.ExistsUnpurchasedLink(ctx, userID, p.ItemID)
			if err != nil {
				return nil, &domain.PredictionError{Kind: domain.KindPersistenceFailure, Err: err}
			}
			if exists {
				continue
			}
			item, err := s.predictionRepository.GetItemByID(ctx, p.ItemID)
			if err != nil {
				return nil, &domain.PredictionError{Kind: domain.KindPersistenceFailure, Err: err}
			}

			priority := 2
			if p.PredictedDaysRemaining <= 2 {
				priority = 1
			}
			unitCost := 0.0
			if item.CostPerUnit != nil {
				unitCost = *item.CostPerUnit
			}
			estimatedCost := unitCost * p.SuggestedQuantity
			pantryItemID := item.ID
			category := ""
			if item.Category != nil {
				category = item.Category.Name
			}

			rows = append(rows, &entities.ShoppingListItem{
				UserID:         uid,
				ItemName:       p.ItemName,
				Category:       category,
				QuantityNeeded: p.SuggestedQuantity,
				Unit:           item.Unit,
				Source:         entities.SourcePredictive,
				PantryItemID:   &pantryItemID,
				Priority:       priority,
				EstimatedCost:  &estimatedCost,
				Notes:          fmt.Sprintf("Predicted: %.1f days remaining", p.PredictedDaysRemaining),
			})
			response.AffectedItems = append(response.AffectedItems, p.ItemName)
		}
		if err := s.predictionRepository.AddShoppingItems(ctx, rows); err != nil {
			return nil, &domain.PredictionError{Kind: domain.KindPersistenceFailure, Err: err}
		}

	case "adjust_stock_levels":
		var updates []*entities.PantryItem
		for _, p := range analysis.Predictions {
			if !selected[p.ItemID] {
				continue
			}
			item, err := s.predictionRepository.GetItemByID(ctx, p.ItemID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return nil, &domain.PredictionError{Kind: domain.KindPersistenceFailure, Err: err}
			}
			item.MinimumQuantity = math.Max(1.0, p.SuggestedQuantity*0.3)
			item.IdealQuantity = p.SuggestedQuantity
			updates = append(updates, item)
			response.AffectedItems = append(response.AffectedItems, item.Name)
		}
		if err := s.predictionRepository.UpdateStockLevels(ctx, updates); err != nil {
			return nil, &domain.PredictionError{Kind: domain.KindPersistenceFailure, Err: err}
		}

	default:
		return nil, domain.ErrInvalidOperation
	}

	return response, nil
}

// predictItem runs the pipeline for one in-stock item. Estimator panics are
// logged and that estimator skipped; an empty estimator set falls back to the
// category default inside combineEstimates.
func (s *predictionService) predictItem(ctx context.Context, userID string, item *entities.PantryItem, recipeUse int64, now time.Time) (domain.ConsumptionPrediction, error) {
	snapshot := snapshotFromEntity(item)

	logs, err := s.predictionRepository.GetConsumptionEvents(
		ctx, userID, item.ID.String(),
		now.AddDate(0, 0, -s.tuning.LookbackDays),
		s.tuning.MaxEvents,
	)
	if err != nil {
		return domain.ConsumptionPrediction{}, err
	}

	events := eventsFromLogs(logs)
	if len(events) < s.tuning.MinEvents {
		return fallbackPrediction(snapshot, now), nil
	}

	env := estimatorEnv{
		Now:               now,
		RecipeUseCount30d: recipeUse,
		Seed:              s.tuning.EnsembleSeed,
	}

	estimates := make(map[string]Estimate, len(estimatorOrder))
	for _, name := range estimatorOrder {
		if estimate, ok := s.runEstimator(name, snapshot, events, env); ok {
			estimates[name] = estimate
		}
	}

	return combineEstimates(snapshot, estimates, s.tuning, now), nil
}

func (s *predictionService) runEstimator(name string, item ItemSnapshot, events []UsageEvent, env estimatorEnv) (estimate Estimate, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			perr := &domain.PredictionError{
				Kind: domain.KindEstimatorFailure,
				Err:  fmt.Errorf("estimator %s panicked for item %s: %v", name, item.ID, r),
			}
			log.Printf("%v", perr)
			ok = false
		}
	}()
	return estimators[name](item, events, env)
}

func (s *predictionService) ownedItem(ctx context.Context, userID, itemID string) (*entities.PantryItem, error) {
	item, err := s.predictionRepository.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPantryItemNotFound
		}
		return nil, err
	}
	if item.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return item, nil
}

func forecastChart(currentQuantity, daysRemaining float64, now time.Time) []domain.ForecastPoint {
	rate := 0.0
	if daysRemaining > 0 {
		rate = currentQuantity / daysRemaining
	}

	points := make([]domain.ForecastPoint, 0, 30)
	start := today(now)
	for i := 0; i < 30; i++ {
		quantity := math.Max(0, currentQuantity-rate*float64(i))
		points = append(points, domain.ForecastPoint{
			Date:              start.AddDate(0, 0, i).Format("2006-01-02"),
			PredictedQuantity: math.Round(quantity*100) / 100,
		})
	}
	return points
}

func urgencyScore(p domain.ConsumptionPrediction) float64 {
	return p.ConfidenceScore * (1.0 / math.Max(0.1, p.PredictedDaysRemaining))
}

func shoppingPriority(daysRemaining float64) int {
	switch {
	case daysRemaining <= 1:
		return 1
	case daysRemaining <= 3:
		return 2
	case daysRemaining <= 5:
		return 3
	case daysRemaining <= 7:
		return 4
	default:
		return 5
	}
}

func shoppingNotes(p domain.ConsumptionPrediction) string {
	var notes []string
	if p.ConfidenceScore < 0.5 {
		notes = append(notes, "Low confidence prediction")
	}
	if p.CostOptimizationScore > 0.7 {
		notes = append(notes, "Consider bulk purchase")
	}
	if p.WasteRiskScore > 0.6 {
		notes = append(notes, "Use quickly to avoid waste")
	}
	if p.SeasonalFactor > 1.2 {
		notes = append(notes, "Peak season - higher consumption expected")
	}
	if len(notes) == 0 {
		return "Regular purchase"
	}
	return strings.Join(notes, "; ")
}
