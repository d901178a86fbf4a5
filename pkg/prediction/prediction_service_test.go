package prediction

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/zy538324/homegrubhub-backend/domain"
	"github.com/zy538324/homegrubhub-backend/entities"
	"github.com/zy538324/homegrubhub-backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakePredictionRepository struct {
	items        map[uuid.UUID]*entities.PantryItem
	logs         []*entities.PantryUsageLog
	shoppingRows []*entities.ShoppingListItem
}

func newFakePredictionRepository() *fakePredictionRepository {
	return &fakePredictionRepository{items: map[uuid.UUID]*entities.PantryItem{}}
}

func (f *fakePredictionRepository) GetItems(_ context.Context, userID string) ([]*entities.PantryItem, error) {
	var items []*entities.PantryItem
	for _, item := range f.items {
		if item.UserID.String() == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakePredictionRepository) GetItemByID(_ context.Context, id string) (*entities.PantryItem, error) {
	iid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	item, ok := f.items[iid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (f *fakePredictionRepository) GetConsumptionEvents(_ context.Context, userID, itemID string, since time.Time, limit int) ([]*entities.PantryUsageLog, error) {
	var logs []*entities.PantryUsageLog
	for _, l := range f.logs {
		if l.UserID.String() != userID || l.ItemID.String() != itemID {
			continue
		}
		if l.QuantityChange >= 0 || l.Timestamp.Before(since) {
			continue
		}
		logs = append(logs, l)
		if len(logs) == limit {
			break
		}
	}
	return logs, nil
}

func (f *fakePredictionRepository) CountRecipeUse(_ context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	for _, l := range f.logs {
		if l.UserID.String() == userID && l.Reason == entities.ReasonUsedInRecipe && !l.Timestamp.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakePredictionRepository) ExistsUnpurchasedLink(_ context.Context, userID, pantryItemID string) (bool, error) {
	for _, row := range f.shoppingRows {
		if row.UserID.String() == userID && row.PantryItemID != nil &&
			row.PantryItemID.String() == pantryItemID && !row.IsPurchased {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePredictionRepository) AddShoppingItems(_ context.Context, items []*entities.ShoppingListItem) error {
	f.shoppingRows = append(f.shoppingRows, items...)
	return nil
}

func (f *fakePredictionRepository) UpdateStockLevels(_ context.Context, items []*entities.PantryItem) error {
	for _, item := range items {
		stored, ok := f.items[item.ID]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		stored.MinimumQuantity = item.MinimumQuantity
		stored.IdealQuantity = item.IdealQuantity
	}
	return nil
}

var serviceNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestPredictionService(repo PredictionRepository) *predictionService {
	return &predictionService{
		predictionRepository: repo,
		tuning:               utils.DefaultPredictionTuning(),
		now:                  func() time.Time { return serviceNow },
	}
}

func seedPredictionItem(f *fakePredictionRepository, userID uuid.UUID, name string, quantity float64) *entities.PantryItem {
	item := &entities.PantryItem{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            name,
		CurrentQuantity: quantity,
		Unit:            "units",
		MinimumQuantity: 1,
		IdealQuantity:   5,
	}
	f.items[item.ID] = item
	return item
}

func seedDailyConsumption(f *fakePredictionRepository, item *entities.PantryItem, days int, perDay float64) {
	for i := 0; i < days; i++ {
		ts := serviceNow.AddDate(0, 0, -(i + 1))
		f.logs = append(f.logs, &entities.PantryUsageLog{
			ID:             uuid.New(),
			ItemID:         item.ID,
			UserID:         item.UserID,
			QuantityChange: -perDay,
			Reason:         entities.ReasonManualAdjustment,
			Timestamp:      ts,
		})
	}
}

func TestGeneratePredictionsSteadyConsumption(t *testing.T) {
	repo := newFakePredictionRepository()
	userID := uuid.New()
	item := seedPredictionItem(repo, userID, "Milk", 10)
	seedDailyConsumption(repo, item, 7, 1.0)

	svc := newTestPredictionService(repo)
	analysis, err := svc.GeneratePredictions(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("GeneratePredictions: %v", err)
	}
	if len(analysis.Predictions) != 1 {
		t.Fatalf("predictions = %d, want 1", len(analysis.Predictions))
	}

	p := analysis.Predictions[0]
	if p.PredictionModel != "ensemble" {
		t.Errorf("model = %q, want ensemble", p.PredictionModel)
	}
	// One unit per day against a stock of ten.
	if math.Abs(p.PredictedDaysRemaining-10) > 1.0 {
		t.Errorf("days remaining = %v, want close to 10", p.PredictedDaysRemaining)
	}
	if p.ConfidenceScore < 0.4 || p.ConfidenceScore > 0.95 {
		t.Errorf("confidence = %v, want within (0.4, 0.95]", p.ConfidenceScore)
	}
	if p.PredictedDaysRemaining < 0 || math.IsInf(p.PredictedDaysRemaining, 0) {
		t.Errorf("days remaining = %v, want finite and non-negative", p.PredictedDaysRemaining)
	}
	lead := today(serviceNow).AddDate(0, 0, 6)
	if p.SuggestedReorderDate.Before(lead) || p.SuggestedReorderDate.After(lead.AddDate(0, 0, 2)) {
		t.Errorf("reorder date = %v, want about a week out", p.SuggestedReorderDate)
	}
	if !analysis.GeneratedAt.Equal(serviceNow) {
		t.Errorf("generated at = %v, want %v", analysis.GeneratedAt, serviceNow)
	}
}

func TestGeneratePredictionsIsIdempotent(t *testing.T) {
	repo := newFakePredictionRepository()
	userID := uuid.New()
	item := seedPredictionItem(repo, userID, "Rice", 8)
	seedDailyConsumption(repo, item, 14, 0.5)

	svc := newTestPredictionService(repo)
	first, err := svc.GeneratePredictions(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.GeneratePredictions(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same ledger produced different output")
	}
}

func TestGeneratePredictionsSparseHistoryFallsBack(t *testing.T) {
	repo := newFakePredictionRepository()
	userID := uuid.New()
	item := seedPredictionItem(repo, userID, "Saffron", 2)
	seedDailyConsumption(repo, item, 2, 0.1)

	svc := newTestPredictionService(repo)
	analysis, err := svc.GeneratePredictions(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("GeneratePredictions: %v", err)
	}
	if len(analysis.Predictions) != 1 {
		t.Fatalf("predictions = %d, want 1", len(analysis.Predictions))
	}
	p := analysis.Predictions[0]
	if p.PredictionModel != "fallback" {
		t.Errorf("model = %q, want fallback below the event minimum", p.PredictionModel)
	}
	// Generic default rate 0.2 against a stock of 2.
	if math.Abs(p.PredictedDaysRemaining-10) > 1e-9 {
		t.Errorf("days remaining = %v, want 10", p.PredictedDaysRemaining)
	}
	if p.ConfidenceScore > 0.3 {
		t.Errorf("confidence = %v, want the low category default", p.ConfidenceScore)
	}
}

func TestGeneratePredictionsSkipsOutOfStock(t *testing.T) {
	repo := newFakePredictionRepository()
	userID := uuid.New()
	empty := seedPredictionItem(repo, userID, "Flour", 0)
	seedDailyConsumption(repo, empty, 10, 1.0)
	stocked := seedPredictionItem(repo, userID, "Milk", 4)
	seedDailyConsumption(repo, stocked, 7, 1.0)

	svc := newTestPredictionService(repo)
	analysis, err := svc.GeneratePredictions(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("GeneratePredictions: %v", err)
	}
	if len(analysis.Predictions) != 1 {
		t.Fatalf("predictions = %d, want the stocked item only", len(analysis.Predictions))
	}
	if analysis.Predictions[0].ItemName != "Milk" {
		t.Errorf("item = %q, want Milk", analysis.Predictions[0].ItemName)
	}
}

func TestGetItemForecastChart(t *testing.T) {
	repo := newFakePredictionRepository()
	userID := uuid.New()
	item := seedPredictionItem(repo, userID, "Milk", 10)
	seedDailyConsumption(repo, item, 7, 1.0)

	svc := newTestPredictionService(repo)
	forecast, err := svc.GetItemForecast(context.Background(), userID.String(), item.ID.String())
	if err != nil {
		t.Fatalf("GetItemForecast: %v", err)
	}

	if len(forecast.ForecastChart) != 30 {
		t.Fatalf("chart points = %d, want 30", len(forecast.ForecastChart))
	}
	if forecast.ForecastChart[0].PredictedQuantity != 10 {
		t.Errorf("day 0 quantity = %v, want the current stock", forecast.ForecastChart[0].PredictedQuantity)
	}
	if forecast.ForecastChart[0].Date != "2025-06-15" {
		t.Errorf("day 0 date = %q, want 2025-06-15", forecast.ForecastChart[0].Date)
	}
	last := forecast.ForecastChart[29].PredictedQuantity
	if last != 0 {
		t.Errorf("day 29 quantity = %v, want depleted to 0", last)
	}
	for _, point := range forecast.ForecastChart {
		if point.PredictedQuantity < 0 {
			t.Fatalf("quantity went negative at %s", point.Date)
		}
	}
	if forecast.ReorderThreshold != 1 || forecast.IdealStockLevel != 5 {
		t.Errorf("thresholds = %v/%v, want 1/5", forecast.ReorderThreshold, forecast.IdealStockLevel)
	}
}

func TestGetItemForecastOutOfStock(t *testing.T) {
	repo := newFakePredictionRepository()
	userID := uuid.New()
	item := seedPredictionItem(repo, userID, "Flour", 0)

	svc := newTestPredictionService(repo)
	if _, err := svc.GetItemForecast(context.Background(), userID.String(), item.ID.String()); !errors.Is(err, domain.ErrNoPredictionData) {
		t.Errorf("err = %v, want ErrNoPredictionData", err)
	}
}

func TestGetItemForecastRejectsOtherUsersItem(t *testing.T) {
	repo := newFakePredictionRepository()
	owner := uuid.New()
	item := seedPredictionItem(repo, owner, "Milk", 5)

	svc := newTestPredictionService(repo)
	if _, err := svc.GetItemForecast(context.Background(), uuid.New().String(), item.ID.String()); !errors.Is(err, domain.ErrUnauthorizedAccess) {
		t.Errorf("err = %v, want ErrUnauthorizedAccess", err)
	}
}

func TestSmartShoppingListFiltersAndSorts(t *testing.T) {
	repo := newFakePredictionRepository()
	userID := uuid.New()

	urgent := seedPredictionItem(repo, userID, "Milk", 2)
	seedDailyConsumption(repo, urgent, 7, 1.0)
	comfortable := seedPredictionItem(repo, userID, "Rice", 50)
	seedDailyConsumption(repo, comfortable, 7, 1.0)

	svc := newTestPredictionService(repo)
	list, err := svc.GenerateSmartShoppingList(context.Background(), userID.String(), 7, nil)
	if err != nil {
		t.Fatalf("GenerateSmartShoppingList: %v", err)
	}

	if len(list.Items) != 1 {
		t.Fatalf("items = %d, want the urgent item only", len(list.Items))
	}
	entry := list.Items[0]
	if entry.ItemName != "Milk" {
		t.Errorf("item = %q, want Milk", entry.ItemName)
	}
	if entry.Priority < 1 || entry.Priority > 2 {
		t.Errorf("priority = %d, want 1 or 2 for about two days of stock", entry.Priority)
	}
	if entry.Notes == "" {
		t.Error("expected notes on the entry")
	}
	// No cost on the item, so the 2.0 placeholder applies.
	wantCost := 2.0 * entry.SuggestedQuantity
	if math.Abs(entry.EstimatedCost-wantCost) > 1e-9 {
		t.Errorf("estimated cost = %v, want %v", entry.EstimatedCost, wantCost)
	}
	if list.DaysAhead != 7 {
		t.Errorf("days ahead = %d, want 7", list.DaysAhead)
	}
}

func TestSmartShoppingListBudgetCutoff(t *testing.T) {
	repo := newFakePredictionRepository()
	userID := uuid.New()
	item := seedPredictionItem(repo, userID, "Milk", 2)
	seedDailyConsumption(repo, item, 7, 1.0)

	svc := newTestPredictionService(repo)
	budget := 0.5
	list, err := svc.GenerateSmartShoppingList(context.Background(), userID.String(), 7, &budget)
	if err != nil {
		t.Fatalf("GenerateSmartShoppingList: %v", err)
	}
	if len(list.Items) != 0 {
		t.Errorf("items = %d, want none inside a 0.5 budget", len(list.Items))
	}
	if list.BudgetRemaining == nil || *list.BudgetRemaining != 0.5 {
		t.Errorf("budget remaining = %v, want 0.5", list.BudgetRemaining)
	}
}

func TestApplyRecommendationsAddsToShoppingList(t *testing.T) {
	repo := newFakePredictionRepository()
	userID := uuid.New()
	item := seedPredictionItem(repo, userID, "Milk", 2)
	seedDailyConsumption(repo, item, 7, 1.0)

	svc := newTestPredictionService(repo)
	resp, err := svc.ApplyRecommendations(context.Background(), userID.String(), &domain.ApplyRecommendationsRequest{
		ItemIDs:    []string{item.ID.String()},
		ActionType: "add_to_shopping_list",
	})
	if err != nil {
		t.Fatalf("ApplyRecommendations: %v", err)
	}
	if len(resp.AffectedItems) != 1 || resp.AffectedItems[0] != "Milk" {
		t.Fatalf("affected = %v, want [Milk]", resp.AffectedItems)
	}

	if len(repo.shoppingRows) != 1 {
		t.Fatalf("shopping rows = %d, want 1", len(repo.shoppingRows))
	}
	row := repo.shoppingRows[0]
	if row.Source != entities.SourcePredictive {
		t.Errorf("source = %q, want predictive", row.Source)
	}
	if row.Priority != 1 && row.Priority != 2 {
		t.Errorf("priority = %d, want 1 or 2 for about two days of stock", row.Priority)
	}
	if row.Notes == "" {
		t.Error("expected a note on the generated row")
	}
	if row.PantryItemID == nil || *row.PantryItemID != item.ID {
		t.Errorf("pantry link = %v, want %v", row.PantryItemID, item.ID)
	}

	// A second apply sees the unpurchased row and adds nothing.
	resp, err = svc.ApplyRecommendations(context.Background(), userID.String(), &domain.ApplyRecommendationsRequest{
		ItemIDs:    []string{item.ID.String()},
		ActionType: "add_to_shopping_list",
	})
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if len(resp.AffectedItems) != 0 || len(repo.shoppingRows) != 1 {
		t.Errorf("second apply added rows: affected=%v rows=%d", resp.AffectedItems, len(repo.shoppingRows))
	}
}

func TestApplyRecommendationsAdjustsStockLevels(t *testing.T) {
	repo := newFakePredictionRepository()
	userID := uuid.New()
	item := seedPredictionItem(repo, userID, "Rice", 8)
	seedDailyConsumption(repo, item, 14, 0.5)

	svc := newTestPredictionService(repo)
	resp, err := svc.ApplyRecommendations(context.Background(), userID.String(), &domain.ApplyRecommendationsRequest{
		ItemIDs:    []string{item.ID.String()},
		ActionType: "adjust_stock_levels",
	})
	if err != nil {
		t.Fatalf("ApplyRecommendations: %v", err)
	}
	if len(resp.AffectedItems) != 1 {
		t.Fatalf("affected = %v, want one item", resp.AffectedItems)
	}

	stored := repo.items[item.ID]
	if stored.IdealQuantity <= 0 {
		t.Errorf("ideal = %v, want the suggested quantity", stored.IdealQuantity)
	}
	wantMin := math.Max(1.0, stored.IdealQuantity*0.3)
	if math.Abs(stored.MinimumQuantity-wantMin) > 1e-9 {
		t.Errorf("minimum = %v, want %v", stored.MinimumQuantity, wantMin)
	}
}
