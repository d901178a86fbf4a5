package shopping

import (
	"context"
	"testing"
	"time"

	"github.com/zy538324/homegrubhub-backend/domain"
	"github.com/zy538324/homegrubhub-backend/entities"
	"github.com/zy538324/homegrubhub-backend/pkg/pantry"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeShoppingRepository struct {
	items       map[string]*entities.ShoppingListItem
	weeklyLists map[string]*entities.WeeklyShoppingList
}

func newFakeShoppingRepository() *fakeShoppingRepository {
	return &fakeShoppingRepository{
		items:       make(map[string]*entities.ShoppingListItem),
		weeklyLists: make(map[string]*entities.WeeklyShoppingList),
	}
}

func (f *fakeShoppingRepository) AddItem(_ context.Context, item *entities.ShoppingListItem) error {
	f.items[item.ID.String()] = item
	return nil
}

func (f *fakeShoppingRepository) GetItemByID(_ context.Context, id string) (*entities.ShoppingListItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (f *fakeShoppingRepository) GetItemByName(_ context.Context, userID, itemName string) (*entities.ShoppingListItem, error) {
	for _, item := range f.items {
		if item.UserID.String() == userID && item.ItemName == itemName && !item.IsPurchased {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeShoppingRepository) UpdateItem(_ context.Context, item *entities.ShoppingListItem) error {
	f.items[item.ID.String()] = item
	return nil
}

func (f *fakeShoppingRepository) DeleteItem(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeShoppingRepository) GetItems(_ context.Context, userID string, includePurchased bool) ([]*entities.ShoppingListItem, error) {
	var out []*entities.ShoppingListItem
	for _, item := range f.items {
		if item.UserID.String() != userID {
			continue
		}
		if !includePurchased && item.IsPurchased {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeShoppingRepository) ClearPurchased(_ context.Context, userID string) (int64, error) {
	var cleared int64
	for id, item := range f.items {
		if item.UserID.String() == userID && item.IsPurchased {
			delete(f.items, id)
			cleared++
		}
	}
	return cleared, nil
}

func (f *fakeShoppingRepository) CreateWeeklyList(_ context.Context, list *entities.WeeklyShoppingList) error {
	f.weeklyLists[list.ID.String()] = list
	return nil
}

func (f *fakeShoppingRepository) GetWeeklyListByStart(_ context.Context, userID string, weekStart time.Time) (*entities.WeeklyShoppingList, error) {
	for _, list := range f.weeklyLists {
		if list.UserID.String() == userID && list.WeekStart.Equal(weekStart) {
			return list, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeShoppingRepository) GetWeeklyLists(_ context.Context, userID string, limit int) ([]*entities.WeeklyShoppingList, error) {
	var out []*entities.WeeklyShoppingList
	for _, list := range f.weeklyLists {
		if list.UserID.String() == userID {
			out = append(out, list)
		}
	}
	return out, nil
}

// fakePantryStore backs both the pantry repository and service used by the
// shopping service under test.
type fakePantryStore struct {
	items map[string]*entities.PantryItem
	logs  []*entities.PantryUsageLog
}

func (f *fakePantryStore) AddItem(_ context.Context, item *entities.PantryItem) error {
	f.items[item.ID.String()] = item
	return nil
}

func (f *fakePantryStore) GetItemByID(_ context.Context, id string) (*entities.PantryItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (f *fakePantryStore) GetItemByName(_ context.Context, userID, name string) (*entities.PantryItem, error) {
	for _, item := range f.items {
		if item.UserID.String() == userID && item.Name == name {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePantryStore) UpdateItem(_ context.Context, item *entities.PantryItem) error {
	f.items[item.ID.String()] = item
	return nil
}

func (f *fakePantryStore) DeleteItem(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakePantryStore) GetItems(_ context.Context, userID, status string, page, limit int) ([]*entities.PantryItem, int64, error) {
	return nil, 0, nil
}

func (f *fakePantryStore) GetAllItems(_ context.Context, userID string) ([]*entities.PantryItem, error) {
	return nil, nil
}

func (f *fakePantryStore) GetLowStockItems(_ context.Context, userID string) ([]*entities.PantryItem, error) {
	var out []*entities.PantryItem
	for _, item := range f.items {
		if item.UserID.String() == userID && item.IsLowStock() {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakePantryStore) GetExpiringItems(_ context.Context, userID string, before time.Time) ([]*entities.PantryItem, error) {
	return nil, nil
}

func (f *fakePantryStore) ApplyQuantityChange(_ context.Context, item *entities.PantryItem, log *entities.PantryUsageLog) error {
	f.items[item.ID.String()] = item
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakePantryStore) GetUsageLogs(_ context.Context, userID, itemID string, limit int) ([]*entities.PantryUsageLog, error) {
	return nil, nil
}

func (f *fakePantryStore) AddCategory(_ context.Context, category *entities.PantryCategory) error {
	return nil
}

func (f *fakePantryStore) GetCategories(_ context.Context, userID string) ([]*entities.PantryCategory, error) {
	return nil, nil
}

func (f *fakePantryStore) GetCategoryByID(_ context.Context, id string) (*entities.PantryCategory, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePantryStore) DeleteCategory(_ context.Context, id string) error {
	return nil
}

func newTestShoppingService(t *testing.T) (*shoppingService, *fakeShoppingRepository, *fakePantryStore) {
	t.Helper()
	shoppingRepo := newFakeShoppingRepository()
	pantryStore := &fakePantryStore{items: make(map[string]*entities.PantryItem)}
	svc := &shoppingService{
		shoppingRepository: shoppingRepo,
		pantryService:      pantry.NewPantryService(pantryStore, nil),
		pantryRepository:   pantryStore,
		now:                func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) },
	}
	return svc, shoppingRepo, pantryStore
}

func seedPantryItem(store *fakePantryStore, userID uuid.UUID, name string, current, minimum, ideal float64) *entities.PantryItem {
	item := &entities.PantryItem{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            name,
		CurrentQuantity: current,
		Unit:            "units",
		MinimumQuantity: minimum,
		IdealQuantity:   ideal,
	}
	store.items[item.ID.String()] = item
	return item
}

func TestTogglePurchasedAppliesToPantry(t *testing.T) {
	svc, shoppingRepo, pantryStore := newTestShoppingService(t)
	userID := uuid.New()
	pantryItem := seedPantryItem(pantryStore, userID, "Milk", 1, 2, 5)

	pid := pantryItem.ID
	listItem := &entities.ShoppingListItem{
		ID:             uuid.New(),
		UserID:         userID,
		ItemName:       "Milk",
		QuantityNeeded: 4,
		Unit:           "units",
		Source:         entities.SourceLowStock,
		PantryItemID:   &pid,
		Priority:       2,
	}
	shoppingRepo.items[listItem.ID.String()] = listItem

	resp, err := svc.TogglePurchased(context.Background(), userID.String(), listItem.ID.String(), domain.TogglePurchasedRequest{})
	if err != nil {
		t.Fatalf("TogglePurchased error: %v", err)
	}
	if !resp.IsPurchased {
		t.Error("IsPurchased should be true after toggle")
	}
	if resp.PurchasedAt == nil {
		t.Error("PurchasedAt should be set")
	}
	if got := pantryStore.items[pid.String()].CurrentQuantity; got != 5 {
		t.Errorf("pantry quantity = %v, want 5", got)
	}
	if len(pantryStore.logs) != 1 || pantryStore.logs[0].Reason != entities.ReasonPurchase {
		t.Fatalf("expected one purchase log, got %+v", pantryStore.logs)
	}
}

func TestTogglePurchasedRoundTripRestoresStock(t *testing.T) {
	svc, shoppingRepo, pantryStore := newTestShoppingService(t)
	userID := uuid.New()
	pantryItem := seedPantryItem(pantryStore, userID, "Eggs", 2, 3, 12)

	pid := pantryItem.ID
	listItem := &entities.ShoppingListItem{
		ID:             uuid.New(),
		UserID:         userID,
		ItemName:       "Eggs",
		QuantityNeeded: 10,
		Unit:           "units",
		Source:         entities.SourceLowStock,
		PantryItemID:   &pid,
		Priority:       2,
	}
	shoppingRepo.items[listItem.ID.String()] = listItem

	ctx := context.Background()
	if _, err := svc.TogglePurchased(ctx, userID.String(), listItem.ID.String(), domain.TogglePurchasedRequest{}); err != nil {
		t.Fatalf("first toggle error: %v", err)
	}
	resp, err := svc.TogglePurchased(ctx, userID.String(), listItem.ID.String(), domain.TogglePurchasedRequest{})
	if err != nil {
		t.Fatalf("second toggle error: %v", err)
	}

	if resp.IsPurchased {
		t.Error("IsPurchased should be false after round trip")
	}
	if got := pantryStore.items[pid.String()].CurrentQuantity; got != 2 {
		t.Errorf("pantry quantity = %v, want 2 (restored)", got)
	}
	if len(pantryStore.logs) != 2 {
		t.Fatalf("logs len = %d, want 2", len(pantryStore.logs))
	}
	if pantryStore.logs[1].Reason != entities.ReasonPurchaseCancel {
		t.Errorf("second log reason = %q, want purchase_cancelled", pantryStore.logs[1].Reason)
	}
}

func TestTogglePurchasedActualQuantityOverrides(t *testing.T) {
	svc, shoppingRepo, pantryStore := newTestShoppingService(t)
	userID := uuid.New()
	pantryItem := seedPantryItem(pantryStore, userID, "Flour", 0, 1, 2)

	pid := pantryItem.ID
	listItem := &entities.ShoppingListItem{
		ID:             uuid.New(),
		UserID:         userID,
		ItemName:       "Flour",
		QuantityNeeded: 2,
		Unit:           "kg",
		Source:         entities.SourceManual,
		PantryItemID:   &pid,
		Priority:       3,
	}
	shoppingRepo.items[listItem.ID.String()] = listItem

	actual := 3.0
	cost := 4.5
	resp, err := svc.TogglePurchased(context.Background(), userID.String(), listItem.ID.String(), domain.TogglePurchasedRequest{
		ActualQuantity: &actual,
		ActualCost:     &cost,
	})
	if err != nil {
		t.Fatalf("TogglePurchased error: %v", err)
	}
	if resp.QuantityNeeded != 3 {
		t.Errorf("QuantityNeeded = %v, want 3 (actual overrides)", resp.QuantityNeeded)
	}
	if resp.ActualCost == nil || *resp.ActualCost != 4.5 {
		t.Errorf("ActualCost = %v, want 4.5", resp.ActualCost)
	}
	if got := pantryStore.items[pid.String()].CurrentQuantity; got != 3 {
		t.Errorf("pantry quantity = %v, want 3", got)
	}
}

func TestGenerateFromLowStock(t *testing.T) {
	svc, _, pantryStore := newTestShoppingService(t)
	userID := uuid.New()

	seedPantryItem(pantryStore, userID, "Milk", 0, 2, 5)
	seedPantryItem(pantryStore, userID, "Salt", 1, 2, 3)
	seedPantryItem(pantryStore, userID, "Pasta", 8, 2, 6)

	resp, err := svc.GenerateFromLowStock(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("GenerateFromLowStock error: %v", err)
	}
	if resp.AddedCount != 2 {
		t.Fatalf("AddedCount = %d, want 2", resp.AddedCount)
	}

	byName := map[string]domain.ShoppingItemResponse{}
	for _, item := range resp.Items {
		byName[item.ItemName] = item
	}
	if byName["Milk"].QuantityNeeded != 5 {
		t.Errorf("Milk quantity = %v, want 5", byName["Milk"].QuantityNeeded)
	}
	if byName["Milk"].Priority != 1 {
		t.Errorf("Milk priority = %d, want 1 (out of stock)", byName["Milk"].Priority)
	}
	if byName["Salt"].Priority != 2 {
		t.Errorf("Salt priority = %d, want 2", byName["Salt"].Priority)
	}
	if byName["Milk"].Source != entities.SourceLowStock {
		t.Errorf("Source = %q, want low_stock", byName["Milk"].Source)
	}
}

func TestGenerateFromLowStockSkipsExistingEntries(t *testing.T) {
	svc, _, pantryStore := newTestShoppingService(t)
	userID := uuid.New()
	seedPantryItem(pantryStore, userID, "Milk", 0, 2, 5)

	ctx := context.Background()
	first, err := svc.GenerateFromLowStock(ctx, userID.String())
	if err != nil {
		t.Fatalf("first generate error: %v", err)
	}
	second, err := svc.GenerateFromLowStock(ctx, userID.String())
	if err != nil {
		t.Fatalf("second generate error: %v", err)
	}
	if first.AddedCount != 1 || second.AddedCount != 0 {
		t.Errorf("AddedCount = %d then %d, want 1 then 0", first.AddedCount, second.AddedCount)
	}
}

func TestCreateWeeklyListIdempotentPerWeek(t *testing.T) {
	svc, _, _ := newTestShoppingService(t)
	userID := uuid.New()

	ctx := context.Background()
	first, err := svc.CreateWeeklyList(ctx, userID.String(), domain.CreateWeeklyListRequest{WeekStart: "2025-06-16"})
	if err != nil {
		t.Fatalf("CreateWeeklyList error: %v", err)
	}
	second, err := svc.CreateWeeklyList(ctx, userID.String(), domain.CreateWeeklyListRequest{WeekStart: "2025-06-16"})
	if err != nil {
		t.Fatalf("second CreateWeeklyList error: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same list for same week, got %s and %s", first.ID, second.ID)
	}
	if first.Label != "Week of Jun 16 - Jun 22, 2025" {
		t.Errorf("Label = %q", first.Label)
	}

	if _, err := svc.CreateWeeklyList(ctx, userID.String(), domain.CreateWeeklyListRequest{WeekStart: "16/06/2025"}); err != domain.ErrInvalidWeekStart {
		t.Errorf("err = %v, want ErrInvalidWeekStart", err)
	}
}
