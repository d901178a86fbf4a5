package recipe

import (
	"context"
	"testing"
	"time"

	"github.com/zy538324/homegrubhub-backend/domain"
	"github.com/zy538324/homegrubhub-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRecipeRepository struct {
	recipes map[string]*entities.Recipe
	history []*entities.RecipeHistory
}

func newFakeRecipeRepository() *fakeRecipeRepository {
	return &fakeRecipeRepository{recipes: make(map[string]*entities.Recipe)}
}

func (f *fakeRecipeRepository) AddRecipe(_ context.Context, recipe *entities.Recipe) error {
	f.recipes[recipe.ID.String()] = recipe
	return nil
}

func (f *fakeRecipeRepository) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	recipe, ok := f.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return recipe, nil
}

func (f *fakeRecipeRepository) GetRecipes(_ context.Context, userID string) ([]*entities.Recipe, error) {
	var out []*entities.Recipe
	for _, recipe := range f.recipes {
		if recipe.UserID.String() == userID {
			out = append(out, recipe)
		}
	}
	return out, nil
}

func (f *fakeRecipeRepository) DeleteRecipe(_ context.Context, id string) error {
	delete(f.recipes, id)
	return nil
}

func (f *fakeRecipeRepository) AddHistory(_ context.Context, history *entities.RecipeHistory) error {
	f.history = append(f.history, history)
	return nil
}

func (f *fakeRecipeRepository) GetHistory(_ context.Context, userID string, since time.Time) ([]*entities.RecipeHistory, error) {
	var out []*entities.RecipeHistory
	for _, h := range f.history {
		if h.UserID.String() == userID && !h.CookedAt.Before(since) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeRecipeRepository) CountHistorySince(_ context.Context, userID string, since time.Time) (int64, error) {
	out, _ := f.GetHistory(context.Background(), userID, since)
	return int64(len(out)), nil
}

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
	return nil, nil
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

func newTestRecipeService() (*recipeService, *fakeRecipeRepository, *fakePantryStore) {
	recipeRepo := newFakeRecipeRepository()
	pantryStore := &fakePantryStore{items: make(map[string]*entities.PantryItem)}
	svc := &recipeService{
		recipeRepository: recipeRepo,
		pantryRepository: pantryStore,
		now:              func() time.Time { return time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC) },
	}
	return svc, recipeRepo, pantryStore
}

func seedRecipe(repo *fakeRecipeRepository, userID uuid.UUID, title string, ingredients ...entities.RecipeIngredient) *entities.Recipe {
	recipe := &entities.Recipe{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Servings:    2,
		Ingredients: ingredients,
	}
	repo.recipes[recipe.ID.String()] = recipe
	return recipe
}

func TestCookDeductsIngredients(t *testing.T) {
	svc, recipeRepo, pantryStore := newTestRecipeService()
	userID := uuid.New()

	pasta := &entities.PantryItem{ID: uuid.New(), UserID: userID, Name: "Pasta", CurrentQuantity: 5, Unit: "portions"}
	pantryStore.items[pasta.ID.String()] = pasta

	recipe := seedRecipe(recipeRepo, userID, "Carbonara",
		entities.RecipeIngredient{ItemName: "Pasta", Quantity: 2, Unit: "portions"},
		entities.RecipeIngredient{ItemName: "Guanciale", Quantity: 0.2, Unit: "kg"},
	)

	resp, err := svc.Cook(context.Background(), userID.String(), recipe.ID.String())
	if err != nil {
		t.Fatalf("Cook error: %v", err)
	}

	if len(resp.Deducted) != 1 || resp.Deducted[0] != "Pasta" {
		t.Errorf("Deducted = %v, want [Pasta]", resp.Deducted)
	}
	if len(resp.Missing) != 1 || resp.Missing[0] != "Guanciale" {
		t.Errorf("Missing = %v, want [Guanciale]", resp.Missing)
	}
	if got := pantryStore.items[pasta.ID.String()].CurrentQuantity; got != 3 {
		t.Errorf("pantry quantity = %v, want 3", got)
	}
}

func TestCookStampsRecipeOnLedger(t *testing.T) {
	svc, recipeRepo, pantryStore := newTestRecipeService()
	userID := uuid.New()

	rice := &entities.PantryItem{ID: uuid.New(), UserID: userID, Name: "Rice", CurrentQuantity: 2, Unit: "cups"}
	pantryStore.items[rice.ID.String()] = rice

	recipe := seedRecipe(recipeRepo, userID, "Fried Rice",
		entities.RecipeIngredient{ItemName: "Rice", Quantity: 1, Unit: "cups"},
	)

	if _, err := svc.Cook(context.Background(), userID.String(), recipe.ID.String()); err != nil {
		t.Fatalf("Cook error: %v", err)
	}

	if len(pantryStore.logs) != 1 {
		t.Fatalf("logs len = %d, want 1", len(pantryStore.logs))
	}
	log := pantryStore.logs[0]
	if log.Reason != entities.ReasonUsedInRecipe {
		t.Errorf("Reason = %q, want used_in_recipe", log.Reason)
	}
	if log.RecipeID == nil || *log.RecipeID != recipe.ID {
		t.Errorf("RecipeID = %v, want %v", log.RecipeID, recipe.ID)
	}
	if log.QuantityChange != -1 {
		t.Errorf("QuantityChange = %v, want -1", log.QuantityChange)
	}
}

func TestCookClampsAtZero(t *testing.T) {
	svc, recipeRepo, pantryStore := newTestRecipeService()
	userID := uuid.New()

	milk := &entities.PantryItem{ID: uuid.New(), UserID: userID, Name: "Milk", CurrentQuantity: 0.5, Unit: "litres"}
	pantryStore.items[milk.ID.String()] = milk

	recipe := seedRecipe(recipeRepo, userID, "Bechamel",
		entities.RecipeIngredient{ItemName: "Milk", Quantity: 2, Unit: "litres"},
	)

	if _, err := svc.Cook(context.Background(), userID.String(), recipe.ID.String()); err != nil {
		t.Fatalf("Cook error: %v", err)
	}

	if got := pantryStore.items[milk.ID.String()].CurrentQuantity; got != 0 {
		t.Errorf("pantry quantity = %v, want 0", got)
	}
	if pantryStore.logs[0].QuantityChange != -0.5 {
		t.Errorf("QuantityChange = %v, want -0.5 (delta after clamping)", pantryStore.logs[0].QuantityChange)
	}
}

func TestCookRecordsHistory(t *testing.T) {
	svc, recipeRepo, pantryStore := newTestRecipeService()
	userID := uuid.New()

	bread := &entities.PantryItem{ID: uuid.New(), UserID: userID, Name: "Bread", CurrentQuantity: 1, Unit: "loaves"}
	pantryStore.items[bread.ID.String()] = bread

	recipe := seedRecipe(recipeRepo, userID, "Toast",
		entities.RecipeIngredient{ItemName: "Bread", Quantity: 0.25, Unit: "loaves"},
	)

	if _, err := svc.Cook(context.Background(), userID.String(), recipe.ID.String()); err != nil {
		t.Fatalf("Cook error: %v", err)
	}
	if len(recipeRepo.history) != 1 {
		t.Fatalf("history len = %d, want 1", len(recipeRepo.history))
	}
	if recipeRepo.history[0].RecipeID != recipe.ID {
		t.Errorf("history RecipeID = %v, want %v", recipeRepo.history[0].RecipeID, recipe.ID)
	}
}

func TestCookRejectsOtherUsersRecipe(t *testing.T) {
	svc, recipeRepo, _ := newTestRecipeService()
	owner := uuid.New()
	recipe := seedRecipe(recipeRepo, owner, "Secret Curry",
		entities.RecipeIngredient{ItemName: "Spice", Quantity: 1, Unit: "tsp"},
	)

	_, err := svc.Cook(context.Background(), uuid.New().String(), recipe.ID.String())
	if err != domain.ErrUnauthorizedAccess {
		t.Errorf("err = %v, want ErrUnauthorizedAccess", err)
	}
}

func TestAddRecipeRequiresIngredients(t *testing.T) {
	svc, _, _ := newTestRecipeService()

	_, err := svc.AddRecipe(context.Background(), uuid.New().String(), domain.AddRecipeRequest{Title: "Empty"})
	if err != domain.ErrNoIngredients {
		t.Errorf("err = %v, want ErrNoIngredients", err)
	}
}
