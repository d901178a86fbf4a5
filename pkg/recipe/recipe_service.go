package recipe

import (
	"context"
	"errors"
	"time"

	"github.com/zy538324/homegrubhub-backend/domain"
	"github.com/zy538324/homegrubhub-backend/entities"
	"github.com/zy538324/homegrubhub-backend/pkg/pantry"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		AddRecipe(ctx context.Context, userID string, req domain.AddRecipeRequest) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, userID string) ([]domain.RecipeResponse, error)
		GetRecipe(ctx context.Context, userID, recipeID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, userID, recipeID string) error
		Cook(ctx context.Context, userID, recipeID string) (domain.CookRecipeResponse, error)
		GetCookingHistory(ctx context.Context, userID string, sinceDays int) ([]domain.CookingHistoryResponse, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		pantryRepository pantry.PantryRepository
		now              func() time.Time
	}
)

func NewRecipeService(recipeRepository RecipeRepository, pantryRepository pantry.PantryRepository) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		pantryRepository: pantryRepository,
		now:              time.Now,
	}
}

func (s *recipeService) AddRecipe(ctx context.Context, userID string, req domain.AddRecipeRequest) (domain.RecipeResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}
	if len(req.Ingredients) == 0 {
		return domain.RecipeResponse{}, domain.ErrNoIngredients
	}

	recipe := &entities.Recipe{
		ID:              uuid.New(),
		UserID:          uid,
		Title:           req.Title,
		Description:     req.Description,
		Instructions:    req.Instructions,
		PrepTimeMinutes: req.PrepTimeMinutes,
		CookTimeMinutes: req.CookTimeMinutes,
		Servings:        req.Servings,
		CuisineType:     req.CuisineType,
	}
	if recipe.Servings == 0 {
		recipe.Servings = 2
	}
	for _, ing := range req.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, entities.RecipeIngredient{
			ID:       uuid.New(),
			RecipeID: recipe.ID,
			ItemName: ing.ItemName,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}

	if err := s.recipeRepository.AddRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.toResponse(ctx, recipe), nil
}

func (s *recipeService) GetRecipes(ctx context.Context, userID string) ([]domain.RecipeResponse, error) {
	recipes, err := s.recipeRepository.GetRecipes(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		responses = append(responses, s.toResponse(ctx, recipe))
	}
	return responses, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, userID, recipeID string) (domain.RecipeResponse, error) {
	recipe, err := s.ownedRecipe(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.toResponse(ctx, recipe), nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, userID, recipeID string) error {
	recipe, err := s.ownedRecipe(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	return s.recipeRepository.DeleteRecipe(ctx, recipe.ID.String())
}

// Cook deducts each ingredient from the matching pantry item by name and
// records a cooking session. Ingredients with no pantry match are reported
// back, not treated as errors. Every deduction stamps the recipe ID on the
// ledger row so the rate estimators can tie consumption to cooking cadence.
func (s *recipeService) Cook(ctx context.Context, userID, recipeID string) (domain.CookRecipeResponse, error) {
	recipe, err := s.ownedRecipe(ctx, userID, recipeID)
	if err != nil {
		return domain.CookRecipeResponse{}, err
	}
	if len(recipe.Ingredients) == 0 {
		return domain.CookRecipeResponse{}, domain.ErrNoIngredients
	}

	cookedAt := s.now()
	resp := domain.CookRecipeResponse{
		RecipeID: recipe.ID.String(),
		Deducted: []string{},
		Missing:  []string{},
		CookedAt: cookedAt,
	}

	for _, ing := range recipe.Ingredients {
		item, err := s.pantryRepository.GetItemByName(ctx, userID, ing.ItemName)
		if err != nil {
			resp.Missing = append(resp.Missing, ing.ItemName)
			continue
		}

		oldQuantity := item.CurrentQuantity
		newQuantity := oldQuantity - ing.Quantity
		if newQuantity < 0 {
			newQuantity = 0
		}
		item.CurrentQuantity = newQuantity

		rid := recipe.ID
		log := &entities.PantryUsageLog{
			ID:             uuid.New(),
			ItemID:         item.ID,
			UserID:         item.UserID,
			QuantityChange: newQuantity - oldQuantity,
			OldQuantity:    oldQuantity,
			NewQuantity:    newQuantity,
			Reason:         entities.ReasonUsedInRecipe,
			RecipeID:       &rid,
			Timestamp:      cookedAt,
		}
		if err := s.pantryRepository.ApplyQuantityChange(ctx, item, log); err != nil {
			return domain.CookRecipeResponse{}, err
		}
		resp.Deducted = append(resp.Deducted, ing.ItemName)
	}

	history := &entities.RecipeHistory{
		ID:       uuid.New(),
		UserID:   recipe.UserID,
		RecipeID: recipe.ID,
		CookedAt: cookedAt,
	}
	if err := s.recipeRepository.AddHistory(ctx, history); err != nil {
		return domain.CookRecipeResponse{}, err
	}
	return resp, nil
}

func (s *recipeService) GetCookingHistory(ctx context.Context, userID string, sinceDays int) ([]domain.CookingHistoryResponse, error) {
	if sinceDays < 1 {
		sinceDays = 90
	}
	since := s.now().AddDate(0, 0, -sinceDays)

	history, err := s.recipeRepository.GetHistory(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.CookingHistoryResponse, 0, len(history))
	for _, h := range history {
		entry := domain.CookingHistoryResponse{
			RecipeID: h.RecipeID.String(),
			CookedAt: h.CookedAt,
		}
		if h.Recipe != nil {
			entry.RecipeTitle = h.Recipe.Title
		}
		responses = append(responses, entry)
	}
	return responses, nil
}

func (s *recipeService) ownedRecipe(ctx context.Context, userID, recipeID string) (*entities.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return recipe, nil
}

func (s *recipeService) toResponse(ctx context.Context, recipe *entities.Recipe) domain.RecipeResponse {
	resp := domain.RecipeResponse{
		ID:              recipe.ID.String(),
		Title:           recipe.Title,
		Description:     recipe.Description,
		Instructions:    recipe.Instructions,
		PrepTimeMinutes: recipe.PrepTimeMinutes,
		CookTimeMinutes: recipe.CookTimeMinutes,
		Servings:        recipe.Servings,
		CuisineType:     recipe.CuisineType,
		ImageURL:        recipe.ImageURL,
		CreatedAt:       recipe.CreatedAt,
		Ingredients:     []domain.RecipeIngredientResponse{},
	}
	for _, ing := range recipe.Ingredients {
		_, err := s.pantryRepository.GetItemByName(ctx, recipe.UserID.String(), ing.ItemName)
		resp.Ingredients = append(resp.Ingredients, domain.RecipeIngredientResponse{
			ItemName: ing.ItemName,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			InPantry: err == nil,
		})
	}
	return resp
}
