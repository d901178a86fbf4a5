package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAddRecipe    = "recipe added successfully"
	MessageSuccessGetRecipes   = "recipes retrieved successfully"
	MessageSuccessDeleteRecipe = "recipe deleted successfully"
	MessageSuccessCookRecipe   = "recipe cooked, pantry updated"
	MessageSuccessGetHistory   = "cooking history retrieved successfully"

	MessageFailedAddRecipe    = "failed to add recipe"
	MessageFailedGetRecipes   = "failed to retrieve recipes"
	MessageFailedDeleteRecipe = "failed to delete recipe"
	MessageFailedCookRecipe   = "failed to cook recipe"
	MessageFailedGetHistory   = "failed to retrieve cooking history"

	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrNoIngredients   = errors.New("recipe has no ingredients")
)

type (
	RecipeIngredientRequest struct {
		ItemName string  `json:"item_name" validate:"required"`
		Quantity float64 `json:"quantity" validate:"required,gt=0"`
		Unit     string  `json:"unit" validate:"required"`
	}

	AddRecipeRequest struct {
		Title           string                    `json:"title" validate:"required"`
		Description     string                    `json:"description" validate:"omitempty"`
		Instructions    string                    `json:"instructions" validate:"omitempty"`
		PrepTimeMinutes int                       `json:"prep_time_minutes" validate:"omitempty,gte=0"`
		CookTimeMinutes int                       `json:"cook_time_minutes" validate:"omitempty,gte=0"`
		Servings        int                       `json:"servings" validate:"omitempty,gt=0"`
		CuisineType     string                    `json:"cuisine_type" validate:"omitempty"`
		Ingredients     []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	RecipeIngredientResponse struct {
		ItemName string  `json:"item_name"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
		InPantry bool    `json:"in_pantry"`
	}

	RecipeResponse struct {
		ID              string                     `json:"id"`
		Title           string                     `json:"title"`
		Description     string                     `json:"description,omitempty"`
		Instructions    string                     `json:"instructions,omitempty"`
		PrepTimeMinutes int                        `json:"prep_time_minutes"`
		CookTimeMinutes int                        `json:"cook_time_minutes"`
		Servings        int                        `json:"servings"`
		CuisineType     string                     `json:"cuisine_type,omitempty"`
		ImageURL        string                     `json:"image_url,omitempty"`
		Ingredients     []RecipeIngredientResponse `json:"ingredients"`
		CreatedAt       time.Time                  `json:"created_at"`
	}

	// CookRecipeResponse reports what was deducted and what was skipped
	// because the pantry had no matching item.
	CookRecipeResponse struct {
		RecipeID   string   `json:"recipe_id"`
		Deducted   []string `json:"deducted"`
		Missing    []string `json:"missing"`
		CookedAt   time.Time `json:"cooked_at"`
	}

	CookingHistoryResponse struct {
		RecipeID    string    `json:"recipe_id"`
		RecipeTitle string    `json:"recipe_title"`
		CookedAt    time.Time `json:"cooked_at"`
	}
)
