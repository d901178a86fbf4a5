package recipe

import (
	"context"
	"time"

	"github.com/zy538324/homegrubhub-backend/entities"

	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		AddRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, userID string) ([]*entities.Recipe, error)
		DeleteRecipe(ctx context.Context, id string) error

		AddHistory(ctx context.Context, history *entities.RecipeHistory) error
		GetHistory(ctx context.Context, userID string, since time.Time) ([]*entities.RecipeHistory, error)
		CountHistorySince(ctx context.Context, userID string, since time.Time) (int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) AddRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Preload("Ingredients").
		Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, userID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).Preload("Ingredients").
		Where("user_id = ?", userID).Order("title asc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Recipe{}).Error
	})
}

func (r *recipeRepository) AddHistory(ctx context.Context, history *entities.RecipeHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *recipeRepository) GetHistory(ctx context.Context, userID string, since time.Time) ([]*entities.RecipeHistory, error) {
	var history []*entities.RecipeHistory
	if err := r.db.WithContext(ctx).Preload("Recipe").
		Where("user_id = ? AND cooked_at >= ?", userID, since).
		Order("cooked_at desc").Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

func (r *recipeRepository) CountHistorySince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.RecipeHistory{}).
		Where("user_id = ? AND cooked_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}
