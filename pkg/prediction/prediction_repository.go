package prediction

import (
	"context"
	"time"

	"github.com/zy538324/homegrubhub-backend/entities"

	"gorm.io/gorm"
)

type (
	PredictionRepository interface {
		GetItems(ctx context.Context, userID string) ([]*entities.PantryItem, error)
		GetItemByID(ctx context.Context, id string) (*entities.PantryItem, error)

		// GetConsumptionEvents returns negative quantity changes only,
		// newest first.
		GetConsumptionEvents(ctx context.Context, userID, itemID string, since time.Time, limit int) ([]*entities.PantryUsageLog, error)
		CountRecipeUse(ctx context.Context, userID string, since time.Time) (int64, error)

		ExistsUnpurchasedLink(ctx context.Context, userID, pantryItemID string) (bool, error)
		AddShoppingItems(ctx context.Context, items []*entities.ShoppingListItem) error
		UpdateStockLevels(ctx context.Context, items []*entities.PantryItem) error
	}

	predictionRepository struct {
		db *gorm.DB
	}
)

func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) GetItems(ctx context.Context, userID string) ([]*entities.PantryItem, error) {
	var items []*entities.PantryItem
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ?", userID).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *predictionRepository) GetItemByID(ctx context.Context, id string) (*entities.PantryItem, error) {
	var item entities.PantryItem
	if err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *predictionRepository) GetConsumptionEvents(ctx context.Context, userID, itemID string, since time.Time, limit int) ([]*entities.PantryUsageLog, error) {
	var logs []*entities.PantryUsageLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ? AND quantity_change < 0 AND timestamp >= ?", userID, itemID, since).
		Order("timestamp desc").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *predictionRepository) CountRecipeUse(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.PantryUsageLog{}).
		Where("user_id = ? AND reason = ? AND timestamp >= ?", userID, entities.ReasonUsedInRecipe, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *predictionRepository) ExistsUnpurchasedLink(ctx context.Context, userID, pantryItemID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.ShoppingListItem{}).
		Where("user_id = ? AND pantry_item_id = ? AND is_purchased = false", userID, pantryItemID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *predictionRepository) AddShoppingItems(ctx context.Context, items []*entities.ShoppingListItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *predictionRepository) UpdateStockLevels(ctx context.Context, items []*entities.PantryItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := tx.Model(&entities.PantryItem{}).
				Where("id = ?", item.ID).
				Updates(map[string]interface{}{
					"minimum_quantity": item.MinimumQuantity,
					"ideal_quantity":   item.IdealQuantity,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
