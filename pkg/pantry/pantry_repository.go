package pantry

import (
	"context"
	"time"

	"github.com/zy538324/homegrubhub-backend/entities"

	"gorm.io/gorm"
)

type (
	PantryRepository interface {
		AddItem(ctx context.Context, item *entities.PantryItem) error
		GetItemByID(ctx context.Context, id string) (*entities.PantryItem, error)
		GetItemByName(ctx context.Context, userID, name string) (*entities.PantryItem, error)
		UpdateItem(ctx context.Context, item *entities.PantryItem) error
		DeleteItem(ctx context.Context, id string) error
		GetItems(ctx context.Context, userID string, status string, page, limit int) ([]*entities.PantryItem, int64, error)
		GetAllItems(ctx context.Context, userID string) ([]*entities.PantryItem, error)
		GetLowStockItems(ctx context.Context, userID string) ([]*entities.PantryItem, error)
		GetExpiringItems(ctx context.Context, userID string, before time.Time) ([]*entities.PantryItem, error)

		// ApplyQuantityChange saves the item and appends the ledger row in
		// one transaction. The log is never updated afterwards.
		ApplyQuantityChange(ctx context.Context, item *entities.PantryItem, log *entities.PantryUsageLog) error
		GetUsageLogs(ctx context.Context, userID, itemID string, limit int) ([]*entities.PantryUsageLog, error)

		AddCategory(ctx context.Context, category *entities.PantryCategory) error
		GetCategories(ctx context.Context, userID string) ([]*entities.PantryCategory, error)
		GetCategoryByID(ctx context.Context, id string) (*entities.PantryCategory, error)
		DeleteCategory(ctx context.Context, id string) error
	}

	pantryRepository struct {
		db *gorm.DB
	}
)

func NewPantryRepository(db *gorm.DB) PantryRepository {
	return &pantryRepository{db: db}
}

func (r *pantryRepository) AddItem(ctx context.Context, item *entities.PantryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *pantryRepository) GetItemByID(ctx context.Context, id string) (*entities.PantryItem, error) {
	var item entities.PantryItem
	if err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *pantryRepository) GetItemByName(ctx context.Context, userID, name string) (*entities.PantryItem, error) {
	var item entities.PantryItem
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *pantryRepository) UpdateItem(ctx context.Context, item *entities.PantryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *pantryRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.PantryItem{}).Error
}

func (r *pantryRepository) GetItems(ctx context.Context, userID string, status string, page, limit int) ([]*entities.PantryItem, int64, error) {
	var items []*entities.PantryItem
	var count int64

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	switch status {
	case entities.StockOut:
		query = query.Where("current_quantity <= 0")
	case entities.StockLow:
		query = query.Where("current_quantity > 0 AND current_quantity <= minimum_quantity")
	case entities.StockWellStocked:
		query = query.Where("current_quantity >= ideal_quantity")
	}

	if err := query.Model(&entities.PantryItem{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Category").Order("name asc").
		Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *pantryRepository) GetAllItems(ctx context.Context, userID string) ([]*entities.PantryItem, error) {
	var items []*entities.PantryItem
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ?", userID).Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *pantryRepository) GetLowStockItems(ctx context.Context, userID string) ([]*entities.PantryItem, error) {
	var items []*entities.PantryItem
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ? AND current_quantity <= minimum_quantity", userID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *pantryRepository) GetExpiringItems(ctx context.Context, userID string, before time.Time) ([]*entities.PantryItem, error) {
	var items []*entities.PantryItem
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ? AND expiry_date IS NOT NULL AND expiry_date <= ? AND current_quantity > 0", userID, before).
		Order("expiry_date asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *pantryRepository) ApplyQuantityChange(ctx context.Context, item *entities.PantryItem, log *entities.PantryUsageLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return tx.Create(log).Error
	})
}

func (r *pantryRepository) GetUsageLogs(ctx context.Context, userID, itemID string, limit int) ([]*entities.PantryUsageLog, error) {
	var logs []*entities.PantryUsageLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Order("timestamp desc").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *pantryRepository) AddCategory(ctx context.Context, category *entities.PantryCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *pantryRepository) GetCategories(ctx context.Context, userID string) ([]*entities.PantryCategory, error) {
	var categories []*entities.PantryCategory
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).Order("sort_order asc, name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *pantryRepository) GetCategoryByID(ctx context.Context, id string) (*entities.PantryCategory, error) {
	var category entities.PantryCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *pantryRepository) DeleteCategory(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.PantryCategory{}).Error
}
