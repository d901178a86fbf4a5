package shopping

import (
	"context"
	"time"

	"github.com/zy538324/homegrubhub-backend/entities"

	"gorm.io/gorm"
)

type (
	ShoppingRepository interface {
		AddItem(ctx context.Context, item *entities.ShoppingListItem) error
		GetItemByID(ctx context.Context, id string) (*entities.ShoppingListItem, error)
		GetItemByName(ctx context.Context, userID, itemName string) (*entities.ShoppingListItem, error)
		UpdateItem(ctx context.Context, item *entities.ShoppingListItem) error
		DeleteItem(ctx context.Context, id string) error
		GetItems(ctx context.Context, userID string, includePurchased bool) ([]*entities.ShoppingListItem, error)
		ClearPurchased(ctx context.Context, userID string) (int64, error)

		CreateWeeklyList(ctx context.Context, list *entities.WeeklyShoppingList) error
		GetWeeklyListByStart(ctx context.Context, userID string, weekStart time.Time) (*entities.WeeklyShoppingList, error)
		GetWeeklyLists(ctx context.Context, userID string, limit int) ([]*entities.WeeklyShoppingList, error)
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

func (r *shoppingRepository) AddItem(ctx context.Context, item *entities.ShoppingListItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *shoppingRepository) GetItemByID(ctx context.Context, id string) (*entities.ShoppingListItem, error) {
	var item entities.ShoppingListItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *shoppingRepository) GetItemByName(ctx context.Context, userID, itemName string) (*entities.ShoppingListItem, error) {
	var item entities.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(item_name) = LOWER(?) AND is_purchased = false", userID, itemName).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *shoppingRepository) UpdateItem(ctx context.Context, item *entities.ShoppingListItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *shoppingRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.ShoppingListItem{}).Error
}

func (r *shoppingRepository) GetItems(ctx context.Context, userID string, includePurchased bool) ([]*entities.ShoppingListItem, error) {
	var items []*entities.ShoppingListItem
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includePurchased {
		query = query.Where("is_purchased = false")
	}
	if err := query.Order("priority asc, created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *shoppingRepository) ClearPurchased(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_purchased = true", userID).
		Delete(&entities.ShoppingListItem{})
	return result.RowsAffected, result.Error
}

func (r *shoppingRepository) CreateWeeklyList(ctx context.Context, list *entities.WeeklyShoppingList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *shoppingRepository) GetWeeklyListByStart(ctx context.Context, userID string, weekStart time.Time) (*entities.WeeklyShoppingList, error) {
	var list entities.WeeklyShoppingList
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ? AND week_start = ?", userID, weekStart).
		First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *shoppingRepository) GetWeeklyLists(ctx context.Context, userID string, limit int) ([]*entities.WeeklyShoppingList, error) {
	var lists []*entities.WeeklyShoppingList
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).Order("week_start desc").Limit(limit).
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}
