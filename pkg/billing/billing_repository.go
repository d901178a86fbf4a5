package billing

import (
	"context"

	"github.com/zy538324/homegrubhub-backend/entities"

	"gorm.io/gorm"
)

type (
	BillingRepository interface {
		CreateTransaction(ctx context.Context, tx *entities.Transaction) error
		GetByOrderID(ctx context.Context, orderID string) (*entities.Transaction, error)
		UpdateTransaction(ctx context.Context, tx *entities.Transaction) error
		GetUserTransactions(ctx context.Context, userID string, page, limit int) ([]*entities.Transaction, int64, error)
	}

	billingRepository struct {
		db *gorm.DB
	}
)

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) CreateTransaction(ctx context.Context, tx *entities.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *billingRepository) GetByOrderID(ctx context.Context, orderID string) (*entities.Transaction, error) {
	var tx entities.Transaction
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *billingRepository) UpdateTransaction(ctx context.Context, tx *entities.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *billingRepository) GetUserTransactions(ctx context.Context, userID string, page, limit int) ([]*entities.Transaction, int64, error) {
	var txs []*entities.Transaction
	var count int64

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if err := query.Model(&entities.Transaction{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&txs).Error; err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}
