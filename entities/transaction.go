package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	TransactionPending   = "pending"
	TransactionSettled   = "settlement"
	TransactionExpired   = "expire"
	TransactionCancelled = "cancel"
)

// Transaction records one Midtrans Snap payment for a Pro subscription.
type Transaction struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	OrderID     string     `gorm:"uniqueIndex" json:"order_id"`
	GrossAmount int64      `json:"gross_amount"`
	Currency    string     `gorm:"default:IDR" json:"currency"`
	Status      string     `gorm:"default:pending" json:"status"`
	PaymentType string     `json:"payment_type,omitempty"`
	SnapToken   string     `json:"snap_token,omitempty"`
	RedirectURL string     `json:"redirect_url,omitempty"`
	PlanMonths  int        `gorm:"default:1" json:"plan_months"`
	SettledAt   *time.Time `json:"settled_at,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
