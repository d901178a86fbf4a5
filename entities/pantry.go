package entities

import (
	"time"

	"github.com/google/uuid"
)

// Usage log reason tags. The ledger is append-only; rows are never updated.
const (
	ReasonUsedInRecipe     = "used_in_recipe"
	ReasonManualAdjustment = "manual_adjustment"
	ReasonPurchase         = "purchase"
	ReasonPurchaseCancel   = "purchase_cancelled"
	ReasonExpired          = "expired"
)

// Stock status values derived from quantity thresholds.
const (
	StockOut         = "out_of_stock"
	StockLow         = "low_stock"
	StockAdequate    = "adequate"
	StockWellStocked = "well_stocked"
)

type PantryCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"index" json:"user_id"`
	Name      string    `json:"name"`
	Icon      string    `gorm:"default:fas fa-box" json:"icon"`
	Color     string    `gorm:"default:#6c757d" json:"color"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`

	User  *User        `gorm:"foreignKey:UserID"`
	Items []PantryItem `gorm:"foreignKey:CategoryID"`
}

type PantryItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID `gorm:"index" json:"user_id"`

	Name    string `json:"name"`
	Brand   string `json:"brand,omitempty"`
	Barcode string `json:"barcode,omitempty"`

	CurrentQuantity float64 `gorm:"default:0" json:"current_quantity"`
	Unit            string  `gorm:"default:units" json:"unit"`
	MinimumQuantity float64 `gorm:"default:1" json:"minimum_quantity"`
	IdealQuantity   float64 `gorm:"default:5" json:"ideal_quantity"`

	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	StorageLocation string     `json:"storage_location,omitempty"`

	ExpiryDate      *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`
	ExpiryAlertDays int        `gorm:"default:7" json:"expiry_alert_days"`

	CostPerUnit *float64 `json:"cost_per_unit,omitempty"`
	TotalCost   *float64 `json:"total_cost,omitempty"`

	LastPurchased *time.Time `gorm:"type:date" json:"last_purchased,omitempty"`

	ImageURL string `json:"image_url,omitempty"`
	Notes    string `gorm:"type:text" json:"notes,omitempty"`

	User      *User           `gorm:"foreignKey:UserID"`
	Category  *PantryCategory `gorm:"foreignKey:CategoryID"`
	UsageLogs []PantryUsageLog `gorm:"foreignKey:ItemID"`
	Timestamp
}

// IsLowStock reports whether the item is at or below its alert threshold.
func (p *PantryItem) IsLowStock() bool {
	return p.CurrentQuantity <= p.MinimumQuantity
}

// DaysUntilExpiry returns the days until expiry, or false when no expiry date
// is set.
func (p *PantryItem) DaysUntilExpiry(now time.Time) (int, bool) {
	if p.ExpiryDate == nil {
		return 0, false
	}
	days := int(p.ExpiryDate.Sub(now.Truncate(24*time.Hour)).Hours() / 24)
	return days, true
}

// StockStatus derives the stock status string from the quantity thresholds.
func (p *PantryItem) StockStatus() string {
	switch {
	case p.CurrentQuantity <= 0:
		return StockOut
	case p.IsLowStock():
		return StockLow
	case p.CurrentQuantity >= p.IdealQuantity:
		return StockWellStocked
	default:
		return StockAdequate
	}
}

// PantryUsageLog is an append-only ledger entry recording one quantity change.
// The prediction pipeline reads negative changes (consumption) only.
type PantryUsageLog struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ItemID uuid.UUID `gorm:"index" json:"item_id"`
	UserID uuid.UUID `gorm:"index" json:"user_id"`

	QuantityChange float64 `json:"quantity_change"`
	OldQuantity    float64 `json:"old_quantity"`
	NewQuantity    float64 `json:"new_quantity"`

	Reason   string     `json:"reason"`
	RecipeID *uuid.UUID `json:"recipe_id,omitempty"`
	Notes    string     `gorm:"type:text" json:"notes,omitempty"`

	Timestamp time.Time `gorm:"type:timestamp;index" json:"timestamp"`

	Item *PantryItem `gorm:"foreignKey:ItemID"`
}
