package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Shopping list item sources.
const (
	SourceManual     = "manual"
	SourceLowStock   = "low_stock"
	SourceMealPlan   = "meal_plan"
	SourcePredictive = "predictive"
)

type ShoppingListItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID `gorm:"index" json:"user_id"`

	ItemName       string  `json:"item_name"`
	Category       string  `json:"category,omitempty"`
	QuantityNeeded float64 `json:"quantity_needed"`
	Unit           string  `json:"unit"`

	Source       string     `json:"source"`
	PantryItemID *uuid.UUID `json:"pantry_item_id,omitempty"`
	RecipeID     *uuid.UUID `json:"recipe_id,omitempty"`

	IsPurchased   bool     `gorm:"default:false;index" json:"is_purchased"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
	ActualCost    *float64 `json:"actual_cost,omitempty"`
	StoreSection  string   `json:"store_section,omitempty"`

	Priority int    `gorm:"default:3" json:"priority"`
	Notes    string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt   time.Time  `gorm:"type:timestamp" json:"created_at"`
	PurchasedAt *time.Time `json:"purchased_at,omitempty"`

	User       *User       `gorm:"foreignKey:UserID"`
	PantryItem *PantryItem `gorm:"foreignKey:PantryItemID"`
}

type WeeklyShoppingList struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID `gorm:"index" json:"user_id"`

	WeekStart time.Time `gorm:"type:date;index" json:"week_start"`
	WeekEnd   time.Time `gorm:"type:date" json:"week_end"`
	Label     string    `json:"label"`

	Status             string   `gorm:"default:planning" json:"status"` // planning, active, completed
	BudgetTarget       *float64 `json:"budget_target,omitempty"`
	TotalEstimatedCost float64  `gorm:"default:0" json:"total_estimated_cost"`
	TotalActualCost    float64  `gorm:"default:0" json:"total_actual_cost"`

	CreatedAt   time.Time  `gorm:"type:timestamp" json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	User  *User                `gorm:"foreignKey:UserID"`
	Items []WeeklyShoppingItem `gorm:"foreignKey:WeeklyListID"`
}

// WeekLabel renders a readable label for the week starting at start.
func WeekLabel(start time.Time) string {
	end := start.AddDate(0, 0, 6)
	return fmt.Sprintf("Week of %s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
}

type WeeklyShoppingItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	WeeklyListID uuid.UUID `gorm:"index" json:"weekly_list_id"`

	ItemName       string  `json:"item_name"`
	Category       string  `json:"category,omitempty"`
	QuantityNeeded float64 `json:"quantity_needed"`
	Unit           string  `json:"unit"`

	Source   string     `json:"source"`
	RecipeID *uuid.UUID `json:"recipe_id,omitempty"`
	MealDate *time.Time `gorm:"type:date" json:"meal_date,omitempty"`

	IsPurchased   bool     `gorm:"default:false;index" json:"is_purchased"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
	ActualCost    *float64 `json:"actual_cost,omitempty"`
	StoreSection  string   `json:"store_section,omitempty"`

	Priority int    `gorm:"default:3" json:"priority"`
	Notes    string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt   time.Time  `gorm:"type:timestamp" json:"created_at"`
	PurchasedAt *time.Time `json:"purchased_at,omitempty"`

	WeeklyList *WeeklyShoppingList `gorm:"foreignKey:WeeklyListID"`
}
