package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID `gorm:"index" json:"user_id"`

	Title           string `json:"title"`
	Description     string `gorm:"type:text" json:"description,omitempty"`
	Instructions    string `gorm:"type:text" json:"instructions,omitempty"`
	PrepTimeMinutes int    `json:"prep_time_minutes"`
	CookTimeMinutes int    `json:"cook_time_minutes"`
	Servings        int    `gorm:"default:2" json:"servings"`
	CuisineType     string `json:"cuisine_type,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`

	User        *User              `gorm:"foreignKey:UserID"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID"`
	Timestamp
}

// RecipeIngredient names the pantry item a recipe consumes. Matching against
// the pantry is by name, the same loose contract the shopping list uses.
type RecipeIngredient struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID uuid.UUID `gorm:"index" json:"recipe_id"`

	ItemName string  `json:"item_name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `gorm:"default:units" json:"unit"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
}

// RecipeHistory records one cooking session. The recipe-based estimator
// derives the user's cooking cadence from these rows and the usage ledger.
type RecipeHistory struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID   uuid.UUID `gorm:"index" json:"user_id"`
	RecipeID uuid.UUID `gorm:"index" json:"recipe_id"`
	CookedAt time.Time `gorm:"type:timestamp;index" json:"cooked_at"`

	User   *User   `gorm:"foreignKey:UserID"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
}
