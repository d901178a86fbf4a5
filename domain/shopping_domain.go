package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAddShoppingItem    = "shopping item added successfully"
	MessageSuccessGetShoppingList    = "shopping list retrieved successfully"
	MessageSuccessDeleteShoppingItem = "shopping item deleted successfully"
	MessageSuccessClearShoppingList  = "shopping list cleared"
	MessageSuccessGenerateList       = "shopping list generated from low stock"
	MessageSuccessTogglePurchased    = "shopping item updated"
	MessageSuccessCreateWeeklyList   = "weekly shopping list created"
	MessageSuccessGetWeeklyLists     = "weekly shopping lists retrieved successfully"

	MessageFailedAddShoppingItem    = "failed to add shopping item"
	MessageFailedGetShoppingList    = "failed to retrieve shopping list"
	MessageFailedDeleteShoppingItem = "failed to delete shopping item"
	MessageFailedClearShoppingList  = "failed to clear shopping list"
	MessageFailedGenerateList       = "failed to generate shopping list"
	MessageFailedTogglePurchased    = "failed to update shopping item"
	MessageFailedCreateWeeklyList   = "failed to create weekly shopping list"
	MessageFailedGetWeeklyLists     = "failed to retrieve weekly shopping lists"

	ErrShoppingItemNotFound = errors.New("shopping item not found")
	ErrWeeklyListNotFound   = errors.New("weekly shopping list not found")
	ErrInvalidWeekStart     = errors.New("week start must be formatted YYYY-MM-DD")
)

type (
	AddShoppingItemRequest struct {
		ItemName       string   `json:"item_name" validate:"required"`
		Category       string   `json:"category" validate:"omitempty"`
		QuantityNeeded float64  `json:"quantity_needed" validate:"required,gt=0"`
		Unit           string   `json:"unit" validate:"required"`
		PantryItemID   string   `json:"pantry_item_id" validate:"omitempty,uuid"`
		EstimatedCost  *float64 `json:"estimated_cost" validate:"omitempty,gte=0"`
		Priority       int      `json:"priority" validate:"omitempty,min=1,max=5"`
		Notes          string   `json:"notes" validate:"omitempty"`
	}

	TogglePurchasedRequest struct {
		ActualQuantity *float64 `json:"actual_quantity" validate:"omitempty,gt=0"`
		ActualCost     *float64 `json:"actual_cost" validate:"omitempty,gte=0"`
	}

	ShoppingItemResponse struct {
		ID             string     `json:"id"`
		ItemName       string     `json:"item_name"`
		Category       string     `json:"category,omitempty"`
		QuantityNeeded float64    `json:"quantity_needed"`
		Unit           string     `json:"unit"`
		Source         string     `json:"source"`
		PantryItemID   string     `json:"pantry_item_id,omitempty"`
		IsPurchased    bool       `json:"is_purchased"`
		EstimatedCost  *float64   `json:"estimated_cost,omitempty"`
		ActualCost     *float64   `json:"actual_cost,omitempty"`
		StoreSection   string     `json:"store_section,omitempty"`
		Priority       int        `json:"priority"`
		Notes          string     `json:"notes,omitempty"`
		CreatedAt      time.Time  `json:"created_at"`
		PurchasedAt    *time.Time `json:"purchased_at,omitempty"`
	}

	GenerateListResponse struct {
		AddedCount int                    `json:"added_count"`
		Items      []ShoppingItemResponse `json:"items"`
	}

	CreateWeeklyListRequest struct {
		WeekStart    string   `json:"week_start" validate:"required"`
		BudgetTarget *float64 `json:"budget_target" validate:"omitempty,gte=0"`
	}

	WeeklyListResponse struct {
		ID                 string   `json:"id"`
		Label              string   `json:"label"`
		WeekStart          string   `json:"week_start"`
		WeekEnd            string   `json:"week_end"`
		Status             string   `json:"status"`
		BudgetTarget       *float64 `json:"budget_target,omitempty"`
		TotalEstimatedCost float64  `json:"total_estimated_cost"`
		TotalActualCost    float64  `json:"total_actual_cost"`
		ItemCount          int      `json:"item_count"`
	}
)
