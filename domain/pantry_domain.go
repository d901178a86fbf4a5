package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessAddPantryItem     = "pantry item added successfully"
	MessageSuccessUpdatePantryItem  = "pantry item updated successfully"
	MessageSuccessDeletePantryItem  = "pantry item deleted successfully"
	MessageSuccessGetPantryItems    = "pantry items retrieved successfully"
	MessageSuccessAdjustQuantity    = "pantry quantity adjusted"
	MessageSuccessUploadItemImage   = "item image uploaded successfully"
	MessageSuccessGetPantryStats    = "pantry statistics retrieved successfully"
	MessageSuccessAddCategory       = "category added successfully"
	MessageSuccessGetCategories     = "categories retrieved successfully"
	MessageSuccessDeleteCategory    = "category deleted successfully"

	MessageFailedAddPantryItem    = "failed to add pantry item"
	MessageFailedUpdatePantryItem = "failed to update pantry item"
	MessageFailedDeletePantryItem = "failed to delete pantry item"
	MessageFailedGetPantryItems   = "failed to retrieve pantry items"
	MessageFailedAdjustQuantity   = "failed to adjust pantry quantity"
	MessageFailedUploadItemImage  = "failed to upload item image"
	MessageFailedGetPantryStats   = "failed to retrieve pantry statistics"
	MessageFailedAddCategory      = "failed to add category"
	MessageFailedGetCategories    = "failed to retrieve categories"
	MessageFailedDeleteCategory   = "failed to delete category"

	ErrPantryItemNotFound = errors.New("pantry item not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrInvalidQuantity    = errors.New("quantity must not be negative")
	ErrInvalidOperation   = errors.New("operation must be add, subtract or set")
	ErrInvalidExpiryDate  = errors.New("invalid expiry date")
	ErrInvalidReason      = errors.New("unknown usage reason")
)

// Quantity adjustment operations.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpSet      = "set"
)

type (
	AddPantryItemRequest struct {
		Name            string   `json:"name" validate:"required"`
		Brand           string   `json:"brand" validate:"omitempty"`
		Barcode         string   `json:"barcode" validate:"omitempty"`
		CurrentQuantity float64  `json:"current_quantity" validate:"min=0"`
		Unit            string   `json:"unit" validate:"required"`
		MinimumQuantity float64  `json:"minimum_quantity" validate:"min=0"`
		IdealQuantity   float64  `json:"ideal_quantity" validate:"min=0"`
		CategoryID      string   `json:"category_id" validate:"omitempty,uuid"`
		StorageLocation string   `json:"storage_location" validate:"omitempty"`
		ExpiryDate      string   `json:"expiry_date" validate:"omitempty"`
		CostPerUnit     *float64 `json:"cost_per_unit" validate:"omitempty,gte=0"`
		Notes           string   `json:"notes" validate:"omitempty"`
	}

	UpdatePantryItemRequest struct {
		Name            string   `json:"name" validate:"omitempty"`
		Brand           string   `json:"brand" validate:"omitempty"`
		Unit            string   `json:"unit" validate:"omitempty"`
		MinimumQuantity *float64 `json:"minimum_quantity" validate:"omitempty,gte=0"`
		IdealQuantity   *float64 `json:"ideal_quantity" validate:"omitempty,gte=0"`
		CategoryID      string   `json:"category_id" validate:"omitempty,uuid"`
		StorageLocation string   `json:"storage_location" validate:"omitempty"`
		ExpiryDate      string   `json:"expiry_date" validate:"omitempty"`
		CostPerUnit     *float64 `json:"cost_per_unit" validate:"omitempty,gte=0"`
		Notes           string   `json:"notes" validate:"omitempty"`
	}

	AdjustQuantityRequest struct {
		Amount    float64 `json:"amount" validate:"required,gt=0"`
		Operation string  `json:"operation" validate:"required,oneof=add subtract set"`
		Reason    string  `json:"reason" validate:"omitempty,oneof=used_in_recipe manual_adjustment purchase purchase_cancelled expired"`
		Notes     string  `json:"notes" validate:"omitempty"`
	}

	UploadItemImageRequest struct {
		PantryItemID string                `json:"item_id" form:"item_id" validate:"required,uuid"`
		Image        *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	AddCategoryRequest struct {
		Name      string `json:"name" validate:"required"`
		Icon      string `json:"icon" validate:"omitempty"`
		Color     string `json:"color" validate:"omitempty"`
		SortOrder int    `json:"sort_order" validate:"omitempty"`
	}

	CategoryResponse struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Icon      string `json:"icon"`
		Color     string `json:"color"`
		SortOrder int    `json:"sort_order"`
		ItemCount int    `json:"item_count"`
	}

	PantryItemResponse struct {
		ID              string     `json:"id"`
		Name            string     `json:"name"`
		Brand           string     `json:"brand,omitempty"`
		CurrentQuantity float64    `json:"current_quantity"`
		Unit            string     `json:"unit"`
		MinimumQuantity float64    `json:"minimum_quantity"`
		IdealQuantity   float64    `json:"ideal_quantity"`
		Category        string     `json:"category,omitempty"`
		StorageLocation string     `json:"storage_location,omitempty"`
		ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
		DaysUntilExpiry *int       `json:"days_until_expiry,omitempty"`
		StockStatus     string     `json:"stock_status"`
		IsLowStock      bool       `json:"is_low_stock"`
		IsExpiringSoon  bool       `json:"is_expiring_soon"`
		CostPerUnit     *float64   `json:"cost_per_unit,omitempty"`
		LastPurchased   *time.Time `json:"last_purchased,omitempty"`
		ImageURL        string     `json:"image_url,omitempty"`
		Notes           string     `json:"notes,omitempty"`
	}

	PantryStatsResponse struct {
		TotalItems       int     `json:"total_items"`
		OutOfStock       int     `json:"out_of_stock"`
		LowStock         int     `json:"low_stock"`
		ExpiringSoon     int     `json:"expiring_soon"`
		WellStocked      int     `json:"well_stocked"`
		TotalStockValue  float64 `json:"total_stock_value"`
	}

	UsageLogResponse struct {
		ID             string    `json:"id"`
		QuantityChange float64   `json:"quantity_change"`
		OldQuantity    float64   `json:"old_quantity"`
		NewQuantity    float64   `json:"new_quantity"`
		Reason         string    `json:"reason"`
		Notes          string    `json:"notes,omitempty"`
		Timestamp      time.Time `json:"timestamp"`
	}
)
