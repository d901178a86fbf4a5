package pantry

import (
	"context"
	"errors"
	"time"

	"github.com/zy538324/homegrubhub-backend/domain"
	"github.com/zy538324/homegrubhub-backend/entities"
	"github.com/zy538324/homegrubhub-backend/internal/utils/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	PantryService interface {
		AddItem(ctx context.Context, userID string, req domain.AddPantryItemRequest) (domain.PantryItemResponse, error)
		GetItem(ctx context.Context, userID, itemID string) (domain.PantryItemResponse, error)
		GetItems(ctx context.Context, userID, status string, page, limit int) ([]domain.PantryItemResponse, int64, error)
		UpdateItem(ctx context.Context, userID, itemID string, req domain.UpdatePantryItemRequest) (domain.PantryItemResponse, error)
		DeleteItem(ctx context.Context, userID, itemID string) error
		AdjustQuantity(ctx context.Context, userID, itemID string, req domain.AdjustQuantityRequest) (domain.PantryItemResponse, error)
		UploadItemImage(ctx context.Context, userID string, req domain.UploadItemImageRequest) (string, error)
		GetStats(ctx context.Context, userID string) (domain.PantryStatsResponse, error)
		GetUsageLogs(ctx context.Context, userID, itemID string, limit int) ([]domain.UsageLogResponse, error)
		GetExpiringItems(ctx context.Context, userID string, withinDays int) ([]domain.PantryItemResponse, error)

		AddCategory(ctx context.Context, userID string, req domain.AddCategoryRequest) (domain.CategoryResponse, error)
		GetCategories(ctx context.Context, userID string) ([]domain.CategoryResponse, error)
		DeleteCategory(ctx context.Context, userID, categoryID string) error
	}

	pantryService struct {
		pantryRepository PantryRepository
		s3               storage.AwsS3
		now              func() time.Time
	}
)

func NewPantryService(pantryRepository PantryRepository, s3 storage.AwsS3) PantryService {
	return &pantryService{
		pantryRepository: pantryRepository,
		s3:               s3,
		now:              time.Now,
	}
}

func (s *pantryService) AddItem(ctx context.Context, userID string, req domain.AddPantryItemRequest) (domain.PantryItemResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.PantryItemResponse{}, domain.ErrParseUUID
	}

	item := &entities.PantryItem{
		ID:              uuid.New(),
		UserID:          uid,
		Name:            req.Name,
		Brand:           req.Brand,
		Barcode:         req.Barcode,
		CurrentQuantity: req.CurrentQuantity,
		Unit:            req.Unit,
		MinimumQuantity: req.MinimumQuantity,
		IdealQuantity:   req.IdealQuantity,
		StorageLocation: req.StorageLocation,
		CostPerUnit:     req.CostPerUnit,
		Notes:           req.Notes,
	}

	if req.CategoryID != "" {
		cid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return domain.PantryItemResponse{}, domain.ErrParseUUID
		}
		category, err := s.pantryRepository.GetCategoryByID(ctx, cid.String())
		if err != nil {
			return domain.PantryItemResponse{}, domain.ErrCategoryNotFound
		}
		if category.UserID != uid {
			return domain.PantryItemResponse{}, domain.ErrUnauthorizedAccess
		}
		item.CategoryID = &cid
		item.Category = category
	}

	if req.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return domain.PantryItemResponse{}, domain.ErrInvalidExpiryDate
		}
		item.ExpiryDate = &expiry
	}

	if err := s.pantryRepository.AddItem(ctx, item); err != nil {
		return domain.PantryItemResponse{}, err
	}
	return s.toResponse(item), nil
}

func (s *pantryService) GetItem(ctx context.Context, userID, itemID string) (domain.PantryItemResponse, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return domain.PantryItemResponse{}, err
	}
	return s.toResponse(item), nil
}

func (s *pantryService) GetItems(ctx context.Context, userID, status string, page, limit int) ([]domain.PantryItemResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	items, count, err := s.pantryRepository.GetItems(ctx, userID, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.PantryItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, s.toResponse(item))
	}
	return responses, count, nil
}

func (s *pantryService) UpdateItem(ctx context.Context, userID, itemID string, req domain.UpdatePantryItemRequest) (domain.PantryItemResponse, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return domain.PantryItemResponse{}, err
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Brand != "" {
		item.Brand = req.Brand
	}
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	if req.MinimumQuantity != nil {
		item.MinimumQuantity = *req.MinimumQuantity
	}
	if req.IdealQuantity != nil {
		item.IdealQuantity = *req.IdealQuantity
	}
	if req.StorageLocation != "" {
		item.StorageLocation = req.StorageLocation
	}
	if req.CostPerUnit != nil {
		item.CostPerUnit = req.CostPerUnit
	}
	if req.Notes != "" {
		item.Notes = req.Notes
	}
	if req.CategoryID != "" {
		cid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return domain.PantryItemResponse{}, domain.ErrParseUUID
		}
		category, err := s.pantryRepository.GetCategoryByID(ctx, cid.String())
		if err != nil {
			return domain.PantryItemResponse{}, domain.ErrCategoryNotFound
		}
		if category.UserID.String() != userID {
			return domain.PantryItemResponse{}, domain.ErrUnauthorizedAccess
		}
		item.CategoryID = &cid
		item.Category = category
	}
	if req.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return domain.PantryItemResponse{}, domain.ErrInvalidExpiryDate
		}
		item.ExpiryDate = &expiry
	}

	if err := s.pantryRepository.UpdateItem(ctx, item); err != nil {
		return domain.PantryItemResponse{}, err
	}
	return s.toResponse(item), nil
}

func (s *pantryService) DeleteItem(ctx context.Context, userID, itemID string) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.pantryRepository.DeleteItem(ctx, item.ID.String())
}

// AdjustQuantity applies a stock change and appends one ledger row. The new
// quantity is clamped at zero on every path; QuantityChange records the
// effective delta after clamping.
func (s *pantryService) AdjustQuantity(ctx context.Context, userID, itemID string, req domain.AdjustQuantityRequest) (domain.PantryItemResponse, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return domain.PantryItemResponse{}, err
	}

	oldQuantity := item.CurrentQuantity
	var newQuantity float64
	switch req.Operation {
	case domain.OpAdd:
		newQuantity = oldQuantity + req.Amount
	case domain.OpSubtract:
		newQuantity = oldQuantity - req.Amount
	case domain.OpSet:
		newQuantity = req.Amount
	default:
		return domain.PantryItemResponse{}, domain.ErrInvalidOperation
	}
	if newQuantity < 0 {
		newQuantity = 0
	}

	reason := req.Reason
	if reason == "" {
		reason = entities.ReasonManualAdjustment
	}

	item.CurrentQuantity = newQuantity
	if req.Operation == domain.OpAdd && reason == entities.ReasonPurchase {
		now := s.now()
		item.LastPurchased = &now
	}

	log := &entities.PantryUsageLog{
		ID:             uuid.New(),
		ItemID:         item.ID,
		UserID:         item.UserID,
		QuantityChange: newQuantity - oldQuantity,
		OldQuantity:    oldQuantity,
		NewQuantity:    newQuantity,
		Reason:         reason,
		Notes:          req.Notes,
		Timestamp:      s.now(),
	}

	if err := s.pantryRepository.ApplyQuantityChange(ctx, item, log); err != nil {
		return domain.PantryItemResponse{}, err
	}
	return s.toResponse(item), nil
}

func (s *pantryService) UploadItemImage(ctx context.Context, userID string, req domain.UploadItemImageRequest) (string, error) {
	item, err := s.ownedItem(ctx, userID, req.PantryItemID)
	if err != nil {
		return "", err
	}

	imageURL, err := s.s3.UploadFile(ctx, "pantry", req.Image)
	if err != nil {
		return "", err
	}

	item.ImageURL = imageURL
	if err := s.pantryRepository.UpdateItem(ctx, item); err != nil {
		return "", err
	}
	return imageURL, nil
}

func (s *pantryService) GetStats(ctx context.Context, userID string) (domain.PantryStatsResponse, error) {
	items, err := s.pantryRepository.GetAllItems(ctx, userID)
	if err != nil {
		return domain.PantryStatsResponse{}, err
	}

	now := s.now()
	stats := domain.PantryStatsResponse{TotalItems: len(items)}
	for _, item := range items {
		switch item.StockStatus() {
		case entities.StockOut:
			stats.OutOfStock++
		case entities.StockLow:
			stats.LowStock++
		case entities.StockWellStocked:
			stats.WellStocked++
		}
		if days, ok := item.DaysUntilExpiry(now); ok && days <= item.ExpiryAlertDays && item.CurrentQuantity > 0 {
			stats.ExpiringSoon++
		}
		if item.CostPerUnit != nil {
			stats.TotalStockValue += *item.CostPerUnit * item.CurrentQuantity
		}
	}
	return stats, nil
}

func (s *pantryService) GetUsageLogs(ctx context.Context, userID, itemID string, limit int) ([]domain.UsageLogResponse, error) {
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	logs, err := s.pantryRepository.GetUsageLogs(ctx, userID, itemID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.UsageLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, domain.UsageLogResponse{
			ID:             log.ID.String(),
			QuantityChange: log.QuantityChange,
			OldQuantity:    log.OldQuantity,
			NewQuantity:    log.NewQuantity,
			Reason:         log.Reason,
			Notes:          log.Notes,
			Timestamp:      log.Timestamp,
		})
	}
	return responses, nil
}

func (s *pantryService) GetExpiringItems(ctx context.Context, userID string, withinDays int) ([]domain.PantryItemResponse, error) {
	if withinDays < 1 {
		withinDays = 7
	}
	before := s.now().AddDate(0, 0, withinDays)

	items, err := s.pantryRepository.GetExpiringItems(ctx, userID, before)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.PantryItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, s.toResponse(item))
	}
	return responses, nil
}

func (s *pantryService) AddCategory(ctx context.Context, userID string, req domain.AddCategoryRequest) (domain.CategoryResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.CategoryResponse{}, domain.ErrParseUUID
	}

	category := &entities.PantryCategory{
		ID:        uuid.New(),
		UserID:    uid,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}
	if req.Icon != "" {
		category.Icon = req.Icon
	}
	if req.Color != "" {
		category.Color = req.Color
	}

	if err := s.pantryRepository.AddCategory(ctx, category); err != nil {
		return domain.CategoryResponse{}, err
	}

	return domain.CategoryResponse{
		ID:        category.ID.String(),
		Name:      category.Name,
		Icon:      category.Icon,
		Color:     category.Color,
		SortOrder: category.SortOrder,
	}, nil
}

func (s *pantryService) GetCategories(ctx context.Context, userID string) ([]domain.CategoryResponse, error) {
	categories, err := s.pantryRepository.GetCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, domain.CategoryResponse{
			ID:        category.ID.String(),
			Name:      category.Name,
			Icon:      category.Icon,
			Color:     category.Color,
			SortOrder: category.SortOrder,
			ItemCount: len(category.Items),
		})
	}
	return responses, nil
}

func (s *pantryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	category, err := s.pantryRepository.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCategoryNotFound
		}
		return err
	}
	if category.UserID.String() != userID {
		return domain.ErrUnauthorizedAccess
	}
	return s.pantryRepository.DeleteCategory(ctx, categoryID)
}

func (s *pantryService) ownedItem(ctx context.Context, userID, itemID string) (*entities.PantryItem, error) {
	item, err := s.pantryRepository.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPantryItemNotFound
		}
		return nil, err
	}
	if item.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return item, nil
}

func (s *pantryService) toResponse(item *entities.PantryItem) domain.PantryItemResponse {
	now := s.now()
	resp := domain.PantryItemResponse{
		ID:              item.ID.String(),
		Name:            item.Name,
		Brand:           item.Brand,
		CurrentQuantity: item.CurrentQuantity,
		Unit:            item.Unit,
		MinimumQuantity: item.MinimumQuantity,
		IdealQuantity:   item.IdealQuantity,
		StorageLocation: item.StorageLocation,
		ExpiryDate:      item.ExpiryDate,
		StockStatus:     item.StockStatus(),
		IsLowStock:      item.IsLowStock(),
		CostPerUnit:     item.CostPerUnit,
		LastPurchased:   item.LastPurchased,
		ImageURL:        item.ImageURL,
		Notes:           item.Notes,
	}
	if item.Category != nil {
		resp.Category = item.Category.Name
	}
	if days, ok := item.DaysUntilExpiry(now); ok {
		resp.DaysUntilExpiry = &days
		resp.IsExpiringSoon = days <= item.ExpiryAlertDays
	}
	return resp
}
