package shopping

import (
	"context"
	"errors"
	"time"

	"github.com/zy538324/homegrubhub-backend/domain"
	"github.com/zy538324/homegrubhub-backend/entities"
	"github.com/zy538324/homegrubhub-backend/pkg/pantry"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShoppingService interface {
		AddItem(ctx context.Context, userID string, req domain.AddShoppingItemRequest) (domain.ShoppingItemResponse, error)
		GetList(ctx context.Context, userID string, includePurchased bool) ([]domain.ShoppingItemResponse, error)
		DeleteItem(ctx context.Context, userID, itemID string) error
		ClearPurchased(ctx context.Context, userID string) (int64, error)
		GenerateFromLowStock(ctx context.Context, userID string) (domain.GenerateListResponse, error)
		TogglePurchased(ctx context.Context, userID, itemID string, req domain.TogglePurchasedRequest) (domain.ShoppingItemResponse, error)

		CreateWeeklyList(ctx context.Context, userID string, req domain.CreateWeeklyListRequest) (domain.WeeklyListResponse, error)
		GetWeeklyLists(ctx context.Context, userID string, limit int) ([]domain.WeeklyListResponse, error)
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
		pantryService      pantry.PantryService
		pantryRepository   pantry.PantryRepository
		now                func() time.Time
	}
)

func NewShoppingService(shoppingRepository ShoppingRepository, pantryService pantry.PantryService, pantryRepository pantry.PantryRepository) ShoppingService {
	return &shoppingService{
		shoppingRepository: shoppingRepository,
		pantryService:      pantryService,
		pantryRepository:   pantryRepository,
		now:                time.Now,
	}
}

func (s *shoppingService) AddItem(ctx context.Context, userID string, req domain.AddShoppingItemRequest) (domain.ShoppingItemResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.ShoppingItemResponse{}, domain.ErrParseUUID
	}

	item := &entities.ShoppingListItem{
		ID:             uuid.New(),
		UserID:         uid,
		ItemName:       req.ItemName,
		Category:       req.Category,
		QuantityNeeded: req.QuantityNeeded,
		Unit:           req.Unit,
		Source:         entities.SourceManual,
		EstimatedCost:  req.EstimatedCost,
		Priority:       req.Priority,
		Notes:          req.Notes,
		CreatedAt:      s.now(),
	}
	if item.Priority == 0 {
		item.Priority = 3
	}

	if req.PantryItemID != "" {
		pid, err := uuid.Parse(req.PantryItemID)
		if err != nil {
			return domain.ShoppingItemResponse{}, domain.ErrParseUUID
		}
		if _, err := s.pantryService.GetItem(ctx, userID, pid.String()); err != nil {
			return domain.ShoppingItemResponse{}, err
		}
		item.PantryItemID = &pid
	}

	if err := s.shoppingRepository.AddItem(ctx, item); err != nil {
		return domain.ShoppingItemResponse{}, err
	}
	return toShoppingResponse(item), nil
}

func (s *shoppingService) GetList(ctx context.Context, userID string, includePurchased bool) ([]domain.ShoppingItemResponse, error) {
	items, err := s.shoppingRepository.GetItems(ctx, userID, includePurchased)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.ShoppingItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toShoppingResponse(item))
	}
	return responses, nil
}

func (s *shoppingService) DeleteItem(ctx context.Context, userID, itemID string) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.shoppingRepository.DeleteItem(ctx, item.ID.String())
}

func (s *shoppingService) ClearPurchased(ctx context.Context, userID string) (int64, error) {
	return s.shoppingRepository.ClearPurchased(ctx, userID)
}

// GenerateFromLowStock adds one list entry per pantry item at or below its
// alert threshold. Items already on the open list are skipped so repeated
// generation never duplicates entries.
func (s *shoppingService) GenerateFromLowStock(ctx context.Context, userID string) (domain.GenerateListResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.GenerateListResponse{}, domain.ErrParseUUID
	}

	lowStock, err := s.pantryRepository.GetLowStockItems(ctx, userID)
	if err != nil {
		return domain.GenerateListResponse{}, err
	}

	resp := domain.GenerateListResponse{Items: []domain.ShoppingItemResponse{}}
	for _, pantryItem := range lowStock {
		if _, err := s.shoppingRepository.GetItemByName(ctx, userID, pantryItem.Name); err == nil {
			continue
		}

		needed := pantryItem.IdealQuantity - pantryItem.CurrentQuantity
		if needed <= 0 {
			continue
		}

		priority := 2
		if pantryItem.CurrentQuantity <= 0 {
			priority = 1
		}

		itemID := pantryItem.ID
		item := &entities.ShoppingListItem{
			ID:             uuid.New(),
			UserID:         uid,
			ItemName:       pantryItem.Name,
			QuantityNeeded: needed,
			Unit:           pantryItem.Unit,
			Source:         entities.SourceLowStock,
			PantryItemID:   &itemID,
			Priority:       priority,
			CreatedAt:      s.now(),
		}
		if pantryItem.Category != nil {
			item.Category = pantryItem.Category.Name
		}
		if pantryItem.CostPerUnit != nil {
			cost := *pantryItem.CostPerUnit * needed
			item.EstimatedCost = &cost
		}

		if err := s.shoppingRepository.AddItem(ctx, item); err != nil {
			return domain.GenerateListResponse{}, err
		}
		resp.AddedCount++
		resp.Items = append(resp.Items, toShoppingResponse(item))
	}
	return resp, nil
}

// TogglePurchased flips the purchased flag. Marking purchased applies the
// quantity to the linked pantry item with reason "purchase"; unmarking
// reverses the same quantity with reason "purchase_cancelled", clamped at
// zero. A toggle and its reversal leave pantry stock unchanged apart from
// that clamp.
func (s *shoppingService) TogglePurchased(ctx context.Context, userID, itemID string, req domain.TogglePurchasedRequest) (domain.ShoppingItemResponse, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return domain.ShoppingItemResponse{}, err
	}

	if !item.IsPurchased {
		if req.ActualQuantity != nil {
			item.QuantityNeeded = *req.ActualQuantity
		}
		if req.ActualCost != nil {
			item.ActualCost = req.ActualCost
		}
		item.IsPurchased = true
		now := s.now()
		item.PurchasedAt = &now

		if item.PantryItemID != nil {
			if _, err := s.pantryService.AdjustQuantity(ctx, userID, item.PantryItemID.String(), domain.AdjustQuantityRequest{
				Amount:    item.QuantityNeeded,
				Operation: domain.OpAdd,
				Reason:    entities.ReasonPurchase,
			}); err != nil {
				return domain.ShoppingItemResponse{}, err
			}
		}
	} else {
		item.IsPurchased = false
		item.PurchasedAt = nil
		item.ActualCost = nil

		if item.PantryItemID != nil {
			if _, err := s.pantryService.AdjustQuantity(ctx, userID, item.PantryItemID.String(), domain.AdjustQuantityRequest{
				Amount:    item.QuantityNeeded,
				Operation: domain.OpSubtract,
				Reason:    entities.ReasonPurchaseCancel,
			}); err != nil {
				return domain.ShoppingItemResponse{}, err
			}
		}
	}

	if err := s.shoppingRepository.UpdateItem(ctx, item); err != nil {
		return domain.ShoppingItemResponse{}, err
	}
	return toShoppingResponse(item), nil
}

func (s *shoppingService) CreateWeeklyList(ctx context.Context, userID string, req domain.CreateWeeklyListRequest) (domain.WeeklyListResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.WeeklyListResponse{}, domain.ErrParseUUID
	}

	weekStart, err := time.Parse("2006-01-02", req.WeekStart)
	if err != nil {
		return domain.WeeklyListResponse{}, domain.ErrInvalidWeekStart
	}

	if existing, err := s.shoppingRepository.GetWeeklyListByStart(ctx, userID, weekStart); err == nil {
		return toWeeklyResponse(existing), nil
	}

	list := &entities.WeeklyShoppingList{
		ID:           uuid.New(),
		UserID:       uid,
		WeekStart:    weekStart,
		WeekEnd:      weekStart.AddDate(0, 0, 6),
		Label:        entities.WeekLabel(weekStart),
		Status:       "planning",
		BudgetTarget: req.BudgetTarget,
		CreatedAt:    s.now(),
	}
	if err := s.shoppingRepository.CreateWeeklyList(ctx, list); err != nil {
		return domain.WeeklyListResponse{}, err
	}
	return toWeeklyResponse(list), nil
}

func (s *shoppingService) GetWeeklyLists(ctx context.Context, userID string, limit int) ([]domain.WeeklyListResponse, error) {
	if limit < 1 || limit > 52 {
		limit = 12
	}
	lists, err := s.shoppingRepository.GetWeeklyLists(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.WeeklyListResponse, 0, len(lists))
	for _, list := range lists {
		responses = append(responses, toWeeklyResponse(list))
	}
	return responses, nil
}

func (s *shoppingService) ownedItem(ctx context.Context, userID, itemID string) (*entities.ShoppingListItem, error) {
	item, err := s.shoppingRepository.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShoppingItemNotFound
		}
		return nil, err
	}
	if item.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return item, nil
}

func toShoppingResponse(item *entities.ShoppingListItem) domain.ShoppingItemResponse {
	resp := domain.ShoppingItemResponse{
		ID:             item.ID.String(),
		ItemName:       item.ItemName,
		Category:       item.Category,
		QuantityNeeded: item.QuantityNeeded,
		Unit:           item.Unit,
		Source:         item.Source,
		IsPurchased:    item.IsPurchased,
		EstimatedCost:  item.EstimatedCost,
		ActualCost:     item.ActualCost,
		StoreSection:   item.StoreSection,
		Priority:       item.Priority,
		Notes:          item.Notes,
		CreatedAt:      item.CreatedAt,
		PurchasedAt:    item.PurchasedAt,
	}
	if item.PantryItemID != nil {
		resp.PantryItemID = item.PantryItemID.String()
	}
	return resp
}

func toWeeklyResponse(list *entities.WeeklyShoppingList) domain.WeeklyListResponse {
	return domain.WeeklyListResponse{
		ID:                 list.ID.String(),
		Label:              list.Label,
		WeekStart:          list.WeekStart.Format("2006-01-02"),
		WeekEnd:            list.WeekEnd.Format("2006-01-02"),
		Status:             list.Status,
		BudgetTarget:       list.BudgetTarget,
		TotalEstimatedCost: list.TotalEstimatedCost,
		TotalActualCost:    list.TotalActualCost,
		ItemCount:          len(list.Items),
	}
}
