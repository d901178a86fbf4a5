package handlers

import (
	"errors"
	"strconv"

	"github.com/zy538324/homegrubhub-backend/domain"
	"github.com/zy538324/homegrubhub-backend/internal/api/presenters"
	"github.com/zy538324/homegrubhub-backend/pkg/shopping"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ShoppingHandler interface {
		AddItem(c *fiber.Ctx) error
		GetList(c *fiber.Ctx) error
		DeleteItem(c *fiber.Ctx) error
		ClearPurchased(c *fiber.Ctx) error
		GenerateFromLowStock(c *fiber.Ctx) error
		TogglePurchased(c *fiber.Ctx) error
		CreateWeeklyList(c *fiber.Ctx) error
		GetWeeklyLists(c *fiber.Ctx) error
	}

	shoppingHandler struct {
		shoppingService shopping.ShoppingService
		validator       *validator.Validate
	}
)

func NewShoppingHandler(shoppingService shopping.ShoppingService, validator *validator.Validate) ShoppingHandler {
	return &shoppingHandler{
		shoppingService: shoppingService,
		validator:       validator,
	}
}

func (h *shoppingHandler) AddItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddShoppingItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddShoppingItem, err)
	}

	res, err := h.shoppingService.AddItem(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddShoppingItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddShoppingItem)
}

func (h *shoppingHandler) GetList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	includePurchased := c.QueryBool("include_purchased", false)

	items, err := h.shoppingService.GetList(c.Context(), userID, includePurchased)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetShoppingList, err)
	}

	return presenters.SuccessResponse(c, items, fiber.StatusOK, domain.MessageSuccessGetShoppingList)
}

func (h *shoppingHandler) DeleteItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	if err := h.shoppingService.DeleteItem(c.Context(), userID, itemID); err != nil {
		return presenters.ErrorResponse(c, statusForShoppingErr(err), domain.MessageFailedDeleteShoppingItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteShoppingItem)
}

func (h *shoppingHandler) ClearPurchased(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	cleared, err := h.shoppingService.ClearPurchased(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedClearShoppingList, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"cleared": cleared}, fiber.StatusOK, domain.MessageSuccessClearShoppingList)
}

func (h *shoppingHandler) GenerateFromLowStock(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.shoppingService.GenerateFromLowStock(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateList, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGenerateList)
}

func (h *shoppingHandler) TogglePurchased(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")
	req := new(domain.TogglePurchasedRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedTogglePurchased, err)
	}

	res, err := h.shoppingService.TogglePurchased(c.Context(), userID, itemID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusForShoppingErr(err), domain.MessageFailedTogglePurchased, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessTogglePurchased)
}

func (h *shoppingHandler) CreateWeeklyList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateWeeklyListRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateWeeklyList, err)
	}

	res, err := h.shoppingService.CreateWeeklyList(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateWeeklyList, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateWeeklyList)
}

func (h *shoppingHandler) GetWeeklyLists(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	limit, err := strconv.Atoi(c.Query("limit", "12"))
	if err != nil || limit < 1 {
		limit = 12
	}

	lists, err := h.shoppingService.GetWeeklyLists(c.Context(), userID, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetWeeklyLists, err)
	}

	return presenters.SuccessResponse(c, lists, fiber.StatusOK, domain.MessageSuccessGetWeeklyLists)
}

func statusForShoppingErr(err error) int {
	switch {
	case errors.Is(err, domain.ErrShoppingItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorizedAccess):
		return fiber.StatusForbidden
	default:
		return fiber.StatusBadRequest
	}
}
