package handlers

import (
	"errors"
	"strconv"

	"github.com/zy538324/homegrubhub-backend/domain"
	"github.com/zy538324/homegrubhub-backend/internal/api/presenters"
	"github.com/zy538324/homegrubhub-backend/pkg/prediction"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PredictionHandler interface {
		GetPredictions(c *fiber.Ctx) error
		GetItemForecast(c *fiber.Ctx) error
		GetSmartShoppingList(c *fiber.Ctx) error
		ApplyRecommendations(c *fiber.Ctx) error
	}

	predictionHandler struct {
		predictionService prediction.PredictionService
		validator         *validator.Validate
	}
)

func NewPredictionHandler(predictionService prediction.PredictionService, validator *validator.Validate) PredictionHandler {
	return &predictionHandler{
		predictionService: predictionService,
		validator:         validator,
	}
}

func (h *predictionHandler) GetPredictions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	analysis, err := h.predictionService.GeneratePredictions(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetPredictions, err)
	}

	return presenters.SuccessResponse(c, analysis, fiber.StatusOK, domain.MessageSuccessGetPredictions)
}

func (h *predictionHandler) GetItemForecast(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	forecast, err := h.predictionService.GetItemForecast(c.Context(), userID, itemID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoPredictionData):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetForecast, err)
		case errors.Is(err, domain.ErrPantryItemNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetForecast, err)
		case errors.Is(err, domain.ErrUnauthorizedAccess):
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedGetForecast, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetForecast, err)
		}
	}

	return presenters.SuccessResponse(c, forecast, fiber.StatusOK, domain.MessageSuccessGetForecast)
}

func (h *predictionHandler) GetSmartShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	daysAhead, err := strconv.Atoi(c.Query("days_ahead", "7"))
	if err != nil || daysAhead < 1 {
		daysAhead = 7
	}

	var budgetLimit *float64
	if raw := c.Query("budget_limit"); raw != "" {
		budget, err := strconv.ParseFloat(raw, 64)
		if err != nil || budget < 0 {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSmartList, errors.New("budget_limit must be a non-negative number"))
		}
		budgetLimit = &budget
	}

	list, err := h.predictionService.GenerateSmartShoppingList(c.Context(), userID, daysAhead, budgetLimit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedSmartList, err)
	}

	return presenters.SuccessResponse(c, list, fiber.StatusOK, domain.MessageSuccessSmartList)
}

func (h *predictionHandler) ApplyRecommendations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.ApplyRecommendationsRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedApplyRecs, err)
	}

	res, err := h.predictionService.ApplyRecommendations(c.Context(), userID, req)
	if err != nil {
		var perr *domain.PredictionError
		if errors.As(err, &perr) && perr.Kind == domain.KindPersistenceFailure {
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedApplyRecs, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedApplyRecs, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessApplyRecs)
}
