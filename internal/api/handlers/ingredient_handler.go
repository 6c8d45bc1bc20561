package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/ingredient"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	IngredientHandler interface {
		GetIngredients(c *fiber.Ctx) error
		GetIngredient(c *fiber.Ctx) error
		CreateIngredient(c *fiber.Ctx) error
	}

	ingredientHandler struct {
		ingredientService ingredient.IngredientService
		validator         *validator.Validate
	}
)

func NewIngredientHandler(ingredientService ingredient.IngredientService, validator *validator.Validate) IngredientHandler {
	return &ingredientHandler{
		ingredientService: ingredientService,
		validator:         validator,
	}
}

func (h *ingredientHandler) GetIngredients(c *fiber.Ctx) error {
	res, err := h.ingredientService.GetIngredients(c.Context(), c.Query("name"))
	if err != nil {
		return failed(c, domain.MessageFailedGetIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *ingredientHandler) GetIngredient(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedGetIngredient, err)
	}

	res, err := h.ingredientService.GetIngredientByID(c.Context(), id)
	if err != nil {
		return failed(c, domain.MessageFailedGetIngredient, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredient)
}

func (h *ingredientHandler) CreateIngredient(c *fiber.Ctx) error {
	req := new(domain.CreateIngredientRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return failed(c, domain.MessageFailedValidation, utils.ValidationErrors(err))
	}

	res, err := h.ingredientService.CreateIngredient(c.Context(), *req)
	if err != nil {
		return failed(c, domain.MessageFailedCreateIngredient, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateIngredient)
}
