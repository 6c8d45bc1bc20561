package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/user"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		GetUsers(c *fiber.Ctx) error
		GetUser(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		SetPassword(c *fiber.Ctx) error
		GetSubscriptions(c *fiber.Ctx) error
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
	}

	userHandler struct {
		userService user.UserService
		validator   *validator.Validate
	}
)

func NewUserHandler(userService user.UserService, validator *validator.Validate) UserHandler {
	return &userHandler{
		userService: userService,
		validator:   validator,
	}
}

// recipesLimit reads the recipes_limit query parameter. When it is absent
// every recipe is returned.
func recipesLimit(c *fiber.Ctx) (int, error) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return user.AllRecipes, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError("recipes_limit", domain.MessageInvalidLimit)
	}
	return n, nil
}

func (h *userHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return failed(c, domain.MessageFailedValidation, utils.ValidationErrors(err))
	}

	res, err := h.userService.Register(c.Context(), *req)
	if err != nil {
		return failed(c, domain.MessageFailedRegister, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegister)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return failed(c, domain.MessageFailedValidation, utils.ValidationErrors(err))
	}

	res, err := h.userService.Login(c.Context(), *req)
	if err != nil {
		return failed(c, domain.MessageFailedLogin, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *userHandler) GetUsers(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	res, err := h.userService.GetUsers(c.Context(), currentUserID(c), page, limit)
	if err != nil {
		return failed(c, domain.MessageFailedGetUsers, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUsers)
}

func (h *userHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedGetUser, err)
	}

	res, err := h.userService.GetUserByID(c.Context(), currentUserID(c), id)
	if err != nil {
		return failed(c, domain.MessageFailedGetUser, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	res, err := h.userService.Me(c.Context(), currentUserID(c))
	if err != nil {
		return failed(c, domain.MessageFailedGetUser, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) SetPassword(c *fiber.Ctx) error {
	req := new(domain.SetPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return failed(c, domain.MessageFailedValidation, utils.ValidationErrors(err))
	}

	if err := h.userService.SetPassword(c.Context(), currentUserID(c), *req); err != nil {
		return failed(c, domain.MessageFailedSetPassword, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *userHandler) GetSubscriptions(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	recipes, err := recipesLimit(c)
	if err != nil {
		return failed(c, domain.MessageFailedGetFollows, err)
	}

	res, err := h.userService.GetSubscriptions(c.Context(), currentUserID(c), page, limit, recipes)
	if err != nil {
		return failed(c, domain.MessageFailedGetFollows, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFollows)
}

func (h *userHandler) Subscribe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedSubscribe, err)
	}
	recipes, err := recipesLimit(c)
	if err != nil {
		return failed(c, domain.MessageFailedSubscribe, err)
	}

	res, err := h.userService.Subscribe(c.Context(), currentUserID(c), id, recipes)
	if err != nil {
		return failed(c, domain.MessageFailedSubscribe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *userHandler) Unsubscribe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedUnsubscribe, err)
	}

	if err := h.userService.Unsubscribe(c.Context(), currentUserID(c), id); err != nil {
		return failed(c, domain.MessageFailedUnsubscribe, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
