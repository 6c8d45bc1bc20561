package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/utils/logging"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func errorStatus(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrParseID),
		errors.Is(err, domain.ErrBodyRequest),
		errors.Is(err, domain.ErrInvalidQuery),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAlreadyFavorited),
		errors.Is(err, domain.ErrNotFavorited),
		errors.Is(err, domain.ErrAlreadyInShoppingCart),
		errors.Is(err, domain.ErrNotInShoppingCart),
		errors.Is(err, domain.ErrEmptyShoppingCart),
		errors.Is(err, domain.ErrSelfFollow),
		errors.Is(err, domain.ErrAlreadyFollowing),
		errors.Is(err, domain.ErrNotFollowing):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorizedRecipeAccess),
		errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// failed maps err to a status code and writes the error envelope. Server
// errors are logged and their details hidden from the client.
func failed(c *fiber.Ctx, message string, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		logging.FromFiber(c).Error().Err(err).Msg(message)
		return presenters.ErrorResponse(c, status, message, errors.New(domain.MessageFailedProcessRequest))
	}
	return presenters.ErrorResponse(c, status, message, err)
}

// currentUserID is zero for anonymous requests.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrParseID
	}
	return uint(id), nil
}

func pageParams(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", domain.DefaultPageSize)
	if limit < 1 {
		limit = domain.DefaultPageSize
	}
	return page, limit
}
