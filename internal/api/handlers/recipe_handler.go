package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/recipe"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToShoppingCart(c *fiber.Ctx) error
		RemoveFromShoppingCart(c *fiber.Ctx) error
		DownloadShoppingList(c *fiber.Ctx) error
		SendShoppingList(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func queryFlag(c *fiber.Ctx, key string) bool {
	switch c.Query(key) {
	case "1", "true":
		return true
	default:
		return false
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	filter := domain.RecipeFilter{
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
		Page:             page,
		Limit:            limit,
	}

	if author := c.Query("author"); author != "" {
		id := c.QueryInt("author", 0)
		if id <= 0 {
			return failed(c, domain.MessageFailedGetRecipes, domain.ErrInvalidQuery)
		}
		filter.AuthorID = uint(id)
	}
	for _, slug := range c.Context().QueryArgs().PeekMulti("tags") {
		filter.TagSlugs = append(filter.TagSlugs, string(slug))
	}

	res, err := h.recipeService.GetRecipes(c.Context(), currentUserID(c), filter)
	if err != nil {
		return failed(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedGetRecipeDetail, err)
	}

	res, err := h.recipeService.GetRecipeDetail(c.Context(), currentUserID(c), id)
	if err != nil {
		return failed(c, domain.MessageFailedGetRecipeDetail, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) parseRecipeRequest(c *fiber.Ctx) (*domain.RecipeRequest, error) {
	req := new(domain.RecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return nil, utils.ValidationErrors(err)
	}
	return req, nil
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	req, err := h.parseRecipeRequest(c)
	if err != nil {
		return failed(c, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), currentUserID(c), *req)
	if err != nil {
		return failed(c, domain.MessageFailedCreateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedUpdateRecipe, err)
	}
	req, err := h.parseRecipeRequest(c)
	if err != nil {
		return failed(c, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), currentUserID(c), id, *req)
	if err != nil {
		return failed(c, domain.MessageFailedUpdateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedDeleteRecipe, err)
	}

	if err := h.recipeService.DeleteRecipe(c.Context(), currentUserID(c), id); err != nil {
		return failed(c, domain.MessageFailedDeleteRecipe, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedAddFavorite, err)
	}

	res, err := h.recipeService.AddFavorite(c.Context(), currentUserID(c), id)
	if err != nil {
		return failed(c, domain.MessageFailedAddFavorite, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFavorite)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedRemoveFavorite, err)
	}

	if err := h.recipeService.RemoveFavorite(c.Context(), currentUserID(c), id); err != nil {
		return failed(c, domain.MessageFailedRemoveFavorite, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) AddToShoppingCart(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedAddShoppingCart, err)
	}

	res, err := h.recipeService.AddToShoppingCart(c.Context(), currentUserID(c), id)
	if err != nil {
		return failed(c, domain.MessageFailedAddShoppingCart, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddShoppingCart)
}

func (h *recipeHandler) RemoveFromShoppingCart(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedRemoveShoppingCart, err)
	}

	if err := h.recipeService.RemoveFromShoppingCart(c.Context(), currentUserID(c), id); err != nil {
		return failed(c, domain.MessageFailedRemoveShoppingCart, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) DownloadShoppingList(c *fiber.Ctx) error {
	text, err := h.recipeService.DownloadShoppingList(c.Context(), currentUserID(c))
	if err != nil {
		return failed(c, domain.MessageFailedDownloadShoppingList, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", domain.ShoppingListFilename))
	return c.Status(fiber.StatusOK).SendString(text)
}

func (h *recipeHandler) SendShoppingList(c *fiber.Ctx) error {
	if err := h.recipeService.SendShoppingList(c.Context(), currentUserID(c)); err != nil {
		return failed(c, domain.MessageFailedSendShoppingList, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessSendShoppingList)
}
