package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/tag"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	TagHandler interface {
		GetTags(c *fiber.Ctx) error
		GetTag(c *fiber.Ctx) error
		CreateTag(c *fiber.Ctx) error
	}

	tagHandler struct {
		tagService tag.TagService
		validator  *validator.Validate
	}
)

func NewTagHandler(tagService tag.TagService, validator *validator.Validate) TagHandler {
	return &tagHandler{
		tagService: tagService,
		validator:  validator,
	}
}

func (h *tagHandler) GetTags(c *fiber.Ctx) error {
	res, err := h.tagService.GetTags(c.Context())
	if err != nil {
		return failed(c, domain.MessageFailedGetTags, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *tagHandler) GetTag(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedGetTag, err)
	}

	res, err := h.tagService.GetTagByID(c.Context(), id)
	if err != nil {
		return failed(c, domain.MessageFailedGetTag, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTag)
}

func (h *tagHandler) CreateTag(c *fiber.Ctx) error {
	req := new(domain.CreateTagRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return failed(c, domain.MessageFailedValidation, utils.ValidationErrors(err))
	}

	res, err := h.tagService.CreateTag(c.Context(), *req)
	if err != nil {
		return failed(c, domain.MessageFailedCreateTag, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateTag)
}
