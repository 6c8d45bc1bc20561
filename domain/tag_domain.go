package domain

import "errors"

var (
	MessageSuccessGetTags   = "success get tags"
	MessageSuccessGetTag    = "success get tag"
	MessageSuccessCreateTag = "tag created successfully"

	MessageFailedGetTags   = "failed to get tags"
	MessageFailedGetTag    = "failed to get tag"
	MessageFailedCreateTag = "failed to create tag"

	MessageTagNameTaken = "tag with this name already exists"
	MessageTagSlugTaken = "tag with this slug already exists"
	MessageTagSlugEmpty = "slug cannot be derived from this name, set it explicitly"

	ErrTagNotFound = errors.New("tag not found")
)

type (
	Tag struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}

	CreateTagRequest struct {
		Name  string `json:"name" validate:"required,max=200"`
		Color string `json:"color" validate:"required,max=7,hexcolor"`
		Slug  string `json:"slug" validate:"omitempty,max=200,slug"`
	}
)
