package domain

import "errors"

var (
	MessageSuccessGetIngredients   = "success get ingredients"
	MessageSuccessGetIngredient    = "success get ingredient"
	MessageSuccessCreateIngredient = "ingredient created successfully"

	MessageFailedGetIngredients   = "failed to get ingredients"
	MessageFailedGetIngredient    = "failed to get ingredient"
	MessageFailedCreateIngredient = "failed to create ingredient"

	MessageIngredientExists = "ingredient with this name and unit already exists"

	ErrIngredientNotFound = errors.New("ingredient not found")
)

type (
	Ingredient struct {
		ID              uint   `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	CreateIngredientRequest struct {
		Name            string `json:"name" validate:"required,max=200"`
		MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
	}
)
