package domain

import (
	"errors"
)

const (
	TimeMin   = 1
	TimeMax   = 32000
	AmountMin = 1
	AmountMax = 32000

	ShoppingListHeader   = "Shopping list:"
	ShoppingListFilename = "shopping-list.txt"
)

var (
	MessageSuccessGetRecipes         = "success get recipes"
	MessageSuccessGetRecipeDetail    = "success get recipe detail"
	MessageSuccessCreateRecipe       = "recipe created successfully"
	MessageSuccessUpdateRecipe       = "recipe updated successfully"
	MessageSuccessDeleteRecipe       = "recipe deleted successfully"
	MessageSuccessAddFavorite        = "recipe added to favorites"
	MessageSuccessRemoveFavorite     = "recipe removed from favorites"
	MessageSuccessAddShoppingCart    = "recipe added to shopping cart"
	MessageSuccessRemoveShoppingCart = "recipe removed from shopping cart"
	MessageSuccessSendShoppingList   = "shopping list sent successfully"

	MessageFailedGetRecipes           = "failed to get recipes"
	MessageFailedGetRecipeDetail      = "failed to get recipe detail"
	MessageFailedCreateRecipe         = "failed to create recipe"
	MessageFailedUpdateRecipe         = "failed to update recipe"
	MessageFailedDeleteRecipe         = "failed to delete recipe"
	MessageFailedAddFavorite          = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite       = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart      = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart   = "failed to remove recipe from shopping cart"
	MessageFailedDownloadShoppingList = "failed to build shopping list"
	MessageFailedSendShoppingList     = "failed to send shopping list"

	MessageIngredientsRequired  = "add at least one ingredient"
	MessageTagsRequired         = "add at least one tag"
	MessageDuplicateIngredients = "ingredients must not repeat"
	MessageDuplicateTags        = "tags must not repeat"
	MessageIngredientNotFound   = "ingredient not found"
	MessageTagNotFound          = "tag not found"
	MessageInvalidImage         = "invalid image"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")
	ErrAlreadyFavorited         = errors.New("recipe already in favorites")
	ErrNotFavorited             = errors.New("recipe is not in favorites")
	ErrAlreadyInShoppingCart    = errors.New("recipe already in shopping cart")
	ErrNotInShoppingCart        = errors.New("recipe is not in shopping cart")
	ErrEmptyShoppingCart        = errors.New("shopping cart is empty")
)

type (
	RecipeIngredientRequest struct {
		ID     uint `json:"id" validate:"required"`
		Amount int  `json:"amount" validate:"min=1,max=32000"`
	}

	// RecipeRequest is the write shape for both create and update.
	RecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		Image       string                    `json:"image" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1,max=32000"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"dive"`
		Tags        []uint                    `json:"tags"`
	}

	RecipeFilter struct {
		AuthorID         uint
		TagSlugs         []string
		IsFavorited      bool
		IsInShoppingCart bool
		Page             int
		Limit            int
	}

	RecipeIngredient struct {
		ID              uint   `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	Recipe struct {
		ID               uint               `json:"id"`
		Tags             []Tag              `json:"tags"`
		Author           User               `json:"author"`
		Ingredients      []RecipeIngredient `json:"ingredients"`
		IsFavorited      bool               `json:"is_favorited"`
		IsInShoppingCart bool               `json:"is_in_shopping_cart"`
		Name             string             `json:"name"`
		Image            string             `json:"image"`
		Text             string             `json:"text"`
		CookingTime      int                `json:"cooking_time"`
	}

	RecipeShort struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeListResponse struct {
		Recipes    []Recipe   `json:"recipes"`
		Pagination Pagination `json:"pagination"`
	}

	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int64  `json:"amount"`
	}
)
