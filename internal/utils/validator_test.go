package utils

import (
	"Foodgram-Backend/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorsAreFieldKeyed(t *testing.T) {
	InitValidator()

	req := domain.RecipeRequest{
		Name:        "",
		Text:        "text",
		Image:       "img",
		CookingTime: 32001,
		Ingredients: []domain.RecipeIngredientRequest{{ID: 1, Amount: 5}, {ID: 2, Amount: 0}},
	}

	err := ValidationErrors(Validate.Struct(req))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Equal(t, []string{"this field is required"}, verr.Fields["name"])
	assert.Equal(t, []string{"ensure this value is less than or equal to 32000"}, verr.Fields["cooking_time"])
	assert.Equal(t, []string{"ensure this value is greater than or equal to 1"}, verr.Fields["ingredients[1].amount"])
	assert.NotContains(t, verr.Fields, "ingredients[0].amount")
}

func TestCustomRules(t *testing.T) {
	InitValidator()

	tests := []struct {
		name  string
		value any
		field string
	}{
		{"bad username", domain.RegisterRequest{Email: "a@b.co", Username: "bad name", FirstName: "a", LastName: "b", Password: "longenough"}, "username"},
		{"bad slug", domain.CreateTagRequest{Name: "n", Color: "#fff", Slug: "no spaces"}, "slug"},
		{"bad color", domain.CreateTagRequest{Name: "n", Color: "red"}, "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *domain.ValidationError
			require.ErrorAs(t, ValidationErrors(Validate.Struct(tt.value)), &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	assert.NoError(t, Validate.Struct(domain.CreateTagRequest{Name: "n", Color: "#E26C2D", Slug: "break_fast-1"}))
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hashed)
	assert.True(t, CheckPassword(hashed, "correct horse"))
	assert.False(t, CheckPassword(hashed, "wrong"))
}
