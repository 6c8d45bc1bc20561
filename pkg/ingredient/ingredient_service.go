package ingredient

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error)
		GetIngredientByID(ctx context.Context, id uint) (domain.Ingredient, error)
		CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.Ingredient, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func ToIngredient(i *entities.Ingredient) domain.Ingredient {
	return domain.Ingredient{
		ID:              i.ID,
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}

func (s *ingredientService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx, strings.TrimSpace(namePrefix))
	if err != nil {
		return nil, err
	}

	result := make([]domain.Ingredient, 0, len(ingredients))
	for _, i := range ingredients {
		result = append(result, ToIngredient(i))
	}
	return result, nil
}

func (s *ingredientService) GetIngredientByID(ctx context.Context, id uint) (domain.Ingredient, error) {
	i, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Ingredient{}, domain.ErrIngredientNotFound
		}
		return domain.Ingredient{}, err
	}
	return ToIngredient(i), nil
}

func (s *ingredientService) CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.Ingredient, error) {
	name := strings.TrimSpace(req.Name)
	unit := strings.TrimSpace(req.MeasurementUnit)

	exists, err := s.ingredientRepository.Exists(ctx, name, unit)
	if err != nil {
		return domain.Ingredient{}, err
	}
	if exists {
		return domain.Ingredient{}, domain.NewValidationError("name", domain.MessageIngredientExists)
	}

	i := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	if err := s.ingredientRepository.CreateIngredient(ctx, i); err != nil {
		return domain.Ingredient{}, err
	}
	return ToIngredient(i), nil
}
