package ingredient

import (
	"Foodgram-Backend/entities"
	"context"
	"strings"

	"gorm.io/gorm"
)

type (
	IngredientRepository interface {
		GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id uint) (*entities.Ingredient, error)
		CountExisting(ctx context.Context, ids []uint) (int64, error)
		Exists(ctx context.Context, name, unit string) (bool, error)
		CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	query := r.db.WithContext(ctx)
	if namePrefix != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, strings.ToLower(escapeLike(namePrefix))+"%")
	}
	if err := query.Order("id asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id uint) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// CountExisting reports how many of the distinct ids are present.
func (r *ingredientRepository) CountExisting(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).Model(&entities.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ingredientRepository) Exists(ctx context.Context, name, unit string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Ingredient{}).
		Where("name = ? AND measurement_unit = ?", name, unit).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ingredientRepository) CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	return r.db.WithContext(ctx).Create(ingredient).Error
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
