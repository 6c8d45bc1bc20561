package migration

import (
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/logging"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"follow", &entities.Follow{}},
		{"tag", &entities.Tag{}},
		{"ingredient", &entities.Ingredient{}},
		{"recipe", &entities.Recipe{}},
		{"recipe ingredient", &entities.RecipeIngredient{}},
		{"favorite", &entities.Favorite{}},
		{"shopping cart", &entities.ShoppingCart{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			logging.Error().Err(err).Str("model", m.name).Msg("error migrating database")
			return err
		}
	}

	logging.Info().Msg("Database migration complete")
	return nil
}
