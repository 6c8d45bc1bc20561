// Package testutil holds helpers shared by package tests.
package testutil

import (
	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/entities"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	u := &entities.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "hash",
		Role:      "user",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateTag(t *testing.T, db *gorm.DB, name string) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{Name: name, Color: "#ff0000", Slug: name}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()
	ing := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

// CreateRecipe inserts a recipe directly, bypassing service validation.
func CreateRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string, amounts map[*entities.Ingredient]int, tags ...*entities.Tag) *entities.Recipe {
	t.Helper()
	r := &entities.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "https://example.com/" + name + ".png",
		Text:        "text",
		CookingTime: 10,
		Tags:        tags,
	}
	require.NoError(t, db.Create(r).Error)
	for ing, amount := range amounts {
		require.NoError(t, db.Create(&entities.RecipeIngredient{
			RecipeID:     r.ID,
			IngredientID: ing.ID,
			Amount:       amount,
		}).Error)
	}
	return r
}
