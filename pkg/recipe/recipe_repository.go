package recipe

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error

		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipe(ctx context.Context, id uint) error
		GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, userID uint) ([]*entities.Recipe, int64, error)
		ReplaceTags(ctx context.Context, recipeID uint, tagIDs []uint) error
		ReplaceIngredients(ctx context.Context, recipeID uint, rows []*entities.RecipeIngredient) error

		IsFavorited(ctx context.Context, userID, recipeID uint) (bool, error)
		AddFavorite(ctx context.Context, userID, recipeID uint) error
		RemoveFavorite(ctx context.Context, userID, recipeID uint) (bool, error)
		GetFavoritedIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)

		IsInShoppingCart(ctx context.Context, userID, recipeID uint) (bool, error)
		AddToShoppingCart(ctx context.Context, userID, recipeID uint) error
		RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) (bool, error)
		GetShoppingCartIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)

		GetShoppingList(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Transaction runs fn against a repository bound to a single transaction.
func (r *recipeRepository) Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&recipeRepository{db: tx})
	})
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit("Tags", "RecipeIngredients", "Author").Create(recipe).Error
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Model(&entities.Recipe{}).
		Where("id = ?", recipe.ID).
		Select("name", "text", "image", "cooking_time").
		Updates(map[string]any{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"image":        recipe.Image,
			"cooking_time": recipe.CookingTime,
		}).Error
}

// DeleteRecipe removes the recipe and every row that references it.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
		return err
	}
	if err := db.Where("recipe_id = ?", id).Delete(&entities.ShoppingCart{}).Error; err != nil {
		return err
	}
	if err := db.Where("recipe_id = ?", id).Delete(&entities.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&entities.Recipe{}).Error
}

func (r *recipeRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.id asc")
		}).
		Preload("RecipeIngredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id asc")
		}).
		Preload("RecipeIngredients.Ingredient")
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.preload(r.db.WithContext(ctx)).Where("recipes.id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// filtered builds a fresh query for the listing filters. The relation
// filters only apply to an authenticated caller.
func (r *recipeRepository) filtered(ctx context.Context, filter domain.RecipeFilter, userID uint) *gorm.DB {
	db := r.db.WithContext(ctx)
	query := db.Model(&entities.Recipe{})

	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)", db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.IsFavorited && userID != 0 {
		query = query.Where("recipes.id IN (?)", db.Model(&entities.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", userID))
	}
	if filter.IsInShoppingCart && userID != 0 {
		query = query.Where("recipes.id IN (?)", db.Model(&entities.ShoppingCart{}).
			Select("recipe_id").
			Where("user_id = ?", userID))
	}
	return query
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, userID uint) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (filter.Page - 1) * filter.Limit

	if err := r.filtered(ctx, filter, userID).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.preload(r.filtered(ctx, filter, userID)).
		Order("recipes.pub_date desc, recipes.id desc").
		Offset(offset).
		Limit(filter.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) ReplaceTags(ctx context.Context, recipeID uint, tagIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipeID).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, map[string]any{"recipe_id": recipeID, "tag_id": id})
	}
	return db.Table("recipe_tags").Create(rows).Error
}

// ReplaceIngredients drops the recipe's ingredient rows and inserts rows in
// one batch.
func (r *recipeRepository) ReplaceIngredients(ctx context.Context, recipeID uint, rows []*entities.RecipeIngredient) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	for _, row := range rows {
		row.RecipeID = recipeID
	}
	return db.Omit("Ingredient").Create(&rows).Error
}

func (r *recipeRepository) IsFavorited(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

func (r *recipeRepository) AddFavorite(ctx context.Context, userID, recipeID uint) error {
	return r.db.WithContext(ctx).Create(&entities.Favorite{UserID: userID, RecipeID: recipeID}).Error
}

// RemoveFavorite reports false when the recipe was not a favorite.
func (r *recipeRepository) RemoveFavorite(ctx context.Context, userID, recipeID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Favorite{})
	return res.RowsAffected > 0, res.Error
}

func (r *recipeRepository) GetFavoritedIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return r.relatedIDs(ctx, &entities.Favorite{}, userID, recipeIDs)
}

func (r *recipeRepository) IsInShoppingCart(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.ShoppingCart{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

func (r *recipeRepository) AddToShoppingCart(ctx context.Context, userID, recipeID uint) error {
	return r.db.WithContext(ctx).Create(&entities.ShoppingCart{UserID: userID, RecipeID: recipeID}).Error
}

func (r *recipeRepository) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.ShoppingCart{})
	return res.RowsAffected > 0, res.Error
}

func (r *recipeRepository) GetShoppingCartIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return r.relatedIDs(ctx, &entities.ShoppingCart{}, userID, recipeIDs)
}

func (r *recipeRepository) relatedIDs(ctx context.Context, model any, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	related := make(map[uint]bool)
	if userID == 0 || len(recipeIDs) == 0 {
		return related, nil
	}

	var ids []uint
	if err := r.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		related[id] = true
	}
	return related, nil
}

// GetShoppingList sums ingredient amounts over every recipe in the user's
// cart, one row per (name, unit) pair.
func (r *recipeRepository) GetShoppingList(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name asc, ingredients.measurement_unit asc").
		Scan(&items).Error
	return items, err
}
