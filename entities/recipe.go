package entities

import (
	"time"
)

type Recipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Image       string    `gorm:"not null" json:"image"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`
	PubDate     time.Time `gorm:"type:timestamp;autoCreateTime;index" json:"pub_date"`

	Author            *User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags              []*Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	RecipeIngredients []*RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// RecipeIngredient links a recipe to an ingredient with an amount.
type RecipeIngredient struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RecipeID     uint `gorm:"not null;index" json:"recipe_id"`
	IngredientID uint `gorm:"not null;index" json:"ingredient_id"`
	Amount       int  `gorm:"not null" json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

type ShoppingCart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}
