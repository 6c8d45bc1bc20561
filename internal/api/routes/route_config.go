package routes

import (
	"Foodgram-Backend/internal/api/handlers"
	"Foodgram-Backend/internal/metrics"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	TagHandler        handlers.TagHandler
	IngredientHandler handlers.IngredientHandler
	RecipeHandler     handlers.RecipeHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Use(metrics.Middleware())
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Catalog()
	c.Recipe()
	c.Admin()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", metrics.Handler())
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth")
	auth.Post("/token/login", c.UserHandler.Login)
}

func (c *Config) User() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	user := c.App.Group("/api/users")
	{
		user.Post("", c.UserHandler.Register)
		user.Get("", optional, c.UserHandler.GetUsers)
		user.Get("/me", auth, c.UserHandler.Me)
		user.Post("/set_password", auth, c.UserHandler.SetPassword)
		user.Get("/subscriptions", auth, c.UserHandler.GetSubscriptions)
		user.Get("/:id", optional, c.UserHandler.GetUser)
		user.Post("/:id/subscribe", auth, c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", auth, c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Catalog() {
	tags := c.App.Group("/api/tags")
	tags.Get("", c.TagHandler.GetTags)
	tags.Get("/:id", c.TagHandler.GetTag)

	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("", c.IngredientHandler.GetIngredients)
	ingredients.Get("/:id", c.IngredientHandler.GetIngredient)
}

func (c *Config) Recipe() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	recipes := c.App.Group("/api/recipes")
	{
		recipes.Get("", optional, c.RecipeHandler.GetRecipes)
		recipes.Post("", auth, c.RecipeHandler.CreateRecipe)
		recipes.Get("/download_shopping_cart", auth, c.RecipeHandler.DownloadShoppingList)
		recipes.Post("/send_shopping_cart", auth, c.RecipeHandler.SendShoppingList)
		recipes.Get("/:id", optional, c.RecipeHandler.GetRecipeDetail)
		recipes.Put("/:id", auth, c.RecipeHandler.UpdateRecipe)
		recipes.Patch("/:id", auth, c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", auth, c.RecipeHandler.DeleteRecipe)
		recipes.Post("/:id/favorite", auth, c.RecipeHandler.AddFavorite)
		recipes.Delete("/:id/favorite", auth, c.RecipeHandler.RemoveFavorite)
		recipes.Post("/:id/shopping_cart", auth, c.RecipeHandler.AddToShoppingCart)
		recipes.Delete("/:id/shopping_cart", auth, c.RecipeHandler.RemoveFromShoppingCart)
	}
}

func (c *Config) Admin() {
	admin := c.App.Group("/api/admin",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Middleware.AdminMiddleware(),
	)
	admin.Post("/tags", c.TagHandler.CreateTag)
	admin.Post("/ingredients", c.IngredientHandler.CreateIngredient)
}
