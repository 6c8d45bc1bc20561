package config

import (
	"Foodgram-Backend/internal/api/handlers"
	"Foodgram-Backend/internal/api/routes"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/cache"
	"Foodgram-Backend/internal/utils/logging"
	"Foodgram-Backend/internal/utils/mailing"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/tag"
	"Foodgram-Backend/pkg/user"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		JSONEncoder:       json.Marshal,
		JSONDecoder:       json.Unmarshal,
	})
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	rateLimit := utils.GetConfigInt("RATE_LIMIT_MAX")
	if rateLimit <= 0 {
		rateLimit = 10
	}
	app.Use(limiter.New(limiter.Config{
		Max:        rateLimit,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	mailer := mailing.NewMailer()
	tagCache := newTagCache()

	// Repository
	userRepository := user.NewUserRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	middlewares := middleware.NewMiddleware(userRepository)

	// Service
	jwtService, err := jwt.NewJWTService()
	if err != nil {
		return nil, fmt.Errorf("error creating jwt service: %w", err)
	}
	userService := user.NewUserService(userRepository, jwtService)
	tagService := tag.NewTagService(tagRepository, tagCache)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		ingredientRepository,
		tagRepository,
		userRepository,
		s3,
		mailer,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	tagHandler := handlers.NewTagHandler(tagService, validator)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		TagHandler:        tagHandler,
		IngredientHandler: ingredientHandler,
		RecipeHandler:     recipeHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

// newTagCache connects to redis when REDIS_ADDR is set and falls back to
// an uncached catalog otherwise.
func newTagCache() cache.Cache {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		return cache.NewNoopCache()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := cache.NewRedisCache(ctx, addr, utils.GetConfig("REDIS_PASSWORD"))
	if err != nil {
		logging.Warn().Err(err).Str("addr", addr).Msg("redis unavailable, tag cache disabled")
		return cache.NewNoopCache()
	}
	return c
}
