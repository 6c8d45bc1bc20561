package main

import (
	"Foodgram-Backend/cmd/config"
	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/cmd/database/seed"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/logging"
	"Foodgram-Backend/pkg/ingredient"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	seedFile := flag.String("seed", "", "load ingredients from a .json or .csv file and exit")
	flag.Parse()

	utils.LoadConfig()
	logging.Init(logging.Config{
		Level:  utils.GetConfig("LOG_LEVEL"),
		Format: utils.GetConfig("LOG_FORMAT"),
	})

	db, err := config.ConnectDB()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := migration.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to migrate database")
	}

	if *seedFile != "" {
		if _, err := seed.FromFile(context.Background(), ingredient.NewIngredientRepository(db), *seedFile); err != nil {
			logging.Fatal().Err(err).Str("file", *seedFile).Msg("failed to seed ingredients")
		}
		return
	}

	app, err := config.NewApp(db)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build app")
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logging.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			logging.Error().Err(err).Msg("shutdown failed")
		}
	}()

	addr := fmt.Sprintf(":%s", utils.GetConfig("APP_PORT"))
	logging.Info().Str("addr", addr).Msg("starting server")
	if err := app.Listen(addr); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}
