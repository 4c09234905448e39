package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/mkopaniuk/city-news/internal/app"
	"github.com/mkopaniuk/city-news/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewWebConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	logger := log.New(log.Writer(), "CityNewsWeb: ", log.LstdFlags)

	application := app.New(*cfg, logger)

	container, err := application.Init()
	if err != nil {
		logger.Panicf("failed to initialize application: %v", err)
	}

	if err := application.Start(container); err != nil {
		logger.Panic(err)
	}

	defer func() {
		if err := application.Stop(container); err != nil {
			logger.Panicf("failed to shutdown application: %v", err)
		}
		logger.Println("Application shutdown successfully")
	}()
}
