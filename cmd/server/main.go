package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"farm-assist/internal/api"
	"farm-assist/internal/pricing"
	"farm-assist/shared/ai"
	"farm-assist/shared/config"
	"farm-assist/shared/storage"
	"farm-assist/shared/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	weatherClient := weather.NewClient(&cfg.Weather)

	var scorer pricing.Scorer
	if cfg.Model.Path != "" {
		regressor, err := pricing.LoadRegressor(cfg.Model.Path)
		if err != nil {
			// Missing or corrupt scoring artifact is fatal at startup.
			log.Fatalf("Failed to load price model: %v", err)
		}
		scorer = regressor
		log.Printf("Price model loaded from %s", cfg.Model.Path)
	} else {
		log.Println("No price model configured, using mock price table")
	}
	predictor := pricing.NewPredictor(weatherClient, scorer, nil)

	generator, err := ai.NewClient(ctx, &cfg.AI)
	if err != nil {
		log.Fatalf("Failed to initialize text generation client: %v", err)
	}

	srv := api.New(cfg, weatherClient, predictor, generator, storage.NewInitiativeLog())
	log.Printf("Farm Assistant API listening on :%s", cfg.Server.Port)

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
