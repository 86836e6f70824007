package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Lislejoem/social-garden/internal/ai"
	"github.com/Lislejoem/social-garden/internal/config"
	"github.com/Lislejoem/social-garden/internal/health"
	"github.com/Lislejoem/social-garden/internal/server"
	"github.com/Lislejoem/social-garden/internal/storage"
	"github.com/Lislejoem/social-garden/internal/storage/postgres"
	"github.com/Lislejoem/social-garden/internal/storage/sqlite"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	evaluator, err := buildEvaluator(cfg)
	if err != nil {
		log.Fatalf("Failed to load cadence thresholds: %v", err)
	}

	provider, apiKey, model, baseURL := cfg.ProviderConfig()
	completer, err := ai.NewCompleter(ai.ProviderConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
		BaseURL:  baseURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	log.Printf("AI provider: %s (%s)", provider, model)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, _ := server.Start(ctx, cfg, server.Deps{
		Store:     store,
		Evaluator: evaluator,
		Extractor: ai.NewCompletionExtractor(completer),
		Narrator:  ai.NewCompletionNarrator(completer),
	})
	log.Printf("Social Garden running at http://%s", addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()
	time.Sleep(1 * time.Second)
	log.Println("Shutdown complete")
}

func openStore(cfg *config.Config) (storage.ContactStore, error) {
	switch cfg.Storage.StorageEngine {
	case "postgres":
		return postgres.NewContactStore(cfg.Storage.PostgresDSN)
	default:
		if err := os.MkdirAll(cfg.Storage.DataPath, 0o755); err != nil {
			return nil, err
		}
		return sqlite.NewContactStore(cfg.Storage.DataPath + "/garden.db")
	}
}

func buildEvaluator(cfg *config.Config) (*health.Evaluator, error) {
	if cfg.Health.ThresholdsPath == "" {
		return health.NewEvaluator(), nil
	}
	return health.NewEvaluatorFromFile(cfg.Health.ThresholdsPath)
}
