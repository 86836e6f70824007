// Package server wires the HTTP surface: routing, middleware, and the
// websocket event hub.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/Lislejoem/social-garden/internal/ai"
	"github.com/Lislejoem/social-garden/internal/briefing"
	"github.com/Lislejoem/social-garden/internal/config"
	"github.com/Lislejoem/social-garden/internal/health"
	"github.com/Lislejoem/social-garden/internal/ingest"
	"github.com/Lislejoem/social-garden/internal/storage"
	"github.com/Lislejoem/social-garden/pkg/types"
	"github.com/Lislejoem/social-garden/web/handlers"
)

// Deps carries the collaborators the server routes requests to. Extractor
// and Narrator may be nil, in which case the ingestion and briefing
// endpoints respond with a collaborator error.
type Deps struct {
	Store     storage.ContactStore
	Evaluator *health.Evaluator
	Extractor ai.Extractor
	Narrator  ai.Narrator
}

// Start initializes and starts the HTTP server.
// Returns the actual address being listened on (useful for testing with
// port 0) and the WebSocketHub for wiring change-event broadcasts.
func Start(ctx context.Context, cfg *config.Config, deps Deps) (string, *handlers.WebSocketHub) {
	mux := http.NewServeMux()

	wsHub := handlers.NewWebSocketHub(allowedOrigins(cfg))
	go wsHub.Run()

	// 10 req/sec sustained, burst of 20.
	rateLimiter := handlers.NewRateLimiter(10.0, 20)

	apiHandlers := handlers.NewAPIHandlers(deps.Store, deps.Evaluator, wsHub)
	ingestHandlers := handlers.NewIngestHandlers(
		requireExtractor(deps.Extractor), ingest.NewMergeEngine(deps.Store), wsHub)
	briefingHandlers := handlers.NewBriefingHandlers(
		briefing.NewAssembler(deps.Store, deps.Evaluator), requireNarrator(deps.Narrator))

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("POST /api/ingest", ingestHandlers.Ingest)
	apiMux.HandleFunc("GET /api/contacts", apiHandlers.ListContacts)
	apiMux.HandleFunc("POST /api/contacts", apiHandlers.CreateContact)
	apiMux.HandleFunc("GET /api/contacts/{id}", apiHandlers.GetContact)
	apiMux.HandleFunc("PATCH /api/contacts/{id}", apiHandlers.UpdateContact)
	apiMux.HandleFunc("DELETE /api/contacts/{id}", apiHandlers.DeleteContact)
	apiMux.HandleFunc("POST /api/contacts/{id}/interactions", apiHandlers.AddInteraction)
	apiMux.HandleFunc("GET /api/contacts/{id}/briefing", briefingHandlers.GetBriefing)
	apiMux.HandleFunc("POST /api/seedlings/{id}/plant", apiHandlers.PlantSeedling)

	// Health endpoint sits outside the auth wrapper so monitors can reach it.
	mux.HandleFunc("GET /api/health", apiHandlers.HealthCheck)

	mux.Handle("/api/", handlers.RequireAuth(apiMux, cfg))

	// WebSocket endpoint; origin validation handles access control.
	mux.Handle("/ws", wsHub)

	handler := handlers.RateLimitMiddleware(mux, rateLimiter)
	handler = handlers.SecurityHeaders(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", addr, err)
	}

	actualAddr := listener.Addr().String()

	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		wsHub.Stop()
	}()

	return actualAddr, wsHub
}

func allowedOrigins(cfg *config.Config) []string {
	port := cfg.Server.Port
	return []string{
		fmt.Sprintf("localhost:%d", port),
		fmt.Sprintf("127.0.0.1:%d", port),
	}
}

// unavailableExtractor stands in when no extraction collaborator is
// configured, so the route still answers with a structured error.
type unavailableExtractor struct{}

func (unavailableExtractor) Extract(ctx context.Context, rawInput string) (*types.Extraction, error) {
	return nil, fmt.Errorf("%w: no extraction provider configured", ai.ErrCollaborator)
}

func requireExtractor(extractor ai.Extractor) ai.Extractor {
	if extractor == nil {
		return unavailableExtractor{}
	}
	return extractor
}

type unavailableNarrator struct{}

func (unavailableNarrator) Narrate(ctx context.Context, briefingCtx *types.BriefingContext) (*types.Briefing, error) {
	return nil, fmt.Errorf("%w: no narration provider configured", ai.ErrCollaborator)
}

func requireNarrator(narrator ai.Narrator) ai.Narrator {
	if narrator == nil {
		return unavailableNarrator{}
	}
	return narrator
}
