package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scrapp/internal/agent"
	"scrapp/internal/config"
	"scrapp/internal/database"
	"scrapp/internal/handlers"
	"scrapp/internal/pubmed"
	"scrapp/internal/router"
)

func main() {
	log.Println("🚀 Starting Scrapp Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Optional Redis Cache ────
	var cache pubmed.Cache
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		cache = pubmed.NewRedisCache(redisClient, time.Duration(cfg.PubMedCacheTTLSecs)*time.Second)
		log.Println("✓ Redis connected (PubMed cache enabled)")
	} else {
		log.Println("- Redis not configured, PubMed cache disabled")
	}

	// ──── Step 3: PubMed E-utilities Client ────
	pubmedClient := pubmed.NewClient(cfg.PubMedRatePerSec, cache)
	log.Println("✓ PubMed E-utilities client initialized")

	// ──── Step 4: Chat Providers ────
	var provider agent.Provider = agent.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	log.Printf("✓ OpenAI provider initialized (%s)", cfg.OpenAIModel)

	if cfg.GeminiAPIKey != "" {
		gemini, err := agent.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer gemini.Close()
		provider = agent.NewFallbackProvider(provider, gemini)
		log.Printf("✓ Gemini fallback enabled (%s)", cfg.GeminiModel)
	}

	chatAgent := agent.New(provider, pubmedClient)

	// ──── Step 5: HTTP Server ────
	chatHandler := handlers.NewChatHandler(chatAgent)
	r := router.New(chatHandler, cfg.FrontendURL, cfg.ChatRateLimitPerMin)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No WriteTimeout: a chat turn can sit in the model and the
		// E-utilities calls well past any sane response deadline.
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Scrapp Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/chat", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
