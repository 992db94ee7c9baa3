package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voxrelay/voxrelay/internal/api"
	"github.com/voxrelay/voxrelay/internal/config"
	"github.com/voxrelay/voxrelay/internal/services"
	"github.com/voxrelay/voxrelay/internal/store"
	"github.com/voxrelay/voxrelay/internal/worker"
)

func main() {
	log.Println("Starting voxrelay API...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Audio store: Redis when configured, in-process map otherwise
	var audios store.AudioStore
	if cfg.RedisURL != "" {
		redisStore, err := store.NewRedisStore(cfg.RedisURL, cfg.Retention)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisStore.Close()
		audios = redisStore
		log.Println("Audio store: Redis (TTL eviction)")
	} else {
		audios = store.NewMemoryStore(cfg.Retention)
		log.Printf("Audio store: in-memory (retention: %v)", cfg.Retention)
	}

	voices := store.NewVoiceRegistry()

	// Build the provider chain in priority order. The primary speech service
	// handles its own local-host fallback for connection failures; the
	// translation engine catches everything else; the orchestrator's static
	// placeholder is the floor.
	var providers []services.TTSService
	var speech *services.SpeechService
	if cfg.OpenAIKey != "" || cfg.LocalTTSURL != "" {
		speech = services.NewSpeechService(cfg.OpenAIKey, cfg.OpenAITTSURL, cfg.LocalTTSURL)
		providers = append(providers, speech)
		log.Printf("TTS provider: OpenAI-compatible (local fallback: %v)", cfg.LocalTTSURL != "")
	}
	providers = append(providers, services.NewTranslateService(cfg.TranslateLang))
	if cfg.GeminiKey != "" {
		providers = append(providers, services.NewGeminiSpeechService(cfg.GeminiKey, "", ""))
		log.Println("TTS provider: Gemini speech enabled")
	}
	chain := services.NewChain(providers...)
	log.Printf("Fallback chain ready (%d providers + placeholder)", chain.Providers())

	// Create API handler
	handler := api.NewHandler(chain, speech, audios, voices, cfg.MaxTextLength)
	router := api.NewRouter(handler, api.RouterConfig{
		APIKey:             cfg.APIKey,
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
	})

	if cfg.APIKey != "" {
		log.Println("API key authentication enabled")
	} else {
		log.Println("WARNING: No API_KEY set — API is unprotected (dev mode)")
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	sweeper := worker.NewSweeper(audios, cfg.SweepInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sweeper.Start(gctx)
		return nil
	})

	g.Go(func() error {
		log.Printf("API server listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server exited")
}
