package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig holds settings for the API router.
// Passed from main.go so the router can configure CORS and auth from env vars.
type RouterConfig struct {
	// APIKey is the key that must be provided in X-API-Key or
	// Authorization: Bearer <key> on mutating endpoints.
	// If empty, auth middleware is skipped (development mode).
	APIKey string

	// CorsAllowedOrigins is a comma-separated list of allowed origins.
	// If empty, defaults to "*" (development mode).
	CorsAllowedOrigins string
}

func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (applied to all routes including /health)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// CORS: restrict origins when configured, otherwise allow all (dev mode)
	allowedOrigins := []string{"*"}
	if cfg.CorsAllowedOrigins != "" {
		origins := strings.Split(cfg.CorsAllowedOrigins, ",")
		trimmed := make([]string, 0, len(origins))
		for _, o := range origins {
			if s := strings.TrimSpace(o); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			allowedOrigins = trimmed
		}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Auth guards only the mutating endpoints; reads stay public
	protect := func(next http.Handler) http.Handler { return next }
	if cfg.APIKey != "" {
		protect = APIKeyAuth(cfg.APIKey)
	}

	// Public reads
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/download/{audioID}", h.Download)
	r.Get("/info/{audioID}", h.Info)
	r.Get("/voices", h.ListVoices)
	r.Get("/tts/voices", h.ListVoices)

	// Generation and uploads
	r.With(protect).Post("/tts/generate", h.Generate)
	r.With(protect).Post("/tts/clone-voice", h.CloneVoice)
	r.With(protect).Post("/voice/upload", h.CloneVoice)

	// Unmatched routes get the endpoint listing
	r.NotFound(h.NotFound)

	return r
}
