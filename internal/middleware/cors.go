package middleware

import (
	"log/slog"
	"net/http"

	"lunarbase-server/internal/shared/config"
	"lunarbase-server/internal/shared/response"

	"github.com/rs/cors"
)

type CORSMiddleware struct {
	*cors.Cors
}

var corsMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}

func NewCORS(cfg config.FrontendConfig) *CORSMiddleware {
	logger := slog.With("component", "cors", "operation", "setup")

	allowedOrigins := []string{cfg.URL}

	corsConfig := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   corsMethods,
		AllowedHeaders:   []string{"Content-Type", "Authorization", response.RequestIDHeader},
		ExposedHeaders:   []string{response.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		Debug:            cfg.CORSDebug,
	})

	logger.Info("CORS middleware configured",
		"allowed_origins", allowedOrigins,
		"allowed_methods", corsMethods,
		"debug_mode", cfg.CORSDebug,
	)

	return &CORSMiddleware{corsConfig}
}

func (c *CORSMiddleware) Middleware(h http.Handler) http.Handler {
	return c.Cors.Handler(h)
}
